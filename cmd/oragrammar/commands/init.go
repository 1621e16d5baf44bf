package commands

import (
	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/oragrammar/internal/config"
	"github.com/satishbabariya/oragrammar/internal/ui"
)

type initAnswers struct {
	Dialect       string `survey:"dialect"`
	TablePrefix   string `survey:"table_prefix"`
	StrictLocking bool   `survey:"strict_locking"`
}

// newInitCommand creates the init command.
func newInitCommand() *cobra.Command {
	var (
		yes    bool
		global bool
		dir    string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .oragrammar.yaml config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			answers := initAnswers{Dialect: "oracle"}
			if !yes {
				if err := survey.Ask(initQuestions(), &answers); err != nil {
					return err
				}
			}

			target := dir
			if global {
				target = ""
			}

			path, err := config.SaveConfig(&config.Config{
				Dialect:       answers.Dialect,
				TablePrefix:   answers.TablePrefix,
				StrictLocking: answers.StrictLocking,
			}, target)
			if err != nil {
				return err
			}

			ui.PrintSuccess(cmd.OutOrStdout(), "wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept defaults without prompting")
	cmd.Flags().BoolVar(&global, "global", false, "Write to ~/.config/oragrammar instead of --dir")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to write the config file to")

	return cmd
}

func initQuestions() []*survey.Question {
	return []*survey.Question{
		{
			Name: "dialect",
			Prompt: &survey.Select{
				Message: "Dialect:",
				Options: []string{"oracle", "standard"},
				Default: "oracle",
			},
		},
		{
			Name:   "table_prefix",
			Prompt: &survey.Input{Message: "Table prefix (optional):"},
		},
		{
			Name: "strict_locking",
			Prompt: &survey.Confirm{
				Message: "Reject shared locks instead of emitting \"lock in share mode\"?",
				Default: false,
			},
		},
	}
}
