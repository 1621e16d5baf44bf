package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/oragrammar/internal/ui"
	"github.com/satishbabariya/oragrammar/internal/version"
)

func newVersionCommand() *cobra.Command {
	var constraint string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if constraint == "" {
				fmt.Fprintln(out, version.Get().FullString())
				return nil
			}

			if err := version.Check(version.Version, constraint); err != nil {
				return err
			}
			ui.PrintSuccess(out, "%s satisfies %s", version.Version, constraint)
			return nil
		},
	}

	cmd.Flags().StringVar(&constraint, "check", "", "Exit non-zero unless the version satisfies this constraint")

	return cmd
}
