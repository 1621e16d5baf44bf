// Package commands implements the oragrammar CLI.
package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/oragrammar/internal/config"
	"github.com/satishbabariya/oragrammar/internal/debug"
	"github.com/satishbabariya/oragrammar/internal/ui"
	"github.com/satishbabariya/oragrammar/internal/version"
)

type rootOptions struct {
	configPath string
	debug      bool
	cfg        *config.Config
}

// NewRootCommand creates the oragrammar root command.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "oragrammar",
		Short:         "Compile query documents into Oracle SQL",
		Long:          "oragrammar compiles select, insert and truncate descriptions into SQL for Oracle, emulating LIMIT/OFFSET with ROWNUM and batch inserts with UNION ALL ... FROM DUAL.",
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug.Init(opts.debug)

			cfg, err := config.LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if err := version.Check(version.Version, cfg.RequiredVersion); err != nil {
				return err
			}
			opts.cfg = cfg

			debug.Debug("config loaded", "file", cfg.File, "dialect", cfg.Dialect)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (default: search for .oragrammar.yaml)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging to stderr")

	cmd.AddCommand(newCompileCommand(opts))
	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// Execute runs the CLI until it finishes or receives SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		ui.PrintError(root.ErrOrStderr(), "%v", err)
		return err
	}
	return nil
}
