// Package cmd provides the CLI commands for rwalk.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bethropolis/rwalk/internal/app"
	"github.com/bethropolis/rwalk/internal/config"
)

// NewRootCmd creates the root command for the rwalk CLI.
func NewRootCmd() *cobra.Command {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "rwalk [root]",
		Short: "List a directory tree, honoring gitignore rules",
		Long: `rwalk walks a directory depth-first and prints every entry that is not
excluded by .gitignore, .ignore, git's info/exclude and core.excludesFile,
extra ignore patterns or override globs.

Settings can also be kept in a .rwalk.yaml file in the walk root; flags
given on the command line take precedence over it.`,
		Version:       cfg.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.RootDir = args[0]
			}
			return withApp(cmd, cfg, func(a *app.App) error {
				return a.Run(cmd.Context())
			})
		},
	}

	cmd.SetVersionTemplate("rwalk version {{.Version}}\n")
	cfg.BindFlags(cmd.Flags())

	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newLintCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// withApp loads the config file, builds the application and runs fn.
func withApp(cmd *cobra.Command, cfg *config.Config, fn func(a *app.App) error) error {
	if err := cfg.Load(cmd.Flags()); err != nil {
		return err
	}

	a, err := app.New(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}
