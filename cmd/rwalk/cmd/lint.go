package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bethropolis/rwalk/internal/app"
	"github.com/bethropolis/rwalk/internal/config"
)

// newLintCmd creates the lint command.
func newLintCmd() *cobra.Command {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "lint <file>...",
		Short: "Check ignore files for invalid or ineffective patterns",
		Long: `Lint compiles every pattern of the given ignore files and reports
syntax errors, duplicate patterns and re-includes that cannot take effect.
It exits non-zero when any file has errors.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(a *app.App) error {
				return a.Lint(args)
			})
		},
	}

	cfg.BindLogFlags(cmd.Flags())
	cmd.Flags().BoolVarP(&cfg.CaseInsensitive, "ignore-case", "i", cfg.CaseInsensitive, "Compile patterns case-insensitively")

	return cmd
}
