package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bethropolis/rwalk/internal/app"
	"github.com/bethropolis/rwalk/internal/config"
)

// newCheckCmd creates the check command.
func newCheckCmd() *cobra.Command {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Explain whether paths would be listed",
		Long: `Check reports, for each path, whether a walk of the root would list it.
Ignored paths name the deciding rule (file, line and pattern) or the
ignored parent directory hiding them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(a *app.App) error {
				return a.Check(args)
			})
		},
	}

	cfg.BindFlags(cmd.Flags())
	cmd.Flags().StringVarP(&cfg.RootDir, "root", "C", cfg.RootDir, "Walk root the paths are checked against")

	return cmd
}
