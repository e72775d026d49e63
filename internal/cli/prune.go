package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nellarium/tokenfarm/internal/cli/render"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

// newPruneCmd creates the deployments prune command
func newPruneCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove deployments that no longer exist on-chain",
		Long: `Remove deployment records of the active chain whose address has no code.

Local chains lose their state on restart; this drops the records that point
at contracts which are gone. Records of other chains are left alone.`,
		Args:        cobra.NoArgs,
		Annotations: needsNode,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			// First, collect the stale records
			result, err := app.PruneDeployments.Run(cmd.Context(), usecase.PruneDeploymentsParams{DryRun: true})
			if err != nil {
				return err
			}

			renderer := render.NewDeploymentsRenderer(cmd.OutOrStdout())
			if dryRun || len(result.Stale) == 0 {
				return output(cmd, app, result, renderer.RenderPrune)
			}

			if !app.Config.NonInteractive && !app.Config.JSON {
				if err := renderer.RenderPrune(result); err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), "⚠️  Remove these records? [y/N]: ")
				var response string
				if _, err := fmt.Fscanln(cmd.InOrStdin(), &response); err != nil ||
					strings.ToLower(strings.TrimSpace(response)) != "y" {
					fmt.Fprintln(cmd.OutOrStdout(), "❌ Prune cancelled.")
					return nil
				}
			}

			result, err = app.PruneDeployments.Run(cmd.Context(), usecase.PruneDeploymentsParams{})
			if err != nil {
				return err
			}
			return output(cmd, app, result, renderer.RenderPrune)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only list the stale records")
	return cmd
}
