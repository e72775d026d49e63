package cli

import (
	"github.com/spf13/cobra"

	"github.com/nellarium/tokenfarm/internal/cli/render"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

// NewDeploymentsCmd creates the deployments command
func NewDeploymentsCmd() *cobra.Command {
	var (
		contract  string
		allChains bool
	)

	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"ls"},
		Short:   "List recorded deployments",
		Long: `List the deployments recorded in the build directory, newest first.

Only the active network's chain is listed unless --all is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ListDeploymentsParams{ContractName: contract}
			if !allChains {
				params.ChainID = app.Config.Network.ChainID
			}

			result, err := app.ListDeployments.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			return output(cmd, app, result, render.NewDeploymentsRenderer(cmd.OutOrStdout()).RenderDeploymentList)
		},
	}

	cmd.Flags().StringVar(&contract, "contract", "", "Only list deployments of this contract")
	cmd.Flags().BoolVar(&allChains, "all", false, "List deployments of every chain")

	cmd.AddCommand(newPruneCmd())
	return cmd
}
