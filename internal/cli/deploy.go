package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nellarium/tokenfarm/internal/cli/render"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

// Deployment targets
const (
	deployAll       = "all"
	deployNellarium = "nellarium"
	deployTokenFarm = "token-farm"
	deployMocks     = "mocks"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy [all|nellarium|token-farm|mocks]",
		Short: "Deploy the farm contracts",
		Long: `Deploy contracts to the active network.

  all          Nellarium, then TokenFarm (default)
  nellarium    the NEL token only
  token-farm   TokenFarm against the newest NEL: funds it with all but 100 NEL
               and allows NEL, DAI and WETH with their price feeds
  mocks        the price feed, DAI and WETH mocks (local and forked networks)`,
		Example: `  tokenfarm deploy
  tokenfarm deploy token-farm --network kovan`,
		Args:        cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs:   []string{deployAll, deployNellarium, deployTokenFarm, deployMocks},
		Annotations: needsNode,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			target := deployAll
			if len(args) == 1 {
				target = args[0]
			}

			renderer := render.NewDeployRenderer(cmd.OutOrStdout())
			ctx := cmd.Context()

			switch target {
			case deployAll:
				result, err := app.DeployAll.Run(ctx)
				if err != nil {
					return err
				}
				return output(cmd, app, result, renderer.RenderFarm)
			case deployNellarium:
				result, err := app.DeployNellarium.Run(ctx)
				if err != nil {
					return err
				}
				return output(cmd, app, result, renderer.RenderContract)
			case deployTokenFarm:
				result, err := app.DeployTokenFarm.Run(ctx)
				if err != nil {
					return err
				}
				return output(cmd, app, result, renderer.RenderFarm)
			case deployMocks:
				if !app.Config.Network.UsesMocks() {
					return fmt.Errorf("mocks are only deployed on local and forked networks, %s is %s", app.Config.Network.Name, app.Config.Network.Kind)
				}
				result, err := app.DeployMocks.Run(ctx, usecase.DeployMocksParams{})
				if err != nil {
					return err
				}
				return output(cmd, app, result, renderer.RenderMocks)
			}
			return fmt.Errorf("unknown deploy target: %s", target)
		},
	}

	return cmd
}

// NewFrontendCmd creates the frontend command group
func NewFrontendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frontend",
		Short: "Front-end integration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "update",
		Short: "Copy build output and configuration to the front end",
		Long: `Replace <front_end.dir>/chain-info with the build directory and write
tokenfarm.yaml as JSON next to it. Environment references in the project file
are written as-is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.UpdateFrontEnd.Run(cmd.Context())
			if err != nil {
				return err
			}
			return output(cmd, app, result, render.NewDeployRenderer(cmd.OutOrStdout()).RenderFrontEnd)
		},
	})

	return cmd
}
