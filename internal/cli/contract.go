package cli

import (
	"github.com/spf13/cobra"

	"github.com/nellarium/tokenfarm/internal/cli/render"
	"github.com/nellarium/tokenfarm/internal/domain"
)

// NewContractCmd creates the contract command group
func NewContractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Resolve external contracts",
	}

	cmd.AddCommand(newContractGetCmd())
	return cmd
}

func newContractGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Print the address a contract key resolves to",
		Long: `Resolve one of the contract keys the farm depends on:

  eth_usd_price_feed, dai_usd_price_feed, dai_token, weth_token

Local and forked networks resolve to the newest mock, deploying the mocks when
none are live. Live networks read the address from tokenfarm.yaml. Without a
key an interactive picker is shown.`,
		Args:        cobra.MaximumNArgs(1),
		ValidArgs:   domain.ContractKeys(),
		Annotations: needsNode,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				keys := domain.ContractKeys()
				idx, err := app.Selector.Select(cmd.Context(), "Select a contract", keys)
				if err != nil {
					return err
				}
				key = keys[idx]
			}

			contract, err := app.GetContract.Run(cmd.Context(), key)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), map[string]any{
					"key":      key,
					"contract": contract,
				})
			}
			return render.NewDeployRenderer(cmd.OutOrStdout()).RenderContractKey(key, contract)
		},
	}
}
