package cli

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/nellarium/tokenfarm/internal/cli/render"
	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

const tokenHelp = `TOKEN is nel, dai, weth, a contract key such as dai_token, or an address.`

// NewStakeCmd creates the stake command
func NewStakeCmd() *cobra.Command {
	flags := &accountFlags{}

	cmd := &cobra.Command{
		Use:   "stake TOKEN AMOUNT",
		Short: "Approve and stake tokens in the farm",
		Long: `Approve the farm to spend AMOUNT of TOKEN, then stake it.

` + tokenHelp + `
AMOUNT is in wei unless suffixed with ether or gwei.`,
		Example: `  tokenfarm stake nel 1ether
  tokenfarm stake dai 250.5ether --index 1`,
		Args:        cobra.ExactArgs(2),
		Annotations: needsNode,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			amount, err := ParseAmount(args[1])
			if err != nil {
				return err
			}

			result, err := app.Stake.Run(cmd.Context(), usecase.StakeParams{
				Token:   args[0],
				Amount:  amount,
				Account: flags.query(cmd),
			})
			if err != nil {
				return err
			}
			return output(cmd, app, result, render.NewFarmRenderer(cmd.OutOrStdout()).RenderStake)
		},
	}

	addAccountFlags(cmd, flags)
	return cmd
}

// NewUnstakeCmd creates the unstake command
func NewUnstakeCmd() *cobra.Command {
	flags := &accountFlags{}

	cmd := &cobra.Command{
		Use:   "unstake TOKEN",
		Short: "Withdraw the whole staking balance of a token",
		Long: `Withdraw the whole staking balance of TOKEN.

` + tokenHelp,
		Args:        cobra.ExactArgs(1),
		Annotations: needsNode,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.Unstake.Run(cmd.Context(), usecase.FarmTxParams{
				Token:   args[0],
				Account: flags.query(cmd),
			})
			if err != nil {
				return err
			}
			return output(cmd, app, result, render.NewFarmRenderer(cmd.OutOrStdout()).RenderTx)
		},
	}

	addAccountFlags(cmd, flags)
	return cmd
}

// NewIssueCmd creates the issue command
func NewIssueCmd() *cobra.Command {
	flags := &accountFlags{}

	cmd := &cobra.Command{
		Use:         "issue",
		Short:       "Issue NEL rewards to every staker (farm owner only)",
		Args:        cobra.NoArgs,
		Annotations: needsNode,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.IssueTokens.Run(cmd.Context(), flags.query(cmd))
			if err != nil {
				return err
			}
			return output(cmd, app, result, render.NewFarmRenderer(cmd.OutOrStdout()).RenderTx)
		},
	}

	addAccountFlags(cmd, flags)
	return cmd
}

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the farm's allowed tokens and a user's stake",
		Long: `Show the allowed tokens with their prices, and the stake, staked value
and NEL balance of a user. The user defaults to the signing account.`,
		Args:        cobra.NoArgs,
		Annotations: needsNode,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var address *common.Address
			if user != "" {
				if !common.IsHexAddress(user) {
					return fmt.Errorf("%w: %s", domain.ErrInvalidAddress, user)
				}
				a := common.HexToAddress(user)
				address = &a
			}

			result, err := app.FarmStatus.Run(cmd.Context(), address)
			if err != nil {
				return err
			}
			return output(cmd, app, result, render.NewFarmRenderer(cmd.OutOrStdout()).RenderStatus)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Address to report on (defaults to the signing account)")
	return cmd
}
