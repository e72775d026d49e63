package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nellarium/tokenfarm/internal/cli/render"
	"github.com/nellarium/tokenfarm/internal/domain"
)

// accountFlags selects the signing account
type accountFlags struct {
	index int
	id    string
}

// addAccountFlags adds the account selection flags to a command
func addAccountFlags(cmd *cobra.Command, flags *accountFlags) {
	cmd.Flags().IntVar(&flags.index, "index", 0, "Account index derived from the network mnemonic")
	cmd.Flags().StringVar(&flags.id, "id", "", "Keystore account id")
	cmd.MarkFlagsMutuallyExclusive("index", "id")
}

// query turns the flags into an account query; --index only counts when given
func (f *accountFlags) query(cmd *cobra.Command) domain.AccountQuery {
	q := domain.AccountQuery{ID: f.id}
	if cmd.Flags().Changed("index") {
		index := f.index
		q.Index = &index
	}
	return q
}

// NewAccountCmd creates the account command
func NewAccountCmd() *cobra.Command {
	flags := &accountFlags{}

	cmd := &cobra.Command{
		Use:   "account",
		Short: "Print the address of the signing account",
		Long: `Print the address of the account transactions are sent from.

Local and forked networks derive accounts from the network mnemonic, so
--index picks one of them. --id loads an encrypted keystore account. Live
networks otherwise use wallets.from_key.`,
		Args:        cobra.NoArgs,
		Annotations: needsNode,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			account, err := app.GetAccount.Run(cmd.Context(), flags.query(cmd))
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), map[string]any{
					"address": account.Address.Hex(),
					"source":  account.Source,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), account.Address.Hex())
			return nil
		},
	}

	addAccountFlags(cmd, flags)
	return cmd
}
