package cli

import (
	"github.com/spf13/cobra"

	"github.com/nellarium/tokenfarm/internal/cli/render"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List networks configured in tokenfarm.yaml",
		Long: `List the networks configured in tokenfarm.yaml with their kind (local,
forked or live), chain ID and host. The active network is marked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context())
			if err != nil {
				return err
			}
			return output(cmd, app, result, render.NewNetworksRenderer(cmd.OutOrStdout()).RenderNetworksList)
		},
	}

	return cmd
}
