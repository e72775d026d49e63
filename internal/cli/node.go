package cli

import (
	"github.com/spf13/cobra"

	"github.com/nellarium/tokenfarm/internal/cli/render"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

// NewNodeCmd creates the node command with subcommands
func NewNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage the local anvil node",
		Long: `Manage the anvil node of the active network. Local networks start from the
network mnemonic; forked networks fork the network's fork URL. Networks with
launch: true start their node automatically when a command needs it.`,
	}

	cmd.AddCommand(newNodeOpCmd(usecase.NodeStart, "Start the local node", "Start the node. Fails if it is already running."))
	cmd.AddCommand(newNodeOpCmd(usecase.NodeStop, "Stop the local node", "Stop the node if it is running."))
	cmd.AddCommand(newNodeOpCmd(usecase.NodeRestart, "Restart the local node", "Stop the node if it is running and start it again."))
	cmd.AddCommand(newNodeOpCmd(usecase.NodeStatus, "Show node status", "Show whether the node runs and its RPC answers."))
	cmd.AddCommand(newNodeOpCmd(usecase.NodeLogs, "Show node logs", "Follow the node's log file."))
	cmd.AddCommand(newNodeOpCmd(usecase.NodeSnapshot, "Snapshot the chain state", "Take an evm_snapshot and print its id."))
	cmd.AddCommand(newNodeRevertCmd())

	return cmd
}

func newNodeOpCmd(operation, short, long string) *cobra.Command {
	return &cobra.Command{
		Use:   operation,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNodeCommand(cmd, usecase.ManageNodeParams{Operation: operation})
		},
	}
}

func newNodeRevertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revert SNAPSHOT_ID",
		Short: "Revert the chain to a snapshot",
		Long:  "Revert the chain state with evm_revert. A snapshot can be reverted to once.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNodeCommand(cmd, usecase.ManageNodeParams{Operation: usecase.NodeRevert, SnapshotID: args[0]})
		},
	}
}

// runNodeCommand executes a node management command
func runNodeCommand(cmd *cobra.Command, params usecase.ManageNodeParams) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.ManageNode.Execute(cmd.Context(), params)
	if err != nil {
		return err
	}

	renderer := render.NewNodeRenderer(cmd.OutOrStdout())

	// For logs operation, we need special handling
	if params.Operation == usecase.NodeLogs {
		if err := renderer.RenderLogsHeader(result); err != nil {
			return err
		}
		return app.NodeManager.StreamLogs(cmd.Context(), result.Instance, cmd.OutOrStdout())
	}

	return output(cmd, app, result, renderer.Render)
}
