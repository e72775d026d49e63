package render

import (
	"fmt"
	"io"

	"github.com/nellarium/tokenfarm/internal/usecase"
)

// NodeRenderer renders local node operation results
type NodeRenderer struct {
	out io.Writer
}

// NewNodeRenderer creates a new node renderer
func NewNodeRenderer(out io.Writer) *NodeRenderer {
	return &NodeRenderer{out: out}
}

// Render renders the node operation result
func (r *NodeRenderer) Render(result *usecase.ManageNodeResult) error {
	switch result.Operation {
	case usecase.NodeStart, usecase.NodeRestart:
		return r.renderStart(result)
	case usecase.NodeStop, usecase.NodeSnapshot, usecase.NodeRevert:
		fmt.Fprintln(r.out, FormatSuccess(result.Message))
		return nil
	case usecase.NodeStatus:
		return r.renderStatus(result)
	default:
		return fmt.Errorf("unknown operation: %s", result.Operation)
	}
}

// renderStart renders the start operation result
func (r *NodeRenderer) renderStart(result *usecase.ManageNodeResult) error {
	fmt.Fprintln(r.out, FormatSuccess(result.Message))
	if result.Status == nil {
		return nil
	}
	warnStyle.Fprintf(r.out, "📋 Logs: %s\n", result.Status.LogFile)
	fmt.Fprintf(r.out, "🌐 RPC URL: %s\n", result.Status.RPCURL)
	if result.Status.ChainID != 0 {
		fmt.Fprintf(r.out, "🔗 Chain ID: %d\n", result.Status.ChainID)
	}
	return nil
}

// renderStatus renders the status operation result
func (r *NodeRenderer) renderStatus(result *usecase.ManageNodeResult) error {
	headerStyle.Fprintf(r.out, "📊 Node Status ('%s'):\n", result.Instance.Name)

	status := result.Status
	if !status.Running {
		errStyle.Fprintln(r.out, "Status: 🔴 Not running")
		labelStyle.Fprintf(r.out, "PID file: %s\n", result.Instance.PidFile)
		labelStyle.Fprintf(r.out, "Log file: %s\n", result.Instance.LogFile)
		return nil
	}

	okStyle.Fprintf(r.out, "Status: 🟢 Running (PID %d)\n", status.PID)
	fmt.Fprintf(r.out, "RPC URL: %s\n", status.RPCURL)
	warnStyle.Fprintf(r.out, "Log file: %s\n", status.LogFile)
	if status.RPCHealthy {
		okStyle.Fprintf(r.out, "RPC Health: ✅ Responding (chain %d)\n", status.ChainID)
	} else {
		errStyle.Fprintln(r.out, "RPC Health: ❌ Not responding")
		if status.Error != "" {
			labelStyle.Fprintf(r.out, "  %s\n", status.Error)
		}
	}
	return nil
}

// RenderLogsHeader renders the header for logs streaming
func (r *NodeRenderer) RenderLogsHeader(result *usecase.ManageNodeResult) error {
	headerStyle.Fprintf(r.out, "📋 Showing node '%s' logs (Ctrl+C to exit):\n", result.Instance.Name)
	labelStyle.Fprintf(r.out, "Log file: %s\n\n", result.Instance.LogFile)
	return nil
}
