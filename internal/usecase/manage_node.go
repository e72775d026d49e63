package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/config"
)

// Node operations
const (
	NodeStart    = "start"
	NodeStop     = "stop"
	NodeRestart  = "restart"
	NodeStatus   = "status"
	NodeLogs     = "logs"
	NodeSnapshot = "snapshot"
	NodeRevert   = "revert"
)

// DefaultNodePort is used when the network host carries no port
const DefaultNodePort = "8545"

// ManageNodeParams contains parameters for node operations
type ManageNodeParams struct {
	Operation  string
	SnapshotID string // revert only
}

// ManageNodeResult contains the result of node operations
type ManageNodeResult struct {
	Operation  string
	Instance   *domain.NodeInstance
	Status     *domain.NodeStatus
	SnapshotID string
	Message    string
}

// ManageNode handles the local node of the active network
type ManageNode struct {
	cfg      *config.RuntimeConfig
	manager  NodeManager
	progress ProgressSink
	log      *slog.Logger

	readyTimeout time.Duration
	pollInterval time.Duration
}

// NewManageNode creates a new node management use case
func NewManageNode(cfg *config.RuntimeConfig, manager NodeManager, progress ProgressSink, log *slog.Logger) *ManageNode {
	if progress == nil {
		progress = NopProgress{}
	}
	return &ManageNode{
		cfg:          cfg,
		manager:      manager,
		progress:     progress,
		log:          log,
		readyTimeout: 15 * time.Second,
		pollInterval: 250 * time.Millisecond,
	}
}

// Instance describes the node of the active network
func (m *ManageNode) Instance() (*domain.NodeInstance, error) {
	network := m.cfg.Network
	if !network.UsesDevAccounts() {
		return nil, fmt.Errorf("network %s is %s; a local node only runs for local and forked networks", network.Name, network.Kind)
	}

	port := DefaultNodePort
	if u, err := url.Parse(network.RPCURL); err == nil && u.Port() != "" {
		port = u.Port()
	}

	instance := &domain.NodeInstance{
		Name:     network.Name,
		Port:     port,
		Mnemonic: network.Mnemonic,
	}
	if network.ChainID != 0 {
		instance.ChainID = strconv.FormatUint(network.ChainID, 10)
	}
	if network.Kind == domain.NetworkForked {
		if network.ForkURL == "" {
			return nil, fmt.Errorf("forked network %s has no fork url (networks.%s.fork)", network.Name, network.Name)
		}
		instance.ForkURL = network.ForkURL
	}
	return instance, nil
}

// Execute performs the node management operation
func (m *ManageNode) Execute(ctx context.Context, params ManageNodeParams) (*ManageNodeResult, error) {
	instance, err := m.Instance()
	if err != nil {
		return nil, err
	}

	switch params.Operation {
	case NodeStart:
		return m.start(ctx, instance)
	case NodeStop:
		return m.stop(ctx, instance)
	case NodeRestart:
		return m.restart(ctx, instance)
	case NodeStatus, NodeLogs:
		status, err := m.manager.GetStatus(ctx, instance)
		if err != nil {
			return nil, fmt.Errorf("failed to get status: %w", err)
		}
		return &ManageNodeResult{Operation: params.Operation, Instance: instance, Status: status}, nil
	case NodeSnapshot:
		id, err := m.manager.TakeSnapshot(ctx, instance)
		if err != nil {
			return nil, err
		}
		return &ManageNodeResult{
			Operation:  NodeSnapshot,
			Instance:   instance,
			SnapshotID: id,
			Message:    fmt.Sprintf("Snapshot %s taken", id),
		}, nil
	case NodeRevert:
		if params.SnapshotID == "" {
			return nil, fmt.Errorf("revert needs a snapshot id")
		}
		if err := m.manager.RevertSnapshot(ctx, instance, params.SnapshotID); err != nil {
			return nil, err
		}
		return &ManageNodeResult{
			Operation:  NodeRevert,
			Instance:   instance,
			SnapshotID: params.SnapshotID,
			Message:    fmt.Sprintf("Reverted to snapshot %s", params.SnapshotID),
		}, nil
	default:
		return nil, fmt.Errorf("unknown operation: %s", params.Operation)
	}
}

// EnsureRunning starts the node of a local or forked network with launch: true
// when its RPC does not answer.
func (m *ManageNode) EnsureRunning(ctx context.Context) error {
	network := m.cfg.Network
	if !network.UsesDevAccounts() || !network.Launch {
		return nil
	}
	instance, err := m.Instance()
	if err != nil {
		return err
	}

	status, err := m.manager.GetStatus(ctx, instance)
	if err == nil && status.RPCHealthy {
		return nil
	}

	m.log.Info("launching local node", slog.String("port", instance.Port))
	if status != nil && status.Running {
		// process alive but not answering: replace it
		if err := m.manager.Stop(ctx, instance); err != nil {
			return fmt.Errorf("failed to stop unresponsive node: %w", err)
		}
	}
	_, err = m.start(ctx, instance)
	return err
}

func (m *ManageNode) start(ctx context.Context, instance *domain.NodeInstance) (*ManageNodeResult, error) {
	m.progress.Info(fmt.Sprintf("Starting local node '%s' on port %s", instance.Name, instance.Port))

	status, err := m.manager.GetStatus(ctx, instance)
	if err == nil && status.Running {
		return nil, fmt.Errorf("node '%s' is already running (PID %d)", instance.Name, status.PID)
	}

	if err := m.manager.Start(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to start node: %w", err)
	}

	status, err = m.waitReady(ctx, instance)
	if err != nil {
		return nil, err
	}

	return &ManageNodeResult{
		Operation: NodeStart,
		Instance:  instance,
		Status:    status,
		Message:   fmt.Sprintf("Node '%s' started with PID %d", instance.Name, status.PID),
	}, nil
}

func (m *ManageNode) stop(ctx context.Context, instance *domain.NodeInstance) (*ManageNodeResult, error) {
	m.progress.Info(fmt.Sprintf("Stopping node '%s'", instance.Name))

	status, err := m.manager.GetStatus(ctx, instance)
	if err != nil || !status.Running {
		return &ManageNodeResult{
			Operation: NodeStop,
			Instance:  instance,
			Message:   fmt.Sprintf("Node '%s' is not running", instance.Name),
		}, nil
	}

	if err := m.manager.Stop(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to stop node: %w", err)
	}

	return &ManageNodeResult{
		Operation: NodeStop,
		Instance:  instance,
		Message:   "Node stopped",
	}, nil
}

func (m *ManageNode) restart(ctx context.Context, instance *domain.NodeInstance) (*ManageNodeResult, error) {
	status, err := m.manager.GetStatus(ctx, instance)
	if err == nil && status.Running {
		if err := m.manager.Stop(ctx, instance); err != nil {
			return nil, fmt.Errorf("failed to stop node: %w", err)
		}
	}

	result, err := m.start(ctx, instance)
	if err != nil {
		return nil, err
	}
	result.Operation = NodeRestart
	result.Message = fmt.Sprintf("Node '%s' restarted with PID %d", instance.Name, result.Status.PID)
	return result, nil
}

// waitReady polls the node until its RPC answers
func (m *ManageNode) waitReady(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error) {
	deadline := time.NewTimer(m.readyTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		status, err := m.manager.GetStatus(ctx, instance)
		if err == nil && status.RPCHealthy {
			return status, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, fmt.Errorf("node '%s' did not answer on port %s within %s (see %s)",
				instance.Name, instance.Port, m.readyTimeout, instance.LogFile)
		case <-ticker.C:
		}
	}
}
