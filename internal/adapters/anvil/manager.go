package anvil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

const (
	DefaultAnvilPort = "8545"
	defaultName      = "anvil"
	stopTimeout      = 5 * time.Second
)

// rpcRequest represents a JSON-RPC request
type rpcRequest struct {
	Jsonrpc string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

// rpcResponse represents a JSON-RPC response
type rpcResponse struct {
	Jsonrpc string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *rpcError   `json:"error,omitempty"`
	ID      int         `json:"id"`
}

// rpcError represents a JSON-RPC error
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Manager runs anvil processes tracked through PID files
type Manager struct {
	binary string
	client *http.Client
	log    *slog.Logger
}

// NewManager creates a new anvil manager
func NewManager(log *slog.Logger) *Manager {
	return &Manager{
		binary: "anvil",
		client: &http.Client{Timeout: 5 * time.Second},
		log:    log.With("component", "anvil"),
	}
}

// setFilePaths fills in defaults for the instance name, port and file locations
func (m *Manager) setFilePaths(instance *domain.NodeInstance) {
	if strings.TrimSpace(instance.Name) == "" {
		instance.Name = defaultName
	}
	if strings.TrimSpace(instance.Port) == "" {
		instance.Port = DefaultAnvilPort
	}
	if instance.PidFile == "" {
		instance.PidFile = filepath.Join(os.TempDir(), fmt.Sprintf("tokenfarm-%s.pid", instance.Name))
	}
	if instance.LogFile == "" {
		instance.LogFile = filepath.Join(os.TempDir(), fmt.Sprintf("tokenfarm-%s.log", instance.Name))
	}
}

// buildAnvilArgs builds the command line for an instance
func buildAnvilArgs(instance *domain.NodeInstance) []string {
	args := []string{"--port", instance.Port, "--host", "0.0.0.0"}
	if instance.ChainID != "" {
		args = append(args, "--chain-id", instance.ChainID)
	}
	if instance.Mnemonic != "" {
		args = append(args, "--mnemonic", instance.Mnemonic)
	}
	if instance.ForkURL != "" {
		args = append(args, "--fork-url", instance.ForkURL)
	}
	return args
}

// Start launches anvil in the background and records its PID
func (m *Manager) Start(ctx context.Context, instance *domain.NodeInstance) error {
	m.setFilePaths(instance)
	if m.isRunning(instance) {
		return fmt.Errorf("anvil '%s' is already running (PID file exists at %s)", instance.Name, instance.PidFile)
	}

	logFile, err := os.Create(instance.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(m.binary, buildAnvilArgs(instance)...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start anvil: %w", err)
	}

	pid := cmd.Process.Pid
	if err := writePidFile(instance.PidFile, pid); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	// The node outlives this process; release it instead of waiting
	if err := cmd.Process.Release(); err != nil {
		m.log.Debug("failed to release anvil process", "error", err)
	}

	m.log.Debug("anvil started", "name", instance.Name, "pid", pid, "port", instance.Port)
	return nil
}

// Stop terminates the instance, killing it when SIGTERM is not honoured in time
func (m *Manager) Stop(ctx context.Context, instance *domain.NodeInstance) error {
	m.setFilePaths(instance)
	if !m.isRunning(instance) {
		return removePidFile(instance.PidFile)
	}

	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return fmt.Errorf("failed to read PID file: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}

	// Wait for process to actually exit (with timeout)
	deadline := time.Now().Add(stopTimeout)
	for processAlive(process) {
		if time.Now().After(deadline) {
			// Force kill if SIGTERM didn't work in time
			_ = process.Kill()
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}

	m.log.Debug("anvil stopped", "name", instance.Name, "pid", pid)
	return removePidFile(instance.PidFile)
}

// GetStatus reports whether the process is alive and its RPC answers
func (m *Manager) GetStatus(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error) {
	m.setFilePaths(instance)

	status := &domain.NodeStatus{
		Running: m.isRunning(instance),
		RPCURL:  rpcURL(instance),
		LogFile: instance.LogFile,
	}
	if status.Running {
		status.PID, _ = readPidFile(instance.PidFile)
	}

	// The RPC may answer without a PID file when the node was started elsewhere
	result, err := m.rpcCall(ctx, instance, "eth_chainId")
	if err != nil {
		status.Error = err.Error()
		return status, nil
	}
	status.RPCHealthy = true
	if hex, ok := result.(string); ok {
		if chainID, err := hexutil.DecodeUint64(hex); err == nil {
			status.ChainID = chainID
		}
	}
	return status, nil
}

// StreamLogs follows the instance log file until ctx is cancelled
func (m *Manager) StreamLogs(ctx context.Context, instance *domain.NodeInstance, writer io.Writer) error {
	m.setFilePaths(instance)
	if _, err := os.Stat(instance.LogFile); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("log file does not exist: %s", instance.LogFile)
	}

	cmd := exec.CommandContext(ctx, "tail", "-n", "+1", "-f", instance.LogFile)
	cmd.Stdout = writer
	cmd.Stderr = writer
	if err := cmd.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to follow logs: %w", err)
	}
	return nil
}

// TakeSnapshot records the chain state and returns the snapshot id
func (m *Manager) TakeSnapshot(ctx context.Context, instance *domain.NodeInstance) (string, error) {
	m.setFilePaths(instance)
	result, err := m.rpcCall(ctx, instance, "evm_snapshot")
	if err != nil {
		return "", fmt.Errorf("failed to take snapshot: %w", err)
	}
	id, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected evm_snapshot result: %v", result)
	}
	return id, nil
}

// RevertSnapshot restores the chain state recorded by TakeSnapshot
func (m *Manager) RevertSnapshot(ctx context.Context, instance *domain.NodeInstance, snapshotID string) error {
	m.setFilePaths(instance)
	result, err := m.rpcCall(ctx, instance, "evm_revert", snapshotID)
	if err != nil {
		return fmt.Errorf("failed to revert snapshot: %w", err)
	}
	if ok, _ := result.(bool); !ok {
		return fmt.Errorf("evm_revert returned false for snapshot %s", snapshotID)
	}
	return nil
}

// isRunning checks if this instance is running by checking its PID file
func (m *Manager) isRunning(instance *domain.NodeInstance) bool {
	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return processAlive(process)
}

func processAlive(process *os.Process) bool {
	return process.Signal(syscall.Signal(0)) == nil
}

func rpcURL(instance *domain.NodeInstance) string {
	return fmt.Sprintf("http://127.0.0.1:%s", instance.Port)
}

// rpcCall makes a JSON-RPC call against the instance and returns its result
func (m *Manager) rpcCall(ctx context.Context, instance *domain.NodeInstance, method string, params ...interface{}) (interface{}, error) {
	if params == nil {
		params = []interface{}{}
	}
	jsonData, err := json.Marshal(rpcRequest{Jsonrpc: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rpcURL(instance), bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d", httpResp.StatusCode)
	}

	var resp rpcResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("RPC error: %s", resp.Error.Message)
	}
	return resp.Result, nil
}

// readPidFile reads the PID from a PID file
func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %s", string(data))
	}
	return pid, nil
}

// writePidFile writes the PID to a PID file
func writePidFile(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644)
}

func removePidFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// Ensure the manager implements the interface
var _ usecase.NodeManager = (*Manager)(nil)
