package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/config"
	"github.com/nellarium/tokenfarm/internal/domain/models"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

// Backend is the part of an Ethereum client the adapter needs
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Dialer opens a backend for an RPC URL
type Dialer func(ctx context.Context, rpcURL string) (Backend, error)

// DialRPC dials an ethclient
func DialRPC(ctx context.Context, rpcURL string) (Backend, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// ClientAdapter implements usecase.ChainClient on top of go-ethereum bindings.
// The RPC connection is opened on first use.
type ClientAdapter struct {
	network       *domain.Network
	timeout       time.Duration
	confirmations uint64
	pollInterval  time.Duration
	dial          Dialer
	log           *slog.Logger

	mu      sync.Mutex
	backend Backend
	chainID uint64
}

// NewClientAdapter creates a chain client for the active network
func NewClientAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *ClientAdapter {
	return NewClientAdapterWithDialer(cfg, DialRPC, log)
}

// NewClientAdapterWithDialer creates a chain client that connects through dial
func NewClientAdapterWithDialer(cfg *config.RuntimeConfig, dial Dialer, log *slog.Logger) *ClientAdapter {
	confirmations := cfg.Confirmations
	if confirmations == 0 {
		confirmations = 1
	}
	return &ClientAdapter{
		network:       cfg.Network,
		timeout:       cfg.Timeout,
		confirmations: confirmations,
		pollInterval:  time.Second,
		dial:          dial,
		log:           log.With("component", "chain"),
	}
}

// connect dials the RPC once and checks the reported chain ID
func (c *ClientAdapter) connect(ctx context.Context) (Backend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.backend != nil {
		return c.backend, nil
	}
	if c.network == nil || c.network.RPCURL == "" {
		return nil, fmt.Errorf("no RPC endpoint configured for the active network")
	}

	backend, err := c.dial(ctx, c.network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	networkChainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	// If chainID was 0, use the network's chain ID
	if c.network.ChainID != 0 && networkChainID.Uint64() != c.network.ChainID {
		return nil, fmt.Errorf("%w: %s expects %d, RPC reports %d",
			domain.ErrChainIDMismatch, c.network.Name, c.network.ChainID, networkChainID.Uint64())
	}

	c.backend = backend
	c.chainID = networkChainID.Uint64()
	c.log.Debug("connected", "network", c.network.Name, "chain_id", c.chainID)
	return backend, nil
}

// ChainID returns the chain ID reported by the RPC
func (c *ClientAdapter) ChainID(ctx context.Context) (uint64, error) {
	if _, err := c.connect(ctx); err != nil {
		return 0, err
	}
	return c.chainID, nil
}

// Deploy sends a contract creation and waits for its confirmations
func (c *ClientAdapter) Deploy(ctx context.Context, account *models.Account, artifact *models.Artifact, args ...any) (*models.Receipt, error) {
	backend, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	address, tx, _, err := bind.DeployContract(c.transactOpts(ctx, account), artifact.ABI, artifact.Bytecode, backend, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", artifact.Name, wrapRevert(err))
	}

	c.log.Debug("deployment submitted", "contract", artifact.Name, "tx", tx.Hash().Hex())
	receipt, err := c.wait(ctx, backend, tx, artifact.Name, "constructor")
	if err != nil {
		return nil, err
	}
	receipt.ContractAddress = address
	return receipt, nil
}

// Transact sends a state-changing call and waits for its confirmations
func (c *ClientAdapter) Transact(ctx context.Context, account *models.Account, contract *models.Contract, method string, args ...any) (*models.Receipt, error) {
	backend, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	bound := bind.NewBoundContract(contract.Address, *contract.ABI, backend, backend, backend)
	tx, err := bound.Transact(c.transactOpts(ctx, account), method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s.%s failed: %w", contract.Name, method, wrapRevert(err))
	}

	c.log.Debug("transaction submitted", "contract", contract.Name, "method", method, "tx", tx.Hash().Hex())
	return c.wait(ctx, backend, tx, contract.Name, method)
}

// Call executes a view method and returns its decoded outputs
func (c *ClientAdapter) Call(ctx context.Context, contract *models.Contract, method string, args ...any) ([]any, error) {
	backend, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	bound := bind.NewBoundContract(contract.Address, *contract.ABI, backend, backend, backend)
	var out []any
	if err := bound.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, fmt.Errorf("%s.%s: %w", contract.Name, method, wrapRevert(err))
	}
	return out, nil
}

// HasCode reports whether an address holds contract code
func (c *ClientAdapter) HasCode(ctx context.Context, address common.Address) (bool, error) {
	backend, err := c.connect(ctx)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	code, err := backend.CodeAt(ctx, address, nil)
	if err != nil {
		return false, fmt.Errorf("failed to check code at %s: %w", address.Hex(), err)
	}
	return len(code) > 0, nil
}

func (c *ClientAdapter) transactOpts(ctx context.Context, account *models.Account) *bind.TransactOpts {
	opts := *account.Opts
	opts.Context = ctx
	return &opts
}

// wait blocks until tx is mined with a successful status and buried under
// the configured number of confirmations
func (c *ClientAdapter) wait(ctx context.Context, backend Backend, tx *types.Transaction, contract, method string) (*models.Receipt, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for %s.%s (tx %s): %w", contract, method, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, domain.TxRevertedErr{Contract: contract, Method: method, TxHash: tx.Hash().Hex()}
	}

	block := receipt.BlockNumber.Uint64()
	if err := c.waitConfirmations(ctx, backend, block); err != nil {
		return nil, fmt.Errorf("failed to confirm %s.%s (tx %s): %w", contract, method, tx.Hash().Hex(), err)
	}

	c.log.Debug("transaction confirmed",
		slog.String("contract", contract),
		slog.String("method", method),
		slog.String("tx", tx.Hash().Hex()),
		slog.Uint64("block", block),
	)

	return &models.Receipt{
		TxHash:          tx.Hash(),
		BlockNumber:     block,
		GasUsed:         receipt.GasUsed,
		ContractAddress: receipt.ContractAddress,
	}, nil
}

// waitConfirmations polls the head until block has c.confirmations blocks on top, itself included
func (c *ClientAdapter) waitConfirmations(ctx context.Context, backend Backend, block uint64) error {
	if c.confirmations <= 1 {
		return nil
	}
	target := block + c.confirmations - 1

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		head, err := backend.BlockNumber(ctx)
		if err != nil {
			return err
		}
		if head >= target {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// wrapRevert tags RPC-level execution reverts with domain.ErrTransactionReverted
func wrapRevert(err error) error {
	if err == nil || errors.Is(err, domain.ErrTransactionReverted) {
		return err
	}
	if strings.Contains(strings.ToLower(err.Error()), "revert") {
		return fmt.Errorf("%w: %w", domain.ErrTransactionReverted, err)
	}
	return err
}

// Ensure the adapter implements the interface
var _ usecase.ChainClient = (*ClientAdapter)(nil)
