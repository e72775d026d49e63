package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/config"
	"github.com/nellarium/tokenfarm/internal/domain/models"
)

// GetAccount selects the signing account for the active network
type GetAccount struct {
	cfg    *config.RuntimeConfig
	chain  ChainClient
	loader AccountLoader
	log    *slog.Logger

	mu       sync.Mutex
	fallback *models.Account
}

// NewGetAccount creates a new GetAccount use case
func NewGetAccount(cfg *config.RuntimeConfig, chain ChainClient, loader AccountLoader, log *slog.Logger) *GetAccount {
	return &GetAccount{
		cfg:    cfg,
		chain:  chain,
		loader: loader,
		log:    log,
	}
}

// Run resolves, in order: mnemonic index, keystore id, the node's first
// account on local and forked networks, and wallets.from_key elsewhere.
func (uc *GetAccount) Run(ctx context.Context, query domain.AccountQuery) (*models.Account, error) {
	if query.Index == nil && query.ID == "" {
		return uc.defaultAccount(ctx)
	}

	chainID, err := uc.chain.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	network := uc.cfg.Network
	switch {
	case query.Index != nil:
		if *query.Index < 0 {
			return nil, fmt.Errorf("account index must not be negative, got %d", *query.Index)
		}
		if network.Mnemonic == "" {
			return nil, fmt.Errorf("network %s has no mnemonic to derive account %d from", network.Name, *query.Index)
		}
		return uc.loader.FromMnemonic(ctx, network.Mnemonic, *query.Index, chainID)
	default:
		return uc.loader.FromKeystore(ctx, query.ID, chainID)
	}
}

// defaultAccount is resolved once per process
func (uc *GetAccount) defaultAccount(ctx context.Context) (*models.Account, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.fallback != nil {
		return uc.fallback, nil
	}

	chainID, err := uc.chain.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	network := uc.cfg.Network
	var account *models.Account
	if network.UsesDevAccounts() {
		account, err = uc.loader.FromMnemonic(ctx, network.Mnemonic, 0, chainID)
	} else {
		key := uc.cfg.Project.Wallets.FromKey
		if key == "" {
			return nil, fmt.Errorf("%w: set wallets.from_key for network %s", domain.ErrMissingPrivateKey, network.Name)
		}
		account, err = uc.loader.FromPrivateKey(ctx, key, chainID)
	}
	if err != nil {
		return nil, err
	}

	uc.log.Debug("selected account",
		slog.String("address", account.Address.Hex()),
		slog.String("source", string(account.Source)),
	)
	uc.fallback = account
	return account, nil
}
