package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/config"
	"github.com/nellarium/tokenfarm/internal/domain/models"
)

// GetContract resolves a contract key to an instance: the newest mock on
// local and forked networks (deploying mocks when none is live), the
// configured address on live networks.
type GetContract struct {
	cfg     *config.RuntimeConfig
	locator *LocateContract
	mocks   *DeployMocks
	log     *slog.Logger
}

// NewGetContract creates a new GetContract use case
func NewGetContract(cfg *config.RuntimeConfig, locator *LocateContract, mocks *DeployMocks, log *slog.Logger) *GetContract {
	return &GetContract{
		cfg:     cfg,
		locator: locator,
		mocks:   mocks,
		log:     log,
	}
}

// Run resolves the contract key
func (uc *GetContract) Run(ctx context.Context, key string) (*models.Contract, error) {
	mockName, ok := domain.ContractToMock[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s (known keys: %v)", domain.ErrUnknownContractKey, key, domain.ContractKeys())
	}

	if !uc.cfg.Network.UsesMocks() {
		return uc.configured(ctx, key, mockName)
	}

	contract, err := uc.locator.Run(ctx, mockName)
	if err == nil {
		return contract, nil
	}
	if !errors.Is(err, domain.ErrNotDeployed) {
		return nil, err
	}

	uc.log.Debug("no live mock, deploying mocks", slog.String("contract", mockName))
	if _, err := uc.mocks.Run(ctx, DeployMocksParams{}); err != nil {
		return nil, err
	}
	return uc.locator.Run(ctx, mockName)
}

func (uc *GetContract) configured(ctx context.Context, key, mockName string) (*models.Contract, error) {
	address, ok := uc.cfg.Network.Contracts[key]
	if !ok || address == "" {
		return nil, fmt.Errorf("%w: networks.%s.%s is not set", domain.ErrMissingAddress, uc.cfg.Network.Name, key)
	}
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: networks.%s.%s = %q", domain.ErrInvalidAddress, uc.cfg.Network.Name, key, address)
	}
	return uc.locator.Bind(ctx, mockName, common.HexToAddress(address))
}
