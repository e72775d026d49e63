package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/config"
	"github.com/nellarium/tokenfarm/internal/domain/models"
)

// DeployMocksParams configures the mock price feed. Nil fields take the
// defaults MockDecimals and InitialPriceFeedValue independently.
type DeployMocksParams struct {
	Decimals     *uint8
	InitialValue *big.Int
}

// DeployMocksResult contains the deployed mocks
type DeployMocksResult struct {
	PriceFeed *models.Contract
	DAI       *models.Contract
	WETH      *models.Contract
}

// DeployMocks deploys the stand-ins for external dependencies on local and forked networks
type DeployMocks struct {
	cfg      *config.RuntimeConfig
	accounts *GetAccount
	deployer *DeployContract
	progress ProgressSink
	log      *slog.Logger
}

// NewDeployMocks creates a new DeployMocks use case
func NewDeployMocks(
	cfg *config.RuntimeConfig,
	accounts *GetAccount,
	deployer *DeployContract,
	progress ProgressSink,
	log *slog.Logger,
) *DeployMocks {
	if progress == nil {
		progress = NopProgress{}
	}
	return &DeployMocks{
		cfg:      cfg,
		accounts: accounts,
		deployer: deployer,
		progress: progress,
		log:      log,
	}
}

// Run deploys MockV3Aggregator, MockDAI and MockWETH from the default account
func (uc *DeployMocks) Run(ctx context.Context, params DeployMocksParams) (*DeployMocksResult, error) {
	decimals := domain.MockDecimals
	if params.Decimals != nil {
		decimals = *params.Decimals
	}
	initialValue := domain.InitialPriceFeedValue
	if params.InitialValue != nil {
		initialValue = params.InitialValue
	}

	uc.progress.Info(fmt.Sprintf("The active network is %s", uc.cfg.Network.Name))
	uc.log.Info("deploying mocks", slog.String("network", uc.cfg.Network.Name))

	account, err := uc.accounts.Run(ctx, domain.AccountQuery{})
	if err != nil {
		return nil, err
	}

	priceFeed, err := uc.deploy(ctx, domain.MockV3AggregatorContract, account, decimals, initialValue)
	if err != nil {
		return nil, err
	}
	dai, err := uc.deploy(ctx, domain.MockDAIContract, account)
	if err != nil {
		return nil, err
	}
	weth, err := uc.deploy(ctx, domain.MockWETHContract, account)
	if err != nil {
		return nil, err
	}

	return &DeployMocksResult{PriceFeed: priceFeed, DAI: dai, WETH: weth}, nil
}

func (uc *DeployMocks) deploy(ctx context.Context, name string, account *models.Account, args ...any) (*models.Contract, error) {
	result, err := uc.deployer.Run(ctx, DeployContractParams{
		ContractName: name,
		Account:      account,
		Args:         args,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deploy mock %s: %w", name, err)
	}
	uc.progress.Info(fmt.Sprintf("Deployed %s to %s", name, result.Contract.Address.Hex()))
	return result.Contract, nil
}
