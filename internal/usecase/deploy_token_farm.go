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

// AllowedToken pairs a stakeable token with the feed that prices it
type AllowedToken struct {
	Token     *models.Contract
	PriceFeed *models.Contract
}

// DeployNellarium deploys the NEL token
type DeployNellarium struct {
	accounts *GetAccount
	deployer *DeployContract
	progress ProgressSink
}

// NewDeployNellarium creates a new DeployNellarium use case
func NewDeployNellarium(accounts *GetAccount, deployer *DeployContract, progress ProgressSink) *DeployNellarium {
	if progress == nil {
		progress = NopProgress{}
	}
	return &DeployNellarium{accounts: accounts, deployer: deployer, progress: progress}
}

// Run deploys Nellarium from the default account
func (uc *DeployNellarium) Run(ctx context.Context) (*DeployContractResult, error) {
	account, err := uc.accounts.Run(ctx, domain.AccountQuery{})
	if err != nil {
		return nil, err
	}

	result, err := uc.deployer.Run(ctx, DeployContractParams{
		ContractName: domain.NellariumContract,
		Account:      account,
	})
	if err != nil {
		return nil, err
	}

	uc.progress.Info(fmt.Sprintf("Token contract can be found at %s", result.Contract.Address.Hex()))
	return result, nil
}

// DeployTokenFarmResult contains the outcome of the farm deployment sequence
type DeployTokenFarmResult struct {
	Farm          *DeployContractResult
	Token         *models.Contract
	Funding       *big.Int
	AllowedTokens []AllowedToken
}

// DeployTokenFarm deploys the farm against the newest NEL, funds it and allows the stake tokens
type DeployTokenFarm struct {
	cfg       *config.RuntimeConfig
	chain     ChainClient
	accounts  *GetAccount
	deployer  *DeployContract
	locator   *LocateContract
	contracts *GetContract
	allow     *AddAllowedTokens
	progress  ProgressSink
	log       *slog.Logger
}

// NewDeployTokenFarm creates a new DeployTokenFarm use case
func NewDeployTokenFarm(
	cfg *config.RuntimeConfig,
	chain ChainClient,
	accounts *GetAccount,
	deployer *DeployContract,
	locator *LocateContract,
	contracts *GetContract,
	allow *AddAllowedTokens,
	progress ProgressSink,
	log *slog.Logger,
) *DeployTokenFarm {
	if progress == nil {
		progress = NopProgress{}
	}
	return &DeployTokenFarm{
		cfg:       cfg,
		chain:     chain,
		accounts:  accounts,
		deployer:  deployer,
		locator:   locator,
		contracts: contracts,
		allow:     allow,
		progress:  progress,
		log:       log,
	}
}

// Run executes the deployment sequence
func (uc *DeployTokenFarm) Run(ctx context.Context) (*DeployTokenFarmResult, error) {
	account, err := uc.accounts.Run(ctx, domain.AccountQuery{})
	if err != nil {
		return nil, err
	}

	token, err := uc.locator.Run(ctx, domain.NellariumContract)
	if err != nil {
		return nil, fmt.Errorf("deploy %s first: %w", domain.NellariumContract, err)
	}

	// Check the supply before anything is sent
	supply, err := callBigInt(ctx, uc.chain, token, "totalSupply")
	if err != nil {
		return nil, err
	}
	if supply.Cmp(domain.KeptBalance) < 0 {
		return nil, fmt.Errorf("%w: total supply %s is below the kept balance %s",
			domain.ErrInsufficientSupply, supply, domain.KeptBalance)
	}
	funding := new(big.Int).Sub(supply, domain.KeptBalance)

	farm, err := uc.deployer.Run(ctx, DeployContractParams{
		ContractName:  domain.TokenFarmContract,
		Account:       account,
		Args:          []any{token.Address},
		PublishSource: uc.cfg.Network.Verify,
	})
	if err != nil {
		return nil, err
	}
	uc.progress.Info(fmt.Sprintf("TokenFarm contract can be found at %s", farm.Contract.Address.Hex()))

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "fund",
		Message: fmt.Sprintf("Transferring %s NEL to the token farm", FormatEther(funding)),
		Spinner: true,
	})
	receipt, err := uc.chain.Transact(ctx, account, token, "transfer", farm.Contract.Address, funding)
	if err != nil {
		return nil, fmt.Errorf("failed to fund the token farm: %w", err)
	}
	uc.log.Info("farm funded",
		slog.String("contract", token.Name),
		slog.String("amount", funding.String()),
		slog.String("tx", receipt.TxHash.Hex()),
	)

	allowed, err := uc.allowedTokens(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := uc.allow.Run(ctx, farm.Contract, allowed, account); err != nil {
		return nil, err
	}

	return &DeployTokenFarmResult{
		Farm:          farm,
		Token:         token,
		Funding:       funding,
		AllowedTokens: allowed,
	}, nil
}

// allowedTokens resolves NEL, DAI and WETH with their feeds, in that order
func (uc *DeployTokenFarm) allowedTokens(ctx context.Context, token *models.Contract) ([]AllowedToken, error) {
	resolved := make(map[string]*models.Contract)
	for _, key := range []string{domain.WethToken, domain.DaiToken, domain.DaiUsdPriceFeed, domain.EthUsdPriceFeed} {
		contract, err := uc.contracts.Run(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", key, err)
		}
		resolved[key] = contract
	}

	return []AllowedToken{
		{Token: token, PriceFeed: resolved[domain.DaiUsdPriceFeed]},
		{Token: resolved[domain.DaiToken], PriceFeed: resolved[domain.DaiUsdPriceFeed]},
		{Token: resolved[domain.WethToken], PriceFeed: resolved[domain.EthUsdPriceFeed]},
	}, nil
}

// AddAllowedTokens registers tokens and their price feeds on the farm
type AddAllowedTokens struct {
	chain    ChainClient
	progress ProgressSink
	log      *slog.Logger
}

// NewAddAllowedTokens creates a new AddAllowedTokens use case
func NewAddAllowedTokens(chain ChainClient, progress ProgressSink, log *slog.Logger) *AddAllowedTokens {
	if progress == nil {
		progress = NopProgress{}
	}
	return &AddAllowedTokens{chain: chain, progress: progress, log: log}
}

// Run sends addAllowedToken then setPriceFeedContract for each pair, in order
func (uc *AddAllowedTokens) Run(ctx context.Context, farm *models.Contract, tokens []AllowedToken, account *models.Account) error {
	for i, pair := range tokens {
		name := tokenLabel(ctx, uc.chain, pair.Token)

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "allow_token",
			Current: i + 1,
			Total:   len(tokens),
			Message: fmt.Sprintf("Adding token %s to the token farm", name),
			Spinner: true,
		})
		receipt, err := uc.chain.Transact(ctx, account, farm, "addAllowedToken", pair.Token.Address)
		if err != nil {
			return fmt.Errorf("failed to allow %s: %w", name, err)
		}
		uc.log.Info("token allowed",
			slog.String("token", name),
			slog.String("address", pair.Token.Address.Hex()),
			slog.String("tx", receipt.TxHash.Hex()),
		)

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "set_price_feed",
			Current: i + 1,
			Total:   len(tokens),
			Message: fmt.Sprintf("Setting price feed for token %s", name),
			Spinner: true,
		})
		receipt, err = uc.chain.Transact(ctx, account, farm, "setPriceFeedContract", pair.Token.Address, pair.PriceFeed.Address)
		if err != nil {
			return fmt.Errorf("failed to set the price feed of %s: %w", name, err)
		}
		uc.log.Info("price feed set",
			slog.String("token", name),
			slog.String("feed", pair.PriceFeed.Address.Hex()),
			slog.String("tx", receipt.TxHash.Hex()),
		)
	}
	return nil
}

// DeployAll deploys Nellarium then the token farm
type DeployAll struct {
	nellarium *DeployNellarium
	farm      *DeployTokenFarm
}

// NewDeployAll creates a new DeployAll use case
func NewDeployAll(nellarium *DeployNellarium, farm *DeployTokenFarm) *DeployAll {
	return &DeployAll{nellarium: nellarium, farm: farm}
}

// Run executes both deployments
func (uc *DeployAll) Run(ctx context.Context) (*DeployTokenFarmResult, error) {
	if _, err := uc.nellarium.Run(ctx); err != nil {
		return nil, err
	}
	return uc.farm.Run(ctx)
}
