package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/models"
)

// ResolveToken turns a token reference into an ERC-20 instance.
// References: nel / nellarium, a contract key or its short form (dai, weth), or an address.
type ResolveToken struct {
	locator   *LocateContract
	contracts *GetContract
}

// NewResolveToken creates a new ResolveToken use case
func NewResolveToken(locator *LocateContract, contracts *GetContract) *ResolveToken {
	return &ResolveToken{locator: locator, contracts: contracts}
}

// Run resolves the reference
func (uc *ResolveToken) Run(ctx context.Context, ref string) (*models.Contract, error) {
	switch strings.ToLower(strings.TrimSpace(ref)) {
	case "nel", "nellarium":
		return uc.locator.Run(ctx, domain.NellariumContract)
	case "dai", domain.DaiToken:
		return uc.contracts.Run(ctx, domain.DaiToken)
	case "weth", domain.WethToken:
		return uc.contracts.Run(ctx, domain.WethToken)
	}
	if common.IsHexAddress(ref) {
		// any ERC-20 shares the Nellarium token interface
		return uc.locator.Bind(ctx, domain.NellariumContract, common.HexToAddress(ref))
	}
	return nil, fmt.Errorf("%w: token %q", domain.ErrUnknownContractKey, ref)
}

// StakeParams contains parameters for staking
type StakeParams struct {
	Token   string
	Amount  *big.Int
	Account domain.AccountQuery
}

// StakeResult contains the stake transactions
type StakeResult struct {
	Token   *models.Contract
	Amount  *big.Int
	Approve *models.Receipt
	Stake   *models.Receipt
}

// Stake approves the farm for an amount and stakes it
type Stake struct {
	chain    ChainClient
	accounts *GetAccount
	locator  *LocateContract
	tokens   *ResolveToken
	progress ProgressSink
	log      *slog.Logger
}

// NewStake creates a new Stake use case
func NewStake(chain ChainClient, accounts *GetAccount, locator *LocateContract, tokens *ResolveToken, progress ProgressSink, log *slog.Logger) *Stake {
	if progress == nil {
		progress = NopProgress{}
	}
	return &Stake{chain: chain, accounts: accounts, locator: locator, tokens: tokens, progress: progress, log: log}
}

// Run executes approve then stakeTokens
func (uc *Stake) Run(ctx context.Context, params StakeParams) (*StakeResult, error) {
	if params.Amount == nil || params.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("stake amount must be greater than zero")
	}

	account, err := uc.accounts.Run(ctx, params.Account)
	if err != nil {
		return nil, err
	}
	farm, err := uc.locator.Run(ctx, domain.TokenFarmContract)
	if err != nil {
		return nil, err
	}
	token, err := uc.tokens.Run(ctx, params.Token)
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "approve",
		Message: fmt.Sprintf("Approving %s %s for the token farm", FormatEther(params.Amount), token.Name),
		Spinner: true,
	})
	approve, err := uc.chain.Transact(ctx, account, token, "approve", farm.Address, params.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to approve: %w", err)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "stake",
		Message: fmt.Sprintf("Staking %s %s", FormatEther(params.Amount), token.Name),
		Spinner: true,
	})
	stake, err := uc.chain.Transact(ctx, account, farm, "stakeTokens", params.Amount, token.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to stake: %w", err)
	}

	uc.log.Info("tokens staked",
		slog.String("token", token.Address.Hex()),
		slog.String("amount", params.Amount.String()),
		slog.String("tx", stake.TxHash.Hex()),
	)

	return &StakeResult{Token: token, Amount: params.Amount, Approve: approve, Stake: stake}, nil
}

// FarmTxParams selects the token and sender of a farm transaction
type FarmTxParams struct {
	Token   string
	Account domain.AccountQuery
}

// FarmTxResult is a single confirmed farm transaction
type FarmTxResult struct {
	Method  string
	Token   *models.Contract
	Receipt *models.Receipt
}

// Unstake withdraws the whole staking balance of a token
type Unstake struct {
	chain    ChainClient
	accounts *GetAccount
	locator  *LocateContract
	tokens   *ResolveToken
	progress ProgressSink
}

// NewUnstake creates a new Unstake use case
func NewUnstake(chain ChainClient, accounts *GetAccount, locator *LocateContract, tokens *ResolveToken, progress ProgressSink) *Unstake {
	if progress == nil {
		progress = NopProgress{}
	}
	return &Unstake{chain: chain, accounts: accounts, locator: locator, tokens: tokens, progress: progress}
}

// Run sends unstakeTokens
func (uc *Unstake) Run(ctx context.Context, params FarmTxParams) (*FarmTxResult, error) {
	account, err := uc.accounts.Run(ctx, params.Account)
	if err != nil {
		return nil, err
	}
	farm, err := uc.locator.Run(ctx, domain.TokenFarmContract)
	if err != nil {
		return nil, err
	}
	token, err := uc.tokens.Run(ctx, params.Token)
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "unstake",
		Message: fmt.Sprintf("Unstaking %s", token.Name),
		Spinner: true,
	})
	receipt, err := uc.chain.Transact(ctx, account, farm, "unstakeTokens", token.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to unstake: %w", err)
	}
	return &FarmTxResult{Method: "unstakeTokens", Token: token, Receipt: receipt}, nil
}

// IssueTokens pays NEL rewards to every staker (owner only)
type IssueTokens struct {
	chain    ChainClient
	accounts *GetAccount
	locator  *LocateContract
	progress ProgressSink
}

// NewIssueTokens creates a new IssueTokens use case
func NewIssueTokens(chain ChainClient, accounts *GetAccount, locator *LocateContract, progress ProgressSink) *IssueTokens {
	if progress == nil {
		progress = NopProgress{}
	}
	return &IssueTokens{chain: chain, accounts: accounts, locator: locator, progress: progress}
}

// Run sends issueTokens
func (uc *IssueTokens) Run(ctx context.Context, query domain.AccountQuery) (*FarmTxResult, error) {
	account, err := uc.accounts.Run(ctx, query)
	if err != nil {
		return nil, err
	}
	farm, err := uc.locator.Run(ctx, domain.TokenFarmContract)
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "issue",
		Message: "Issuing reward tokens",
		Spinner: true,
	})
	receipt, err := uc.chain.Transact(ctx, account, farm, "issueTokens")
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return &FarmTxResult{Method: "issueTokens", Receipt: receipt}, nil
}
