package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/models"
)

// TokenStatus is the farm's view of one allowed token. Price, Decimals and
// StakedValue stay nil for a token without a usable price feed.
type TokenStatus struct {
	Address     common.Address `json:"address"`
	Symbol      string         `json:"symbol"`
	PriceFeed   common.Address `json:"priceFeed"`
	Price       *big.Int       `json:"price"`
	Decimals    *big.Int       `json:"decimals"`
	Staked      *big.Int       `json:"staked"`
	StakedValue *big.Int       `json:"stakedValue"`
}

// FarmStatusResult is a read-only snapshot of the farm for one user
type FarmStatusResult struct {
	Farm               common.Address `json:"farm"`
	User               common.Address `json:"user"`
	RewardBalance      *big.Int       `json:"rewardBalance"`
	UniqueTokensStaked *big.Int       `json:"uniqueTokensStaked"`
	TotalStakedValue   *big.Int       `json:"totalStakedValue"` // nil when the farm cannot price a token
	Tokens             []TokenStatus  `json:"tokens"`
}

// FarmStatus queries the farm state concurrently
type FarmStatus struct {
	chain    ChainClient
	accounts *GetAccount
	locator  *LocateContract
}

// NewFarmStatus creates a new FarmStatus use case
func NewFarmStatus(chain ChainClient, accounts *GetAccount, locator *LocateContract) *FarmStatus {
	return &FarmStatus{chain: chain, accounts: accounts, locator: locator}
}

// Run builds the snapshot; a nil user means the default account
func (uc *FarmStatus) Run(ctx context.Context, user *common.Address) (*FarmStatusResult, error) {
	if user == nil {
		account, err := uc.accounts.Run(ctx, domain.AccountQuery{})
		if err != nil {
			return nil, err
		}
		user = &account.Address
	}

	farm, err := uc.locator.Run(ctx, domain.TokenFarmContract)
	if err != nil {
		return nil, err
	}
	nel, err := uc.locator.Run(ctx, domain.NellariumContract)
	if err != nil {
		return nil, err
	}

	allowed, err := uc.allowedTokens(ctx, farm)
	if err != nil {
		return nil, err
	}

	result := &FarmStatusResult{
		Farm:   farm.Address,
		User:   *user,
		Tokens: make([]TokenStatus, len(allowed)),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		balance, err := callBigInt(gctx, uc.chain, nel, "balanceOf", *user)
		if err != nil {
			return err
		}
		result.RewardBalance = balance
		return nil
	})

	g.Go(func() error {
		unique, err := callBigInt(gctx, uc.chain, farm, "uniqueTokensStaked", *user)
		if err != nil {
			return err
		}
		result.UniqueTokensStaked = unique
		result.TotalStakedValue = new(big.Int)
		// the total reverts for users without stake
		if unique.Sign() == 0 {
			return nil
		}
		total, err := callBigInt(gctx, uc.chain, farm, "getUserTotalStakedValue", *user)
		// any allowed token without a feed makes the total revert
		if errors.Is(err, domain.ErrTransactionReverted) {
			result.TotalStakedValue = nil
			return nil
		}
		if err != nil {
			return err
		}
		result.TotalStakedValue = total
		return nil
	})

	for i, address := range allowed {
		g.Go(func() error {
			status, err := uc.tokenStatus(gctx, farm, nel, address, *user)
			if err != nil {
				return err
			}
			result.Tokens[i] = *status
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// allowedTokens reads allowedTokens(i) until the index is out of range
func (uc *FarmStatus) allowedTokens(ctx context.Context, farm *models.Contract) ([]common.Address, error) {
	var tokens []common.Address
	for i := int64(0); ; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		address, err := callAddress(ctx, uc.chain, farm, "allowedTokens", big.NewInt(i))
		if err != nil {
			if errors.Is(err, domain.ErrTransactionReverted) {
				break
			}
			return nil, err
		}
		tokens = append(tokens, address)
	}
	return tokens, nil
}

func (uc *FarmStatus) tokenStatus(ctx context.Context, farm, erc20 *models.Contract, token, user common.Address) (*TokenStatus, error) {
	bound := &models.Contract{Name: erc20.Name, Address: token, ABI: erc20.ABI}
	status := &TokenStatus{Address: token, Symbol: token.Hex()}

	if symbol, err := callString(ctx, uc.chain, bound, "symbol"); err == nil {
		status.Symbol = symbol
	}

	feed, err := callAddress(ctx, uc.chain, farm, "tokenPriceFeedMapping", token)
	if err != nil {
		return nil, err
	}
	status.PriceFeed = feed

	if status.Staked, err = callBigInt(ctx, uc.chain, farm, "stakingBalance", token, user); err != nil {
		return nil, err
	}

	// getTokenValue reverts until setPriceFeedContract has run for the token
	if feed == (common.Address{}) {
		return status, nil
	}
	out, err := uc.chain.Call(ctx, farm, "getTokenValue", token)
	if errors.Is(err, domain.ErrTransactionReverted) {
		return status, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s.getTokenValue: %w", farm.Name, err)
	}
	if len(out) != 2 {
		return nil, fmt.Errorf("%s.getTokenValue returned %d values, expected 2", farm.Name, len(out))
	}
	price, ok := out[0].(*big.Int)
	decimals, ok2 := out[1].(*big.Int)
	if !ok || !ok2 {
		return nil, fmt.Errorf("%s.getTokenValue returned %T, %T", farm.Name, out[0], out[1])
	}
	status.Price = price
	status.Decimals = decimals

	if status.StakedValue, err = callBigInt(ctx, uc.chain, farm, "getUserSingleTokenStakedValue", user, token); err != nil {
		return nil, err
	}
	return status, nil
}
