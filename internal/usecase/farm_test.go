package usecase

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/models"
)

// deployedHarness is a local harness after a full deployment
func deployedHarness(t *testing.T) (*harness, *DeployTokenFarmResult) {
	t.Helper()
	h := newHarness(t, domain.NetworkLocal)
	result, err := h.all.Run(context.Background())
	require.NoError(t, err)
	h.chain.txs = nil
	return h, result
}

func TestStake(t *testing.T) {
	h, deployed := deployedHarness(t)
	uc := NewStake(h.chain, h.accounts, h.locator, h.tokens, h.progress, testLogger())

	result, err := uc.Run(context.Background(), StakeParams{Token: "nel", Amount: ether(1)})
	require.NoError(t, err)

	farm := deployed.Farm.Contract.Address
	nel := deployed.Token.Address
	assert.Equal(t, []txCall{
		{Contract: domain.NellariumContract, Address: nel, Method: "approve", Args: []any{farm, ether(1)}},
		{Contract: domain.TokenFarmContract, Address: farm, Method: "stakeTokens", Args: []any{ether(1), nel}},
	}, h.chain.txs)
	assert.NotNil(t, result.Approve)
	assert.NotNil(t, result.Stake)
}

func TestStake_Errors(t *testing.T) {
	t.Run("zero amount", func(t *testing.T) {
		h, _ := deployedHarness(t)
		uc := NewStake(h.chain, h.accounts, h.locator, h.tokens, nil, testLogger())

		_, err := uc.Run(context.Background(), StakeParams{Token: "nel", Amount: big.NewInt(0)})
		require.Error(t, err)
		assert.Empty(t, h.chain.txs)
	})

	t.Run("farm not deployed", func(t *testing.T) {
		h := newHarness(t, domain.NetworkLocal)
		uc := NewStake(h.chain, h.accounts, h.locator, h.tokens, nil, testLogger())

		_, err := uc.Run(context.Background(), StakeParams{Token: "nel", Amount: ether(1)})
		assert.ErrorIs(t, err, domain.ErrNotDeployed)
	})

	t.Run("unapproved token reverts", func(t *testing.T) {
		h, _ := deployedHarness(t)
		h.chain.transactFunc = func(contract *models.Contract, method string, args []any) error {
			if method == "stakeTokens" {
				return domain.TxRevertedErr{Contract: contract.Name, Method: method, TxHash: "0xbeef"}
			}
			return nil
		}
		uc := NewStake(h.chain, h.accounts, h.locator, h.tokens, nil, testLogger())

		_, err := uc.Run(context.Background(), StakeParams{Token: "0x00000000000000000000000000000000000000ff", Amount: ether(1)})
		assert.ErrorIs(t, err, domain.ErrTransactionReverted)
	})
}

func TestResolveToken(t *testing.T) {
	h, deployed := deployedHarness(t)

	tests := []struct {
		ref      string
		wantName string
		wantErr  error
	}{
		{ref: "NEL", wantName: domain.NellariumContract},
		{ref: "nellarium", wantName: domain.NellariumContract},
		{ref: "dai", wantName: domain.MockDAIContract},
		{ref: domain.WethToken, wantName: domain.MockWETHContract},
		{ref: deployed.Farm.Contract.Address.Hex(), wantName: domain.NellariumContract},
		{ref: "usdc", wantErr: domain.ErrUnknownContractKey},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			token, err := h.tokens.Run(context.Background(), tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, token.Name)
		})
	}
}

func TestUnstakeAndIssue(t *testing.T) {
	h, deployed := deployedHarness(t)

	unstake := NewUnstake(h.chain, h.accounts, h.locator, h.tokens, h.progress)
	result, err := unstake.Run(context.Background(), FarmTxParams{Token: "nel"})
	require.NoError(t, err)
	assert.Equal(t, "unstakeTokens", result.Method)

	issue := NewIssueTokens(h.chain, h.accounts, h.locator, h.progress)
	_, err = issue.Run(context.Background(), domain.AccountQuery{})
	require.NoError(t, err)

	farm := deployed.Farm.Contract.Address
	assert.Equal(t, []txCall{
		{Contract: domain.TokenFarmContract, Address: farm, Method: "unstakeTokens", Args: []any{deployed.Token.Address}},
		{Contract: domain.TokenFarmContract, Address: farm, Method: "issueTokens", Args: nil},
	}, h.chain.txs)
}

func TestFarmStatus(t *testing.T) {
	h, deployed := deployedHarness(t)
	user := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	allowed := []common.Address{deployed.Token.Address, addr(0x1004), addr(0x1005)}
	feed := addr(0x1003)

	h.chain.callFunc = func(contract *models.Contract, method string, args []any) ([]any, error) {
		switch method {
		case "allowedTokens":
			i := args[0].(*big.Int).Int64()
			if i >= int64(len(allowed)) {
				return nil, fmt.Errorf("%w: allowedTokens(%d)", domain.ErrTransactionReverted, i)
			}
			return []any{allowed[i]}, nil
		case "symbol":
			return []any{"SYM"}, nil
		case "tokenPriceFeedMapping":
			return []any{feed}, nil
		case "getTokenValue":
			return []any{domain.InitialPriceFeedValue, big.NewInt(18)}, nil
		case "stakingBalance":
			if args[0] == deployed.Token.Address {
				return []any{ether(1)}, nil
			}
			return []any{big.NewInt(0)}, nil
		case "getUserSingleTokenStakedValue":
			return []any{ether(2000)}, nil
		case "uniqueTokensStaked":
			return []any{big.NewInt(1)}, nil
		case "getUserTotalStakedValue":
			return []any{ether(2000)}, nil
		case "balanceOf":
			return []any{ether(100)}, nil
		}
		return nil, fmt.Errorf("unexpected call %s", method)
	}

	uc := NewFarmStatus(h.chain, h.accounts, h.locator)
	result, err := uc.Run(context.Background(), &user)
	require.NoError(t, err)

	assert.Equal(t, deployed.Farm.Contract.Address, result.Farm)
	assert.Equal(t, user, result.User)
	assert.Equal(t, 0, result.RewardBalance.Cmp(ether(100)))
	assert.Equal(t, int64(1), result.UniqueTokensStaked.Int64())
	assert.Equal(t, 0, result.TotalStakedValue.Cmp(ether(2000)))

	require.Len(t, result.Tokens, 3)
	for i, token := range result.Tokens {
		assert.Equal(t, allowed[i], token.Address)
		assert.Equal(t, feed, token.PriceFeed)
		assert.Equal(t, int64(18), token.Decimals.Int64())
	}
	assert.Equal(t, 0, result.Tokens[0].Staked.Cmp(ether(1)))
	assert.Equal(t, 0, result.Tokens[1].Staked.Sign())
}

func TestFarmStatus_NoStake(t *testing.T) {
	h, _ := deployedHarness(t)
	h.chain.callFunc = func(contract *models.Contract, method string, args []any) ([]any, error) {
		switch method {
		case "allowedTokens":
			return nil, domain.ErrTransactionReverted
		case "uniqueTokensStaked", "balanceOf":
			return []any{big.NewInt(0)}, nil
		case "getUserTotalStakedValue":
			return nil, fmt.Errorf("%w: No tokens staked!", domain.ErrTransactionReverted)
		}
		return nil, fmt.Errorf("unexpected call %s", method)
	}

	result, err := NewFarmStatus(h.chain, h.accounts, h.locator).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Tokens)
	assert.Equal(t, 0, result.TotalStakedValue.Sign())
	assert.Equal(t, addr(0xA0), result.User)
}

func TestFarmStatus_ManyAllowedTokens(t *testing.T) {
	h, _ := deployedHarness(t)
	const count = 70
	h.chain.callFunc = func(contract *models.Contract, method string, args []any) ([]any, error) {
		switch method {
		case "allowedTokens":
			i := args[0].(*big.Int).Int64()
			if i >= count {
				return nil, domain.ErrTransactionReverted
			}
			return []any{addr(0x5000 + i)}, nil
		case "symbol":
			return []any{"SYM"}, nil
		case "tokenPriceFeedMapping":
			return []any{addr(0x1003)}, nil
		case "getTokenValue":
			return []any{domain.InitialPriceFeedValue, big.NewInt(18)}, nil
		case "stakingBalance", "getUserSingleTokenStakedValue", "uniqueTokensStaked", "balanceOf":
			return []any{big.NewInt(0)}, nil
		}
		return nil, fmt.Errorf("unexpected call %s", method)
	}

	result, err := NewFarmStatus(h.chain, h.accounts, h.locator).Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, result.Tokens, count)
	assert.Equal(t, addr(0x5000+count-1), result.Tokens[count-1].Address)
}

func TestFarmStatus_CanceledScan(t *testing.T) {
	h, _ := deployedHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	h.chain.callFunc = func(contract *models.Contract, method string, args []any) ([]any, error) {
		if method == "allowedTokens" {
			// never reverts
			if args[0].(*big.Int).Int64() == 3 {
				cancel()
			}
			return []any{addr(0x5000)}, nil
		}
		return nil, fmt.Errorf("unexpected call %s", method)
	}

	_, err := NewFarmStatus(h.chain, h.accounts, h.locator).Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFarmStatus_TokenWithoutFeed(t *testing.T) {
	h, deployed := deployedHarness(t)
	priced := deployed.Token.Address
	unpriced := addr(0x1004)
	broken := addr(0x1005)
	var valueCalls []common.Address
	var mu sync.Mutex

	h.chain.callFunc = func(contract *models.Contract, method string, args []any) ([]any, error) {
		switch method {
		case "allowedTokens":
			tokens := []common.Address{priced, unpriced, broken}
			i := args[0].(*big.Int).Int64()
			if i >= int64(len(tokens)) {
				return nil, domain.ErrTransactionReverted
			}
			return []any{tokens[i]}, nil
		case "symbol":
			return []any{"SYM"}, nil
		case "tokenPriceFeedMapping":
			if args[0] == unpriced {
				return []any{common.Address{}}, nil
			}
			return []any{addr(0x1003)}, nil
		case "getTokenValue":
			mu.Lock()
			valueCalls = append(valueCalls, args[0].(common.Address))
			mu.Unlock()
			if args[0] == broken {
				return nil, fmt.Errorf("%w: execution reverted", domain.ErrTransactionReverted)
			}
			return []any{domain.InitialPriceFeedValue, big.NewInt(18)}, nil
		case "stakingBalance":
			return []any{ether(1)}, nil
		case "getUserSingleTokenStakedValue":
			return []any{ether(2000)}, nil
		case "uniqueTokensStaked":
			return []any{big.NewInt(3)}, nil
		case "getUserTotalStakedValue":
			return nil, fmt.Errorf("%w: execution reverted", domain.ErrTransactionReverted)
		case "balanceOf":
			return []any{big.NewInt(0)}, nil
		}
		return nil, fmt.Errorf("unexpected call %s", method)
	}

	result, err := NewFarmStatus(h.chain, h.accounts, h.locator).Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, result.Tokens, 3)
	assert.Nil(t, result.TotalStakedValue)

	assert.NotNil(t, result.Tokens[0].Price)
	assert.Equal(t, 0, result.Tokens[0].StakedValue.Cmp(ether(2000)))

	for _, token := range result.Tokens[1:] {
		assert.Nil(t, token.Price, token.Address.Hex())
		assert.Nil(t, token.Decimals, token.Address.Hex())
		assert.Nil(t, token.StakedValue, token.Address.Hex())
		assert.Equal(t, 0, token.Staked.Cmp(ether(1)))
	}
	assert.Equal(t, common.Address{}, result.Tokens[1].PriceFeed)
	assert.NotContains(t, valueCalls, unpriced)
}
