//go:build integration

package app_test

import (
	"context"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nellarium/tokenfarm/internal/app"
	"github.com/nellarium/tokenfarm/internal/config"
	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/models"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

// These tests run against a compiled project: TOKENFARM_TEST_PROJECT points at
// its root and TOKENFARM_TEST_NETWORK names the network to deploy to.

var amountStaked = new(big.Int).Mul(big.NewInt(1), big.NewInt(1_000_000_000_000_000_000))

func newTestApp(t *testing.T) (*app.App, context.Context) {
	t.Helper()
	root := os.Getenv("TOKENFARM_TEST_PROJECT")
	network := os.Getenv("TOKENFARM_TEST_NETWORK")
	if root == "" || network == "" {
		t.Skip("TOKENFARM_TEST_PROJECT and TOKENFARM_TEST_NETWORK not set")
	}

	v := config.SetupViper(root, &cobra.Command{})
	v.Set("network", network)
	v.Set("non_interactive", true)
	v.Set("json", true)

	a, err := app.InitApp(v)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	t.Cleanup(cancel)
	require.NoError(t, a.ManageNode.EnsureRunning(ctx))
	return a, ctx
}

func requireLocal(t *testing.T, a *app.App) {
	t.Helper()
	if !a.Config.Network.UsesDevAccounts() {
		t.Skip("Only for local testing")
	}
}

func account(t *testing.T, ctx context.Context, a *app.App, index int) *models.Account {
	t.Helper()
	acct, err := a.GetAccount.Run(ctx, domain.AccountQuery{Index: &index})
	require.NoError(t, err)
	return acct
}

func call(t *testing.T, ctx context.Context, a *app.App, contract *models.Contract, method string, args ...any) any {
	t.Helper()
	out, err := a.Chain.Call(ctx, contract, method, args...)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	return out[0]
}

func callBig(t *testing.T, ctx context.Context, a *app.App, contract *models.Contract, method string, args ...any) *big.Int {
	t.Helper()
	value, ok := call(t, ctx, a, contract, method, args...).(*big.Int)
	require.True(t, ok, "%s.%s is not a uint256", contract.Name, method)
	return value
}

// deployMockERC20 deploys a fresh ERC20 minted to the default account
func deployMockERC20(t *testing.T, ctx context.Context, a *app.App) *models.Contract {
	t.Helper()
	result, err := a.DeployContract.Run(ctx, usecase.DeployContractParams{
		ContractName: domain.MockERC20Contract,
		Account:      account(t, ctx, a, 0),
	})
	require.NoError(t, err)
	return result.Contract
}

func deploy(t *testing.T, ctx context.Context, a *app.App) *usecase.DeployTokenFarmResult {
	t.Helper()
	deployed, err := a.DeployAll.Run(ctx)
	require.NoError(t, err)
	return deployed
}

func TestSetPriceFeedContract(t *testing.T) {
	a, ctx := newTestApp(t)
	requireLocal(t, a)

	deployed := deploy(t, ctx, a)
	farm := deployed.Farm.Contract
	feed, err := a.GetContract.Run(ctx, domain.EthUsdPriceFeed)
	require.NoError(t, err)

	_, err = a.Chain.Transact(ctx, account(t, ctx, a, 0), farm, "setPriceFeedContract", deployed.Token.Address, feed.Address)
	require.NoError(t, err)
	assert.Equal(t, feed.Address, call(t, ctx, a, farm, "tokenPriceFeedMapping", deployed.Token.Address))

	_, err = a.Chain.Transact(ctx, account(t, ctx, a, 1), farm, "setPriceFeedContract", deployed.Token.Address, feed.Address)
	assert.ErrorIs(t, err, domain.ErrTransactionReverted)
}

func TestAddAllowedTokenOnlyOwner(t *testing.T) {
	a, ctx := newTestApp(t)
	requireLocal(t, a)

	deployed := deploy(t, ctx, a)
	farm := deployed.Farm.Contract

	assert.Equal(t, deployed.Token.Address, call(t, ctx, a, farm, "allowedTokens", big.NewInt(0)))
	assert.Equal(t, true, call(t, ctx, a, farm, "tokenIsAllowed", deployed.Token.Address))

	_, err := a.Chain.Transact(ctx, account(t, ctx, a, 1), farm, "addAllowedToken", deployed.Token.Address)
	assert.ErrorIs(t, err, domain.ErrTransactionReverted)
}

func TestDeployAllConfiguresPriceFeeds(t *testing.T) {
	a, ctx := newTestApp(t)
	requireLocal(t, a)

	deployed, err := a.DeployAll.Run(ctx)
	require.NoError(t, err)

	status, err := a.FarmStatus.Run(ctx, nil)
	require.NoError(t, err)
	require.Len(t, status.Tokens, 3)
	assert.Equal(t, deployed.Token.Address, status.Tokens[0].Address)

	for _, token := range status.Tokens {
		assert.Equal(t, 0, token.Price.Cmp(domain.InitialPriceFeedValue))
		assert.Equal(t, int64(domain.MockDecimals), token.Decimals.Int64())
	}
}

func TestGetTokenValue(t *testing.T) {
	a, ctx := newTestApp(t)
	requireLocal(t, a)

	deployed := deploy(t, ctx, a)
	out, err := a.Chain.Call(ctx, deployed.Farm.Contract, "getTokenValue", deployed.Token.Address)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 0, out[0].(*big.Int).Cmp(domain.InitialPriceFeedValue))
	assert.Equal(t, int64(domain.MockDecimals), out[1].(*big.Int).Int64())
}

func TestStakeTokens(t *testing.T) {
	a, ctx := newTestApp(t)
	requireLocal(t, a)

	deployed := deploy(t, ctx, a)
	farm := deployed.Farm.Contract
	owner := account(t, ctx, a, 0).Address

	_, err := a.Stake.Run(ctx, usecase.StakeParams{Token: "nel", Amount: amountStaked})
	require.NoError(t, err)

	assert.Equal(t, 0, callBig(t, ctx, a, farm, "stakingBalance", deployed.Token.Address, owner).Cmp(amountStaked))
	assert.Equal(t, int64(1), callBig(t, ctx, a, farm, "uniqueTokensStaked", owner).Int64())
	assert.Equal(t, owner, call(t, ctx, a, farm, "stakers", big.NewInt(0)))
}

func TestStakeUnapprovedToken(t *testing.T) {
	a, ctx := newTestApp(t)
	requireLocal(t, a)

	deploy(t, ctx, a)
	erc20 := deployMockERC20(t, ctx, a)

	_, err := a.Stake.Run(ctx, usecase.StakeParams{Token: erc20.Address.Hex(), Amount: amountStaked})
	assert.ErrorIs(t, err, domain.ErrTransactionReverted)
}

func TestGetUserTotalStakedValue(t *testing.T) {
	a, ctx := newTestApp(t)
	requireLocal(t, a)

	deployed := deploy(t, ctx, a)
	farm := deployed.Farm.Contract
	owner := account(t, ctx, a, 0)
	erc20 := deployMockERC20(t, ctx, a)
	feed, err := a.GetContract.Run(ctx, domain.EthUsdPriceFeed)
	require.NoError(t, err)

	_, err = a.Chain.Transact(ctx, owner, farm, "addAllowedToken", erc20.Address)
	require.NoError(t, err)
	_, err = a.Chain.Transact(ctx, owner, farm, "setPriceFeedContract", erc20.Address, feed.Address)
	require.NoError(t, err)

	stake := new(big.Int).Mul(amountStaked, big.NewInt(2))
	_, err = a.Stake.Run(ctx, usecase.StakeParams{Token: erc20.Address.Hex(), Amount: stake})
	require.NoError(t, err)

	want := new(big.Int).Mul(domain.InitialPriceFeedValue, big.NewInt(2))
	assert.Equal(t, 0, callBig(t, ctx, a, farm, "getUserTotalStakedValue", owner.Address).Cmp(want))
}

func TestUnstakeTokens(t *testing.T) {
	a, ctx := newTestApp(t)
	requireLocal(t, a)

	deployed := deploy(t, ctx, a)
	farm := deployed.Farm.Contract
	owner := account(t, ctx, a, 0).Address

	_, err := a.Stake.Run(ctx, usecase.StakeParams{Token: "nel", Amount: amountStaked})
	require.NoError(t, err)
	_, err = a.Unstake.Run(ctx, usecase.FarmTxParams{Token: "nel"})
	require.NoError(t, err)

	assert.Equal(t, 0, callBig(t, ctx, a, deployed.Token, "balanceOf", owner).Cmp(domain.KeptBalance))
	assert.Equal(t, 0, callBig(t, ctx, a, farm, "stakingBalance", deployed.Token.Address, owner).Sign())
	assert.Equal(t, 0, callBig(t, ctx, a, farm, "uniqueTokensStaked", owner).Sign())
}

func TestIssueTokens(t *testing.T) {
	a, ctx := newTestApp(t)
	requireLocal(t, a)

	deployed := deploy(t, ctx, a)
	owner := account(t, ctx, a, 0).Address

	_, err := a.Stake.Run(ctx, usecase.StakeParams{Token: "nel", Amount: amountStaked})
	require.NoError(t, err)
	before := callBig(t, ctx, a, deployed.Token, "balanceOf", owner)

	_, err = a.IssueTokens.Run(ctx, domain.AccountQuery{})
	require.NoError(t, err)

	// 1 NEL priced at the mock 2000 USD earns 2000 NEL
	want := new(big.Int).Add(before, domain.InitialPriceFeedValue)
	assert.Equal(t, 0, callBig(t, ctx, a, deployed.Token, "balanceOf", owner).Cmp(want))
}

func TestStakeValue(t *testing.T) {
	a, ctx := newTestApp(t)
	requireLocal(t, a)

	_, err := a.DeployAll.Run(ctx)
	require.NoError(t, err)

	_, err = a.Stake.Run(ctx, usecase.StakeParams{Token: "nel", Amount: amountStaked})
	require.NoError(t, err)

	status, err := a.FarmStatus.Run(ctx, nil)
	require.NoError(t, err)
	require.NotEmpty(t, status.Tokens)
	want := new(big.Int).Mul(big.NewInt(2000), amountStaked)
	assert.Equal(t, 0, status.Tokens[0].StakedValue.Cmp(want))
	assert.Equal(t, 0, status.TotalStakedValue.Cmp(want))
}

func TestIssueTokensOnlyOwner(t *testing.T) {
	a, ctx := newTestApp(t)
	requireLocal(t, a)

	_, err := a.DeployAll.Run(ctx)
	require.NoError(t, err)

	index := 1
	_, err = a.IssueTokens.Run(ctx, domain.AccountQuery{Index: &index})
	assert.ErrorIs(t, err, domain.ErrTransactionReverted)
}

func TestStakeAndIssueCorrectAmounts(t *testing.T) {
	a, ctx := newTestApp(t)
	if a.Config.Network.UsesDevAccounts() {
		t.Skip("Only for integration testing")
	}

	_, err := a.DeployAll.Run(ctx)
	require.NoError(t, err)

	_, err = a.Stake.Run(ctx, usecase.StakeParams{Token: "nel", Amount: amountStaked})
	require.NoError(t, err)

	before, err := a.FarmStatus.Run(ctx, nil)
	require.NoError(t, err)
	require.NotEmpty(t, before.Tokens)

	_, err = a.IssueTokens.Run(ctx, domain.AccountQuery{})
	require.NoError(t, err)

	after, err := a.FarmStatus.Run(ctx, nil)
	require.NoError(t, err)

	// reward = price / 10^decimals * staked
	nel := before.Tokens[0]
	scale := new(big.Int).Exp(big.NewInt(10), nel.Decimals, nil)
	issued := new(big.Int).Div(new(big.Int).Mul(nel.Price, amountStaked), scale)
	assert.Equal(t, 0, new(big.Int).Add(before.RewardBalance, issued).Cmp(after.RewardBalance))
}
