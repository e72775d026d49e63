package render

import (
	"bytes"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/models"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

func init() {
	color.NoColor = true
}

func eth(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000_000_000_000))
}

func TestRenderDeploymentList(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	result := &usecase.DeploymentListResult{
		Deployments: []*models.Deployment{
			{ContractName: "TokenFarm", Address: "0x02", ChainID: 42, Network: "kovan", CreatedAt: created, Verification: models.VerificationStatusVerified},
			{ContractName: "Nellarium", Address: "0x01", ChainID: 1337, Network: "development", CreatedAt: created},
		},
	}

	var out bytes.Buffer
	require.NoError(t, NewDeploymentsRenderer(&out).RenderDeploymentList(result))

	text := out.String()
	assert.Less(t, strings.Index(text, "42 kovan"), strings.Index(text, "1337 development"))
	assert.Contains(t, text, "TokenFarm")
	assert.Contains(t, text, "verified")
	assert.Contains(t, text, "2026-03-01 12:00:00")
	assert.Contains(t, text, "Total: 2 deployments")

	out.Reset()
	require.NoError(t, NewDeploymentsRenderer(&out).RenderDeploymentList(&usecase.DeploymentListResult{}))
	assert.Equal(t, "No deployments found\n", out.String())
}

func TestRenderPrune(t *testing.T) {
	stale := []*models.Deployment{{ContractName: "TokenFarm", Address: "0xdead"}}

	tests := []struct {
		name   string
		result *usecase.PruneDeploymentsResult
		want   []string
	}{
		{
			name:   "nothing stale",
			result: &usecase.PruneDeploymentsResult{ChainID: 1337},
			want:   []string{"No stale deployments on chain 1337"},
		},
		{
			name:   "dry run",
			result: &usecase.PruneDeploymentsResult{ChainID: 1337, Stale: stale},
			want:   []string{"0xdead", "Dry run, nothing removed"},
		},
		{
			name:   "pruned",
			result: &usecase.PruneDeploymentsResult{ChainID: 1337, Stale: stale, Pruned: true},
			want:   []string{"0xdead", "Removed 1 records"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, NewDeploymentsRenderer(&out).RenderPrune(tt.result))
			for _, want := range tt.want {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestRenderStatus(t *testing.T) {
	result := &usecase.FarmStatusResult{
		Farm:               common.HexToAddress("0x0000000000000000000000000000000000000f00"),
		User:               common.HexToAddress("0x00000000000000000000000000000000000000aa"),
		RewardBalance:      eth(100),
		UniqueTokensStaked: big.NewInt(1),
		TotalStakedValue:   eth(2000),
		Tokens: []usecase.TokenStatus{{
			Address:     common.HexToAddress("0x0000000000000000000000000000000000000001"),
			Symbol:      "NEL",
			Price:       domain.InitialPriceFeedValue,
			Decimals:    big.NewInt(18),
			Staked:      eth(1),
			StakedValue: eth(2000),
		}},
	}

	var out bytes.Buffer
	require.NoError(t, NewFarmRenderer(&out).RenderStatus(result))

	text := out.String()
	assert.Contains(t, text, "100 NEL")
	assert.Contains(t, text, "$2000")
	assert.Contains(t, text, "NEL")
	assert.Contains(t, text, "0x0000000000000000000000000000000000000f00")
}

func TestRenderStatus_TokenWithoutFeed(t *testing.T) {
	result := &usecase.FarmStatusResult{
		RewardBalance:      eth(0),
		UniqueTokensStaked: big.NewInt(1),
		Tokens: []usecase.TokenStatus{{
			Address: common.HexToAddress("0x0000000000000000000000000000000000000002"),
			Symbol:  "DAI",
			Staked:  eth(0),
		}},
	}

	var out bytes.Buffer
	require.NoError(t, NewFarmRenderer(&out).RenderStatus(result))

	text := out.String()
	assert.Contains(t, text, "no feed")
	assert.Contains(t, text, "DAI")
	assert.Contains(t, text, "total value:   -")
}

func TestRenderNetworksList(t *testing.T) {
	result := &usecase.ListNetworksResult{
		Active: "development",
		Networks: []usecase.NetworkStatus{
			{Name: "development", Kind: domain.NetworkLocal, ChainID: 1337, Host: "http://127.0.0.1:8545", Active: true},
			{Name: "kovan", Kind: domain.NetworkLive, ChainID: 42, Verify: true},
		},
	}

	var out bytes.Buffer
	require.NoError(t, NewNetworksRenderer(&out).RenderNetworksList(result))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[2], "▶ development"))
	assert.Contains(t, lines[2], "Chain ID: 1337")
	assert.True(t, strings.HasPrefix(lines[3], "  kovan"))
	assert.Contains(t, lines[3], "verify")
}

func TestRenderNodeStatus(t *testing.T) {
	instance := &domain.NodeInstance{Name: "development", PidFile: "/tmp/a.pid", LogFile: "/tmp/a.log"}

	var out bytes.Buffer
	renderer := NewNodeRenderer(&out)
	require.NoError(t, renderer.Render(&usecase.ManageNodeResult{
		Operation: usecase.NodeStatus,
		Instance:  instance,
		Status:    &domain.NodeStatus{},
	}))
	assert.Contains(t, out.String(), "Not running")
	assert.Contains(t, out.String(), "/tmp/a.pid")

	out.Reset()
	require.NoError(t, renderer.Render(&usecase.ManageNodeResult{
		Operation: usecase.NodeStatus,
		Instance:  instance,
		Status:    &domain.NodeStatus{Running: true, PID: 42, RPCHealthy: true, ChainID: 1337},
	}))
	assert.Contains(t, out.String(), "Running (PID 42)")
	assert.Contains(t, out.String(), "Responding (chain 1337)")

	assert.Error(t, renderer.Render(&usecase.ManageNodeResult{Operation: "fork"}))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "❌ Failed to deploy: boom", FormatError("failed to deploy: boom"))
	assert.Equal(t, "✅ done", FormatSuccess("done"))
	assert.Equal(t, "Eth Usd Price Feed", title(domain.EthUsdPriceFeed))
	assert.Equal(t, "2000", scaled(domain.InitialPriceFeedValue, big.NewInt(18)))
	assert.Equal(t, "2000.00", scaled(big.NewInt(200_000_000_000), big.NewInt(8)))
}

func TestRenderJSON(t *testing.T) {
	var out bytes.Buffer
	contract := &models.Contract{Name: "MockDAI", Address: common.HexToAddress("0x01")}
	require.NoError(t, RenderJSON(&out, contract))
	assert.JSONEq(t, `{"name":"MockDAI","address":"0x0000000000000000000000000000000000000001"}`, out.String())
}
