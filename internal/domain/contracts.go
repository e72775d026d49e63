package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/params"
)

// Artifact names of the contracts the tool deploys or binds
const (
	NellariumContract        = "Nellarium"
	TokenFarmContract        = "TokenFarm"
	MockV3AggregatorContract = "MockV3Aggregator"
	MockDAIContract          = "MockDAI"
	MockWETHContract         = "MockWETH"
	MockERC20Contract        = "MockERC20"
)

// Contract keys resolvable through GetContract
const (
	EthUsdPriceFeed = "eth_usd_price_feed"
	DaiUsdPriceFeed = "dai_usd_price_feed"
	DaiToken        = "dai_token"
	WethToken       = "weth_token"
)

// ContractToMock maps a contract key to the mock artifact that stands in for it
var ContractToMock = map[string]string{
	EthUsdPriceFeed: MockV3AggregatorContract,
	DaiUsdPriceFeed: MockV3AggregatorContract,
	DaiToken:        MockDAIContract,
	WethToken:       MockWETHContract,
}

// ContractKeys returns the keys of ContractToMock in a stable order
func ContractKeys() []string {
	return []string{EthUsdPriceFeed, DaiUsdPriceFeed, DaiToken, WethToken}
}

// Mock price feed parameters
const MockDecimals uint8 = 18

// InitialPriceFeedValue is the mock feed answer: 2000 with 18 decimals
var InitialPriceFeedValue = new(big.Int).Mul(big.NewInt(2000), big.NewInt(params.Ether))

// KeptBalance is the NEL amount the deployer keeps when funding the farm
var KeptBalance = new(big.Int).Mul(big.NewInt(100), big.NewInt(params.Ether))
