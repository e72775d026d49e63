package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ProjectConfig is the content of tokenfarm.yaml
type ProjectConfig struct {
	Dotenv         string         `yaml:"dotenv,omitempty"`
	BuildDir       string         `yaml:"build_dir,omitempty"`
	FrontEnd       FrontEndConfig `yaml:"front_end,omitempty"`
	Wallets        WalletsConfig  `yaml:"wallets,omitempty"`
	LocalNetworks  []string       `yaml:"local_networks,omitempty"`
	ForkedNetworks []string       `yaml:"forked_networks,omitempty"`
	Networks       NetworksConfig `yaml:"networks"`

	// ExplicitBuildDir is set when build_dir was written in the file
	ExplicitBuildDir bool `yaml:"-"`
}

// FrontEndConfig locates the front-end tree that consumes build output
type FrontEndConfig struct {
	Dir        string `yaml:"dir,omitempty"`
	ConfigFile string `yaml:"config_file,omitempty"`
}

// WalletsConfig holds signing material for live networks
type WalletsConfig struct {
	FromKey     string `yaml:"from_key,omitempty"` //nolint:gosec // usually an env var reference
	KeystoreDir string `yaml:"keystore_dir,omitempty"`
}

// NetworksConfig is the networks section: a default name plus one entry per network
type NetworksConfig struct {
	Default  string
	Networks map[string]NetworkConfig `validate:"dive"`
}

// UnmarshalYAML splits the "default" scalar from the network mappings
func (n *NetworksConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("networks must be a mapping (line %d)", value.Line)
	}
	n.Networks = make(map[string]NetworkConfig)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		node := value.Content[i+1]
		if key == "default" {
			if err := node.Decode(&n.Default); err != nil {
				return fmt.Errorf("networks.default: %w", err)
			}
			continue
		}
		var network NetworkConfig
		if err := node.Decode(&network); err != nil {
			return fmt.Errorf("networks.%s: %w", key, err)
		}
		n.Networks[key] = network
	}
	return nil
}

// NetworkConfig is a single entry of the networks section
type NetworkConfig struct {
	Host     string `yaml:"host,omitempty" validate:"omitempty,url"`
	ChainID  uint64 `yaml:"chain_id,omitempty"`
	Mnemonic string `yaml:"mnemonic,omitempty"`
	Fork     string `yaml:"fork,omitempty" validate:"omitempty,url"`
	Launch   bool   `yaml:"launch,omitempty"`
	Verify   bool   `yaml:"verify,omitempty"`

	WethToken       string `yaml:"weth_token,omitempty" validate:"omitempty,eth_addr"`
	DaiToken        string `yaml:"dai_token,omitempty" validate:"omitempty,eth_addr"`
	EthUsdPriceFeed string `yaml:"eth_usd_price_feed,omitempty" validate:"omitempty,eth_addr"`
	DaiUsdPriceFeed string `yaml:"dai_usd_price_feed,omitempty" validate:"omitempty,eth_addr"`
}

// Contracts returns the configured live addresses keyed by contract key
func (n NetworkConfig) Contracts() map[string]string {
	contracts := make(map[string]string)
	for key, addr := range map[string]string{
		"weth_token":         n.WethToken,
		"dai_token":          n.DaiToken,
		"eth_usd_price_feed": n.EthUsdPriceFeed,
		"dai_usd_price_feed": n.DaiUsdPriceFeed,
	} {
		if addr != "" {
			contracts[key] = addr
		}
	}
	return contracts
}
