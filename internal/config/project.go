package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/nellarium/tokenfarm/internal/domain/config"
)

// Defaults applied to tokenfarm.yaml
const (
	DefaultBuildDir       = "build"
	DefaultFrontEndDir    = "front_end/src"
	DefaultFrontEndConfig = "brownie-config.json"
	DefaultKeystoreDir    = "~/.tokenfarm/accounts"
	DefaultNetwork        = "development"
)

var (
	DefaultLocalNetworks  = []string{"development", "ganache-local"}
	DefaultForkedNetworks = []string{"mainnet-fork", "mainnet-fork-dev"}
)

// LoadProjectConfig reads tokenfarm.yaml with ${VAR} references expanded
func LoadProjectConfig(projectRoot string) (*config.ProjectConfig, error) {
	data, err := ReadRawProjectConfig(projectRoot)
	if err != nil {
		return nil, err
	}

	var cfg config.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFileName, err)
	}

	loadDotenv(projectRoot, cfg.Dotenv)
	expandProjectConfig(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// ReadRawProjectConfig returns tokenfarm.yaml exactly as written
func ReadRawProjectConfig(projectRoot string) ([]byte, error) {
	path := filepath.Join(projectRoot, ProjectFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// loadDotenv loads the configured env file, or .env when present.
// Variables already set in the environment win.
func loadDotenv(projectRoot, dotenv string) {
	explicit := dotenv != ""
	if !explicit {
		dotenv = ".env"
	}
	path := resolvePath(projectRoot, dotenv)

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return
		}
		slog.Warn("failed to load env file", slog.String("path", path), slog.String("error", err.Error()))
	}
}

func expandProjectConfig(cfg *config.ProjectConfig) {
	cfg.BuildDir = os.ExpandEnv(cfg.BuildDir)
	cfg.FrontEnd.Dir = os.ExpandEnv(cfg.FrontEnd.Dir)
	cfg.Wallets.FromKey = os.ExpandEnv(cfg.Wallets.FromKey)
	cfg.Wallets.KeystoreDir = os.ExpandEnv(cfg.Wallets.KeystoreDir)

	for name, network := range cfg.Networks.Networks {
		network.Host = os.ExpandEnv(network.Host)
		network.Fork = os.ExpandEnv(network.Fork)
		network.Mnemonic = os.ExpandEnv(network.Mnemonic)
		network.WethToken = os.ExpandEnv(network.WethToken)
		network.DaiToken = os.ExpandEnv(network.DaiToken)
		network.EthUsdPriceFeed = os.ExpandEnv(network.EthUsdPriceFeed)
		network.DaiUsdPriceFeed = os.ExpandEnv(network.DaiUsdPriceFeed)
		cfg.Networks.Networks[name] = network
	}
}

func applyDefaults(cfg *config.ProjectConfig) {
	cfg.ExplicitBuildDir = cfg.BuildDir != ""
	if cfg.BuildDir == "" {
		cfg.BuildDir = DefaultBuildDir
	}
	if cfg.FrontEnd.Dir == "" {
		cfg.FrontEnd.Dir = DefaultFrontEndDir
	}
	if cfg.FrontEnd.ConfigFile == "" {
		cfg.FrontEnd.ConfigFile = DefaultFrontEndConfig
	}
	if cfg.Wallets.KeystoreDir == "" {
		cfg.Wallets.KeystoreDir = DefaultKeystoreDir
	}
	if cfg.LocalNetworks == nil {
		cfg.LocalNetworks = append([]string(nil), DefaultLocalNetworks...)
	}
	if cfg.ForkedNetworks == nil {
		cfg.ForkedNetworks = append([]string(nil), DefaultForkedNetworks...)
	}
	if cfg.Networks.Default == "" {
		cfg.Networks.Default = DefaultNetwork
	}
	if cfg.Networks.Networks == nil {
		cfg.Networks.Networks = make(map[string]config.NetworkConfig)
	}
	// development is built in while it stays a local network
	if _, ok := cfg.Networks.Networks[DefaultNetwork]; !ok && slices.Contains(cfg.LocalNetworks, DefaultNetwork) {
		cfg.Networks.Networks[DefaultNetwork] = config.NetworkConfig{}
	}
}
