package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/nellarium/tokenfarm/internal/domain/config"
)

// loadFoundryConfig parses foundry.toml. A project without one returns nil.
func loadFoundryConfig(projectRoot string) (*config.FoundryConfig, error) {
	foundryPath := filepath.Join(projectRoot, "foundry.toml")

	var cfg config.FoundryConfig
	if _, err := toml.DecodeFile(foundryPath, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse foundry.toml: %w", err)
	}

	for name, url := range cfg.RpcEndpoints {
		cfg.RpcEndpoints[name] = os.ExpandEnv(url)
	}

	return &cfg, nil
}

// applyFoundryEndpoints fills missing network hosts from [rpc_endpoints]
func applyFoundryEndpoints(project *config.ProjectConfig, foundry *config.FoundryConfig) {
	if foundry == nil {
		return
	}
	for name, network := range project.Networks.Networks {
		if network.Host != "" {
			continue
		}
		if url, ok := foundry.RpcEndpoints[name]; ok {
			network.Host = url
			project.Networks.Networks[name] = network
		}
	}
}
