package config

import (
	"slices"

	"github.com/samber/lo"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/config"
)

// Fallbacks for local and forked networks
const (
	DefaultLocalHost = "http://127.0.0.1:8545"
	DefaultMnemonic  = "test test test test test test test test test test test junk"
)

// ResolveNetwork builds the active network from its tokenfarm.yaml entry
func ResolveNetwork(project *config.ProjectConfig, name string) (*domain.Network, error) {
	entry, ok := project.Networks.Networks[name]
	if !ok {
		return nil, domain.UnknownNetworkErr{Name: name, Available: NetworkNames(project)}
	}

	kind := NetworkKind(project, name)
	host := entry.Host
	if host == "" && kind != domain.NetworkLive {
		host = DefaultLocalHost
	}
	mnemonic := entry.Mnemonic
	if mnemonic == "" && kind != domain.NetworkLive {
		mnemonic = DefaultMnemonic
	}

	return &domain.Network{
		Name:      name,
		Kind:      kind,
		RPCURL:    host,
		ChainID:   entry.ChainID,
		Mnemonic:  mnemonic,
		ForkURL:   entry.Fork,
		Launch:    entry.Launch,
		Verify:    entry.Verify,
		Contracts: entry.Contracts(),
	}, nil
}

// NetworkKind classifies a network name by the local and forked lists
func NetworkKind(project *config.ProjectConfig, name string) domain.NetworkKind {
	switch {
	case slices.Contains(project.LocalNetworks, name):
		return domain.NetworkLocal
	case slices.Contains(project.ForkedNetworks, name):
		return domain.NetworkForked
	default:
		return domain.NetworkLive
	}
}

// NetworkNames returns the configured network names sorted
func NetworkNames(project *config.ProjectConfig) []string {
	names := lo.Keys(project.Networks.Networks)
	slices.Sort(names)
	return names
}
