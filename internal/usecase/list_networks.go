package usecase

import (
	"context"
	"net/url"

	cfgloader "github.com/nellarium/tokenfarm/internal/config"
	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/config"
)

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Active   string
	Networks []NetworkStatus
}

// NetworkStatus describes one configured network
type NetworkStatus struct {
	Name    string             `json:"name"`
	Kind    domain.NetworkKind `json:"kind"`
	Host    string             `json:"host,omitempty"`
	ChainID uint64             `json:"chainId,omitempty"`
	Verify  bool               `json:"verify"`
	Active  bool               `json:"active"`
}

// ListNetworks is a use case for listing configured networks
type ListNetworks struct {
	cfg *config.RuntimeConfig
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig) *ListNetworks {
	return &ListNetworks{cfg: cfg}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context) (*ListNetworksResult, error) {
	project := uc.cfg.Project
	result := &ListNetworksResult{Active: uc.cfg.Network.Name}

	for _, name := range cfgloader.NetworkNames(project) {
		entry := project.Networks.Networks[name]
		result.Networks = append(result.Networks, NetworkStatus{
			Name:    name,
			Kind:    cfgloader.NetworkKind(project, name),
			Host:    redactHost(entry.Host),
			ChainID: entry.ChainID,
			Verify:  entry.Verify,
			Active:  name == uc.cfg.Network.Name,
		})
	}
	return result, nil
}

// redactHost drops path and query, where RPC providers put API keys
func redactHost(host string) string {
	u, err := url.Parse(host)
	if err != nil || u.Host == "" {
		return host
	}
	return u.Scheme + "://" + u.Host
}
