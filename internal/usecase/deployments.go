package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	ChainID      uint64 // zero lists every chain
	ContractName string
}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Deployments []*models.Deployment
	ByChain     map[uint64]int
}

// ListDeployments is the use case for listing deployments
type ListDeployments struct {
	store DeploymentRepository
	sink  ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(store DeploymentRepository, sink ProgressSink) *ListDeployments {
	if sink == nil {
		sink = NopProgress{}
	}
	return &ListDeployments{store: store, sink: sink}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployments from registry",
		Spinner: true,
	})

	deployments, err := uc.store.List(ctx, domain.DeploymentFilter{
		ChainID:      params.ChainID,
		ContractName: params.ContractName,
	})
	if err != nil {
		return nil, err
	}

	sortDeployments(deployments)

	byChain := make(map[uint64]int)
	for _, d := range deployments {
		byChain[d.ChainID]++
	}
	return &DeploymentListResult{Deployments: deployments, ByChain: byChain}, nil
}

// sortDeployments orders by chain, contract name, then newest first
func sortDeployments(deployments []*models.Deployment) {
	sort.SliceStable(deployments, func(i, j int) bool {
		a, b := deployments[i], deployments[j]
		if a.ChainID != b.ChainID {
			return a.ChainID < b.ChainID
		}
		if a.ContractName != b.ContractName {
			return a.ContractName < b.ContractName
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

// PruneDeploymentsParams contains parameters for pruning the registry
type PruneDeploymentsParams struct {
	DryRun bool
}

// PruneDeploymentsResult lists the records without code on chain
type PruneDeploymentsResult struct {
	ChainID uint64
	Stale   []*models.Deployment
	Pruned  bool
}

// PruneDeployments removes records whose address has no code, as after a dev chain restart
type PruneDeployments struct {
	chain    ChainClient
	store    DeploymentRepository
	progress ProgressSink
}

// NewPruneDeployments creates a new PruneDeployments use case
func NewPruneDeployments(chain ChainClient, store DeploymentRepository, progress ProgressSink) *PruneDeployments {
	if progress == nil {
		progress = NopProgress{}
	}
	return &PruneDeployments{chain: chain, store: store, progress: progress}
}

// Run executes the prune
func (uc *PruneDeployments) Run(ctx context.Context, params PruneDeploymentsParams) (*PruneDeploymentsResult, error) {
	chainID, err := uc.chain.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	deployments, err := uc.store.List(ctx, domain.DeploymentFilter{ChainID: chainID})
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "collect_items",
		Message: fmt.Sprintf("Checking %d registry entries against chain %d", len(deployments), chainID),
		Spinner: true,
	})

	result := &PruneDeploymentsResult{ChainID: chainID}
	for _, d := range deployments {
		hasCode, err := uc.chain.HasCode(ctx, common.HexToAddress(d.Address))
		if err != nil {
			return nil, fmt.Errorf("failed to check %s at %s: %w", d.ContractName, d.Address, err)
		}
		if !hasCode {
			result.Stale = append(result.Stale, d)
		}
	}

	if params.DryRun || len(result.Stale) == 0 {
		return result, nil
	}

	addresses := make([]string, 0, len(result.Stale))
	for _, d := range result.Stale {
		addresses = append(addresses, d.Address)
	}
	if err := uc.store.Prune(ctx, chainID, addresses); err != nil {
		return nil, fmt.Errorf("failed to prune registry: %w", err)
	}
	result.Pruned = true
	return result, nil
}
