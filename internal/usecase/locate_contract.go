package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/models"
)

// LocateContract finds the newest live deployment of a contract on the active chain
type LocateContract struct {
	chain       ChainClient
	artifacts   ArtifactRepository
	deployments DeploymentRepository
}

// NewLocateContract creates a new LocateContract use case
func NewLocateContract(chain ChainClient, artifacts ArtifactRepository, deployments DeploymentRepository) *LocateContract {
	return &LocateContract{
		chain:       chain,
		artifacts:   artifacts,
		deployments: deployments,
	}
}

// Run returns the newest deployment of contractName that still has code.
// A newest record without code (restarted dev chain) counts as not deployed.
func (uc *LocateContract) Run(ctx context.Context, contractName string) (*models.Contract, error) {
	chainID, err := uc.chain.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	deployment, err := uc.deployments.Latest(ctx, chainID, contractName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no %s on chain %d", domain.ErrNotDeployed, contractName, chainID)
		}
		return nil, err
	}

	address := common.HexToAddress(deployment.Address)
	hasCode, err := uc.chain.HasCode(ctx, address)
	if err != nil {
		return nil, err
	}
	if !hasCode {
		return nil, fmt.Errorf("%w: %s at %s has no code on chain %d", domain.ErrNotDeployed, contractName, deployment.Address, chainID)
	}

	return uc.bind(ctx, contractName, address, deployment.ABI)
}

// Bind attaches the ABI of artifactName to an address
func (uc *LocateContract) Bind(ctx context.Context, artifactName string, address common.Address) (*models.Contract, error) {
	return uc.bind(ctx, artifactName, address, nil)
}

// bind prefers the compiled artifact and falls back to the ABI stored with the record
func (uc *LocateContract) bind(ctx context.Context, name string, address common.Address, recordABI json.RawMessage) (*models.Contract, error) {
	artifact, err := uc.artifacts.Get(ctx, name)
	if err == nil {
		return models.NewContract(artifact, address), nil
	}
	if len(recordABI) == 0 {
		return nil, err
	}

	parsed, parseErr := abi.JSON(bytes.NewReader(recordABI))
	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse recorded ABI of %s: %w", name, parseErr)
	}
	return &models.Contract{Name: name, Address: address, ABI: &parsed}, nil
}
