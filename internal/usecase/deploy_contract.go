package usecase

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/config"
	"github.com/nellarium/tokenfarm/internal/domain/models"
)

// DeployContractParams contains parameters for a single contract deployment
type DeployContractParams struct {
	ContractName  string
	Account       *models.Account
	Args          []any
	PublishSource bool
}

// DeployContractResult contains the deployed instance and its registry record
type DeployContractResult struct {
	Contract   *models.Contract
	Deployment *models.Deployment
}

// DeployContract deploys an artifact, records it and optionally publishes its source
type DeployContract struct {
	cfg         *config.RuntimeConfig
	chain       ChainClient
	artifacts   ArtifactRepository
	deployments DeploymentRepository
	verifier    ContractVerifier
	progress    ProgressSink
	log         *slog.Logger
	runID       string
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	chain ChainClient,
	artifacts ArtifactRepository,
	deployments DeploymentRepository,
	verifier ContractVerifier,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContract {
	if progress == nil {
		progress = NopProgress{}
	}
	return &DeployContract{
		cfg:         cfg,
		chain:       chain,
		artifacts:   artifacts,
		deployments: deployments,
		verifier:    verifier,
		progress:    progress,
		log:         log,
		runID:       uuid.NewString(),
	}
}

// Run executes the deployment
func (uc *DeployContract) Run(ctx context.Context, params DeployContractParams) (*DeployContractResult, error) {
	artifact, err := uc.artifacts.Get(ctx, params.ContractName)
	if err != nil {
		return nil, err
	}
	if !artifact.Deployable() {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotDeployable, artifact.Name)
	}

	constructorArgs, err := artifact.ABI.Pack("", params.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s constructor arguments: %w", artifact.Name, err)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "deploy",
		Message: fmt.Sprintf("Deploying %s", artifact.Name),
		Spinner: true,
	})

	receipt, err := uc.chain.Deploy(ctx, params.Account, artifact, params.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", artifact.Name, err)
	}

	chainID, err := uc.chain.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	deployment := &models.Deployment{
		ContractName:    artifact.Name,
		Address:         receipt.ContractAddress.Hex(),
		ChainID:         chainID,
		Network:         uc.cfg.Network.Name,
		TxHash:          receipt.TxHash.Hex(),
		BlockNumber:     receipt.BlockNumber,
		Deployer:        params.Account.Address.Hex(),
		ConstructorArgs: hex.EncodeToString(constructorArgs),
		RunID:           uc.runID,
		SourcePath:      artifact.SourcePath,
		CompilerVersion: artifact.CompilerVersion,
		Verification:    models.VerificationStatusUnverified,
		ABI:             artifact.RawABI,
		CreatedAt:       time.Now().UTC(),
	}
	if err := uc.deployments.Save(ctx, deployment); err != nil {
		return nil, fmt.Errorf("failed to record %s deployment: %w", artifact.Name, err)
	}

	uc.log.Info("contract deployed",
		slog.String("contract", artifact.Name),
		slog.String("address", deployment.Address),
		slog.String("tx", deployment.TxHash),
		slog.Uint64("block", deployment.BlockNumber),
	)

	if params.PublishSource {
		uc.publish(ctx, deployment)
	}

	return &DeployContractResult{
		Contract:   models.NewContract(artifact, receipt.ContractAddress),
		Deployment: deployment,
	}, nil
}

// publish verifies the source; failures are reported but never abort the deployment
func (uc *DeployContract) publish(ctx context.Context, deployment *models.Deployment) {
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "verify",
		Message: fmt.Sprintf("Publishing %s source", deployment.ContractName),
		Spinner: true,
	})

	status := models.VerificationStatusVerified
	if err := uc.verifier.Verify(ctx, deployment); err != nil {
		status = models.VerificationStatusFailed
		uc.log.Warn("source verification failed",
			slog.String("contract", deployment.ContractName),
			slog.String("address", deployment.Address),
			slog.String("error", err.Error()),
		)
		uc.progress.Error(fmt.Sprintf("Verification of %s failed: %v", deployment.ContractName, err))
	}

	deployment.Verification = status
	if err := uc.deployments.MarkVerified(ctx, deployment.ChainID, deployment.Address, status); err != nil {
		uc.log.Warn("failed to record verification status",
			slog.String("contract", deployment.ContractName),
			slog.String("error", err.Error()),
		)
	}
}
