package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrArtifactNotFound is returned when no compiled artifact matches a contract name
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrNotDeployable is returned when an artifact has no creation bytecode
	ErrNotDeployable = errors.New("artifact has no bytecode")

	// ErrNotDeployed is returned when a contract the sequence depends on was never deployed
	ErrNotDeployed = errors.New("contract not deployed")

	// ErrUnknownNetwork is returned when the selected network is not configured
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrUnknownContractKey is returned for a contract key without a mock mapping
	ErrUnknownContractKey = errors.New("unknown contract key")

	// ErrMissingAddress is returned when a live network lacks an address for a contract key
	ErrMissingAddress = errors.New("missing contract address")

	// ErrMissingPrivateKey is returned when a live network has no wallets.from_key
	ErrMissingPrivateKey = errors.New("missing private key")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrChainIDMismatch is returned when the RPC reports a different chain than configured
	ErrChainIDMismatch = errors.New("chain ID mismatch")

	// ErrTransactionReverted is returned when a mined transaction has a failed status
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrInsufficientSupply is returned when the token supply cannot cover the kept balance
	ErrInsufficientSupply = errors.New("insufficient token supply")

	// ErrInteractiveDisabled is returned when a prompt is needed in non-interactive mode
	ErrInteractiveDisabled = errors.New("interactive input required but non-interactive mode is set")
)

// ArtifactNotFoundErr carries the requested name and close matches
type ArtifactNotFoundErr struct {
	Name        string
	Suggestions []string
}

func (e ArtifactNotFoundErr) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("no artifact named %q in build output", e.Name)
	}
	return fmt.Sprintf("no artifact named %q in build output, did you mean: %s?",
		e.Name, strings.Join(e.Suggestions, ", "))
}

func (e ArtifactNotFoundErr) Unwrap() error { return ErrArtifactNotFound }

// TxRevertedErr describes a mined transaction with a failed receipt
type TxRevertedErr struct {
	Contract string
	Method   string
	TxHash   string
}

func (e TxRevertedErr) Error() string {
	return fmt.Sprintf("%s.%s reverted (tx %s)", e.Contract, e.Method, e.TxHash)
}

func (e TxRevertedErr) Unwrap() error { return ErrTransactionReverted }

// UnknownNetworkErr lists the configured networks next to the requested one
type UnknownNetworkErr struct {
	Name      string
	Available []string
}

func (e UnknownNetworkErr) Error() string {
	return fmt.Sprintf("network %q is not configured in tokenfarm.yaml (available: %s)",
		e.Name, strings.Join(e.Available, ", "))
}

func (e UnknownNetworkErr) Unwrap() error { return ErrUnknownNetwork }
