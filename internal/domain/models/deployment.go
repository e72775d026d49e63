package models

import (
	"encoding/json"
	"time"
)

// VerificationStatus represents the verification status
type VerificationStatus string

const (
	VerificationStatusUnverified VerificationStatus = "UNVERIFIED"
	VerificationStatusVerified   VerificationStatus = "VERIFIED"
	VerificationStatusFailed     VerificationStatus = "FAILED"
)

// Deployment represents a contract deployment record
type Deployment struct {
	ContractName    string             `json:"contractName"`
	Address         string             `json:"address"`
	ChainID         uint64             `json:"chainId"`
	Network         string             `json:"network"`
	TxHash          string             `json:"txHash,omitempty"`
	BlockNumber     uint64             `json:"blockNumber,omitempty"`
	Deployer        string             `json:"deployer,omitempty"`
	ConstructorArgs string             `json:"constructorArgs,omitempty"` // Hex encoded
	RunID           string             `json:"runId,omitempty"`
	SourcePath      string             `json:"sourcePath,omitempty"`
	CompilerVersion string             `json:"compilerVersion,omitempty"`
	Verification    VerificationStatus `json:"verification"`
	ABI             json.RawMessage    `json:"abi,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// IsVerified reports whether the source was published
func (d *Deployment) IsVerified() bool {
	return d.Verification == VerificationStatusVerified
}
