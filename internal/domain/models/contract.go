package models

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// BytecodeObject represents bytecode information in a Foundry artifact
type BytecodeObject struct {
	Object         string         `json:"object"`
	SourceMap      string         `json:"sourceMap"`
	LinkReferences map[string]any `json:"linkReferences"`
}

// ArtifactFile is the on-disk shape shared by Brownie and Foundry artifacts.
// Brownie stores bytecode as a hex string, Foundry as a BytecodeObject.
type ArtifactFile struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
	SourcePath   string          `json:"sourcePath"`
	Compiler     struct {
		Version string `json:"version"`
	} `json:"compiler"`
	Metadata struct {
		Compiler struct {
			Version string `json:"version"`
		} `json:"compiler"`
		Settings struct {
			CompilationTarget map[string]string `json:"compilationTarget"`
		} `json:"settings"`
	} `json:"metadata"`
}

// Artifact is a parsed, deployable contract artifact
type Artifact struct {
	Name            string          `json:"name"`
	Path            string          `json:"path"`
	SourcePath      string          `json:"sourcePath,omitempty"`
	CompilerVersion string          `json:"compilerVersion,omitempty"`
	RawABI          json.RawMessage `json:"abi"`
	ABI             abi.ABI         `json:"-"`
	Bytecode        []byte          `json:"-"`
}

// Deployable reports whether the artifact carries creation bytecode
func (a *Artifact) Deployable() bool {
	return len(a.Bytecode) > 0
}

// Contract is a contract instance bound to an address and ABI
type Contract struct {
	Name    string         `json:"name"`
	Address common.Address `json:"address"`
	ABI     *abi.ABI       `json:"-"`
}

// NewContract binds an artifact's ABI to an address
func NewContract(artifact *Artifact, address common.Address) *Contract {
	return &Contract{
		Name:    artifact.Name,
		Address: address,
		ABI:     &artifact.ABI,
	}
}
