package models

import (
	"github.com/ethereum/go-ethereum/common"
)

// Receipt summarises a confirmed transaction
type Receipt struct {
	TxHash          common.Hash    `json:"txHash"`
	BlockNumber     uint64         `json:"blockNumber"`
	GasUsed         uint64         `json:"gasUsed"`
	ContractAddress common.Address `json:"contractAddress,omitempty"` // set for contract creations
}
