package models

import (
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// AccountSource tells where a signing key came from
type AccountSource string

const (
	AccountSourceMnemonic   AccountSource = "mnemonic"
	AccountSourceKeystore   AccountSource = "keystore"
	AccountSourcePrivateKey AccountSource = "private_key"
)

// Account is a signing account bound to the active chain
type Account struct {
	Address common.Address
	Source  AccountSource
	Index   int    // mnemonic index, when Source is mnemonic
	ID      string // keystore id, when Source is keystore
	Opts    *bind.TransactOpts
}
