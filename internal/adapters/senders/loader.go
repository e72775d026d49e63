package senders

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/config"
	"github.com/nellarium/tokenfarm/internal/domain/models"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

// PasswordEnv holds the keystore passphrase for non-interactive use
const PasswordEnv = "TOKENFARM_ACCOUNT_PASSWORD"

// PassphraseReader asks for a keystore passphrase
type PassphraseReader interface {
	Passphrase(ctx context.Context, label string) (string, error)
}

// AccountLoader builds signing accounts from mnemonics, keystores and raw keys
type AccountLoader struct {
	keystoreDir string
	passphrases PassphraseReader
	log         *slog.Logger
}

// NewAccountLoader creates a loader reading keystores from the configured directory
func NewAccountLoader(cfg *config.RuntimeConfig, passphrases PassphraseReader, log *slog.Logger) *AccountLoader {
	return &AccountLoader{
		keystoreDir: cfg.KeystoreDir,
		passphrases: passphrases,
		log:         log.With("component", "accounts"),
	}
}

// FromMnemonic derives the account at m/44'/60'/0'/0/index
func (l *AccountLoader) FromMnemonic(ctx context.Context, mnemonic string, index int, chainID uint64) (*models.Account, error) {
	key, err := DeriveKey(mnemonic, index)
	if err != nil {
		return nil, err
	}

	account, err := newAccount(key, chainID)
	if err != nil {
		return nil, err
	}
	account.Source = models.AccountSourceMnemonic
	account.Index = index

	l.log.Debug("derived account", "index", index, "address", account.Address.Hex())
	return account, nil
}

// FromKeystore decrypts <keystore dir>/<id>.json
func (l *AccountLoader) FromKeystore(ctx context.Context, id string, chainID uint64) (*models.Account, error) {
	path := filepath.Join(l.keystoreDir, id+".json")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no keystore %q in %s", domain.ErrNotFound, id, l.keystoreDir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore: %w", err)
	}

	passphrase, ok := os.LookupEnv(PasswordEnv)
	if !ok {
		passphrase, err = l.passphrases.Passphrase(ctx, fmt.Sprintf("Passphrase for %s", id))
		if err != nil {
			return nil, err
		}
	}

	key, err := keystore.DecryptKey(data, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore %q: %w", id, err)
	}

	account, err := newAccount(key.PrivateKey, chainID)
	if err != nil {
		return nil, err
	}
	account.Source = models.AccountSourceKeystore
	account.ID = id

	l.log.Debug("loaded keystore account", "id", id, "address", account.Address.Hex())
	return account, nil
}

// FromPrivateKey loads a hex encoded private key, with or without 0x
func (l *AccountLoader) FromPrivateKey(ctx context.Context, hexKey string, chainID uint64) (*models.Account, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	account, err := newAccount(key, chainID)
	if err != nil {
		return nil, err
	}
	account.Source = models.AccountSourcePrivateKey
	return account, nil
}

// DeriveKey derives the BIP-44 Ethereum key at index from a BIP-39 mnemonic
func DeriveKey(mnemonic string, index int) (*ecdsa.PrivateKey, error) {
	if index < 0 {
		return nil, fmt.Errorf("account index must not be negative, got %d", index)
	}
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}

	seed := bip39.NewSeed(mnemonic, "")
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}

	path := []uint32{
		hdkeychain.HardenedKeyStart + 44,
		hdkeychain.HardenedKeyStart + 60,
		hdkeychain.HardenedKeyStart + 0,
		0,
		uint32(index),
	}
	for _, child := range path {
		key, err = key.Derive(child)
		if err != nil {
			return nil, fmt.Errorf("failed to derive key: %w", err)
		}
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("failed to extract private key: %w", err)
	}
	return crypto.ToECDSA(priv.Serialize())
}

func newAccount(key *ecdsa.PrivateKey, chainID uint64) (*models.Account, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(key, new(big.Int).SetUint64(chainID))
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}
	return &models.Account{
		Address: crypto.PubkeyToAddress(key.PublicKey),
		Opts:    opts,
	}, nil
}

// Ensure the loader implements the interface
var _ usecase.AccountLoader = (*AccountLoader)(nil)
