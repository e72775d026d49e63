package senders

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/config"
	"github.com/nellarium/tokenfarm/internal/domain/models"
)

const (
	testMnemonic = "test test test test test test test test test test test junk"
	// second account of testMnemonic
	testPrivateKey = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
)

var (
	account0 = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	account1 = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

type fakePassphrases struct {
	passphrase string
	err        error
	asked      []string
}

func (f *fakePassphrases) Passphrase(_ context.Context, label string) (string, error) {
	f.asked = append(f.asked, label)
	return f.passphrase, f.err
}

func newLoader(t *testing.T, passphrases PassphraseReader) (*AccountLoader, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.RuntimeConfig{KeystoreDir: dir}
	return NewAccountLoader(cfg, passphrases, slog.New(slog.NewTextHandler(io.Discard, nil))), dir
}

func writeKeystore(t *testing.T, dir, id, hexKey, passphrase string) {
	t.Helper()
	priv, err := crypto.HexToECDSA(hexKey[2:])
	require.NoError(t, err)
	key := &keystore.Key{
		Id:         uuid.New(),
		Address:    crypto.PubkeyToAddress(priv.PublicKey),
		PrivateKey: priv,
	}
	data, err := keystore.EncryptKey(key, passphrase, keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), data, 0600))
}

func TestFromMnemonic(t *testing.T) {
	loader, _ := newLoader(t, &fakePassphrases{})
	ctx := context.Background()

	tests := []struct {
		name    string
		index   int
		want    common.Address
		wantErr bool
	}{
		{name: "index 0", index: 0, want: account0},
		{name: "index 1", index: 1, want: account1},
		{name: "negative index", index: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := loader.FromMnemonic(ctx, testMnemonic, tt.index, 31337)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, account.Address)
			assert.Equal(t, models.AccountSourceMnemonic, account.Source)
			assert.Equal(t, tt.index, account.Index)
			assert.Equal(t, tt.want, account.Opts.From)
		})
	}

	t.Run("invalid mnemonic", func(t *testing.T) {
		_, err := loader.FromMnemonic(ctx, "not a real mnemonic", 0, 31337)
		assert.Error(t, err)
	})
}

func TestFromPrivateKey(t *testing.T) {
	loader, _ := newLoader(t, &fakePassphrases{})

	for _, key := range []string{testPrivateKey, testPrivateKey[2:], " " + testPrivateKey + "\n"} {
		account, err := loader.FromPrivateKey(context.Background(), key, 42)
		require.NoError(t, err)
		assert.Equal(t, account1, account.Address)
		assert.Equal(t, models.AccountSourcePrivateKey, account.Source)
	}

	_, err := loader.FromPrivateKey(context.Background(), "0x1234", 42)
	assert.Error(t, err)
}

func TestFromKeystore(t *testing.T) {
	ctx := context.Background()

	t.Run("passphrase from env", func(t *testing.T) {
		prompts := &fakePassphrases{}
		loader, dir := newLoader(t, prompts)
		writeKeystore(t, dir, "deployer", testPrivateKey, "secret")
		t.Setenv(PasswordEnv, "secret")

		account, err := loader.FromKeystore(ctx, "deployer", 42)
		require.NoError(t, err)
		assert.Equal(t, account1, account.Address)
		assert.Equal(t, models.AccountSourceKeystore, account.Source)
		assert.Equal(t, "deployer", account.ID)
		assert.Empty(t, prompts.asked)
	})

	t.Run("passphrase from prompt", func(t *testing.T) {
		prompts := &fakePassphrases{passphrase: "secret"}
		loader, dir := newLoader(t, prompts)
		writeKeystore(t, dir, "deployer", testPrivateKey, "secret")

		account, err := loader.FromKeystore(ctx, "deployer", 42)
		require.NoError(t, err)
		assert.Equal(t, account1, account.Address)
		assert.Equal(t, []string{"Passphrase for deployer"}, prompts.asked)
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		loader, dir := newLoader(t, &fakePassphrases{passphrase: "wrong"})
		writeKeystore(t, dir, "deployer", testPrivateKey, "secret")

		_, err := loader.FromKeystore(ctx, "deployer", 42)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decrypt keystore")
	})

	t.Run("non-interactive without env", func(t *testing.T) {
		loader, dir := newLoader(t, &fakePassphrases{err: domain.ErrInteractiveDisabled})
		writeKeystore(t, dir, "deployer", testPrivateKey, "secret")

		_, err := loader.FromKeystore(ctx, "deployer", 42)
		assert.ErrorIs(t, err, domain.ErrInteractiveDisabled)
	})

	t.Run("missing keystore", func(t *testing.T) {
		loader, _ := newLoader(t, &fakePassphrases{})
		_, err := loader.FromKeystore(ctx, "nobody", 42)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
