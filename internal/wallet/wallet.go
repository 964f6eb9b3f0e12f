package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/logx"
)

// EnvPrivateKey is the environment variable checked before the keygen file.
const EnvPrivateKey = "PRIVATE_KEY"

// Wallet is the operator key every transaction is paid and signed with.
type Wallet struct {
	PrivateKey solana.PrivateKey
}

func (w *Wallet) PublicKey() solana.PublicKey {
	return w.PrivateKey.PublicKey()
}

// Load resolves the operator wallet: PRIVATE_KEY from the environment first,
// then the keygen file, generating and persisting a fresh key when neither
// is present.
func Load(keygenPath string) (*Wallet, error) {
	if raw := os.Getenv(EnvPrivateKey); raw != "" {
		key, err := solana.PrivateKeyFromBase58(raw)
		if err != nil {
			return nil, errors.Wrap(err, "parsing PRIVATE_KEY")
		}
		return &Wallet{PrivateKey: key}, nil
	}
	if _, err := os.Stat(keygenPath); err == nil {
		key, err := solana.PrivateKeyFromSolanaKeygenFile(keygenPath)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", keygenPath)
		}
		return &Wallet{PrivateKey: key}, nil
	}
	return Generate(keygenPath)
}

// Generate creates a new wallet and persists it at keygenPath in the solana
// keygen JSON format.
func Generate(keygenPath string) (*Wallet, error) {
	account := solana.NewWallet()
	if err := writeKeygenFile(account.PrivateKey, keygenPath); err != nil {
		return nil, errors.Wrapf(err, "writing %s", keygenPath)
	}
	logx.Infof("[wallet]: generated new wallet %s", account.PublicKey())
	return &Wallet{PrivateKey: account.PrivateKey}, nil
}

func writeKeygenFile(key solana.PrivateKey, path string) error {
	raw := make([]int, len(key))
	for i, b := range key {
		raw[i] = int(b)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o600)
}
