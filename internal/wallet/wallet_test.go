package wallet

import (
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
)

func TestLoadFromEnv(t *testing.T) {
	account := solana.NewWallet()
	t.Setenv(EnvPrivateKey, account.PrivateKey.String())

	w, err := Load(filepath.Join(t.TempDir(), "id.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !w.PublicKey().Equals(account.PublicKey()) {
		t.Errorf("public key = %s, want %s", w.PublicKey(), account.PublicKey())
	}
}

func TestLoadRejectsBadEnvKey(t *testing.T) {
	t.Setenv(EnvPrivateKey, "not-a-base58-key")
	if _, err := Load(filepath.Join(t.TempDir(), "id.json")); err == nil {
		t.Fatal("expected an error for a malformed PRIVATE_KEY")
	}
}

func TestGeneratePersistsAndReloads(t *testing.T) {
	t.Setenv(EnvPrivateKey, "")
	path := filepath.Join(t.TempDir(), "keys", "id.json")

	generated, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reloaded.PublicKey().Equals(generated.PublicKey()) {
		t.Errorf("reloaded %s, generated %s", reloaded.PublicKey(), generated.PublicKey())
	}
}

func TestGenerateWritesKeygenFormat(t *testing.T) {
	t.Setenv(EnvPrivateKey, "")
	path := filepath.Join(t.TempDir(), "id.json")

	w, err := Generate(path)
	if err != nil {
		t.Fatal(err)
	}
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !key.PublicKey().Equals(w.PublicKey()) {
		t.Errorf("file key = %s, want %s", key.PublicKey(), w.PublicKey())
	}
}
