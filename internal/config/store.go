package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"github.com/zeromicro/go-zero/core/logx"
)

const (
	keyMultisigCreateKey = "multisig.create_key"
	keyMultisigAddress   = "multisig.address"
	keyMultisigVault     = "multisig.vault"
	keyMultisigMembers   = "multisig.members"
	keyLastTransaction   = "last_transaction_index"
)

// MultisigRecord is the locally persisted identity of the multisig the
// tool operates on. Members is the set the multisig was created with; the
// on-chain config is authoritative once the squad votes on changes.
type MultisigRecord struct {
	CreateKey solana.PublicKey
	Multisig  solana.PublicKey
	Vault     solana.PublicKey
	Members   []MemberEntry
}

// Store keeps pipeline state between runs in a small json file.
type Store struct {
	mu   sync.RWMutex
	v    *viper.Viper
	path string
}

// NewStore opens the state file at path, creating state lazily on first write.
func NewStore(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "reading state %s", path)
		}
	}
	return &Store{v: v, path: path}, nil
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// SetMultisig records the created multisig and persists immediately.
func (s *Store) SetMultisig(rec MultisigRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(keyMultisigCreateKey, rec.CreateKey.String())
	s.v.Set(keyMultisigAddress, rec.Multisig.String())
	s.v.Set(keyMultisigVault, rec.Vault.String())
	members := make([]map[string]string, 0, len(rec.Members))
	for _, m := range rec.Members {
		members = append(members, map[string]string{
			"key":         m.Key,
			"permissions": m.Permissions,
		})
	}
	s.v.Set(keyMultisigMembers, members)
	return s.flush()
}

// Multisig returns the persisted multisig record, if one exists.
func (s *Store) Multisig() (MultisigRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	address := s.v.GetString(keyMultisigAddress)
	if address == "" {
		return MultisigRecord{}, false
	}
	rec, err := parseMultisigRecord(
		s.v.GetString(keyMultisigCreateKey),
		address,
		s.v.GetString(keyMultisigVault),
	)
	if err != nil {
		logx.Errorf("[store]: corrupt multisig record in %s: %v", s.path, err)
		return MultisigRecord{}, false
	}
	for _, raw := range cast.ToSlice(s.v.Get(keyMultisigMembers)) {
		entry := cast.ToStringMapString(raw)
		rec.Members = append(rec.Members, MemberEntry{
			Key:         entry["key"],
			Permissions: entry["permissions"],
		})
	}
	return rec, true
}

// Watch reloads the store whenever the state file changes on disk, so edits
// made outside the process show up without a restart.
func (s *Store) Watch() {
	s.v.OnConfigChange(func(e fsnotify.Event) {
		logx.Infof("[store]: %s reloaded", filepath.Base(e.Name))
	})
	s.v.WatchConfig()
}

// SetLastTransactionIndex records the highest transaction index this tool
// has created and persists immediately.
func (s *Store) SetLastTransactionIndex(index uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(keyLastTransaction, index)
	return s.flush()
}

// LastTransactionIndex returns the highest persisted transaction index,
// zero when none has been recorded.
func (s *Store) LastTransactionIndex() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cast.ToUint64(s.v.Get(keyLastTransaction))
}

func (s *Store) flush() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return errors.Wrapf(err, "writing state %s", s.path)
	}
	return nil
}

func parseMultisigRecord(createKey, address, vault string) (MultisigRecord, error) {
	ck, err := solana.PublicKeyFromBase58(createKey)
	if err != nil {
		return MultisigRecord{}, errors.Wrap(err, "create key")
	}
	ms, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return MultisigRecord{}, errors.Wrap(err, "address")
	}
	vt, err := solana.PublicKeyFromBase58(vault)
	if err != nil {
		return MultisigRecord{}, errors.Wrap(err, "vault")
	}
	return MultisigRecord{CreateKey: ck, Multisig: ms, Vault: vt}, nil
}
