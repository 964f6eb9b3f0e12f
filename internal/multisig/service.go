package multisig

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/ricardocr987/squads-scripting/internal/config"
	"github.com/ricardocr987/squads-scripting/internal/wallet"
	"github.com/ricardocr987/squads-scripting/pkg/squads"
)

// ErrNoMultisig means no multisig has been created and recorded yet.
var ErrNoMultisig = errors.New("no multisig recorded, run create first")

// Chain is the slice of the RPC client the service reads through.
type Chain interface {
	GetAccountData(ctx context.Context, account solana.PublicKey) ([]byte, error)
	GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
	RequestAirdrop(ctx context.Context, account solana.PublicKey, lamports uint64) (solana.Signature, error)
}

// Sender carries assembled instructions through the send pipeline.
type Sender interface {
	SignAndSend(ctx context.Context, instrs []solana.Instruction, signers []solana.PrivateKey) (solana.Signature, error)
	Confirm(ctx context.Context, sig solana.Signature) error
}

// Service drives the multisig lifecycle: create, fund, propose, vote,
// execute, close, inspect. The wallet key signs and pays for everything;
// the multisig identity lives in the store between runs.
type Service struct {
	chain  Chain
	sender Sender
	store  *config.Store
	wallet *wallet.Wallet
	cfg    config.SquadsConf
}

func New(chain Chain, sender Sender, store *config.Store, w *wallet.Wallet, cfg config.SquadsConf) *Service {
	return &Service{chain: chain, sender: sender, store: store, wallet: w, cfg: cfg}
}

// record returns the persisted multisig identity or ErrNoMultisig.
func (s *Service) record() (config.MultisigRecord, error) {
	rec, ok := s.store.Multisig()
	if !ok {
		return config.MultisigRecord{}, ErrNoMultisig
	}
	return rec, nil
}

func (s *Service) fetchMultisig(ctx context.Context, address solana.PublicKey) (*squads.Multisig, error) {
	data, err := s.chain.GetAccountData(ctx, address)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching multisig %s", address)
	}
	ms, err := squads.DecodeMultisig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding multisig %s", address)
	}
	return ms, nil
}

// resolveIndex picks the transaction index an operation targets: an explicit
// index wins, then the last index this tool created, then the multisig's
// current on-chain index.
func (s *Service) resolveIndex(ms *squads.Multisig, index uint64) (uint64, error) {
	if index > 0 {
		return index, nil
	}
	if last := s.store.LastTransactionIndex(); last > 0 {
		return last, nil
	}
	if ms.TransactionIndex == 0 {
		return 0, errors.New("no vault transactions created yet")
	}
	return ms.TransactionIndex, nil
}

func requirePermission(ms *squads.Multisig, member solana.PublicKey, permission uint8, action string) error {
	perms, ok := ms.MemberPermissions(member)
	if !ok {
		return errors.Errorf("%s is not a member of this multisig", member)
	}
	if !perms.Has(permission) {
		return errors.Errorf("%s cannot %s, it only holds %s", member, action, perms)
	}
	return nil
}
