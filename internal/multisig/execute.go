package multisig

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ricardocr987/squads-scripting/pkg/squads"
)

// ExecuteResult reports an executed vault transaction.
type ExecuteResult struct {
	TransactionIndex uint64
	Transaction      solana.PublicKey
	Signature        solana.Signature
}

// Execute runs the approved vault transaction at index on chain. The stored
// message supplies every account the inner instructions touch; the vault
// signs through the program, never through us.
func (s *Service) Execute(ctx context.Context, index uint64) (*ExecuteResult, error) {
	rec, err := s.record()
	if err != nil {
		return nil, err
	}
	ms, err := s.fetchMultisig(ctx, rec.Multisig)
	if err != nil {
		return nil, err
	}
	if err := requirePermission(ms, s.wallet.PublicKey(), squads.PermissionExecute, "execute"); err != nil {
		return nil, err
	}
	resolved, err := s.resolveIndex(ms, index)
	if err != nil {
		return nil, err
	}

	transactionPDA, _, err := squads.FindTransactionPDA(rec.Multisig, resolved)
	if err != nil {
		return nil, err
	}
	data, err := s.chain.GetAccountData(ctx, transactionPDA)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching vault transaction #%d", resolved)
	}
	vtx, err := squads.DecodeVaultTransaction(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding vault transaction #%d", resolved)
	}

	metas, err := squads.ExecuteAccounts(vtx, transactionPDA)
	if err != nil {
		return nil, err
	}
	ix, err := squads.NewVaultTransactionExecuteInstruction(rec.Multisig, s.wallet.PublicKey(), resolved, metas).ValidateAndBuild()
	if err != nil {
		return nil, err
	}

	sig, err := s.sender.SignAndSend(ctx, []solana.Instruction{ix}, []solana.PrivateKey{s.wallet.PrivateKey})
	if err != nil {
		return nil, err
	}
	logx.Infof("[multisig]: executed transaction #%d", resolved)

	return &ExecuteResult{
		TransactionIndex: resolved,
		Transaction:      transactionPDA,
		Signature:        sig,
	}, nil
}

// CloseResult reports reclaimed rent.
type CloseResult struct {
	TransactionIndex uint64
	RentCollector    solana.PublicKey
	Signature        solana.Signature
}

// Close reclaims the rent of a settled transaction and its proposal into
// the multisig's rent collector. Closing is permissionless, the program
// only checks the proposal reached a terminal state.
func (s *Service) Close(ctx context.Context, index uint64) (*CloseResult, error) {
	rec, err := s.record()
	if err != nil {
		return nil, err
	}
	ms, err := s.fetchMultisig(ctx, rec.Multisig)
	if err != nil {
		return nil, err
	}
	if ms.RentCollector == nil {
		return nil, errors.New("multisig has no rent collector, its accounts cannot be closed")
	}
	resolved, err := s.resolveIndex(ms, index)
	if err != nil {
		return nil, err
	}

	ix, err := squads.NewVaultTransactionAccountsCloseInstruction(rec.Multisig, *ms.RentCollector, resolved).ValidateAndBuild()
	if err != nil {
		return nil, err
	}
	sig, err := s.sender.SignAndSend(ctx, []solana.Instruction{ix}, []solana.PrivateKey{s.wallet.PrivateKey})
	if err != nil {
		return nil, err
	}
	logx.Infof("[multisig]: closed transaction #%d, rent sent to %s", resolved, ms.RentCollector)

	return &CloseResult{
		TransactionIndex: resolved,
		RentCollector:    *ms.RentCollector,
		Signature:        sig,
	}, nil
}
