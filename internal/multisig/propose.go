package multisig

import (
	"context"

	"github.com/decert-me/solana-go-sdk/common"
	"github.com/decert-me/solana-go-sdk/program/system"
	"github.com/decert-me/solana-go-sdk/types"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ricardocr987/squads-scripting/internal/interop"
	"github.com/ricardocr987/squads-scripting/pkg/squads"
	"github.com/ricardocr987/squads-scripting/pkg/squadslegacy"
)

// ProposeResult reports the created vault transaction and its proposal.
type ProposeResult struct {
	TransactionIndex uint64
	Transaction      solana.PublicKey
	Proposal         solana.PublicKey
	Signature        solana.Signature
}

// ProposeTransfer stores a SOL transfer out of the vault as a vault
// transaction and opens its proposal for voting, both in one atomic
// transaction so the index can never drift. The transfer itself runs later,
// under Execute, with the vault as the compiled message's payer.
func (s *Service) ProposeTransfer(ctx context.Context, recipient solana.PublicKey, lamports uint64, memo string) (*ProposeResult, error) {
	if lamports == 0 {
		return nil, errors.New("transfer amount must be above zero")
	}
	rec, err := s.record()
	if err != nil {
		return nil, err
	}
	ms, err := s.fetchMultisig(ctx, rec.Multisig)
	if err != nil {
		return nil, err
	}
	if err := requirePermission(ms, s.wallet.PublicKey(), squads.PermissionPropose, "propose"); err != nil {
		return nil, err
	}

	index := ms.TransactionIndex + 1
	transactionPDA, _, err := squads.FindTransactionPDA(rec.Multisig, index)
	if err != nil {
		return nil, err
	}
	proposalPDA, _, err := squads.FindProposalPDA(rec.Multisig, index)
	if err != nil {
		return nil, err
	}

	transfer := system.Transfer(system.TransferParam{
		From:   legacyKey(rec.Vault),
		To:     legacyKey(recipient),
		Amount: lamports,
	})
	message, err := squadslegacy.CompileMessage(legacyKey(rec.Vault), []types.Instruction{transfer})
	if err != nil {
		return nil, err
	}

	param := squadslegacy.VaultTransactionCreateParam{
		Multisig:         legacyKey(rec.Multisig),
		Creator:          legacyKey(s.wallet.PublicKey()),
		TransactionIndex: index,
		VaultIndex:       s.cfg.VaultIndex,
		Message:          message,
	}
	if memo != "" {
		param.Memo = &memo
	}
	legacyCreate, err := squadslegacy.VaultTransactionCreate(param)
	if err != nil {
		return nil, err
	}
	createIx, err := interop.Adapt(legacyCreate)
	if err != nil {
		return nil, err
	}

	proposalIx, err := squads.NewProposalCreateInstruction(rec.Multisig, s.wallet.PublicKey(), index).ValidateAndBuild()
	if err != nil {
		return nil, err
	}

	sig, err := s.sender.SignAndSend(ctx, []solana.Instruction{createIx, proposalIx}, []solana.PrivateKey{s.wallet.PrivateKey})
	if err != nil {
		return nil, err
	}
	if err := s.store.SetLastTransactionIndex(index); err != nil {
		return nil, err
	}
	logx.Infof("[multisig]: proposed transfer of %d lamports to %s as transaction #%d", lamports, recipient, index)

	return &ProposeResult{
		TransactionIndex: index,
		Transaction:      transactionPDA,
		Proposal:         proposalPDA,
		Signature:        sig,
	}, nil
}

// legacyKey converts a public key into the legacy SDK flavor the
// compiled-message producer takes.
func legacyKey(key solana.PublicKey) common.PublicKey {
	return common.PublicKeyFromBytes(key.Bytes())
}
