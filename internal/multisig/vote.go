package multisig

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ricardocr987/squads-scripting/pkg/squads"
)

// VoteResult reports a cast vote.
type VoteResult struct {
	TransactionIndex uint64
	Proposal         solana.PublicKey
	Signature        solana.Signature
}

// Approve casts an approve vote on the proposal at index, 0 meaning the
// latest transaction this tool knows about.
func (s *Service) Approve(ctx context.Context, index uint64, memo string) (*VoteResult, error) {
	return s.vote(ctx, index, "approve", func(multisig solana.PublicKey, index uint64) (*squads.Instruction, error) {
		b := squads.NewProposalApproveInstruction(multisig, s.wallet.PublicKey(), index)
		if memo != "" {
			b.SetMemo(memo)
		}
		return b.ValidateAndBuild()
	})
}

// Reject casts a reject vote on the proposal at index.
func (s *Service) Reject(ctx context.Context, index uint64, memo string) (*VoteResult, error) {
	return s.vote(ctx, index, "reject", func(multisig solana.PublicKey, index uint64) (*squads.Instruction, error) {
		b := squads.NewProposalRejectInstruction(multisig, s.wallet.PublicKey(), index)
		if memo != "" {
			b.SetMemo(memo)
		}
		return b.ValidateAndBuild()
	})
}

// Cancel votes to cancel the approved proposal at index.
func (s *Service) Cancel(ctx context.Context, index uint64, memo string) (*VoteResult, error) {
	return s.vote(ctx, index, "cancel", func(multisig solana.PublicKey, index uint64) (*squads.Instruction, error) {
		b := squads.NewProposalCancelInstruction(multisig, s.wallet.PublicKey(), index)
		if memo != "" {
			b.SetMemo(memo)
		}
		return b.ValidateAndBuild()
	})
}

// vote is the shared path for approve, reject and cancel: resolve the
// index, check the wallet may vote, refuse stale proposals, build, send.
func (s *Service) vote(ctx context.Context, index uint64, action string, build func(multisig solana.PublicKey, index uint64) (*squads.Instruction, error)) (*VoteResult, error) {
	rec, err := s.record()
	if err != nil {
		return nil, err
	}
	ms, err := s.fetchMultisig(ctx, rec.Multisig)
	if err != nil {
		return nil, err
	}
	if err := requirePermission(ms, s.wallet.PublicKey(), squads.PermissionVote, action); err != nil {
		return nil, err
	}
	resolved, err := s.resolveIndex(ms, index)
	if err != nil {
		return nil, err
	}
	if resolved <= ms.StaleTransactionIndex {
		return nil, errors.Errorf("transaction #%d is stale, votes are closed below index %d", resolved, ms.StaleTransactionIndex+1)
	}

	ix, err := build(rec.Multisig, resolved)
	if err != nil {
		return nil, err
	}
	sig, err := s.sender.SignAndSend(ctx, []solana.Instruction{ix}, []solana.PrivateKey{s.wallet.PrivateKey})
	if err != nil {
		return nil, err
	}

	proposalPDA, _, err := squads.FindProposalPDA(rec.Multisig, resolved)
	if err != nil {
		return nil, err
	}
	logx.Infof("[multisig]: %s vote cast on transaction #%d", action, resolved)
	return &VoteResult{TransactionIndex: resolved, Proposal: proposalPDA, Signature: sig}, nil
}
