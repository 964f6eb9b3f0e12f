package multisig

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/text"
	"github.com/gagliardetto/treeout"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ricardocr987/squads-scripting/internal/config"
	"github.com/ricardocr987/squads-scripting/pkg/squads"
)

// Info aggregates what the status surfaces show about the multisig.
type Info struct {
	Record        config.MultisigRecord
	Multisig      *squads.Multisig
	Wallet        solana.PublicKey
	WalletBalance uint64
	VaultBalance  uint64
}

// Info fetches the multisig settings account and the balances around it.
func (s *Service) Info(ctx context.Context) (*Info, error) {
	rec, err := s.record()
	if err != nil {
		return nil, err
	}
	ms, err := s.fetchMultisig(ctx, rec.Multisig)
	if err != nil {
		return nil, err
	}
	walletBalance, err := s.chain.GetBalance(ctx, s.wallet.PublicKey())
	if err != nil {
		return nil, errors.Wrap(err, "reading wallet balance")
	}
	vaultBalance, err := s.chain.GetBalance(ctx, rec.Vault)
	if err != nil {
		return nil, errors.Wrap(err, "reading vault balance")
	}
	return &Info{
		Record:        rec,
		Multisig:      ms,
		Wallet:        s.wallet.PublicKey(),
		WalletBalance: walletBalance,
		VaultBalance:  vaultBalance,
	}, nil
}

// EncodeToTree renders the aggregate the way decoded instructions render,
// as an explorer style tree.
func (i *Info) EncodeToTree(parent treeout.Branches) {
	parent.Child(fmt.Sprintf("Multisig: %s", i.Record.Multisig)).ParentFunc(func(msBranch treeout.Branches) {
		msBranch.Child(fmt.Sprintf("CreateKey: %s", i.Record.CreateKey))
		msBranch.Child(fmt.Sprintf("Threshold: %d of %d", i.Multisig.Threshold, len(i.Multisig.Members)))
		msBranch.Child(fmt.Sprintf("TimeLock: %ds", i.Multisig.TimeLock))
		msBranch.Child(fmt.Sprintf("TransactionIndex: %d (stale through %d)", i.Multisig.TransactionIndex, i.Multisig.StaleTransactionIndex))
		if i.Multisig.RentCollector != nil {
			msBranch.Child(fmt.Sprintf("RentCollector: %s", i.Multisig.RentCollector))
		}
		msBranch.Child(fmt.Sprintf("Members[len=%d]", len(i.Multisig.Members))).ParentFunc(func(membersBranch treeout.Branches) {
			for _, m := range i.Multisig.Members {
				membersBranch.Child(fmt.Sprintf("%s [%s]", m.Key, m.Permissions))
			}
		})
		msBranch.Child(fmt.Sprintf("Wallet %s: %.4f SOL", i.Wallet, float64(i.WalletBalance)/float64(solana.LAMPORTS_PER_SOL)))
		msBranch.Child(fmt.Sprintf("Vault %s: %.4f SOL", i.Record.Vault, float64(i.VaultBalance)/float64(solana.LAMPORTS_PER_SOL)))
	})
}

// ProposalView pairs a proposal's on-chain state with its addresses and the
// threshold it is voting against.
type ProposalView struct {
	TransactionIndex uint64
	Proposal         solana.PublicKey
	Transaction      solana.PublicKey
	State            *squads.Proposal
	Threshold        uint16
}

// EncodeToTree renders the proposal's voting state as an explorer style tree.
func (v *ProposalView) EncodeToTree(parent treeout.Branches) {
	parent.Child(fmt.Sprintf("Proposal #%d: %s", v.TransactionIndex, v.State.Status.Kind)).ParentFunc(func(propBranch treeout.Branches) {
		propBranch.Child(fmt.Sprintf("Proposal: %s", v.Proposal))
		propBranch.Child(fmt.Sprintf("Transaction: %s", v.Transaction))
		if ts := v.State.Status.Timestamp; ts != 0 {
			propBranch.Child(fmt.Sprintf("Since: %s", time.Unix(ts, 0).UTC().Format(time.RFC3339)))
		}
		propBranch.Child(fmt.Sprintf("Approvals: %d of %d", len(v.State.Approved), v.Threshold))
		encodeVotes(propBranch, "Approved", v.State.Approved)
		encodeVotes(propBranch, "Rejected", v.State.Rejected)
		encodeVotes(propBranch, "Cancelled", v.State.Cancelled)
	})
}

// encodeVotes adds one branch per vote kind, omitting kinds nobody cast.
func encodeVotes(parent treeout.Branches, label string, voters []solana.PublicKey) {
	if len(voters) == 0 {
		return
	}
	parent.Child(fmt.Sprintf("%s[len=%d]", label, len(voters))).ParentFunc(func(votesBranch treeout.Branches) {
		for _, voter := range voters {
			votesBranch.Child(voter.String())
		}
	})
}

// ProposalStatus fetches the proposal at index, 0 meaning the latest.
func (s *Service) ProposalStatus(ctx context.Context, index uint64) (*ProposalView, error) {
	rec, err := s.record()
	if err != nil {
		return nil, err
	}
	ms, err := s.fetchMultisig(ctx, rec.Multisig)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolveIndex(ms, index)
	if err != nil {
		return nil, err
	}
	return s.proposalView(ctx, rec.Multisig, ms.Threshold, resolved)
}

// Proposals returns up to limit of the newest proposals, oldest first.
// Indexes whose accounts are gone, closed or never created, are skipped.
func (s *Service) Proposals(ctx context.Context, limit int) ([]ProposalView, error) {
	rec, err := s.record()
	if err != nil {
		return nil, err
	}
	ms, err := s.fetchMultisig(ctx, rec.Multisig)
	if err != nil {
		return nil, err
	}
	if ms.TransactionIndex == 0 || limit <= 0 {
		return nil, nil
	}
	from := uint64(1)
	if uint64(limit) < ms.TransactionIndex {
		from = ms.TransactionIndex - uint64(limit) + 1
	}

	count := ms.TransactionIndex - from + 1
	slots := make([]*ProposalView, count)
	g, ctx := errgroup.WithContext(ctx)
	for i := uint64(0); i < count; i++ {
		g.Go(func() error {
			view, err := s.proposalView(ctx, rec.Multisig, ms.Threshold, from+i)
			if err != nil {
				if errors.Cause(err) == rpc.ErrNotFound {
					return nil
				}
				return err
			}
			slots[i] = view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]ProposalView, 0, count)
	for _, view := range slots {
		if view != nil {
			views = append(views, *view)
		}
	}
	return views, nil
}

func (s *Service) proposalView(ctx context.Context, multisig solana.PublicKey, threshold uint16, index uint64) (*ProposalView, error) {
	proposalPDA, _, err := squads.FindProposalPDA(multisig, index)
	if err != nil {
		return nil, err
	}
	transactionPDA, _, err := squads.FindTransactionPDA(multisig, index)
	if err != nil {
		return nil, err
	}
	data, err := s.chain.GetAccountData(ctx, proposalPDA)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching proposal #%d", index)
	}
	prop, err := squads.DecodeProposal(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding proposal #%d", index)
	}
	return &ProposalView{
		TransactionIndex: index,
		Proposal:         proposalPDA,
		Transaction:      transactionPDA,
		State:            prop,
		Threshold:        threshold,
	}, nil
}

// RenderTree renders the aggregate plus any proposal views as one tree,
// ready to print.
func RenderTree(info *Info, views []ProposalView) string {
	buf := new(bytes.Buffer)
	enc := text.NewTreeEncoder(buf, "")
	info.EncodeToTree(enc)
	if len(views) > 0 {
		enc.Child(fmt.Sprintf("Proposals[len=%d]", len(views))).ParentFunc(func(proposalsBranch treeout.Branches) {
			for i := range views {
				views[i].EncodeToTree(proposalsBranch)
			}
		})
	}
	if _, err := enc.WriteString(enc.Tree.String()); err != nil {
		return ""
	}
	return buf.String()
}

// describe renders a built instruction as an explorer style tree.
func describe(inst *squads.Instruction) string {
	buf := new(bytes.Buffer)
	enc := text.NewTreeEncoder(buf, "")
	inst.EncodeToTree(enc)
	if _, err := enc.WriteString(enc.Tree.String()); err != nil {
		return ""
	}
	return buf.String()
}
