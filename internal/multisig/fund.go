package multisig

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/logx"
)

// FundResult reports the balances after funding.
type FundResult struct {
	AirdropSignature  solana.Signature
	TransferSignature solana.Signature
	WalletBalance     uint64
	VaultBalance      uint64
}

// Fund tops the wallet up from the devnet faucet and moves lamports into
// the vault so later proposals have something to spend. Either leg is
// skipped when its amount is zero.
func (s *Service) Fund(ctx context.Context, lamports uint64) (*FundResult, error) {
	rec, err := s.record()
	if err != nil {
		return nil, err
	}

	res := &FundResult{}
	if airdrop := uint64(s.cfg.AirdropSol * float64(solana.LAMPORTS_PER_SOL)); airdrop > 0 {
		sig, err := s.chain.RequestAirdrop(ctx, s.wallet.PublicKey(), airdrop)
		if err != nil {
			return nil, errors.Wrap(err, "requesting airdrop (faucet is devnet only)")
		}
		logx.Infof("[multisig]: airdrop %s requested, waiting", sig)
		if err := s.sender.Confirm(ctx, sig); err != nil {
			return nil, errors.Wrap(err, "airdrop not confirmed")
		}
		res.AirdropSignature = sig
	}

	if lamports > 0 {
		ix := system.NewTransferInstruction(lamports, s.wallet.PublicKey(), rec.Vault).Build()
		sig, err := s.sender.SignAndSend(ctx, []solana.Instruction{ix}, []solana.PrivateKey{s.wallet.PrivateKey})
		if err != nil {
			return nil, errors.Wrap(err, "funding vault")
		}
		res.TransferSignature = sig
	}

	if res.WalletBalance, err = s.chain.GetBalance(ctx, s.wallet.PublicKey()); err != nil {
		return nil, errors.Wrap(err, "reading wallet balance")
	}
	if res.VaultBalance, err = s.chain.GetBalance(ctx, rec.Vault); err != nil {
		return nil, errors.Wrap(err, "reading vault balance")
	}
	logx.Infof("[multisig]: wallet %.4f SOL, vault %.4f SOL",
		float64(res.WalletBalance)/float64(solana.LAMPORTS_PER_SOL),
		float64(res.VaultBalance)/float64(solana.LAMPORTS_PER_SOL))
	return res, nil
}
