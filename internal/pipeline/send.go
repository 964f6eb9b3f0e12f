package pipeline

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/logx"
)

// SignAndSend runs the whole pipeline for one transaction: prepare, sign,
// broadcast once, then poll until the signature settles. The first signer
// pays the fee. It resolves with the signature or rejects with a typed
// error; there is no partial success.
func (p *Pipeline) SignAndSend(ctx context.Context, instrs []solana.Instruction, signers []solana.PrivateKey) (solana.Signature, error) {
	if len(instrs) == 0 {
		return solana.Signature{}, errors.New("no instructions to send")
	}
	if len(signers) == 0 {
		return solana.Signature{}, errors.New("no signers provided")
	}

	tx, err := p.Prepare(ctx, instrs, signers[0].PublicKey())
	if err != nil {
		return solana.Signature{}, err
	}
	if err := validateSigners(tx, signers); err != nil {
		return solana.Signature{}, err
	}
	if _, err := tx.Sign(signerFunc(signers)); err != nil {
		return solana.Signature{}, errors.Wrap(err, "sign transaction")
	}

	sig, err := p.chain.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "send transaction")
	}
	logx.Infof("[pipeline]: sent %s, waiting for confirmation", sig)

	if err := p.confirm(ctx, sig); err != nil {
		return solana.Signature{}, err
	}
	return sig, nil
}

// validateSigners checks that every signer slot the compiled message
// declares can be filled from the provided keys. The first
// NumRequiredSignatures account keys are the signer slots.
func validateSigners(tx *solana.Transaction, signers []solana.PrivateKey) error {
	have := make(map[solana.PublicKey]bool, len(signers))
	for _, k := range signers {
		have[k.PublicKey()] = true
	}
	var missing []solana.PublicKey
	n := int(tx.Message.Header.NumRequiredSignatures)
	for _, key := range tx.Message.AccountKeys[:n] {
		if !have[key] {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &MissingSignerError{Missing: missing}
	}
	return nil
}

func signerFunc(signers []solana.PrivateKey) func(solana.PublicKey) *solana.PrivateKey {
	return func(key solana.PublicKey) *solana.PrivateKey {
		for i := range signers {
			if signers[i].PublicKey().Equals(key) {
				return &signers[i]
			}
		}
		return nil
	}
}
