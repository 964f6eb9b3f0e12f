package interop

import (
	"github.com/decert-me/solana-go-sdk/types"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// ErrZeroProgramID flags a legacy instruction whose program ID was never
// set. In the legacy SDK that almost always means a missed initialization,
// so the conversion refuses it instead of emitting a broken instruction.
var ErrZeroProgramID = errors.New("legacy instruction has a zero program ID")

// Adapt converts a legacy SDK instruction into the modern representation.
// The program ID and data bytes pass through byte for byte; every account
// keeps its exact (signer, writable) role.
func Adapt(legacy types.Instruction) (solana.Instruction, error) {
	programID := solana.PublicKeyFromBytes(legacy.ProgramID.Bytes())
	if programID.IsZero() {
		return nil, ErrZeroProgramID
	}
	metas := make([]*solana.AccountMeta, 0, len(legacy.Accounts))
	for _, acc := range legacy.Accounts {
		metas = append(metas, &solana.AccountMeta{
			PublicKey:  solana.PublicKeyFromBytes(acc.PubKey.Bytes()),
			IsSigner:   acc.IsSigner,
			IsWritable: acc.IsWritable,
		})
	}
	return solana.NewInstruction(programID, metas, legacy.Data), nil
}

// AdaptAll converts a batch in order, stopping at the first malformed entry.
func AdaptAll(legacy []types.Instruction) ([]solana.Instruction, error) {
	out := make([]solana.Instruction, 0, len(legacy))
	for i, ix := range legacy {
		conv, err := Adapt(ix)
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %d", i)
		}
		out = append(out, conv)
	}
	return out, nil
}
