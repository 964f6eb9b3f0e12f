package pipeline

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"

	"github.com/ricardocr987/squads-scripting/internal/compute"
)

// Chain is the slice of the RPC client the pipeline drives.
type Chain interface {
	GetLatestBlockhash(ctx context.Context) (solana.Hash, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	GetTransaction(ctx context.Context, sig solana.Signature) (*rpc.GetTransactionResult, error)
}

// Estimator produces the compute budget for a draft instruction set.
type Estimator interface {
	Estimate(
		ctx context.Context,
		instrs []solana.Instruction,
		feePayer solana.PublicKey,
		tables map[solana.PublicKey]solana.PublicKeySlice,
		anchor solana.Hash,
		level compute.PriorityLevel,
	) (compute.ComputeBudget, error)
}

// Pipeline carries one transaction from raw instructions to a confirmed
// signature: estimate resources, assemble against a fresh blockhash, sign,
// broadcast exactly once, poll until settled.
type Pipeline struct {
	chain Chain
	est   Estimator
	clock clock.Clock
	level compute.PriorityLevel
}

func New(chain Chain, est Estimator, clk clock.Clock, level compute.PriorityLevel) *Pipeline {
	return &Pipeline{chain: chain, est: est, clock: clk, level: level}
}

// Prepare builds the unsigned envelope: fresh blockhash, estimated budget,
// then [unit limit, unit price, business...] compiled with the fee payer.
// An estimator failure aborts the call; nothing here retries it.
func (p *Pipeline) Prepare(ctx context.Context, instrs []solana.Instruction, feePayer solana.PublicKey) (*solana.Transaction, error) {
	anchor, err := p.chain.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetch latest blockhash")
	}
	budget, err := p.est.Estimate(ctx, instrs, feePayer, nil, anchor, p.level)
	if err != nil {
		return nil, err
	}

	final := make([]solana.Instruction, 0, len(instrs)+2)
	final = append(final, computebudget.NewSetComputeUnitLimitInstruction(budget.UnitLimit).Build())
	final = append(final, computebudget.NewSetComputeUnitPriceInstruction(budget.UnitPrice).Build())
	final = append(final, instrs...)

	tx, err := solana.NewTransaction(final, anchor, solana.TransactionPayer(feePayer))
	if err != nil {
		return nil, errors.Wrap(err, "compile transaction")
	}
	return tx, nil
}
