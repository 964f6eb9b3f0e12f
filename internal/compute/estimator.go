package compute

import (
	"context"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/sync/errgroup"
)

// Simulator is the slice of the RPC client the estimator needs.
type Simulator interface {
	SimulateTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts *rpc.SimulateTransactionOpts) (*rpc.SimulateTransactionResponse, error)
}

// FeeSource returns recent prioritization-fee samples in micro-lamports for
// the given writable accounts. A tiered endpoint may answer with a single
// pre-aggregated sample for the requested level.
type FeeSource interface {
	RecentFees(ctx context.Context, writable []solana.PublicKey, level PriorityLevel) ([]uint64, error)
}

// Estimator sizes a transaction's compute budget by dry-running it against
// the network and pricing it off recent prioritization fees.
type Estimator struct {
	sim  Simulator
	fees FeeSource
}

func NewEstimator(sim Simulator, fees FeeSource) *Estimator {
	return &Estimator{sim: sim, fees: fees}
}

// Estimate simulates the instructions (prefixed with placeholder budget
// instructions so the message has realistic size) and, concurrently, samples
// the fee source. The returned limit carries a 10% margin over simulated
// consumption; the price is the clamped sample median, or DefaultUnitPrice
// when fee estimation is unavailable.
func (e *Estimator) Estimate(
	ctx context.Context,
	instrs []solana.Instruction,
	feePayer solana.PublicKey,
	tables map[solana.PublicKey]solana.PublicKeySlice,
	anchor solana.Hash,
	level PriorityLevel,
) (ComputeBudget, error) {
	draft := make([]solana.Instruction, 0, len(instrs)+2)
	draft = append(draft, computebudget.NewSetComputeUnitLimitInstruction(DefaultUnitLimit).Build())
	draft = append(draft, computebudget.NewSetComputeUnitPriceInstruction(DefaultUnitPrice).Build())
	draft = append(draft, instrs...)

	opts := []solana.TransactionOption{solana.TransactionPayer(feePayer)}
	if len(tables) > 0 {
		opts = append(opts, solana.TransactionAddressTables(tables))
	}
	tx, err := solana.NewTransaction(draft, anchor, opts...)
	if err != nil {
		return ComputeBudget{}, errors.Wrap(err, "compile draft transaction")
	}

	var (
		units uint64
		price = DefaultUnitPrice
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := e.sim.SimulateTransactionWithOpts(gctx, tx, &rpc.SimulateTransactionOpts{
			ReplaceRecentBlockhash: true,
			Commitment:             rpc.CommitmentProcessed,
		})
		if err != nil {
			return errors.Wrap(err, "simulate transaction")
		}
		if out.Value.Err != nil {
			return ClassifySimulationFailure(out.Value.Err, out.Value.Logs)
		}
		if out.Value.UnitsConsumed != nil {
			units = *out.Value.UnitsConsumed
		}
		return nil
	})
	g.Go(func() error {
		samples, err := e.fees.RecentFees(gctx, writableKeys(instrs, feePayer), level)
		if err != nil {
			// Best effort: a dead fee endpoint must not block the pipeline.
			logx.Infof("[estimator]: fee estimation unavailable, using default price: %v", err)
			return nil
		}
		if len(samples) > 0 {
			price = ClampUnitPrice(Median(samples))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return ComputeBudget{}, err
	}

	budget := ComputeBudget{UnitLimit: DefaultUnitLimit, UnitPrice: price}
	if units > 0 {
		budget.UnitLimit = UnitLimitWithMargin(units)
	}
	return budget, nil
}

// writableKeys collects the fee payer plus every writable account referenced
// by the business instructions, the accounts whose recent fees matter.
func writableKeys(instrs []solana.Instruction, feePayer solana.PublicKey) []solana.PublicKey {
	seen := map[solana.PublicKey]bool{feePayer: true}
	keys := []solana.PublicKey{feePayer}
	for _, ix := range instrs {
		for _, meta := range ix.Accounts() {
			if meta.IsWritable && !seen[meta.PublicKey] {
				seen[meta.PublicKey] = true
				keys = append(keys, meta.PublicKey)
			}
		}
	}
	return keys
}
