package compute

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
)

type fakeSimulator struct {
	resp  *rpc.SimulateTransactionResponse
	err   error
	calls int
	gotTx *solana.Transaction
}

func (f *fakeSimulator) SimulateTransactionWithOpts(_ context.Context, tx *solana.Transaction, _ *rpc.SimulateTransactionOpts) (*rpc.SimulateTransactionResponse, error) {
	f.calls++
	f.gotTx = tx
	return f.resp, f.err
}

type fakeFees struct {
	samples []uint64
	err     error
	level   PriorityLevel
}

func (f *fakeFees) RecentFees(_ context.Context, _ []solana.PublicKey, level PriorityLevel) ([]uint64, error) {
	f.level = level
	return f.samples, f.err
}

func simOK(units uint64) *rpc.SimulateTransactionResponse {
	return &rpc.SimulateTransactionResponse{Value: &rpc.SimulateTransactionResult{UnitsConsumed: &units}}
}

func simFailed(logs ...string) *rpc.SimulateTransactionResponse {
	return &rpc.SimulateTransactionResponse{Value: &rpc.SimulateTransactionResult{
		Err:  "InstructionError",
		Logs: logs,
	}}
}

func transferIx(from, to solana.PublicKey) solana.Instruction {
	return system.NewTransferInstruction(1, from, to).Build()
}

func TestEstimateHappyPath(t *testing.T) {
	from := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()
	sim := &fakeSimulator{resp: simOK(150_000)}
	fees := &fakeFees{samples: []uint64{50_000, 10_000, 30_000}}
	est := NewEstimator(sim, fees)

	budget, err := est.Estimate(context.Background(), []solana.Instruction{transferIx(from, to)}, from, nil, solana.Hash{}, PriorityMedium)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if budget.UnitLimit != 165_000 {
		t.Errorf("UnitLimit = %d, want 165000", budget.UnitLimit)
	}
	if budget.UnitPrice != 30_000 {
		t.Errorf("UnitPrice = %d, want median 30000", budget.UnitPrice)
	}
	if fees.level != PriorityMedium {
		t.Errorf("fee source saw level %q", fees.level)
	}
}

func TestEstimateSimulatesWithPlaceholderBudget(t *testing.T) {
	from := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()
	sim := &fakeSimulator{resp: simOK(1)}
	est := NewEstimator(sim, &fakeFees{})

	if _, err := est.Estimate(context.Background(), []solana.Instruction{transferIx(from, to)}, from, nil, solana.Hash{}, PriorityLow); err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if sim.gotTx == nil {
		t.Fatal("simulator never called")
	}
	// Two placeholder budget instructions prepended to the one transfer.
	if got := len(sim.gotTx.Message.Instructions); got != 3 {
		t.Fatalf("simulated message has %d instructions, want 3", got)
	}
}

func TestEstimateIdempotent(t *testing.T) {
	from := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()
	sim := &fakeSimulator{resp: simOK(42_000)}
	est := NewEstimator(sim, &fakeFees{samples: []uint64{20_000}})

	first, err := est.Estimate(context.Background(), []solana.Instruction{transferIx(from, to)}, from, nil, solana.Hash{}, PriorityHigh)
	if err != nil {
		t.Fatalf("first Estimate: %v", err)
	}
	second, err := est.Estimate(context.Background(), []solana.Instruction{transferIx(from, to)}, from, nil, solana.Hash{}, PriorityHigh)
	if err != nil {
		t.Fatalf("second Estimate: %v", err)
	}
	if first != second {
		t.Errorf("estimates differ: %+v vs %+v", first, second)
	}
}

func TestEstimateClassifiesSimulationFailure(t *testing.T) {
	from := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()
	sim := &fakeSimulator{resp: simFailed("Transfer: insufficient lamports 0, need 5000")}
	est := NewEstimator(sim, &fakeFees{samples: []uint64{20_000}})

	_, err := est.Estimate(context.Background(), []solana.Instruction{transferIx(from, to)}, from, nil, solana.Hash{}, PriorityMedium)
	if !errors.Is(err, ErrInsufficientSOL) {
		t.Fatalf("got %v, want ErrInsufficientSOL", err)
	}
}

func TestEstimateFeeSourceFallback(t *testing.T) {
	from := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()
	sim := &fakeSimulator{resp: simOK(10_000)}
	fees := &fakeFees{err: errors.New("endpoint down")}
	est := NewEstimator(sim, fees)

	budget, err := est.Estimate(context.Background(), []solana.Instruction{transferIx(from, to)}, from, nil, solana.Hash{}, PriorityMedium)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if budget.UnitPrice != DefaultUnitPrice {
		t.Errorf("UnitPrice = %d, want fallback %d", budget.UnitPrice, DefaultUnitPrice)
	}
}

func TestEstimateClampsSampledFees(t *testing.T) {
	from := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()
	sim := &fakeSimulator{resp: simOK(10_000)}
	fees := &fakeFees{samples: []uint64{9_000_000, 9_000_000, 9_000_000}}
	est := NewEstimator(sim, fees)

	budget, err := est.Estimate(context.Background(), []solana.Instruction{transferIx(from, to)}, from, nil, solana.Hash{}, PriorityVeryHigh)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if budget.UnitPrice != MaxUnitPrice {
		t.Errorf("UnitPrice = %d, want ceiling %d", budget.UnitPrice, MaxUnitPrice)
	}
}

func TestWritableKeysDeduplicates(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()
	ix := transferIx(payer, to)

	keys := writableKeys([]solana.Instruction{ix, ix}, payer)
	if len(keys) != 2 {
		t.Fatalf("got %d keys, want payer + recipient = 2: %v", len(keys), keys)
	}
	if keys[0] != payer {
		t.Errorf("first key %s, want fee payer", keys[0])
	}
}
