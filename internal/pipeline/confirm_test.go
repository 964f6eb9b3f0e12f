package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/ricardocr987/squads-scripting/internal/compute"
)

// step advances the mock clock one poll interval after giving the poller a
// moment to reach its timer wait.
func step(mock *clock.Mock) {
	time.Sleep(10 * time.Millisecond)
	mock.Add(pollInterval)
}

func TestConfirmFoundWithErrorRejectsImmediately(t *testing.T) {
	cause := map[string]interface{}{"InstructionError": []interface{}{0, "Custom"}}
	chain := &fakeChain{results: []pollResult{failedResult(cause)}}
	p := testPipeline(chain, &fakeEstimator{}, clock.NewMock())

	err := p.confirm(context.Background(), solana.Signature{7})
	var failed *TransactionFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("got %v, want TransactionFailedError", err)
	}
	if failed.Cause == nil {
		t.Error("on-chain error payload was dropped")
	}
	if chain.pollCount() != 1 {
		t.Errorf("polls = %d, want 1: a found-with-error verdict is terminal", chain.pollCount())
	}
}

func TestConfirmResolvesAfterNotFounds(t *testing.T) {
	results := make([]pollResult, 0, 7)
	for i := 0; i < 6; i++ {
		results = append(results, pollResult{err: rpc.ErrNotFound})
	}
	results = append(results, confirmedResult())
	chain := &fakeChain{results: results}
	mock := clock.NewMock()
	p := testPipeline(chain, &fakeEstimator{}, mock)

	errCh := make(chan error, 1)
	go func() { errCh <- p.confirm(context.Background(), solana.Signature{7}) }()

	for i := 0; i < 6; i++ {
		step(mock)
	}
	if err := <-errCh; err != nil {
		t.Fatal(err)
	}
	if chain.pollCount() != 7 {
		t.Errorf("polls = %d, want 7", chain.pollCount())
	}
}

func TestConfirmAttemptCeiling(t *testing.T) {
	chain := &fakeChain{} // never found
	mock := clock.NewMock()
	p := testPipeline(chain, &fakeEstimator{}, mock)

	errCh := make(chan error, 1)
	go func() { errCh <- p.confirm(context.Background(), solana.Signature{7}) }()

	for i := 0; i < 6; i++ {
		step(mock)
	}
	err := <-errCh
	var nc *NotConfirmedError
	if !errors.As(err, &nc) {
		t.Fatalf("got %v, want NotConfirmedError", err)
	}
	if nc.Attempts != maxPollAttempts || nc.TimedOut {
		t.Errorf("got attempts=%d timedOut=%v, want the %d-attempt ceiling", nc.Attempts, nc.TimedOut, maxPollAttempts)
	}
	if !strings.Contains(err.Error(), "not found after 7 attempts") {
		t.Errorf("error = %q, want it to report 7 attempts", err)
	}
	if chain.pollCount() != maxPollAttempts {
		t.Errorf("polls = %d, want %d", chain.pollCount(), maxPollAttempts)
	}
}

// gatedChain blocks every lookup until the test releases it, so the test
// controls how much mock time passes per attempt.
type gatedChain struct {
	fakeChain
	gate chan struct{}
}

func (g *gatedChain) GetTransaction(ctx context.Context, sig solana.Signature) (*rpc.GetTransactionResult, error) {
	<-g.gate
	return g.fakeChain.GetTransaction(ctx, sig)
}

func TestConfirmWallClockBackstop(t *testing.T) {
	chain := &gatedChain{gate: make(chan struct{})}
	mock := clock.NewMock()
	p := New(chain, &fakeEstimator{}, mock, compute.PriorityMedium)

	errCh := make(chan error, 1)
	go func() { errCh <- p.confirm(context.Background(), solana.Signature{7}) }()

	chain.gate <- struct{}{}          // attempt 1: not found
	time.Sleep(10 * time.Millisecond) // poller reaches its timer wait
	mock.Add(pollInterval)            // tick over to attempt 2
	time.Sleep(10 * time.Millisecond) // attempt 2 blocks on the gate
	mock.Add(confirmTimeout)          // backstop fires while attempt 2 is gated
	chain.gate <- struct{}{}          // attempt 2: not found, backstop already fired

	err := <-errCh
	var nc *NotConfirmedError
	if !errors.As(err, &nc) {
		t.Fatalf("got %v, want NotConfirmedError", err)
	}
	if !nc.TimedOut {
		t.Errorf("got attempts=%d timedOut=%v, want the wall-clock backstop", nc.Attempts, nc.TimedOut)
	}
	if chain.pollCount() != 2 {
		t.Errorf("polls = %d, want 2", chain.pollCount())
	}
}

func TestConfirmSettlesOnce(t *testing.T) {
	chain := &fakeChain{results: []pollResult{confirmedResult()}}
	mock := clock.NewMock()
	p := testPipeline(chain, &fakeEstimator{}, mock)

	if err := p.confirm(context.Background(), solana.Signature{7}); err != nil {
		t.Fatal(err)
	}
	// Advancing the clock after settlement must not wake anything.
	mock.Add(30 * time.Second)
	if chain.pollCount() != 1 {
		t.Errorf("polls after settlement = %d, want 1", chain.pollCount())
	}
}

func TestConfirmTransportErrorSpendsAttempt(t *testing.T) {
	chain := &fakeChain{results: []pollResult{
		{err: errors.New("connection reset")},
		confirmedResult(),
	}}
	mock := clock.NewMock()
	p := testPipeline(chain, &fakeEstimator{}, mock)

	errCh := make(chan error, 1)
	go func() { errCh <- p.confirm(context.Background(), solana.Signature{7}) }()

	step(mock)
	if err := <-errCh; err != nil {
		t.Fatal(err)
	}
	if chain.pollCount() != 2 {
		t.Errorf("polls = %d, want 2", chain.pollCount())
	}
}

func TestConfirmStopsOnContextCancel(t *testing.T) {
	chain := &fakeChain{}
	mock := clock.NewMock()
	p := testPipeline(chain, &fakeEstimator{}, mock)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- p.confirm(ctx, solana.Signature{7}) }()

	time.Sleep(10 * time.Millisecond)
	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if chain.pollCount() != 1 {
		t.Errorf("polls = %d, want 1", chain.pollCount())
	}
}
