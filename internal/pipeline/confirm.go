package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/zeromicro/go-zero/core/logx"
)

const (
	pollInterval    = time.Second
	maxPollAttempts = 7
	confirmTimeout  = 8 * time.Second
)

type confirmState uint8

const (
	stateSubmitted confirmState = iota
	stateConfirmed
	stateFailed
	stateNotFoundRetry
	stateTimedOut
)

func (s confirmState) String() string {
	switch s {
	case stateSubmitted:
		return "submitted"
	case stateConfirmed:
		return "confirmed"
	case stateFailed:
		return "failed"
	case stateNotFoundRetry:
		return "not-found-retry"
	case stateTimedOut:
		return "timed-out"
	}
	return "unknown"
}

// Confirm polls an already broadcast signature to settlement with the same
// state machine SignAndSend uses. Airdrops and other externally submitted
// transactions go through here.
func (p *Pipeline) Confirm(ctx context.Context, sig solana.Signature) error {
	return p.confirm(ctx, sig)
}

// confirm polls getTransaction until the signature settles. Found without
// error confirms. Found with an error payload fails immediately and is never
// retried. Not found, or a flaky read, spends one attempt. The attempt
// ceiling and the wall-clock timer race; whichever fires first ends the
// wait. The function settles exactly once.
func (p *Pipeline) confirm(ctx context.Context, sig solana.Signature) error {
	timeout := p.clock.Timer(confirmTimeout)
	defer timeout.Stop()

	state := stateSubmitted
	for attempt := 1; ; attempt++ {
		out, err := p.chain.GetTransaction(ctx, sig)
		switch {
		case err == nil && out != nil && out.Meta != nil && out.Meta.Err != nil:
			state = stateFailed
			logx.Infof("[confirm]: %s %s on attempt %d", sig, state, attempt)
			return &TransactionFailedError{Signature: sig, Cause: out.Meta.Err}
		case err == nil && out != nil:
			state = stateConfirmed
			logx.Infof("[confirm]: %s %s on attempt %d", sig, state, attempt)
			return nil
		default:
			state = stateNotFoundRetry
			if notFound(err) {
				logx.Infof("[confirm]: %s %s, attempt %d/%d", sig, state, attempt, maxPollAttempts)
			} else {
				logx.Infof("[confirm]: %s lookup failed (attempt %d/%d): %v", sig, attempt, maxPollAttempts, err)
			}
		}

		if attempt >= maxPollAttempts {
			return &NotConfirmedError{Signature: sig, Attempts: attempt}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout.C:
			state = stateTimedOut
			logx.Infof("[confirm]: %s %s after %d attempts", sig, state, attempt)
			return &NotConfirmedError{Signature: sig, Attempts: attempt, TimedOut: true}
		case <-p.clock.After(pollInterval):
		}
	}
}

// notFound reports whether the lookup error means the node has not seen the
// signature yet, as opposed to transport trouble. Both spend an attempt, but
// only the former is the expected path.
func notFound(err error) bool {
	return errors.Is(err, rpc.ErrNotFound)
}
