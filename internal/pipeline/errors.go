package pipeline

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// TransactionFailedError reports a transaction that landed on chain with an
// error payload. The failure is deterministic; resubmitting would only pay
// for the same failure again.
type TransactionFailedError struct {
	Signature solana.Signature
	Cause     interface{}
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("transaction %s failed on chain: %v", e.Signature, e.Cause)
}

// NotConfirmedError reports a transaction whose fate is unknown: the poll
// bounds ran out before any node returned it.
type NotConfirmedError struct {
	Signature solana.Signature
	Attempts  int
	TimedOut  bool
}

func (e *NotConfirmedError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("transaction %s not confirmed before the %s backstop", e.Signature, confirmTimeout)
	}
	return fmt.Sprintf("transaction %s not found after %d attempts", e.Signature, e.Attempts)
}

// MissingSignerError lists signer slots the compiled message declares that
// none of the provided keys can fill. Raised before anything touches the
// network.
type MissingSignerError struct {
	Missing []solana.PublicKey
}

func (e *MissingSignerError) Error() string {
	return fmt.Sprintf("missing signers: %v", e.Missing)
}
