package compute

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Typed simulation failures. These are deterministic for a given input and
// are never retried by the pipeline.
var (
	ErrInsufficientSOL          = errors.New("insufficient SOL to cover network fees: fund the fee payer and retry")
	ErrInsufficientTokenBalance = errors.New("insufficient token balance for the requested transfer")
	ErrSlippageExceeded         = errors.New("swap aborted: maximum slippage exceeded")
	ErrInvalidAmount            = errors.New("invalid amount for the requested operation")
)

// simulationLogTail is how many trailing log lines a generic failure keeps
// for diagnosis.
const simulationLogTail = 5

// ProgramError is an on-chain rejection with a recognized custom error code
// but no friendlier mapping in the pattern table.
type ProgramError struct {
	Line string
	Logs []string
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("program rejected the transaction: %s", e.Line)
}

// SimulationError is the fallback for failures no pattern recognizes. It
// carries the raw error payload and the last few log lines.
type SimulationError struct {
	Cause interface{}
	Logs  []string
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("simulation failed: %v (logs: %s)", e.Cause, strings.Join(e.Logs, " | "))
}

// logPatterns maps known log substrings to typed errors. Order matters:
// the first matching pattern across the log lines wins, and the generic
// custom-program-error entry must stay last so specific codes match first.
var logPatterns = []struct {
	substr string
	err    error
}{
	{"insufficient lamports", ErrInsufficientSOL},
	{"insufficient funds for rent", ErrInsufficientSOL},
	{"insufficient funds", ErrInsufficientTokenBalance},
	{"custom program error: 0x1771", ErrSlippageExceeded},
	{"exceeds desired slippage limit", ErrSlippageExceeded},
	{"invalid amount", ErrInvalidAmount},
}

// ClassifySimulationFailure turns a failed simulation into a typed error by
// scanning its log lines against the pattern table, in table order.
// Unrecognized failures come back as *SimulationError with the last few
// lines attached.
func ClassifySimulationFailure(cause interface{}, logs []string) error {
	for _, p := range logPatterns {
		for _, line := range logs {
			if strings.Contains(line, p.substr) {
				return p.err
			}
		}
	}
	for _, line := range logs {
		if strings.Contains(line, "custom program error: 0x") {
			return &ProgramError{Line: line, Logs: tailLines(logs, simulationLogTail)}
		}
	}
	return &SimulationError{Cause: cause, Logs: tailLines(logs, simulationLogTail)}
}

func tailLines(logs []string, n int) []string {
	if len(logs) <= n {
		return logs
	}
	return logs[len(logs)-n:]
}
