package compute

import (
	"errors"
	"testing"
)

func TestClassifySimulationFailure(t *testing.T) {
	cases := []struct {
		name string
		logs []string
		want error
	}{
		{
			"insufficient lamports",
			[]string{"Program 11111111111111111111111111111111 invoke [1]", "Transfer: insufficient lamports 5000, need 2039280"},
			ErrInsufficientSOL,
		},
		{
			"rent shortfall",
			[]string{"Transaction results in an account with insufficient funds for rent"},
			ErrInsufficientSOL,
		},
		{
			"token balance",
			[]string{"Program log: Error: insufficient funds"},
			ErrInsufficientTokenBalance,
		},
		{
			"slippage code",
			[]string{"Program log: AnchorError thrown", "Program failed: custom program error: 0x1771"},
			ErrSlippageExceeded,
		},
		{
			"slippage message",
			[]string{"Program log: exceeds desired slippage limit"},
			ErrSlippageExceeded,
		},
		{
			"invalid amount",
			[]string{"Program log: Error: invalid amount"},
			ErrInvalidAmount,
		},
	}
	for _, c := range cases {
		err := ClassifySimulationFailure("InstructionError", c.logs)
		if !errors.Is(err, c.want) {
			t.Errorf("%s: got %v, want %v", c.name, err, c.want)
		}
	}
}

func TestClassifyTableOrder(t *testing.T) {
	// Both a token-funds line and a lamports line present: the table row for
	// lamports sits first and must win regardless of log line order.
	logs := []string{
		"Program log: Error: insufficient funds",
		"Transfer: insufficient lamports 0, need 100",
	}
	if err := ClassifySimulationFailure(nil, logs); !errors.Is(err, ErrInsufficientSOL) {
		t.Fatalf("got %v, want ErrInsufficientSOL", err)
	}
}

func TestClassifyUnknownProgramError(t *testing.T) {
	logs := []string{"Program SQDS4ep65T869zMMBKyuUq6aD6EgTu8psMjkvj52pCf failed: custom program error: 0xbbd"}
	err := ClassifySimulationFailure(nil, logs)
	var pe *ProgramError
	if !errors.As(err, &pe) {
		t.Fatalf("got %T, want *ProgramError", err)
	}
	if pe.Line != logs[0] {
		t.Errorf("ProgramError.Line = %q", pe.Line)
	}
}

func TestClassifyFallbackKeepsLogTail(t *testing.T) {
	logs := []string{"l1", "l2", "l3", "l4", "l5", "l6", "l7"}
	err := ClassifySimulationFailure("SomethingNew", logs)
	var se *SimulationError
	if !errors.As(err, &se) {
		t.Fatalf("got %T, want *SimulationError", err)
	}
	if len(se.Logs) != simulationLogTail {
		t.Fatalf("kept %d log lines, want %d", len(se.Logs), simulationLogTail)
	}
	if se.Logs[len(se.Logs)-1] != "l7" {
		t.Errorf("last kept line = %q, want l7", se.Logs[len(se.Logs)-1])
	}
}
