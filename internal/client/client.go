package client

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Client wraps the Solana JSON-RPC endpoint shared by every command.
// Reads retry a couple of times on transport failures; simulations and
// sends go out exactly once so the calling pipeline keeps control of
// retry policy.
type Client struct {
	rpc        *rpc.Client
	commitment rpc.CommitmentType
}

// New dials endpoint. commitment is one of confirmed, finalized or
// processed; empty means confirmed.
func New(endpoint string, commitment string) *Client {
	level := rpc.CommitmentType(commitment)
	if commitment == "" {
		level = rpc.CommitmentConfirmed
	}
	return &Client{
		rpc:        rpc.New(endpoint),
		commitment: level,
	}
}

func (c *Client) Commitment() rpc.CommitmentType {
	return c.commitment
}

func (c *Client) readRetry(ctx context.Context, fn retry.RetryableFunc) error {
	return retry.Do(fn,
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			// A missing account is an answer, not a transport failure.
			return !errors.Is(err, rpc.ErrNotFound) && ctx.Err() == nil
		}),
	)
}

func (c *Client) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	var hash solana.Hash
	err := c.readRetry(ctx, func() error {
		recent, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
		if err != nil {
			return err
		}
		hash = recent.Value.Blockhash
		return nil
	})
	return hash, err
}

func (c *Client) GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	var lamports uint64
	err := c.readRetry(ctx, func() error {
		out, err := c.rpc.GetBalance(ctx, account, c.commitment)
		if err != nil {
			return err
		}
		lamports = out.Value
		return nil
	})
	return lamports, err
}

// GetAccountData returns the raw bytes of an account. Missing accounts
// come back as rpc.ErrNotFound so callers can tell "not created yet"
// apart from transport trouble.
func (c *Client) GetAccountData(ctx context.Context, account solana.PublicKey) ([]byte, error) {
	var data []byte
	err := c.readRetry(ctx, func() error {
		out, err := c.rpc.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: c.commitment,
		})
		if err != nil {
			return err
		}
		if out.Value == nil {
			return rpc.ErrNotFound
		}
		data = out.Value.Data.GetBinary()
		return nil
	})
	return data, err
}

func (c *Client) RequestAirdrop(ctx context.Context, account solana.PublicKey, lamports uint64) (solana.Signature, error) {
	return c.rpc.RequestAirdrop(ctx, account, lamports, c.commitment)
}

// SimulateTransactionWithOpts passes a simulation through untouched so the
// estimator sees the node's verdict, logs included.
func (c *Client) SimulateTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts *rpc.SimulateTransactionOpts) (*rpc.SimulateTransactionResponse, error) {
	return c.rpc.SimulateTransactionWithOpts(ctx, tx, opts)
}

// SendTransaction broadcasts a fully signed transaction exactly once.
// Preflight is skipped and node-side resubmission is off; from here the
// confirmation poller owns the outcome.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	maxRetries := uint(0)
	return c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       true,
		MaxRetries:          &maxRetries,
		PreflightCommitment: c.commitment,
	})
}

// GetTransaction looks a signature up at the configured commitment. A null
// result surfaces as rpc.ErrNotFound; the poller treats that as "keep
// waiting" rather than failure.
func (c *Client) GetTransaction(ctx context.Context, signature solana.Signature) (*rpc.GetTransactionResult, error) {
	maxSupportedTransactionVersion := uint64(0)
	return c.rpc.GetTransaction(ctx, signature, &rpc.GetTransactionOpts{
		Commitment:                     c.commitment,
		Encoding:                       solana.EncodingJSONParsed,
		MaxSupportedTransactionVersion: &maxSupportedTransactionVersion,
	})
}

func (c *Client) GetHealth(ctx context.Context) (string, error) {
	return c.rpc.GetHealth(ctx)
}

func (c *Client) GetSlot(ctx context.Context) (uint64, error) {
	return c.rpc.GetSlot(ctx, c.commitment)
}

func (c *Client) GetVersion(ctx context.Context) (string, error) {
	out, err := c.rpc.GetVersion(ctx)
	if err != nil {
		return "", err
	}
	return out.SolanaCore, nil
}
