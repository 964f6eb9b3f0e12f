package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"

	"github.com/ricardocr987/squads-scripting/internal/compute"
)

// FeeAPI answers recent-priority-fee queries over plain JSON-RPC. Against a
// tiered endpoint (Helius style getPriorityFeeEstimate) it returns a single
// estimate for the requested level; against a standard node it returns the
// raw getRecentPrioritizationFees samples and leaves aggregation to the
// estimator.
type FeeAPI struct {
	url     string
	tiered  bool
	timeout time.Duration
}

var _ compute.FeeSource = (*FeeAPI)(nil)

func NewFeeAPI(url string, tiered bool) *FeeAPI {
	return &FeeAPI{url: url, tiered: tiered, timeout: 5 * time.Second}
}

func (f *FeeAPI) RecentFees(ctx context.Context, writable []solana.PublicKey, level compute.PriorityLevel) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(writable))
	for _, pk := range writable {
		keys = append(keys, pk.String())
	}
	if f.tiered {
		return f.priorityFeeEstimate(keys, level)
	}
	return f.recentPrioritizationFees(keys)
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type recentFeesResponse struct {
	Result []struct {
		Slot              uint64 `json:"slot"`
		PrioritizationFee uint64 `json:"prioritizationFee"`
	} `json:"result"`
	Error *rpcError `json:"error"`
}

type feeEstimateResponse struct {
	Result struct {
		PriorityFeeEstimate float64 `json:"priorityFeeEstimate"`
	} `json:"result"`
	Error *rpcError `json:"error"`
}

func (f *FeeAPI) recentPrioritizationFees(keys []string) ([]uint64, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "getRecentPrioritizationFees",
		Params:  []interface{}{keys},
	})
	if err != nil {
		return nil, err
	}
	raw, err := f.post(body)
	if err != nil {
		return nil, err
	}
	return parseRecentPrioritizationFees(raw)
}

func (f *FeeAPI) priorityFeeEstimate(keys []string, level compute.PriorityLevel) ([]uint64, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "getPriorityFeeEstimate",
		Params: []interface{}{
			map[string]interface{}{
				"accountKeys": keys,
				"options":     map[string]interface{}{"priorityLevel": string(level)},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	raw, err := f.post(body)
	if err != nil {
		return nil, err
	}
	return parsePriorityFeeEstimate(raw)
}

func (f *FeeAPI) post(body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(f.url)
	req.Header.SetMethod("POST")
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := fasthttp.DoTimeout(req, resp, f.timeout); err != nil {
		return nil, err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, errors.Errorf("fee endpoint returned status %d", resp.StatusCode())
	}
	// The response buffer goes back to the pool on release.
	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())
	return out, nil
}

func parseRecentPrioritizationFees(raw []byte) ([]uint64, error) {
	var out recentFeesResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(err, "decode getRecentPrioritizationFees response")
	}
	if out.Error != nil {
		return nil, errors.Errorf("getRecentPrioritizationFees: %s (%d)", out.Error.Message, out.Error.Code)
	}
	samples := make([]uint64, 0, len(out.Result))
	for _, r := range out.Result {
		samples = append(samples, r.PrioritizationFee)
	}
	return samples, nil
}

func parsePriorityFeeEstimate(raw []byte) ([]uint64, error) {
	var out feeEstimateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(err, "decode getPriorityFeeEstimate response")
	}
	if out.Error != nil {
		return nil, errors.Errorf("getPriorityFeeEstimate: %s (%d)", out.Error.Message, out.Error.Code)
	}
	return []uint64{uint64(out.Result.PriorityFeeEstimate)}, nil
}
