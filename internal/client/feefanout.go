package client

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/sync/errgroup"

	"github.com/ricardocr987/squads-scripting/internal/compute"
)

// FanoutFees queries several fee endpoints concurrently and pools their
// samples for the estimator's median. One healthy endpoint is enough; it
// errors only when every endpoint fails.
type FanoutFees struct {
	sources []compute.FeeSource
}

var _ compute.FeeSource = (*FanoutFees)(nil)

func NewFanoutFees(sources ...compute.FeeSource) *FanoutFees {
	return &FanoutFees{sources: sources}
}

func (f *FanoutFees) RecentFees(ctx context.Context, writable []solana.PublicKey, level compute.PriorityLevel) ([]uint64, error) {
	if len(f.sources) == 0 {
		return nil, errors.New("no fee endpoints configured")
	}

	results := make([][]uint64, len(f.sources))
	errs := make([]error, len(f.sources))

	g := new(errgroup.Group)
	for i, src := range f.sources {
		g.Go(func() error {
			samples, err := src.RecentFees(ctx, writable, level)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = samples
			return nil
		})
	}
	g.Wait()

	var pooled []uint64
	succeeded := 0
	for i, r := range results {
		if errs[i] == nil {
			succeeded++
		}
		pooled = append(pooled, r...)
	}
	if succeeded == 0 {
		for _, err := range errs {
			if err != nil {
				return nil, errors.Wrapf(err, "all %d fee endpoints failed", len(f.sources))
			}
		}
	}
	for i, err := range errs {
		if err != nil {
			logx.Infof("[fees]: endpoint %d failed, continuing on %d samples: %v", i, len(pooled), err)
		}
	}
	return pooled, nil
}
