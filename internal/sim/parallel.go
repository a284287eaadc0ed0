package sim

import (
	"context"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent simulators with consecutive seeds in parallel.
type Ensemble struct {
	params    Params
	numRuns   int
	seedStart int64
	// Metrics builds a fresh metric set per run; metrics hold state.
	Metrics func() []Metric
	// Schedule, when set, builds the launch schedule of each run.
	Schedule func() Schedule
}

func NewEnsemble(p Params, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{params: p, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			s := New(e.params, rand.New(rand.NewSource(e.seedStart+int64(idx))))
			if e.Metrics != nil {
				for _, m := range e.Metrics() {
					s.AddMetric(m)
				}
			}
			runCfg := cfg
			runCfg.Sink = nil
			runCfg.Schedule = nil
			if e.Schedule != nil {
				runCfg.Schedule = e.Schedule()
			}
			res, err := s.Run(ctx, runCfg)
			results[idx] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
