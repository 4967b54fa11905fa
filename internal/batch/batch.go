// Package batch runs enrichment over lists of companies with rate limiting
// so simulated discovery stays a polite stand-in for real web traffic.
package batch

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/prospector/internal/model"
)

// Enricher is the single-company pipeline the coordinator fans work into.
type Enricher interface {
	Enrich(ctx context.Context, input model.CompanyInput) (*model.EnrichmentProfile, error)
}

// Coordinator throttles and runs batch enrichment. The default settings
// process one company per second sequentially, matching the pacing a
// courteous scraper would use.
type Coordinator struct {
	enricher    Enricher
	limiter     *rate.Limiter
	concurrency int
}

// New creates a Coordinator. ratePerSecond <= 0 falls back to 1.0 and
// concurrency <= 0 falls back to sequential processing.
func New(enricher Enricher, ratePerSecond float64, concurrency int) *Coordinator {
	if ratePerSecond <= 0 {
		ratePerSecond = 1.0
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Coordinator{
		enricher:    enricher,
		limiter:     rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		concurrency: concurrency,
	}
}

// Run enriches every input, preserving input order in the result items.
// A bad record (missing name) becomes a failed item; it never aborts the
// rest of the batch. Run returns an error only when the context is
// cancelled mid-batch.
func (c *Coordinator) Run(ctx context.Context, inputs []model.CompanyInput) (*model.BatchResult, error) {
	result := &model.BatchResult{
		Processed: len(inputs),
		Items:     make([]model.BatchItem, len(inputs)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			if err := c.limiter.Wait(gctx); err != nil {
				return err
			}

			profile, err := c.enricher.Enrich(gctx, input)
			if err != nil {
				zap.L().Warn("batch: item failed",
					zap.Int("index", i),
					zap.String("company", input.Name),
					zap.Error(err),
				)
				result.Items[i] = model.BatchItem{Error: err.Error()}
				return nil
			}
			result.Items[i] = model.BatchItem{Profile: profile}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, item := range result.Items {
		if item.Profile != nil {
			result.Successful++
		} else {
			result.Failed++
		}
	}

	zap.L().Info("batch: run complete",
		zap.Int("processed", result.Processed),
		zap.Int("successful", result.Successful),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}
