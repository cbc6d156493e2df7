package scoring

import (
	"context"
	"fmt"

	"github.com/spigell/job-scorer/internal/jobs"

	"go.uber.org/zap"
)

// Lifecycle manages scored state outside of batch runs: resets and statistics.
type Lifecycle struct {
	store  Store
	logger *zap.Logger
}

func NewLifecycle(store Store, logger *zap.Logger) *Lifecycle {
	return &Lifecycle{store: store, logger: logger}
}

// ResetReport describes one reset operation.
type ResetReport struct {
	Cleared      int64
	ScoredBefore int
	ScoredAfter  int
}

// Stats is the read-only scoring overview.
type Stats struct {
	Counts       jobs.Counts
	Distribution map[int]int
	Bands        map[jobs.Band]int
}

// Reset clears the score triple of every scored job inside the optional
// inclusive [min, max] score bounds. Clearing is atomic per the storage
// contract; a job is never left with a partial triple.
func (l *Lifecycle) Reset(ctx context.Context, min, max *int) (*ResetReport, error) {
	if min != nil && max != nil && *min > *max {
		return nil, fmt.Errorf("min score %d is greater than max score %d", *min, *max)
	}
	for _, bound := range []*int{min, max} {
		if bound != nil && (*bound < 0 || *bound > 10) {
			return nil, fmt.Errorf("score bound %d out of range [0,10]", *bound)
		}
	}

	before, err := l.store.Counts(ctx)
	if err != nil {
		return nil, err
	}

	cleared, err := l.store.ResetScores(ctx, min, max)
	if err != nil {
		return nil, err
	}

	after, err := l.store.Counts(ctx)
	if err != nil {
		return nil, err
	}

	l.logger.Info("scores reset",
		zap.Int64("cleared", cleared),
		zap.Int("scored_before", before.Scored),
		zap.Int("scored_after", after.Scored),
	)

	return &ResetReport{
		Cleared:      cleared,
		ScoredBefore: before.Scored,
		ScoredAfter:  after.Scored,
	}, nil
}

// Stats returns the current scoring coverage and distribution.
func (l *Lifecycle) Stats(ctx context.Context) (*Stats, error) {
	counts, err := l.store.Counts(ctx)
	if err != nil {
		return nil, err
	}

	dist, err := l.store.Distribution(ctx)
	if err != nil {
		return nil, err
	}

	bands, err := l.store.CountByScoreBand(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Counts:       counts,
		Distribution: dist,
		Bands:        bands,
	}, nil
}
