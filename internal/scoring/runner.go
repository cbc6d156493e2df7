package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/spigell/job-scorer/internal/ai"
	"github.com/spigell/job-scorer/internal/jobs"
	"github.com/spigell/job-scorer/internal/profile"

	"go.uber.org/zap"
)

// Store is the narrow slice of the job storage contract the scoring engine
// consumes.
type Store interface {
	SelectJobs(ctx context.Context, sel jobs.Selection) ([]*jobs.Job, error)
	WriteScoreTriple(ctx context.Context, id string, score int, reasoning string, scoredAt time.Time) error
	ResetScores(ctx context.Context, min, max *int) (int64, error)
	Counts(ctx context.Context) (jobs.Counts, error)
	Distribution(ctx context.Context) (map[int]int, error)
	CountByScoreBand(ctx context.Context) (map[jobs.Band]int, error)
}

// Failure records one job the run could not score.
type Failure struct {
	JobID string
	Kind  ai.ErrorKind
	Err   string
}

// Report summarizes one batch run. It is returned to the caller and never
// persisted.
type Report struct {
	Attempted    int
	Scored       int
	Failed       int
	Skipped      int
	Failures     []Failure
	Distribution map[int]int
}

// Runner scores batches of jobs sequentially. One run processes its target
// set in job-id order, persists each result in its own atomic write and
// never lets a single job's failure abort the batch.
type Runner struct {
	store   Store
	matcher ai.Matcher
	logger  *zap.Logger
	now     func() time.Time
}

func NewRunner(store Store, matcher ai.Matcher, logger *zap.Logger) *Runner {
	return &Runner{
		store:   store,
		matcher: matcher,
		logger:  logger,
		now:     time.Now,
	}
}

// Run executes one batch over the selection. The profile is a precondition:
// runs without a valid profile fail before any remote call.
func (r *Runner) Run(ctx context.Context, p *profile.Profile, sel jobs.Selection) (*Report, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile precondition: %w", err)
	}

	targets, err := r.store.SelectJobs(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("select jobs: %w", err)
	}

	report := &Report{Distribution: make(map[int]int)}

	r.logger.Info("starting batch run",
		zap.String("mode", string(sel.Mode)),
		zap.Int("targets", len(targets)),
	)

	for _, job := range targets {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		// New-mode runs never re-score; the selection already filters
		// scored jobs, this guards rows scored since the select.
		if sel.Mode == jobs.ModeNew && job.Scored() {
			report.Skipped++
			continue
		}

		report.Attempted++

		result, err := r.matcher.Evaluate(ctx, p, job)
		if err != nil {
			r.recordFailure(report, job, err)
			continue
		}

		if err := r.store.WriteScoreTriple(ctx, job.ID, result.Score, result.Reasoning, r.now()); err != nil {
			r.recordFailure(report, job, err)
			continue
		}

		report.Scored++
		report.Distribution[result.Score]++

		r.logger.Info("job scored",
			zap.String("job_id", job.ID),
			zap.Int("score", result.Score),
			zap.Bool("remote_penalty", result.RemotePenalty),
		)
	}

	r.logger.Info("batch run finished",
		zap.Int("attempted", report.Attempted),
		zap.Int("scored", report.Scored),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
	)

	return report, nil
}

func (r *Runner) recordFailure(report *Report, job *jobs.Job, err error) {
	kind := ai.KindOf(err)

	report.Failed++
	report.Failures = append(report.Failures, Failure{
		JobID: job.ID,
		Kind:  kind,
		Err:   err.Error(),
	})

	fields := []zap.Field{
		zap.String("job_id", job.ID),
		zap.String("classification", string(kind)),
		zap.Error(err),
	}

	// A non-transient failure on the very first job usually means the run
	// itself is misconfigured, not the job.
	if report.Attempted == 1 && (kind == ai.KindAuth || kind == ai.KindOther) {
		fields = append(fields, zap.String("hint", "first job failed with a non-transient error, check provider credentials and configuration"))
		r.logger.Error("scoring job failed", fields...)
		return
	}

	r.logger.Warn("scoring job failed", fields...)
}
