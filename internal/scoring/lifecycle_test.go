package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/spigell/job-scorer/internal/jobs"

	"go.uber.org/zap"
)

func seedScored(store *fakeStore, scores map[string]int) {
	now := time.Now()
	for id, score := range scores {
		s := score
		r := "seeded"
		job := store.jobs[id]
		job.MatchScore = &s
		job.MatchReasoning = &r
		job.ScoredAt = &now
	}
}

func TestLifecycleResetRange(t *testing.T) {
	t.Parallel()

	store := newFakeStore("1", "2", "3", "4", "5")
	seedScored(store, map[string]int{"1": 0, "2": 3, "3": 4, "4": 10})

	lc := NewLifecycle(store, zap.NewNop())

	min, max := 0, 3
	report, err := lc.Reset(context.Background(), &min, &max)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}

	if report.Cleared != 2 || report.ScoredBefore != 4 || report.ScoredAfter != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}

	for _, id := range []string{"1", "2", "5"} {
		job := store.jobs[id]
		if job.MatchScore != nil || job.MatchReasoning != nil || job.ScoredAt != nil {
			t.Fatalf("job %s must have empty triple: %+v", id, job)
		}
	}
	for _, id := range []string{"3", "4"} {
		if !store.jobs[id].Scored() {
			t.Fatalf("job %s must stay scored", id)
		}
	}
}

func TestLifecycleResetAll(t *testing.T) {
	t.Parallel()

	store := newFakeStore("1", "2")
	seedScored(store, map[string]int{"1": 5, "2": 9})

	lc := NewLifecycle(store, zap.NewNop())

	report, err := lc.Reset(context.Background(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Cleared != 2 || report.ScoredAfter != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestLifecycleResetValidatesBounds(t *testing.T) {
	t.Parallel()

	lc := NewLifecycle(newFakeStore(), zap.NewNop())

	min, max := 5, 2
	if _, err := lc.Reset(context.Background(), &min, &max); err == nil {
		t.Fatal("expected error for inverted bounds")
	}

	bad := 11
	if _, err := lc.Reset(context.Background(), &bad, nil); err == nil {
		t.Fatal("expected error for out-of-range bound")
	}
}

func TestLifecycleStats(t *testing.T) {
	t.Parallel()

	store := newFakeStore("1", "2", "3")
	seedScored(store, map[string]int{"1": 2, "2": 8})

	stats, err := NewLifecycle(store, zap.NewNop()).Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if stats.Counts.Total != 3 || stats.Counts.Scored != 2 || stats.Counts.Unscored != 1 {
		t.Fatalf("unexpected counts: %+v", stats.Counts)
	}
	if stats.Distribution[2] != 1 || stats.Distribution[8] != 1 {
		t.Fatalf("unexpected distribution: %v", stats.Distribution)
	}
	if stats.Bands[jobs.BandPoor] != 1 || stats.Bands[jobs.BandGood] != 1 {
		t.Fatalf("unexpected bands: %v", stats.Bands)
	}
}
