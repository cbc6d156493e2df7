package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func seedJobs(t *testing.T, store *Store, ids ...string) {
	t.Helper()

	ctx := context.Background()
	for _, id := range ids {
		inserted, err := store.Insert(ctx, &Job{
			ID:      id,
			Title:   "Backend Engineer",
			Company: "Acme",
			Tags:    []string{"Go", "Remote"},
		})
		if err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
		if !inserted {
			t.Fatalf("expected %s to be inserted", id)
		}
	}
}

func TestInsertIgnoresDuplicates(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	seedJobs(t, store, "100")

	inserted, err := store.Insert(ctx, &Job{ID: "100", Title: "Other", Company: "Other"})
	if err != nil {
		t.Fatalf("insert duplicate: %v", err)
	}
	if inserted {
		t.Fatal("duplicate insert must be ignored")
	}

	job, err := store.Get(ctx, "100")
	if err != nil {
		t.Fatal(err)
	}
	if job.Title != "Backend Engineer" {
		t.Fatalf("duplicate insert must not overwrite, got title %q", job.Title)
	}
}

func TestSelectJobsModesAndOrder(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	seedJobs(t, store, "3", "1", "2")

	if err := store.WriteScoreTriple(ctx, "2", 8, "good fit", time.Now()); err != nil {
		t.Fatal(err)
	}

	all, err := store.SelectJobs(ctx, Selection{Mode: ModeAll})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].ID != "1" || all[2].ID != "3" {
		t.Fatalf("expected all jobs ordered by id, got %v", ids(all))
	}

	unscored, err := store.SelectJobs(ctx, Selection{Mode: ModeNew})
	if err != nil {
		t.Fatal(err)
	}
	if len(unscored) != 2 || unscored[0].ID != "1" || unscored[1].ID != "3" {
		t.Fatalf("expected unscored jobs 1 and 3, got %v", ids(unscored))
	}

	limited, err := store.SelectJobs(ctx, Selection{Mode: ModeNew, Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].ID != "1" {
		t.Fatalf("expected first unscored job only, got %v", ids(limited))
	}

	// ids mode: caller order preserved, scored state ignored, unknown dropped.
	byIDs, err := store.SelectJobs(ctx, Selection{Mode: ModeIDs, IDs: []string{"2", "1", "404"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(byIDs) != 2 || byIDs[0].ID != "2" || byIDs[1].ID != "1" {
		t.Fatalf("expected jobs 2 then 1, got %v", ids(byIDs))
	}
}

func TestScoreTripleRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	seedJobs(t, store, "1")

	scoredAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if err := store.WriteScoreTriple(ctx, "1", 7, "solid match", scoredAt); err != nil {
		t.Fatal(err)
	}

	job, err := store.Get(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	assertTripleSet(t, job, 7, "solid match")
	if !job.ScoredAt.Equal(scoredAt) {
		t.Fatalf("unexpected scored_at: %v", job.ScoredAt)
	}

	// Overwrite replaces the whole triple.
	if err := store.WriteScoreTriple(ctx, "1", 3, "weaker on re-read", scoredAt.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	job, _ = store.Get(ctx, "1")
	assertTripleSet(t, job, 3, "weaker on re-read")

	if err := store.ClearScoreTriple(ctx, "1"); err != nil {
		t.Fatal(err)
	}
	job, _ = store.Get(ctx, "1")
	assertTripleClear(t, job)

	if err := store.WriteScoreTriple(ctx, "404", 5, "x", time.Now()); err == nil {
		t.Fatal("expected error for unknown job")
	}
	if err := store.WriteScoreTriple(ctx, "1", 11, "x", time.Now()); err == nil {
		t.Fatal("expected error for out-of-range score")
	}
}

func TestResetScoresRange(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	seedJobs(t, store, "1", "2", "3", "4")

	now := time.Now()
	for id, score := range map[string]int{"1": 2, "2": 3, "3": 8} {
		if err := store.WriteScoreTriple(ctx, id, score, "r", now); err != nil {
			t.Fatal(err)
		}
	}

	min, max := 0, 3
	cleared, err := store.ResetScores(ctx, &min, &max)
	if err != nil {
		t.Fatal(err)
	}
	if cleared != 2 {
		t.Fatalf("expected 2 cleared rows, got %d", cleared)
	}

	for _, id := range []string{"1", "2", "4"} {
		job, _ := store.Get(ctx, id)
		assertTripleClear(t, job)
	}

	job, _ := store.Get(ctx, "3")
	assertTripleSet(t, job, 8, "r")

	// Unbounded reset clears everything scored.
	cleared, err = store.ResetScores(ctx, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cleared != 1 {
		t.Fatalf("expected 1 cleared row, got %d", cleared)
	}
}

func TestCountsAndBands(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	seedJobs(t, store, "1", "2", "3", "4")

	now := time.Now()
	for id, score := range map[string]int{"1": 1, "2": 5, "3": 9} {
		if err := store.WriteScoreTriple(ctx, id, score, "r", now); err != nil {
			t.Fatal(err)
		}
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts.Total != 4 || counts.Scored != 3 || counts.Unscored != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	dist, err := store.Distribution(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if dist[1] != 1 || dist[5] != 1 || dist[9] != 1 {
		t.Fatalf("unexpected distribution: %v", dist)
	}

	bands, err := store.CountByScoreBand(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if bands[BandPoor] != 1 || bands[BandAverage] != 1 || bands[BandGood] != 1 {
		t.Fatalf("unexpected bands: %v", bands)
	}
}

func TestImportCSV(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	seedJobs(t, store, "200")

	csvPath := filepath.Join(t.TempDir(), "scrape.csv")
	content := "job_id,title,company,job_info,job_tags,job_description,linkedin_url,apply_url\n" +
		"100,Go Developer,Initech,Remote • Full-time,Go|SQL,Build services,https://l/100,https://a/100\n" +
		"200,Duplicate,Initech,,,,,\n" +
		",No ID,Initech,,,,,\n"
	if err := os.WriteFile(csvPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	report, err := store.ImportCSV(ctx, csvPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if report.Read != 3 || report.Inserted != 1 || report.Skipped != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}

	job, err := store.Get(ctx, "100")
	if err != nil {
		t.Fatal(err)
	}
	if job.Title != "Go Developer" || len(job.Tags) != 2 || job.ListingURL != "https://l/100" {
		t.Fatalf("unexpected imported job: %+v", job)
	}
}

func ids(jobs []*Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func assertTripleSet(t *testing.T, job *Job, score int, reasoning string) {
	t.Helper()

	if job.MatchScore == nil || job.MatchReasoning == nil || job.ScoredAt == nil {
		t.Fatalf("job %s: expected full score triple, got %+v", job.ID, job)
	}
	if *job.MatchScore != score || *job.MatchReasoning != reasoning {
		t.Fatalf("job %s: unexpected triple (%d, %q)", job.ID, *job.MatchScore, *job.MatchReasoning)
	}
}

func assertTripleClear(t *testing.T, job *Job) {
	t.Helper()

	if job.MatchScore != nil || job.MatchReasoning != nil || job.ScoredAt != nil {
		t.Fatalf("job %s: expected empty score triple, got %+v", job.ID, job)
	}
}
