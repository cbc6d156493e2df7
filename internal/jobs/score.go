package jobs

import (
	"context"
	"fmt"
	"time"
)

// WriteScoreTriple persists a new score triple for the job in a single update,
// overwriting any prior triple. An error is returned when the job is unknown.
func (s *Store) WriteScoreTriple(ctx context.Context, id string, score int, reasoning string, scoredAt time.Time) error {
	if score < 0 || score > 10 {
		return fmt.Errorf("score %d out of range [0,10]", score)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET match_score = ?, match_reasoning = ?, scored_at = ? WHERE job_id = ?`,
		score, reasoning, scoredAt.UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("write score triple for job %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write score triple for job %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("job %s not found", id)
	}

	return nil
}

// ClearScoreTriple removes the score triple of a single job in one update.
func (s *Store) ClearScoreTriple(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET match_score = NULL, match_reasoning = NULL, scored_at = NULL WHERE job_id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("clear score triple for job %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("clear score triple for job %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("job %s not found", id)
	}

	return nil
}

// ResetScores clears the score triple of every scored job whose match_score
// lies within the optional inclusive [min, max] bounds. Unscored jobs are
// never touched. The number of cleared rows is returned.
func (s *Store) ResetScores(ctx context.Context, min, max *int) (int64, error) {
	query := `UPDATE jobs SET match_score = NULL, match_reasoning = NULL, scored_at = NULL
		WHERE match_score IS NOT NULL`

	var args []any
	if min != nil {
		query += " AND match_score >= ?"
		args = append(args, *min)
	}
	if max != nil {
		query += " AND match_score <= ?"
		args = append(args, *max)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("reset scores: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset scores: %w", err)
	}

	return affected, nil
}

// Counts returns scoring coverage across the whole table.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(scored_at) FROM jobs`,
	).Scan(&c.Total, &c.Scored)
	if err != nil {
		return Counts{}, fmt.Errorf("count jobs: %w", err)
	}

	c.Unscored = c.Total - c.Scored
	return c, nil
}

// Distribution returns a per-score count for every scored job.
func (s *Store) Distribution(ctx context.Context) (map[int]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_score, COUNT(*) FROM jobs WHERE match_score IS NOT NULL GROUP BY match_score`,
	)
	if err != nil {
		return nil, fmt.Errorf("score distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[int]int)
	for rows.Next() {
		var score, count int
		if err := rows.Scan(&score, &count); err != nil {
			return nil, fmt.Errorf("scan distribution: %w", err)
		}
		dist[score] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distribution: %w", err)
	}

	return dist, nil
}

// CountByScoreBand rolls the distribution up into reporting bands.
func (s *Store) CountByScoreBand(ctx context.Context) (map[Band]int, error) {
	dist, err := s.Distribution(ctx)
	if err != nil {
		return nil, err
	}

	bands := make(map[Band]int)
	for score, count := range dist {
		bands[BandFor(score)] += count
	}

	return bands, nil
}
