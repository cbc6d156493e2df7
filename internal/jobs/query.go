package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const jobColumns = `job_id, title, company, job_info, job_tags, job_description,
	listing_url, apply_url, match_score, match_reasoning, scored_at,
	applied, applied_at, not_interested`

// SelectJobs returns the jobs targeted by the selection. Results are ordered
// by job id ascending, except for ModeIDs where the caller's id order is
// preserved.
func (s *Store) SelectJobs(ctx context.Context, sel Selection) ([]*Job, error) {
	switch sel.Mode {
	case ModeNew, ModeAll:
		return s.selectOrdered(ctx, sel)
	case ModeIDs:
		return s.selectByIDs(ctx, sel.IDs)
	default:
		return nil, fmt.Errorf("unknown selection mode: %q", sel.Mode)
	}
}

func (s *Store) selectOrdered(ctx context.Context, sel Selection) ([]*Job, error) {
	query := fmt.Sprintf("SELECT %s FROM jobs", jobColumns)
	if sel.Mode == ModeNew {
		query += " WHERE scored_at IS NULL"
	}
	query += " ORDER BY job_id ASC"

	var args []any
	if sel.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, sel.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select jobs: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

func (s *Store) selectByIDs(ctx context.Context, ids []string) ([]*Job, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf("SELECT %s FROM jobs WHERE job_id IN (%s)", jobColumns, placeholders)

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select jobs by id: %w", err)
	}
	defer rows.Close()

	found, err := scanJobs(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*Job, len(found))
	for _, job := range found {
		byID[job.ID] = job
	}

	// Keep the caller's order; missing ids are dropped silently.
	ordered := make([]*Job, 0, len(found))
	for _, id := range ids {
		if job, ok := byID[id]; ok {
			ordered = append(ordered, job)
		}
	}

	return ordered, nil
}

// Get returns a single job or nil when absent.
func (s *Store) Get(ctx context.Context, id string) (*Job, error) {
	found, err := s.selectByIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func scanJobs(rows *sql.Rows) ([]*Job, error) {
	var jobs []*Job
	for rows.Next() {
		var (
			job       Job
			tags      string
			score     sql.NullInt64
			reasoning sql.NullString
			scoredAt  sql.NullString
			appliedAt sql.NullString
		)

		err := rows.Scan(
			&job.ID, &job.Title, &job.Company, &job.Info, &tags, &job.Description,
			&job.ListingURL, &job.ApplyURL, &score, &reasoning, &scoredAt,
			&job.Applied, &appliedAt, &job.NotInterested,
		)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}

		job.Tags = decodeTags(tags)
		if score.Valid {
			v := int(score.Int64)
			job.MatchScore = &v
		}
		if reasoning.Valid {
			v := reasoning.String
			job.MatchReasoning = &v
		}
		job.ScoredAt = decodeTime(scoredAt)
		job.AppliedAt = decodeTime(appliedAt)

		jobs = append(jobs, &job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}

	return jobs, nil
}
