package jobs

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// ImportReport summarizes one CSV import.
type ImportReport struct {
	Read     int
	Inserted int
	Skipped  int
}

// Insert adds a job row, ignoring the insert when the job id already exists.
// Existing rows keep their score triple untouched.
func (s *Store) Insert(ctx context.Context, job *Job) (bool, error) {
	tags, err := encodeTags(job.Tags)
	if err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO jobs (job_id, title, company, job_info, job_tags, job_description, listing_url, apply_url, applied, applied_at, not_interested)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Title, job.Company, job.Info, tags, job.Description,
		job.ListingURL, job.ApplyURL, job.Applied, encodeTime(job.AppliedAt), job.NotInterested,
	)
	if err != nil {
		return false, fmt.Errorf("insert job %s: %w", job.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert job %s: %w", job.ID, err)
	}

	return affected > 0, nil
}

// ImportCSV loads scraped postings from a CSV file into the store. Rows are
// matched by job_id; rows already present are skipped. Tags are expected
// pipe-separated in the job_tags column.
func (s *Store) ImportCSV(ctx context.Context, path string) (*ImportReport, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %q: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}

	for _, required := range []string{"job_id", "title", "company"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("csv is missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	report := &ImportReport{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return report, fmt.Errorf("read csv record: %w", err)
		}

		report.Read++

		job := &Job{
			ID:          field(record, "job_id"),
			Title:       field(record, "title"),
			Company:     field(record, "company"),
			Info:        field(record, "job_info"),
			Description: field(record, "job_description"),
			ListingURL:  field(record, "listing_url"),
			ApplyURL:    field(record, "apply_url"),
		}

		if job.ListingURL == "" {
			// Older scrapes name the column after the source site.
			job.ListingURL = field(record, "linkedin_url")
		}

		if raw := field(record, "job_tags"); raw != "" {
			for _, tag := range strings.Split(raw, "|") {
				if tag = strings.TrimSpace(tag); tag != "" {
					job.Tags = append(job.Tags, tag)
				}
			}
		}

		if job.ID == "" {
			report.Skipped++
			continue
		}

		inserted, err := s.Insert(ctx, job)
		if err != nil {
			return report, err
		}

		if inserted {
			report.Inserted++
		} else {
			report.Skipped++
		}
	}

	return report, nil
}
