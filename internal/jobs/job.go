package jobs

import "time"

// Job is one scraped posting, keyed by its external job id.
//
// MatchScore, MatchReasoning and ScoredAt form the score triple: all three
// are set or cleared together, never partially.
type Job struct {
	ID          string
	Title       string
	Company     string
	Info        string
	Tags        []string
	Description string
	ListingURL  string
	ApplyURL    string

	MatchScore     *int
	MatchReasoning *string
	ScoredAt       *time.Time

	Applied       bool
	AppliedAt     *time.Time
	NotInterested bool
}

// Scored reports whether the job carries a complete score triple.
func (j *Job) Scored() bool {
	return j.ScoredAt != nil
}

// Mode selects which jobs a batch run targets.
type Mode string

const (
	// ModeNew targets jobs with no score triple.
	ModeNew Mode = "new"
	// ModeAll targets every job and forces a re-score.
	ModeAll Mode = "all"
	// ModeIDs targets an explicit id list, ignoring scored state.
	ModeIDs Mode = "ids"
)

// Selection describes the target set of one batch run.
type Selection struct {
	Mode  Mode
	IDs   []string
	Limit int
}

// Band is a contiguous sub-range of the 0-10 score scale.
type Band string

const (
	BandPoor    Band = "0-3"
	BandAverage Band = "4-6"
	BandGood    Band = "7-10"
)

// BandFor maps a score to its reporting band.
func BandFor(score int) Band {
	switch {
	case score <= 3:
		return BandPoor
	case score <= 6:
		return BandAverage
	default:
		return BandGood
	}
}

// Counts summarizes scoring coverage across the whole table.
type Counts struct {
	Total    int
	Scored   int
	Unscored int
}
