package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/spigell/job-scorer/internal/jobs"
	"github.com/spigell/job-scorer/internal/profile"
)

// MatchResult is the validated outcome of one scoring call.
type MatchResult struct {
	// Score is an integer in [0,10].
	Score int
	// Reasoning is the model's non-empty explanation for the score.
	Reasoning string
	// RemotePenalty is set when the remote-work gate capped the score.
	RemotePenalty bool
	// Truncated is set when the job description was shortened in the prompt.
	Truncated bool
	// Raw keeps the unparsed model reply for debugging.
	Raw string
}

// Matcher scores a single job against the candidate profile.
type Matcher interface {
	Evaluate(ctx context.Context, p *profile.Profile, job *jobs.Job) (*MatchResult, error)
}

// ErrorKind classifies scoring failures for retry and reporting decisions.
type ErrorKind string

const (
	// KindRateLimited marks provider rate-limit or quota signals. Retryable.
	KindRateLimited ErrorKind = "rate_limited"
	// KindTransient marks timeouts and transient server errors. Retryable.
	KindTransient ErrorKind = "transient"
	// KindAuth marks authentication and authorization failures.
	KindAuth ErrorKind = "auth"
	// KindMalformed marks replies that fail score/reasoning validation and
	// requests the provider rejected as invalid.
	KindMalformed ErrorKind = "malformed"
	// KindOther marks everything else.
	KindOther ErrorKind = "other"
)

// MatchError wraps a scoring failure with its classification.
type MatchError struct {
	Kind ErrorKind
	Err  error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *MatchError) Unwrap() error { return e.Err }

// NewError builds a classified scoring failure.
func NewError(kind ErrorKind, err error) *MatchError {
	return &MatchError{Kind: kind, Err: err}
}

// KindOf extracts the classification from an error chain, defaulting to
// KindOther for unclassified errors.
func KindOf(err error) ErrorKind {
	var matchErr *MatchError
	if errors.As(err, &matchErr) {
		return matchErr.Kind
	}
	return KindOther
}

// Retryable reports whether the failure is worth re-sending the identical
// payload for. Scoring has no remote side effects, so retrying is safe.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindRateLimited, KindTransient:
		return true
	default:
		return false
	}
}
