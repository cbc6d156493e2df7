package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/job-scorer/internal/ai"
	"github.com/spigell/job-scorer/internal/jobs"
	"github.com/spigell/job-scorer/internal/profile"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, prompt string) (string, error) {
	s.lastSystem = system
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string { return "stub-model" }

func testJob() *jobs.Job {
	return &jobs.Job{
		ID:          "123",
		Title:       "Senior Software Engineer",
		Company:     "Tech Startup Inc.",
		Info:        "Remote • Full-time",
		Tags:        []string{"Python", "SQL"},
		Description: "Build data pipelines with Python and SQL.",
	}
}

func TestMatcherEvaluate(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: `{"score": 8, "reasoning": "Remote role, strong skills overlap.", "remote_penalty": false}`}
	matcher := NewMatcher(stub, zap.NewNop(), 0)

	result, err := matcher.Evaluate(context.Background(), profile.Sample(), testJob())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if result.Score != 8 {
		t.Fatalf("unexpected score: %d", result.Score)
	}
	if result.RemotePenalty {
		t.Fatal("remote penalty should not be set")
	}
	if result.Raw != stub.response {
		t.Fatal("raw response should be preserved")
	}

	if stub.lastSystem != systemInstruction {
		t.Fatalf("unexpected system instruction: %q", stub.lastSystem)
	}
	for _, want := range []string{"Senior Software Engineer", "Tech Startup Inc.", "Python, SQL", "CANDIDATE PROFILE"} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestMatcherEvaluateRemotePenalty(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: "```json\n" +
		`{"score": 1, "reasoning": "The posting has no remote eligibility, capping the score.", "remote_penalty": true}` +
		"\n```"}
	matcher := NewMatcher(stub, zap.NewNop(), 0)

	result, err := matcher.Evaluate(context.Background(), profile.Sample(), testJob())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if result.Score > 2 {
		t.Fatalf("expected capped score, got %d", result.Score)
	}
	if !result.RemotePenalty {
		t.Fatal("expected remote penalty flag")
	}
	if !strings.Contains(result.Reasoning, "remote") {
		t.Fatalf("reasoning must reference the remote requirement: %q", result.Reasoning)
	}
}

func TestMatcherEvaluateTruncatesLongDescriptions(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: `{"score": 5, "reasoning": "Mixed alignment."}`}
	matcher := NewMatcher(stub, zap.NewNop(), 0)

	job := testJob()
	job.Description = strings.Repeat("a very long description ", 200)

	result, err := matcher.Evaluate(context.Background(), profile.Sample(), job)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if !result.Truncated {
		t.Fatal("expected truncation flag on the result")
	}
	if !strings.Contains(stub.lastPrompt, truncationMarker) {
		t.Fatal("prompt must flag truncated descriptions")
	}
	if strings.Count(stub.lastPrompt, "a very long description") > maxDescriptionRunes/len("a very long description ")+1 {
		t.Fatal("description was not truncated")
	}
}

func TestMatcherEvaluatePassesThroughGeneratorErrors(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{err: ai.NewError(ai.KindRateLimited, errors.New("quota"))}
	matcher := NewMatcher(stub, zap.NewNop(), 0)

	_, err := matcher.Evaluate(context.Background(), profile.Sample(), testJob())
	if ai.KindOf(err) != ai.KindRateLimited {
		t.Fatalf("expected rate-limited classification, got %v", err)
	}
}

func TestParseResponseValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "I think this job is great"},
		{name: "missing score", raw: `{"reasoning": "fine"}`},
		{name: "missing reasoning", raw: `{"score": 5}`},
		{name: "empty reasoning", raw: `{"score": 5, "reasoning": "  "}`},
		{name: "score out of range", raw: `{"score": 11, "reasoning": "x"}`},
		{name: "negative score", raw: `{"score": -1, "reasoning": "x"}`},
		{name: "non-integer score", raw: `{"score": 7.5, "reasoning": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := parseResponse(tt.raw)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if ai.KindOf(err) != ai.KindMalformed {
				t.Fatalf("expected malformed classification, got %v", err)
			}
		})
	}
}

func TestParseResponseCoercesStringScore(t *testing.T) {
	t.Parallel()

	result, err := parseResponse(`{"score": "7", "reasoning": "Remote and aligned."}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.Score != 7 {
		t.Fatalf("unexpected score: %d", result.Score)
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	fenced := "```json\n{\"score\": 4}\n```"
	if got := extractJSON(fenced); got != `{"score": 4}` {
		t.Fatalf("unexpected extraction: %q", got)
	}

	plain := ` {"score": 4} `
	if got := extractJSON(plain); got != `{"score": 4}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}
