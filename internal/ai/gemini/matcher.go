package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/spigell/job-scorer/internal/ai"
	"github.com/spigell/job-scorer/internal/jobs"
	"github.com/spigell/job-scorer/internal/profile"
	"github.com/spigell/job-scorer/internal/utils"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const defaultMaxLogLength = 200

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

// Matcher scores jobs against the candidate profile with Gemini.
type Matcher struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewMatcher(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Matcher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Matcher{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Evaluate renders the scoring prompt for the (profile, job) pair, sends it
// to the model and validates the reply into a MatchResult.
func (m *Matcher) Evaluate(ctx context.Context, p *profile.Profile, job *jobs.Job) (*ai.MatchResult, error) {
	if p == nil {
		return nil, ai.NewError(ai.KindOther, fmt.Errorf("profile is required"))
	}
	if job == nil {
		return nil, ai.NewError(ai.KindOther, fmt.Errorf("job is required"))
	}

	request := buildPayload(p, job)

	m.logger.Debug("gemini scoring request",
		zap.String("job_id", job.ID),
		zap.String("model", m.generator.Model()),
		zap.Bool("description_truncated", request.truncated),
		zap.Int("prompt_length", utf8.RuneCountInString(request.prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(request.prompt, m.maxLogLen)),
	)

	raw, err := m.generator.GenerateContent(ctx, request.system, request.prompt)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("gemini scoring response",
		zap.String("job_id", job.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, m.maxLogLen)),
	)

	result, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	result.Truncated = request.truncated
	return result, nil
}

// replyShape is the decoded model reply before validation. Score stays a
// float so non-integer replies can be rejected instead of silently rounded.
type replyShape struct {
	Score         float64 `mapstructure:"score"`
	Reasoning     string  `mapstructure:"reasoning"`
	RemotePenalty bool    `mapstructure:"remote_penalty"`
}

func parseResponse(raw string) (*ai.MatchResult, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, ai.NewError(ai.KindMalformed, fmt.Errorf("parse gemini response: %w", err))
	}

	for _, key := range []string{"score", "reasoning"} {
		if _, ok := data[key]; !ok {
			return nil, ai.NewError(ai.KindMalformed, fmt.Errorf("response is missing %q", key))
		}
	}

	var reply replyShape
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &reply,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("build response decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, ai.NewError(ai.KindMalformed, fmt.Errorf("decode gemini response: %w", err))
	}

	if math.Trunc(reply.Score) != reply.Score {
		return nil, ai.NewError(ai.KindMalformed, fmt.Errorf("score %v is not an integer", reply.Score))
	}

	score := int(reply.Score)
	if score < 0 || score > 10 {
		return nil, ai.NewError(ai.KindMalformed, fmt.Errorf("score %d out of range [0,10]", score))
	}

	reasoning := strings.TrimSpace(reply.Reasoning)
	if reasoning == "" {
		return nil, ai.NewError(ai.KindMalformed, fmt.Errorf("reasoning is empty"))
	}

	return &ai.MatchResult{
		Score:         score,
		Reasoning:     reasoning,
		RemotePenalty: reply.RemotePenalty,
		Raw:           raw,
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
