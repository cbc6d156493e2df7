package gemini

import (
	"fmt"
	"strings"

	_ "embed"

	"github.com/spigell/job-scorer/internal/jobs"
	"github.com/spigell/job-scorer/internal/profile"
)

//go:embed prompt.md
var promptTemplate string

const systemInstruction = "You are an expert career counselor specializing in job matching analysis."

// maxDescriptionRunes caps the job description length in the prompt to keep
// token usage bounded. Truncation is flagged in the payload.
const maxDescriptionRunes = 2000

const truncationMarker = "[description truncated for length]"

// payload is a rendered scoring request for one (profile, job) pair.
type payload struct {
	system    string
	prompt    string
	truncated bool
}

// buildPayload renders the scoring request. It is deterministic for
// identical inputs.
func buildPayload(p *profile.Profile, job *jobs.Job) payload {
	description := strings.TrimSpace(job.Description)
	truncated := false

	if runes := []rune(description); len(runes) > maxDescriptionRunes {
		description = string(runes[:maxDescriptionRunes]) + " " + truncationMarker
		truncated = true
	}

	fields := []string{
		fmt.Sprintf("Job Title: %s", orNA(job.Title)),
		fmt.Sprintf("Company: %s", orNA(job.Company)),
		fmt.Sprintf("Location/Type: %s", orNA(job.Info)),
		fmt.Sprintf("Job Tags: %s", orNone(strings.Join(job.Tags, ", "))),
		fmt.Sprintf("Job Description: %s", orNA(description)),
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{PROFILE}}", p.Summary())
	prompt = strings.ReplaceAll(prompt, "{{JOB}}", strings.Join(fields, "\n"))

	return payload{
		system:    systemInstruction,
		prompt:    strings.TrimSpace(prompt),
		truncated: truncated,
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None"
	}
	return s
}
