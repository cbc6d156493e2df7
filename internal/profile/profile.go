package profile

import (
	"fmt"
	"strings"
	"time"
)

// listPreviewLimit bounds how many technology entries are rendered into the
// prompt summary before the list is elided.
const listPreviewLimit = 8

// Profile holds the candidate's professional background and job search goals.
// Exactly one profile is active per deployment; scoring requires it.
type Profile struct {
	CurrentTitle    string   `json:"current_title"`
	YearsExperience int      `json:"years_experience"`
	Background      string   `json:"background"`
	Languages       []string `json:"languages"`
	Technologies    []string `json:"technologies"`
	Infrastructure  []string `json:"infrastructure"`
	Education       string   `json:"education"`

	TargetRoles         []string `json:"target_roles"`
	MatchGoal           string   `json:"match_goal"`
	LocationPreferences []string `json:"location_preferences"`
	SalaryRange         string   `json:"salary_range,omitempty"`
	WorkPreferences     []string `json:"work_preferences,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate reports whether the profile carries enough information to score against.
func (p *Profile) Validate() error {
	if p == nil {
		return fmt.Errorf("profile is required")
	}
	if strings.TrimSpace(p.CurrentTitle) == "" {
		return fmt.Errorf("current title is required")
	}
	if len(p.TargetRoles) == 0 {
		return fmt.Errorf("at least one target role is required")
	}
	if p.YearsExperience < 0 {
		return fmt.Errorf("years of experience must not be negative")
	}
	return nil
}

// Summary renders the profile as a text block for the scoring prompt.
// The rendering is deterministic for identical profiles.
func (p *Profile) Summary() string {
	var b strings.Builder

	b.WriteString("Professional Background:\n")
	fmt.Fprintf(&b, "- Current Role: %s with %d years experience\n", p.CurrentTitle, p.YearsExperience)
	if p.Education != "" {
		fmt.Fprintf(&b, "- Education: %s\n", p.Education)
	}
	if len(p.Languages) > 0 {
		fmt.Fprintf(&b, "- Programming Languages: %s\n", strings.Join(p.Languages, ", "))
	}
	if len(p.Technologies) > 0 {
		fmt.Fprintf(&b, "- Technologies: %s\n", previewList(p.Technologies))
	}
	if len(p.Infrastructure) > 0 {
		fmt.Fprintf(&b, "- Infrastructure: %s\n", previewList(p.Infrastructure))
	}

	if p.Background != "" {
		b.WriteString("\nProfessional Experience:\n")
		b.WriteString(p.Background)
		b.WriteString("\n")
	}

	b.WriteString("\nCareer Goals:\n")
	if p.MatchGoal != "" {
		fmt.Fprintf(&b, "- Match Goal: %s\n", p.MatchGoal)
	}
	fmt.Fprintf(&b, "- Target Roles: %s\n", strings.Join(p.TargetRoles, ", "))
	fmt.Fprintf(&b, "- Location Preferences: %s\n", strings.Join(p.LocationPreferences, ", "))

	salary := p.SalaryRange
	if salary == "" {
		salary = "Not specified"
	}
	fmt.Fprintf(&b, "- Salary Range: %s\n", salary)

	workStyle := "Flexible"
	if len(p.WorkPreferences) > 0 {
		workStyle = strings.Join(p.WorkPreferences, ", ")
	}
	fmt.Fprintf(&b, "- Work Style: %s", workStyle)

	return b.String()
}

func previewList(items []string) string {
	if len(items) <= listPreviewLimit {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:listPreviewLimit], ", ") + "..."
}
