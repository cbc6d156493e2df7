package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrNotFound is returned when no profile file exists at the store path.
var ErrNotFound = errors.New("profile not found")

// Store persists the single active profile as a JSON document.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Exists reports whether a profile file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads and parses the active profile. ErrNotFound is returned when the
// file does not exist.
func (s *Store) Load() (*Profile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read profile %q: %w", s.path, err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %q: %w", s.path, err)
	}

	return &p, nil
}

// Save writes the profile, replacing any previous one. UpdatedAt is refreshed
// on every save; CreatedAt is set on the first.
func (s *Store) Save(p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write profile %q: %w", s.path, err)
	}

	return nil
}

// Delete removes the profile file.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete profile %q: %w", s.path, err)
	}
	return nil
}

// Import loads a profile from an arbitrary JSON file, validating it before
// returning. The imported profile is not saved automatically.
func Import(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile import %q: %w", path, err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile import %q: %w", path, err)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("imported profile %q: %w", path, err)
	}

	return &p, nil
}
