package directory

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"example.com/signup/internal/domain"
)

//go:embed seed.yaml
var defaultSeed []byte

type seedDocument struct {
	Activities []seedActivity `yaml:"activities"`
}

type seedActivity struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	Schedule        string   `yaml:"schedule"`
	MaxParticipants int      `yaml:"max_participants"`
	Participants    []string `yaml:"participants"`
}

// DefaultSeed returns the activities bundled with the binary.
func DefaultSeed() ([]domain.Activity, error) {
	return ParseSeed(defaultSeed)
}

// LoadSeedFile reads a seed document from disk. An empty path yields the default seed.
func LoadSeedFile(path string) ([]domain.Activity, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultSeed()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

// ParseSeed decodes and validates a YAML seed document.
func ParseSeed(raw []byte) ([]domain.Activity, error) {
	var doc seedDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if len(doc.Activities) == 0 {
		return nil, errors.New("seed contains no activities")
	}

	out := make([]domain.Activity, 0, len(doc.Activities))
	seen := make(map[string]struct{}, len(doc.Activities))
	for i, entry := range doc.Activities {
		if strings.TrimSpace(entry.Name) == "" {
			return nil, fmt.Errorf("seed activity %d: name is required", i)
		}
		if _, dup := seen[entry.Name]; dup {
			return nil, fmt.Errorf("seed activity %q: duplicate name", entry.Name)
		}
		seen[entry.Name] = struct{}{}
		if entry.MaxParticipants <= 0 {
			return nil, fmt.Errorf("seed activity %q: max_participants must be > 0", entry.Name)
		}

		participants := dedupe(entry.Participants)
		if len(participants) > entry.MaxParticipants {
			return nil, fmt.Errorf("seed activity %q: %d participants exceed capacity %d", entry.Name, len(participants), entry.MaxParticipants)
		}

		out = append(out, domain.Activity{
			Name:            entry.Name,
			Description:     entry.Description,
			Schedule:        entry.Schedule,
			MaxParticipants: entry.MaxParticipants,
			Participants:    participants,
		})
	}
	return out, nil
}

func dedupe(emails []string) []string {
	out := make([]string, 0, len(emails))
	seen := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out
}
