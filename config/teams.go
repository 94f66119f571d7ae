package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
	"walkboard/models"
)

// DefaultTeams is the roster used when no teams file is present.
var DefaultTeams = []models.Team{
	{ID: "team_1", Name: "Main shelter", Location: "Shelter", MembersCount: 0},
}

type teamsFile struct {
	Teams []models.Team `yaml:"teams"`
}

// LoadTeams reads the team roster from a YAML file. A missing file yields the
// default roster.
func LoadTeams(path string) ([]models.Team, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return append([]models.Team(nil), DefaultTeams...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read teams file: %w", err)
	}
	return ParseTeams(data)
}

// ParseTeams decodes a YAML roster and checks that ids are present and unique.
func ParseTeams(data []byte) ([]models.Team, error) {
	var f teamsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse teams file: %w", err)
	}
	if len(f.Teams) == 0 {
		return nil, errors.New("teams file lists no teams")
	}
	seen := make(map[string]bool, len(f.Teams))
	for i, t := range f.Teams {
		if t.ID == "" {
			return nil, fmt.Errorf("team #%d has no id", i+1)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate team id %q", t.ID)
		}
		seen[t.ID] = true
	}
	return f.Teams, nil
}
