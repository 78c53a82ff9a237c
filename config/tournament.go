package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Dosada05/league-engine/standings"
	"gopkg.in/yaml.v3"
)

// Tournament - настройки турнира из YAML-файла.
type Tournament struct {
	Points           standings.PointsPolicy
	AutoConfirmAfter time.Duration
	// UnknownPointKeys lists keys of the points map that were ignored.
	UnknownPointKeys []string
}

type tournamentFile struct {
	Points           map[string]int `yaml:"points"`
	AutoConfirmAfter string         `yaml:"auto_confirm_after"`
}

func DefaultTournament() *Tournament {
	return &Tournament{Points: standings.DefaultPointsPolicy()}
}

// LoadTournament reads a tournament YAML file. The points map may be partial;
// missing keys fall back to the default policy.
func LoadTournament(path string) (*Tournament, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tournament config %s: %w", path, err)
	}
	return ParseTournament(raw)
}

func ParseTournament(raw []byte) (*Tournament, error) {
	var file tournamentFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse tournament config: %w", err)
	}

	t := &Tournament{}
	t.Points, t.UnknownPointKeys = standings.MergeDefaults(file.Points)
	if file.AutoConfirmAfter != "" {
		d, err := time.ParseDuration(file.AutoConfirmAfter)
		if err != nil {
			return nil, fmt.Errorf("invalid auto_confirm_after: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("auto_confirm_after must be positive, got %s", d)
		}
		t.AutoConfirmAfter = d
	}
	return t, nil
}
