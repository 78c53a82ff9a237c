package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// StageKind соответствует типу стадии в БД.
type StageKind string

const (
	StageKindGroup   StageKind = "group"
	StageKindPlayoff StageKind = "playoff"
)

// Stage представляет стадию турнира (группа или плей-офф).
type Stage struct {
	ID           int             `json:"id" db:"id"`
	TournamentID int             `json:"tournament_id" db:"tournament_id"`
	Name         string          `json:"name" db:"name"`
	Kind         StageKind       `json:"kind" db:"kind"`
	Order        int             `json:"order" db:"stage_order"`
	GamesPerPair int             `json:"games_per_pair" db:"games_per_pair"`
	Settings     json.RawMessage `json:"settings,omitempty" db:"settings"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// PlayoffSettings хранится в stages.settings для стадии плей-офф.
// Seeds is the participant -> seed map captured when the bracket was generated.
type PlayoffSettings struct {
	SourceStageID     int         `json:"source_stage_id"`
	Size              int         `json:"size"`
	LossesToEliminate int         `json:"losses_to_eliminate"`
	ThirdPlace        bool        `json:"third_place"`
	Seeds             map[int]int `json:"seeds,omitempty"`
}

func (s *Stage) IsGroup() bool { return s.Kind == StageKindGroup }
func (s *Stage) IsPlayoff() bool { return s.Kind == StageKindPlayoff }

// Playoff decodes the playoff settings. Empty settings yield the zero value.
func (s *Stage) Playoff() (PlayoffSettings, error) {
	var ps PlayoffSettings
	if len(s.Settings) == 0 || string(s.Settings) == "null" {
		return ps, nil
	}
	if err := json.Unmarshal(s.Settings, &ps); err != nil {
		return ps, fmt.Errorf("decode playoff settings for stage %d: %w", s.ID, err)
	}
	return ps, nil
}

func (s *Stage) SetPlayoff(ps PlayoffSettings) error {
	raw, err := json.Marshal(ps)
	if err != nil {
		return fmt.Errorf("encode playoff settings for stage %d: %w", s.ID, err)
	}
	s.Settings = raw
	return nil
}
