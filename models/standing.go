package models

import "time"

// Standing - строка турнирной таблицы групповой стадии.
type Standing struct {
	ID            int       `json:"id" db:"id"`
	StageID       int       `json:"stage_id" db:"stage_id"`
	ParticipantID int       `json:"participant_id" db:"participant_id"`
	GamesPlayed   int       `json:"games_played" db:"games_played"`
	Wins          int       `json:"wins" db:"wins"`
	OTWins        int       `json:"ot_wins" db:"ot_wins"`
	SOWins        int       `json:"so_wins" db:"so_wins"`
	Losses        int       `json:"losses" db:"losses"`
	OTLosses      int       `json:"ot_losses" db:"ot_losses"`
	SOLosses      int       `json:"so_losses" db:"so_losses"`
	GoalsFor      int       `json:"goals_for" db:"goals_for"`
	GoalsAgainst  int       `json:"goals_against" db:"goals_against"`
	GoalDiff      int       `json:"goal_diff" db:"goal_diff"`
	Points        int       `json:"points" db:"points"`
	TechLosses    int       `json:"tech_losses" db:"tech_losses"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	Participant *Participant `json:"participant,omitempty" db:"-"`
}
