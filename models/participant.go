package models

import "time"

// Participant представляет участника турнира (игрок или команда).
type Participant struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	UserID       *int      `json:"user_id,omitempty" db:"user_id"`
	TeamID       *int      `json:"team_id,omitempty" db:"team_id"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
