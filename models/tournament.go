package models

import "time"

// Tournament представляет турнир. Регистрация и расписание ведутся вне движка.
type Tournament struct {
	ID                  int       `json:"id" db:"id"`
	Name                string    `json:"name" db:"name"`
	WinnerParticipantID *int      `json:"winner_participant_id,omitempty" db:"winner_participant_id"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`

	Stages []*Stage `json:"stages,omitempty" db:"-"`
}
