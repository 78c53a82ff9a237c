package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusReported  MatchStatus = "reported"
	MatchStatusConfirmed MatchStatus = "confirmed"
	MatchStatusDisputed  MatchStatus = "disputed"
	MatchStatusCanceled  MatchStatus = "canceled"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusScheduled, MatchStatusReported, MatchStatusConfirmed, MatchStatusDisputed, MatchStatusCanceled:
		return true
	}
	return false
}

// IsClosed reports whether no further reports are accepted.
func (s MatchStatus) IsClosed() bool {
	return s == MatchStatusConfirmed || s == MatchStatusCanceled
}

// IsOpen reports whether the game may still be played or confirmed.
func (s MatchStatus) IsOpen() bool {
	return s == MatchStatusScheduled || s == MatchStatusReported || s == MatchStatusDisputed
}

// MatchMeta хранится в matches.meta (jsonb).
type MatchMeta struct {
	AutoConfirmed   bool       `json:"auto_confirmed,omitempty"`
	AutoConfirmedAt *time.Time `json:"auto_confirmed_at,omitempty"`
	RoundLabel      string     `json:"round_label,omitempty"`
}

func (m MatchMeta) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *MatchMeta) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = MatchMeta{}
		return nil
	case []byte:
		if len(v) == 0 {
			*m = MatchMeta{}
			return nil
		}
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported type for match meta")
	}
}

// Match - одна игра между двумя участниками стадии.
// Round and Slot are set only for bracket games; third-place games use Slot 0.
type Match struct {
	ID                int         `json:"id" db:"id"`
	StageID           int         `json:"stage_id" db:"stage_id"`
	HomeParticipantID int         `json:"home_participant_id" db:"home_participant_id"`
	AwayParticipantID int         `json:"away_participant_id" db:"away_participant_id"`
	GameNumber        int         `json:"game_number" db:"game_number"`
	Status            MatchStatus `json:"status" db:"status"`
	ScoreHome         *int        `json:"score_home,omitempty" db:"score_home"`
	ScoreAway         *int        `json:"score_away,omitempty" db:"score_away"`
	OT                bool        `json:"ot" db:"ot"`
	SO                bool        `json:"so" db:"so"`
	Round             *int        `json:"round,omitempty" db:"bracket_round"`
	Slot              *int        `json:"slot,omitempty" db:"bracket_slot"`
	ThirdPlace        bool        `json:"third_place" db:"third_place"`
	ConfirmedAt       *time.Time  `json:"confirmed_at,omitempty" db:"confirmed_at"`
	Meta              MatchMeta   `json:"meta" db:"meta"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" db:"updated_at"`
}

func (m *Match) HasScore() bool {
	return m.ScoreHome != nil && m.ScoreAway != nil
}

func (m *Match) IsBracketGame() bool {
	return m.Round != nil
}

func (m *Match) Involves(participantID int) bool {
	return m.HomeParticipantID == participantID || m.AwayParticipantID == participantID
}

// Opponent returns the other side of the match for participantID.
func (m *Match) Opponent(participantID int) (int, bool) {
	switch participantID {
	case m.HomeParticipantID:
		return m.AwayParticipantID, true
	case m.AwayParticipantID:
		return m.HomeParticipantID, true
	}
	return 0, false
}

// Winner returns the winning participant of a confirmed, non-drawn game.
func (m *Match) Winner() (int, bool) {
	if m.Status != MatchStatusConfirmed || !m.HasScore() || *m.ScoreHome == *m.ScoreAway {
		return 0, false
	}
	if *m.ScoreHome > *m.ScoreAway {
		return m.HomeParticipantID, true
	}
	return m.AwayParticipantID, true
}
