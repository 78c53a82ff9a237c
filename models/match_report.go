package models

import "time"

type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusConfirmed ReportStatus = "confirmed"
	ReportStatusObsolete  ReportStatus = "obsolete"
	ReportStatusRejected  ReportStatus = "rejected"
)

// MatchReport - заявленный участником результат матча.
type MatchReport struct {
	ID                     int          `json:"id" db:"id"`
	MatchID                int          `json:"match_id" db:"match_id"`
	ReporterParticipantID  int          `json:"reporter_participant_id" db:"reporter_participant_id"`
	ScoreHome              int          `json:"score_home" db:"score_home"`
	ScoreAway              int          `json:"score_away" db:"score_away"`
	OT                     bool         `json:"ot" db:"ot"`
	SO                     bool         `json:"so" db:"so"`
	Comment                *string      `json:"comment,omitempty" db:"comment"`
	Attachments            []string     `json:"attachments" db:"attachments"`
	Status                 ReportStatus `json:"status" db:"status"`
	ConfirmerParticipantID *int         `json:"confirmer_participant_id,omitempty" db:"confirmer_participant_id"`
	CreatedAt              time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at" db:"updated_at"`
}
