package models

import "time"

type EventType string

const (
	EventReportSubmitted    EventType = "REPORT_SUBMITTED"
	EventReportConfirmed    EventType = "REPORT_CONFIRMED"
	EventReportDisputed     EventType = "REPORT_DISPUTED"
	EventReportDeleted      EventType = "REPORT_DELETED"
	EventMatchAutoConfirmed EventType = "MATCH_AUTO_CONFIRMED"
	EventMatchUpdated       EventType = "MATCH_UPDATED"
	EventStandingsUpdated   EventType = "STANDINGS_UPDATED"
	EventSeriesDecided      EventType = "SERIES_DECIDED"
	EventRoundGenerated     EventType = "ROUND_GENERATED"
	EventBracketGenerated   EventType = "BRACKET_GENERATED"
	EventPlayoffCompleted   EventType = "PLAYOFF_COMPLETED"
)

// Event - уведомление о изменении состояния турнира для внешних подписчиков.
type Event struct {
	Type         EventType   `json:"type"`
	TournamentID int         `json:"tournament_id"`
	StageID      int         `json:"stage_id,omitempty"`
	MatchID      *int        `json:"match_id,omitempty"`
	ReportID     *int        `json:"report_id,omitempty"`
	Payload      interface{} `json:"payload,omitempty"`
	OccurredAt   time.Time   `json:"occurred_at"`
}
