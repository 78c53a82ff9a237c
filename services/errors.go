package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден
	ErrNotFound            = errors.New("requested resource not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrStageNotFound       = errors.New("stage not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrReportNotFound      = errors.New("match report not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrPlayerNotFound      = errors.New("player has no linked participants")

	// Ошибки валидации входных данных
	ErrValidationFailed    = errors.New("validation failed")
	ErrScoreRequired       = errors.New("both scores are required")
	ErrScoreOutOfRange     = errors.New("score must be between 0 and 99")
	ErrDrawNotAllowed      = errors.New("scores must differ, draws are not allowed")
	ErrOTAndSO             = errors.New("a game cannot end in both overtime and shootout")
	ErrCommentTooLong      = errors.New("comment is too long")
	ErrTooManyAttachments  = errors.New("too many attachments")
	ErrInvalidAttachment   = errors.New("attachment does not belong to this match")
	ErrInvalidMatchStatus  = errors.New("invalid match status")
	ErrInvalidStageKind    = errors.New("invalid stage kind")
	ErrStageNameRequired   = errors.New("stage name is required")
	ErrInvalidGamesPerPair = errors.New("games per pair must be between 1 and 7")

	// Ошибки авторизации
	ErrForbiddenOperation  = errors.New("operation not allowed for the current user")
	ErrNotMatchParticipant = errors.New("user does not represent a participant of this match")
	ErrSelfConfirmation    = errors.New("a participant cannot confirm or dispute its own report")

	// Конфликты состояния
	ErrMatchClosed           = errors.New("match is already confirmed or canceled")
	ErrMatchNotReported      = errors.New("match has no reported result awaiting confirmation")
	ErrReportNotPending      = errors.New("report is no longer pending")
	ErrReportConflict        = errors.New("another report for this match was submitted concurrently")
	ErrStageNotGroup         = errors.New("stage is not a group stage")
	ErrStageNotPlayoff       = errors.New("stage is not a playoff stage")
	ErrSourceStageInvalid    = errors.New("source stage must be a group stage of the same tournament")
	ErrNotEnoughParticipants = errors.New("not enough ranked participants for a playoff bracket")
)
