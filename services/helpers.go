package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/repositories"
)

// Transactor выполняет fn в одной транзакции БД.
type Transactor interface {
	InTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Notifier receives events after the owning transaction has committed.
// Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, event models.Event)
}

type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, models.Event) {}

type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, event models.Event) {
	for _, n := range m {
		n.Notify(ctx, event)
	}
}

// LogNotifier пишет события в аудит-лог.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(_ context.Context, event models.Event) {
	attrs := []any{
		slog.String("event", string(event.Type)),
		slog.Int("tournament_id", event.TournamentID),
		slog.Int("stage_id", event.StageID),
	}
	if event.MatchID != nil {
		attrs = append(attrs, slog.Int("match_id", *event.MatchID))
	}
	if event.ReportID != nil {
		attrs = append(attrs, slog.Int("report_id", *event.ReportID))
	}
	n.Logger.Info("audit", attrs...)
}

func publish(ctx context.Context, logger *slog.Logger, notifier Notifier, events []models.Event) {
	for _, ev := range events {
		func() {
			defer func() {
				if p := recover(); p != nil {
					logger.Error("notifier panicked", slog.String("event", string(ev.Type)), slog.Any("panic", p))
				}
			}()
			notifier.Notify(ctx, ev)
		}()
	}
}

// Metrics собирает счётчики движка. Реализация на prometheus - в пакете metrics.
type Metrics interface {
	ReportSubmitted()
	ReportConfirmed(mode string)
	ReportDisputed()
	RoundGenerated(round int)
	DeadRubbersCanceled(n int)
	StandingsRecomputed(d time.Duration)
	AutoConfirmSweep(d time.Duration, confirmed, failed int)
}

type NoopMetrics struct{}

func (NoopMetrics) ReportSubmitted() {}
func (NoopMetrics) ReportConfirmed(string) {}
func (NoopMetrics) ReportDisputed() {}
func (NoopMetrics) RoundGenerated(int) {}
func (NoopMetrics) DeadRubbersCanceled(int) {}
func (NoopMetrics) StandingsRecomputed(time.Duration) {}
func (NoopMetrics) AutoConfirmSweep(time.Duration, int, int) {}

const (
	ConfirmModeManual = "manual"
	ConfirmModeAuto   = "auto"
	ConfirmModeAdmin  = "admin"
)

func newEvent(t models.EventType, stage *models.Stage, now time.Time, payload interface{}) models.Event {
	ev := models.Event{Type: t, Payload: payload, OccurredAt: now}
	if stage != nil {
		ev.TournamentID = stage.TournamentID
		ev.StageID = stage.ID
	}
	return ev
}

func withMatch(ev models.Event, matchID int) models.Event {
	ev.MatchID = &matchID
	return ev
}

func withReport(ev models.Event, reportID int) models.Event {
	ev.ReportID = &reportID
	return ev
}

func intPtr(v int) *int { return &v }

// handleRepositoryError переводит ошибки репозиториев в ошибки сервисов.
func handleRepositoryError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return fmt.Errorf("%w: %s", ErrTournamentNotFound, msg)
	case errors.Is(err, repositories.ErrStageNotFound):
		return fmt.Errorf("%w: %s", ErrStageNotFound, msg)
	case errors.Is(err, repositories.ErrMatchNotFound):
		return fmt.Errorf("%w: %s", ErrMatchNotFound, msg)
	case errors.Is(err, repositories.ErrReportNotFound):
		return fmt.Errorf("%w: %s", ErrReportNotFound, msg)
	case errors.Is(err, repositories.ErrParticipantNotFound):
		return fmt.Errorf("%w: %s", ErrParticipantNotFound, msg)
	case errors.Is(err, repositories.ErrReportPendingConflict), errors.Is(err, repositories.ErrReportConfirmedConflict):
		return fmt.Errorf("%w: %s", ErrReportConflict, msg)
	case errors.Is(err, repositories.ErrStageTournamentInvalid):
		return fmt.Errorf("%w: %s", ErrTournamentNotFound, msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
