package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/repositories"
)

// progression applies a changed match result to its stage: group stages get
// their table rebuilt, playoff stages get their current round evaluated.
// Everything runs inside the caller's transaction.
type progression struct {
	stageRepo  repositories.StageRepository
	matchRepo  repositories.MatchRepository
	reportRepo repositories.MatchReportRepository
	standings  StandingsService
	brackets   BracketService
	clock      Clock
	logger     *slog.Logger
}

type progressionOutcome struct {
	Stage     *models.Stage
	Standings []*models.Standing
	Advance   *AdvanceResult
}

func (p *progression) apply(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) (*progressionOutcome, error) {
	stage, err := p.stageRepo.GetByID(ctx, exec, match.StageID)
	if err != nil {
		return nil, handleRepositoryError(err, "load stage %d of match %d", match.StageID, match.ID)
	}
	out := &progressionOutcome{Stage: stage}
	switch stage.Kind {
	case models.StageKindGroup:
		if out.Standings, err = p.standings.Recompute(ctx, exec, stage.ID); err != nil {
			return nil, err
		}
	case models.StageKindPlayoff:
		if out.Advance, err = p.brackets.TryAdvance(ctx, exec, stage.ID); err != nil {
			return nil, err
		}
	default:
		p.logger.Warn("unknown stage kind, nothing to recompute", slog.Int("stage_id", stage.ID), slog.String("kind", string(stage.Kind)))
	}
	return out, nil
}

func (o *progressionOutcome) events(match *models.Match, clock Clock) []models.Event {
	if o == nil {
		return nil
	}
	var events []models.Event
	if o.Standings != nil {
		events = append(events, newEvent(models.EventStandingsUpdated, o.Stage, clock.Now(), o.Standings))
	}
	return append(events, advanceEvents(o.Stage, o.Advance, match, clock)...)
}

type confirmation struct {
	match       *models.Match
	report      *models.MatchReport
	confirmerID *int
	mode        string
	now         time.Time
}

// confirm copies the report result onto the match, obsoletes every other
// pending or confirmed report, marks this one confirmed and then applies the
// result to the stage.
func (p *progression) confirm(ctx context.Context, exec repositories.SQLExecutor, c confirmation) (*progressionOutcome, error) {
	m, r := c.match, c.report

	m.ScoreHome = intPtr(r.ScoreHome)
	m.ScoreAway = intPtr(r.ScoreAway)
	m.OT = r.OT
	m.SO = r.SO
	m.Status = models.MatchStatusConfirmed
	confirmedAt := c.now
	m.ConfirmedAt = &confirmedAt
	if c.mode == ConfirmModeAuto {
		m.Meta.AutoConfirmed = true
		m.Meta.AutoConfirmedAt = &confirmedAt
	}
	if err := p.matchRepo.Update(ctx, exec, m); err != nil {
		return nil, handleRepositoryError(err, "confirm match %d", m.ID)
	}

	// у матча остаётся ровно один подтверждённый отчёт
	if _, err := p.reportRepo.MarkObsolete(ctx, exec, m.ID, r.ID, models.ReportStatusPending, models.ReportStatusConfirmed); err != nil {
		return nil, fmt.Errorf("obsolete sibling reports of match %d: %w", m.ID, err)
	}
	r.Status = models.ReportStatusConfirmed
	if c.confirmerID != nil {
		r.ConfirmerParticipantID = c.confirmerID
	}
	if r.ConfirmerParticipantID == nil {
		if opponent, ok := m.Opponent(r.ReporterParticipantID); ok {
			r.ConfirmerParticipantID = intPtr(opponent)
		}
	}
	if err := p.reportRepo.Update(ctx, exec, r); err != nil {
		return nil, handleRepositoryError(err, "confirm report %d", r.ID)
	}

	if m.HasScore() && *m.ScoreHome == *m.ScoreAway {
		p.logger.Warn("confirmed result is a draw", slog.Int("match_id", m.ID), slog.String("mode", c.mode))
	}
	return p.apply(ctx, exec, m)
}
