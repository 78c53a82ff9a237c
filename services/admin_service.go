package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/repositories"
)

// AdminUpdateMatchInput - прямое редактирование матча администратором.
// Nil fields are left unchanged.
type AdminUpdateMatchInput struct {
	Status    *models.MatchStatus `json:"status,omitempty"`
	ScoreHome *int                `json:"score_home,omitempty"`
	ScoreAway *int                `json:"score_away,omitempty"`
	OT        *bool               `json:"ot,omitempty"`
	SO        *bool               `json:"so,omitempty"`
}

type AdminMatchService interface {
	UpdateMatch(ctx context.Context, matchID int, input AdminUpdateMatchInput) (*models.Match, error)
	// ConfirmReport confirms a report regardless of who submitted it.
	ConfirmReport(ctx context.Context, matchID, reportID int) (*models.Match, error)
	DeleteReport(ctx context.Context, matchID, reportID int) error
}

type adminMatchService struct {
	tx          Transactor
	matchRepo   repositories.MatchRepository
	reportRepo  repositories.MatchReportRepository
	stageRepo   repositories.StageRepository
	progression *progression
	clock       Clock
	notifier    Notifier
	metrics     Metrics
	logger      *slog.Logger
}

func NewAdminMatchService(
	tx Transactor,
	matchRepo repositories.MatchRepository,
	reportRepo repositories.MatchReportRepository,
	stageRepo repositories.StageRepository,
	standingsService StandingsService,
	bracketService BracketService,
	clock Clock,
	notifier Notifier,
	metrics Metrics,
	logger *slog.Logger,
) AdminMatchService {
	logger = logger.With(slog.String("service", "admin_match"))
	return &adminMatchService{
		tx:         tx,
		matchRepo:  matchRepo,
		reportRepo: reportRepo,
		stageRepo:  stageRepo,
		progression: &progression{
			stageRepo:  stageRepo,
			matchRepo:  matchRepo,
			reportRepo: reportRepo,
			standings:  standingsService,
			brackets:   bracketService,
			clock:      clock,
			logger:     logger,
		},
		clock:    clock,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

func validateAdminInput(input AdminUpdateMatchInput) error {
	if input.Status != nil && !input.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMatchStatus, *input.Status)
	}
	for field, v := range map[string]*int{"score_home": input.ScoreHome, "score_away": input.ScoreAway} {
		if v != nil && (*v < 0 || *v > MaxScore) {
			return fmt.Errorf("%w: %s=%d", ErrScoreOutOfRange, field, *v)
		}
	}
	if input.OT != nil && input.SO != nil && *input.OT && *input.SO {
		return ErrOTAndSO
	}
	return nil
}

func (s *adminMatchService) UpdateMatch(ctx context.Context, matchID int, input AdminUpdateMatchInput) (*models.Match, error) {
	if err := validateAdminInput(input); err != nil {
		return nil, err
	}

	var (
		match   *models.Match
		outcome *progressionOutcome
	)
	err := s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetByIDForUpdate(ctx, exec, matchID)
		if err != nil {
			return handleRepositoryError(err, "load match %d", matchID)
		}
		match = m

		if input.ScoreHome != nil {
			m.ScoreHome = input.ScoreHome
		}
		if input.ScoreAway != nil {
			m.ScoreAway = input.ScoreAway
		}
		if input.OT != nil {
			m.OT = *input.OT
			if m.OT {
				m.SO = false
			}
		}
		if input.SO != nil {
			m.SO = *input.SO
			if m.SO {
				m.OT = false
			}
		}
		if input.Status != nil {
			m.Status = *input.Status
		}
		if m.Status == models.MatchStatusConfirmed && !m.HasScore() {
			return fmt.Errorf("%w: confirmed match needs both scores", ErrScoreRequired)
		}

		if m.Status == models.MatchStatusConfirmed {
			if m.ConfirmedAt == nil {
				now := s.clock.Now()
				m.ConfirmedAt = &now
			}
			if *m.ScoreHome == *m.ScoreAway {
				s.logger.Warn("admin confirmed a draw, it will not count", slog.Int("match_id", matchID))
			}
		} else {
			m.ConfirmedAt = nil
		}
		if err := s.matchRepo.Update(ctx, exec, m); err != nil {
			return handleRepositoryError(err, "update match %d", matchID)
		}
		if err := s.syncPrimaryReport(ctx, exec, m); err != nil {
			return err
		}

		outcome, err = s.progression.apply(ctx, exec, m)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("match updated by admin", slog.Int("match_id", matchID), slog.String("status", string(match.Status)))
	events := []models.Event{
		withMatch(newEvent(models.EventMatchUpdated, outcome.Stage, s.clock.Now(), match), matchID),
	}
	publish(ctx, s.logger, s.notifier, append(events, outcome.events(match, s.clock)...))
	return match, nil
}

// syncPrimaryReport keeps the latest pending or confirmed report in line
// with the authoritative score of the match. A match that is no longer
// confirmed keeps no confirmed report.
func (s *adminMatchService) syncPrimaryReport(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	if m.Status != models.MatchStatusConfirmed {
		if _, err := s.reportRepo.MarkObsolete(ctx, exec, m.ID, 0, models.ReportStatusConfirmed); err != nil {
			return fmt.Errorf("obsolete confirmed report of match %d: %w", m.ID, err)
		}
	}

	primary, err := s.reportRepo.FindPrimary(ctx, exec, m.ID)
	if errors.Is(err, repositories.ErrReportNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if m.Status == models.MatchStatusConfirmed {
		if _, err := s.reportRepo.MarkObsolete(ctx, exec, m.ID, primary.ID, models.ReportStatusPending, models.ReportStatusConfirmed); err != nil {
			return fmt.Errorf("obsolete sibling reports of match %d: %w", m.ID, err)
		}
		primary.Status = models.ReportStatusConfirmed
	}
	if m.HasScore() {
		primary.ScoreHome = *m.ScoreHome
		primary.ScoreAway = *m.ScoreAway
	}
	primary.OT = m.OT
	primary.SO = m.SO
	if err := s.reportRepo.Update(ctx, exec, primary); err != nil {
		return handleRepositoryError(err, "sync report %d", primary.ID)
	}
	return nil
}

// lockMatchReport locks the match and then its report.
func (s *adminMatchService) lockMatchReport(ctx context.Context, exec repositories.SQLExecutor, matchID, reportID int) (*models.Match, *models.MatchReport, error) {
	m, err := s.matchRepo.GetByIDForUpdate(ctx, exec, matchID)
	if err != nil {
		return nil, nil, handleRepositoryError(err, "load match %d", matchID)
	}
	report, err := s.reportRepo.GetByIDForUpdate(ctx, exec, reportID)
	if err != nil {
		return nil, nil, handleRepositoryError(err, "load report %d", reportID)
	}
	if report.MatchID != matchID {
		return nil, nil, fmt.Errorf("%w: report %d does not belong to match %d", ErrReportNotFound, reportID, matchID)
	}
	return m, report, nil
}

func (s *adminMatchService) ConfirmReport(ctx context.Context, matchID, reportID int) (*models.Match, error) {
	var (
		match   *models.Match
		outcome *progressionOutcome
	)
	err := s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		m, report, err := s.lockMatchReport(ctx, exec, matchID, reportID)
		if err != nil {
			return err
		}
		if m.Status == models.MatchStatusCanceled {
			return fmt.Errorf("%w: match %d is canceled", ErrMatchClosed, matchID)
		}
		if report.Status == models.ReportStatusObsolete {
			return fmt.Errorf("%w: report %d is obsolete", ErrReportNotPending, reportID)
		}
		match = m
		outcome, err = s.progression.confirm(ctx, exec, confirmation{
			match:  m,
			report: report,
			mode:   ConfirmModeAdmin,
			now:    s.clock.Now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ReportConfirmed(ConfirmModeAdmin)
	s.logger.Info("match report confirmed by admin", slog.Int("match_id", matchID), slog.Int("report_id", reportID))
	events := []models.Event{
		withReport(withMatch(newEvent(models.EventReportConfirmed, outcome.Stage, s.clock.Now(), match), matchID), reportID),
	}
	publish(ctx, s.logger, s.notifier, append(events, outcome.events(match, s.clock)...))
	return match, nil
}

func (s *adminMatchService) DeleteReport(ctx context.Context, matchID, reportID int) error {
	var stage *models.Stage
	err := s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		m, _, err := s.lockMatchReport(ctx, exec, matchID, reportID)
		if err != nil {
			return err
		}
		if stage, err = s.stageRepo.GetByID(ctx, exec, m.StageID); err != nil {
			return handleRepositoryError(err, "load stage of match %d", matchID)
		}
		if err := s.reportRepo.Delete(ctx, exec, reportID); err != nil {
			return handleRepositoryError(err, "delete report %d", reportID)
		}

		// без ожидающих отчётов матч возвращается в расписание
		if m.Status == models.MatchStatusReported {
			pending, err := s.reportRepo.CountPending(ctx, exec, matchID)
			if err != nil {
				return err
			}
			if pending == 0 {
				m.Status = models.MatchStatusScheduled
				return s.matchRepo.Update(ctx, exec, m)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("match report deleted by admin", slog.Int("match_id", matchID), slog.Int("report_id", reportID))
	publish(ctx, s.logger, s.notifier, []models.Event{
		withReport(withMatch(newEvent(models.EventReportDeleted, stage, s.clock.Now(), nil), matchID), reportID),
	})
	return nil
}
