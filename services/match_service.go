package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/repositories"
)

const (
	MaxScore                = 99
	DefaultMaxCommentLength = 2000
	DefaultMaxAttachments   = 5
	DefaultAutoConfirmAfter = 24 * time.Hour
	DefaultSweepBatchSize   = 200
)

// ReportConfig - параметры процесса подтверждения результатов.
type ReportConfig struct {
	AutoConfirmAfter time.Duration
	SweepBatchSize   int
	MaxCommentLength int
	MaxAttachments   int
}

func (c ReportConfig) withDefaults() ReportConfig {
	if c.AutoConfirmAfter <= 0 {
		c.AutoConfirmAfter = DefaultAutoConfirmAfter
	}
	if c.SweepBatchSize <= 0 {
		c.SweepBatchSize = DefaultSweepBatchSize
	}
	if c.MaxCommentLength <= 0 {
		c.MaxCommentLength = DefaultMaxCommentLength
	}
	if c.MaxAttachments <= 0 {
		c.MaxAttachments = DefaultMaxAttachments
	}
	return c
}

type SubmitReportInput struct {
	ScoreHome   *int     `json:"score_home"`
	ScoreAway   *int     `json:"score_away"`
	OT          bool     `json:"ot"`
	SO          bool     `json:"so"`
	Comment     *string  `json:"comment,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

type MatchDetails struct {
	Match   *models.Match         `json:"match"`
	Reports []*models.MatchReport `json:"reports"`
}

type AutoConfirmSummary struct {
	Due       int  `json:"due"`
	Confirmed int  `json:"confirmed"`
	Skipped   int  `json:"skipped"`
	Failed    int  `json:"failed"`
	Busy      bool `json:"busy,omitempty"`
}

type MatchService interface {
	GetMatch(ctx context.Context, matchID int) (*MatchDetails, error)
	SubmitReport(ctx context.Context, userID, matchID int, input SubmitReportInput) (*models.MatchReport, error)
	ConfirmReport(ctx context.Context, userID, reportID int) (*models.Match, error)
	DisputeReport(ctx context.Context, userID, reportID int) (*models.MatchReport, error)
	// AutoConfirmDue confirms pending reports older than the grace period.
	// Concurrent calls in the same process return immediately with Busy set.
	AutoConfirmDue(ctx context.Context) (*AutoConfirmSummary, error)
}

type matchService struct {
	tx              Transactor
	matchRepo       repositories.MatchRepository
	reportRepo      repositories.MatchReportRepository
	participantRepo repositories.ParticipantRepository
	stageRepo       repositories.StageRepository
	progression     *progression
	cfg             ReportConfig
	clock           Clock
	notifier        Notifier
	metrics         Metrics
	logger          *slog.Logger
	sweepMu         sync.Mutex
}

func NewMatchService(
	tx Transactor,
	matchRepo repositories.MatchRepository,
	reportRepo repositories.MatchReportRepository,
	participantRepo repositories.ParticipantRepository,
	stageRepo repositories.StageRepository,
	standingsService StandingsService,
	bracketService BracketService,
	cfg ReportConfig,
	clock Clock,
	notifier Notifier,
	metrics Metrics,
	logger *slog.Logger,
) MatchService {
	logger = logger.With(slog.String("service", "match"))
	return &matchService{
		tx:              tx,
		matchRepo:       matchRepo,
		reportRepo:      reportRepo,
		participantRepo: participantRepo,
		stageRepo:       stageRepo,
		progression: &progression{
			stageRepo:  stageRepo,
			matchRepo:  matchRepo,
			reportRepo: reportRepo,
			standings:  standingsService,
			brackets:   bracketService,
			clock:      clock,
			logger:     logger,
		},
		cfg:      cfg.withDefaults(),
		clock:    clock,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

func validateScore(v *int, field string) error {
	if v == nil {
		return fmt.Errorf("%w: %s is missing", ErrScoreRequired, field)
	}
	if *v < 0 || *v > MaxScore {
		return fmt.Errorf("%w: %s=%d", ErrScoreOutOfRange, field, *v)
	}
	return nil
}

func (s *matchService) validateReport(matchID int, input *SubmitReportInput) error {
	if err := validateScore(input.ScoreHome, "score_home"); err != nil {
		return err
	}
	if err := validateScore(input.ScoreAway, "score_away"); err != nil {
		return err
	}
	if *input.ScoreHome == *input.ScoreAway {
		return ErrDrawNotAllowed
	}
	if input.OT && input.SO {
		return ErrOTAndSO
	}
	if input.Comment != nil {
		trimmed := strings.TrimSpace(*input.Comment)
		if utf8.RuneCountInString(trimmed) > s.cfg.MaxCommentLength {
			return fmt.Errorf("%w: max %d characters", ErrCommentTooLong, s.cfg.MaxCommentLength)
		}
		if trimmed == "" {
			input.Comment = nil
		} else {
			input.Comment = &trimmed
		}
	}
	if len(input.Attachments) > s.cfg.MaxAttachments {
		return fmt.Errorf("%w: max %d", ErrTooManyAttachments, s.cfg.MaxAttachments)
	}
	prefix := AttachmentPrefix(matchID)
	for _, key := range input.Attachments {
		if !strings.HasPrefix(key, prefix) {
			return fmt.Errorf("%w: %q", ErrInvalidAttachment, key)
		}
	}
	return nil
}

// AttachmentPrefix is the object-key prefix of screenshots attached to a match.
func AttachmentPrefix(matchID int) string {
	return fmt.Sprintf("reports/%d/", matchID)
}

func (s *matchService) GetMatch(ctx context.Context, matchID int) (*MatchDetails, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, handleRepositoryError(err, "load match %d", matchID)
	}
	reports, err := s.reportRepo.ListByMatch(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}
	return &MatchDetails{Match: match, Reports: reports}, nil
}

// participantOf resolves which side of the match userID plays for.
func (s *matchService) participantOf(ctx context.Context, exec repositories.SQLExecutor, userID int, match *models.Match) (*models.Participant, error) {
	p, err := s.participantRepo.FindByUserAmong(ctx, exec, userID, []int{match.HomeParticipantID, match.AwayParticipantID})
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, fmt.Errorf("%w: user %d, match %d", ErrNotMatchParticipant, userID, match.ID)
		}
		return nil, err
	}
	return p, nil
}

func (s *matchService) SubmitReport(ctx context.Context, userID, matchID int, input SubmitReportInput) (*models.MatchReport, error) {
	if err := s.validateReport(matchID, &input); err != nil {
		return nil, err
	}

	var (
		report *models.MatchReport
		stage  *models.Stage
	)
	err := s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetByIDForUpdate(ctx, exec, matchID)
		if err != nil {
			return handleRepositoryError(err, "load match %d", matchID)
		}
		reporter, err := s.participantOf(ctx, exec, userID, match)
		if err != nil {
			return err
		}
		if match.Status.IsClosed() {
			return fmt.Errorf("%w: match %d is %s", ErrMatchClosed, matchID, match.Status)
		}
		if stage, err = s.stageRepo.GetByID(ctx, exec, match.StageID); err != nil {
			return handleRepositoryError(err, "load stage of match %d", matchID)
		}

		// новый отчёт вытесняет предыдущий ожидающий
		if _, err := s.reportRepo.MarkObsolete(ctx, exec, matchID, 0, models.ReportStatusPending); err != nil {
			return err
		}
		report = &models.MatchReport{
			MatchID:               matchID,
			ReporterParticipantID: reporter.ID,
			ScoreHome:             *input.ScoreHome,
			ScoreAway:             *input.ScoreAway,
			OT:                    input.OT,
			SO:                    input.SO,
			Comment:               input.Comment,
			Attachments:           input.Attachments,
			Status:                models.ReportStatusPending,
		}
		if report.Attachments == nil {
			report.Attachments = []string{}
		}
		if err := s.reportRepo.Create(ctx, exec, report); err != nil {
			return handleRepositoryError(err, "create report for match %d", matchID)
		}

		match.Status = models.MatchStatusReported
		return s.matchRepo.Update(ctx, exec, match)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ReportSubmitted()
	s.logger.Info("match report submitted",
		slog.Int("match_id", matchID), slog.Int("report_id", report.ID), slog.Int("reporter_participant_id", report.ReporterParticipantID))
	publish(ctx, s.logger, s.notifier, []models.Event{
		withReport(withMatch(newEvent(models.EventReportSubmitted, stage, s.clock.Now(), report), matchID), report.ID),
	})
	return report, nil
}

// lockReport locks the match of a report and then the report itself.
// SubmitReport takes the same order.
func (s *matchService) lockReport(ctx context.Context, exec repositories.SQLExecutor, reportID int) (*models.MatchReport, *models.Match, error) {
	ref, err := s.reportRepo.GetByID(ctx, exec, reportID)
	if err != nil {
		return nil, nil, handleRepositoryError(err, "load report %d", reportID)
	}
	match, err := s.matchRepo.GetByIDForUpdate(ctx, exec, ref.MatchID)
	if err != nil {
		return nil, nil, handleRepositoryError(err, "lock match %d", ref.MatchID)
	}
	report, err := s.reportRepo.GetByIDForUpdate(ctx, exec, reportID)
	if err != nil {
		return nil, nil, handleRepositoryError(err, "lock report %d", reportID)
	}
	return report, match, nil
}

// loadOpposingSide locks match and report and checks that userID plays for the
// side opposite to the reporter.
func (s *matchService) loadOpposingSide(ctx context.Context, exec repositories.SQLExecutor, userID, reportID int) (*models.MatchReport, *models.Match, *models.Participant, error) {
	report, match, err := s.lockReport(ctx, exec, reportID)
	if err != nil {
		return nil, nil, nil, err
	}
	actor, err := s.participantOf(ctx, exec, userID, match)
	if err != nil {
		return nil, nil, nil, err
	}
	if actor.ID == report.ReporterParticipantID {
		return nil, nil, nil, fmt.Errorf("%w: report %d", ErrSelfConfirmation, reportID)
	}
	if match.Status.IsClosed() {
		return nil, nil, nil, fmt.Errorf("%w: match %d is %s", ErrMatchClosed, match.ID, match.Status)
	}
	if match.Status != models.MatchStatusReported {
		return nil, nil, nil, fmt.Errorf("%w: match %d is %s", ErrMatchNotReported, match.ID, match.Status)
	}
	if report.Status != models.ReportStatusPending {
		return nil, nil, nil, fmt.Errorf("%w: report %d is %s", ErrReportNotPending, reportID, report.Status)
	}
	return report, match, actor, nil
}

func (s *matchService) ConfirmReport(ctx context.Context, userID, reportID int) (*models.Match, error) {
	var (
		match   *models.Match
		outcome *progressionOutcome
	)
	err := s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		report, m, confirmer, err := s.loadOpposingSide(ctx, exec, userID, reportID)
		if err != nil {
			return err
		}
		match = m
		outcome, err = s.progression.confirm(ctx, exec, confirmation{
			match:       m,
			report:      report,
			confirmerID: intPtr(confirmer.ID),
			mode:        ConfirmModeManual,
			now:         s.clock.Now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ReportConfirmed(ConfirmModeManual)
	s.logger.Info("match report confirmed", slog.Int("match_id", match.ID), slog.Int("report_id", reportID))
	events := []models.Event{
		withReport(withMatch(newEvent(models.EventReportConfirmed, outcome.Stage, s.clock.Now(), match), match.ID), reportID),
	}
	publish(ctx, s.logger, s.notifier, append(events, outcome.events(match, s.clock)...))
	return match, nil
}

func (s *matchService) DisputeReport(ctx context.Context, userID, reportID int) (*models.MatchReport, error) {
	var (
		report *models.MatchReport
		stage  *models.Stage
	)
	err := s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		r, match, _, err := s.loadOpposingSide(ctx, exec, userID, reportID)
		if err != nil {
			return err
		}
		report = r
		if stage, err = s.stageRepo.GetByID(ctx, exec, match.StageID); err != nil {
			return handleRepositoryError(err, "load stage of match %d", match.ID)
		}
		report.Status = models.ReportStatusRejected
		if err := s.reportRepo.Update(ctx, exec, report); err != nil {
			return err
		}
		match.Status = models.MatchStatusDisputed
		return s.matchRepo.Update(ctx, exec, match)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ReportDisputed()
	s.logger.Info("match report disputed", slog.Int("match_id", report.MatchID), slog.Int("report_id", reportID))
	publish(ctx, s.logger, s.notifier, []models.Event{
		withReport(withMatch(newEvent(models.EventReportDisputed, stage, s.clock.Now(), report), report.MatchID), reportID),
	})
	return report, nil
}

func (s *matchService) AutoConfirmDue(ctx context.Context) (*AutoConfirmSummary, error) {
	if !s.sweepMu.TryLock() {
		s.logger.Info("auto-confirm sweep already running, skipping")
		return &AutoConfirmSummary{Busy: true}, nil
	}
	defer s.sweepMu.Unlock()

	start := time.Now()
	cutoff := s.clock.Now().Add(-s.cfg.AutoConfirmAfter)
	due, err := s.reportRepo.ListDueForAutoConfirm(ctx, nil, cutoff, s.cfg.SweepBatchSize)
	if err != nil {
		return nil, err
	}

	summary := &AutoConfirmSummary{Due: len(due)}
	for _, candidate := range due {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		confirmed, err := s.autoConfirmOne(ctx, candidate.ID, cutoff)
		switch {
		case err != nil:
			summary.Failed++
			s.logger.Error("auto-confirm failed", slog.Int("report_id", candidate.ID), slog.Any("error", err))
		case confirmed:
			summary.Confirmed++
		default:
			summary.Skipped++
		}
	}

	s.metrics.AutoConfirmSweep(time.Since(start), summary.Confirmed, summary.Failed)
	if summary.Due > 0 {
		s.logger.Info("auto-confirm sweep finished",
			slog.Int("due", summary.Due), slog.Int("confirmed", summary.Confirmed),
			slog.Int("skipped", summary.Skipped), slog.Int("failed", summary.Failed))
	}
	return summary, nil
}

// autoConfirmOne confirms a single report in its own transaction after
// re-reading match and report under row locks.
func (s *matchService) autoConfirmOne(ctx context.Context, reportID int, cutoff time.Time) (bool, error) {
	var (
		match   *models.Match
		outcome *progressionOutcome
		skipped bool
	)
	err := s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		report, m, err := s.lockReport(ctx, exec, reportID)
		if err != nil {
			return err
		}
		if report.Status != models.ReportStatusPending || m.Status != models.MatchStatusReported || report.CreatedAt.After(cutoff) {
			skipped = true
			return nil
		}
		match = m
		outcome, err = s.progression.confirm(ctx, exec, confirmation{
			match:  m,
			report: report,
			mode:   ConfirmModeAuto,
			now:    s.clock.Now(),
		})
		return err
	})
	if err != nil {
		return false, err
	}
	if skipped {
		s.logger.Debug("auto-confirm candidate changed, skipping", slog.Int("report_id", reportID))
		return false, nil
	}

	s.metrics.ReportConfirmed(ConfirmModeAuto)
	s.logger.Info("match auto-confirmed", slog.Int("match_id", match.ID), slog.Int("report_id", reportID))
	events := []models.Event{
		withReport(withMatch(newEvent(models.EventMatchAutoConfirmed, outcome.Stage, s.clock.Now(), match), match.ID), reportID),
	}
	publish(ctx, s.logger, s.notifier, append(events, outcome.events(match, s.clock)...))
	return true, nil
}
