package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/repositories"
	"github.com/Dosada05/league-engine/standings"
	"golang.org/x/sync/errgroup"
)

type StandingsService interface {
	// Recompute rebuilds the table of a group stage inside the caller's transaction
	// and returns the ranked rows.
	Recompute(ctx context.Context, exec repositories.SQLExecutor, stageID int) ([]*models.Standing, error)
	// RecomputeStage runs Recompute in its own transaction.
	RecomputeStage(ctx context.Context, stageID int) ([]*models.Standing, error)
	GetTable(ctx context.Context, stageID int) ([]*models.Standing, error)
}

type standingsService struct {
	tx              Transactor
	stageRepo       repositories.StageRepository
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	standingRepo    repositories.StandingRepository
	policy          standings.PointsPolicy
	clock           Clock
	notifier        Notifier
	metrics         Metrics
	logger          *slog.Logger
}

func NewStandingsService(
	tx Transactor,
	stageRepo repositories.StageRepository,
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	standingRepo repositories.StandingRepository,
	policy standings.PointsPolicy,
	clock Clock,
	notifier Notifier,
	metrics Metrics,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		tx:              tx,
		stageRepo:       stageRepo,
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		standingRepo:    standingRepo,
		policy:          policy,
		clock:           clock,
		notifier:        notifier,
		metrics:         metrics,
		logger:          logger.With(slog.String("service", "standings")),
	}
}

func (s *standingsService) Recompute(ctx context.Context, exec repositories.SQLExecutor, stageID int) ([]*models.Standing, error) {
	start := time.Now()
	stage, err := s.stageRepo.GetByID(ctx, exec, stageID)
	if err != nil {
		return nil, handleRepositoryError(err, "load stage %d", stageID)
	}
	if !stage.IsGroup() {
		return nil, fmt.Errorf("%w: stage %d is %s", ErrStageNotGroup, stageID, stage.Kind)
	}

	participants, err := s.participantRepo.ListByTournament(ctx, exec, stage.TournamentID)
	if err != nil {
		return nil, handleRepositoryError(err, "list participants of tournament %d", stage.TournamentID)
	}
	matches, err := s.matchRepo.ListByStage(ctx, exec, stageID)
	if err != nil {
		return nil, handleRepositoryError(err, "list matches of stage %d", stageID)
	}

	rows, summary := standings.Calculate(participants, matches, s.policy)
	if len(summary.SkippedDraws) > 0 {
		s.logger.Warn("confirmed draws skipped in standings",
			slog.Int("stage_id", stageID), slog.Any("match_ids", summary.SkippedDraws))
	}

	table := make([]*models.Standing, len(rows))
	for i, r := range rows {
		table[i] = &models.Standing{
			StageID:       stageID,
			ParticipantID: r.ParticipantID,
			GamesPlayed:   r.GamesPlayed,
			Wins:          r.Wins,
			OTWins:        r.OTWins,
			SOWins:        r.SOWins,
			Losses:        r.Losses,
			OTLosses:      r.OTLosses,
			SOLosses:      r.SOLosses,
			GoalsFor:      r.GoalsFor,
			GoalsAgainst:  r.GoalsAgainst,
			GoalDiff:      r.GoalDiff,
			Points:        r.Points,
			TechLosses:    r.TechLosses,
		}
	}
	if err := s.standingRepo.ReplaceForStage(ctx, exec, stageID, table); err != nil {
		return nil, handleRepositoryError(err, "store standings of stage %d", stageID)
	}

	s.metrics.StandingsRecomputed(time.Since(start))
	s.logger.Debug("standings recomputed",
		slog.Int("stage_id", stageID), slog.Int("rows", len(table)), slog.Int("matches_counted", summary.Counted))
	return table, nil
}

func (s *standingsService) RecomputeStage(ctx context.Context, stageID int) ([]*models.Standing, error) {
	var (
		table []*models.Standing
		stage *models.Stage
	)
	err := s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		if stage, err = s.stageRepo.GetByIDForUpdate(ctx, exec, stageID); err != nil {
			return handleRepositoryError(err, "lock stage %d", stageID)
		}
		table, err = s.Recompute(ctx, exec, stageID)
		return err
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, s.logger, s.notifier, []models.Event{
		newEvent(models.EventStandingsUpdated, stage, s.clock.Now(), table),
	})
	return table, nil
}

func (s *standingsService) GetTable(ctx context.Context, stageID int) ([]*models.Standing, error) {
	stage, err := s.stageRepo.GetByID(ctx, nil, stageID)
	if err != nil {
		return nil, handleRepositoryError(err, "load stage %d", stageID)
	}
	if !stage.IsGroup() {
		return nil, fmt.Errorf("%w: stage %d", ErrStageNotGroup, stageID)
	}

	var (
		table        []*models.Standing
		participants []*models.Participant
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		table, err = s.standingRepo.ListByStage(gctx, nil, stageID)
		return err
	})
	g.Go(func() error {
		var err error
		participants, err = s.participantRepo.ListByTournament(gctx, nil, stage.TournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, handleRepositoryError(err, "load table of stage %d", stageID)
	}

	byID := make(map[int]*models.Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}
	for _, row := range table {
		row.Participant = byID[row.ParticipantID]
	}
	return table, nil
}
