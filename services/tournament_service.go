package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/league-engine/brackets"
	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/repositories"
	"golang.org/x/sync/errgroup"
)

type CreateStageInput struct {
	Name         string           `json:"name"`
	Kind         models.StageKind `json:"kind"`
	GamesPerPair int              `json:"games_per_pair"`
}

type StageOverview struct {
	Stage     *models.Stage      `json:"stage"`
	Matches   []*models.Match    `json:"matches"`
	Standings []*models.Standing `json:"standings,omitempty"`
}

type RoundRobinResult struct {
	Stage   *models.Stage   `json:"stage"`
	Created []*models.Match `json:"created"`
}

type TournamentService interface {
	GetTournament(ctx context.Context, tournamentID int) (*models.Tournament, error)
	CreateStage(ctx context.Context, tournamentID int, input CreateStageInput) (*models.Stage, error)
	// GenerateRoundRobin tops up the schedule of a group stage; repeated calls add nothing.
	GenerateRoundRobin(ctx context.Context, stageID int) (*RoundRobinResult, error)
	GetStageOverview(ctx context.Context, stageID int) (*StageOverview, error)
}

type tournamentService struct {
	tx              Transactor
	tournamentRepo  repositories.TournamentRepository
	stageRepo       repositories.StageRepository
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	standingRepo    repositories.StandingRepository
	standings       StandingsService
	generator       brackets.BracketGenerator
	logger          *slog.Logger
}

func NewTournamentService(
	tx Transactor,
	tournamentRepo repositories.TournamentRepository,
	stageRepo repositories.StageRepository,
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	standingRepo repositories.StandingRepository,
	standingsService StandingsService,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tx:              tx,
		tournamentRepo:  tournamentRepo,
		stageRepo:       stageRepo,
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		standingRepo:    standingRepo,
		standings:       standingsService,
		generator:       brackets.NewRoundRobinGenerator(),
		logger:          logger.With(slog.String("service", "tournament")),
	}
}

func (s *tournamentService) GetTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	var (
		tournament *models.Tournament
		stages     []*models.Stage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tournament, err = s.tournamentRepo.GetByID(gctx, nil, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		stages, err = s.stageRepo.ListByTournament(gctx, nil, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, handleRepositoryError(err, "load tournament %d", tournamentID)
	}
	tournament.Stages = stages
	return tournament, nil
}

func (s *tournamentService) CreateStage(ctx context.Context, tournamentID int, input CreateStageInput) (*models.Stage, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrStageNameRequired
	}
	if input.Kind != models.StageKindGroup && input.Kind != models.StageKindPlayoff {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStageKind, input.Kind)
	}
	if input.GamesPerPair == 0 {
		input.GamesPerPair = 1
	}
	if input.GamesPerPair < brackets.MinGamesPerPair || input.GamesPerPair > brackets.MaxGamesPerPair {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGamesPerPair, input.GamesPerPair)
	}

	stage := &models.Stage{
		TournamentID: tournamentID,
		Name:         name,
		Kind:         input.Kind,
		GamesPerPair: input.GamesPerPair,
	}
	err := s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.tournamentRepo.GetByID(ctx, exec, tournamentID); err != nil {
			return handleRepositoryError(err, "load tournament %d", tournamentID)
		}
		existing, err := s.stageRepo.ListByTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}
		for _, st := range existing {
			if st.Order >= stage.Order {
				stage.Order = st.Order + 1
			}
		}
		if stage.Order == 0 {
			stage.Order = 1
		}
		if err := s.stageRepo.Create(ctx, exec, stage); err != nil {
			return handleRepositoryError(err, "create stage")
		}
		// групповая стадия сразу получает нулевую таблицу
		if stage.IsGroup() {
			_, err = s.standings.Recompute(ctx, exec, stage.ID)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stage created",
		slog.Int("tournament_id", tournamentID), slog.Int("stage_id", stage.ID), slog.String("kind", string(stage.Kind)))
	return stage, nil
}

func (s *tournamentService) GenerateRoundRobin(ctx context.Context, stageID int) (*RoundRobinResult, error) {
	result := &RoundRobinResult{Created: make([]*models.Match, 0)}
	err := s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		stage, err := s.stageRepo.GetByIDForUpdate(ctx, exec, stageID)
		if err != nil {
			return handleRepositoryError(err, "lock stage %d", stageID)
		}
		if !stage.IsGroup() {
			return fmt.Errorf("%w: stage %d is %s", ErrStageNotGroup, stageID, stage.Kind)
		}
		result.Stage = stage

		participants, err := s.participantRepo.ListByTournament(ctx, exec, stage.TournamentID)
		if err != nil {
			return err
		}
		seeds := make([]brackets.Seed, 0, len(participants))
		for _, p := range participants {
			if p.IsActive {
				seeds = append(seeds, brackets.Seed{ParticipantID: p.ID, Seed: len(seeds) + 1})
			}
		}
		if len(seeds) < 2 {
			return fmt.Errorf("%w: %d active participants", ErrNotEnoughParticipants, len(seeds))
		}

		existing, err := s.matchRepo.ListByStage(ctx, exec, stageID)
		if err != nil {
			return err
		}
		games, err := s.generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
			Seeds:        seeds,
			GamesPerPair: stage.GamesPerPair,
			Existing:     existing,
		})
		if err != nil {
			return fmt.Errorf("failed to generate round robin for stage %d: %w", stageID, err)
		}
		for _, g := range games {
			m := g.ToMatch(stageID)
			if err := s.matchRepo.Create(ctx, exec, m); err != nil {
				return handleRepositoryError(err, "create round robin game")
			}
			result.Created = append(result.Created, m)
		}
		_, err = s.standings.Recompute(ctx, exec, stageID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("round robin generated", slog.Int("stage_id", stageID), slog.Int("created", len(result.Created)))
	return result, nil
}

func (s *tournamentService) GetStageOverview(ctx context.Context, stageID int) (*StageOverview, error) {
	stage, err := s.stageRepo.GetByID(ctx, nil, stageID)
	if err != nil {
		return nil, handleRepositoryError(err, "load stage %d", stageID)
	}
	overview := &StageOverview{Stage: stage}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		overview.Matches, err = s.matchRepo.ListByStage(gctx, nil, stageID)
		return err
	})
	if stage.IsGroup() {
		g.Go(func() error {
			var err error
			overview.Standings, err = s.standingRepo.ListByStage(gctx, nil, stageID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, handleRepositoryError(err, "load overview of stage %d", stageID)
	}
	return overview, nil
}
