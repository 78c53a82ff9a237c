package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/league-engine/brackets"
	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/repositories"
	"golang.org/x/sync/errgroup"
)

const defaultPlayoffName = "Playoff"

type GeneratePlayoffInput struct {
	SourceStageID     int    `json:"source_stage_id"`
	Size              int    `json:"size"`
	LossesToEliminate int    `json:"losses_to_eliminate"`
	GamesPerPair      *int   `json:"games_per_pair,omitempty"`
	ThirdPlace        bool   `json:"third_place"`
	Name              string `json:"name,omitempty"`
}

type PlayoffGenerationResult struct {
	Stage   *models.Stage   `json:"stage"`
	Seeds   []brackets.Seed `json:"seeds"`
	Matches []*models.Match `json:"matches"`
}

// AdvanceResult describes what one evaluation of a playoff stage changed.
type AdvanceResult struct {
	StageID           int                `json:"stage_id"`
	TournamentID      int                `json:"tournament_id"`
	Round             int                `json:"round"`
	Series            []*brackets.Series `json:"series"`
	CanceledMatchIDs  []int              `json:"canceled_match_ids,omitempty"`
	NextRound         int                `json:"next_round,omitempty"`
	CreatedMatches    []*models.Match    `json:"created_matches,omitempty"`
	ThirdPlaceCreated bool               `json:"third_place_created"`
	Completed         bool               `json:"completed"`
	ChampionID        *int               `json:"champion_participant_id,omitempty"`
}

type RoundView struct {
	Round      int                `json:"round"`
	Series     []*brackets.Series `json:"series"`
	ThirdPlace *brackets.Series   `json:"third_place,omitempty"`
}

type BracketView struct {
	Stage        *models.Stage               `json:"stage"`
	Settings     models.PlayoffSettings      `json:"settings"`
	Rounds       []RoundView                 `json:"rounds"`
	Completed    bool                        `json:"completed"`
	ChampionID   *int                        `json:"champion_participant_id,omitempty"`
	Participants map[int]*models.Participant `json:"participants"`
}

type BracketService interface {
	// GenerateFirstRound seeds the playoff from the source group stage and
	// (re)creates round 1. Existing playoff games are discarded.
	GenerateFirstRound(ctx context.Context, tournamentID int, input GeneratePlayoffInput) (*PlayoffGenerationResult, error)
	// TryAdvance evaluates the current round inside the caller's transaction.
	TryAdvance(ctx context.Context, exec repositories.SQLExecutor, stageID int) (*AdvanceResult, error)
	AdvanceStage(ctx context.Context, stageID int) (*AdvanceResult, error)
	GetBracket(ctx context.Context, stageID int) (*BracketView, error)
}

type bracketService struct {
	tx              Transactor
	tournamentRepo  repositories.TournamentRepository
	stageRepo       repositories.StageRepository
	matchRepo       repositories.MatchRepository
	reportRepo      repositories.MatchReportRepository
	participantRepo repositories.ParticipantRepository
	standings       StandingsService
	generator       brackets.BracketGenerator
	clock           Clock
	notifier        Notifier
	metrics         Metrics
	logger          *slog.Logger
}

func NewBracketService(
	tx Transactor,
	tournamentRepo repositories.TournamentRepository,
	stageRepo repositories.StageRepository,
	matchRepo repositories.MatchRepository,
	reportRepo repositories.MatchReportRepository,
	participantRepo repositories.ParticipantRepository,
	standingsService StandingsService,
	clock Clock,
	notifier Notifier,
	metrics Metrics,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		tx:              tx,
		tournamentRepo:  tournamentRepo,
		stageRepo:       stageRepo,
		matchRepo:       matchRepo,
		reportRepo:      reportRepo,
		participantRepo: participantRepo,
		standings:       standingsService,
		generator:       brackets.NewSingleEliminationGenerator(),
		clock:           clock,
		notifier:        notifier,
		metrics:         metrics,
		logger:          logger.With(slog.String("service", "bracket")),
	}
}

func (s *bracketService) GenerateFirstRound(ctx context.Context, tournamentID int, input GeneratePlayoffInput) (*PlayoffGenerationResult, error) {
	if input.GamesPerPair != nil && (*input.GamesPerPair < brackets.MinGamesPerPair || *input.GamesPerPair > brackets.MaxGamesPerPair) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGamesPerPair, *input.GamesPerPair)
	}
	losses := brackets.ClampLossesToEliminate(input.LossesToEliminate)
	gamesPerPair := brackets.GamesPerPair(input.GamesPerPair, losses)

	result := &PlayoffGenerationResult{}
	err := s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		source, err := s.stageRepo.GetByID(ctx, exec, input.SourceStageID)
		if err != nil {
			return handleRepositoryError(err, "load source stage %d", input.SourceStageID)
		}
		if source.TournamentID != tournamentID || !source.IsGroup() {
			return fmt.Errorf("%w: stage %d", ErrSourceStageInvalid, source.ID)
		}

		// таблица пересчитывается в той же транзакции, чтобы посев был актуальным
		table, err := s.standings.Recompute(ctx, exec, source.ID)
		if err != nil {
			return err
		}
		ranked := make([]int, len(table))
		for i, row := range table {
			ranked[i] = row.ParticipantID
		}

		size, err := brackets.ClampBracketSize(input.Size, len(ranked))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNotEnoughParticipants, err)
		}
		if size != input.Size {
			s.logger.Info("bracket size adjusted",
				slog.Int("requested", input.Size), slog.Int("size", size), slog.Int("ranked", len(ranked)))
		}
		seeds, err := brackets.SeedTop(ranked, size)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNotEnoughParticipants, err)
		}

		playoff, err := s.findOrCreatePlayoff(ctx, exec, source, input.Name)
		if err != nil {
			return err
		}
		if playoff, err = s.stageRepo.GetByIDForUpdate(ctx, exec, playoff.ID); err != nil {
			return handleRepositoryError(err, "lock playoff stage")
		}

		settings := models.PlayoffSettings{
			SourceStageID:     source.ID,
			Size:              size,
			LossesToEliminate: losses,
			ThirdPlace:        input.ThirdPlace,
			Seeds:             brackets.SeedMap(ranked),
		}
		if err := playoff.SetPlayoff(settings); err != nil {
			return err
		}
		playoff.GamesPerPair = gamesPerPair
		if err := s.stageRepo.UpdateSettings(ctx, exec, playoff); err != nil {
			return handleRepositoryError(err, "store playoff settings")
		}

		if err := s.matchRepo.DeleteByStage(ctx, exec, playoff.ID); err != nil {
			return err
		}
		if err := s.tournamentRepo.UpdateOverallWinner(ctx, exec, tournamentID, nil); err != nil {
			return handleRepositoryError(err, "reset tournament winner")
		}

		games, err := s.generator.GenerateBracket(ctx, brackets.GenerateBracketParams{Seeds: seeds, GamesPerPair: gamesPerPair})
		if err != nil {
			return fmt.Errorf("failed to generate first round for stage %d: %w", playoff.ID, err)
		}
		created, err := s.createGames(ctx, exec, playoff.ID, games)
		if err != nil {
			return err
		}

		result.Stage = playoff
		result.Seeds = seeds
		result.Matches = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RoundGenerated(1)
	s.logger.Info("playoff first round generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("stage_id", result.Stage.ID),
		slog.Int("size", len(result.Seeds)),
		slog.Int("games_per_pair", result.Stage.GamesPerPair),
		slog.Int("matches", len(result.Matches)))
	publish(ctx, s.logger, s.notifier, []models.Event{
		newEvent(models.EventBracketGenerated, result.Stage, s.clock.Now(), result),
	})
	return result, nil
}

func (s *bracketService) findOrCreatePlayoff(ctx context.Context, exec repositories.SQLExecutor, source *models.Stage, name string) (*models.Stage, error) {
	playoff, err := s.stageRepo.FindPlayoffByTournament(ctx, exec, source.TournamentID)
	if err == nil {
		return playoff, nil
	}
	if !errors.Is(err, repositories.ErrStageNotFound) {
		return nil, handleRepositoryError(err, "find playoff stage")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultPlayoffName
	}
	playoff = &models.Stage{
		TournamentID: source.TournamentID,
		Name:         name,
		Kind:         models.StageKindPlayoff,
		Order:        source.Order + 1,
		GamesPerPair: 1,
	}
	if err := s.stageRepo.Create(ctx, exec, playoff); err != nil {
		return nil, handleRepositoryError(err, "create playoff stage")
	}
	return playoff, nil
}

// createGames inserts bracket games; games that already exist are skipped.
func (s *bracketService) createGames(ctx context.Context, exec repositories.SQLExecutor, stageID int, games []*brackets.BracketMatch) ([]*models.Match, error) {
	created := make([]*models.Match, 0, len(games))
	for _, g := range games {
		m := g.ToMatch(stageID)
		ok, err := s.matchRepo.CreateBracketGame(ctx, exec, m)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.logger.Debug("bracket game already exists",
				slog.Int("stage_id", stageID), slog.Int("round", *m.Round), slog.Int("slot", *m.Slot), slog.Int("game", m.GameNumber))
			continue
		}
		created = append(created, m)
	}
	return created, nil
}

// playoffSettings repairs missing or out-of-range settings of a stage.
func (s *bracketService) playoffSettings(stage *models.Stage) (models.PlayoffSettings, int) {
	settings, err := stage.Playoff()
	if err != nil {
		s.logger.Warn("invalid playoff settings, using defaults", slog.Int("stage_id", stage.ID), slog.Any("error", err))
		settings = models.PlayoffSettings{}
	}
	gamesPerPair := stage.GamesPerPair
	if gamesPerPair < brackets.MinGamesPerPair || gamesPerPair > brackets.MaxGamesPerPair {
		repaired := brackets.GamesPerPair(&gamesPerPair, 0)
		if settings.LossesToEliminate >= brackets.MinLosses && settings.LossesToEliminate <= brackets.MaxLosses {
			repaired = brackets.GamesPerPair(nil, settings.LossesToEliminate)
		}
		s.logger.Debug("games per pair repaired", slog.Int("stage_id", stage.ID), slog.Int("from", gamesPerPair), slog.Int("to", repaired))
		gamesPerPair = repaired
	}
	if settings.LossesToEliminate < brackets.MinLosses || settings.LossesToEliminate > brackets.MaxLosses {
		settings.LossesToEliminate = brackets.LossesForGames(gamesPerPair)
	}
	return settings, gamesPerPair
}

func (s *bracketService) TryAdvance(ctx context.Context, exec repositories.SQLExecutor, stageID int) (*AdvanceResult, error) {
	// блокировка строки стадии сериализует продвижение сетки
	stage, err := s.stageRepo.GetByIDForUpdate(ctx, exec, stageID)
	if err != nil {
		return nil, handleRepositoryError(err, "lock stage %d", stageID)
	}
	if !stage.IsPlayoff() {
		return nil, fmt.Errorf("%w: stage %d is %s", ErrStageNotPlayoff, stageID, stage.Kind)
	}
	settings, gamesPerPair := s.playoffSettings(stage)

	matches, err := s.matchRepo.ListByStage(ctx, exec, stageID)
	if err != nil {
		return nil, err
	}
	eval := brackets.EvaluateRound(matches, gamesPerPair)
	result := &AdvanceResult{
		StageID:      stageID,
		TournamentID: stage.TournamentID,
		Round:        eval.Round,
		Series:       eval.Series,
	}
	if eval.Round == 0 {
		return result, nil
	}

	if len(eval.DeadRubbers) > 0 {
		ids := make([]int, len(eval.DeadRubbers))
		for i, m := range eval.DeadRubbers {
			ids[i] = m.ID
		}
		n, err := s.matchRepo.CancelOpen(ctx, exec, ids)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if _, err := s.reportRepo.MarkObsolete(ctx, exec, id, 0, models.ReportStatusPending); err != nil {
				return nil, err
			}
		}
		result.CanceledMatchIDs = ids
		s.metrics.DeadRubbersCanceled(int(n))
		s.logger.Info("dead rubbers canceled", slog.Int("stage_id", stageID), slog.Int("round", eval.Round), slog.Any("match_ids", ids))
	}

	if eval.Completed {
		result.Completed = true
		result.ChampionID = intPtr(eval.Champion)
		if err := s.tournamentRepo.UpdateOverallWinner(ctx, exec, stage.TournamentID, result.ChampionID); err != nil {
			return nil, handleRepositoryError(err, "store tournament winner")
		}
		return result, nil
	}
	if !eval.CanAdvance() {
		return result, nil
	}

	next := eval.Round + 1
	exists, err := s.matchRepo.ExistsRound(ctx, exec, stageID, next, false)
	if err != nil {
		return nil, err
	}
	if !exists {
		created, err := s.createGames(ctx, exec, stageID, brackets.NextRound(eval.Winners, settings.Seeds, next, gamesPerPair))
		if err != nil {
			return nil, err
		}
		result.NextRound = next
		result.CreatedMatches = append(result.CreatedMatches, created...)
		s.metrics.RoundGenerated(next)
		s.logger.Info("next playoff round generated",
			slog.Int("stage_id", stageID), slog.Int("round", next), slog.Int("matches", len(created)))
	}

	if settings.ThirdPlace && len(eval.Winners) == 2 && len(eval.Losers) >= 2 {
		exists, err := s.matchRepo.ExistsRound(ctx, exec, stageID, next, true)
		if err != nil {
			return nil, err
		}
		if !exists {
			created, err := s.createGames(ctx, exec, stageID, brackets.ThirdPlaceSeries(eval.Losers, settings.Seeds, next, gamesPerPair))
			if err != nil {
				return nil, err
			}
			result.ThirdPlaceCreated = len(created) > 0
			result.CreatedMatches = append(result.CreatedMatches, created...)
		}
	}
	return result, nil
}

func (s *bracketService) AdvanceStage(ctx context.Context, stageID int) (*AdvanceResult, error) {
	var result *AdvanceResult
	err := s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		result, err = s.TryAdvance(ctx, exec, stageID)
		return err
	})
	if err != nil {
		return nil, err
	}
	stage := &models.Stage{ID: result.StageID, TournamentID: result.TournamentID}
	publish(ctx, s.logger, s.notifier, advanceEvents(stage, result, nil, s.clock))
	return result, nil
}

func (s *bracketService) GetBracket(ctx context.Context, stageID int) (*BracketView, error) {
	stage, err := s.stageRepo.GetByID(ctx, nil, stageID)
	if err != nil {
		return nil, handleRepositoryError(err, "load stage %d", stageID)
	}
	if !stage.IsPlayoff() {
		return nil, fmt.Errorf("%w: stage %d", ErrStageNotPlayoff, stageID)
	}
	settings, gamesPerPair := s.playoffSettings(stage)

	var (
		matches      []*models.Match
		participants []*models.Participant
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByStage(gctx, nil, stageID)
		return err
	})
	g.Go(func() error {
		var err error
		participants, err = s.participantRepo.ListByTournament(gctx, nil, stage.TournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, handleRepositoryError(err, "load bracket of stage %d", stageID)
	}

	view := &BracketView{
		Stage:        stage,
		Settings:     settings,
		Rounds:       make([]RoundView, 0),
		Participants: make(map[int]*models.Participant),
	}
	inBracket := make(map[int]bool)
	current := brackets.CurrentRound(matches)
	for round := 1; round <= current; round++ {
		rv := RoundView{Round: round, Series: brackets.GroupSeries(matches, round, gamesPerPair, false, true)}
		if tp := brackets.GroupSeries(matches, round, gamesPerPair, true, true); len(tp) > 0 {
			rv.ThirdPlace = tp[0]
		}
		view.Rounds = append(view.Rounds, rv)
	}
	for _, m := range matches {
		inBracket[m.HomeParticipantID] = true
		inBracket[m.AwayParticipantID] = true
	}
	for _, p := range participants {
		if inBracket[p.ID] {
			view.Participants[p.ID] = p
		}
	}

	eval := brackets.EvaluateRound(matches, gamesPerPair)
	if eval.Completed {
		view.Completed = true
		view.ChampionID = intPtr(eval.Champion)
	}
	return view, nil
}

// advanceEvents converts an advancement result into notifications. match is the
// game whose change triggered the evaluation, nil for explicit evaluations.
func advanceEvents(stage *models.Stage, result *AdvanceResult, match *models.Match, clock Clock) []models.Event {
	if result == nil {
		return nil
	}
	now := clock.Now()
	var events []models.Event
	if match != nil {
		for _, series := range result.Series {
			if series.Decided() && match.Involves(series.Home) && match.Involves(series.Away) {
				events = append(events, withMatch(newEvent(models.EventSeriesDecided, stage, now, series), match.ID))
			}
		}
	}
	if result.NextRound > 0 || result.ThirdPlaceCreated {
		events = append(events, newEvent(models.EventRoundGenerated, stage, now, result))
	}
	if result.Completed {
		events = append(events, newEvent(models.EventPlayoffCompleted, stage, now, result))
	}
	return events
}
