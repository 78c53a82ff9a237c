package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/rating"
	"github.com/Dosada05/league-engine/repositories"
	"github.com/Dosada05/league-engine/standings"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMyMatchesPerPage = 20
	MaxMyMatchesPerPage     = 100

	groupTableLoaders = 4
)

// MyMatchesFilter - фильтры списка матчей игрока.
// Awaiting and NotPlayed take precedence over Status.
type MyMatchesFilter struct {
	TournamentID int
	Status       models.MatchStatus
	// Awaiting keeps reported games whose pending report came from the opponent.
	Awaiting bool
	// NotPlayed keeps scheduled games.
	NotPlayed bool
	Page      int
	PerPage   int
}

type MyMatch struct {
	*models.Match
	TournamentID    int                 `json:"tournament_id"`
	StageName       string              `json:"stage_name"`
	MyParticipantID int                 `json:"my_participant_id"`
	OpponentID      int                 `json:"opponent_participant_id"`
	LatestReport    *models.MatchReport `json:"latest_report,omitempty"`
	AwaitingMe      bool                `json:"awaiting_me"`
}

type MyMatchesPage struct {
	Matches        []*MyMatch `json:"matches"`
	ParticipantIDs []int      `json:"participant_ids"`
	// OverallTotal counts every game of the user, Total only the filtered ones.
	OverallTotal int `json:"overall_total"`
	Total        int `json:"total"`
	Page         int `json:"page"`
	PerPage      int `json:"per_page"`
}

// StatsService serves read models across tournaments.
type StatsService interface {
	PlayerRating(ctx context.Context) ([]*rating.PlayerStats, error)
	PlayerStats(ctx context.Context, userID int) (*rating.PlayerStats, error)
	HeadToHead(ctx context.Context, stageID int) (*standings.HeadToHead, error)
	MyMatches(ctx context.Context, userID int, filter MyMatchesFilter) (*MyMatchesPage, error)
}

type statsService struct {
	tournamentRepo  repositories.TournamentRepository
	stageRepo       repositories.StageRepository
	matchRepo       repositories.MatchRepository
	reportRepo      repositories.MatchReportRepository
	participantRepo repositories.ParticipantRepository
	standingRepo    repositories.StandingRepository
	clock           Clock
	logger          *slog.Logger
}

func NewStatsService(
	tournamentRepo repositories.TournamentRepository,
	stageRepo repositories.StageRepository,
	matchRepo repositories.MatchRepository,
	reportRepo repositories.MatchReportRepository,
	participantRepo repositories.ParticipantRepository,
	standingRepo repositories.StandingRepository,
	clock Clock,
	logger *slog.Logger,
) StatsService {
	return &statsService{
		tournamentRepo:  tournamentRepo,
		stageRepo:       stageRepo,
		matchRepo:       matchRepo,
		reportRepo:      reportRepo,
		participantRepo: participantRepo,
		standingRepo:    standingRepo,
		clock:           clock,
		logger:          logger.With(slog.String("service", "stats")),
	}
}

func (s *statsService) PlayerRating(ctx context.Context) ([]*rating.PlayerStats, error) {
	var in rating.Input
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in.Participants, err = s.participantRepo.ListLinked(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		in.Stages, err = s.stageRepo.ListAll(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		in.Games, err = s.matchRepo.ListConfirmed(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		in.Tournaments, err = s.tournamentRepo.ListDecided(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load rating input: %w", err)
	}

	tables, err := s.groupTables(ctx, in.Stages)
	if err != nil {
		return nil, err
	}
	in.GroupTables = tables
	in.Now = s.clock.Now()

	stats := rating.Build(in)
	s.logger.Debug("player rating built", slog.Int("players", len(stats)), slog.Int("games", len(in.Games)))
	return stats, nil
}

func (s *statsService) groupTables(ctx context.Context, stages []*models.Stage) (map[int][]*models.Standing, error) {
	tables := make(map[int][]*models.Standing)
	results := make([][]*models.Standing, len(stages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(groupTableLoaders)
	for i, st := range stages {
		if !st.IsGroup() {
			continue
		}
		g.Go(func() error {
			rows, err := s.standingRepo.ListByStage(gctx, nil, st.ID)
			if err != nil {
				return fmt.Errorf("load table of stage %d: %w", st.ID, err)
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, st := range stages {
		if st.IsGroup() && len(results[i]) > 0 {
			tables[st.ID] = results[i]
		}
	}
	return tables, nil
}

func (s *statsService) PlayerStats(ctx context.Context, userID int) (*rating.PlayerStats, error) {
	all, err := s.PlayerRating(ctx)
	if err != nil {
		return nil, err
	}
	for _, st := range all {
		if st.UserID == userID {
			return st, nil
		}
	}
	return nil, fmt.Errorf("%w: user %d", ErrPlayerNotFound, userID)
}

func (s *statsService) HeadToHead(ctx context.Context, stageID int) (*standings.HeadToHead, error) {
	stage, err := s.stageRepo.GetByID(ctx, nil, stageID)
	if err != nil {
		return nil, handleRepositoryError(err, "load stage %d", stageID)
	}
	if !stage.IsGroup() {
		return nil, fmt.Errorf("%w: stage %d is %s", ErrStageNotGroup, stageID, stage.Kind)
	}

	var (
		table        []*models.Standing
		matches      []*models.Match
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
		matches, err = s.matchRepo.ListByStage(gctx, nil, stageID)
		return err
	})
	g.Go(func() error {
		var err error
		participants, err = s.participantRepo.ListByTournament(gctx, nil, stage.TournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, handleRepositoryError(err, "load head-to-head of stage %d", stageID)
	}

	// порядок таблицы, затем участники без строки в ней
	order := make([]int, 0, len(participants))
	seen := make(map[int]bool)
	for _, row := range table {
		order = append(order, row.ParticipantID)
		seen[row.ParticipantID] = true
	}
	for _, p := range participants {
		if p.IsActive && !seen[p.ID] {
			order = append(order, p.ID)
		}
	}

	latest := make(map[int]*models.MatchReport)
	for _, m := range matches {
		if m.HasScore() || (m.Status != models.MatchStatusReported && m.Status != models.MatchStatusDisputed) {
			continue
		}
		reports, err := s.reportRepo.ListByMatch(ctx, nil, m.ID)
		if err != nil {
			return nil, handleRepositoryError(err, "list reports of match %d", m.ID)
		}
		if len(reports) > 0 {
			latest[m.ID] = reports[0]
		}
	}
	return standings.BuildHeadToHead(order, matches, latest), nil
}

func (f *MyMatchesFilter) normalize() error {
	if f.Status != "" && !f.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMatchStatus, f.Status)
	}
	if f.Awaiting || f.NotPlayed {
		f.Status = ""
	}
	if f.TournamentID < 0 || f.Page < 0 || f.PerPage < 0 {
		return fmt.Errorf("%w: negative filter value", ErrValidationFailed)
	}
	if f.Page == 0 {
		f.Page = 1
	}
	switch {
	case f.PerPage == 0:
		f.PerPage = DefaultMyMatchesPerPage
	case f.PerPage > MaxMyMatchesPerPage:
		f.PerPage = MaxMyMatchesPerPage
	}
	return nil
}

func (s *statsService) MyMatches(ctx context.Context, userID int, filter MyMatchesFilter) (*MyMatchesPage, error) {
	if err := filter.normalize(); err != nil {
		return nil, err
	}

	participants, err := s.participantRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, handleRepositoryError(err, "list participants of user %d", userID)
	}
	page := &MyMatchesPage{Matches: []*MyMatch{}, ParticipantIDs: make([]int, 0, len(participants)), Page: filter.Page, PerPage: filter.PerPage}
	mine := make(map[int]bool, len(participants))
	for _, p := range participants {
		page.ParticipantIDs = append(page.ParticipantIDs, p.ID)
		mine[p.ID] = true
	}
	if len(participants) == 0 {
		return page, nil
	}

	matches, err := s.matchRepo.ListByParticipants(ctx, nil, page.ParticipantIDs)
	if err != nil {
		return nil, handleRepositoryError(err, "list matches of user %d", userID)
	}
	page.OverallTotal = len(matches)

	stages := make(map[int]*models.Stage)
	stageOf := func(id int) (*models.Stage, error) {
		if st, ok := stages[id]; ok {
			return st, nil
		}
		st, err := s.stageRepo.GetByID(ctx, nil, id)
		if err != nil {
			return nil, handleRepositoryError(err, "load stage %d", id)
		}
		stages[id] = st
		return st, nil
	}

	var filtered []*MyMatch
	for _, m := range matches {
		stage, err := stageOf(m.StageID)
		if err != nil {
			return nil, err
		}
		if filter.TournamentID != 0 && stage.TournamentID != filter.TournamentID {
			continue
		}
		switch {
		case filter.NotPlayed && m.Status != models.MatchStatusScheduled:
			continue
		case filter.Status != "" && m.Status != filter.Status:
			continue
		}

		item := &MyMatch{Match: m, TournamentID: stage.TournamentID, StageName: stage.Name}
		item.MyParticipantID = m.HomeParticipantID
		if !mine[m.HomeParticipantID] {
			item.MyParticipantID = m.AwayParticipantID
		}
		item.OpponentID, _ = m.Opponent(item.MyParticipantID)

		if m.Status == models.MatchStatusReported {
			pending, err := s.reportRepo.FindPrimary(ctx, nil, m.ID)
			if err != nil && !errors.Is(err, repositories.ErrReportNotFound) {
				return nil, handleRepositoryError(err, "load report of match %d", m.ID)
			}
			item.AwaitingMe = pending != nil && pending.Status == models.ReportStatusPending && !mine[pending.ReporterParticipantID]
		}
		if filter.Awaiting && !item.AwaitingMe {
			continue
		}
		filtered = append(filtered, item)
	}

	page.Total = len(filtered)
	from := (filter.Page - 1) * filter.PerPage
	if from >= len(filtered) {
		return page, nil
	}
	to := min(from+filter.PerPage, len(filtered))
	page.Matches = filtered[from:to]

	for _, item := range page.Matches {
		reports, err := s.reportRepo.ListByMatch(ctx, nil, item.ID)
		if err != nil {
			return nil, handleRepositoryError(err, "list reports of match %d", item.ID)
		}
		if len(reports) > 0 {
			item.LatestReport = reports[0]
		}
	}
	return page, nil
}
