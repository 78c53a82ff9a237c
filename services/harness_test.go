package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/standings"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.Event
}

func (n *recordingNotifier) Notify(_ context.Context, ev models.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) types() []models.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]models.EventType, len(n.events))
	for i, ev := range n.events {
		out[i] = ev.Type
	}
	return out
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = nil
}

type engine struct {
	store    *memStore
	clock    *fakeClock
	events   *recordingNotifier
	cfg      ReportConfig
	matches  MatchService
	admin    AdminMatchService
	tourneys TournamentService
	table    StandingsService
	bracket  BracketService
	stats    StatsService

	tournamentID int
	// participant id -> user id
	users map[int]int
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newEngine wires all services on top of an in-memory store with n active participants.
func newEngine(t *testing.T, n int) *engine {
	t.Helper()
	clock := newFakeClock()
	store := newMemStore(clock)
	tx := &memTransactor{store: store}
	events := &recordingNotifier{}
	logger := testLogger()

	tournaments := memTournamentRepo{store}
	stages := memStageRepo{store}
	participants := memParticipantRepo{store}
	matchRepo := memMatchRepo{store}
	reports := memReportRepo{store}
	standingRepo := memStandingRepo{store}

	table := NewStandingsService(tx, stages, matchRepo, participants, standingRepo, standings.DefaultPointsPolicy(), clock, events, NoopMetrics{}, logger)
	bracket := NewBracketService(tx, tournaments, stages, matchRepo, reports, participants, table, clock, events, NoopMetrics{}, logger)
	cfg := ReportConfig{}.withDefaults()

	e := &engine{
		store:    store,
		clock:    clock,
		events:   events,
		cfg:      cfg,
		matches:  NewMatchService(tx, matchRepo, reports, participants, stages, table, bracket, cfg, clock, events, NoopMetrics{}, logger),
		admin:    NewAdminMatchService(tx, matchRepo, reports, stages, table, bracket, clock, events, NoopMetrics{}, logger),
		tourneys: NewTournamentService(tx, tournaments, stages, matchRepo, participants, standingRepo, table, logger),
		table:    table,
		bracket:  bracket,
		stats:    NewStatsService(tournaments, stages, matchRepo, reports, participants, standingRepo, clock, logger),
		users:    make(map[int]int),
	}

	tournament := &models.Tournament{Name: "Spring Cup"}
	require.NoError(t, tournaments.Create(context.Background(), nil, tournament))
	e.tournamentID = tournament.ID

	store.mu.Lock()
	for i := 0; i < n; i++ {
		id := store.nextID()
		userID := 1000 + id
		store.participants[id] = &models.Participant{
			ID:           id,
			TournamentID: tournament.ID,
			UserID:       &userID,
			DisplayName:  "P" + string(rune('A'+i)),
			IsActive:     true,
			CreatedAt:    clock.Now(),
		}
		e.users[id] = userID
	}
	store.mu.Unlock()
	return e
}

func (e *engine) participantIDs() []int {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	var ids []int
	for id, p := range e.store.participants {
		if p.TournamentID == e.tournamentID {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

func (e *engine) groupStage(t *testing.T, gamesPerPair int) *models.Stage {
	t.Helper()
	stage, err := e.tourneys.CreateStage(context.Background(), e.tournamentID, CreateStageInput{
		Name: "Group A", Kind: models.StageKindGroup, GamesPerPair: gamesPerPair,
	})
	require.NoError(t, err)
	_, err = e.tourneys.GenerateRoundRobin(context.Background(), stage.ID)
	require.NoError(t, err)
	return stage
}

func (e *engine) match(t *testing.T, id int) *models.Match {
	t.Helper()
	m, err := memMatchRepo{e.store}.GetByID(context.Background(), nil, id)
	require.NoError(t, err)
	return m
}

func (e *engine) report(t *testing.T, id int) *models.MatchReport {
	t.Helper()
	r, err := memReportRepo{e.store}.GetByID(context.Background(), nil, id)
	require.NoError(t, err)
	return r
}

func (e *engine) stageMatches(t *testing.T, stageID int) []*models.Match {
	t.Helper()
	ms, err := memMatchRepo{e.store}.ListByStage(context.Background(), nil, stageID)
	require.NoError(t, err)
	return ms
}

func score(home, away int) SubmitReportInput {
	return SubmitReportInput{ScoreHome: intPtr(home), ScoreAway: intPtr(away)}
}

// play submits the given score as the home side and confirms it as the away side.
func (e *engine) play(t *testing.T, m *models.Match, home, away int) *models.Match {
	t.Helper()
	ctx := context.Background()
	rep, err := e.matches.SubmitReport(ctx, e.users[m.HomeParticipantID], m.ID, score(home, away))
	require.NoError(t, err)
	confirmed, err := e.matches.ConfirmReport(ctx, e.users[m.AwayParticipantID], rep.ID)
	require.NoError(t, err)
	return confirmed
}

// winFor plays m so that winner takes it 3:1.
func (e *engine) winFor(t *testing.T, m *models.Match, winner int) *models.Match {
	t.Helper()
	if m.HomeParticipantID == winner {
		return e.play(t, m, 3, 1)
	}
	return e.play(t, m, 1, 3)
}
