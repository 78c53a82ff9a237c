package services

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/repositories"
)

// memStore is an in-memory stand-in for the postgres repositories.
// Reads return copies so that services only change state through Update calls.
type memStore struct {
	mu sync.Mutex

	clock *fakeClock
	seq   int

	tournaments  map[int]*models.Tournament
	stages       map[int]*models.Stage
	participants map[int]*models.Participant
	matches      map[int]*models.Match
	reports      map[int]*models.MatchReport
	standings    map[int][]*models.Standing
}

type memSnapshot struct {
	seq          int
	tournaments  map[int]*models.Tournament
	stages       map[int]*models.Stage
	participants map[int]*models.Participant
	matches      map[int]*models.Match
	reports      map[int]*models.MatchReport
	standings    map[int][]*models.Standing
}

func newMemStore(clock *fakeClock) *memStore {
	return &memStore{
		clock:        clock,
		tournaments:  make(map[int]*models.Tournament),
		stages:       make(map[int]*models.Stage),
		participants: make(map[int]*models.Participant),
		matches:      make(map[int]*models.Match),
		reports:      make(map[int]*models.MatchReport),
		standings:    make(map[int][]*models.Standing),
	}
}

func (s *memStore) nextID() int {
	s.seq++
	return s.seq
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneMatch(m *models.Match) *models.Match {
	c := *m
	c.ScoreHome = copyInt(m.ScoreHome)
	c.ScoreAway = copyInt(m.ScoreAway)
	c.Round = copyInt(m.Round)
	c.Slot = copyInt(m.Slot)
	c.ConfirmedAt = copyTime(m.ConfirmedAt)
	c.Meta.AutoConfirmedAt = copyTime(m.Meta.AutoConfirmedAt)
	return &c
}

func cloneReport(r *models.MatchReport) *models.MatchReport {
	c := *r
	c.Attachments = append([]string{}, r.Attachments...)
	c.ConfirmerParticipantID = copyInt(r.ConfirmerParticipantID)
	if r.Comment != nil {
		comment := *r.Comment
		c.Comment = &comment
	}
	return &c
}

func cloneStage(st *models.Stage) *models.Stage {
	c := *st
	c.Settings = append(json.RawMessage(nil), st.Settings...)
	return &c
}

func cloneTournament(t *models.Tournament) *models.Tournament {
	c := *t
	c.WinnerParticipantID = copyInt(t.WinnerParticipantID)
	c.Stages = nil
	return &c
}

func cloneStanding(st *models.Standing) *models.Standing {
	c := *st
	c.Participant = nil
	return &c
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		seq:          s.seq,
		tournaments:  make(map[int]*models.Tournament, len(s.tournaments)),
		stages:       make(map[int]*models.Stage, len(s.stages)),
		participants: make(map[int]*models.Participant, len(s.participants)),
		matches:      make(map[int]*models.Match, len(s.matches)),
		reports:      make(map[int]*models.MatchReport, len(s.reports)),
		standings:    make(map[int][]*models.Standing, len(s.standings)),
	}
	for id, t := range s.tournaments {
		snap.tournaments[id] = cloneTournament(t)
	}
	for id, st := range s.stages {
		snap.stages[id] = cloneStage(st)
	}
	for id, p := range s.participants {
		c := *p
		snap.participants[id] = &c
	}
	for id, m := range s.matches {
		snap.matches[id] = cloneMatch(m)
	}
	for id, r := range s.reports {
		snap.reports[id] = cloneReport(r)
	}
	for id, rows := range s.standings {
		for _, row := range rows {
			snap.standings[id] = append(snap.standings[id], cloneStanding(row))
		}
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = snap.seq
	s.tournaments = snap.tournaments
	s.stages = snap.stages
	s.participants = snap.participants
	s.matches = snap.matches
	s.reports = snap.reports
	s.standings = snap.standings
}

// memTransactor serializes transactions and rolls the store back when fn fails.
type memTransactor struct {
	mu    sync.Mutex
	store *memStore
}

func (t *memTransactor) InTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := t.store.snapshot()
	if err := fn(nil); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// --- tournaments ---

type memTournamentRepo struct{ s *memStore }

func (r memTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = r.s.nextID()
	t.CreatedAt = r.s.clock.Now()
	r.s.tournaments[t.ID] = cloneTournament(t)
	return nil
}

func (r memTournamentRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return cloneTournament(t), nil
}

func (r memTournamentRepo) UpdateOverallWinner(_ context.Context, _ repositories.SQLExecutor, id int, winner *int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.WinnerParticipantID = copyInt(winner)
	return nil
}

func (r memTournamentRepo) ListDecided(_ context.Context, _ repositories.SQLExecutor) ([]*models.Tournament, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Tournament, 0)
	for _, t := range r.s.tournaments {
		if t.WinnerParticipantID != nil {
			out = append(out, cloneTournament(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- stages ---

type memStageRepo struct{ s *memStore }

func (r memStageRepo) Create(_ context.Context, _ repositories.SQLExecutor, st *models.Stage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tournaments[st.TournamentID]; !ok {
		return repositories.ErrStageTournamentInvalid
	}
	st.ID = r.s.nextID()
	st.CreatedAt = r.s.clock.Now()
	r.s.stages[st.ID] = cloneStage(st)
	return nil
}

func (r memStageRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Stage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.stages[id]
	if !ok {
		return nil, repositories.ErrStageNotFound
	}
	return cloneStage(st), nil
}

func (r memStageRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Stage, error) {
	return r.GetByID(ctx, exec, id)
}

func (r memStageRepo) sorted(tournamentID int, kind models.StageKind) []*models.Stage {
	var out []*models.Stage
	for _, st := range r.s.stages {
		if st.TournamentID == tournamentID && (kind == "" || st.Kind == kind) {
			out = append(out, cloneStage(st))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r memStageRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]*models.Stage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.sorted(tournamentID, "")
	if out == nil {
		out = []*models.Stage{}
	}
	return out, nil
}

func (r memStageRepo) ListAll(_ context.Context, _ repositories.SQLExecutor) ([]*models.Stage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Stage, 0, len(r.s.stages))
	for _, st := range r.s.stages {
		out = append(out, cloneStage(st))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memStageRepo) FindPlayoffByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) (*models.Stage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.sorted(tournamentID, models.StageKindPlayoff)
	if len(out) == 0 {
		return nil, repositories.ErrStageNotFound
	}
	return out[0], nil
}

func (r memStageRepo) UpdateSettings(_ context.Context, _ repositories.SQLExecutor, st *models.Stage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.stages[st.ID]
	if !ok {
		return repositories.ErrStageNotFound
	}
	stored.Settings = append(json.RawMessage(nil), st.Settings...)
	stored.GamesPerPair = st.GamesPerPair
	return nil
}

// --- participants ---

type memParticipantRepo struct{ s *memStore }

func (r memParticipantRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.participants[id]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	c := *p
	return &c, nil
}

func (r memParticipantRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]*models.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Participant, 0)
	for _, p := range r.s.participants {
		if p.TournamentID == tournamentID {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memParticipantRepo) list(keep func(*models.Participant) bool) []*models.Participant {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Participant, 0)
	for _, p := range r.s.participants {
		if keep(p) {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r memParticipantRepo) ListByUser(_ context.Context, _ repositories.SQLExecutor, userID int) ([]*models.Participant, error) {
	return r.list(func(p *models.Participant) bool { return p.UserID != nil && *p.UserID == userID }), nil
}

func (r memParticipantRepo) ListLinked(_ context.Context, _ repositories.SQLExecutor) ([]*models.Participant, error) {
	return r.list(func(p *models.Participant) bool { return p.UserID != nil }), nil
}

func (r memParticipantRepo) FindByUserAmong(_ context.Context, _ repositories.SQLExecutor, userID int, ids []int) (*models.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sorted := append([]int{}, ids...)
	sort.Ints(sorted)
	for _, id := range sorted {
		p, ok := r.s.participants[id]
		if ok && p.UserID != nil && *p.UserID == userID {
			c := *p
			return &c, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

// --- matches ---

type memMatchRepo struct{ s *memStore }

func (r memMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = r.s.nextID()
	m.CreatedAt = r.s.clock.Now()
	m.UpdatedAt = m.CreatedAt
	r.s.matches[m.ID] = cloneMatch(m)
	return nil
}

func sameBracketGame(a, b *models.Match) bool {
	return a.StageID == b.StageID && a.Round != nil && b.Round != nil && *a.Round == *b.Round &&
		a.Slot != nil && b.Slot != nil && *a.Slot == *b.Slot && a.GameNumber == b.GameNumber
}

func (r memMatchRepo) CreateBracketGame(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) (bool, error) {
	r.s.mu.Lock()
	for _, existing := range r.s.matches {
		if sameBracketGame(existing, m) {
			r.s.mu.Unlock()
			return false, nil
		}
	}
	r.s.mu.Unlock()
	return true, r.Create(ctx, exec, m)
}

func (r memMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return cloneMatch(m), nil
}

func (r memMatchRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	return r.GetByID(ctx, exec, id)
}

func orderKey(v *int) int {
	if v == nil {
		return -1
	}
	return *v
}

func (r memMatchRepo) ListByStage(_ context.Context, _ repositories.SQLExecutor, stageID int) ([]*models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, m := range r.s.matches {
		if m.StageID == stageID {
			out = append(out, cloneMatch(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if orderKey(a.Round) != orderKey(b.Round) {
			return orderKey(a.Round) < orderKey(b.Round)
		}
		if orderKey(a.Slot) != orderKey(b.Slot) {
			return orderKey(a.Slot) < orderKey(b.Slot)
		}
		if a.GameNumber != b.GameNumber {
			return a.GameNumber < b.GameNumber
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (r memMatchRepo) ListConfirmed(_ context.Context, _ repositories.SQLExecutor) ([]*models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, m := range r.s.matches {
		if m.Status == models.MatchStatusConfirmed {
			out = append(out, cloneMatch(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memMatchRepo) ListByParticipants(_ context.Context, _ repositories.SQLExecutor, ids []int) ([]*models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, m := range r.s.matches {
		for _, id := range ids {
			if m.Involves(id) {
				out = append(out, cloneMatch(m))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r memMatchRepo) Update(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.matches[m.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	stored.Status = m.Status
	stored.ScoreHome = copyInt(m.ScoreHome)
	stored.ScoreAway = copyInt(m.ScoreAway)
	stored.OT = m.OT
	stored.SO = m.SO
	stored.ConfirmedAt = copyTime(m.ConfirmedAt)
	stored.Meta = m.Meta
	stored.Meta.AutoConfirmedAt = copyTime(m.Meta.AutoConfirmedAt)
	stored.UpdatedAt = r.s.clock.Now()
	m.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r memMatchRepo) CancelOpen(_ context.Context, _ repositories.SQLExecutor, ids []int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if m, ok := r.s.matches[id]; ok && m.Status.IsOpen() {
			m.Status = models.MatchStatusCanceled
			n++
		}
	}
	return n, nil
}

func (r memMatchRepo) DeleteByStage(_ context.Context, _ repositories.SQLExecutor, stageID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, m := range r.s.matches {
		if m.StageID != stageID {
			continue
		}
		delete(r.s.matches, id)
		for rid, rep := range r.s.reports {
			if rep.MatchID == id {
				delete(r.s.reports, rid)
			}
		}
	}
	return nil
}

func (r memMatchRepo) ExistsRound(_ context.Context, _ repositories.SQLExecutor, stageID, round int, thirdPlace bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.matches {
		if m.StageID == stageID && m.Round != nil && *m.Round == round && m.ThirdPlace == thirdPlace {
			return true, nil
		}
	}
	return false, nil
}

// --- reports ---

type memReportRepo struct{ s *memStore }

func (r memReportRepo) Create(_ context.Context, _ repositories.SQLExecutor, rep *models.MatchReport) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.matches[rep.MatchID]; !ok {
		return repositories.ErrReportMatchInvalid
	}
	if rep.Status == models.ReportStatusPending {
		for _, other := range r.s.reports {
			if other.MatchID == rep.MatchID && other.Status == models.ReportStatusPending {
				return repositories.ErrReportPendingConflict
			}
		}
	}
	rep.ID = r.s.nextID()
	rep.CreatedAt = r.s.clock.Now()
	rep.UpdatedAt = rep.CreatedAt
	r.s.reports[rep.ID] = cloneReport(rep)
	return nil
}

func (r memReportRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.MatchReport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rep, ok := r.s.reports[id]
	if !ok {
		return nil, repositories.ErrReportNotFound
	}
	return cloneReport(rep), nil
}

func (r memReportRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.MatchReport, error) {
	return r.GetByID(ctx, exec, id)
}

func newestFirst(out []*models.MatchReport) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
}

func (r memReportRepo) ListByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) ([]*models.MatchReport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.MatchReport, 0)
	for _, rep := range r.s.reports {
		if rep.MatchID == matchID {
			out = append(out, cloneReport(rep))
		}
	}
	newestFirst(out)
	return out, nil
}

func (r memReportRepo) Update(_ context.Context, _ repositories.SQLExecutor, rep *models.MatchReport) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.reports[rep.ID]
	if !ok {
		return repositories.ErrReportNotFound
	}
	stored.ScoreHome = rep.ScoreHome
	stored.ScoreAway = rep.ScoreAway
	stored.OT = rep.OT
	stored.SO = rep.SO
	stored.Status = rep.Status
	stored.ConfirmerParticipantID = copyInt(rep.ConfirmerParticipantID)
	stored.UpdatedAt = r.s.clock.Now()
	rep.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r memReportRepo) MarkObsolete(_ context.Context, _ repositories.SQLExecutor, matchID, exceptID int, statuses ...models.ReportStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, rep := range r.s.reports {
		if rep.MatchID != matchID || rep.ID == exceptID {
			continue
		}
		for _, st := range statuses {
			if rep.Status == st {
				rep.Status = models.ReportStatusObsolete
				n++
				break
			}
		}
	}
	return n, nil
}

func (r memReportRepo) FindPrimary(_ context.Context, _ repositories.SQLExecutor, matchID int) (*models.MatchReport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var candidates []*models.MatchReport
	for _, rep := range r.s.reports {
		if rep.MatchID == matchID && (rep.Status == models.ReportStatusPending || rep.Status == models.ReportStatusConfirmed) {
			candidates = append(candidates, cloneReport(rep))
		}
	}
	if len(candidates) == 0 {
		return nil, repositories.ErrReportNotFound
	}
	newestFirst(candidates)
	return candidates[0], nil
}

func (r memReportRepo) ListDueForAutoConfirm(_ context.Context, _ repositories.SQLExecutor, cutoff time.Time, limit int) ([]*models.MatchReport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.MatchReport, 0)
	for _, rep := range r.s.reports {
		m := r.s.matches[rep.MatchID]
		if rep.Status == models.ReportStatusPending && m != nil && m.Status == models.MatchStatusReported && !rep.CreatedAt.After(cutoff) {
			out = append(out, cloneReport(rep))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memReportRepo) CountPending(_ context.Context, _ repositories.SQLExecutor, matchID int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, rep := range r.s.reports {
		if rep.MatchID == matchID && rep.Status == models.ReportStatusPending {
			n++
		}
	}
	return n, nil
}

func (r memReportRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reports[id]; !ok {
		return repositories.ErrReportNotFound
	}
	delete(r.s.reports, id)
	return nil
}

// --- standings ---

type memStandingRepo struct{ s *memStore }

func (r memStandingRepo) ReplaceForStage(_ context.Context, _ repositories.SQLExecutor, stageID int, rows []*models.Standing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := make([]*models.Standing, len(rows))
	for i, row := range rows {
		stored[i] = cloneStanding(row)
		stored[i].UpdatedAt = r.s.clock.Now()
	}
	r.s.standings[stageID] = stored
	return nil
}

func (r memStandingRepo) ListByStage(_ context.Context, _ repositories.SQLExecutor, stageID int) ([]*models.Standing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Standing, 0, len(r.s.standings[stageID]))
	for _, row := range r.s.standings[stageID] {
		out = append(out, cloneStanding(row))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDiff != b.GoalDiff {
			return a.GoalDiff > b.GoalDiff
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.ParticipantID < b.ParticipantID
	})
	return out, nil
}

var (
	_ repositories.TournamentRepository  = memTournamentRepo{}
	_ repositories.StageRepository       = memStageRepo{}
	_ repositories.ParticipantRepository = memParticipantRepo{}
	_ repositories.MatchRepository       = memMatchRepo{}
	_ repositories.MatchReportRepository = memReportRepo{}
	_ repositories.StandingRepository    = memStandingRepo{}
)
