package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitReport_Validation(t *testing.T) {
	e := newEngine(t, 2)
	stage := e.groupStage(t, 1)
	m := e.stageMatches(t, stage.ID)[0]
	user := e.users[m.HomeParticipantID]

	long := strings.Repeat("я", DefaultMaxCommentLength+1)
	tests := []struct {
		name    string
		input   SubmitReportInput
		wantErr error
	}{
		{name: "missing home score", input: SubmitReportInput{ScoreAway: intPtr(1)}, wantErr: ErrScoreRequired},
		{name: "negative score", input: score(-1, 2), wantErr: ErrScoreOutOfRange},
		{name: "score above max", input: score(100, 2), wantErr: ErrScoreOutOfRange},
		{name: "draw", input: score(2, 2), wantErr: ErrDrawNotAllowed},
		{name: "ot and so", input: SubmitReportInput{ScoreHome: intPtr(2), ScoreAway: intPtr(1), OT: true, SO: true}, wantErr: ErrOTAndSO},
		{name: "comment too long", input: SubmitReportInput{ScoreHome: intPtr(2), ScoreAway: intPtr(1), Comment: &long}, wantErr: ErrCommentTooLong},
		{
			name: "too many attachments",
			input: SubmitReportInput{ScoreHome: intPtr(2), ScoreAway: intPtr(1), Attachments: []string{
				AttachmentPrefix(m.ID) + "1", AttachmentPrefix(m.ID) + "2", AttachmentPrefix(m.ID) + "3",
				AttachmentPrefix(m.ID) + "4", AttachmentPrefix(m.ID) + "5", AttachmentPrefix(m.ID) + "6",
			}},
			wantErr: ErrTooManyAttachments,
		},
		{
			name:    "attachment of another match",
			input:   SubmitReportInput{ScoreHome: intPtr(2), ScoreAway: intPtr(1), Attachments: []string{AttachmentPrefix(m.ID+1) + "x.png"}},
			wantErr: ErrInvalidAttachment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.matches.SubmitReport(context.Background(), user, m.ID, tt.input)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Equal(t, models.MatchStatusScheduled, e.match(t, m.ID).Status)
}

func TestSubmitReport_TrimsCommentAndKeepsAttachments(t *testing.T) {
	e := newEngine(t, 2)
	stage := e.groupStage(t, 1)
	m := e.stageMatches(t, stage.ID)[0]

	comment := "  good game  "
	blank := "   "
	input := score(4, 2)
	input.Comment = &comment
	input.Attachments = []string{AttachmentPrefix(m.ID) + "shot.png"}

	rep, err := e.matches.SubmitReport(context.Background(), e.users[m.HomeParticipantID], m.ID, input)
	require.NoError(t, err)
	require.NotNil(t, rep.Comment)
	assert.Equal(t, "good game", *rep.Comment)
	assert.Equal(t, []string{AttachmentPrefix(m.ID) + "shot.png"}, rep.Attachments)
	assert.Equal(t, m.HomeParticipantID, rep.ReporterParticipantID)
	assert.Equal(t, models.ReportStatusPending, rep.Status)

	input = score(4, 2)
	input.Comment = &blank
	rep, err = e.matches.SubmitReport(context.Background(), e.users[m.HomeParticipantID], m.ID, input)
	require.NoError(t, err)
	assert.Nil(t, rep.Comment)
	assert.Equal(t, []string{}, rep.Attachments)
}

func TestSubmitReport_RequiresParticipant(t *testing.T) {
	e := newEngine(t, 3)
	stage := e.groupStage(t, 1)
	var m *models.Match
	var outsider int
	for _, candidate := range e.stageMatches(t, stage.ID) {
		for _, id := range e.participantIDs() {
			if !candidate.Involves(id) {
				m, outsider = candidate, id
			}
		}
	}
	require.NotNil(t, m)

	_, err := e.matches.SubmitReport(context.Background(), e.users[outsider], m.ID, score(1, 0))
	assert.ErrorIs(t, err, ErrNotMatchParticipant)

	_, err = e.matches.SubmitReport(context.Background(), e.users[m.HomeParticipantID], 9999, score(1, 0))
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestSubmitReport_SupersedesPendingReport(t *testing.T) {
	e := newEngine(t, 2)
	stage := e.groupStage(t, 1)
	m := e.stageMatches(t, stage.ID)[0]
	ctx := context.Background()

	first, err := e.matches.SubmitReport(ctx, e.users[m.HomeParticipantID], m.ID, score(3, 1))
	require.NoError(t, err)
	e.clock.Advance(time.Minute)
	second, err := e.matches.SubmitReport(ctx, e.users[m.AwayParticipantID], m.ID, score(1, 3))
	require.NoError(t, err)

	assert.Equal(t, models.ReportStatusObsolete, e.report(t, first.ID).Status)
	assert.Equal(t, models.ReportStatusPending, e.report(t, second.ID).Status)
	assert.Equal(t, models.MatchStatusReported, e.match(t, m.ID).Status)

	details, err := e.matches.GetMatch(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, details.Reports, 2)
	assert.Equal(t, second.ID, details.Reports[0].ID)

	// устаревший отчёт больше нельзя подтвердить
	_, err = e.matches.ConfirmReport(ctx, e.users[m.AwayParticipantID], first.ID)
	assert.ErrorIs(t, err, ErrReportNotPending)
}

func TestConfirmReport(t *testing.T) {
	e := newEngine(t, 2)
	stage := e.groupStage(t, 1)
	m := e.stageMatches(t, stage.ID)[0]
	ctx := context.Background()

	input := score(2, 3)
	input.OT = true
	rep, err := e.matches.SubmitReport(ctx, e.users[m.HomeParticipantID], m.ID, input)
	require.NoError(t, err)

	_, err = e.matches.ConfirmReport(ctx, e.users[m.HomeParticipantID], rep.ID)
	require.ErrorIs(t, err, ErrSelfConfirmation)

	e.events.reset()
	confirmed, err := e.matches.ConfirmReport(ctx, e.users[m.AwayParticipantID], rep.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusConfirmed, confirmed.Status)
	assert.Equal(t, 2, *confirmed.ScoreHome)
	assert.Equal(t, 3, *confirmed.ScoreAway)
	assert.True(t, confirmed.OT)
	require.NotNil(t, confirmed.ConfirmedAt)
	assert.False(t, confirmed.Meta.AutoConfirmed)

	stored := e.report(t, rep.ID)
	assert.Equal(t, models.ReportStatusConfirmed, stored.Status)
	require.NotNil(t, stored.ConfirmerParticipantID)
	assert.Equal(t, m.AwayParticipantID, *stored.ConfirmerParticipantID)

	assert.Equal(t, []models.EventType{models.EventReportConfirmed, models.EventStandingsUpdated}, e.events.types())

	table, err := e.table.GetTable(ctx, stage.ID)
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, m.AwayParticipantID, table[0].ParticipantID)
	assert.Equal(t, 2, table[0].Points)
	assert.Equal(t, 1, table[0].OTWins)
	assert.Equal(t, 1, table[1].Points)
	assert.Equal(t, 1, table[1].OTLosses)
	require.NotNil(t, table[0].Participant)

	_, err = e.matches.SubmitReport(ctx, e.users[m.HomeParticipantID], m.ID, score(5, 0))
	assert.ErrorIs(t, err, ErrMatchClosed)
	_, err = e.matches.ConfirmReport(ctx, e.users[m.AwayParticipantID], rep.ID)
	assert.ErrorIs(t, err, ErrMatchClosed)
}

func TestDisputeReport(t *testing.T) {
	e := newEngine(t, 2)
	stage := e.groupStage(t, 1)
	m := e.stageMatches(t, stage.ID)[0]
	ctx := context.Background()

	rep, err := e.matches.SubmitReport(ctx, e.users[m.HomeParticipantID], m.ID, score(3, 0))
	require.NoError(t, err)

	_, err = e.matches.DisputeReport(ctx, e.users[m.HomeParticipantID], rep.ID)
	require.ErrorIs(t, err, ErrSelfConfirmation)

	disputed, err := e.matches.DisputeReport(ctx, e.users[m.AwayParticipantID], rep.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusRejected, disputed.Status)
	assert.Equal(t, models.MatchStatusDisputed, e.match(t, m.ID).Status)

	_, err = e.matches.ConfirmReport(ctx, e.users[m.AwayParticipantID], rep.ID)
	assert.ErrorIs(t, err, ErrMatchNotReported)

	// после спора можно подать новый отчёт
	again, err := e.matches.SubmitReport(ctx, e.users[m.AwayParticipantID], m.ID, score(3, 2))
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusReported, e.match(t, m.ID).Status)

	_, err = e.matches.ConfirmReport(ctx, e.users[m.HomeParticipantID], again.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusRejected, e.report(t, rep.ID).Status)
}

func TestAutoConfirmDue_Boundary(t *testing.T) {
	e := newEngine(t, 2)
	stage := e.groupStage(t, 1)
	m := e.stageMatches(t, stage.ID)[0]
	ctx := context.Background()

	rep, err := e.matches.SubmitReport(ctx, e.users[m.HomeParticipantID], m.ID, score(4, 1))
	require.NoError(t, err)

	e.clock.Advance(23*time.Hour + 59*time.Minute)
	summary, err := e.matches.AutoConfirmDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.Due)
	assert.Equal(t, models.MatchStatusReported, e.match(t, m.ID).Status)

	e.clock.Advance(time.Minute + time.Second)
	e.events.reset()
	summary, err = e.matches.AutoConfirmDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, &AutoConfirmSummary{Due: 1, Confirmed: 1}, summary)

	confirmed := e.match(t, m.ID)
	assert.Equal(t, models.MatchStatusConfirmed, confirmed.Status)
	assert.True(t, confirmed.Meta.AutoConfirmed)
	require.NotNil(t, confirmed.Meta.AutoConfirmedAt)
	assert.Equal(t, e.clock.Now(), *confirmed.Meta.AutoConfirmedAt)

	stored := e.report(t, rep.ID)
	assert.Equal(t, models.ReportStatusConfirmed, stored.Status)
	require.NotNil(t, stored.ConfirmerParticipantID)
	assert.Equal(t, m.AwayParticipantID, *stored.ConfirmerParticipantID)
	assert.Contains(t, e.events.types(), models.EventMatchAutoConfirmed)
	assert.Contains(t, e.events.types(), models.EventStandingsUpdated)

	// повторный прогон ничего не делает
	summary, err = e.matches.AutoConfirmDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.Due)
}

func TestAutoConfirmDue_UsesLatestReportTime(t *testing.T) {
	e := newEngine(t, 2)
	stage := e.groupStage(t, 1)
	m := e.stageMatches(t, stage.ID)[0]
	ctx := context.Background()

	_, err := e.matches.SubmitReport(ctx, e.users[m.HomeParticipantID], m.ID, score(4, 1))
	require.NoError(t, err)
	e.clock.Advance(20 * time.Hour)
	_, err = e.matches.SubmitReport(ctx, e.users[m.AwayParticipantID], m.ID, score(1, 4))
	require.NoError(t, err)

	e.clock.Advance(5 * time.Hour)
	summary, err := e.matches.AutoConfirmDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.Confirmed)

	e.clock.Advance(20 * time.Hour)
	summary, err = e.matches.AutoConfirmDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Confirmed)
	confirmed := e.match(t, m.ID)
	assert.Equal(t, 1, *confirmed.ScoreHome)
	assert.Equal(t, 4, *confirmed.ScoreAway)
}

func TestAutoConfirmDue_SkipsDisputedMatches(t *testing.T) {
	e := newEngine(t, 2)
	stage := e.groupStage(t, 1)
	m := e.stageMatches(t, stage.ID)[0]
	ctx := context.Background()

	rep, err := e.matches.SubmitReport(ctx, e.users[m.HomeParticipantID], m.ID, score(4, 1))
	require.NoError(t, err)
	_, err = e.matches.DisputeReport(ctx, e.users[m.AwayParticipantID], rep.ID)
	require.NoError(t, err)

	e.clock.Advance(48 * time.Hour)
	summary, err := e.matches.AutoConfirmDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.Due)
	assert.Equal(t, models.MatchStatusDisputed, e.match(t, m.ID).Status)
}

func TestAutoConfirmDue_Busy(t *testing.T) {
	e := newEngine(t, 2)
	svc := e.matches.(*matchService)

	svc.sweepMu.Lock()
	summary, err := e.matches.AutoConfirmDue(context.Background())
	svc.sweepMu.Unlock()

	require.NoError(t, err)
	assert.True(t, summary.Busy)
}

func TestAutoConfirmOne_SkipsChangedCandidate(t *testing.T) {
	e := newEngine(t, 2)
	stage := e.groupStage(t, 1)
	m := e.stageMatches(t, stage.ID)[0]
	ctx := context.Background()

	rep, err := e.matches.SubmitReport(ctx, e.users[m.HomeParticipantID], m.ID, score(4, 1))
	require.NoError(t, err)
	e.clock.Advance(25 * time.Hour)

	// кандидат подтверждён вручную между выборкой и обработкой
	_, err = e.matches.ConfirmReport(ctx, e.users[m.AwayParticipantID], rep.ID)
	require.NoError(t, err)

	svc := e.matches.(*matchService)
	ok, err := svc.autoConfirmOne(ctx, rep.ID, e.clock.Now().Add(-e.cfg.AutoConfirmAfter))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, e.match(t, m.ID).Meta.AutoConfirmed)
}

// lockLog records row locks in the order they are taken.
type lockLog struct {
	mu    sync.Mutex
	locks []string
}

func (l *lockLog) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locks = append(l.locks, fmt.Sprintf(format, args...))
}

func (l *lockLog) take() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.locks
	l.locks = nil
	return out
}

type lockingMatchRepo struct {
	memMatchRepo
	log *lockLog
}

func (r lockingMatchRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	r.log.add("match %d", id)
	return r.memMatchRepo.GetByIDForUpdate(ctx, exec, id)
}

type lockingReportRepo struct {
	memReportRepo
	log *lockLog
}

func (r lockingReportRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.MatchReport, error) {
	r.log.add("report %d", id)
	return r.memReportRepo.GetByIDForUpdate(ctx, exec, id)
}

func TestReportFlows_LockMatchBeforeReport(t *testing.T) {
	e := newEngine(t, 4)
	stage := e.groupStage(t, 1)
	games := e.stageMatches(t, stage.ID)
	require.GreaterOrEqual(t, len(games), 4)
	ctx := context.Background()

	log := &lockLog{}
	matchRepo := lockingMatchRepo{memMatchRepo{e.store}, log}
	reportRepo := lockingReportRepo{memReportRepo{e.store}, log}
	tx := &memTransactor{store: e.store}
	ms := NewMatchService(tx, matchRepo, reportRepo, memParticipantRepo{e.store}, memStageRepo{e.store},
		e.table, e.bracket, e.cfg, e.clock, e.events, NoopMetrics{}, testLogger())
	admin := NewAdminMatchService(tx, matchRepo, reportRepo, memStageRepo{e.store},
		e.table, e.bracket, e.clock, e.events, NoopMetrics{}, testLogger())

	submit := func(m *models.Match) *models.MatchReport {
		t.Helper()
		rep, err := ms.SubmitReport(ctx, e.users[m.HomeParticipantID], m.ID, score(3, 1))
		require.NoError(t, err)
		assert.Equal(t, []string{fmt.Sprintf("match %d", m.ID)}, log.take())
		return rep
	}
	want := func(m *models.Match, rep *models.MatchReport) []string {
		return []string{fmt.Sprintf("match %d", m.ID), fmt.Sprintf("report %d", rep.ID)}
	}

	t.Run("confirm", func(t *testing.T) {
		m := games[0]
		rep := submit(m)
		_, err := ms.ConfirmReport(ctx, e.users[m.AwayParticipantID], rep.ID)
		require.NoError(t, err)
		assert.Equal(t, want(m, rep), log.take())
	})

	t.Run("dispute", func(t *testing.T) {
		m := games[1]
		rep := submit(m)
		_, err := ms.DisputeReport(ctx, e.users[m.AwayParticipantID], rep.ID)
		require.NoError(t, err)
		assert.Equal(t, want(m, rep), log.take())
	})

	t.Run("admin confirm", func(t *testing.T) {
		m := games[2]
		rep := submit(m)
		_, err := admin.ConfirmReport(ctx, m.ID, rep.ID)
		require.NoError(t, err)
		assert.Equal(t, want(m, rep), log.take())
	})

	t.Run("auto confirm", func(t *testing.T) {
		m := games[3]
		rep := submit(m)
		e.clock.Advance(e.cfg.AutoConfirmAfter + time.Second)
		summary, err := ms.AutoConfirmDue(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Confirmed)
		assert.Equal(t, want(m, rep), log.take())
	})
}
