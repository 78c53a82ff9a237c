package services

import (
	"context"
	"testing"

	"github.com/Dosada05/league-engine/brackets"
	"github.com/Dosada05/league-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rankedGroup plays a single round robin where the lower participant id always
// wins, so the table order equals the id order.
func rankedGroup(t *testing.T, e *engine) *models.Stage {
	t.Helper()
	stage := e.groupStage(t, 1)
	for _, m := range e.stageMatches(t, stage.ID) {
		winner := m.HomeParticipantID
		if m.AwayParticipantID < winner {
			winner = m.AwayParticipantID
		}
		e.winFor(t, m, winner)
	}
	return stage
}

func roundGames(matches []*models.Match, round int, thirdPlace bool) []*models.Match {
	var out []*models.Match
	for _, m := range matches {
		if m.Round != nil && *m.Round == round && m.ThirdPlace == thirdPlace {
			out = append(out, m)
		}
	}
	return out
}

func tournamentWinner(t *testing.T, e *engine) *int {
	t.Helper()
	tr, err := memTournamentRepo{e.store}.GetByID(context.Background(), nil, e.tournamentID)
	require.NoError(t, err)
	return tr.WinnerParticipantID
}

func TestBracket_FourTeamsEndToEnd(t *testing.T) {
	e := newEngine(t, 4)
	ids := e.participantIDs()
	group := rankedGroup(t, e)
	ctx := context.Background()

	table, err := e.table.GetTable(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, table, 4)
	for i, row := range table {
		assert.Equal(t, ids[i], row.ParticipantID)
	}
	assert.Equal(t, 6, table[0].Points)

	res, err := e.bracket.GenerateFirstRound(ctx, e.tournamentID, GeneratePlayoffInput{
		SourceStageID:     group.ID,
		Size:              8,
		LossesToEliminate: 1,
		ThirdPlace:        true,
	})
	require.NoError(t, err)
	playoff := res.Stage
	assert.Equal(t, models.StageKindPlayoff, playoff.Kind)
	assert.Equal(t, 1, playoff.GamesPerPair)
	require.Len(t, res.Seeds, 4, "size clamped to available participants")
	require.Len(t, res.Matches, 2)

	settings, err := playoff.Playoff()
	require.NoError(t, err)
	assert.Equal(t, group.ID, settings.SourceStageID)
	assert.Equal(t, 4, settings.Size)
	assert.True(t, settings.ThirdPlace)

	semi1, semi2 := res.Matches[0], res.Matches[1]
	assert.Equal(t, ids[0], semi1.HomeParticipantID)
	assert.Equal(t, ids[3], semi1.AwayParticipantID)
	assert.Equal(t, ids[1], semi2.HomeParticipantID)
	assert.Equal(t, ids[2], semi2.AwayParticipantID)

	e.winFor(t, semi1, ids[0])
	assert.Empty(t, roundGames(e.stageMatches(t, playoff.ID), 2, false), "final waits for the other semi")

	e.events.reset()
	e.winFor(t, semi2, ids[2])
	assert.Contains(t, e.events.types(), models.EventSeriesDecided)
	assert.Contains(t, e.events.types(), models.EventRoundGenerated)

	all := e.stageMatches(t, playoff.ID)
	finals := roundGames(all, 2, false)
	require.Len(t, finals, 1)
	assert.Equal(t, ids[0], finals[0].HomeParticipantID)
	assert.Equal(t, ids[2], finals[0].AwayParticipantID)
	assert.Equal(t, "round_2", finals[0].Meta.RoundLabel)

	bronze := roundGames(all, 2, true)
	require.Len(t, bronze, 1)
	assert.Equal(t, ids[1], bronze[0].HomeParticipantID)
	assert.Equal(t, ids[3], bronze[0].AwayParticipantID)
	assert.Equal(t, brackets.ThirdPlaceSlot, *bronze[0].Slot)

	e.winFor(t, finals[0], ids[2])
	assert.Nil(t, tournamentWinner(t, e), "bronze still open")

	e.events.reset()
	e.winFor(t, bronze[0], ids[1])
	assert.Contains(t, e.events.types(), models.EventPlayoffCompleted)

	winner := tournamentWinner(t, e)
	require.NotNil(t, winner)
	assert.Equal(t, ids[2], *winner)

	view, err := e.bracket.GetBracket(ctx, playoff.ID)
	require.NoError(t, err)
	assert.True(t, view.Completed)
	require.NotNil(t, view.ChampionID)
	assert.Equal(t, ids[2], *view.ChampionID)
	require.Len(t, view.Rounds, 2)
	assert.Len(t, view.Rounds[0].Series, 2)
	require.NotNil(t, view.Rounds[1].ThirdPlace)
	assert.Equal(t, ids[1], view.Rounds[1].ThirdPlace.Winner)
	assert.Len(t, view.Participants, 4)

	// повторное продвижение ничего не создаёт
	again, err := e.bracket.AdvanceStage(ctx, playoff.ID)
	require.NoError(t, err)
	assert.True(t, again.Completed)
	assert.Empty(t, again.CreatedMatches)
	assert.Len(t, e.stageMatches(t, playoff.ID), 4)
}

func TestBracket_BestOfThreeCancelsDeadRubbers(t *testing.T) {
	e := newEngine(t, 4)
	ids := e.participantIDs()
	group := rankedGroup(t, e)
	ctx := context.Background()

	res, err := e.bracket.GenerateFirstRound(ctx, e.tournamentID, GeneratePlayoffInput{
		SourceStageID: group.ID, Size: 4, LossesToEliminate: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Stage.GamesPerPair)
	require.Len(t, res.Matches, 6)

	series := roundGames(res.Matches, 1, false)[:3]
	for _, g := range series {
		require.Equal(t, ids[0], g.HomeParticipantID)
	}
	// отчёт по третьей игре ещё висит, когда серия решается
	pending, err := e.matches.SubmitReport(ctx, e.users[ids[0]], series[2].ID, score(2, 0))
	require.NoError(t, err)

	e.winFor(t, series[0], ids[0])
	e.winFor(t, series[1], ids[0])

	third := e.match(t, series[2].ID)
	assert.Equal(t, models.MatchStatusCanceled, third.Status)
	assert.Equal(t, models.ReportStatusObsolete, e.report(t, pending.ID).Status)

	_, err = e.matches.SubmitReport(ctx, e.users[ids[0]], series[2].ID, score(2, 0))
	assert.ErrorIs(t, err, ErrMatchClosed)

	// вторая серия 2:1 в пользу сеяного ниже
	other := roundGames(e.stageMatches(t, res.Stage.ID), 1, false)[3:]
	e.winFor(t, other[0], ids[2])
	e.winFor(t, other[1], ids[1])
	e.winFor(t, other[2], ids[2])

	finals := roundGames(e.stageMatches(t, res.Stage.ID), 2, false)
	require.Len(t, finals, 3)
	assert.Equal(t, ids[0], finals[0].HomeParticipantID)
	assert.Equal(t, ids[2], finals[0].AwayParticipantID)
	assert.Empty(t, roundGames(e.stageMatches(t, res.Stage.ID), 2, true), "third place not requested")
}

// seriesOf returns the games of the a-b series in the given round by game number.
func seriesOf(t *testing.T, e *engine, stageID, round, a, b int) []*models.Match {
	t.Helper()
	var out []*models.Match
	for _, m := range roundGames(e.stageMatches(t, stageID), round, false) {
		if m.Involves(a) && m.Involves(b) {
			out = append(out, m)
		}
	}
	return out
}

// playSeries plays the games in order, winners[i] takes game i+1.
func (e *engine) playSeries(t *testing.T, games []*models.Match, winners ...int) {
	t.Helper()
	require.GreaterOrEqual(t, len(games), len(winners))
	for i, w := range winners {
		e.winFor(t, games[i], w)
	}
}

func countStatus(matches []*models.Match, status models.MatchStatus) int {
	n := 0
	for _, m := range matches {
		if m.Status == status {
			n++
		}
	}
	return n
}

func TestBracket_EightTeamsBestOfFive(t *testing.T) {
	e := newEngine(t, 8)
	ids := e.participantIDs()
	group := rankedGroup(t, e)
	ctx := context.Background()

	res, err := e.bracket.GenerateFirstRound(ctx, e.tournamentID, GeneratePlayoffInput{
		SourceStageID: group.ID, Size: 8, LossesToEliminate: 3,
	})
	require.NoError(t, err)
	stageID := res.Stage.ID
	assert.Equal(t, 5, res.Stage.GamesPerPair)
	require.Len(t, res.Seeds, 8)
	require.Len(t, res.Matches, 20)

	// 1-8, 2-7, 3-6, 4-5
	for slot := 1; slot <= 4; slot++ {
		games := seriesOf(t, e, stageID, 1, ids[slot-1], ids[8-slot])
		require.Len(t, games, 5, "slot %d", slot)
		assert.Equal(t, ids[slot-1], games[0].HomeParticipantID)
		assert.Equal(t, slot, *games[0].Slot)
	}

	s18 := seriesOf(t, e, stageID, 1, ids[0], ids[7])
	e.playSeries(t, s18, ids[0], ids[0], ids[0])
	assert.Equal(t, models.MatchStatusCanceled, e.match(t, s18[3].ID).Status)
	assert.Equal(t, models.MatchStatusCanceled, e.match(t, s18[4].ID).Status)

	e.playSeries(t, seriesOf(t, e, stageID, 1, ids[1], ids[6]), ids[6], ids[1], ids[6], ids[6])
	e.playSeries(t, seriesOf(t, e, stageID, 1, ids[2], ids[5]), ids[2], ids[5], ids[5], ids[2], ids[2])
	assert.Empty(t, roundGames(e.stageMatches(t, stageID), 2, false), "semis wait for the last series")

	e.events.reset()
	e.playSeries(t, seriesOf(t, e, stageID, 1, ids[3], ids[4]), ids[4], ids[4], ids[4])
	assert.Contains(t, e.events.types(), models.EventRoundGenerated)

	// победители 1, 7, 3, 5 пересеяны: 1-7 и 3-5
	semis := roundGames(e.stageMatches(t, stageID), 2, false)
	require.Len(t, semis, 10)
	semi1 := seriesOf(t, e, stageID, 2, ids[0], ids[6])
	semi2 := seriesOf(t, e, stageID, 2, ids[2], ids[4])
	require.Len(t, semi1, 5)
	require.Len(t, semi2, 5)
	assert.Equal(t, 1, *semi1[0].Slot)
	assert.Equal(t, ids[0], semi1[0].HomeParticipantID)
	assert.Equal(t, 2, *semi2[0].Slot)
	assert.Equal(t, ids[2], semi2[0].HomeParticipantID)

	e.playSeries(t, semi1, ids[0], ids[0], ids[0])
	assert.Empty(t, roundGames(e.stageMatches(t, stageID), 3, false), "final waits for the other semi")
	e.playSeries(t, semi2, ids[4], ids[2], ids[4], ids[4])

	final := seriesOf(t, e, stageID, 3, ids[0], ids[4])
	require.Len(t, final, 5)
	assert.Equal(t, ids[0], final[0].HomeParticipantID)
	assert.Equal(t, "round_3", final[0].Meta.RoundLabel)
	assert.Empty(t, roundGames(e.stageMatches(t, stageID), 3, true), "third place not requested")

	e.playSeries(t, final, ids[4], ids[0], ids[4], ids[0])
	assert.Nil(t, tournamentWinner(t, e), "final still open")

	e.events.reset()
	e.winFor(t, final[4], ids[4])
	assert.Contains(t, e.events.types(), models.EventPlayoffCompleted)

	winner := tournamentWinner(t, e)
	require.NotNil(t, winner)
	assert.Equal(t, ids[4], *winner)

	all := e.stageMatches(t, stageID)
	assert.Len(t, all, 35)
	// 2+1+0+2 в первом круге, 2+1 в полуфиналах
	assert.Equal(t, 8, countStatus(all, models.MatchStatusCanceled))
	assert.Equal(t, 27, countStatus(all, models.MatchStatusConfirmed))

	view, err := e.bracket.GetBracket(ctx, stageID)
	require.NoError(t, err)
	assert.True(t, view.Completed)
	require.Len(t, view.Rounds, 3)
	assert.Len(t, view.Rounds[0].Series, 4)
	assert.Len(t, view.Rounds[1].Series, 2)
	require.Len(t, view.Rounds[2].Series, 1)
	assert.Equal(t, ids[4], view.Rounds[2].Series[0].Winner)
}

func TestBracket_RegenerateFirstRound(t *testing.T) {
	e := newEngine(t, 4)
	ids := e.participantIDs()
	group := rankedGroup(t, e)
	ctx := context.Background()
	input := GeneratePlayoffInput{SourceStageID: group.ID, Size: 4, LossesToEliminate: 1}

	first, err := e.bracket.GenerateFirstRound(ctx, e.tournamentID, input)
	require.NoError(t, err)
	e.winFor(t, first.Matches[0], ids[0])
	e.winFor(t, first.Matches[1], ids[1])
	require.Len(t, e.stageMatches(t, first.Stage.ID), 3)

	second, err := e.bracket.GenerateFirstRound(ctx, e.tournamentID, input)
	require.NoError(t, err)
	assert.Equal(t, first.Stage.ID, second.Stage.ID)

	matches := e.stageMatches(t, second.Stage.ID)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.Equal(t, models.MatchStatusScheduled, m.Status)
		assert.Equal(t, 1, *m.Round)
	}
	assert.Nil(t, tournamentWinner(t, e))

	stages, err := memStageRepo{e.store}.ListByTournament(ctx, nil, e.tournamentID)
	require.NoError(t, err)
	assert.Len(t, stages, 2)
}

func TestBracket_GenerateFirstRoundErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("too few participants", func(t *testing.T) {
		e := newEngine(t, 3)
		group := e.groupStage(t, 1)
		_, err := e.bracket.GenerateFirstRound(ctx, e.tournamentID, GeneratePlayoffInput{SourceStageID: group.ID, Size: 4})
		assert.ErrorIs(t, err, ErrNotEnoughParticipants)
		stages, err := memStageRepo{e.store}.ListByTournament(ctx, nil, e.tournamentID)
		require.NoError(t, err)
		assert.Len(t, stages, 1, "no playoff stage left behind")
	})

	t.Run("source is not a group stage", func(t *testing.T) {
		e := newEngine(t, 4)
		group := e.groupStage(t, 1)
		res, err := e.bracket.GenerateFirstRound(ctx, e.tournamentID, GeneratePlayoffInput{SourceStageID: group.ID, Size: 4})
		require.NoError(t, err)
		_, err = e.bracket.GenerateFirstRound(ctx, e.tournamentID, GeneratePlayoffInput{SourceStageID: res.Stage.ID, Size: 4})
		assert.ErrorIs(t, err, ErrSourceStageInvalid)
	})

	t.Run("source of another tournament", func(t *testing.T) {
		e := newEngine(t, 4)
		group := e.groupStage(t, 1)
		_, err := e.bracket.GenerateFirstRound(ctx, e.tournamentID+100, GeneratePlayoffInput{SourceStageID: group.ID, Size: 4})
		assert.ErrorIs(t, err, ErrSourceStageInvalid)
	})

	t.Run("games per pair out of range", func(t *testing.T) {
		e := newEngine(t, 4)
		_, err := e.bracket.GenerateFirstRound(ctx, e.tournamentID, GeneratePlayoffInput{SourceStageID: 1, GamesPerPair: intPtr(9)})
		assert.ErrorIs(t, err, ErrInvalidGamesPerPair)
	})

	t.Run("missing source stage", func(t *testing.T) {
		e := newEngine(t, 4)
		_, err := e.bracket.GenerateFirstRound(ctx, e.tournamentID, GeneratePlayoffInput{SourceStageID: 777, Size: 4})
		assert.ErrorIs(t, err, ErrStageNotFound)
	})
}

func TestBracket_AdvanceStageRequiresPlayoff(t *testing.T) {
	e := newEngine(t, 2)
	group := e.groupStage(t, 1)

	_, err := e.bracket.AdvanceStage(context.Background(), group.ID)
	assert.ErrorIs(t, err, ErrStageNotPlayoff)
	_, err = e.bracket.GetBracket(context.Background(), group.ID)
	assert.ErrorIs(t, err, ErrStageNotPlayoff)
}

func TestBracket_RepairsSettings(t *testing.T) {
	e := newEngine(t, 2)
	svc := e.bracket.(*bracketService)

	stage := &models.Stage{ID: 1, Kind: models.StageKindPlayoff, GamesPerPair: 0, Settings: []byte(`{"losses_to_eliminate":3}`)}
	settings, gp := svc.playoffSettings(stage)
	assert.Equal(t, 5, gp)
	assert.Equal(t, 3, settings.LossesToEliminate)

	stage = &models.Stage{ID: 1, Kind: models.StageKindPlayoff, GamesPerPair: 3, Settings: []byte(`not json`)}
	settings, gp = svc.playoffSettings(stage)
	assert.Equal(t, 3, gp)
	assert.Equal(t, 2, settings.LossesToEliminate)
}
