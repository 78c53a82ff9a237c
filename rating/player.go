// Package rating builds the cross-tournament player rating from confirmed games.
package rating

import (
	"math"
	"math/bits"
	"sort"
	"time"

	"github.com/Dosada05/league-engine/models"
)

// Очки рейтинга.
const (
	PointsWin          = 2
	PointsExtraLoss    = 1
	PointsChampionship = 10

	RecentWindow = 30 * 24 * time.Hour
)

type StreakKind string

const (
	StreakWin  StreakKind = "win"
	StreakLoss StreakKind = "loss"
)

// PlayerStats - сводная статистика пользователя по всем турнирам.
type PlayerStats struct {
	Rank        int    `json:"rank"`
	UserID      int    `json:"user_id"`
	DisplayName string `json:"display_name"`

	RatingPoints  int     `json:"rating_points"`
	MatchesPlayed int     `json:"matches_played"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinRate       float64 `json:"win_rate"`

	GoalsFor            int     `json:"goals_for"`
	GoalsAgainst        int     `json:"goals_against"`
	GoalDiff            int     `json:"goal_diff"`
	GoalsForPerGame     float64 `json:"goals_for_per_game"`
	GoalsAgainstPerGame float64 `json:"goals_against_per_game"`

	TournamentsWon     int      `json:"tournaments_won"`
	PlayoffAppearances int      `json:"playoff_appearances"`
	FinalAppearances   int      `json:"final_appearances"`
	GroupAvgPosition   *float64 `json:"group_avg_position"`

	LastMatchAt       *time.Time `json:"last_match_at"`
	MatchesLast30Days int        `json:"matches_last_30_days"`

	CurrentStreakKind   *StreakKind `json:"current_streak_kind"`
	CurrentStreakLength int         `json:"current_streak_length"`
	BestWinStreak       int         `json:"best_win_streak"`
}

// Input - всё, что нужно для расчёта рейтинга.
type Input struct {
	// Participants linked to a user account. Others are ignored.
	Participants []*models.Participant
	Stages       []*models.Stage
	// Games are confirmed games of any stage.
	Games []*models.Match
	// Tournaments carry the overall winner once the playoff is complete.
	Tournaments []*models.Tournament
	// GroupTables holds each group stage's ordered standings.
	GroupTables map[int][]*models.Standing
	Now         time.Time
}

type result struct {
	at  time.Time
	id  int
	won bool
}

type accumulator struct {
	stats     *PlayerStats
	nameSeen  int
	playoffs  map[int]bool
	finals    map[int]bool
	positions []int
	results   []result
}

// Build returns one entry per user, ranked by rating points, wins, win rate,
// goal difference, games played and user id. Ranks are unique.
func Build(in Input) []*PlayerStats {
	userOf := make(map[int]int)
	acc := make(map[int]*accumulator)
	for _, p := range in.Participants {
		if p == nil || p.UserID == nil {
			continue
		}
		uid := *p.UserID
		userOf[p.ID] = uid
		a, ok := acc[uid]
		if !ok {
			a = &accumulator{
				stats:    &PlayerStats{UserID: uid},
				playoffs: make(map[int]bool),
				finals:   make(map[int]bool),
			}
			acc[uid] = a
		}
		// имя берётся из последней заявки пользователя
		if p.ID > a.nameSeen {
			a.nameSeen = p.ID
			a.stats.DisplayName = p.DisplayName
		}
	}
	if len(acc) == 0 {
		return []*PlayerStats{}
	}

	stages := make(map[int]*models.Stage, len(in.Stages))
	finalRound := make(map[int]int)
	for _, st := range in.Stages {
		stages[st.ID] = st
		if st.IsPlayoff() {
			if ps, err := st.Playoff(); err == nil && ps.Size >= 2 {
				finalRound[st.ID] = bits.Len(uint(ps.Size)) - 1
			}
		}
	}

	for _, m := range in.Games {
		if m == nil || m.Status != models.MatchStatusConfirmed || !m.HasScore() {
			continue
		}
		stage := stages[m.StageID]
		at := m.CreatedAt
		if m.ConfirmedAt != nil {
			at = *m.ConfirmedAt
		}
		for _, side := range [2]struct{ pid, gf, ga int }{
			{m.HomeParticipantID, *m.ScoreHome, *m.ScoreAway},
			{m.AwayParticipantID, *m.ScoreAway, *m.ScoreHome},
		} {
			a, ok := acc[userOf[side.pid]]
			if !ok {
				continue
			}
			a.addGame(m, side.gf, side.ga, at, in.Now)
			if stage != nil && stage.IsPlayoff() {
				a.playoffs[stage.TournamentID] = true
				if fr, ok := finalRound[stage.ID]; ok && m.Round != nil && *m.Round == fr && !m.ThirdPlace {
					a.finals[stage.TournamentID] = true
				}
			}
		}
	}

	for _, t := range in.Tournaments {
		if t == nil || t.WinnerParticipantID == nil {
			continue
		}
		if a, ok := acc[userOf[*t.WinnerParticipantID]]; ok {
			a.stats.TournamentsWon++
			a.stats.RatingPoints += PointsChampionship
		}
	}

	for _, rows := range in.GroupTables {
		for i, row := range rows {
			if a, ok := acc[userOf[row.ParticipantID]]; ok {
				a.positions = append(a.positions, i+1)
			}
		}
	}

	out := make([]*PlayerStats, 0, len(acc))
	for _, a := range acc {
		a.finish()
		out = append(out, a.stats)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.RatingPoints != b.RatingPoints:
			return a.RatingPoints > b.RatingPoints
		case a.Wins != b.Wins:
			return a.Wins > b.Wins
		case a.WinRate != b.WinRate:
			return a.WinRate > b.WinRate
		case a.GoalDiff != b.GoalDiff:
			return a.GoalDiff > b.GoalDiff
		case a.MatchesPlayed != b.MatchesPlayed:
			return a.MatchesPlayed > b.MatchesPlayed
		}
		return a.UserID < b.UserID
	})
	for i, s := range out {
		s.Rank = i + 1
	}
	return out
}

func (a *accumulator) addGame(m *models.Match, gf, ga int, at, now time.Time) {
	s := a.stats
	s.MatchesPlayed++
	s.GoalsFor += gf
	s.GoalsAgainst += ga

	if gf != ga {
		won := gf > ga
		if won {
			s.Wins++
			s.RatingPoints += PointsWin
		} else {
			s.Losses++
			if m.OT || m.SO {
				s.RatingPoints += PointsExtraLoss
			}
		}
		a.results = append(a.results, result{at: at, id: m.ID, won: won})
	}

	if s.LastMatchAt == nil || at.After(*s.LastMatchAt) {
		last := at
		s.LastMatchAt = &last
	}
	if !at.Before(now.Add(-RecentWindow)) {
		s.MatchesLast30Days++
	}
}

func (a *accumulator) finish() {
	s := a.stats
	s.GoalDiff = s.GoalsFor - s.GoalsAgainst
	if s.MatchesPlayed > 0 {
		gp := float64(s.MatchesPlayed)
		s.WinRate = round(float64(s.Wins)/gp*100, 1)
		s.GoalsForPerGame = round(float64(s.GoalsFor)/gp, 2)
		s.GoalsAgainstPerGame = round(float64(s.GoalsAgainst)/gp, 2)
	}
	s.PlayoffAppearances = len(a.playoffs)
	s.FinalAppearances = len(a.finals)
	if len(a.positions) > 0 {
		sum := 0
		for _, p := range a.positions {
			sum += p
		}
		avg := round(float64(sum)/float64(len(a.positions)), 2)
		s.GroupAvgPosition = &avg
	}

	sort.Slice(a.results, func(i, j int) bool {
		if !a.results[i].at.Equal(a.results[j].at) {
			return a.results[i].at.Before(a.results[j].at)
		}
		return a.results[i].id < a.results[j].id
	})
	var (
		kind   StreakKind
		length int
	)
	for _, r := range a.results {
		k := StreakLoss
		if r.won {
			k = StreakWin
		}
		if k == kind {
			length++
		} else {
			kind, length = k, 1
		}
		if k == StreakWin && length > s.BestWinStreak {
			s.BestWinStreak = length
		}
	}
	if length > 0 {
		s.CurrentStreakKind = &kind
		s.CurrentStreakLength = length
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
