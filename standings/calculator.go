// Package standings builds group-stage tables from confirmed match results.
package standings

import (
	"sort"

	"github.com/Dosada05/league-engine/models"
)

// Row - агрегированные показатели участника в стадии.
type Row struct {
	ParticipantID int `json:"participant_id"`
	GamesPlayed   int `json:"games_played"`
	Wins          int `json:"wins"`
	OTWins        int `json:"ot_wins"`
	SOWins        int `json:"so_wins"`
	Losses        int `json:"losses"`
	OTLosses      int `json:"ot_losses"`
	SOLosses      int `json:"so_losses"`
	GoalsFor      int `json:"goals_for"`
	GoalsAgainst  int `json:"goals_against"`
	GoalDiff      int `json:"goal_diff"`
	Points        int `json:"points"`
	TechLosses    int `json:"tech_losses"`
}

// Summary describes what the calculator saw besides the rows.
type Summary struct {
	Counted      int
	SkippedDraws []int
}

// Calculate aggregates confirmed, scored matches into ranked rows.
// Rows cover every active participant plus anyone who appears in a counted match.
// Drawn games contribute nothing.
func Calculate(participants []*models.Participant, matches []*models.Match, policy PointsPolicy) ([]Row, Summary) {
	byID := make(map[int]*Row)
	row := func(id int) *Row {
		r, ok := byID[id]
		if !ok {
			r = &Row{ParticipantID: id}
			byID[id] = r
		}
		return r
	}

	for _, p := range participants {
		if p != nil && p.IsActive {
			row(p.ID)
		}
	}

	var summary Summary
	for _, m := range matches {
		if m == nil || m.Status != models.MatchStatusConfirmed || !m.HasScore() {
			continue
		}
		home, away := *m.ScoreHome, *m.ScoreAway
		if home == away {
			summary.SkippedDraws = append(summary.SkippedDraws, m.ID)
			continue
		}

		h := row(m.HomeParticipantID)
		a := row(m.AwayParticipantID)
		h.GamesPlayed++
		a.GamesPlayed++
		h.GoalsFor += home
		h.GoalsAgainst += away
		a.GoalsFor += away
		a.GoalsAgainst += home

		winner, loser := h, a
		if away > home {
			winner, loser = a, h
		}
		applyDecision(winner, loser, m.OT, m.SO, policy)
		summary.Counted++
	}

	rows := make([]Row, 0, len(byID))
	for _, r := range byID {
		r.GoalDiff = r.GoalsFor - r.GoalsAgainst
		rows = append(rows, *r)
	}
	Rank(rows)
	return rows, summary
}

// SO takes precedence when both flags are set.
func applyDecision(winner, loser *Row, ot, so bool, policy PointsPolicy) {
	switch {
	case so:
		winner.SOWins++
		winner.Points += policy.SOWin
		loser.SOLosses++
		loser.Points += policy.SOLoss
	case ot:
		winner.OTWins++
		winner.Points += policy.OTWin
		loser.OTLosses++
		loser.Points += policy.OTLoss
	default:
		winner.Wins++
		winner.Points += policy.Win
		loser.Losses++
		loser.Points += policy.Loss
	}
}

// Rank orders rows by points, goal difference, goals for, then participant id.
func Rank(rows []Row) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
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
}

// ParticipantIDs returns the ids of ranked rows in order.
func ParticipantIDs(rows []Row) []int {
	ids := make([]int, len(rows))
	for i, r := range rows {
		ids[i] = r.ParticipantID
	}
	return ids
}
