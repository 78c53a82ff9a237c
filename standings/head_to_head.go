package standings

import (
	"fmt"
	"sort"

	"github.com/Dosada05/league-engine/models"
)

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Score is a game result as seen from one side. Provisional scores come
// from the latest report of a game that is not confirmed yet.
type Score struct {
	MatchID     int     `json:"match_id"`
	GameNumber  int     `json:"game_number"`
	Value       string  `json:"value"`
	Outcome     Outcome `json:"outcome"`
	OT          bool    `json:"ot"`
	SO          bool    `json:"so"`
	Provisional bool    `json:"provisional"`
}

// Cell - игры участника строки против участника столбца.
type Cell struct {
	OpponentID int     `json:"opponent_id"`
	Self       bool    `json:"self,omitempty"`
	Games      []Score `json:"games"`
}

type HeadToHeadRow struct {
	ParticipantID int    `json:"participant_id"`
	Position      int    `json:"position"`
	Cells         []Cell `json:"cells"`
}

// HeadToHead - матрица личных встреч в порядке турнирной таблицы.
type HeadToHead struct {
	Participants []int           `json:"participants"`
	Rows         []HeadToHeadRow `json:"rows"`
}

// BuildHeadToHead lays out every scored game of the stage between the ordered
// participants. Confirmed games use the match score; reported and disputed
// games fall back to latest, the newest report per match. Other games and
// participants outside order are ignored.
func BuildHeadToHead(order []int, matches []*models.Match, latest map[int]*models.MatchReport) *HeadToHead {
	h := &HeadToHead{Participants: append([]int(nil), order...), Rows: make([]HeadToHeadRow, 0, len(order))}
	if len(order) == 0 {
		return h
	}

	index := make(map[int]int, len(order))
	for i, id := range order {
		index[id] = i
	}
	cells := make([][]Cell, len(order))
	for i, rowID := range order {
		cells[i] = make([]Cell, len(order))
		for j, colID := range order {
			cells[i][j] = Cell{OpponentID: colID, Self: rowID == colID, Games: []Score{}}
		}
	}

	games := append([]*models.Match(nil), matches...)
	sort.SliceStable(games, func(i, j int) bool {
		if games[i].GameNumber != games[j].GameNumber {
			return games[i].GameNumber < games[j].GameNumber
		}
		return games[i].ID < games[j].ID
	})

	for _, m := range games {
		home, okHome := index[m.HomeParticipantID]
		away, okAway := index[m.AwayParticipantID]
		if !okHome || !okAway || home == away {
			continue
		}
		sh, sa, ot, so, provisional, ok := gameScore(m, latest[m.ID])
		if !ok {
			continue
		}
		cells[home][away].Games = append(cells[home][away].Games, Score{
			MatchID: m.ID, GameNumber: m.GameNumber, Value: fmt.Sprintf("%d:%d", sh, sa),
			Outcome: outcome(sh, sa), OT: ot, SO: so, Provisional: provisional,
		})
		cells[away][home].Games = append(cells[away][home].Games, Score{
			MatchID: m.ID, GameNumber: m.GameNumber, Value: fmt.Sprintf("%d:%d", sa, sh),
			Outcome: outcome(sa, sh), OT: ot, SO: so, Provisional: provisional,
		})
	}

	for i, id := range order {
		h.Rows = append(h.Rows, HeadToHeadRow{ParticipantID: id, Position: i + 1, Cells: cells[i]})
	}
	return h
}

func gameScore(m *models.Match, report *models.MatchReport) (home, away int, ot, so, provisional, ok bool) {
	switch m.Status {
	case models.MatchStatusConfirmed:
		if m.HasScore() {
			return *m.ScoreHome, *m.ScoreAway, m.OT, m.SO, false, true
		}
	case models.MatchStatusReported, models.MatchStatusDisputed:
		if m.HasScore() {
			return *m.ScoreHome, *m.ScoreAway, m.OT, m.SO, true, true
		}
		if report != nil && report.MatchID == m.ID {
			return report.ScoreHome, report.ScoreAway, report.OT, report.SO, true, true
		}
	}
	return 0, 0, false, false, false, false
}

func outcome(own, other int) Outcome {
	switch {
	case own > other:
		return OutcomeWin
	case own < other:
		return OutcomeLoss
	}
	return OutcomeDraw
}
