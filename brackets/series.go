package brackets

import (
	"sort"

	"github.com/Dosada05/league-engine/models"
)

// ThirdPlaceSlot tags the bronze series inside the final round.
const ThirdPlaceSlot = 0

type SeriesState string

const (
	SeriesOpen    SeriesState = "open"
	SeriesDecided SeriesState = "decided"
)

// Series - серия игр одной пары в раунде. Never stored, derived from matches.
type Series struct {
	Round      int             `json:"round"`
	Slot       int             `json:"slot"`
	ThirdPlace bool            `json:"third_place"`
	Home       int             `json:"home_participant_id"`
	Away       int             `json:"away_participant_id"`
	HomeWins   int             `json:"home_wins"`
	AwayWins   int             `json:"away_wins"`
	Threshold  int             `json:"threshold"`
	State      SeriesState     `json:"state"`
	Winner     int             `json:"winner_participant_id,omitempty"`
	Loser      int             `json:"loser_participant_id,omitempty"`
	Games      []*models.Match `json:"games"`
}

func (s *Series) Decided() bool { return s.State == SeriesDecided }

// OpenGames lists games of the series that can still be played.
func (s *Series) OpenGames() []*models.Match {
	var open []*models.Match
	for _, g := range s.Games {
		if g.Status.IsOpen() {
			open = append(open, g)
		}
	}
	return open
}

// SeriesThreshold is the number of wins that decides a best-of-gamesPerPair series.
func SeriesThreshold(gamesPerPair int) int {
	return gamesPerPair/2 + 1
}

func (s *Series) tally() {
	s.HomeWins, s.AwayWins = 0, 0
	for _, g := range s.Games {
		w, ok := g.Winner()
		if !ok {
			continue
		}
		switch w {
		case s.Home:
			s.HomeWins++
		case s.Away:
			s.AwayWins++
		}
	}
	s.State = SeriesOpen
	s.Winner, s.Loser = 0, 0
	switch {
	case s.HomeWins >= s.Threshold:
		s.State, s.Winner, s.Loser = SeriesDecided, s.Home, s.Away
	case s.AwayWins >= s.Threshold:
		s.State, s.Winner, s.Loser = SeriesDecided, s.Away, s.Home
	}
}

// GroupSeries groups non-canceled bracket games of a round by unordered pair.
// Canceled games stay attached to their series for display only when keepCanceled is set.
func GroupSeries(matches []*models.Match, round, gamesPerPair int, thirdPlace, keepCanceled bool) []*Series {
	byPair := make(map[pairKey]*Series)
	order := make([]pairKey, 0)
	for _, m := range matches {
		if m == nil || m.Round == nil || *m.Round != round || m.ThirdPlace != thirdPlace {
			continue
		}
		if m.Status == models.MatchStatusCanceled && !keepCanceled {
			continue
		}
		k := newPairKey(m.HomeParticipantID, m.AwayParticipantID)
		s, ok := byPair[k]
		if !ok {
			slot := 0
			if m.Slot != nil {
				slot = *m.Slot
			}
			s = &Series{
				Round:      round,
				Slot:       slot,
				ThirdPlace: thirdPlace,
				Home:       m.HomeParticipantID,
				Away:       m.AwayParticipantID,
				Threshold:  SeriesThreshold(gamesPerPair),
			}
			byPair[k] = s
			order = append(order, k)
		}
		s.Games = append(s.Games, m)
	}

	out := make([]*Series, 0, len(order))
	for _, k := range order {
		s := byPair[k]
		sort.Slice(s.Games, func(i, j int) bool {
			if s.Games[i].GameNumber != s.Games[j].GameNumber {
				return s.Games[i].GameNumber < s.Games[j].GameNumber
			}
			return s.Games[i].ID < s.Games[j].ID
		})
		// first game decides the home side of the series
		s.Home, s.Away = s.Games[0].HomeParticipantID, s.Games[0].AwayParticipantID
		s.tally()
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

// CurrentRound returns the highest round tag among the matches, 0 if none.
func CurrentRound(matches []*models.Match) int {
	round := 0
	for _, m := range matches {
		if m != nil && m.Round != nil && *m.Round > round {
			round = *m.Round
		}
	}
	return round
}

// RoundEvaluation is the outcome of evaluating the current bracket round.
type RoundEvaluation struct {
	Round       int
	Series      []*Series
	ThirdPlace  *Series
	DeadRubbers []*models.Match
	Winners     []int
	Losers      []int
	AllDecided  bool
	// Completed is set when the final and any third-place series are decided.
	Completed bool
	Champion  int
}

// EvaluateRound inspects the current round of a playoff stage: it tallies each
// series, collects open games of decided series, and reports whether the round
// can advance or the bracket is finished.
func EvaluateRound(matches []*models.Match, gamesPerPair int) *RoundEvaluation {
	eval := &RoundEvaluation{Round: CurrentRound(matches)}
	if eval.Round == 0 {
		return eval
	}

	eval.Series = GroupSeries(matches, eval.Round, gamesPerPair, false, false)
	if tp := GroupSeries(matches, eval.Round, gamesPerPair, true, false); len(tp) > 0 {
		eval.ThirdPlace = tp[0]
	}

	eval.AllDecided = len(eval.Series) > 0
	for _, s := range eval.Series {
		if !s.Decided() {
			eval.AllDecided = false
			continue
		}
		eval.DeadRubbers = append(eval.DeadRubbers, s.OpenGames()...)
		eval.Winners = append(eval.Winners, s.Winner)
		eval.Losers = append(eval.Losers, s.Loser)
	}
	if eval.ThirdPlace != nil && eval.ThirdPlace.Decided() {
		eval.DeadRubbers = append(eval.DeadRubbers, eval.ThirdPlace.OpenGames()...)
	}
	if !eval.AllDecided {
		eval.Winners, eval.Losers = nil, nil
	}

	if len(eval.Series) == 1 && eval.AllDecided && (eval.ThirdPlace == nil || eval.ThirdPlace.Decided()) {
		eval.Completed = true
		eval.Champion = eval.Series[0].Winner
	}
	return eval
}

// CanAdvance reports whether a next round should be scheduled.
func (e *RoundEvaluation) CanAdvance() bool {
	return e.AllDecided && len(e.Winners) >= 2
}
