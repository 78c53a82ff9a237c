package brackets

import (
	"context"
	"errors"
	"fmt"
)

const (
	MinGamesPerPair = 1
	MaxGamesPerPair = 7
	MinLosses       = 1
	MaxLosses       = 4
)

// Pairing - пара серии: сеяный выше играет дома.
type Pairing struct {
	Slot int
	Home Seed
	Away Seed
}

// PairBySeed pairs seed i with seed N+1-i for i = 1..N/2, slots numbered from 1.
func PairBySeed(seeds []Seed) []Pairing {
	n := len(seeds)
	pairs := make([]Pairing, 0, n/2)
	for i := 0; i < n/2; i++ {
		pairs = append(pairs, Pairing{Slot: i + 1, Home: seeds[i], Away: seeds[n-1-i]})
	}
	return pairs
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ClampLossesToEliminate(losses int) int {
	return clamp(losses, MinLosses, MaxLosses)
}

// GamesPerPair returns the series length: the override when given,
// otherwise 2*losses-1, clamped to [1,7].
func GamesPerPair(override *int, losses int) int {
	if override != nil {
		return clamp(*override, MinGamesPerPair, MaxGamesPerPair)
	}
	return clamp(2*ClampLossesToEliminate(losses)-1, MinGamesPerPair, MaxGamesPerPair)
}

// LossesForGames derives losses-to-eliminate from a series length.
func LossesForGames(gamesPerPair int) int {
	return ClampLossesToEliminate((clamp(gamesPerPair, MinGamesPerPair, MaxGamesPerPair) + 1) / 2)
}

func RoundLabel(round *int, thirdPlace bool) string {
	if round == nil {
		return ""
	}
	if thirdPlace {
		return "third_place"
	}
	return fmt.Sprintf("round_%d", *round)
}

// SeriesGames expands one pairing into gamesPerPair scheduled games.
func SeriesGames(round int, p Pairing, gamesPerPair int, thirdPlace bool) []*BracketMatch {
	games := make([]*BracketMatch, 0, gamesPerPair)
	for g := 1; g <= gamesPerPair; g++ {
		games = append(games, &BracketMatch{
			Round:             intPtr(round),
			Slot:              intPtr(p.Slot),
			GameNumber:        g,
			HomeParticipantID: p.Home.ParticipantID,
			AwayParticipantID: p.Away.ParticipantID,
			ThirdPlace:        thirdPlace,
		})
	}
	return games
}

// NextRound re-seeds winners by their original seed and pairs best vs worst.
func NextRound(winners []int, seedMap map[int]int, round, gamesPerPair int) []*BracketMatch {
	pairs := PairBySeed(SortBySeed(winners, seedMap))
	games := make([]*BracketMatch, 0, len(pairs)*gamesPerPair)
	for _, p := range pairs {
		games = append(games, SeriesGames(round, p, gamesPerPair, false)...)
	}
	return games
}

// ThirdPlaceSeries schedules the bronze series between the two best-seeded losers.
func ThirdPlaceSeries(losers []int, seedMap map[int]int, round, gamesPerPair int) []*BracketMatch {
	if len(losers) < 2 {
		return nil
	}
	ordered := SortBySeed(losers, seedMap)
	p := Pairing{Slot: ThirdPlaceSlot, Home: ordered[0], Away: ordered[1]}
	return SeriesGames(round, p, gamesPerPair, true)
}

type SingleEliminationGenerator struct {
}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket creates round 1 of a seeded bracket. Later rounds are
// produced by series advancement once results are known.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	n := len(params.Seeds)
	if n == 0 {
		return nil, errors.New("cannot generate bracket with zero participants")
	}
	if !isAllowedSize(n) {
		return nil, fmt.Errorf("unsupported bracket size %d", n)
	}
	gp := clamp(params.GamesPerPair, MinGamesPerPair, MaxGamesPerPair)

	games := make([]*BracketMatch, 0, n/2*gp)
	for _, p := range PairBySeed(params.Seeds) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		games = append(games, SeriesGames(1, p, gp, false)...)
	}
	return games, nil
}
