package brackets

import (
	"context"
	"fmt"
)

const MaxRoundRobinGames = 4

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() BracketGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

type pairKey struct{ a, b int }

func newPairKey(x, y int) pairKey {
	if x > y {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

// GenerateBracket tops up a round-robin schedule so that every pair has
// GamesPerPair games. Games already present (in either orientation) are kept,
// so running it twice adds nothing. Even game numbers swap home and away.
func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	if len(params.Seeds) < 2 {
		return nil, fmt.Errorf("RoundRobinGenerator: not enough participants (found %d, min 2 required)", len(params.Seeds))
	}
	target := clamp(params.GamesPerPair, 1, MaxRoundRobinGames)

	maxGame := make(map[pairKey]int)
	for _, m := range params.Existing {
		if m == nil || m.IsBracketGame() {
			continue
		}
		k := newPairKey(m.HomeParticipantID, m.AwayParticipantID)
		if m.GameNumber > maxGame[k] {
			maxGame[k] = m.GameNumber
		}
	}

	matches := make([]*BracketMatch, 0)
	for i := 0; i < len(params.Seeds); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < len(params.Seeds); j++ {
			a := params.Seeds[i].ParticipantID
			b := params.Seeds[j].ParticipantID
			for game := maxGame[newPairKey(a, b)] + 1; game <= target; game++ {
				home, away := a, b
				if game%2 == 0 {
					home, away = b, a
				}
				matches = append(matches, &BracketMatch{
					GameNumber:        game,
					HomeParticipantID: home,
					AwayParticipantID: away,
				})
			}
		}
	}
	return matches, nil
}
