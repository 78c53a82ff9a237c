package brackets

import (
	"context"

	"github.com/Dosada05/league-engine/models"
)

// BracketMatch описывает игру, которую нужно создать в стадии.
// Round and Slot stay nil for round-robin games.
type BracketMatch struct {
	Round             *int
	Slot              *int
	GameNumber        int
	HomeParticipantID int
	AwayParticipantID int
	ThirdPlace        bool
}

// ToMatch converts a generated game into a scheduled match row for stageID.
func (bm *BracketMatch) ToMatch(stageID int) *models.Match {
	return &models.Match{
		StageID:           stageID,
		HomeParticipantID: bm.HomeParticipantID,
		AwayParticipantID: bm.AwayParticipantID,
		GameNumber:        bm.GameNumber,
		Status:            models.MatchStatusScheduled,
		Round:             bm.Round,
		Slot:              bm.Slot,
		ThirdPlace:        bm.ThirdPlace,
		Meta:              models.MatchMeta{RoundLabel: RoundLabel(bm.Round, bm.ThirdPlace)},
	}
}

type GenerateBracketParams struct {
	// Seeds in order: seed 1 first. Round robin uses the order only to orient pairs.
	Seeds        []Seed
	GamesPerPair int
	// Existing games of the stage, used by generators that top up a schedule.
	Existing []*models.Match
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error)

	GetName() string
}

func intPtr(v int) *int { return &v }
