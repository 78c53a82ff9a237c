package brackets

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNotEnoughParticipants = errors.New("not enough ranked participants for a playoff bracket")

	// AllowedSizes lists supported bracket sizes in ascending order.
	AllowedSizes = []int{4, 8, 16, 32}
)

const (
	DefaultBracketSize = 8
	MinBracketSize     = 4
)

type Seed struct {
	ParticipantID int `json:"participant_id"`
	Seed          int `json:"seed"`
}

func isAllowedSize(size int) bool {
	for _, s := range AllowedSizes {
		if s == size {
			return true
		}
	}
	return false
}

// ClampBracketSize repairs an unknown requested size to the default and then
// shrinks it to the largest allowed size that available participants can fill.
func ClampBracketSize(requested, available int) (int, error) {
	if available < MinBracketSize {
		return 0, fmt.Errorf("%w: have %d, need at least %d", ErrNotEnoughParticipants, available, MinBracketSize)
	}
	size := requested
	if !isAllowedSize(size) {
		size = DefaultBracketSize
	}
	for size > available {
		size /= 2
	}
	return size, nil
}

// SeedTop assigns seeds 1..size to the first size ranked participants.
func SeedTop(ranked []int, size int) ([]Seed, error) {
	if len(ranked) < size {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughParticipants, len(ranked), size)
	}
	seeds := make([]Seed, size)
	for i := 0; i < size; i++ {
		seeds[i] = Seed{ParticipantID: ranked[i], Seed: i + 1}
	}
	return seeds, nil
}

// SeedMap maps every ranked participant to its 1-based position.
func SeedMap(ranked []int) map[int]int {
	m := make(map[int]int, len(ranked))
	for i, id := range ranked {
		m[id] = i + 1
	}
	return m
}

// SortBySeed orders participants by their original seed. Unknown participants
// go last, ties are broken by participant id.
func SortBySeed(participants []int, seedMap map[int]int) []Seed {
	out := make([]Seed, len(participants))
	for i, id := range participants {
		seed, ok := seedMap[id]
		if !ok {
			seed = int(^uint(0) >> 1)
		}
		out[i] = Seed{ParticipantID: id, Seed: seed}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Seed != out[j].Seed {
			return out[i].Seed < out[j].Seed
		}
		return out[i].ParticipantID < out[j].ParticipantID
	})
	return out
}
