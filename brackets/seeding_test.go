package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampBracketSize(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		available int
		want      int
		wantErr   bool
	}{
		{name: "exact fit", requested: 8, available: 8, want: 8},
		{name: "more than enough", requested: 4, available: 20, want: 4},
		{name: "shrinks to fit", requested: 16, available: 10, want: 8},
		{name: "shrinks twice", requested: 32, available: 7, want: 4},
		{name: "unknown size falls back to default", requested: 6, available: 12, want: 8},
		{name: "unknown size then shrinks", requested: 0, available: 5, want: 4},
		{name: "too few participants", requested: 4, available: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClampBracketSize(tt.requested, tt.available)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNotEnoughParticipants)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeedTop(t *testing.T) {
	seeds, err := SeedTop([]int{10, 20, 30, 40, 50}, 4)
	require.NoError(t, err)
	assert.Equal(t, []Seed{
		{ParticipantID: 10, Seed: 1},
		{ParticipantID: 20, Seed: 2},
		{ParticipantID: 30, Seed: 3},
		{ParticipantID: 40, Seed: 4},
	}, seeds)

	_, err = SeedTop([]int{1, 2}, 4)
	assert.ErrorIs(t, err, ErrNotEnoughParticipants)
}

func TestSortBySeed(t *testing.T) {
	seedMap := SeedMap([]int{7, 3, 9, 1})

	got := SortBySeed([]int{1, 42, 9, 3, 41}, seedMap)
	ids := make([]int, len(got))
	for i, s := range got {
		ids[i] = s.ParticipantID
	}
	// неизвестные участники в конце, по id
	assert.Equal(t, []int{3, 9, 1, 41, 42}, ids)
	assert.Equal(t, 2, got[0].Seed)
}
