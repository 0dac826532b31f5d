package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngagementScore(t *testing.T) {
	assert.Equal(t, int64(15), EngagementScore(10, 2, 3))
	assert.Equal(t, int64(0), EngagementScore(0, 0, 0))
}

func TestRatingRatio(t *testing.T) {
	tests := []struct {
		name     string
		likes    int64
		dislikes int64
		want     float64
	}{
		{"regular", 10, 2, 10.0 / 12.0},
		{"no votes", 0, 0, 0},
		{"only dislikes", 0, 5, 0},
		{"only likes", 7, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RatingRatio(tt.likes, tt.dislikes), 1e-12)
		})
	}
}

func TestCategoryLookup_Name(t *testing.T) {
	lookup := CategoryLookup{1: "Film & Animation"}

	assert.Equal(t, "Film & Animation", lookup.Name(1))
	assert.Equal(t, "", lookup.Name(99))
}

func TestEngagementTable_SortDescending(t *testing.T) {
	table := EngagementTable{
		{CategoryName: "Music", EngagementScore: 50},
		{CategoryName: "Comedy", EngagementScore: 100},
		{CategoryName: "Autos", EngagementScore: 50},
	}

	table.SortDescending()

	assert.Equal(t, "Comedy", table[0].CategoryName)
	assert.Equal(t, "Autos", table[1].CategoryName)
	assert.Equal(t, "Music", table[2].CategoryName)
	assert.True(t, table.IsSortedDescending())
}

func TestEngagementTable_IsSortedDescending(t *testing.T) {
	assert.True(t, EngagementTable{}.IsSortedDescending())
	assert.False(t, EngagementTable{
		{CategoryName: "a", EngagementScore: 1},
		{CategoryName: "b", EngagementScore: 2},
	}.IsSortedDescending())
}
