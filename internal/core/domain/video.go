package domain

import "sort"

// Video is one row of the trending-videos table.
// The loader fills the source columns; CategoryName, EngagementScore and
// RatingRatio are derived by the transform.
type Video struct {
	ID           string
	CategoryID   int
	Likes        int64
	Dislikes     int64
	CommentCount int64

	// CategoryName is empty when the category id has no lookup entry.
	CategoryName    string
	EngagementScore int64
	RatingRatio     float64
}

// CategoryLookup maps a category id to its display name.
type CategoryLookup map[int]string

// Name returns the display name for id, or "" when unmapped.
func (l CategoryLookup) Name(id int) string {
	return l[id]
}

// EngagementScore returns likes + comments + dislikes.
func EngagementScore(likes, dislikes, comments int64) int64 {
	return likes + comments + dislikes
}

// RatingRatio returns likes / (likes + dislikes).
// A zero denominator is treated as 1, so the result is 0 in that case.
func RatingRatio(likes, dislikes int64) float64 {
	denom := likes + dislikes
	if denom == 0 {
		denom = 1
	}
	return float64(likes) / float64(denom)
}

// CategoryEngagement is one row of the aggregate table.
type CategoryEngagement struct {
	CategoryName    string
	EngagementScore float64
}

// EngagementTable is the per-category aggregate, sorted descending by score.
type EngagementTable []CategoryEngagement

// SortDescending orders the table by score, highest first.
// Equal scores are ordered by name so output is deterministic.
func (t EngagementTable) SortDescending() {
	sort.SliceStable(t, func(i, j int) bool {
		if t[i].EngagementScore != t[j].EngagementScore {
			return t[i].EngagementScore > t[j].EngagementScore
		}
		return t[i].CategoryName < t[j].CategoryName
	})
}

// IsSortedDescending reports whether every adjacent pair satisfies
// score[i] >= score[i+1].
func (t EngagementTable) IsSortedDescending() bool {
	for i := 1; i < len(t); i++ {
		if t[i-1].EngagementScore < t[i].EngagementScore {
			return false
		}
	}
	return true
}
