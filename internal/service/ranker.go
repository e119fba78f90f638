package service

import (
	"math"
	"sort"
	"strings"

	"dormhop/backend/internal/model"
)

const (
	amenityWeight   = 0.7
	occupancyWeight = 0.3
)

// ScoredRoom a candidate with its unrounded total score
type ScoredRoom struct {
	Room  *model.Room
	Score float64
}

// AmenitySet trims and lower-cases every entry, dropping blanks and duplicates
func AmenitySet(amenities []string) map[string]struct{} {
	set := make(map[string]struct{}, len(amenities))
	for _, a := range amenities {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			set[a] = struct{}{}
		}
	}
	return set
}

// AmenityScore |A∩B| / sqrt(|A|·|B|), or 0 when either set is empty
func AmenityScore(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	shared := 0
	for k := range small {
		if _, ok := large[k]; ok {
			shared++
		}
	}
	return float64(shared) / math.Sqrt(float64(len(a)*len(b)))
}

// OccupancyScore 1 for equal occupancy, 0.5 otherwise
func OccupancyScore(a, b int) float64 {
	if a == b {
		return 1.0
	}
	return 0.5
}

// RankRooms scores candidates against base and sorts them best first.
// Ties keep candidate order.
func RankRooms(base *model.Room, candidates []model.Room) []ScoredRoom {
	baseSet := AmenitySet(base.Amenities)

	scored := make([]ScoredRoom, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		scored[i] = ScoredRoom{
			Room: c,
			Score: amenityWeight*AmenityScore(baseSet, AmenitySet(c.Amenities)) +
				occupancyWeight*OccupancyScore(base.Occupancy, c.Occupancy),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// roundScore rounds to 2 decimals for display
func roundScore(x float64) float64 {
	return math.Round(x*100) / 100
}
