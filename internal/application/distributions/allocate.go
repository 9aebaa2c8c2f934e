package distributions

import (
	"math"
	"sort"
)

// Allocate splits total across weights pro rata in whole cents. Each share is
// first floored, then leftover cents go one by one to the largest fractional
// remainders (ties to the earlier weight). Shares always sum to total rounded
// to cents. Weights <= 0 receive nothing.
func Allocate(weights []float64, total float64) []float64 {
	shares := make([]float64, len(weights))
	totalCents := int64(math.Round(total * 100))
	if totalCents <= 0 || len(weights) == 0 {
		return shares
	}

	var sum float64
	for _, w := range weights {
		if w > 0 {
			sum += w
		}
	}
	if sum <= 0 {
		return shares
	}

	type part struct {
		idx int
		rem float64
	}
	cents := make([]int64, len(weights))
	parts := make([]part, 0, len(weights))
	var allocated int64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		exact := float64(totalCents) * (w / sum)
		floor := int64(math.Floor(exact))
		cents[i] = floor
		allocated += floor
		parts = append(parts, part{idx: i, rem: exact - float64(floor)})
	}

	sort.SliceStable(parts, func(a, b int) bool {
		return parts[a].rem > parts[b].rem
	})
	for left := totalCents - allocated; left > 0 && len(parts) > 0; left-- {
		p := parts[0]
		cents[p.idx]++
		parts = parts[1:]
	}

	for i, c := range cents {
		shares[i] = float64(c) / 100
	}
	return shares
}
