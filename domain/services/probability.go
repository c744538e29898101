package services

import (
	"fmt"

	"gachabot/domain/entities"
)

// RateFiveStar computes the chance of hitting the 5-star tier on draw n,
// where n is the 1-indexed position since the last 5-star. At or beyond the
// hard pity pull the configured hard pity rate applies; otherwise the base
// rate accumulates the soft-pity increments of every interval n has entered.
func RateFiveStar(n int, cfg *entities.PoolConfig) float64 {
	prog := cfg.Progression[entities.RarityFiveStar]

	if n >= prog.HardPityPull {
		return clampRate(prog.HardPityRate)
	}

	rate := cfg.Probabilities.Base5StarRate
	for _, interval := range prog.SortedSoftPity() {
		if n < interval.StartPull {
			// Intervals are sorted; later ones cannot apply either.
			break
		}
		steps := minInt(n, interval.EndPull) - interval.StartPull + 1
		rate += float64(steps) * interval.Increment
		if n <= interval.EndPull {
			break
		}
	}
	return clampRate(rate)
}

// RateFourStar computes the chance of hitting the 4-star tier on draw n,
// 1-indexed since the last 4-star. A position past the hard pity pull means
// the pity counter failed to reset and is reported as a consistency error
// rather than coerced.
func RateFourStar(n int, cfg *entities.PoolConfig) (float64, error) {
	prog := cfg.Progression[entities.RarityFourStar]

	switch {
	case n < prog.HardPityPull:
		return clampRate(cfg.Probabilities.Base4StarRate), nil
	case n == prog.HardPityPull:
		return clampRate(prog.HardPityRate), nil
	default:
		return 0, fmt.Errorf("%w: 4-star pity position %d is past hard pity %d",
			ErrInvalidConfig, n, prog.HardPityPull)
	}
}

func clampRate(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
