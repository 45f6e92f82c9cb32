// Package domain contains the core business logic and entities.
package domain

import "math"

const (
	// MinScore is the lower bound of every normalized score.
	MinScore = 0
	// MaxScore is the upper bound of every normalized score.
	MaxScore = 100
)

// Factor yields one contribution to a score.
type Factor[T any] func(T) int

// Scorecard is a weighted sum of independent factors.
//
// Every factor reads raw fields of T only, never another computed score, so a
// scorecard can be re-run at any time from persisted state.
type Scorecard[T any] []Factor[T]

// Score sums all factors and clamps the result to [MinScore, MaxScore].
func (s Scorecard[T]) Score(v T) int {
	sum := 0
	for _, f := range s {
		sum += f(v)
	}

	return ClampScore(sum)
}

// Rung is one bucket of a threshold ladder.
type Rung struct {
	Min    float64 // inclusive lower bound
	Points int
}

// Threshold builds a Factor from a fixed bucket ladder.
// Rungs must be ordered from the highest Min to the lowest; the first rung the
// value reaches wins. Values below every rung contribute 0.
//
//	Threshold(wordCount, Rung{200, 25}, Rung{100, 15}, Rung{50, 10})
func Threshold[T any](value func(T) float64, rungs ...Rung) Factor[T] {
	return func(v T) int {
		x := value(v)
		for _, r := range rungs {
			if x >= r.Min {
				return r.Points
			}
		}

		return 0
	}
}

// Flag builds a Factor awarding points when the predicate holds.
func Flag[T any](pred func(T) bool, points int) Factor[T] {
	return func(v T) int {
		if pred(v) {
			return points
		}

		return 0
	}
}

// Proportional builds a Factor worth round(ratio * weight), or 0 when the
// guard is false. Used for ratio-based contributions like helpfulness.
func Proportional[T any](guard func(T) bool, ratio func(T) float64, weight float64) Factor[T] {
	return func(v T) int {
		if guard != nil && !guard(v) {
			return 0
		}

		return int(math.Round(ratio(v) * weight))
	}
}

// Capped limits the contribution of a factor to limit.
func Capped[T any](f Factor[T], limit int) Factor[T] {
	return func(v T) int {
		return min(limit, f(v))
	}
}

// Sum combines factors into one, e.g. to cap a group of flags together.
func Sum[T any](factors ...Factor[T]) Factor[T] {
	return func(v T) int {
		total := 0
		for _, f := range factors {
			total += f(v)
		}

		return total
	}
}

// ClampScore clamps a raw sum into [MinScore, MaxScore].
func ClampScore(sum int) int {
	return min(MaxScore, max(MinScore, sum))
}

// clampUnit clamps a float into [0, 1].
func clampUnit(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}
