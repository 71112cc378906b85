package interview

import "math"

// Rollup is the derived scoring view over a session's finalized units.
type Rollup struct {
	TotalScore        int                  `json:"total_score"`
	AverageScore      float64              `json:"average_score"`
	TotalQuestions    int                  `json:"total_questions"`
	CategoryBreakdown map[Category]float64 `json:"category_breakdown"`
}

// Aggregate recomputes the rollup from scratch. With at most ten units
// per session a full recompute is cheaper than keeping incremental
// counters honest.
func Aggregate(units []QuestionUnit) Rollup {
	rollup := Rollup{
		TotalQuestions:    len(units),
		CategoryBreakdown: make(map[Category]float64),
	}
	if len(units) == 0 {
		return rollup
	}

	catTotals := make(map[Category]int)
	catCounts := make(map[Category]int)
	for _, u := range units {
		rollup.TotalScore += u.Score
		catTotals[u.Category] += u.Score
		catCounts[u.Category]++
	}

	rollup.AverageScore = round1(float64(rollup.TotalScore) / float64(len(units)))
	for c, total := range catTotals {
		rollup.CategoryBreakdown[c] = round1(float64(total) / float64(catCounts[c]))
	}
	return rollup
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
