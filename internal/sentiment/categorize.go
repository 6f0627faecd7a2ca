package sentiment

import "NewsPulse/internal/domain"

// Fixed category boundaries. The band between them is neutral and absorbs
// scoring noise; historical summaries depend on these exact values.
const (
	PositiveThreshold = 0.1
	NegativeThreshold = -0.1
)

// Categorize maps a polarity to positive (> 0.1), negative (< -0.1) or neutral.
func Categorize(polarity float64) domain.Category {
	switch {
	case polarity > PositiveThreshold:
		return domain.CategoryPositive
	case polarity < NegativeThreshold:
		return domain.CategoryNegative
	default:
		return domain.CategoryNeutral
	}
}
