// internal/domain/ingredient/seasonal.go
package ingredient

// PreviousMonth wraps January back to December.
func PreviousMonth(month int) int {
	if month == 1 {
		return 12
	}
	return month - 1
}

// NewlyInSeason returns the items that are in season in month but were not in season
// the month before. Storage order is kept.
func NewlyInSeason(allItems []Ingredient, month int) []Ingredient {
	prev := PreviousMonth(month)
	var out []Ingredient
	for _, it := range allItems {
		if it.InMonth(month) && !it.InMonth(prev) {
			out = append(out, it)
		}
	}
	return out
}
