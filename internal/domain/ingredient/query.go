// internal/domain/ingredient/query.go
package ingredient

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"seasonal_food_bot/internal/domain/season"
)

// NormalizeSearch trims and case-folds free text the same way for queries and signatures.
func NormalizeSearch(searchText string) string {
	return strings.ToLower(strings.TrimSpace(searchText))
}

// Query filters items by period membership and search text, then orders them by
// category rank and Korean collation of the name. It does not modify allItems.
func Query(allItems []Ingredient, searchText, periodKey string) []Ingredient {
	normalized := NormalizeSearch(searchText)

	items := make([]Ingredient, 0)
	for _, it := range allItems {
		if !it.InPeriod(periodKey) {
			continue
		}
		if normalized != "" {
			hay := strings.ToLower(it.Name + "\n" + it.Description)
			if !strings.Contains(hay, normalized) {
				continue
			}
		}
		items = append(items, it)
	}

	// A Collator keeps internal buffers, so each query gets its own.
	col := collate.New(language.Korean)
	sort.SliceStable(items, func(a, b int) bool {
		ra, rb := items[a].Category.Rank(), items[b].Category.Rank()
		if ra != rb {
			return ra < rb
		}
		return col.CompareString(items[a].Name, items[b].Name) < 0
	})
	return items
}

// DedupeByName keeps the first item for each display name. The bot applies it when
// listing a period so the same name is never shown twice.
func DedupeByName(items []Ingredient) []Ingredient {
	seen := make(map[string]bool, len(items))
	out := make([]Ingredient, 0, len(items))
	for _, it := range items {
		if seen[it.Name] {
			continue
		}
		seen[it.Name] = true
		out = append(out, it)
	}
	return out
}

// FirstPeriodWithResults returns the first period, in calendar order, for which the
// search has at least one hit.
func FirstPeriodWithResults(allItems []Ingredient, searchText string) (season.Period, bool) {
	for _, p := range season.All() {
		if len(Query(allItems, searchText, p.Key())) > 0 {
			return p, true
		}
	}
	return season.Period{}, false
}

// FindByName returns the first ingredient whose display name matches exactly.
func FindByName(allItems []Ingredient, name string) (Ingredient, bool) {
	name = strings.TrimSpace(name)
	for _, it := range allItems {
		if it.Name == name {
			return it, true
		}
	}
	return Ingredient{}, false
}
