// internal/domain/recipe/check.go
package recipe

import "sort"

// MappedDish is a mapping entry whose recipe id does not exist.
type MappedDish struct {
	Dish string `json:"dish"`
	ID   string `json:"id"`
}

// MissingByDish groups dish names that have no mapping by where they were found.
type MissingByDish struct {
	Ingredients []string `json:"ingredients"`
	Holidays    []string `json:"holidays"`
}

// MappingReport summarizes how well the dish mapping covers the catalog.
type MappingReport struct {
	TotalRecipes                 int           `json:"totalRecipes"`
	TotalMappings                int           `json:"totalMappings"`
	DishesMissingMapping         MissingByDish `json:"dishesMissingMapping"`
	MappedButMissingRecipe       []MappedDish  `json:"mappedButMissingRecipe"`
	RecipesUnreferencedByMapping []string      `json:"recipesUnreferencedByMapping"`
}

// Duplicate is a recipe id reached from more than one dish name.
type Duplicate struct {
	ID    string   `json:"id"`
	Names []string `json:"names"`
}

func unmapped(dishes []string, mapping DishMapping) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, d := range dishes {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		if _, ok := mapping[d]; !ok {
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}

// CheckMapping cross-references dish names found in ingredients and holidays against
// the mapping and the recipe list.
func CheckMapping(recipes []Recipe, mapping DishMapping, ingredientDishes, holidayDishes []string) MappingReport {
	ids := make(map[string]bool, len(recipes))
	for _, r := range recipes {
		ids[r.ID] = true
	}

	report := MappingReport{
		TotalRecipes:  len(recipes),
		TotalMappings: len(mapping),
		DishesMissingMapping: MissingByDish{
			Ingredients: unmapped(ingredientDishes, mapping),
			Holidays:    unmapped(holidayDishes, mapping),
		},
		MappedButMissingRecipe:       make([]MappedDish, 0),
		RecipesUnreferencedByMapping: make([]string, 0),
	}

	referenced := make(map[string]bool, len(mapping))
	for dish, id := range mapping {
		referenced[id] = true
		if !ids[id] {
			report.MappedButMissingRecipe = append(report.MappedButMissingRecipe, MappedDish{Dish: dish, ID: id})
		}
	}
	sort.Slice(report.MappedButMissingRecipe, func(i, j int) bool {
		return report.MappedButMissingRecipe[i].Dish < report.MappedButMissingRecipe[j].Dish
	})

	for _, r := range recipes {
		if !referenced[r.ID] {
			report.RecipesUnreferencedByMapping = append(report.RecipesUnreferencedByMapping, r.ID)
		}
	}
	return report
}

// Duplicates lists recipe ids that more than one dish name maps to, sorted by id.
func Duplicates(mapping DishMapping) []Duplicate {
	byID := make(map[string][]string)
	for name, id := range mapping {
		byID[id] = append(byID[id], name)
	}
	out := make([]Duplicate, 0)
	for id, names := range byID {
		if len(names) < 2 {
			continue
		}
		sort.Strings(names)
		out = append(out, Duplicate{ID: id, Names: names})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
