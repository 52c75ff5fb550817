// internal/domain/recipe/recipe.go
package recipe

import "strings"

type Amount struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type Step struct {
	Step        int    `json:"step"`
	Description string `json:"description"`
}

// Recipe is a reference record from data/recipes.json.
type Recipe struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Servings    int      `json:"servings"`
	CookTime    string   `json:"cookTime"`
	Difficulty  string   `json:"difficulty"`
	Ingredients []Amount `json:"ingredients"`
	Seasoning   []Amount `json:"seasoning,omitempty"`
	Steps       []Step   `json:"steps"`
	Tips        []string `json:"tips,omitempty"`
}

// DishMapping maps a dish name as written in ingredient and holiday records to a recipe id.
// Several dish spellings may point at the same recipe.
type DishMapping map[string]string

// RecipeID returns the mapped recipe id for a dish name.
func (m DishMapping) RecipeID(dish string) (string, bool) {
	id, ok := m[strings.TrimSpace(dish)]
	return id, ok
}

// FindByID returns the recipe with the given id.
func FindByID(recipes []Recipe, id string) (Recipe, bool) {
	id = strings.TrimSpace(id)
	for _, r := range recipes {
		if r.ID == id {
			return r, true
		}
	}
	return Recipe{}, false
}

// Lookup resolves a user query as a recipe id first, then as a mapped dish name,
// then as an exact recipe name.
func Lookup(recipes []Recipe, mapping DishMapping, query string) (Recipe, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Recipe{}, false
	}
	if r, ok := FindByID(recipes, query); ok {
		return r, true
	}
	if id, ok := mapping.RecipeID(query); ok {
		if r, ok := FindByID(recipes, id); ok {
			return r, true
		}
	}
	for _, r := range recipes {
		if r.Name == query {
			return r, true
		}
	}
	return Recipe{}, false
}
