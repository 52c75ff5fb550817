// internal/domain/ingredient/ingredient.go
package ingredient

import (
	"strings"

	"seasonal_food_bot/internal/domain/season"
)

// Category groups ingredients for display ordering.
type Category string

const (
	CategorySeafood   Category = "해산물"
	CategoryVegetable Category = "채소"
	CategoryFruit     Category = "과일"
	CategoryOther     Category = "기타"
)

// unrankedCategory is the rank of any category missing from categoryRank.
const unrankedCategory = 99

var categoryRank = map[Category]int{
	CategorySeafood:   1,
	CategoryVegetable: 2,
	CategoryFruit:     3,
	CategoryOther:     4,
}

// Rank returns the sort rank of a category; unlisted categories sort last.
func (c Category) Rank() int {
	if r, ok := categoryRank[c]; ok {
		return r
	}
	return unrankedCategory
}

// Ingredient is an immutable reference record loaded from data/ingredients.json.
// It has no numeric id; identity is the display name.
type Ingredient struct {
	Name                string          `json:"name_ko"`
	Description         string          `json:"description_ko"`
	Category            Category        `json:"category"`
	Periods             []season.Period `json:"periods"`
	Image               string          `json:"image,omitempty"`
	CaloriesPer100g     float64         `json:"calories_per_100g,omitempty"`
	CaloriesPerServing  string          `json:"calories_per_serving,omitempty"`
	Preparation         string          `json:"preparation_ko,omitempty"`
	StorageRoomTemp     string          `json:"storage_room_temp,omitempty"`
	StorageRefrigerator string          `json:"storage_refrigerator,omitempty"`
	StorageFreezer      string          `json:"storage_freezer,omitempty"`
	PopularDish         string          `json:"popular_dish,omitempty"`
	ExternalURL         string          `json:"external_url,omitempty"`
}

// InPeriod reports whether the ingredient is in season during the period with the given key.
func (i Ingredient) InPeriod(periodKey string) bool {
	for _, p := range i.Periods {
		if p.Key() == periodKey {
			return true
		}
	}
	return false
}

// InMonth reports whether any of the ingredient's periods falls in month.
func (i Ingredient) InMonth(month int) bool {
	for _, p := range i.Periods {
		if p.Month == month {
			return true
		}
	}
	return false
}

// PopularDishes splits the comma separated dish list, keeping its order.
func (i Ingredient) PopularDishes() []string {
	if strings.TrimSpace(i.PopularDish) == "" {
		return nil
	}
	var dishes []string
	for _, d := range strings.Split(i.PopularDish, ",") {
		if d = strings.TrimSpace(d); d != "" {
			dishes = append(dishes, d)
		}
	}
	return dishes
}

// HasStorageNotes reports whether any storage method is known.
func (i Ingredient) HasStorageNotes() bool {
	return i.StorageRoomTemp != "" || i.StorageRefrigerator != "" || i.StorageFreezer != ""
}
