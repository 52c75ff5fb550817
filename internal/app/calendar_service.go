// internal/app/calendar_service.go
package app

import (
	"context"
	"time"

	"seasonal_food_bot/internal/domain/holiday"
	"seasonal_food_bot/internal/domain/ingredient"
	"seasonal_food_bot/internal/domain/recipe"
	"seasonal_food_bot/internal/domain/season"

	"github.com/sirupsen/logrus"
)

// PeriodView is one period's ingredient list as shown to the user. Unavailable is set
// when reference data could not be loaded; Items is then empty.
type PeriodView struct {
	Period      season.Period
	Items       []ingredient.Ingredient
	Unavailable bool
}

// DishLink is a dish name with its recipe id, if one is mapped.
type DishLink struct {
	Dish     string
	RecipeID string
}

type IngredientDetail struct {
	Ingredient ingredient.Ingredient
	Dishes     []DishLink
}

type HolidayDetail struct {
	Holiday holiday.Resolved
	Foods   []DishLink
}

// CalendarService builds the read-only browsing views.
type CalendarService struct {
	catalog  Catalog
	clock    func() time.Time
	location *time.Location
	logger   *logrus.Entry
}

func NewCalendarService(catalog Catalog, clock func() time.Time, location *time.Location, logger *logrus.Entry) *CalendarService {
	if clock == nil {
		clock = time.Now
	}
	if location == nil {
		location = time.Local
	}
	return &CalendarService{catalog: catalog, clock: clock, location: location, logger: logger}
}

func (s *CalendarService) now() time.Time {
	return s.clock().In(s.location)
}

// CurrentPeriod is the period today falls in.
func (s *CalendarService) CurrentPeriod() season.Period {
	return season.PeriodOf(s.now())
}

func (s *CalendarService) ingredients(ctx context.Context) ([]ingredient.Ingredient, bool) {
	items, err := s.catalog.Ingredients(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Ingredient data unavailable")
		return nil, false
	}
	return items, true
}

// Period lists the ingredients of one period, filtered by searchText, with repeated
// display names removed.
func (s *CalendarService) Period(ctx context.Context, p season.Period, searchText string) PeriodView {
	items, ok := s.ingredients(ctx)
	if !ok {
		return PeriodView{Period: p, Items: []ingredient.Ingredient{}, Unavailable: true}
	}
	return PeriodView{Period: p, Items: ingredient.DedupeByName(ingredient.Query(items, searchText, p.Key()))}
}

// Today is the period view for the current date.
func (s *CalendarService) Today(ctx context.Context) PeriodView {
	return s.Period(ctx, s.CurrentPeriod(), "")
}

// Search returns every period with at least one hit, in calendar order.
func (s *CalendarService) Search(ctx context.Context, searchText string) ([]PeriodView, bool) {
	items, ok := s.ingredients(ctx)
	if !ok {
		return nil, false
	}
	var views []PeriodView
	for _, p := range season.All() {
		found := ingredient.DedupeByName(ingredient.Query(items, searchText, p.Key()))
		if len(found) == 0 {
			continue
		}
		views = append(views, PeriodView{Period: p, Items: found})
	}
	return views, true
}

// UpcomingHoliday returns the soonest holiday on or after today. The second value is
// false when there is none, the third is false when holiday data is unavailable.
func (s *CalendarService) UpcomingHoliday(ctx context.Context) (HolidayDetail, bool, bool) {
	holidays, err := s.catalog.Holidays(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Holiday data unavailable")
		return HolidayDetail{}, false, false
	}
	next, found := holiday.Upcoming(holidays, s.now())
	if !found {
		return HolidayDetail{}, false, true
	}

	mapping := s.mapping(ctx)
	detail := HolidayDetail{Holiday: next}
	for _, f := range next.Details.Foods {
		id, _ := mapping.RecipeID(f.Name)
		detail.Foods = append(detail.Foods, DishLink{Dish: f.Name, RecipeID: id})
	}
	return detail, true, true
}

// DaysUntil counts days from today to a resolved holiday.
func (s *CalendarService) DaysUntil(r holiday.Resolved) int {
	return r.DaysUntil(s.now())
}

func (s *CalendarService) mapping(ctx context.Context) recipe.DishMapping {
	mapping, err := s.catalog.DishMapping(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Dish mapping unavailable, dishes will not link to recipes")
		return recipe.DishMapping{}
	}
	return mapping
}

// Ingredient returns the detail of an ingredient by display name.
func (s *CalendarService) Ingredient(ctx context.Context, name string) (IngredientDetail, bool) {
	items, ok := s.ingredients(ctx)
	if !ok {
		return IngredientDetail{}, false
	}
	it, found := ingredient.FindByName(items, name)
	if !found {
		return IngredientDetail{}, false
	}
	mapping := s.mapping(ctx)
	detail := IngredientDetail{Ingredient: it}
	for _, dish := range it.PopularDishes() {
		id, _ := mapping.RecipeID(dish)
		detail.Dishes = append(detail.Dishes, DishLink{Dish: dish, RecipeID: id})
	}
	return detail, true
}

// Recipe looks a recipe up by id, dish name or recipe name.
func (s *CalendarService) Recipe(ctx context.Context, query string) (recipe.Recipe, bool) {
	recipes, err := s.catalog.Recipes(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Recipe data unavailable")
		return recipe.Recipe{}, false
	}
	return recipe.Lookup(recipes, s.mapping(ctx), query)
}
