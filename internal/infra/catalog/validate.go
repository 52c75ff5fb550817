package catalog

import (
	"context"
	"errors"

	"seasonal_food_bot/internal/domain/holiday"
	"seasonal_food_bot/internal/domain/ingredient"
	"seasonal_food_bot/internal/domain/recipe"
)

// FileReport is the parse result of one reference file.
type FileReport struct {
	File    string `json:"file"`
	OK      bool   `json:"ok"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func report(file string, records int, err error) FileReport {
	if err == nil {
		return FileReport{File: file, OK: true, Records: records}
	}
	r := FileReport{File: file, Error: err.Error()}
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		r.Line, r.Column = syntaxErr.Line, syntaxErr.Column
	}
	return r
}

// Validate parses every reference file and reports each one separately.
func Validate(ctx context.Context, dir string) []FileReport {
	ingredients, err := readFile[[]ingredient.Ingredient](ctx, dir, IngredientsFile)
	reports := []FileReport{report(IngredientsFile, len(ingredients), err)}

	holidays, err := readFile[[]holiday.Holiday](ctx, dir, HolidaysFile)
	reports = append(reports, report(HolidaysFile, len(holidays), err))

	recipes, err := readFile[[]recipe.Recipe](ctx, dir, RecipesFile)
	reports = append(reports, report(RecipesFile, len(recipes), err))

	mapping, err := readFile[recipe.DishMapping](ctx, dir, DishMappingFile)
	reports = append(reports, report(DishMappingFile, len(mapping), err))

	return reports
}
