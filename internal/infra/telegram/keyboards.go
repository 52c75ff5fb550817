package telegram

import (
	"strconv"

	"gopkg.in/telebot.v3"

	"seasonal_food_bot/internal/app"
	"seasonal_food_bot/internal/domain/season"
)

// periodKeyboard links to the neighbouring periods, wrapping around the year.
func periodKeyboard(p season.Period) *telebot.ReplyMarkup {
	idx := p.Index()
	prev, _ := season.FromIndex((idx + season.PeriodCount - 1) % season.PeriodCount)
	next, _ := season.FromIndex((idx + 1) % season.PeriodCount)

	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{{
		{Text: "◀ " + prev.Label(), Data: callbackPeriodPrefix + strconv.Itoa(prev.Index())},
		{Text: next.Label() + " ▶", Data: callbackPeriodPrefix + strconv.Itoa(next.Index())},
	}}
	return markup
}

// recipeKeyboard has one button per dish that maps to a recipe. It returns nil when
// no dish has one.
func recipeKeyboard(links []app.DishLink) *telebot.ReplyMarkup {
	var rows [][]telebot.InlineButton
	seen := make(map[string]bool)
	for _, l := range links {
		if l.RecipeID == "" || seen[l.RecipeID] {
			continue
		}
		seen[l.RecipeID] = true
		rows = append(rows, []telebot.InlineButton{{Text: "🍳 " + l.Dish, Data: callbackRecipePrefix + l.RecipeID}})
	}
	if len(rows) == 0 {
		return nil
	}
	return &telebot.ReplyMarkup{InlineKeyboard: rows}
}
