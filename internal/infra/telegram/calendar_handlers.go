// internal/infra/telegram/calendar_handlers.go
package telegram

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"seasonal_food_bot/internal/app"
)

// RegisterCalendarHandlers registers the read-only browsing commands.
func RegisterCalendarHandlers(ctx context.Context, b *telebot.Bot, calendar *app.CalendarService, baseLogger *logrus.Entry) {
	logFor := func(c telebot.Context, command string) *logrus.Entry {
		return baseLogger.WithFields(logrus.Fields{"handler": command, "chat_id": c.Chat().ID})
	}

	b.Handle("/today", func(c telebot.Context) error {
		logFor(c, "/today").Info("Command received")
		view := calendar.Today(ctx)
		text := FormatPeriod(view)
		if detail, found, available := calendar.UpcomingHoliday(ctx); found && available {
			text += "\n\n" + FormatHolidayBanner(detail, calendar.DaysUntil(detail.Holiday))
		}
		return c.Send(text, &telebot.SendOptions{ReplyMarkup: periodKeyboard(view.Period)})
	})

	b.Handle("/period", func(c telebot.Context) error {
		handlerLogger := logFor(c, "/period")
		p, err := ParsePeriodArgs(c.Args())
		if err != nil {
			handlerLogger.WithError(err).Warn("Invalid command format")
			return c.Send("사용법: /period <월> <초순|중순|하순>\n예) /period 3 초순")
		}
		handlerLogger.WithField("period", p.Key()).Info("Command received")
		return c.Send(FormatPeriod(calendar.Period(ctx, p, "")), &telebot.SendOptions{ReplyMarkup: periodKeyboard(p)})
	})

	b.Handle("/search", func(c telebot.Context) error {
		query := strings.TrimSpace(c.Message().Payload)
		handlerLogger := logFor(c, "/search").WithField("query", query)
		if query == "" {
			return c.Send("사용법: /search <검색어>")
		}
		handlerLogger.Info("Command received")
		views, ok := calendar.Search(ctx, query)
		if !ok {
			return c.Send(dataUnavailableText)
		}
		return c.Send(FormatSearch(query, views))
	})

	b.Handle("/ingredient", func(c telebot.Context) error {
		name := strings.TrimSpace(c.Message().Payload)
		logFor(c, "/ingredient").WithField("name", name).Info("Command received")
		if name == "" {
			return c.Send("사용법: /ingredient <이름>")
		}
		detail, ok := calendar.Ingredient(ctx, name)
		if !ok {
			return c.Send("'" + name + "' 식재료를 찾지 못했어요.")
		}
		opts := &telebot.SendOptions{}
		if kb := recipeKeyboard(detail.Dishes); kb != nil {
			opts.ReplyMarkup = kb
		}
		return c.Send(FormatIngredient(detail), opts)
	})

	b.Handle("/holiday", func(c telebot.Context) error {
		logFor(c, "/holiday").Info("Command received")
		detail, found, available := calendar.UpcomingHoliday(ctx)
		if !available {
			return c.Send(dataUnavailableText)
		}
		if !found {
			return c.Send("다가오는 명절 정보가 없어요.")
		}
		opts := &telebot.SendOptions{}
		if kb := recipeKeyboard(detail.Foods); kb != nil {
			opts.ReplyMarkup = kb
		}
		return c.Send(FormatHolidayDetail(detail, calendar.DaysUntil(detail.Holiday)), opts)
	})

	b.Handle("/recipe", func(c telebot.Context) error {
		query := strings.TrimSpace(c.Message().Payload)
		logFor(c, "/recipe").WithField("query", query).Info("Command received")
		if query == "" {
			return c.Send("사용법: /recipe <요리명>")
		}
		r, ok := calendar.Recipe(ctx, query)
		if !ok {
			return c.Send("'" + query + "' 레시피를 찾지 못했어요.")
		}
		return c.Send(FormatRecipe(r))
	})
}
