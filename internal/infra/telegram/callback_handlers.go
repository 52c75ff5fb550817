// internal/infra/telegram/callback_handlers.go
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"seasonal_food_bot/internal/app"
	"seasonal_food_bot/internal/domain/season"
)

// RegisterCallbackHandlers dispatches every inline button press by its data prefix.
func RegisterCallbackHandlers(ctx context.Context, b *telebot.Bot, calendar *app.CalendarService, settings *app.SettingsService, baseLogger *logrus.Entry) {
	b.Handle(telebot.OnCallback, func(c telebot.Context) error {
		data := c.Callback().Data
		chatID := c.Chat().ID
		handlerLogger := baseLogger.WithFields(logrus.Fields{"callback": data, "chat_id": chatID})

		switch {
		case data == callbackPermissionAllow || data == callbackPermissionLater:
			granted := data == callbackPermissionAllow
			if err := settings.AnswerPermission(ctx, chatID, granted); err != nil {
				c.Bot().OnError(fmt.Errorf("error recording permission answer for chat %d: %w", chatID, err), c)
				return c.Respond(&telebot.CallbackResponse{Text: "처리 중 오류가 발생했어요."})
			}
			handlerLogger.WithField("granted", granted).Info("Permission answered")
			if granted {
				_ = c.Edit("🔔 알림이 허용되었어요. /settings 에서 알림을 설정할 수 있어요.")
				return c.Respond(&telebot.CallbackResponse{Text: "알림 허용"})
			}
			_ = c.Edit("알림을 나중에 설정할 수 있어요. /settings")
			return c.Respond()

		case strings.HasPrefix(data, callbackPeriodPrefix):
			idx, err := strconv.Atoi(strings.TrimPrefix(data, callbackPeriodPrefix))
			if err != nil {
				c.Bot().OnError(fmt.Errorf("invalid period index in callback %q: %w", data, err), c)
				return c.Respond(&telebot.CallbackResponse{Text: "잘못된 요청이에요."})
			}
			p, err := season.FromIndex(idx)
			if err != nil {
				c.Bot().OnError(err, c)
				return c.Respond(&telebot.CallbackResponse{Text: "잘못된 요청이에요."})
			}
			if err := c.Edit(FormatPeriod(calendar.Period(ctx, p, "")), &telebot.SendOptions{ReplyMarkup: periodKeyboard(p)}); err != nil {
				handlerLogger.WithError(err).Warn("Failed to edit period message")
			}
			return c.Respond()

		case strings.HasPrefix(data, callbackRecipePrefix):
			id := strings.TrimPrefix(data, callbackRecipePrefix)
			r, ok := calendar.Recipe(ctx, id)
			if !ok {
				return c.Respond(&telebot.CallbackResponse{Text: "레시피를 찾지 못했어요."})
			}
			if err := c.Send(FormatRecipe(r)); err != nil {
				return err
			}
			return c.Respond()
		}

		c.Bot().OnError(fmt.Errorf("unhandled callback data: %s", data), c)
		return c.Respond(&telebot.CallbackResponse{Text: "알 수 없는 요청이에요."})
	})
}
