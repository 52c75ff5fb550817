// internal/infra/telegram/settings_handlers.go
package telegram

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"seasonal_food_bot/internal/app"
	"seasonal_food_bot/internal/domain/notification"
)

// RegisterSettingsHandlers registers the notification settings commands.
func RegisterSettingsHandlers(ctx context.Context, b *telebot.Bot, settings *app.SettingsService, baseLogger *logrus.Entry) {
	b.Handle("/settings", func(c telebot.Context) error {
		chatID := c.Chat().ID
		handlerLogger := baseLogger.WithFields(logrus.Fields{"handler": "/settings", "chat_id": chatID})
		handlerLogger.Info("Command received")

		setting, err := settings.Load(ctx, chatID)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to load settings")
			return c.Send("설정을 불러오지 못했어요. 잠시 후 다시 시도해 주세요.")
		}
		state, err := settings.Permission(ctx, chatID)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to read permission")
			state = notification.PermissionPrompt
		}
		opts := &telebot.SendOptions{}
		if state != notification.PermissionGranted {
			opts.ReplyMarkup = permissionKeyboard()
		}
		return c.Send(FormatSettings(setting, state), opts)
	})

	b.Handle("/ingredient_alarm", func(c telebot.Context) error {
		args := c.Args()
		if len(args) < 1 || len(args) > 2 {
			return c.Send("사용법: /ingredient_alarm on|off [일]\n예) /ingredient_alarm on 1")
		}
		return updateSetting(ctx, c, settings, baseLogger.WithField("handler", "/ingredient_alarm"), func(s *notification.Setting) error {
			enabled, err := ParseToggle(args[0])
			if err != nil {
				return err
			}
			s.Ingredient.Enabled = enabled
			if len(args) == 2 {
				day, err := ParseDay(args[1])
				if err != nil {
					return err
				}
				s.Ingredient.Day = day
			}
			return nil
		})
	})

	b.Handle("/holiday_alarm", func(c telebot.Context) error {
		args := c.Args()
		if len(args) < 1 || len(args) > 2 {
			return c.Send("사용법: /holiday_alarm on|off [D-n]\n예) /holiday_alarm on D-3")
		}
		return updateSetting(ctx, c, settings, baseLogger.WithField("handler", "/holiday_alarm"), func(s *notification.Setting) error {
			enabled, err := ParseToggle(args[0])
			if err != nil {
				return err
			}
			s.Holiday.Enabled = enabled
			if len(args) == 2 {
				days, err := ParseDaysBefore(args[1])
				if err != nil {
					return err
				}
				s.Holiday.DaysBefore = days
			}
			return nil
		})
	})

	b.Handle("/alarm_time", func(c telebot.Context) error {
		args := c.Args()
		if len(args) != 1 {
			return c.Send("사용법: /alarm_time HH:MM\n예) /alarm_time 08:30")
		}
		return updateSetting(ctx, c, settings, baseLogger.WithField("handler", "/alarm_time"), func(s *notification.Setting) error {
			tod, err := notification.ParseTimeOfDay(args[0])
			if err != nil {
				return err
			}
			s.Ingredient.Time = tod
			s.Holiday.Time = tod
			return nil
		})
	})
}

// updateSetting loads the chat's setting, applies mutate, saves it and reports the outcome.
func updateSetting(ctx context.Context, c telebot.Context, settings *app.SettingsService, handlerLogger *logrus.Entry, mutate func(*notification.Setting) error) error {
	chatID := c.Chat().ID
	handlerLogger = handlerLogger.WithField("chat_id", chatID)
	handlerLogger.Info("Command received")

	setting, err := settings.Load(ctx, chatID)
	if err != nil {
		handlerLogger.WithError(err).Error("Failed to load settings")
		return c.Send("설정을 불러오지 못했어요. 잠시 후 다시 시도해 주세요.")
	}
	if err := mutate(&setting); err != nil {
		handlerLogger.WithError(err).Warn("Invalid command arguments")
		return c.Send("입력 값을 확인해 주세요: " + err.Error())
	}

	result, err := settings.Save(ctx, chatID, setting)
	switch {
	case err == nil:
	case errors.Is(err, app.ErrInvalidSetting):
		handlerLogger.WithError(err).Warn("Setting rejected")
		return c.Send("설정 값이 올바르지 않아요: " + err.Error())
	case errors.Is(err, notification.ErrPermissionDenied):
		handlerLogger.Info("Setting saved, waiting for notification permission")
		state, _ := settings.Permission(ctx, chatID)
		if state == notification.PermissionDenied {
			return c.Send("설정을 저장했어요. 알림 권한이 꺼져 있어 알림은 예약되지 않았어요.",
				&telebot.SendOptions{ReplyMarkup: permissionKeyboard()})
		}
		return c.Send("설정을 저장했어요. 위 메시지에서 '허용하기'를 누르면 알림이 예약돼요.")
	default:
		handlerLogger.WithError(err).Error("Failed to save settings")
		return c.Send("설정을 저장하지 못했어요. 잠시 후 다시 시도해 주세요.")
	}

	state, _ := settings.Permission(ctx, chatID)
	text := FormatSettings(setting, state)
	if result != nil {
		text += fmt.Sprintf("\n\n✅ 예약된 알림 %d개", len(result.Scheduled))
	}
	return c.Send(text)
}
