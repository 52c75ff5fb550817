// internal/infra/telegram/client.go
package telegram

import (
	"context"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends a text message to the specified chat.
func (tba *TelebotAdapter) SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error {
	if options == nil {
		options = &telebot.SendOptions{}
	}
	_, err := tba.bot.Send(telebot.ChatID(recipientChatID), text, options)
	return err
}

const (
	callbackPermissionAllow = "perm_allow"
	callbackPermissionLater = "perm_later"
	callbackPeriodPrefix    = "period_"
	callbackRecipePrefix    = "recipe_"
)

const permissionPromptText = "🔔 제철 식재료와 명절 알림을 받으시겠어요?\n알림을 허용하면 설정한 날짜와 시간에 메시지를 보내 드려요."

func permissionKeyboard() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{{
		{Text: "허용하기", Data: callbackPermissionAllow},
		{Text: "나중에", Data: callbackPermissionLater},
	}}
	return markup
}

// PromptPermission sends the permission question with its two answer buttons.
func (tba *TelebotAdapter) PromptPermission(ctx context.Context, chatID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return tba.SendMessage(chatID, permissionPromptText, &telebot.SendOptions{ReplyMarkup: permissionKeyboard()})
}
