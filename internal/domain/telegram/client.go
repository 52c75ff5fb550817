package telegram

import "gopkg.in/telebot.v3"

// Client sends chat messages. The dispatcher delivers due notifications through it.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}
