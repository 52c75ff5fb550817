// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const helpText = `🥦 제철 알리미 사용법

/today - 지금 시기의 제철 식재료
/period <월> <초순|중순|하순> - 특정 시기의 제철 식재료
/search <검색어> - 제철 식재료 검색
/ingredient <이름> - 식재료 상세 정보
/holiday - 다가오는 명절
/recipe <요리명> - 레시피 보기
/settings - 알림 설정 보기
/ingredient_alarm on|off [일] - 매월 제철 식재료 알림
/holiday_alarm on|off [D-n] - 명절 알림
/alarm_time HH:MM - 알림 시간
/help - 이 도움말`

func RegisterBotCommands(b *telebot.Bot, baseLogger *logrus.Entry) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		startHelpLogger.WithFields(logrus.Fields{"command": "/start", "chat_id": c.Chat().ID}).Info("Processing /start command")
		name := ""
		if c.Sender() != nil {
			name = c.Sender().FirstName
		}
		return c.Send("안녕하세요 " + name + "님! 제철 식재료와 명절 음식을 알려 드리는 제철 알리미예요.\n\n" + helpText)
	})

	b.Handle("/help", func(c telebot.Context) error {
		startHelpLogger.WithFields(logrus.Fields{"command": "/help", "chat_id": c.Chat().ID}).Info("Processing /help command")
		return c.Send(helpText)
	})
}
