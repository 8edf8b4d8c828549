package bot

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// isFromAdmin — сообщение от администратора бота (по username).
func (b *Bot) isFromAdmin(msg *tgbotapi.Message) bool {
	return msg.From != nil && msg.From.UserName == b.adminUsername
}
