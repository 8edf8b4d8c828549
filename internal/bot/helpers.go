package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"feedback_bot/internal/pkg/state/domain"
	"feedback_bot/internal/pkg/tghtml"
)

// stoppedTimeLayout — формат времени в сообщениях о блокировке.
const stoppedTimeLayout = "2006-01-02 15:04:05 MST"

func chatToDomain(chat *tgbotapi.Chat) domain.Chat {
	return domain.Chat{
		ID:        chat.ID,
		Type:      chat.Type,
		Title:     chat.Title,
		Username:  chat.UserName,
		FirstName: chat.FirstName,
		LastName:  chat.LastName,
	}
}

func domainChatName(chat domain.Chat) string {
	return tghtml.Name(chat.Title, chat.FirstName, chat.LastName)
}

func domainChatLink(chat domain.Chat) string {
	return tghtml.Link(chat.ID, domainChatName(chat))
}
