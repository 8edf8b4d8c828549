package tghtml

import (
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Name возвращает отображаемое имя: заголовок для групп,
// имя и фамилию для личных чатов.
func Name(title, firstName, lastName string) string {
	if title != "" {
		return title
	}
	if lastName != "" {
		return firstName + " " + lastName
	}
	return firstName
}

// Link строит HTML-ссылку на пользователя вида tg://user?id=...
func Link(id int64, name string) string {
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, id, html.EscapeString(name))
}

func ChatName(chat *tgbotapi.Chat) string {
	return Name(chat.Title, chat.FirstName, chat.LastName)
}

func ChatLink(chat *tgbotapi.Chat) string {
	return Link(chat.ID, ChatName(chat))
}

func UserName(user *tgbotapi.User) string {
	return Name("", user.FirstName, user.LastName)
}

func UserLink(user *tgbotapi.User) string {
	return Link(user.ID, UserName(user))
}
