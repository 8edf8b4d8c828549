package bot

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"feedback_bot/internal/pkg/state/domain"
)

const (
	replyPrefix      = "reply"
	replyMenuColumns = 2
)

func replyCallbackData(chatID int64) string {
	return fmt.Sprintf("%s|%d", replyPrefix, chatID)
}

func parseReplyCallbackData(data string) (int64, bool) {
	parts := strings.Split(data, "|")
	if len(parts) != 2 || parts[0] != replyPrefix {
		return 0, false
	}
	chatID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return chatID, true
}

// replyMenuRows раскладывает недавние чаты по кнопкам, по две в ряд.
func replyMenuRows(chats []domain.Chat) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for start := 0; start < len(chats); start += replyMenuColumns {
		end := start + replyMenuColumns
		if end > len(chats) {
			end = len(chats)
		}
		var row []tgbotapi.InlineKeyboardButton
		for _, chat := range chats[start:end] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(
				domainChatName(chat), replyCallbackData(chat.ID)))
		}
		rows = append(rows, row)
	}
	return rows
}

// replyMenu показывает меню выбора пользователя для ответа.
func (b *Bot) replyMenu(chatID int64) {
	chatList, err := b.state.ChatList()
	if err != nil {
		log.Printf("Get chat list error: %v", err)
		return
	}
	if len(chatList) == 0 {
		b.sendText(chatID, "Некому отвечать.")
		return
	}
	msg := tgbotapi.NewMessage(chatID, "Выберите пользователя для ответа.")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(replyMenuRows(chatList)...)
	b.send(msg)
}

// handleReplyCallback обрабатывает выбор пользователя в меню ответа:
// запоминает, от кого ждать сообщение и кому его доставить.
func (b *Bot) handleReplyCallback(query *tgbotapi.CallbackQuery) {
	log.Printf("Reply callback query from %d", query.From.ID)
	if _, err := b.Api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("Answer callback query error: %v", err)
	}
	if query.Message == nil {
		log.Println("Skip callback query without message")
		return
	}

	currentChatID, ok := parseReplyCallbackData(query.Data)
	if !ok {
		log.Printf("Skip callback query with unexpected data %q", query.Data)
		return
	}

	editText := func(text string, html bool) {
		edit := tgbotapi.NewEditMessageText(
			query.Message.Chat.ID, query.Message.MessageID, text)
		if html {
			edit.ParseMode = tgbotapi.ModeHTML
			edit.DisableWebPagePreview = true
		}
		if _, err := b.Api.Send(edit); err != nil {
			log.Printf("Edit message error: %v", err)
		}
	}

	currentChat, err := b.state.GetChat(currentChatID)
	if err != nil {
		log.Printf("Get chat error: %v", err)
		return
	}
	if currentChat == nil {
		editText("Ошибка. Сообщение не отправить.", false)
		log.Printf("Skip message sending to unknown user %d", currentChatID)
		return
	}

	stopped, err := b.state.GetStopped(currentChatID)
	if err != nil {
		log.Printf("Get stopped error: %v", err)
		return
	}
	if stopped != nil {
		editText(domainChatLink(*currentChat)+" меня заблокировал "+
			stopped.DateTime.Format(stoppedTimeLayout)+".", true)
		return
	}

	if err := b.state.SetWaitReplyFrom(query.From.ID); err != nil {
		log.Printf("Set wait reply error: %v", err)
		return
	}
	if err := b.state.SetCurrentChat(currentChat); err != nil {
		log.Printf("Set current chat error: %v", err)
		return
	}
	editText(fmt.Sprintf("Введите сообщение для %s.", domainChatLink(*currentChat)), true)
}
