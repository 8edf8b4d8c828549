package bot

import (
	"errors"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"feedback_bot/internal/pkg/state/domain"
)

// sendUserMessage доставляет сообщение оператора текущему пользователю.
// Элементы альбома уходят в форвардер: первый — с чатом назначения,
// остальные, когда текущий пользователь уже сброшен, — как догоняющие
// элементы уже идущей сборки.
func (b *Bot) sendUserMessage(msg *tgbotapi.Message) {
	currentChat, err := b.state.GetCurrentChat()
	if err != nil {
		log.Printf("Get current chat error: %v", err)
		return
	}
	if currentChat == nil && msg.MediaGroupID != "" {
		if err := b.forwarder.AddMessage(msg, 0, false); err != nil {
			log.Printf("Add media group item error: %v", err)
			return
		}
		log.Println("Add next media group item to forwarder")
		return
	}
	if currentChat == nil {
		b.sendText(msg.Chat.ID, "Нет текущего пользователя")
		log.Println("Skip message to user: no current user")
		return
	}

	stopped, err := b.state.GetStopped(currentChat.ID)
	if err != nil {
		log.Printf("Get stopped error: %v", err)
		return
	}
	if stopped != nil {
		b.sendHTML(msg.Chat.ID, domainChatLink(*currentChat)+" меня заблокировал "+
			stopped.DateTime.Format(stoppedTimeLayout)+".")
		return
	}

	if msg.MediaGroupID != "" {
		if err := b.forwarder.AddMessage(msg, currentChat.ID, false); err != nil {
			log.Printf("Add media group item error: %v", err)
			return
		}
		log.Println("Add first media group item to forwarder")
		return
	}

	log.Printf("Send message to chat %d", currentChat.ID)
	copyMsg := tgbotapi.NewCopyMessage(currentChat.ID, msg.Chat.ID, msg.MessageID)
	if _, err := b.Api.CopyMessage(copyMsg); err != nil {
		if isBlockedByUser(err) {
			b.markBlocked(currentChat, msg.Chat.ID)
			return
		}
		log.Printf("Copy message error: %v", err)
		return
	}
	b.sendHTML(msg.Chat.ID, "Сообщение отправлено "+domainChatLink(*currentChat)+".")
}

// markBlocked фиксирует блокировку бота пользователем и сообщает об
// этом отправителю.
func (b *Bot) markBlocked(currentChat *domain.Chat, notifyChatID int64) {
	if err := b.state.RemoveChatFromList(currentChat.ID); err != nil {
		log.Printf("Remove chat from list error: %v", err)
	}
	stopped := domain.Stopped{DateTime: time.Now(), Blocked: true}
	if err := b.state.SetStopped(currentChat.ID, stopped); err != nil {
		log.Printf("Set stopped error: %v", err)
	}
	b.sendHTML(notifyChatID, domainChatLink(*currentChat)+" меня заблокировал.")
	log.Printf("Blocked by user %d", currentChat.ID)
}

// isBlockedByUser — Telegram вернул 403: пользователь заблокировал бота.
func isBlockedByUser(err error) bool {
	var tgErr *tgbotapi.Error
	return errors.As(err, &tgErr) && tgErr.Code == 403
}
