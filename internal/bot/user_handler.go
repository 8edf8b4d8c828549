package bot

import (
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"feedback_bot/internal/pkg/state/domain"
	"feedback_bot/internal/pkg/tghtml"
)

const userHelpText = `Пришлите сообщение или задайте вопрос.

Также вы можете использовать следующие команды:
/help — Помощь
/stop — Остановить и не получать больше сообщения`

func (b *Bot) handleUserMessage(msg *tgbotapi.Message) {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.userStartCommand(msg)
			return
		case "help":
			b.userHelpCommand(msg)
			return
		case "stop":
			b.userStopCommand(msg)
			return
		}
		// Неизвестные команды пересылаются оператору как обычный текст.
	}
	b.userMessage(msg)
}

func (b *Bot) userStartCommand(msg *tgbotapi.Message) {
	log.Printf("Start command from user %d", msg.From.ID)
	b.welcomeBackIfStopped(msg.Chat.ID)

	chat := chatToDomain(msg.Chat)
	if err := b.state.SaveChat(&chat); err != nil {
		log.Printf("Save chat error: %v", err)
	}
	b.sendText(msg.Chat.ID, userHelpText)
}

func (b *Bot) userHelpCommand(msg *tgbotapi.Message) {
	log.Printf("Help command from user %d", msg.From.ID)
	b.sendText(msg.Chat.ID, userHelpText)
}

func (b *Bot) userStopCommand(msg *tgbotapi.Message) {
	log.Printf("Stop command from user %d", msg.From.ID)
	userChatID := msg.From.ID

	stopped := domain.Stopped{DateTime: time.Now()}
	if err := b.state.SetStopped(userChatID, stopped); err != nil {
		log.Printf("Set stopped error: %v", err)
		return
	}
	if err := b.state.RemoveChatFromList(userChatID); err != nil {
		log.Printf("Remove chat from list error: %v", err)
	}

	notifyChatID, err := b.operatorChatID()
	if err != nil {
		log.Printf("Get operator chat error: %v", err)
		return
	}
	if notifyChatID == 0 {
		log.Println("Admin chat id is not set")
		return
	}
	b.sendHTML(notifyChatID, tghtml.UserLink(msg.From)+" меня заблокировал "+
		stopped.DateTime.Format(stoppedTimeLayout)+".")

	current, err := b.state.GetCurrentChat()
	if err != nil {
		log.Printf("Get current chat error: %v", err)
		return
	}
	if current != nil && current.ID == userChatID {
		if err := b.state.SetWaitReplyFrom(0); err != nil {
			log.Printf("Clear wait reply error: %v", err)
		}
		if err := b.state.SetCurrentChat(nil); err != nil {
			log.Printf("Clear current chat error: %v", err)
		}
	}
}

// userMessage пересылает сообщение пользователя оператору: в группу,
// если бот в нее добавлен, иначе в личный чат администратора.
func (b *Bot) userMessage(msg *tgbotapi.Message) {
	log.Printf("Message from user %d", msg.From.ID)

	chat := chatToDomain(msg.Chat)
	if err := b.state.SaveChat(&chat); err != nil {
		log.Printf("Save chat error: %v", err)
	}
	b.welcomeBackIfStopped(msg.Chat.ID)

	forwardChatID, err := b.operatorChatID()
	if err != nil {
		log.Printf("Get operator chat error: %v", err)
		return
	}
	if forwardChatID == 0 {
		b.sendText(msg.From.ID, "Что-то сломалось внутри бота.")
		log.Println("Admin chat id is not set")
		return
	}

	// Пересланные аудио и стикеры не показывают отправителя,
	// поэтому перед ними уходит отдельная строка «От кого».
	if msg.Audio != nil || msg.Sticker != nil {
		b.sendHTML(forwardChatID, "От "+tghtml.ChatLink(msg.Chat))
	}

	if msg.MediaGroupID != "" {
		if err := b.forwarder.AddMessage(msg, forwardChatID, true); err != nil {
			log.Printf("Add media group item error: %v", err)
		}
	} else {
		forward := tgbotapi.NewForward(forwardChatID, msg.Chat.ID, msg.MessageID)
		b.send(forward)
	}

	if err := b.state.AddChatToList(chat); err != nil {
		log.Printf("Add chat to list error: %v", err)
	}
}

// welcomeBackIfStopped снимает отметку /stop и приветствует вернувшегося.
func (b *Bot) welcomeBackIfStopped(chatID int64) {
	stopped, err := b.state.GetStopped(chatID)
	if err != nil {
		log.Printf("Get stopped error: %v", err)
		return
	}
	if stopped == nil {
		return
	}
	if err := b.state.DeleteStopped(chatID); err != nil {
		log.Printf("Delete stopped error: %v", err)
		return
	}
	b.sendText(chatID, "С возвращением!")
}

// operatorChatID — чат назначения для сообщений пользователей:
// привязанная группа либо личный чат администратора (0, если ни того,
// ни другого).
func (b *Bot) operatorChatID() (int64, error) {
	groupChat, err := b.state.GetGroupChat()
	if err != nil {
		return 0, err
	}
	if groupChat != nil {
		return groupChat.ID, nil
	}
	return b.state.GetAdminChatID()
}
