package bot

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const adminHelpText = `/help — Помощь
/reply — Ответить пользователю
/add_to_group — Добавить в группу
/remove_from_group — Удалить из группы
/reset — Сбросить состояние`

func (b *Bot) handleAdminMessage(msg *tgbotapi.Message) {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.adminStartCommand(msg)
			return
		case "help":
			b.adminHelpCommand(msg)
			return
		case "reset":
			b.adminResetCommand(msg)
			return
		case "reply":
			b.adminReplyCommand(msg)
			return
		case "add_to_group":
			b.addToGroupCommand(msg)
			return
		case "remove_from_group":
			b.removeFromGroupCommand(msg)
			return
		}
	}
	b.adminMessage(msg)
}

func (b *Bot) adminStartCommand(msg *tgbotapi.Message) {
	log.Println("Start command from admin")
	if err := b.state.SetAdminChatID(msg.Chat.ID); err != nil {
		log.Printf("Set admin chat id error: %v", err)
		return
	}
	b.setScopedCommands(msg.Chat.ID, adminCommands)
	b.sendText(msg.Chat.ID, adminHelpText)
}

func (b *Bot) adminHelpCommand(msg *tgbotapi.Message) {
	log.Println("Help command from admin")
	b.sendText(msg.Chat.ID, adminHelpText)
}

func (b *Bot) adminResetCommand(msg *tgbotapi.Message) {
	log.Println("Reset command from admin")
	if err := b.state.SetWaitReplyFrom(0); err != nil {
		log.Printf("Clear wait reply error: %v", err)
	}
	if err := b.state.SetCurrentChat(nil); err != nil {
		log.Printf("Clear current chat error: %v", err)
	}
	b.sendText(msg.Chat.ID, "Состояние сброшено.")
}

func (b *Bot) adminReplyCommand(msg *tgbotapi.Message) {
	log.Println("Reply command from admin")
	groupChat, err := b.state.GetGroupChat()
	if err != nil {
		log.Printf("Get group chat error: %v", err)
		return
	}
	if groupChat != nil {
		b.sendHTML(msg.Chat.ID,
			fmt.Sprintf("Принимаю сообщения в группе <b>%s</b>.", groupChat.Title))
		log.Println("Ignore reply command in private chat")
		return
	}
	waitReplyFrom, err := b.state.GetWaitReplyFrom()
	if err != nil {
		log.Printf("Get wait reply error: %v", err)
		return
	}
	if waitReplyFrom != 0 {
		b.sendText(msg.Chat.ID, "Уже жду сообщение.")
		log.Println("Already wait message. Ignore command")
		return
	}
	b.replyMenu(msg.Chat.ID)
}

func (b *Bot) addToGroupCommand(msg *tgbotapi.Message) {
	log.Println("Add to group command from admin")
	groupChat, err := b.state.GetGroupChat()
	if err != nil {
		log.Printf("Get group chat error: %v", err)
		return
	}
	if groupChat != nil {
		b.sendText(msg.Chat.ID, "Уже в группе.")
		return
	}
	link := fmt.Sprintf("tg://resolve?domain=%s&startgroup=startgroup", b.Api.Self.UserName)
	b.sendHTML(msg.Chat.ID,
		fmt.Sprintf(`Для добавления в группу <a href="%s">перейдите по ссылке</a>.`, link))
}

func (b *Bot) removeFromGroupCommand(msg *tgbotapi.Message) {
	log.Println("Remove from group command from admin")
	groupChat, err := b.state.GetGroupChat()
	if err != nil {
		log.Printf("Get group chat error: %v", err)
		return
	}
	if groupChat == nil {
		b.sendText(msg.Chat.ID, "Не в группе.")
		return
	}
	if _, err := b.Api.Request(tgbotapi.LeaveChatConfig{ChatID: groupChat.ID}); err != nil {
		log.Printf("Leave chat error: %v", err)
	}
	b.sendHTML(msg.Chat.ID,
		fmt.Sprintf("Удален из группы <b>%s</b>.", groupChat.Title))
	if err := b.state.SetGroupChat(nil); err != nil {
		log.Printf("Clear group chat error: %v", err)
	}
	if err := b.state.SetCurrentChat(nil); err != nil {
		log.Printf("Clear current chat error: %v", err)
	}
}

// adminMessage — не-командное сообщение администратора: ответ текущему
// пользователю, когда бот его ждет, либо элемент альбома.
func (b *Bot) adminMessage(msg *tgbotapi.Message) {
	log.Println("Message from admin")
	groupChat, err := b.state.GetGroupChat()
	if err != nil {
		log.Printf("Get group chat error: %v", err)
		return
	}
	if groupChat != nil {
		b.sendHTML(msg.Chat.ID,
			fmt.Sprintf("Принимаю сообщения в группе <b>%s</b>.", groupChat.Title))
		log.Println("Ignore message in private chat with admin")
		return
	}
	waitReplyFrom, err := b.state.GetWaitReplyFrom()
	if err != nil {
		log.Printf("Get wait reply error: %v", err)
		return
	}
	if waitReplyFrom == 0 && msg.MediaGroupID == "" {
		log.Println("Ignore message from admin")
		return
	}

	b.sendUserMessage(msg)
	if err := b.state.SetWaitReplyFrom(0); err != nil {
		log.Printf("Clear wait reply error: %v", err)
	}
	if err := b.state.SetCurrentChat(nil); err != nil {
		log.Printf("Clear current chat error: %v", err)
	}
}
