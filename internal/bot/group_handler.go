package bot

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"feedback_bot/internal/pkg/tghtml"
)

const groupHelpText = `/help — Помощь
/reply — Ответить пользователю`

func (b *Bot) handleGroupMessage(msg *tgbotapi.Message) {
	if msg.NewChatMembers != nil {
		b.groupNewMembers(msg)
		return
	}
	if msg.LeftChatMember != nil {
		b.groupLeftMember(msg)
		return
	}
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			if b.isFromAdmin(msg) {
				b.groupStartCommand(msg)
				return
			}
		case "help":
			b.groupHelpCommand(msg)
			return
		case "reply":
			b.groupReplyCommand(msg)
			return
		}
	}
	b.groupMessage(msg)
}

// groupStartCommand привязывает бота к группе. Привязка одна: повторный
// /start в другой группе игнорируется.
func (b *Bot) groupStartCommand(msg *tgbotapi.Message) {
	log.Printf("Start in group command from %d", msg.From.ID)
	groupChat, err := b.state.GetGroupChat()
	if err != nil {
		log.Printf("Get group chat error: %v", err)
		return
	}
	if groupChat != nil {
		log.Printf("Attempt start in group %d", msg.Chat.ID)
		return
	}

	chat := chatToDomain(msg.Chat)
	if err := b.state.SetGroupChat(&chat); err != nil {
		log.Printf("Set group chat error: %v", err)
		return
	}
	if err := b.state.SetCurrentChat(nil); err != nil {
		log.Printf("Clear current chat error: %v", err)
	}
	b.setScopedCommands(msg.Chat.ID, groupCommands)

	adminChatID, err := b.state.GetAdminChatID()
	if err != nil {
		log.Printf("Get admin chat id error: %v", err)
		return
	}
	if adminChatID == 0 {
		b.sendText(msg.From.ID, "Что-то сломалось внутри бота.")
		log.Println("Admin chat id is not set")
		return
	}
	b.sendHTML(adminChatID, fmt.Sprintf("Запущен в <b>%s</b>.", msg.Chat.Title))
	log.Printf("Started in group %d", msg.Chat.ID)
}

func (b *Bot) groupHelpCommand(msg *tgbotapi.Message) {
	log.Printf("Help command in group from %d", msg.From.ID)
	b.sendText(msg.Chat.ID, groupHelpText)
}

func (b *Bot) groupReplyCommand(msg *tgbotapi.Message) {
	log.Printf("Reply in group command from %d", msg.From.ID)
	groupChat, err := b.state.GetGroupChat()
	if err != nil {
		log.Printf("Get group chat error: %v", err)
		return
	}
	if groupChat != nil && groupChat.ID != msg.Chat.ID {
		b.leaveChat(msg.Chat.ID)
		return
	}
	if groupChat == nil {
		b.sendText(msg.Chat.ID, "Не принимаю сообщения.")
		log.Println("Ignore reply command in group")
		return
	}
	waitReplyFrom, err := b.state.GetWaitReplyFrom()
	if err != nil {
		log.Printf("Get wait reply error: %v", err)
		return
	}
	if waitReplyFrom != 0 {
		member, err := b.Api.GetChatMember(tgbotapi.GetChatMemberConfig{
			ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
				ChatID: msg.Chat.ID,
				UserID: waitReplyFrom,
			},
		})
		if err != nil {
			log.Printf("Get chat member error: %v", err)
			return
		}
		memberLink := tghtml.UserLink(member.User)
		if member.User.UserName != "" {
			memberLink = "@" + member.User.UserName
		}
		b.sendHTML(msg.Chat.ID, fmt.Sprintf("Уже жду сообщение от %s.", memberLink))
		log.Println("Already wait message. Ignore command")
		return
	}
	b.replyMenu(msg.Chat.ID)
}

// groupMessage — сообщение в группе: ответ пользователю от того, кого
// бот ждет, либо элемент альбома.
func (b *Bot) groupMessage(msg *tgbotapi.Message) {
	log.Printf("Reply message in group from %d", msg.From.ID)
	groupChat, err := b.state.GetGroupChat()
	if err != nil {
		log.Printf("Get group chat error: %v", err)
		return
	}
	if groupChat != nil && groupChat.ID != msg.Chat.ID {
		b.leaveChat(msg.Chat.ID)
		return
	}
	waitReplyFrom, err := b.state.GetWaitReplyFrom()
	if err != nil {
		log.Printf("Get wait reply error: %v", err)
		return
	}
	if waitReplyFrom != msg.From.ID && msg.MediaGroupID == "" {
		log.Printf("Ignore message in group %d from user %d", msg.Chat.ID, msg.From.ID)
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

// groupNewMembers — бота добавили в группу: сообщаем администратору и
// уходим из чужих групп.
func (b *Bot) groupNewMembers(msg *tgbotapi.Message) {
	log.Printf("New group members in chat %d", msg.Chat.ID)
	adminChatID, err := b.state.GetAdminChatID()
	if err != nil {
		log.Printf("Get admin chat id error: %v", err)
		return
	}
	for _, user := range msg.NewChatMembers {
		if user.ID != b.Api.Self.ID {
			continue
		}
		if adminChatID == 0 {
			log.Println("Admin chat id is not set")
			return
		}
		b.sendHTML(adminChatID, fmt.Sprintf("Добавлен в группу <b>%s</b>.", msg.Chat.Title))
		log.Printf("Bot added to group %d", msg.Chat.ID)

		groupChat, err := b.state.GetGroupChat()
		if err != nil {
			log.Printf("Get group chat error: %v", err)
			return
		}
		if groupChat != nil && groupChat.ID != msg.Chat.ID {
			b.leaveChat(msg.Chat.ID)
		} else if groupChat != nil {
			b.setScopedCommands(msg.Chat.ID, groupCommands)
		}
		return
	}
}

// groupLeftMember — бота удалили из группы: сообщаем администратору и
// забываем привязку.
func (b *Bot) groupLeftMember(msg *tgbotapi.Message) {
	log.Printf("Left group member in chat %d", msg.Chat.ID)
	if msg.LeftChatMember.ID != b.Api.Self.ID {
		return
	}
	adminChatID, err := b.state.GetAdminChatID()
	if err != nil {
		log.Printf("Get admin chat id error: %v", err)
		return
	}
	if adminChatID == 0 {
		log.Println("Admin chat id is not set")
		return
	}
	b.sendHTML(adminChatID, fmt.Sprintf("Вышел из группы <b>%s</b>.", msg.Chat.Title))
	log.Printf("Left chat %q", msg.Chat.Title)

	groupChat, err := b.state.GetGroupChat()
	if err != nil {
		log.Printf("Get group chat error: %v", err)
		return
	}
	if groupChat != nil && groupChat.ID == msg.Chat.ID {
		if err := b.state.SetGroupChat(nil); err != nil {
			log.Printf("Clear group chat error: %v", err)
			return
		}
		log.Printf("Forget chat %q", msg.Chat.Title)
	}
}

func (b *Bot) leaveChat(chatID int64) {
	if _, err := b.Api.Request(tgbotapi.LeaveChatConfig{ChatID: chatID}); err != nil {
		log.Printf("Leave chat error: %v", err)
	}
}
