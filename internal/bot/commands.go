package bot

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var userCommands = []tgbotapi.BotCommand{
	{Command: "help", Description: "Помощь"},
	{Command: "stop", Description: "Остановить и не получать больше сообщения"},
}

var adminCommands = []tgbotapi.BotCommand{
	{Command: "help", Description: "Помощь"},
	{Command: "reply", Description: "Ответить пользователю"},
	{Command: "add_to_group", Description: "Добавить в группу"},
	{Command: "remove_from_group", Description: "Удалить из группы"},
	{Command: "reset", Description: "Сбросить состояние"},
}

var groupCommands = []tgbotapi.BotCommand{
	{Command: "help", Description: "Помощь"},
	{Command: "reply", Description: "Ответить пользователю"},
}

// setupCommands регистрирует меню команд: пользовательское — для всех
// личных чатов, административное и групповое — для известных чатов.
func (b *Bot) setupCommands() {
	if _, err := b.Api.Request(tgbotapi.NewDeleteMyCommands()); err != nil {
		log.Printf("Delete commands error: %v", err)
	}

	userScope := tgbotapi.NewSetMyCommandsWithScope(
		tgbotapi.NewBotCommandScopeAllPrivateChats(), userCommands...)
	if _, err := b.Api.Request(userScope); err != nil {
		log.Printf("Set user commands error: %v", err)
	}

	adminChatID, err := b.state.GetAdminChatID()
	if err != nil {
		log.Printf("Get admin chat id error: %v", err)
	} else if adminChatID != 0 {
		b.setScopedCommands(adminChatID, adminCommands)
	}

	groupChat, err := b.state.GetGroupChat()
	if err != nil {
		log.Printf("Get group chat error: %v", err)
	} else if groupChat != nil {
		// 403 возможен, если бота уже удалили из группы.
		b.setScopedCommands(groupChat.ID, groupCommands)
	}
}

func (b *Bot) setScopedCommands(chatID int64, commands []tgbotapi.BotCommand) {
	scoped := tgbotapi.NewSetMyCommandsWithScope(
		tgbotapi.NewBotCommandScopeChat(chatID), commands...)
	if _, err := b.Api.Request(scoped); err != nil {
		log.Printf("Set commands for chat %d error: %v", chatID, err)
	}
}
