package bot

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"feedback_bot/internal/pkg/album"
	"feedback_bot/internal/pkg/state/usecase"
)

type Bot struct {
	Api           *tgbotapi.BotAPI
	state         *usecase.StateManager
	forwarder     *album.Forwarder
	adminUsername string
}

func New(token, adminUsername string, state *usecase.StateManager) *Bot {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	return &Bot{
		Api:           api,
		state:         state,
		adminUsername: adminUsername,
	}
}

func (b *Bot) SetForwarder(forwarder *album.Forwarder) {
	b.forwarder = forwarder
}

// Start запускает long polling и обрабатывает обновления до отмены ctx.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.Api.GetUpdatesChan(u)

	log.Printf("Authorized on account %s", b.Api.Self.UserName)

	b.setupCommands()

	for {
		select {
		case <-ctx.Done():
			log.Println("Stopping bot...")
			b.Api.StopReceivingUpdates()
			return
		case update := <-updates:
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleReplyCallback(update.CallbackQuery)
		return
	}

	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}

	switch {
	case msg.Chat.IsPrivate() && b.isFromAdmin(msg):
		b.handleAdminMessage(msg)
	case msg.Chat.IsPrivate():
		b.handleUserMessage(msg)
	case msg.Chat.IsGroup() || msg.Chat.IsSuperGroup():
		b.handleGroupMessage(msg)
	}
}

// send отправляет сообщение, логируя ошибку доставки.
func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.Api.Send(c); err != nil {
		log.Printf("Send message error: %v", err)
	}
}

// sendText — простое текстовое сообщение без разметки.
func (b *Bot) sendText(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

// sendHTML — сообщение с HTML-разметкой и без превью ссылок.
func (b *Bot) sendHTML(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	b.send(msg)
}
