package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"feedback_bot/internal/bot"
	"feedback_bot/internal/pkg/album"
	"feedback_bot/internal/pkg/state/postgres_storage"
	"feedback_bot/internal/pkg/state/usecase"
)

const defaultChatListSize = 10

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		log.Fatal("TELEGRAM_TOKEN is not set")
	}

	adminUsername := os.Getenv("ADMIN_USERNAME")
	if adminUsername == "" {
		log.Fatal("ADMIN_USERNAME is not set")
	}

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is not set")
	}

	chatListSize := defaultChatListSize
	if raw := os.Getenv("CHAT_LIST_SIZE"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 20 {
			log.Fatalf("CHAT_LIST_SIZE must be a number from 1 to 20, got %q", raw)
		}
		chatListSize = parsed
	}

	storage, err := postgres_storage.NewPostgresStorage(dsn)
	if err != nil {
		log.Fatalf("Failed to connect to storage: %v", err)
	}
	defer storage.Close()

	state := usecase.NewStateManager(storage, chatListSize)

	b := bot.New(token, adminUsername, state)

	forwarder := album.NewForwarder(b.Api)
	forwarder.Start()
	b.SetForwarder(forwarder)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b.Start(ctx)

	if err := forwarder.Stop(); err != nil {
		log.Printf("Album forwarder stop error: %v", err)
	}
}
