package usecase

import "fmt"

const (
	groupChatKey       = "group_chat"
	adminChatIDKey     = "admin_chat_id"
	currentChatKey     = "current_chat"
	waitReplyFromIDKey = "wait_reply_from_id"
	chatListKey        = "chat_list"
)

func chatKey(chatID int64) string {
	return fmt.Sprintf("chat|%d", chatID)
}

func stoppedKey(chatID int64) string {
	return fmt.Sprintf("stopped|%d", chatID)
}
