package usecase

import (
	"encoding/json"
	"fmt"

	"feedback_bot/internal/pkg/state/repository"
)

// StateManager — типизированный доступ к состоянию бота поверх
// key/value хранилища: чат администратора, привязанная группа, текущий
// пользователь для ответа, список недавних чатов и отметки /stop.
type StateManager struct {
	storage      repository.Storage
	chatListSize int
}

func NewStateManager(storage repository.Storage, chatListSize int) *StateManager {
	return &StateManager{
		storage:      storage,
		chatListSize: chatListSize,
	}
}

func (s *StateManager) getJSON(key string, target interface{}) (bool, error) {
	data, err := s.storage.Get(key)
	if err != nil {
		return false, fmt.Errorf("get %q: %w", key, err)
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return false, fmt.Errorf("unmarshal %q: %w", key, err)
	}
	return true, nil
}

func (s *StateManager) setJSON(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	if err := s.storage.Set(key, data); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// GetAdminChatID возвращает 0, если чат администратора еще не известен.
func (s *StateManager) GetAdminChatID() (int64, error) {
	var id int64
	if _, err := s.getJSON(adminChatIDKey, &id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *StateManager) SetAdminChatID(chatID int64) error {
	return s.setJSON(adminChatIDKey, chatID)
}

// GetWaitReplyFrom возвращает 0, если бот не ждет сообщение для ответа.
func (s *StateManager) GetWaitReplyFrom() (int64, error) {
	var id int64
	if _, err := s.getJSON(waitReplyFromIDKey, &id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *StateManager) SetWaitReplyFrom(userID int64) error {
	if userID == 0 {
		return s.storage.Delete(waitReplyFromIDKey)
	}
	return s.setJSON(waitReplyFromIDKey, userID)
}
