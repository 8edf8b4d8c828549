package usecase

import "feedback_bot/internal/pkg/state/domain"

func (s *StateManager) getChat(key string) (*domain.Chat, error) {
	var chat domain.Chat
	found, err := s.getJSON(key, &chat)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &chat, nil
}

func (s *StateManager) setChat(key string, chat *domain.Chat) error {
	if chat == nil {
		return s.storage.Delete(key)
	}
	return s.setJSON(key, chat)
}

// SaveChat сохраняет чат по ключу chat|<id>, чтобы потом находить его
// по callback-данным меню ответа.
func (s *StateManager) SaveChat(chat *domain.Chat) error {
	return s.setChat(chatKey(chat.ID), chat)
}

func (s *StateManager) GetChat(chatID int64) (*domain.Chat, error) {
	return s.getChat(chatKey(chatID))
}

// GetGroupChat возвращает nil, если бот не привязан к группе.
func (s *StateManager) GetGroupChat() (*domain.Chat, error) {
	return s.getChat(groupChatKey)
}

// SetGroupChat с nil снимает привязку к группе.
func (s *StateManager) SetGroupChat(chat *domain.Chat) error {
	return s.setChat(groupChatKey, chat)
}

// GetCurrentChat — текущий пользователь, которому уйдет ответ оператора.
func (s *StateManager) GetCurrentChat() (*domain.Chat, error) {
	return s.getChat(currentChatKey)
}

func (s *StateManager) SetCurrentChat(chat *domain.Chat) error {
	return s.setChat(currentChatKey, chat)
}
