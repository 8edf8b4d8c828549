package usecase

import "feedback_bot/internal/pkg/state/domain"

// ChatList — недавние чаты пользователей, из которых строится меню
// ответа. Список ограничен chatListSize, старые чаты вытесняются.
func (s *StateManager) ChatList() ([]domain.Chat, error) {
	var list []domain.Chat
	if _, err := s.getJSON(chatListKey, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *StateManager) setChatList(list []domain.Chat) error {
	if list == nil {
		list = []domain.Chat{}
	}
	return s.setJSON(chatListKey, list)
}

// AddChatToList добавляет чат, если его еще нет в списке.
func (s *StateManager) AddChatToList(chat domain.Chat) error {
	list, err := s.ChatList()
	if err != nil {
		return err
	}
	for _, item := range list {
		if item.ID == chat.ID {
			return nil
		}
	}
	list = append(list, chat)
	if len(list) > s.chatListSize {
		list = list[1:]
	}
	return s.setChatList(list)
}

func (s *StateManager) RemoveChatFromList(chatID int64) error {
	list, err := s.ChatList()
	if err != nil {
		return err
	}
	filtered := list[:0]
	for _, item := range list {
		if item.ID != chatID {
			filtered = append(filtered, item)
		}
	}
	return s.setChatList(filtered)
}
