package usecase

import "feedback_bot/internal/pkg/state/domain"

// GetStopped возвращает nil, если пользователь не останавливал бота.
func (s *StateManager) GetStopped(chatID int64) (*domain.Stopped, error) {
	var stopped domain.Stopped
	found, err := s.getJSON(stoppedKey(chatID), &stopped)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &stopped, nil
}

func (s *StateManager) SetStopped(chatID int64, stopped domain.Stopped) error {
	return s.setJSON(stoppedKey(chatID), stopped)
}

func (s *StateManager) DeleteStopped(chatID int64) error {
	return s.storage.Delete(stoppedKey(chatID))
}
