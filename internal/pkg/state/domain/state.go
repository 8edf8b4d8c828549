package domain

import "time"

// Chat — сохраняемая копия телеграмного чата. Хранится по ключу
// chat|<id> и в списке недавних чатов.
type Chat struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Stopped — отметка о том, что пользователь остановил бота
// (командой /stop) или заблокировал его.
type Stopped struct {
	DateTime time.Time `json:"date_time"`
	Blocked  bool      `json:"blocked"`
}
