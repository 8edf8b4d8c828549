package repository

// Storage — key/value хранилище состояния бота. Значения — JSON.
type Storage interface {
	// Get возвращает nil без ошибки, если ключа нет.
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}
