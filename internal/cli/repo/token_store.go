package repo

// TokenStore описывает абстракцию хранилища токена сессии на клиенте.
type TokenStore interface {
	Save(token string) error
	Load() (string, error)
	// Clear удаляет токен; отсутствие токена - не ошибка.
	Clear() error
}
