// session хранит серверную сторону клиентской сессии: сырые строки
// access/refresh-токенов, привязанные к непрозрачному session id из cookie.
//
// Слот сессии принадлежит ровно одному аутентифицированному контексту:
// логин/регистрация перезаписывают его целиком, logout очищает.
// Записи разных session id никогда не пересекаются.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNoSession — для данного session id слот отсутствует или пуст.
var ErrNoSession = errors.New("no session")

// Tokens — содержимое слота сессии.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// Store — контракт серверного хранилища сессий.
type Store interface {
	// Get возвращает токены сессии; ErrNoSession, если слот пуст.
	Get(ctx context.Context, sid string) (Tokens, error)
	// Save перезаписывает слот целиком с TTL (обычно TTL refresh-токена).
	Save(ctx context.Context, sid string, tokens Tokens, ttl time.Duration) error
	// Clear очищает слот; отсутствие слота не является ошибкой.
	Clear(ctx context.Context, sid string) error
	// Close освобождает ресурсы хранилища.
	Close() error
}
