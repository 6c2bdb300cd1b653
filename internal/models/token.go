package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Типы подписанных токенов. Значение кладётся в claim "type" и проверяется
// на каждом использовании: refresh-токен нельзя предъявить как access и наоборот.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims — фиксированный набор утверждений внутри подписанного токена.
//
// Состав закреплён намеренно: subject (email), тип токена, iat/exp и
// уникальный jti. Дополнительные произвольные поля не принимаются —
// всё, чего нет в структуре, отбрасывается при разборе.
type Claims struct {
	// TokenType — "access" или "refresh".
	TokenType string `json:"type"`

	jwt.RegisteredClaims
}

// TokenPair — пара токенов, выдаваемая при регистрации/входе.
type TokenPair struct {
	// AccessToken — короткоживущий JWT для доступа к API.
	AccessToken string
	// RefreshToken — долгоживущий JWT, используемый только для выпуска
	// нового access-токена.
	RefreshToken string
	// AccessExpiresAt — момент истечения access-токена (UTC).
	AccessExpiresAt time.Time
}
