package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/Antony2500/teamhub/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// mintToken выпускает подписанный токен заданного типа.
// Каждый вызов получает свежий jti (uuid v4, 128 бит энтропии).
func (s *Service) mintToken(email, tokenType string, ttl time.Duration, now time.Time) (string, error) {
	const op = "service.token.mintToken"

	claims := models.Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// mintTokenPair выпускает пару access+refresh для пользователя.
func (s *Service) mintTokenPair(user *models.User, now time.Time) (*models.TokenPair, error) {
	const op = "service.token.mintTokenPair"

	accessToken, err := s.mintToken(user.Email, models.TokenTypeAccess, s.cfg.AccessTokenTTL, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := s.mintToken(user.Email, models.TokenTypeRefresh, s.cfg.RefreshTokenTTL, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessExpiresAt: now.Add(s.cfg.AccessTokenTTL),
	}, nil
}

// decodeToken проверяет подпись публичным ключом и возвращает claims.
//
// Принимается строго RS256: токен с любым другим алгоритмом в заголовке
// отвергается до проверки подписи (защита от подмены алгоритма).
// Просрочка различается от прочих сбоев только внутри сервиса; наружу
// транспорт отдаёт единый ответ.
func (s *Service) decodeToken(tokenStr string) (*models.Claims, error) {
	const op = "service.token.decodeToken"

	token, err := jwt.ParseWithClaims(tokenStr, &models.Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return s.publicKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}

// requireTokenType проверяет, что claim "type" совпадает с ожидаемым.
// Обязательная проверка на каждом использовании токена: она не даёт
// предъявить refresh-токен вместо access и наоборот.
func requireTokenType(claims *models.Claims, want string) error {
	const op = "service.token.requireTokenType"

	if claims.TokenType != want {
		return fmt.Errorf("%s: %w", op, ErrWrongTokenType)
	}

	return nil
}

// newSecret генерирует случайный url-безопасный секрет (32 байта энтропии).
func newSecret() (string, error) {
	const op = "service.token.newSecret"

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
