// service содержит бизнес-логику: регистрацию/аутентификацию пользователей,
// выпуск/проверку подписанных токенов, сброс пароля, операции над профилем
// и командами. Хранилище и сессии приходят через интерфейсы (storage, session).
//
// Основные аспекты:
//   - Service не хранит состояние запроса; экземпляр безопасен для
//     конкурентного использования из разных горутин при потокобезопасных
//     storage.Storage и session.Store.
//   - Приватный ключ подписи живёт только здесь; проверка токенов использует
//     исключительно публичную половину.
//   - Ошибки возвращаются как сентинелы ниже и маппятся транспортом
//     в HTTP-коды.
package service

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Antony2500/teamhub/internal/config"
	"github.com/Antony2500/teamhub/internal/session"
	"github.com/Antony2500/teamhub/internal/storage"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidUsername — username не проходит формат (латиница/цифры/_, 5..64).
	// Транспорт: HTTP 400.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrProtectedUsername — имя входит в список зарезервированных.
	// Транспорт: HTTP 400.
	ErrProtectedUsername = errors.New("protected username")

	// ErrUsernameTaken — username уже занят (без учёта регистра).
	// Транспорт: HTTP 409.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrEmailTaken — email уже занят (без учёта регистра).
	// Транспорт: HTTP 409.
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidEmail — email имеет некорректный формат.
	// Транспорт: HTTP 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword — пароль вне допустимой длины (8..128).
	// Транспорт: HTTP 400.
	ErrWeakPassword = errors.New("invalid password length")

	// ErrUserNotFound — пользователь с таким email не найден при входе.
	// Различим от неверного пароля сознательно: публичная регистрация и так
	// позволяет перечислять email. Транспорт: HTTP 401.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidPassword — пароль не совпал при входе. Транспорт: HTTP 401.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidToken — токен некорректен по формату/подписи/алгоритму.
	// Транспорт: HTTP 401, детали наружу не уходят.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. Транспорт: HTTP 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrWrongTokenType — claim "type" не совпал с ожидаемым
	// (refresh предъявлен как access или наоборот). Транспорт: HTTP 401.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrInvalidRefreshToken — любой сбой обновления токенов: отсутствие
	// сессии, битый/просроченный/чужого типа refresh, неизвестный subject.
	// Все случаи сознательно схлопнуты в одну ошибку. Транспорт: HTTP 401.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrUnauthorized — запрос не прошёл авторизационный гейт. Сюда же
	// схлопывается отсутствие admin-роли. Транспорт: HTTP 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrResetWindowExpired — окно сброса пароля истекло.
	// Это не проблема учётных данных, поэтому код отдельный. Транспорт: HTTP 412.
	ErrResetWindowExpired = errors.New("password reset window expired")

	// ErrOldPasswordMismatch — старый пароль не совпал при смене.
	// Никакой мутации при этом не происходит. Транспорт: HTTP 400.
	ErrOldPasswordMismatch = errors.New("old password mismatch")

	// ErrInvalidTeamName — имя команды не проходит формат. Транспорт: HTTP 400.
	ErrInvalidTeamName = errors.New("invalid team name")

	// ErrTeamNameTaken — имя команды уже занято. Транспорт: HTTP 409.
	ErrTeamNameTaken = errors.New("team name already taken")

	// ErrTeamNotFound — команда не найдена. Транспорт: HTTP 404.
	ErrTeamNotFound = errors.New("team not found")

	// ErrAlreadyMember — пользователь уже состоит в команде. Транспорт: HTTP 409.
	ErrAlreadyMember = errors.New("already a team member")

	// ErrNotMember — пользователь не состоит в команде. Транспорт: HTTP 404.
	ErrNotMember = errors.New("not a team member")
)

// Service реализует бизнес-логику сервиса.
type Service struct {
	storage  storage.Storage
	sessions session.Store
	cfg      config.AuthConfig

	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey

	now func() time.Time
}

// New создаёт Service, загружая ключевую пару RS256 из путей в конфигурации.
func New(st storage.Storage, sessions session.Store, cfg config.AuthConfig) (*Service, error) {
	const op = "service.New"

	privPEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pubPEM, err := os.ReadFile(cfg.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return NewWithKeys(st, sessions, cfg, privateKey, publicKey), nil
}

// NewWithKeys создаёт Service с уже загруженной ключевой парой.
func NewWithKeys(st storage.Storage, sessions session.Store, cfg config.AuthConfig, privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey) *Service {
	return &Service{
		storage:    st,
		sessions:   sessions,
		cfg:        cfg,
		privateKey: privateKey,
		publicKey:  publicKey,
		now:        func() time.Time { return time.Now().UTC() },
	}
}
