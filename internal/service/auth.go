package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	logctx "github.com/Antony2500/teamhub/internal/pkg/log"
	"github.com/Antony2500/teamhub/internal/pkg/redact"

	"github.com/Antony2500/teamhub/internal/models"
	"github.com/Antony2500/teamhub/internal/session"
	"github.com/Antony2500/teamhub/internal/storage"

	"github.com/google/uuid"
)

// SignupInput — данные регистрации.
type SignupInput struct {
	Username string
	Surname  string
	Email    string
	Password string
}

// Signup регистрирует нового пользователя.
//
// Порядок строгий: вся валидация завершается до любой мутации; пользователь
// и его auth-секрет создаются одной транзакцией; токены пишутся в сессию
// только после фиксации. Предварительные проверки уникальности дают понятные
// ошибки, а гонку одновременных регистраций закрывают уникальные индексы БД.
func (s *Service) Signup(ctx context.Context, sid string, in SignupInput) (*models.TokenPair, *models.User, error) {
	const op = "service.auth.Signup"

	if err := validateUsername(in.Username); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if isProtectedUsername(in.Username) {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrProtectedUsername)
	}

	normEmail, err := validateEmail(in.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := validatePassword(in.Password); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.storage.UserByUsername(ctx, in.Username); err == nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.storage.UserByEmail(ctx, normEmail); err == nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	passwordHash, err := hashPassword(in.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Surname:      in.Surname,
		Email:        normEmail,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	secretValue, err := newSecret()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	secret := &models.AuthSecret{
		Secret:    secretValue,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.AuthSecretTTL),
	}

	if err := s.storage.CreateUserWithSecret(ctx, user, secret); err != nil {
		switch {
		case errors.Is(err, storage.ErrUsernameExists):
			return nil, nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		case errors.Is(err, storage.ErrEmailExists):
			return nil, nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		default:
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	pair, err := s.mintTokenPair(user, now)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.saveSession(ctx, sid, pair.AccessToken, pair.RefreshToken); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	logctx.From(ctx).Info("user_registered",
		slog.String("op", op),
		slog.String("user_id", user.ID.String()),
		slog.String("email", redact.Email(user.Email)),
	)

	return pair, user, nil
}

// Login выполняет вход по email+пароль.
//
// Пара токенов целиком уходит в сессию; вызывающему транспорт отдаёт только
// access-токен — refresh остаётся на сервере.
func (s *Service) Login(ctx context.Context, sid, email, password string) (*models.TokenPair, error) {
	const op = "service.auth.Login"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	user, err := s.storage.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPassword)
	}

	pair, err := s.mintTokenPair(user, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.saveSession(ctx, sid, pair.AccessToken, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logctx.From(ctx).Info("user_logged_in",
		slog.String("op", op),
		slog.String("user_id", user.ID.String()),
		slog.String("email", redact.Email(user.Email)),
	)

	return pair, nil
}

// Refresh выпускает новый access-токен по refresh-токену из сессии.
//
// Любой сбой на любом шаге — отсутствие сессии, битая подпись, просрочка,
// чужой тип токена, неизвестный subject — схлопывается в
// ErrInvalidRefreshToken: клиент не должен понять, какой именно шаг упал.
func (s *Service) Refresh(ctx context.Context, sid string) (string, error) {
	const op = "service.auth.Refresh"

	tokens, err := s.sessions.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return "", fmt.Errorf("%s: %w", op, ErrInvalidRefreshToken)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if tokens.RefreshToken == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidRefreshToken)
	}

	claims, err := s.decodeToken(tokens.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidRefreshToken)
	}

	if err := requireTokenType(claims, models.TokenTypeRefresh); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidRefreshToken)
	}

	user, err := s.storage.UserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrInvalidRefreshToken)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	accessToken, err := s.mintToken(user.Email, models.TokenTypeAccess, s.cfg.AccessTokenTTL, s.now())
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.saveSession(ctx, sid, accessToken, tokens.RefreshToken); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	// Сами токены в логи не попадают никогда.
	logctx.From(ctx).Info("access_token_refreshed",
		slog.String("op", op),
		slog.String("user_id", user.ID.String()),
		slog.String("access_token", redact.Token()),
	)

	return accessToken, nil
}

// Logout очищает слот сессии. Идемпотентен: повторный вызов не ошибка.
func (s *Service) Logout(ctx context.Context, sid string) error {
	const op = "service.auth.Logout"

	if err := s.sessions.Clear(ctx, sid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CurrentUser разрешает access-токен сессии в пользователя.
//
// Гейт только читает: сессия не мутируется. Все сбои декодирования и поиска
// схлопываются в ErrUnauthorized без деталей.
func (s *Service) CurrentUser(ctx context.Context, sid string) (*models.User, error) {
	const op = "service.auth.CurrentUser"

	email, err := s.subjectFromSession(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// CurrentAdmin — как CurrentUser, но требует роль admin.
// "Нет такого пользователя" и "роль не admin" неразличимы для вызывающего.
func (s *Service) CurrentAdmin(ctx context.Context, sid string) (*models.User, error) {
	const op = "service.auth.CurrentAdmin"

	email, err := s.subjectFromSession(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.AdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// RequestPasswordReset открывает окно сброса пароля для пользователя:
// случайный reset-токен плюс срок действия. Действующие сессии не трогаются.
func (s *Service) RequestPasswordReset(ctx context.Context, user *models.User) error {
	const op = "service.auth.RequestPasswordReset"

	token, err := newSecret()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	expire := now.Add(s.cfg.ResetWindowTTL)

	user.PasswordResetToken = &token
	user.PasswordResetExpire = &expire
	user.UpdatedAt = now

	if err := s.storage.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	logctx.From(ctx).Info("password_reset_requested",
		slog.String("op", op),
		slog.String("user_id", user.ID.String()),
		slog.String("reset_token", redact.Token()),
	)

	return nil
}

// CompletePasswordReset завершает сброс пароля.
//
// Требования: окно сброса ещё не истекло (строго now <= expire) и старый
// пароль совпадает с хранимым хэшем. При любом отказе мутации не происходит.
// Успех записывает новый хэш и очищает оба reset-поля.
func (s *Service) CompletePasswordReset(ctx context.Context, user *models.User, oldPassword, newPassword string) error {
	const op = "service.auth.CompletePasswordReset"

	if user.PasswordResetExpire != nil && s.now().After(*user.PasswordResetExpire) {
		return fmt.Errorf("%s: %w", op, ErrResetWindowExpired)
	}

	if err := validatePassword(newPassword); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.PasswordHash, oldPassword) {
		return fmt.Errorf("%s: %w", op, ErrOldPasswordMismatch)
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	user.PasswordHash = passwordHash
	user.PasswordResetToken = nil
	user.PasswordResetExpire = nil
	user.UpdatedAt = s.now()

	if err := s.storage.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	logctx.From(ctx).Info("password_reset_completed",
		slog.String("op", op),
		slog.String("user_id", user.ID.String()),
		slog.String("new_password", redact.Password()),
	)

	return nil
}

// subjectFromSession достаёт access-токен из сессии, валидирует его и
// возвращает subject (email). Все сбои схлопываются в ErrUnauthorized.
func (s *Service) subjectFromSession(ctx context.Context, sid string) (string, error) {
	const op = "service.auth.subjectFromSession"

	tokens, err := s.sessions.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return "", fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if tokens.AccessToken == "" {
		return "", fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	claims, err := s.decodeToken(tokens.AccessToken)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	if err := requireTokenType(claims, models.TokenTypeAccess); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	return claims.Subject, nil
}

// saveSession перезаписывает слот сессии новой парой токенов.
// TTL слота равен TTL refresh-токена: дольше сессия жить не может.
func (s *Service) saveSession(ctx context.Context, sid, accessToken, refreshToken string) error {
	return s.sessions.Save(ctx, sid, session.Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, s.cfg.RefreshTokenTTL)
}
