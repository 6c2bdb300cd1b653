package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	logctx "github.com/Antony2500/teamhub/internal/pkg/log"

	"github.com/Antony2500/teamhub/internal/models"
	"github.com/Antony2500/teamhub/internal/storage"
)

// UpdateProfileInput — изменяемые поля профиля; nil означает "не трогать".
type UpdateProfileInput struct {
	Username *string
	Email    *string
}

// UpdateProfile меняет username/email пользователя с теми же проверками,
// что и при регистрации: формат, зарезервированные имена, уникальность.
func (s *Service) UpdateProfile(ctx context.Context, user *models.User, in UpdateProfileInput) (*models.User, error) {
	const op = "service.users.UpdateProfile"

	if in.Username != nil {
		if err := validateUsername(*in.Username); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if isProtectedUsername(*in.Username) {
			return nil, fmt.Errorf("%s: %w", op, ErrProtectedUsername)
		}

		if other, err := s.storage.UserByUsername(ctx, *in.Username); err == nil {
			if other.ID != user.ID {
				return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
			}
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		user.Username = *in.Username
	}

	if in.Email != nil {
		normEmail, err := validateEmail(*in.Email)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if other, err := s.storage.UserByEmail(ctx, normEmail); err == nil {
			if other.ID != user.ID {
				return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
			}
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		user.Email = normEmail
	}

	user.UpdatedAt = s.now()

	if err := s.storage.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrUsernameExists):
			return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		case errors.Is(err, storage.ErrEmailExists):
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		default:
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return user, nil
}

// ListUsers возвращает всех пользователей.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "service.users.ListUsers"

	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

// DeleteSelf удаляет аккаунт пользователя и очищает его сессию.
// Auth-секреты и членство в командах снимаются каскадом на уровне БД.
func (s *Service) DeleteSelf(ctx context.Context, sid string, user *models.User) error {
	const op = "service.users.DeleteSelf"

	if err := s.storage.DeleteUser(ctx, user.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.sessions.Clear(ctx, sid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	logctx.From(ctx).Info("user_deleted",
		slog.String("op", op),
		slog.String("user_id", user.ID.String()),
	)

	return nil
}

// DeleteUserByUsername удаляет пользователя по имени (админская операция).
func (s *Service) DeleteUserByUsername(ctx context.Context, username string) error {
	const op = "service.users.DeleteUserByUsername"

	if err := s.storage.DeleteUserByUsername(ctx, username); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
