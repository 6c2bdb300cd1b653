package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Antony2500/teamhub/internal/models"
	"github.com/Antony2500/teamhub/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Имена уникальных индексов из миграций: по ним конфликт уникальности
// раскладывается на "занят username" / "занят email".
const (
	usernameUniqueConstraint = "users_username_lower_key"
	emailUniqueConstraint    = "users_email_lower_key"
)

const userColumns = `
	id, username, surname, email, password_hash, role, banned,
	password_reset_token, password_reset_expire, created_at, updated_at
`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Surname,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Banned,
		&user.PasswordResetToken,
		&user.PasswordResetExpire,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// mapUniqueViolation переводит нарушение уникальности в доменную ошибку хранилища.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return nil
	}

	switch pgErr.ConstraintName {
	case usernameUniqueConstraint:
		return storage.ErrUsernameExists
	case emailUniqueConstraint:
		return storage.ErrEmailExists
	default:
		return storage.ErrAlreadyExists
	}
}

// CreateUserWithSecret атомарно создаёт пользователя и его auth-секрет.
// Либо фиксируются обе записи, либо ни одна: прерванный до коммита запрос
// не оставляет частичного состояния.
func (s *Storage) CreateUserWithSecret(ctx context.Context, user *models.User, secret *models.AuthSecret) error {
	const op = "storage.postgres.CreateUserWithSecret"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertUser = `
		INSERT INTO users(id, username, surname, email, password_hash, role, banned, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = tx.Exec(ctx, insertUser,
		user.ID,
		user.Username,
		user.Surname,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Banned,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return fmt.Errorf("%s: %w", op, mapped)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	const insertSecret = `
		INSERT INTO auth_secrets(secret, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err = tx.Exec(ctx, insertSecret,
		secret.Secret,
		secret.UserID,
		secret.CreatedAt,
		secret.ExpiresAt,
	)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return fmt.Errorf("%s: %w", op, mapped)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UserByUsername находит пользователя по имени без учёта регистра.
func (s *Storage) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.postgres.UserByUsername"

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(username) = lower($1)
	`

	user, err := scanUser(s.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UserByEmail находит пользователя по email без учёта регистра.
func (s *Storage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgres.UserByEmail"

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(email) = lower($1)
	`

	user, err := scanUser(s.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// AdminByEmail находит пользователя с ролью admin по email без учёта регистра.
// Отсутствие пользователя и отсутствие роли неразличимы: в обоих случаях ErrNotFound.
func (s *Storage) AdminByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgres.AdminByEmail"

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(email) = lower($1) AND role = 'admin'
	`

	user, err := scanUser(s.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UpdateUser сохраняет изменяемые поля пользователя.
func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	const op = "storage.postgres.UpdateUser"

	query := `
		UPDATE users
		SET username = $2,
		    surname = $3,
		    email = $4,
		    password_hash = $5,
		    password_reset_token = $6,
		    password_reset_expire = $7,
		    updated_at = $8
		WHERE id = $1
	`

	cmdTag, err := s.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Surname,
		user.Email,
		user.PasswordHash,
		user.PasswordResetToken,
		user.PasswordResetExpire,
		user.UpdatedAt,
	)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return fmt.Errorf("%s: %w", op, mapped)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// ListUsers возвращает всех пользователей.
func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.postgres.ListUsers"

	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

// DeleteUser удаляет пользователя по ID.
func (s *Storage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.DeleteUser"

	cmdTag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// DeleteUserByUsername удаляет пользователя по имени без учёта регистра.
func (s *Storage) DeleteUserByUsername(ctx context.Context, username string) error {
	const op = "storage.postgres.DeleteUserByUsername"

	cmdTag, err := s.db.Exec(ctx, `DELETE FROM users WHERE lower(username) = lower($1)`, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
