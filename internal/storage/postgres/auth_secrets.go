package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Antony2500/teamhub/internal/models"
)

// SaveAuthSecret сохраняет новый auth-секрет.
func (s *Storage) SaveAuthSecret(ctx context.Context, secret *models.AuthSecret) error {
	const op = "storage.postgres.SaveAuthSecret"

	query := `
		INSERT INTO auth_secrets(secret, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.db.Exec(ctx, query,
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

	return nil
}

// DeleteExpiredAuthSecrets удаляет все просроченные auth-секреты.
func (s *Storage) DeleteExpiredAuthSecrets(ctx context.Context, now time.Time) error {
	const op = "storage.postgres.DeleteExpiredAuthSecrets"

	query := `
		DELETE FROM auth_secrets
		WHERE expires_at <= $1
	`

	if _, err := s.db.Exec(ctx, query, now); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
