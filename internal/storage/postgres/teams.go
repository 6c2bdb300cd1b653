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

// SaveTeam создаёт новую команду.
func (s *Storage) SaveTeam(ctx context.Context, team *models.Team) error {
	const op = "storage.postgres.SaveTeam"

	query := `
		INSERT INTO teams(id, name, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := s.db.Exec(ctx, query, team.ID, team.Name, team.CreatedAt)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return fmt.Errorf("%s: %w", op, mapped)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// TeamByID находит команду вместе с участниками.
func (s *Storage) TeamByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	const op = "storage.postgres.TeamByID"

	query := `
		SELECT id, name, created_at
		FROM teams
		WHERE id = $1
	`

	var team models.Team
	err := s.db.QueryRow(ctx, query, id).Scan(&team.ID, &team.Name, &team.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	members, err := s.membersOf(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	team.Members = members

	return &team, nil
}

// ListTeams возвращает все команды с участниками.
func (s *Storage) ListTeams(ctx context.Context) ([]models.Team, error) {
	const op = "storage.postgres.ListTeams"

	query := `
		SELECT t.id, t.name, t.created_at, u.id, u.username, u.surname
		FROM teams t
		LEFT JOIN team_members tm ON tm.team_id = t.id
		LEFT JOIN users u ON u.id = tm.user_id
		ORDER BY t.created_at, u.username
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var (
		teams []models.Team
		index = make(map[uuid.UUID]int)
	)

	for rows.Next() {
		var (
			team     models.Team
			memberID *uuid.UUID
			username *string
			surname  *string
		)

		if err := rows.Scan(&team.ID, &team.Name, &team.CreatedAt, &memberID, &username, &surname); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		pos, ok := index[team.ID]
		if !ok {
			pos = len(teams)
			index[team.ID] = pos
			teams = append(teams, team)
		}

		if memberID != nil {
			teams[pos].Members = append(teams[pos].Members, models.TeamMember{
				ID:       *memberID,
				Username: *username,
				Surname:  *surname,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return teams, nil
}

// AddMember добавляет пользователя в команду.
func (s *Storage) AddMember(ctx context.Context, teamID, userID uuid.UUID) error {
	const op = "storage.postgres.AddMember"

	query := `
		INSERT INTO team_members(team_id, user_id)
		VALUES ($1, $2)
	`

	if _, err := s.db.Exec(ctx, query, teamID, userID); err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RemoveMember убирает пользователя из команды.
func (s *Storage) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	const op = "storage.postgres.RemoveMember"

	query := `
		DELETE FROM team_members
		WHERE team_id = $1 AND user_id = $2
	`

	cmdTag, err := s.db.Exec(ctx, query, teamID, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// membersOf возвращает участников команды.
func (s *Storage) membersOf(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	query := `
		SELECT u.id, u.username, u.surname
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY u.username
	`

	rows, err := s.db.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.TeamMember
	for rows.Next() {
		var m models.TeamMember
		if err := rows.Scan(&m.ID, &m.Username, &m.Surname); err != nil {
			return nil, err
		}

		members = append(members, m)
	}

	return members, rows.Err()
}
