package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Antony2500/teamhub/internal/models"
	"github.com/Antony2500/teamhub/internal/storage"

	"github.com/google/uuid"
)

// CreateTeam создаёт команду и сразу включает в неё создателя.
func (s *Service) CreateTeam(ctx context.Context, creator *models.User, name string) (*models.Team, error) {
	const op = "service.teams.CreateTeam"

	if !usernameRe.MatchString(name) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTeamName)
	}

	team := &models.Team{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: s.now(),
	}

	if err := s.storage.SaveTeam(ctx, team); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrTeamNameTaken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.AddMember(ctx, team.ID, creator.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	team.Members = []models.TeamMember{{
		ID:       creator.ID,
		Username: creator.Username,
		Surname:  creator.Surname,
	}}

	return team, nil
}

// GetTeam возвращает команду по идентификатору вместе с участниками.
func (s *Service) GetTeam(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	const op = "service.teams.GetTeam"

	team, err := s.storage.TeamByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrTeamNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return team, nil
}

// ListTeams возвращает все команды с участниками.
func (s *Service) ListTeams(ctx context.Context) ([]models.Team, error) {
	const op = "service.teams.ListTeams"

	teams, err := s.storage.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return teams, nil
}

// JoinTeam добавляет пользователя в команду.
func (s *Service) JoinTeam(ctx context.Context, user *models.User, teamID uuid.UUID) error {
	const op = "service.teams.JoinTeam"

	if err := s.storage.AddMember(ctx, teamID, user.ID); err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			return fmt.Errorf("%s: %w", op, ErrAlreadyMember)
		case errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("%s: %w", op, ErrTeamNotFound)
		default:
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

// LeaveTeam убирает пользователя из команды.
func (s *Service) LeaveTeam(ctx context.Context, user *models.User, teamID uuid.UUID) error {
	const op = "service.teams.LeaveTeam"

	if err := s.storage.RemoveMember(ctx, teamID, user.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotMember)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
