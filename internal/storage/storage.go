package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Antony2500/teamhub/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound — запись не найдена (пользователь/команда/секрет).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности без уточнения поля.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUsernameExists — конфликт уникального индекса lower(username).
	ErrUsernameExists = errors.New("username already exists")
	// ErrEmailExists — конфликт уникального индекса lower(email).
	ErrEmailExists = errors.New("email already exists")
)

// UserStorage выполняет операции над пользователями.
//
// Поиск по username/email регистронезависимый: сравнение идёт по
// lower(...) и подкреплено функциональными уникальными индексами,
// так что гонка двух одновременных регистраций закрывается на уровне БД.
type UserStorage interface {
	// CreateUserWithSecret атомарно создаёт пользователя и его auth-секрет.
	// При конфликте уникальности возвращает ErrUsernameExists/ErrEmailExists.
	CreateUserWithSecret(ctx context.Context, user *models.User, secret *models.AuthSecret) error
	// UserByUsername находит пользователя по имени (без учёта регистра).
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	// UserByEmail находит пользователя по email (без учёта регистра).
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// AdminByEmail находит пользователя по email с ролью admin.
	AdminByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateUser сохраняет изменяемые поля пользователя
	// (username, email, password_hash, поля сброса пароля).
	UpdateUser(ctx context.Context, user *models.User) error
	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]models.User, error)
	// DeleteUser удаляет пользователя по ID (каскадно с секретами и членством).
	DeleteUser(ctx context.Context, id uuid.UUID) error
	// DeleteUserByUsername удаляет пользователя по имени (без учёта регистра).
	DeleteUserByUsername(ctx context.Context, username string) error
}

// AuthSecretStorage выполняет операции над auth-секретами.
type AuthSecretStorage interface {
	// SaveAuthSecret сохраняет новый auth-секрет.
	SaveAuthSecret(ctx context.Context, secret *models.AuthSecret) error
	// DeleteExpiredAuthSecrets удаляет все просроченные секреты.
	DeleteExpiredAuthSecrets(ctx context.Context, now time.Time) error
}

// TeamStorage выполняет операции над командами и членством.
type TeamStorage interface {
	// SaveTeam создаёт новую команду.
	SaveTeam(ctx context.Context, team *models.Team) error
	// TeamByID находит команду с участниками.
	TeamByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	// ListTeams возвращает все команды с участниками.
	ListTeams(ctx context.Context) ([]models.Team, error)
	// AddMember добавляет пользователя в команду.
	AddMember(ctx context.Context, teamID, userID uuid.UUID) error
	// RemoveMember убирает пользователя из команды.
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
}

// Storage задаёт контракт работы с БД.
type Storage interface {
	UserStorage
	AuthSecretStorage
	TeamStorage
	Close()
}
