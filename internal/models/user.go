package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей. Хранятся в БД как enum user_role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User — модель пользователя в системе.
//
// Поля PasswordResetToken/PasswordResetExpire заполняются только на время
// окна сброса пароля и очищаются после успешной смены.
type User struct {
	ID           uuid.UUID
	Username     string
	Surname      string
	Email        string
	PasswordHash string
	Role         string
	Banned       bool

	PasswordResetToken  *string
	PasswordResetExpire *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin сообщает, имеет ли пользователь административную роль.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
