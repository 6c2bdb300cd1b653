package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthSecret — вспомогательный персистентный токен, создаваемый при регистрации.
//
// Это НЕ JWT: короткоживущий случайный секрет, который внешние сервисы могут
// использовать как аудит/верификационный артефакт. Удаляется каскадно вместе
// с пользователем и периодически вычищается по истечении срока.
type AuthSecret struct {
	Secret    string
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}
