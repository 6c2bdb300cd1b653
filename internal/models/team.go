package models

import (
	"time"

	"github.com/google/uuid"
)

// Team — команда с участниками.
type Team struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time

	Members []TeamMember
}

// TeamMember — краткая карточка участника команды.
type TeamMember struct {
	ID       uuid.UUID
	Username string
	Surname  string
}
