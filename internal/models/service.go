package models

import (
	"time"

	"github.com/google/uuid"
)

// Service is a bookable salon offering (haircut, coloring, ...).
type Service struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
