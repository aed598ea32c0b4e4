package models

import (
	"time"

	"github.com/google/uuid"
)

// Staff is a bookable salon employee. There is no availability calendar:
// any staff member can be booked at any instant, subject only to the
// no-double-booking rule on appointments.
type Staff struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
