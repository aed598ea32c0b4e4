package models

import (
	"time"

	"github.com/google/uuid"
)

// Appointment is a customer booking for one staff member and one service at
// an exact instant. Rows are soft-cancelled via IsCancelled and never
// physically deleted.
//
// The partial unique index over (staff_id, appointment_date) among
// non-cancelled rows is the authoritative double-booking guard; the
// application-level conflict check is only a fast path.
type Appointment struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	StaffID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_appointments_slot,where:is_cancelled = false" json:"staff_id"`
	ServiceID       uuid.UUID `gorm:"type:uuid;not null;index" json:"service_id"`
	AppointmentDate time.Time `gorm:"not null;uniqueIndex:idx_appointments_slot,where:is_cancelled = false" json:"appointment_date"`
	IsCancelled     bool      `gorm:"not null;default:false" json:"is_cancelled"`
	// Version implements optimistic locking; stale writes are rejected.
	Version   uint      `gorm:"not null;default:1" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Resolved catalog rows, attached for display only.
	Staff   Staff   `gorm:"foreignKey:StaffID" json:"-"`
	Service Service `gorm:"foreignKey:ServiceID" json:"-"`
}
