package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateAppointmentRequest struct {
	StaffID         uuid.UUID `json:"staff_id"`
	ServiceID       uuid.UUID `json:"service_id"`
	AppointmentDate time.Time `json:"appointment_date"`
}

type UpdateAppointmentRequest struct {
	StaffID         uuid.UUID `json:"staff_id"`
	ServiceID       uuid.UUID `json:"service_id"`
	AppointmentDate time.Time `json:"appointment_date"`
}

type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	StaffID         uuid.UUID `json:"staff_id"`
	StaffName       string    `json:"staff_name,omitempty"`
	ServiceID       uuid.UUID `json:"service_id"`
	ServiceName     string    `json:"service_name,omitempty"`
	AppointmentDate time.Time `json:"appointment_date"`
	IsCancelled     bool      `json:"is_cancelled"`
	CreatedAt       time.Time `json:"created_at"`
}

// AppointmentListResponse is the three-way partition of a customer's
// appointments: upcoming ascending, past descending, cancelled unordered.
type AppointmentListResponse struct {
	Upcoming  []AppointmentResponse `json:"upcoming"`
	Past      []AppointmentResponse `json:"past"`
	Cancelled []AppointmentResponse `json:"cancelled"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Error   bool         `json:"error"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields"`
}
