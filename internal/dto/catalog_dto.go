package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpsertStaffRequest struct {
	Name string `json:"name"`
}

type UpsertServiceRequest struct {
	Name string `json:"name"`
}

type StaffResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type ServiceResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
