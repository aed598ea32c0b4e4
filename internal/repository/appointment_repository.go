package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kaannpy/Berber-randevu-sistemi/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentRepository is the store collaborator for appointments.
type AppointmentRepository interface {
	// ListByUser returns every appointment owned by the user, ordered by
	// appointment_date ascending, with Staff and Service resolved.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	// Create persists a new appointment. Returns ErrSlotTaken when the
	// slot uniqueness constraint rejects the row.
	Create(ctx context.Context, appt *models.Appointment) error
	// Update writes staff/service/date/cancel fields guarded by the
	// record's version. Returns ErrStaleRecord on a version mismatch and
	// ErrSlotTaken on a slot collision. On success the version on appt is
	// bumped.
	Update(ctx context.Context, appt *models.Appointment) error
	// SetCancelled marks the appointment cancelled. Returns ErrNotFound
	// when no such row exists.
	SetCancelled(ctx context.Context, id uuid.UUID) error
	// HasActiveSlot reports whether a non-cancelled appointment other than
	// excludeID occupies (staffID, at). Pass uuid.Nil to exclude nothing.
	HasActiveSlot(ctx context.Context, staffID uuid.UUID, at time.Time, excludeID uuid.UUID) (bool, error)
	// CancelAllForUser soft-cancels every active appointment of the user.
	CancelAllForUser(ctx context.Context, userID uuid.UUID) error
}

type GormAppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

func (r *GormAppointmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Preload("Service").
		Where("user_id = ?", userID).
		Order("appointment_date ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *GormAppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Preload("Service").
		First(&appt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointment: %w", err)
	}
	return &appt, nil
}

func (r *GormAppointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	err := r.db.WithContext(ctx).Create(appt).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlotTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *GormAppointmentRepository) Update(ctx context.Context, appt *models.Appointment) error {
	result := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ? AND version = ?", appt.ID, appt.Version).
		Updates(map[string]interface{}{
			"staff_id":         appt.StaffID,
			"service_id":       appt.ServiceID,
			"appointment_date": appt.AppointmentDate,
			"is_cancelled":     appt.IsCancelled,
			"version":          appt.Version + 1,
		})
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return ErrSlotTaken
	}
	if result.Error != nil {
		return fmt.Errorf("failed to update appointment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleRecord
	}
	appt.Version++
	return nil
}

func (r *GormAppointmentRepository) SetCancelled(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("is_cancelled", true)
	if result.Error != nil {
		return fmt.Errorf("failed to cancel appointment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormAppointmentRepository) HasActiveSlot(ctx context.Context, staffID uuid.UUID, at time.Time, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("staff_id = ? AND appointment_date = ? AND is_cancelled = false", staffID, at)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return count > 0, nil
}

func (r *GormAppointmentRepository) CancelAllForUser(ctx context.Context, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("user_id = ? AND is_cancelled = false", userID).
		Update("is_cancelled", true).Error
	if err != nil {
		return fmt.Errorf("failed to cancel user appointments: %w", err)
	}
	return nil
}
