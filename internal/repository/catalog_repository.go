package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kaannpy/Berber-randevu-sistemi/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository is the store collaborator for the read-mostly Staff and
// Service reference data that appointments point to.
type CatalogRepository interface {
	ListStaff(ctx context.Context) ([]models.Staff, error)
	GetStaff(ctx context.Context, id uuid.UUID) (*models.Staff, error)
	CreateStaff(ctx context.Context, staff *models.Staff) error
	UpdateStaff(ctx context.Context, staff *models.Staff) error
	DeleteStaff(ctx context.Context, id uuid.UUID) error

	ListServices(ctx context.Context) ([]models.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	CreateService(ctx context.Context, service *models.Service) error
	UpdateService(ctx context.Context, service *models.Service) error
	DeleteService(ctx context.Context, id uuid.UUID) error

	// CountActiveByStaff / CountActiveByService count non-cancelled
	// appointments referencing the catalog row, used to refuse deletes
	// that would orphan bookings.
	CountActiveByStaff(ctx context.Context, staffID uuid.UUID) (int64, error)
	CountActiveByService(ctx context.Context, serviceID uuid.UUID) (int64, error)
}

type GormCatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) ListStaff(ctx context.Context) ([]models.Staff, error) {
	var staff []models.Staff
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

func (r *GormCatalogRepository) GetStaff(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).First(&staff, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch staff: %w", err)
	}
	return &staff, nil
}

func (r *GormCatalogRepository) CreateStaff(ctx context.Context, staff *models.Staff) error {
	if err := r.db.WithContext(ctx).Create(staff).Error; err != nil {
		return fmt.Errorf("failed to create staff: %w", err)
	}
	return nil
}

func (r *GormCatalogRepository) UpdateStaff(ctx context.Context, staff *models.Staff) error {
	result := r.db.WithContext(ctx).Model(&models.Staff{}).
		Where("id = ?", staff.ID).
		Update("name", staff.Name)
	if result.Error != nil {
		return fmt.Errorf("failed to update staff: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormCatalogRepository) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Staff{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete staff: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormCatalogRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&services).Error; err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (r *GormCatalogRepository) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	err := r.db.WithContext(ctx).First(&service, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service: %w", err)
	}
	return &service, nil
}

func (r *GormCatalogRepository) CreateService(ctx context.Context, service *models.Service) error {
	if err := r.db.WithContext(ctx).Create(service).Error; err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *GormCatalogRepository) UpdateService(ctx context.Context, service *models.Service) error {
	result := r.db.WithContext(ctx).Model(&models.Service{}).
		Where("id = ?", service.ID).
		Update("name", service.Name)
	if result.Error != nil {
		return fmt.Errorf("failed to update service: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormCatalogRepository) DeleteService(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Service{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete service: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormCatalogRepository) CountActiveByStaff(ctx context.Context, staffID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("staff_id = ? AND is_cancelled = false", staffID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count staff appointments: %w", err)
	}
	return count, nil
}

func (r *GormCatalogRepository) CountActiveByService(ctx context.Context, serviceID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("service_id = ? AND is_cancelled = false", serviceID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count service appointments: %w", err)
	}
	return count, nil
}
