package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Kaannpy/Berber-randevu-sistemi/internal/models"
	"github.com/Kaannpy/Berber-randevu-sistemi/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrStaffNotFound   = errors.New("staff member not found")
	ErrServiceNotFound = errors.New("service not found")
	ErrNameRequired    = errors.New("name is required")
	ErrCatalogInUse    = errors.New("record is referenced by active appointments")
)

// CatalogService manages the Staff and Service reference data. Reads are
// open; writes are admin-only at the route layer. Deleting a row still
// referenced by non-cancelled appointments is refused.
type CatalogService struct {
	catalog repository.CatalogRepository
}

func NewCatalogService(catalog repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) ListStaff(ctx context.Context) ([]models.Staff, error) {
	return s.catalog.ListStaff(ctx)
}

func (s *CatalogService) GetStaff(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	staff, err := s.catalog.GetStaff(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrStaffNotFound
	}
	return staff, err
}

func (s *CatalogService) CreateStaff(ctx context.Context, name string) (*models.Staff, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	staff := models.Staff{ID: uuid.New(), Name: name}
	if err := s.catalog.CreateStaff(ctx, &staff); err != nil {
		return nil, fmt.Errorf("create staff: %w", err)
	}
	return &staff, nil
}

func (s *CatalogService) UpdateStaff(ctx context.Context, id uuid.UUID, name string) (*models.Staff, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	staff := models.Staff{ID: id, Name: name}
	err := s.catalog.UpdateStaff(ctx, &staff)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update staff: %w", err)
	}
	return s.catalog.GetStaff(ctx, id)
}

func (s *CatalogService) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	count, err := s.catalog.CountActiveByStaff(ctx, id)
	if err != nil {
		return fmt.Errorf("check staff references: %w", err)
	}
	if count > 0 {
		return ErrCatalogInUse
	}

	err = s.catalog.DeleteStaff(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrStaffNotFound
	}
	return err
}

func (s *CatalogService) ListServices(ctx context.Context) ([]models.Service, error) {
	return s.catalog.ListServices(ctx)
}

func (s *CatalogService) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	service, err := s.catalog.GetService(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrServiceNotFound
	}
	return service, err
}

func (s *CatalogService) CreateService(ctx context.Context, name string) (*models.Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	service := models.Service{ID: uuid.New(), Name: name}
	if err := s.catalog.CreateService(ctx, &service); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	return &service, nil
}

func (s *CatalogService) UpdateService(ctx context.Context, id uuid.UUID, name string) (*models.Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	service := models.Service{ID: id, Name: name}
	err := s.catalog.UpdateService(ctx, &service)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}
	return s.catalog.GetService(ctx, id)
}

func (s *CatalogService) DeleteService(ctx context.Context, id uuid.UUID) error {
	count, err := s.catalog.CountActiveByService(ctx, id)
	if err != nil {
		return fmt.Errorf("check service references: %w", err)
	}
	if count > 0 {
		return ErrCatalogInUse
	}

	err = s.catalog.DeleteService(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrServiceNotFound
	}
	return err
}
