package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Kaannpy/Berber-randevu-sistemi/internal/models"
	"github.com/Kaannpy/Berber-randevu-sistemi/internal/repository"
	"github.com/google/uuid"
)

// Compile-time checks that the fakes satisfy the store contracts.
var (
	_ repository.AppointmentRepository = (*memAppointmentRepo)(nil)
	_ repository.CatalogRepository     = (*memCatalogRepo)(nil)
)

// memAppointmentRepo is an in-memory AppointmentRepository that mirrors the
// store semantics the GORM implementation provides, including the partial
// uniqueness guard over (staff_id, appointment_date) and optimistic
// versioning. failWith, when set, makes every call fail with that error.
type memAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]models.Appointment
	failWith     error

	// One-shot fault injection. createHook and updateHook run at the start
	// of the next Create/Update with the lock held; updateErr, when set, is
	// returned by the next Update.
	createHook func()
	updateHook func()
	updateErr  error
}

func newMemAppointmentRepo() *memAppointmentRepo {
	return &memAppointmentRepo{appointments: make(map[uuid.UUID]models.Appointment)}
}

func (r *memAppointmentRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []models.Appointment
	for _, appt := range r.appointments {
		if appt.UserID == userID {
			out = append(out, appt)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AppointmentDate.Before(out[j].AppointmentDate)
	})
	return out, nil
}

func (r *memAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	appt, ok := r.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := appt
	return &copied, nil
}

func (r *memAppointmentRepo) Create(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if r.createHook != nil {
		hook := r.createHook
		r.createHook = nil
		hook()
	}
	if r.activeSlotLocked(appt.StaffID, appt.AppointmentDate, uuid.Nil) {
		return repository.ErrSlotTaken
	}
	r.appointments[appt.ID] = *appt
	return nil
}

func (r *memAppointmentRepo) Update(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if r.updateHook != nil {
		hook := r.updateHook
		r.updateHook = nil
		hook()
	}
	if r.updateErr != nil {
		err := r.updateErr
		r.updateErr = nil
		return err
	}
	stored, ok := r.appointments[appt.ID]
	if !ok || stored.Version != appt.Version {
		return repository.ErrStaleRecord
	}
	if !appt.IsCancelled && r.activeSlotLocked(appt.StaffID, appt.AppointmentDate, appt.ID) {
		return repository.ErrSlotTaken
	}
	updated := *appt
	updated.Version = appt.Version + 1
	updated.CreatedAt = stored.CreatedAt
	r.appointments[appt.ID] = updated
	appt.Version++
	return nil
}

func (r *memAppointmentRepo) SetCancelled(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	appt, ok := r.appointments[id]
	if !ok {
		return repository.ErrNotFound
	}
	appt.IsCancelled = true
	r.appointments[id] = appt
	return nil
}

func (r *memAppointmentRepo) HasActiveSlot(_ context.Context, staffID uuid.UUID, at time.Time, excludeID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return false, r.failWith
	}
	return r.activeSlotLocked(staffID, at, excludeID), nil
}

func (r *memAppointmentRepo) CancelAllForUser(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	for id, appt := range r.appointments {
		if appt.UserID == userID && !appt.IsCancelled {
			appt.IsCancelled = true
			r.appointments[id] = appt
		}
	}
	return nil
}

func (r *memAppointmentRepo) activeSlotLocked(staffID uuid.UUID, at time.Time, excludeID uuid.UUID) bool {
	for id, appt := range r.appointments {
		if id == excludeID {
			continue
		}
		if !appt.IsCancelled && appt.StaffID == staffID && appt.AppointmentDate.Equal(at) {
			return true
		}
	}
	return false
}

// stored returns the live row, bypassing the contract, for assertions.
func (r *memAppointmentRepo) stored(id uuid.UUID) (models.Appointment, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.appointments[id]
	return appt, ok
}

func (r *memAppointmentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.appointments)
}

// memCatalogRepo is an in-memory CatalogRepository. Active appointment
// counts are set directly by tests.
type memCatalogRepo struct {
	mu              sync.Mutex
	staff           map[uuid.UUID]models.Staff
	services        map[uuid.UUID]models.Service
	activeByStaff   map[uuid.UUID]int64
	activeByService map[uuid.UUID]int64
	failWith        error
}

func newMemCatalogRepo() *memCatalogRepo {
	return &memCatalogRepo{
		staff:           make(map[uuid.UUID]models.Staff),
		services:        make(map[uuid.UUID]models.Service),
		activeByStaff:   make(map[uuid.UUID]int64),
		activeByService: make(map[uuid.UUID]int64),
	}
}

func (r *memCatalogRepo) addStaff(name string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.staff[id] = models.Staff{ID: id, Name: name}
	return id
}

func (r *memCatalogRepo) addService(name string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.services[id] = models.Service{ID: id, Name: name}
	return id
}

func (r *memCatalogRepo) ListStaff(_ context.Context) ([]models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := make([]models.Staff, 0, len(r.staff))
	for _, s := range r.staff {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memCatalogRepo) GetStaff(_ context.Context, id uuid.UUID) (*models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	s, ok := r.staff[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *memCatalogRepo) CreateStaff(_ context.Context, staff *models.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	r.staff[staff.ID] = *staff
	return nil
}

func (r *memCatalogRepo) UpdateStaff(_ context.Context, staff *models.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	existing, ok := r.staff[staff.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Name = staff.Name
	r.staff[staff.ID] = existing
	return nil
}

func (r *memCatalogRepo) DeleteStaff(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.staff[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.staff, id)
	return nil
}

func (r *memCatalogRepo) ListServices(_ context.Context) ([]models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := make([]models.Service, 0, len(r.services))
	for _, s := range r.services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memCatalogRepo) GetService(_ context.Context, id uuid.UUID) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	s, ok := r.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *memCatalogRepo) CreateService(_ context.Context, service *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	r.services[service.ID] = *service
	return nil
}

func (r *memCatalogRepo) UpdateService(_ context.Context, service *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	existing, ok := r.services[service.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Name = service.Name
	r.services[service.ID] = existing
	return nil
}

func (r *memCatalogRepo) DeleteService(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.services[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.services, id)
	return nil
}

func (r *memCatalogRepo) CountActiveByStaff(_ context.Context, staffID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return 0, r.failWith
	}
	return r.activeByStaff[staffID], nil
}

func (r *memCatalogRepo) CountActiveByService(_ context.Context, serviceID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return 0, r.failWith
	}
	return r.activeByService[serviceID], nil
}
