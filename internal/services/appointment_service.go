package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Kaannpy/Berber-randevu-sistemi/internal/models"
	"github.com/Kaannpy/Berber-randevu-sistemi/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrMissingCaller       = errors.New("no authenticated caller")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrNotOwner            = errors.New("you can only modify your own appointments")
	ErrSlotTaken           = errors.New("staff member already booked at that time")
	ErrStaleAppointment    = errors.New("appointment was modified concurrently, please retry")
)

// AppointmentList is a customer's appointments partitioned three ways.
// The partitions are disjoint and together cover every appointment the
// customer owns.
type AppointmentList struct {
	Upcoming  []models.Appointment
	Past      []models.Appointment
	Cancelled []models.Appointment
}

type AppointmentService struct {
	appointments repository.AppointmentRepository
	catalog      repository.CatalogRepository
}

func NewAppointmentService(appointments repository.AppointmentRepository, catalog repository.CatalogRepository) *AppointmentService {
	return &AppointmentService{appointments: appointments, catalog: catalog}
}

// ListForUser partitions the caller's appointments into upcoming
// (non-cancelled, after now, ascending), past (non-cancelled, at or before
// now, descending) and cancelled (unordered). Storage failures propagate;
// they are never masked with empty lists.
func (s *AppointmentService) ListForUser(ctx context.Context, userID uuid.UUID, now time.Time) (*AppointmentList, error) {
	all, err := s.appointments.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	list := &AppointmentList{
		Upcoming:  []models.Appointment{},
		Past:      []models.Appointment{},
		Cancelled: []models.Appointment{},
	}
	for _, appt := range all {
		switch {
		case appt.IsCancelled:
			list.Cancelled = append(list.Cancelled, appt)
		case appt.AppointmentDate.After(now):
			list.Upcoming = append(list.Upcoming, appt)
		default:
			list.Past = append(list.Past, appt)
		}
	}

	// The store returns ascending order; upcoming keeps it, past flips.
	sort.SliceStable(list.Past, func(i, j int) bool {
		return list.Past[i].AppointmentDate.After(list.Past[j].AppointmentDate)
	})

	return list, nil
}

// Create validates and persists a new appointment for the caller. The
// caller's identity always wins over whatever owner the candidate carries.
// Field violations are accumulated into a single *ValidationError; the slot
// conflict is checked once the candidate is otherwise valid, and the
// store's uniqueness constraint has the final word.
func (s *AppointmentService) Create(ctx context.Context, candidate *models.Appointment, callerID uuid.UUID, now time.Time) (*models.Appointment, error) {
	if callerID == uuid.Nil {
		return nil, ErrMissingCaller
	}
	candidate.UserID = callerID

	verr, err := s.validate(ctx, candidate.StaffID, candidate.ServiceID, candidate.AppointmentDate, now)
	if err != nil {
		return nil, err
	}
	if !verr.ok() {
		return nil, verr
	}

	taken, err := s.appointments.HasActiveSlot(ctx, candidate.StaffID, candidate.AppointmentDate, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("conflict check: %w", err)
	}
	if taken {
		return nil, ErrSlotTaken
	}

	candidate.ID = uuid.New()
	candidate.CreatedAt = now
	candidate.IsCancelled = false
	candidate.Version = 1

	if err := s.appointments.Create(ctx, candidate); err != nil {
		// Two requests can pass the pre-check together; the unique index
		// decides.
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	return candidate, nil
}

// Get returns a single appointment. Customers may only read their own;
// admins may read any.
func (s *AppointmentService) Get(ctx context.Context, id uuid.UUID, callerID uuid.UUID, isAdmin bool) (*models.Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	if !isAdmin && appt.UserID != callerID {
		return nil, ErrNotOwner
	}
	return appt, nil
}

// Update re-validates and rewrites an existing appointment. Ownership is
// required, CreatedAt and UserID are preserved, the conflict check excludes
// the record's own id so it may keep its slot, and the write is guarded by
// the record's version.
func (s *AppointmentService) Update(ctx context.Context, id uuid.UUID, changes *models.Appointment, callerID uuid.UUID, now time.Time) (*models.Appointment, error) {
	if callerID == uuid.Nil {
		return nil, ErrMissingCaller
	}

	existing, err := s.appointments.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	if existing.UserID != callerID {
		return nil, ErrNotOwner
	}

	verr, err := s.validate(ctx, changes.StaffID, changes.ServiceID, changes.AppointmentDate, now)
	if err != nil {
		return nil, err
	}
	if !verr.ok() {
		return nil, verr
	}

	taken, err := s.appointments.HasActiveSlot(ctx, changes.StaffID, changes.AppointmentDate, existing.ID)
	if err != nil {
		return nil, fmt.Errorf("conflict check: %w", err)
	}
	if taken {
		return nil, ErrSlotTaken
	}

	existing.StaffID = changes.StaffID
	existing.ServiceID = changes.ServiceID
	existing.AppointmentDate = changes.AppointmentDate

	if err := s.appointments.Update(ctx, existing); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotTaken):
			return nil, ErrSlotTaken
		case errors.Is(err, repository.ErrStaleRecord):
			// Stale write: the record changed under us, or vanished.
			if _, getErr := s.appointments.GetByID(ctx, id); errors.Is(getErr, repository.ErrNotFound) {
				return nil, ErrAppointmentNotFound
			}
			return nil, ErrStaleAppointment
		default:
			return nil, fmt.Errorf("update appointment: %w", err)
		}
	}

	return existing, nil
}

// Cancel soft-cancels an appointment. Idempotent: cancelling a cancelled
// appointment succeeds without touching the row. Customers may only cancel
// their own appointments; admins may cancel any.
func (s *AppointmentService) Cancel(ctx context.Context, id uuid.UUID, callerID uuid.UUID, isAdmin bool) error {
	existing, err := s.appointments.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAppointmentNotFound
	}
	if err != nil {
		return err
	}
	if !isAdmin && existing.UserID != callerID {
		return ErrNotOwner
	}
	if existing.IsCancelled {
		return nil
	}

	if err := s.appointments.SetCancelled(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAppointmentNotFound
		}
		return fmt.Errorf("cancel appointment: %w", err)
	}
	return nil
}

// validate accumulates every field violation before rejecting: past date,
// missing or unknown staff, missing or unknown service.
func (s *AppointmentService) validate(ctx context.Context, staffID, serviceID uuid.UUID, date time.Time, now time.Time) (*ValidationError, error) {
	verr := &ValidationError{}

	if !date.After(now) {
		verr.add("appointment_date", "appointment date cannot be in the past")
	}

	if staffID == uuid.Nil {
		verr.add("staff_id", "please select a staff member")
	} else if _, err := s.catalog.GetStaff(ctx, staffID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			verr.add("staff_id", "selected staff member does not exist")
		} else {
			return nil, fmt.Errorf("resolve staff: %w", err)
		}
	}

	if serviceID == uuid.Nil {
		verr.add("service_id", "please select a service")
	} else if _, err := s.catalog.GetService(ctx, serviceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			verr.add("service_id", "selected service does not exist")
		} else {
			return nil, fmt.Errorf("resolve service: %w", err)
		}
	}

	return verr, nil
}
