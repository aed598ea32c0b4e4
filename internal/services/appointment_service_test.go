package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Kaannpy/Berber-randevu-sistemi/internal/models"
	"github.com/Kaannpy/Berber-randevu-sistemi/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appointmentFixture struct {
	svc       *AppointmentService
	appts     *memAppointmentRepo
	catalog   *memCatalogRepo
	staffID   uuid.UUID
	serviceID uuid.UUID
	now       time.Time
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()
	appts := newMemAppointmentRepo()
	catalog := newMemCatalogRepo()
	return &appointmentFixture{
		svc:       NewAppointmentService(appts, catalog),
		appts:     appts,
		catalog:   catalog,
		staffID:   catalog.addStaff("Ayse"),
		serviceID: catalog.addService("Haircut"),
		now:       time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC),
	}
}

func (f *appointmentFixture) candidate(at time.Time) *models.Appointment {
	return &models.Appointment{
		StaffID:         f.staffID,
		ServiceID:       f.serviceID,
		AppointmentDate: at,
	}
}

func TestCreate_Success(t *testing.T) {
	f := newAppointmentFixture(t)
	alice := uuid.New()
	at := f.now.Add(48 * time.Hour)

	created, err := f.svc.Create(context.Background(), f.candidate(at), alice, f.now)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, alice, created.UserID)
	assert.False(t, created.IsCancelled)
	assert.Equal(t, f.now, created.CreatedAt)
}

func TestCreate_ForcesOwnerFromCaller(t *testing.T) {
	f := newAppointmentFixture(t)
	alice := uuid.New()

	candidate := f.candidate(f.now.Add(time.Hour))
	candidate.UserID = uuid.New() // attempted impersonation

	created, err := f.svc.Create(context.Background(), candidate, alice, f.now)
	require.NoError(t, err)
	assert.Equal(t, alice, created.UserID)
}

func TestCreate_MissingCaller(t *testing.T) {
	f := newAppointmentFixture(t)

	_, err := f.svc.Create(context.Background(), f.candidate(f.now.Add(time.Hour)), uuid.Nil, f.now)
	assert.ErrorIs(t, err, ErrMissingCaller)
	assert.Zero(t, f.appts.count())
}

func TestCreate_PastDateRejectedAndNothingPersisted(t *testing.T) {
	f := newAppointmentFixture(t)

	_, err := f.svc.Create(context.Background(), f.candidate(f.now.Add(-24*time.Hour)), uuid.New(), f.now)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "appointment_date", verr.Fields[0].Field)
	assert.Zero(t, f.appts.count(), "no record may be persisted on validation failure")
}

func TestCreate_AccumulatesAllViolations(t *testing.T) {
	f := newAppointmentFixture(t)

	candidate := &models.Appointment{AppointmentDate: f.now.Add(-time.Hour)}
	_, err := f.svc.Create(context.Background(), candidate, uuid.New(), f.now)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 3, "all violations reported at once, not just the first")

	fields := make([]string, 0, len(verr.Fields))
	for _, fe := range verr.Fields {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"appointment_date", "staff_id", "service_id"}, fields)
}

func TestCreate_UnknownStaffAndService(t *testing.T) {
	f := newAppointmentFixture(t)

	candidate := &models.Appointment{
		StaffID:         uuid.New(),
		ServiceID:       uuid.New(),
		AppointmentDate: f.now.Add(time.Hour),
	}
	_, err := f.svc.Create(context.Background(), candidate, uuid.New(), f.now)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

func TestCreate_DoubleBookingScenario(t *testing.T) {
	// Alice books staff 1 at a slot; Bob's identical booking fails;
	// after Alice cancels, Bob's booking succeeds.
	f := newAppointmentFixture(t)
	alice := uuid.New()
	bob := uuid.New()
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	aliceAppt, err := f.svc.Create(context.Background(), f.candidate(at), alice, f.now)
	require.NoError(t, err)
	assert.False(t, aliceAppt.IsCancelled)

	_, err = f.svc.Create(context.Background(), f.candidate(at), bob, f.now)
	assert.ErrorIs(t, err, ErrSlotTaken)

	require.NoError(t, f.svc.Cancel(context.Background(), aliceAppt.ID, alice, false))
	stored, ok := f.appts.stored(aliceAppt.ID)
	require.True(t, ok)
	assert.True(t, stored.IsCancelled)

	bobAppt, err := f.svc.Create(context.Background(), f.candidate(at), bob, f.now)
	require.NoError(t, err, "cancelled rows do not block reuse of a slot")
	assert.Equal(t, bob, bobAppt.UserID)
}

func TestCreate_DifferentStaffSameTimeAllowed(t *testing.T) {
	f := newAppointmentFixture(t)
	other := f.catalog.addStaff("Mehmet")
	at := f.now.Add(3 * time.Hour)

	_, err := f.svc.Create(context.Background(), f.candidate(at), uuid.New(), f.now)
	require.NoError(t, err)

	candidate := f.candidate(at)
	candidate.StaffID = other
	_, err = f.svc.Create(context.Background(), candidate, uuid.New(), f.now)
	assert.NoError(t, err)
}

func TestCreate_ConflictFromStoreConstraint(t *testing.T) {
	// A racing booking lands between the pre-check and the insert; the
	// store's uniqueness constraint rejects the write and the caller still
	// sees the conflict error.
	f := newAppointmentFixture(t)
	at := f.now.Add(2 * time.Hour)

	f.appts.createHook = func() {
		id := uuid.New()
		f.appts.appointments[id] = models.Appointment{
			ID:              id,
			UserID:          uuid.New(),
			StaffID:         f.staffID,
			ServiceID:       f.serviceID,
			AppointmentDate: at,
			Version:         1,
		}
	}

	_, err := f.svc.Create(context.Background(), f.candidate(at), uuid.New(), f.now)
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, 1, f.appts.count(), "only the racing winner's row remains")
}

func TestListForUser_PartitionsDisjointAndExhaustive(t *testing.T) {
	f := newAppointmentFixture(t)
	alice := uuid.New()
	ctx := context.Background()

	// Two upcoming, two past, one cancelled; plus one foreign appointment.
	up1, err := f.svc.Create(ctx, f.candidate(f.now.Add(24*time.Hour)), alice, f.now)
	require.NoError(t, err)
	up2, err := f.svc.Create(ctx, f.candidate(f.now.Add(48*time.Hour)), alice, f.now)
	require.NoError(t, err)

	past1, err := f.svc.Create(ctx, f.candidate(f.now.Add(time.Minute)), alice, f.now)
	require.NoError(t, err)
	past2, err := f.svc.Create(ctx, f.candidate(f.now.Add(2*time.Minute)), alice, f.now)
	require.NoError(t, err)

	cancelled, err := f.svc.Create(ctx, f.candidate(f.now.Add(72*time.Hour)), alice, f.now)
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(ctx, cancelled.ID, alice, false))

	_, err = f.svc.Create(ctx, f.candidate(f.now.Add(96*time.Hour)), uuid.New(), f.now)
	require.NoError(t, err)

	// List as of a later time so past1/past2 have slipped into the past.
	later := f.now.Add(10 * time.Minute)
	list, err := f.svc.ListForUser(ctx, alice, later)
	require.NoError(t, err)

	require.Len(t, list.Upcoming, 2)
	require.Len(t, list.Past, 2)
	require.Len(t, list.Cancelled, 1)

	// Upcoming ascending.
	assert.Equal(t, up1.ID, list.Upcoming[0].ID)
	assert.Equal(t, up2.ID, list.Upcoming[1].ID)

	// Past descending.
	assert.Equal(t, past2.ID, list.Past[0].ID)
	assert.Equal(t, past1.ID, list.Past[1].ID)

	assert.Equal(t, cancelled.ID, list.Cancelled[0].ID)

	// Disjoint: no id appears in more than one partition.
	seen := make(map[uuid.UUID]int)
	for _, part := range [][]models.Appointment{list.Upcoming, list.Past, list.Cancelled} {
		for _, appt := range part {
			seen[appt.ID]++
			assert.Equal(t, alice, appt.UserID)
		}
	}
	assert.Len(t, seen, 5)
	for id, n := range seen {
		assert.Equalf(t, 1, n, "appointment %s appears in %d partitions", id, n)
	}
}

func TestListForUser_EmptyIsNotAnError(t *testing.T) {
	f := newAppointmentFixture(t)

	list, err := f.svc.ListForUser(context.Background(), uuid.New(), f.now)
	require.NoError(t, err)
	assert.NotNil(t, list.Upcoming)
	assert.NotNil(t, list.Past)
	assert.NotNil(t, list.Cancelled)
	assert.Empty(t, list.Upcoming)
	assert.Empty(t, list.Past)
	assert.Empty(t, list.Cancelled)
}

func TestListForUser_StorageErrorPropagates(t *testing.T) {
	f := newAppointmentFixture(t)
	f.appts.failWith = errors.New("connection reset")

	_, err := f.svc.ListForUser(context.Background(), uuid.New(), f.now)
	require.Error(t, err, "storage failures must not be masked with empty lists")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestUpdate_PreservesCreatedAtAndOwner(t *testing.T) {
	f := newAppointmentFixture(t)
	alice := uuid.New()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.candidate(f.now.Add(24*time.Hour)), alice, f.now)
	require.NoError(t, err)

	changes := f.candidate(f.now.Add(36 * time.Hour))
	changes.UserID = uuid.New() // must be ignored

	later := f.now.Add(time.Hour)
	updated, err := f.svc.Update(ctx, created.ID, changes, alice, later)
	require.NoError(t, err)

	assert.Equal(t, created.CreatedAt, updated.CreatedAt, "createdAt is immutable under edits")
	assert.Equal(t, alice, updated.UserID)
	assert.Equal(t, f.now.Add(36*time.Hour), updated.AppointmentDate)
}

func TestUpdate_RecordKeepsOwnSlot(t *testing.T) {
	f := newAppointmentFixture(t)
	alice := uuid.New()
	ctx := context.Background()
	at := f.now.Add(24 * time.Hour)

	created, err := f.svc.Create(ctx, f.candidate(at), alice, f.now)
	require.NoError(t, err)

	// Same slot, different service: the conflict check must exclude the
	// record's own id.
	otherService := f.catalog.addService("Coloring")
	changes := f.candidate(at)
	changes.ServiceID = otherService

	updated, err := f.svc.Update(ctx, created.ID, changes, alice, f.now)
	require.NoError(t, err)
	assert.Equal(t, otherService, updated.ServiceID)
}

func TestUpdate_ConflictWithOtherAppointment(t *testing.T) {
	f := newAppointmentFixture(t)
	alice := uuid.New()
	ctx := context.Background()

	taken := f.now.Add(24 * time.Hour)
	_, err := f.svc.Create(ctx, f.candidate(taken), uuid.New(), f.now)
	require.NoError(t, err)

	mine, err := f.svc.Create(ctx, f.candidate(f.now.Add(48*time.Hour)), alice, f.now)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, mine.ID, f.candidate(taken), alice, f.now)
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestUpdate_ForbiddenLeavesRecordUnaltered(t *testing.T) {
	f := newAppointmentFixture(t)
	alice := uuid.New()
	bob := uuid.New()
	ctx := context.Background()
	at := f.now.Add(24 * time.Hour)

	created, err := f.svc.Create(ctx, f.candidate(at), alice, f.now)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, created.ID, f.candidate(f.now.Add(48*time.Hour)), bob, f.now)
	assert.ErrorIs(t, err, ErrNotOwner)

	stored, ok := f.appts.stored(created.ID)
	require.True(t, ok)
	assert.Equal(t, at, stored.AppointmentDate, "forbidden update must not alter the record")
	assert.Equal(t, alice, stored.UserID)
}

func TestUpdate_NotFound(t *testing.T) {
	f := newAppointmentFixture(t)

	_, err := f.svc.Update(context.Background(), uuid.New(), f.candidate(f.now.Add(time.Hour)), uuid.New(), f.now)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUpdate_StaleWriteSurfacesConcurrencyError(t *testing.T) {
	f := newAppointmentFixture(t)
	alice := uuid.New()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.candidate(f.now.Add(24*time.Hour)), alice, f.now)
	require.NoError(t, err)

	// A competing writer bumps the version between the service's read and
	// its write. The record is still there, so the caller is told to
	// re-fetch and retry.
	f.appts.updateHook = func() {
		row := f.appts.appointments[created.ID]
		row.Version++
		f.appts.appointments[created.ID] = row
	}
	f.appts.updateErr = repository.ErrStaleRecord

	_, err = f.svc.Update(ctx, created.ID, f.candidate(f.now.Add(30*time.Hour)), alice, f.now)
	assert.ErrorIs(t, err, ErrStaleAppointment)
}

func TestUpdate_StaleWriteOnVanishedRecord(t *testing.T) {
	f := newAppointmentFixture(t)
	alice := uuid.New()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.candidate(f.now.Add(24*time.Hour)), alice, f.now)
	require.NoError(t, err)

	// The record disappears between the service's read and its write.
	f.appts.updateHook = func() {
		delete(f.appts.appointments, created.ID)
	}
	f.appts.updateErr = repository.ErrStaleRecord

	_, err = f.svc.Update(ctx, created.ID, f.candidate(f.now.Add(30*time.Hour)), alice, f.now)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancel_Idempotent(t *testing.T) {
	f := newAppointmentFixture(t)
	alice := uuid.New()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.candidate(f.now.Add(24*time.Hour)), alice, f.now)
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(ctx, created.ID, alice, false))
	require.NoError(t, f.svc.Cancel(ctx, created.ID, alice, false), "cancelling a cancelled appointment is a no-op success")

	stored, ok := f.appts.stored(created.ID)
	require.True(t, ok)
	assert.True(t, stored.IsCancelled)
}

func TestCancel_NotFound(t *testing.T) {
	f := newAppointmentFixture(t)

	err := f.svc.Cancel(context.Background(), uuid.New(), uuid.New(), false)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancel_OwnershipEnforced(t *testing.T) {
	f := newAppointmentFixture(t)
	alice := uuid.New()
	bob := uuid.New()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.candidate(f.now.Add(24*time.Hour)), alice, f.now)
	require.NoError(t, err)

	err = f.svc.Cancel(ctx, created.ID, bob, false)
	assert.ErrorIs(t, err, ErrNotOwner)

	stored, _ := f.appts.stored(created.ID)
	assert.False(t, stored.IsCancelled)
}

func TestCancel_AdminMayCancelAnyAppointment(t *testing.T) {
	f := newAppointmentFixture(t)
	alice := uuid.New()
	admin := uuid.New()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.candidate(f.now.Add(24*time.Hour)), alice, f.now)
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(ctx, created.ID, admin, true))

	stored, _ := f.appts.stored(created.ID)
	assert.True(t, stored.IsCancelled)
}

func TestGet_OwnershipEnforced(t *testing.T) {
	f := newAppointmentFixture(t)
	alice := uuid.New()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.candidate(f.now.Add(24*time.Hour)), alice, f.now)
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, created.ID, alice, false)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = f.svc.Get(ctx, created.ID, uuid.New(), false)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = f.svc.Get(ctx, created.ID, uuid.New(), true)
	assert.NoError(t, err, "admins may read any appointment")
}
