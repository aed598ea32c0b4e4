package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrSlotTaken is returned when the partial unique index over
	// (staff_id, appointment_date) rejects a write. This is the
	// authoritative double-booking signal.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrStaleRecord is returned when an optimistic-version write matched
	// no rows: the record changed (or vanished) between read and write.
	ErrStaleRecord = errors.New("record modified concurrently")
)
