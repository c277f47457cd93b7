package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"openslot/internal/domain"
)

// SchedulingTx is the view of an owner's calendar inside an
// InOwnerTransaction. The booking flow does its confirm-then-commit sequence
// entirely through it.
type SchedulingTx interface {
	WindowsForDay(ctx context.Context, ownerID uuid.UUID, day domain.Weekday) ([]domain.AvailabilityWindow, error)
	ListAppointmentsOnDate(ctx context.Context, ownerID uuid.UUID, date time.Time) ([]domain.Appointment, error)
	// ListOverlapping returns appointments with start < end && end > start
	// (half-open interval intersection).
	ListOverlapping(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]domain.Appointment, error)
	// CreateAppointment inserts the row. A slot collision caught by the
	// storage constraints surfaces as ErrConflict.
	CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
}
