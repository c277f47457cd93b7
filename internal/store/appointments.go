package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"openslot/internal/domain"
)

// AppointmentRepository owns booked appointments per calendar owner.
type AppointmentRepository interface {
	// ListOnDate returns appointments starting on the calendar date of `date`,
	// ordered by start time.
	ListOnDate(ctx context.Context, ownerID uuid.UUID, date time.Time) ([]domain.Appointment, error)
	// ListUpcoming returns appointments starting at or after `from`, ordered
	// by start time.
	ListUpcoming(ctx context.Context, ownerID uuid.UUID, from time.Time) ([]domain.Appointment, error)
	// InOwnerTransaction runs fn with the owner's calendar serialized: no
	// other InOwnerTransaction call for the same owner interleaves with it.
	InOwnerTransaction(ctx context.Context, ownerID uuid.UUID, fn func(ctx context.Context, tx SchedulingTx) error) error
}
