package store

import (
	"context"

	"github.com/google/uuid"

	"openslot/internal/domain"
)

// AvailabilityRepository owns calendar owners and their weekly windows.
type AvailabilityRepository interface {
	// UpsertOwner returns the owner for email, creating it with the given
	// display name if absent. An existing owner's name is left as is.
	UpsertOwner(ctx context.Context, name, email string) (domain.CalendarOwner, error)
	// OwnerByEmail returns ErrNotFound when no owner has that email.
	OwnerByEmail(ctx context.Context, email string) (domain.CalendarOwner, error)
	// WindowsForDay returns the day's windows ordered by (start_time, end_time).
	WindowsForDay(ctx context.Context, ownerID uuid.UUID, day domain.Weekday) ([]domain.AvailabilityWindow, error)
	// ReplaceDayWindows atomically discards the (owner, day) window set and
	// installs the given one. Duplicate windows surface as ErrConflict.
	ReplaceDayWindows(ctx context.Context, ownerID uuid.UUID, day domain.Weekday, windows []domain.AvailabilityWindow) error
}
