package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SlotDuration is the only appointment length the system creates.
const SlotDuration = time.Hour

// Appointment is a booked one-hour slot. Invariants: EndTime is exactly
// StartTime + SlotDuration and StartTime is on the hour. Rows are created
// only by the booking flow and never updated in place.
type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID              uuid.UUID `bun:"id,pk,type:uuid"`
	CalendarOwnerID uuid.UUID `bun:"calendar_owner_id,notnull,type:uuid"`
	InviteeName     string    `bun:"invitee_name,notnull"`
	InviteeEmail    string    `bun:"invitee_email,notnull"`
	StartTime       time.Time `bun:"start_time,notnull"`
	EndTime         time.Time `bun:"end_time,notnull"`
	Agenda          string    `bun:"agenda"`
	CreatedAt       time.Time `bun:"created_at,notnull"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); !ok {
		return nil
	}
	if a.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		a.ID = id
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return nil
}
