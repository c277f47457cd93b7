package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CalendarOwner is identified by its lowercased email. NormalizeEmail must be
// applied before any lookup or insert; the database unique index assumes it.
type CalendarOwner struct {
	bun.BaseModel `bun:"table:calendar_owners"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Name      string    `bun:"name,notnull"`
	Email     string    `bun:"email,notnull,unique"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func (o *CalendarOwner) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if o.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			o.ID = id
		}
		if o.CreatedAt.IsZero() {
			o.CreatedAt = now
		}
		if o.UpdatedAt.IsZero() {
			o.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		o.UpdatedAt = now
	}
	return nil
}

// NormalizeEmail is the single normalization applied at every ingress that
// touches owner identity.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
