package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"openslot/internal/domain"
	"openslot/internal/store"
)

type AvailabilityRepo struct {
	db *bun.DB
}

func NewAvailabilityRepo(db *bun.DB) *AvailabilityRepo {
	return &AvailabilityRepo{db: db}
}

func (r *AvailabilityRepo) UpsertOwner(ctx context.Context, name, email string) (domain.CalendarOwner, error) {
	owner, err := r.OwnerByEmail(ctx, email)
	if err == nil {
		return owner, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.CalendarOwner{}, err
	}

	m := domain.CalendarOwner{Name: name, Email: email}
	_, err = r.db.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// lost a create race; the winner's row is the identity
			return r.OwnerByEmail(ctx, email)
		}
		return domain.CalendarOwner{}, err
	}
	return m, nil
}

func (r *AvailabilityRepo) OwnerByEmail(ctx context.Context, email string) (domain.CalendarOwner, error) {
	var owner domain.CalendarOwner
	err := r.db.NewSelect().
		Model(&owner).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CalendarOwner{}, store.ErrNotFound
		}
		return domain.CalendarOwner{}, err
	}
	return owner, nil
}

func (r *AvailabilityRepo) WindowsForDay(ctx context.Context, ownerID uuid.UUID, day domain.Weekday) ([]domain.AvailabilityWindow, error) {
	return selectWindowsForDay(ctx, r.db, ownerID, day)
}

func (r *AvailabilityRepo) ReplaceDayWindows(ctx context.Context, ownerID uuid.UUID, day domain.Weekday, windows []domain.AvailabilityWindow) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockOwnerCalendar(ctx, tx, ownerID); err != nil {
			return err
		}

		_, err := tx.NewDelete().
			Model((*domain.AvailabilityWindow)(nil)).
			Where("calendar_owner_id = ?", ownerID).
			Where("day_of_week = ?", day).
			Exec(ctx)
		if err != nil {
			return err
		}

		for i := range windows {
			windows[i].CalendarOwnerID = ownerID
			windows[i].DayOfWeek = day
		}
		if len(windows) == 0 {
			return nil
		}

		_, err = tx.NewInsert().Model(&windows).Exec(ctx)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return store.ErrConflict
			}
			return err
		}
		return nil
	})
}

func selectWindowsForDay(ctx context.Context, db bun.IDB, ownerID uuid.UUID, day domain.Weekday) ([]domain.AvailabilityWindow, error) {
	var rows []domain.AvailabilityWindow
	err := db.NewSelect().
		Model(&rows).
		Where("calendar_owner_id = ?", ownerID).
		Where("day_of_week = ?", day).
		OrderExpr("start_time ASC, end_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
