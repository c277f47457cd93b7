package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"openslot/internal/domain"
	"openslot/internal/store"
)

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

type schedulingTx struct {
	tx bun.Tx
}

func (r *AppointmentRepo) ListOnDate(ctx context.Context, ownerID uuid.UUID, date time.Time) ([]domain.Appointment, error) {
	return selectAppointmentsOnDate(ctx, r.db, ownerID, date)
}

func (r *AppointmentRepo) ListUpcoming(ctx context.Context, ownerID uuid.UUID, from time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("calendar_owner_id = ?", ownerID).
		Where("start_time >= ?", from).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// InOwnerTransaction serializes all booking commits for one owner behind a
// transaction-scoped advisory lock, so the confirm-then-commit sequence
// cannot interleave with a concurrent booking for the same calendar.
func (r *AppointmentRepo) InOwnerTransaction(ctx context.Context, ownerID uuid.UUID, fn func(ctx context.Context, tx store.SchedulingTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockOwnerCalendar(ctx, tx, ownerID); err != nil {
			return err
		}
		return fn(ctx, schedulingTx{tx: tx})
	})
}

func lockOwnerCalendar(ctx context.Context, tx bun.Tx, ownerID uuid.UUID) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", ownerID.String()).Exec(ctx)
	return err
}

func (r schedulingTx) WindowsForDay(ctx context.Context, ownerID uuid.UUID, day domain.Weekday) ([]domain.AvailabilityWindow, error) {
	return selectWindowsForDay(ctx, r.tx, ownerID, day)
}

func (r schedulingTx) ListAppointmentsOnDate(ctx context.Context, ownerID uuid.UUID, date time.Time) ([]domain.Appointment, error) {
	return selectAppointmentsOnDate(ctx, r.tx, ownerID, date)
}

func (r schedulingTx) ListOverlapping(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.tx.NewSelect().
		Model(&rows).
		Where("calendar_owner_id = ?", ownerID).
		Where("start_time < ?", end).
		Where("end_time > ?", start).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r schedulingTx) CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := domain.Appointment{
		ID:              appt.ID,
		CalendarOwnerID: appt.CalendarOwnerID,
		InviteeName:     appt.InviteeName,
		InviteeEmail:    appt.InviteeEmail,
		StartTime:       appt.StartTime,
		EndTime:         appt.EndTime,
		Agenda:          appt.Agenda,
		CreatedAt:       appt.CreatedAt,
	}

	_, err := r.tx.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23P01" && pgErr.ConstraintName == "appointments_no_overlap" {
				return domain.Appointment{}, store.ErrConflict
			}
			if pgErr.Code == "23505" && pgErr.ConstraintName == "appointments_owner_start_key" {
				return domain.Appointment{}, store.ErrConflict
			}
		}
		return domain.Appointment{}, err
	}

	appt.ID = m.ID
	appt.CreatedAt = m.CreatedAt
	return appt, nil
}

func selectAppointmentsOnDate(ctx context.Context, db bun.IDB, ownerID uuid.UUID, date time.Time) ([]domain.Appointment, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	var rows []domain.Appointment
	err := db.NewSelect().
		Model(&rows).
		Where("calendar_owner_id = ?", ownerID).
		Where("start_time >= ?", dayStart).
		Where("start_time < ?", dayEnd).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
