package scheduling

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"openslot/internal/domain"
	"openslot/internal/store"
)

var (
	ErrOwnerNotFound    = errors.New("calendar owner not found")
	ErrPastTime         = errors.New("time is in the past")
	ErrSlotNotAligned   = errors.New("slot must start at the top of the hour")
	ErrSlotTaken        = errors.New("slot is already booked")
	ErrSlotNotAvailable = errors.New("slot is not available")
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// Service is the scheduling core: it resolves availability windows into
// bookable slots and commits bookings against them.
type Service struct {
	avail store.AvailabilityRepository
	appts store.AppointmentRepository
	now   func() time.Time
}

func NewService(avail store.AvailabilityRepository, appts store.AppointmentRepository) *Service {
	return &Service{avail: avail, appts: appts, now: time.Now}
}

// dayReader is the slice of storage the resolver needs. Both the plain
// repositories and an open SchedulingTx satisfy it, so search and the
// booking re-check share one code path.
type dayReader interface {
	WindowsForDay(ctx context.Context, ownerID uuid.UUID, day domain.Weekday) ([]domain.AvailabilityWindow, error)
	ListAppointmentsOnDate(ctx context.Context, ownerID uuid.UUID, date time.Time) ([]domain.Appointment, error)
}

type repoDayReader struct {
	avail store.AvailabilityRepository
	appts store.AppointmentRepository
}

func (r repoDayReader) WindowsForDay(ctx context.Context, ownerID uuid.UUID, day domain.Weekday) ([]domain.AvailabilityWindow, error) {
	return r.avail.WindowsForDay(ctx, ownerID, day)
}

func (r repoDayReader) ListAppointmentsOnDate(ctx context.Context, ownerID uuid.UUID, date time.Time) ([]domain.Appointment, error) {
	return r.appts.ListOnDate(ctx, ownerID, date)
}

// AvailableSlots returns the ordered open one-hour slots for the owner on
// the given calendar date. A date before the current day is rejected with
// ErrPastTime; an unknown owner with ErrOwnerNotFound. A day without
// windows resolves to an empty list, not an error.
func (s *Service) AvailableSlots(ctx context.Context, ownerEmail string, date time.Time) ([]domain.Slot, error) {
	email := domain.NormalizeEmail(ownerEmail)
	if email == "" {
		return nil, validationError("owner_email is required")
	}

	day := dateOnly(date)
	if day.Before(dateOnly(s.now())) {
		return nil, ErrPastTime
	}

	owner, err := s.avail.OwnerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}

	return resolveSlots(ctx, repoDayReader{avail: s.avail, appts: s.appts}, owner.ID, day)
}

func resolveSlots(ctx context.Context, r dayReader, ownerID uuid.UUID, date time.Time) ([]domain.Slot, error) {
	windows, err := r.WindowsForDay(ctx, ownerID, domain.WeekdayOf(date))
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, nil
	}

	booked, err := r.ListAppointmentsOnDate(ctx, ownerID, date)
	if err != nil {
		return nil, err
	}

	return domain.ExpandDay(date, windows, booked), nil
}

type BookInput struct {
	OwnerEmail   string
	InviteeName  string
	InviteeEmail string
	StartTime    time.Time
	Agenda       string
}

// Book validates the requested slot and commits the appointment. The
// conflict check, the resolver re-check, and the insert all run inside one
// per-owner transaction, so two concurrent bookings for the same slot have
// exactly one winner; the storage uniqueness constraint backstops the same
// guarantee at insert time.
func (s *Service) Book(ctx context.Context, in BookInput) (domain.Appointment, error) {
	inviteeName := strings.TrimSpace(in.InviteeName)
	if inviteeName == "" {
		return domain.Appointment{}, validationError("invitee_name is required")
	}
	inviteeEmail := domain.NormalizeEmail(in.InviteeEmail)
	if inviteeEmail == "" {
		return domain.Appointment{}, validationError("invitee_email is required")
	}
	email := domain.NormalizeEmail(in.OwnerEmail)
	if email == "" {
		return domain.Appointment{}, validationError("owner_email is required")
	}

	start := in.StartTime.UTC()
	if start.Before(s.now().UTC()) {
		return domain.Appointment{}, ErrPastTime
	}

	owner, err := s.avail.OwnerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, ErrOwnerNotFound
		}
		return domain.Appointment{}, err
	}

	if start.Minute() != 0 {
		return domain.Appointment{}, ErrSlotNotAligned
	}
	end := start.Add(domain.SlotDuration)

	var out domain.Appointment
	err = s.appts.InOwnerTransaction(ctx, owner.ID, func(ctx context.Context, tx store.SchedulingTx) error {
		overlapping, err := tx.ListOverlapping(ctx, owner.ID, start, end)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return ErrSlotTaken
		}

		slots, err := resolveSlots(ctx, tx, owner.ID, dateOnly(start))
		if err != nil {
			return err
		}
		if !containsStart(slots, start) {
			return ErrSlotNotAvailable
		}

		created, err := tx.CreateAppointment(ctx, domain.Appointment{
			CalendarOwnerID: owner.ID,
			InviteeName:     inviteeName,
			InviteeEmail:    inviteeEmail,
			StartTime:       start,
			EndTime:         end,
			Agenda:          in.Agenda,
		})
		if err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrSlotTaken
			}
			return err
		}
		out = created
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

type WindowInput struct {
	Start domain.TimeOfDay
	End   domain.TimeOfDay
}

type SetAvailabilityInput struct {
	OwnerName  string
	OwnerEmail string
	Days       map[string][]WindowInput
}

// SetAvailability upserts the owner by email and replaces the window set for
// each submitted day. Windows for a day are validated before that day is
// touched; days absent from the input keep their existing windows. An
// existing owner's display name is not updated.
func (s *Service) SetAvailability(ctx context.Context, in SetAvailabilityInput) (domain.CalendarOwner, error) {
	name := strings.TrimSpace(in.OwnerName)
	if len(name) < 3 {
		return domain.CalendarOwner{}, validationError("owner_name must be at least 3 characters")
	}
	email := domain.NormalizeEmail(in.OwnerEmail)
	if email == "" {
		return domain.CalendarOwner{}, validationError("owner_email is required")
	}

	days := make([]domain.Weekday, 0, len(in.Days))
	windowsByDay := make(map[domain.Weekday][]WindowInput, len(in.Days))
	for rawDay, wins := range in.Days {
		day, err := domain.ParseWeekday(rawDay)
		if err != nil {
			return domain.CalendarOwner{}, validationError(rawDay + " is not a valid day")
		}
		days = append(days, day)
		windowsByDay[day] = wins
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	owner, err := s.avail.UpsertOwner(ctx, name, email)
	if err != nil {
		return domain.CalendarOwner{}, err
	}

	for _, day := range days {
		wins := windowsByDay[day]
		rows := make([]domain.AvailabilityWindow, 0, len(wins))
		for _, w := range wins {
			if w.Start >= w.End {
				return domain.CalendarOwner{}, validationError("start_time must be before end_time")
			}
			rows = append(rows, domain.AvailabilityWindow{
				CalendarOwnerID: owner.ID,
				DayOfWeek:       day,
				StartTime:       w.Start,
				EndTime:         w.End,
			})
		}

		if err := s.avail.ReplaceDayWindows(ctx, owner.ID, day, rows); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return domain.CalendarOwner{}, validationError("duplicate availability window for " + string(day))
			}
			return domain.CalendarOwner{}, err
		}
	}

	return owner, nil
}

// UpcomingAppointments lists the owner's appointments from the start of the
// current UTC day onward, ordered by start time.
func (s *Service) UpcomingAppointments(ctx context.Context, ownerEmail string) ([]domain.Appointment, error) {
	email := domain.NormalizeEmail(ownerEmail)
	if email == "" {
		return nil, validationError("owner_email is required")
	}

	owner, err := s.avail.OwnerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}

	return s.appts.ListUpcoming(ctx, owner.ID, dateOnly(s.now()))
}

func containsStart(slots []domain.Slot, start time.Time) bool {
	for _, s := range slots {
		if s.Start.Equal(start) {
			return true
		}
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
