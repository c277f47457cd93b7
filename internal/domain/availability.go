package domain

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Weekday is a lowercased weekday name ("monday" .. "sunday").
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

var weekdays = map[Weekday]struct{}{
	Monday: {}, Tuesday: {}, Wednesday: {}, Thursday: {},
	Friday: {}, Saturday: {}, Sunday: {},
}

// ParseWeekday normalizes a weekday name case-insensitively.
func ParseWeekday(s string) (Weekday, error) {
	w := Weekday(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := weekdays[w]; !ok {
		return "", fmt.Errorf("invalid weekday %q", s)
	}
	return w, nil
}

// WeekdayOf returns the weekday name of a calendar date.
func WeekdayOf(date time.Time) Weekday {
	return Weekday(strings.ToLower(date.Weekday().String()))
}

// TimeOfDay is a wall-clock time with no date attached, stored as seconds
// since midnight and serialized as HH:MM:SS for the postgres TIME column.
type TimeOfDay time.Duration

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second)
}

// ParseTimeOfDay accepts HH:MM:SS or HH:MM.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return NewTimeOfDay(t.Hour(), t.Minute(), t.Second()), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

func (t TimeOfDay) Duration() time.Duration { return time.Duration(t) }

func (t TimeOfDay) String() string {
	d := time.Duration(t)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// At anchors the wall-clock time on a calendar date, keeping the date's
// location. All instants in this system are naive UTC wall-clock values.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()).
		Add(time.Duration(t))
}

var _ driver.Valuer = TimeOfDay(0)

func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		return t.Scan(string(v))
	case time.Time:
		*t = NewTimeOfDay(v.Hour(), v.Minute(), v.Second())
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
}

// AvailabilityWindow is one recurring weekly interval of availability.
// Invariant: StartTime < EndTime. (owner, day, start, end) is unique.
type AvailabilityWindow struct {
	bun.BaseModel `bun:"table:availability_windows"`

	ID              uuid.UUID `bun:"id,pk,type:uuid"`
	CalendarOwnerID uuid.UUID `bun:"calendar_owner_id,notnull,type:uuid"`
	DayOfWeek       Weekday   `bun:"day_of_week,notnull"`
	StartTime       TimeOfDay `bun:"start_time,notnull"`
	EndTime         TimeOfDay `bun:"end_time,notnull"`
	CreatedAt       time.Time `bun:"created_at,notnull"`
}

func (w *AvailabilityWindow) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); !ok {
		return nil
	}
	if w.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		w.ID = id
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	return nil
}
