package domain

import (
	"testing"
	"time"
)

// 2026-09-07 is a Monday.
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func window(start, end TimeOfDay) AvailabilityWindow {
	return AvailabilityWindow{DayOfWeek: Monday, StartTime: start, EndTime: end}
}

func TestExpandDay_WholeHourWindows(t *testing.T) {
	windows := []AvailabilityWindow{
		window(NewTimeOfDay(9, 0, 0), NewTimeOfDay(12, 0, 0)),
		window(NewTimeOfDay(13, 0, 0), NewTimeOfDay(15, 0, 0)),
	}

	slots := ExpandDay(monday, windows, nil)

	wantStarts := []TimeOfDay{
		NewTimeOfDay(9, 0, 0),
		NewTimeOfDay(10, 0, 0),
		NewTimeOfDay(11, 0, 0),
		NewTimeOfDay(13, 0, 0),
		NewTimeOfDay(14, 0, 0),
	}
	if len(slots) != len(wantStarts) {
		t.Fatalf("len(slots) = %d, want %d", len(slots), len(wantStarts))
	}
	for i, want := range wantStarts {
		if !slots[i].Start.Equal(want.At(monday)) {
			t.Fatalf("slots[%d].Start = %v, want %v", i, slots[i].Start, want.At(monday))
		}
		if !slots[i].End.Equal(slots[i].Start.Add(SlotDuration)) {
			t.Fatalf("slots[%d] is not one hour long: %v - %v", i, slots[i].Start, slots[i].End)
		}
	}
}

func TestExpandDay_OffsetWindowKeepsLiteralStart(t *testing.T) {
	windows := []AvailabilityWindow{
		window(NewTimeOfDay(9, 15, 0), NewTimeOfDay(12, 0, 0)),
	}

	slots := ExpandDay(monday, windows, nil)

	// 2h45m span: only two whole hours fit, starting at the literal 09:15.
	if len(slots) != 2 {
		t.Fatalf("len(slots) = %d, want 2", len(slots))
	}
	if !slots[0].Start.Equal(NewTimeOfDay(9, 15, 0).At(monday)) {
		t.Fatalf("slots[0].Start = %v, want 09:15", slots[0].Start)
	}
	if !slots[1].Start.Equal(NewTimeOfDay(10, 15, 0).At(monday)) {
		t.Fatalf("slots[1].Start = %v, want 10:15", slots[1].Start)
	}
}

func TestExpandDay_WindowShorterThanSlotYieldsNothing(t *testing.T) {
	windows := []AvailabilityWindow{
		window(NewTimeOfDay(9, 0, 0), NewTimeOfDay(9, 45, 0)),
	}
	if slots := ExpandDay(monday, windows, nil); len(slots) != 0 {
		t.Fatalf("len(slots) = %d, want 0", len(slots))
	}
}

func TestExpandDay_QuantizesPartialHours(t *testing.T) {
	cases := []struct {
		name  string
		start TimeOfDay
		end   TimeOfDay
		want  int
	}{
		{"exact multiple", NewTimeOfDay(9, 0, 0), NewTimeOfDay(11, 0, 0), 2},
		{"half hour remainder", NewTimeOfDay(9, 0, 0), NewTimeOfDay(11, 30, 0), 2},
		{"one minute short", NewTimeOfDay(9, 0, 0), NewTimeOfDay(9, 59, 0), 0},
		{"exactly one hour", NewTimeOfDay(9, 0, 0), NewTimeOfDay(10, 0, 0), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slots := ExpandDay(monday, []AvailabilityWindow{window(tc.start, tc.end)}, nil)
			if len(slots) != tc.want {
				t.Fatalf("len(slots) = %d, want %d", len(slots), tc.want)
			}
			end := tc.end.At(monday)
			for _, s := range slots {
				if s.End.After(end) {
					t.Fatalf("slot %v - %v extends past window end %v", s.Start, s.End, end)
				}
			}
		})
	}
}

func TestExpandDay_DropsBookedStarts(t *testing.T) {
	windows := []AvailabilityWindow{
		window(NewTimeOfDay(9, 0, 0), NewTimeOfDay(12, 0, 0)),
	}
	booked := []Appointment{
		{
			StartTime: NewTimeOfDay(9, 0, 0).At(monday),
			EndTime:   NewTimeOfDay(10, 0, 0).At(monday),
		},
	}

	slots := ExpandDay(monday, windows, booked)

	if len(slots) != 2 {
		t.Fatalf("len(slots) = %d, want 2", len(slots))
	}
	for _, s := range slots {
		if s.Start.Equal(booked[0].StartTime) {
			t.Fatalf("booked start %v still present in slots", s.Start)
		}
	}
}

func TestExpandDay_PreservesWindowOrder(t *testing.T) {
	windows := []AvailabilityWindow{
		window(NewTimeOfDay(13, 0, 0), NewTimeOfDay(14, 0, 0)),
		window(NewTimeOfDay(9, 0, 0), NewTimeOfDay(10, 0, 0)),
	}

	slots := ExpandDay(monday, windows, nil)

	if len(slots) != 2 {
		t.Fatalf("len(slots) = %d, want 2", len(slots))
	}
	if !slots[0].Start.After(slots[1].Start) {
		t.Fatalf("expected window fetch order to win over time order: %v before %v", slots[0].Start, slots[1].Start)
	}
}

func TestParseWeekday(t *testing.T) {
	got, err := ParseWeekday("  MoNdAy ")
	if err != nil {
		t.Fatalf("ParseWeekday error: %v", err)
	}
	if got != Monday {
		t.Fatalf("ParseWeekday = %q, want %q", got, Monday)
	}

	if _, err := ParseWeekday("funday"); err == nil {
		t.Fatalf("expected error for invalid weekday")
	}
}

func TestWeekdayOf(t *testing.T) {
	if got := WeekdayOf(monday); got != Monday {
		t.Fatalf("WeekdayOf = %q, want %q", got, Monday)
	}
	if got := WeekdayOf(monday.AddDate(0, 0, 5)); got != Saturday {
		t.Fatalf("WeekdayOf = %q, want %q", got, Saturday)
	}
}

func TestTimeOfDay_ParseAndString(t *testing.T) {
	got, err := ParseTimeOfDay("09:15:00")
	if err != nil {
		t.Fatalf("ParseTimeOfDay error: %v", err)
	}
	if got != NewTimeOfDay(9, 15, 0) {
		t.Fatalf("ParseTimeOfDay = %v, want 09:15:00", got)
	}
	if got.String() != "09:15:00" {
		t.Fatalf("String = %q, want %q", got.String(), "09:15:00")
	}

	short, err := ParseTimeOfDay("14:30")
	if err != nil {
		t.Fatalf("ParseTimeOfDay error: %v", err)
	}
	if short != NewTimeOfDay(14, 30, 0) {
		t.Fatalf("ParseTimeOfDay = %v, want 14:30:00", short)
	}

	if _, err := ParseTimeOfDay("25:00:00"); err == nil {
		t.Fatalf("expected error for out-of-range hour")
	}
}

func TestTimeOfDay_Scan(t *testing.T) {
	var tod TimeOfDay
	if err := tod.Scan("11:45:30"); err != nil {
		t.Fatalf("Scan(string) error: %v", err)
	}
	if tod != NewTimeOfDay(11, 45, 30) {
		t.Fatalf("Scan = %v, want 11:45:30", tod)
	}

	if err := tod.Scan(time.Date(2000, 1, 1, 8, 5, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan(time.Time) error: %v", err)
	}
	if tod != NewTimeOfDay(8, 5, 0) {
		t.Fatalf("Scan = %v, want 08:05:00", tod)
	}

	if err := tod.Scan(42); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
