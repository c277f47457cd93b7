package domain

import "time"

// Slot is a derived one-hour bookable interval on a specific date. Slots are
// never persisted; they are recomputed from windows minus booked starts.
type Slot struct {
	Start time.Time
	End   time.Time
}

// ExpandDay expands a day's availability windows into hourly slots on the
// given date and drops candidates whose start coincides with a booked
// appointment's start.
//
// Candidates begin at the literal window start, not a rounded boundary:
// emission walks t, t+1h, ... while t+1h still fits inside the window, so a
// window shorter than an hour yields nothing and a window whose span is not
// a whole number of hours silently loses the remainder. Slots come out in
// window order, ascending within each window. Overlapping windows can emit
// overlapping slots; callers get exactly what the windows describe.
func ExpandDay(date time.Time, windows []AvailabilityWindow, booked []Appointment) []Slot {
	taken := make(map[int64]struct{}, len(booked))
	for _, a := range booked {
		taken[a.StartTime.UTC().Unix()] = struct{}{}
	}

	var slots []Slot
	for _, w := range windows {
		end := w.EndTime.At(date)
		for t := w.StartTime.At(date); !t.Add(SlotDuration).After(end); t = t.Add(SlotDuration) {
			if _, ok := taken[t.UTC().Unix()]; ok {
				continue
			}
			slots = append(slots, Slot{Start: t, End: t.Add(SlotDuration)})
		}
	}
	return slots
}
