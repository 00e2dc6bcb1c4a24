package schedule

import (
	"time"

	"github.com/teambition/rrule-go"
)

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// Annotate validates and repairs the recurrence parameters of an event. It is
// pure and total: non-recurring events pass through unchanged, and the input is
// never mutated.
//
// When a weekday set is given but the due date does not fall on one of the
// listed days (an extraction mismatch such as a "first meeting" date that is
// not a class day), the due date is advanced to the earliest matching date on
// or after it. The returned bool reports whether such a relocation happened so
// callers can surface it.
func Annotate(e Event) (Event, bool) {
	if e.Recurrence != RecurrenceWeekly || len(e.DaysOfWeek) == 0 {
		return e, false
	}
	if containsWeekday(e.DaysOfWeek, e.DueDate.Weekday()) {
		return e, false
	}

	next, ok := firstOnOrAfter(e.DueDate, e.DaysOfWeek)
	if !ok {
		return e, false
	}
	e.DueDate = next
	return e, true
}

// firstOnOrAfter returns the earliest instant on or after start whose weekday
// is in days, preserving start's time of day. The weekly rule is built with
// rrule-go so occurrence arithmetic matches the RRULE the encoder emits.
func firstOnOrAfter(start time.Time, days []time.Weekday) (time.Time, bool) {
	byweekday := make([]rrule.Weekday, 0, len(days))
	for _, day := range days {
		byweekday = append(byweekday, rruleWeekdays[day])
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   start,
		Byweekday: byweekday,
	})
	if err != nil {
		return time.Time{}, false
	}

	next := r.After(start, true)
	if next.IsZero() {
		return time.Time{}, false
	}
	return next, true
}
