package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Kind classifies a schedule entry. It drives default priority and the glyph
// used in exported calendar titles.
type Kind string

const (
	KindAssignment  Kind = "assignment"
	KindExam        Kind = "exam"
	KindQuiz        Kind = "quiz"
	KindProject     Kind = "project"
	KindLecture     Kind = "lecture"
	KindOfficeHours Kind = "office_hours"
	KindClass       Kind = "class"
	KindOther       Kind = "other"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

type Recurrence string

// RecurrenceWeekly is the only supported repetition pattern: weekly, across a
// date range, optionally restricted to a weekday set.
const RecurrenceWeekly Recurrence = "weekly"

// Event is the canonical calendar-schedulable item. Events are produced by the
// normalizer from extraction output or added manually through the API; the ID
// is immutable once assigned and unique within a user's schedule.
type Event struct {
	ID    string
	Title string
	Kind  Kind

	// DueDate is the absolute date of the event, carrying the time of day when
	// HasTime is set. For recurring events it is the first occurrence.
	DueDate time.Time
	// HasTime distinguishes timed events from all-day ones.
	HasTime bool

	// EndDate is the inclusive last day of a recurrence; nil for one-off events.
	EndDate    *time.Time
	Recurrence Recurrence
	// DaysOfWeek restricts a weekly recurrence to specific weekdays. Empty
	// means the event recurs on DueDate's weekday.
	DaysOfWeek []time.Weekday

	Description string
	Location    string
	CourseCode  string

	Points *float64
	Weight *float64

	Priority Priority
	Status   Status
	IsEdited bool
}

// NormalizationError records a source item that was dropped during
// normalization, referencing the list and index it came from.
type NormalizationError struct {
	Source string
	Index  int
	Reason string
}

func (e NormalizationError) Error() string {
	return fmt.Sprintf("%s[%d]: %s", e.Source, e.Index, e.Reason)
}

// Warning records a best-effort correction that did not drop the item, such as
// a recurrence start date relocated to the nearest listed weekday.
type Warning struct {
	EventID string
	Reason  string
}

// DefaultPriority returns the priority assigned to a kind when neither the
// extraction output nor the user specified one.
func DefaultPriority(k Kind) Priority {
	switch k {
	case KindExam, KindProject:
		return PriorityHigh
	case KindAssignment, KindQuiz:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Validate checks the model invariants that hold for every event handed to
// storage or the encoder.
func (e Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event ID must not be empty")
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("event title must not be empty")
	}
	switch e.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return fmt.Errorf("invalid priority %q", e.Priority)
	}
	switch e.Status {
	case StatusPending, StatusInProgress, StatusCompleted:
	default:
		return fmt.Errorf("invalid status %q", e.Status)
	}
	if e.DueDate.IsZero() {
		return fmt.Errorf("event due date must be set")
	}
	if e.Recurrence != "" {
		if e.Recurrence != RecurrenceWeekly {
			return fmt.Errorf("unsupported recurrence %q", e.Recurrence)
		}
		if e.EndDate == nil {
			return fmt.Errorf("recurring event requires an end date")
		}
		if e.EndDate.Before(truncateToDay(e.DueDate)) {
			return fmt.Errorf("recurrence end date precedes due date")
		}
	}
	return nil
}

var weekdayByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sun":       time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"thur":      time.Thursday,
	"thurs":     time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
}

// ParseWeekday resolves a weekday name as emitted by the extraction service.
// Full names and common abbreviations are accepted, case-insensitively.
func ParseWeekday(name string) (time.Weekday, error) {
	day, ok := weekdayByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return time.Sunday, fmt.Errorf("unrecognized weekday %q", name)
	}
	return day, nil
}

// sortWeekdays orders a weekday set Monday-first so downstream output
// (BYDAY lists, API responses) is deterministic regardless of source order.
func sortWeekdays(days []time.Weekday) []time.Weekday {
	sorted := make([]time.Weekday, len(days))
	copy(sorted, days)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && mondayIndex(sorted[j]) < mondayIndex(sorted[j-1]); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted
}

func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func containsWeekday(days []time.Weekday, d time.Weekday) bool {
	for _, day := range days {
		if day == d {
			return true
		}
	}
	return false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
