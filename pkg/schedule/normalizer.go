package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/syllabussync/syllabussync/pkg/extraction"
)

const dateLayout = "2006-01-02"

// Clock-time defaults applied when the extraction output carries no time of day.
var (
	endOfDay   = clockTime{23, 59}
	midMorning = clockTime{10, 0}
)

type clockTime struct {
	hour   int
	minute int
}

// Normalize converts an extraction payload into the canonical event list.
//
// Items whose date cannot be parsed are dropped and reported, never replaced
// with a fabricated date; normalization always continues with the remaining
// items. The output order is a contract: homework, exams, projects, office
// hours, class meetings, each in source order. Recurring entries whose start
// date does not land on a listed weekday are repaired by Annotate and the
// relocation is reported as a Warning.
func Normalize(p extraction.Payload) ([]Event, []NormalizationError, []Warning) {
	events := make([]Event, 0,
		len(p.Homework)+len(p.Exams)+len(p.Projects)+len(p.OfficeHours)+len(p.ClassMeetings))
	var errs []NormalizationError
	var warnings []Warning

	for i, item := range p.Homework {
		date, err := parseDate(item.DueDate)
		if err != nil {
			errs = append(errs, NormalizationError{Source: "homework", Index: i,
				Reason: fmt.Sprintf("unparseable due date %q", item.DueDate)})
			continue
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = fmt.Sprintf("Assignment %d", i+1)
		}
		events = append(events, Event{
			ID:         fmt.Sprintf("hw-%d", i),
			Title:      title,
			Kind:       KindAssignment,
			DueDate:    atClock(date, endOfDay),
			HasTime:    true,
			CourseCode: p.CourseCode,
			Priority:   PriorityMedium,
			Status:     StatusPending,
		})
	}

	for i, item := range p.Exams {
		date, err := parseDate(item.Date)
		if err != nil {
			errs = append(errs, NormalizationError{Source: "exams", Index: i,
				Reason: fmt.Sprintf("unparseable date %q", item.Date)})
			continue
		}
		title := strings.TrimSpace(item.Type)
		if title == "" {
			title = fmt.Sprintf("Exam %d", i+1)
		}
		events = append(events, Event{
			ID:         fmt.Sprintf("exam-%d", i),
			Title:      title,
			Kind:       KindExam,
			DueDate:    atClock(date, midMorning),
			HasTime:    true,
			CourseCode: p.CourseCode,
			Priority:   PriorityHigh,
			Status:     StatusPending,
		})
	}

	for i, item := range p.Projects {
		date, err := parseDate(item.DueDate)
		if err != nil {
			errs = append(errs, NormalizationError{Source: "projects", Index: i,
				Reason: fmt.Sprintf("unparseable due date %q", item.DueDate)})
			continue
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = fmt.Sprintf("Project %d", i+1)
		}
		events = append(events, Event{
			ID:         fmt.Sprintf("project-%d", i),
			Title:      title,
			Kind:       KindProject,
			DueDate:    atClock(date, endOfDay),
			HasTime:    true,
			CourseCode: p.CourseCode,
			Priority:   PriorityHigh,
			Status:     StatusPending,
		})
	}

	for i, item := range p.OfficeHours {
		day, err := ParseWeekday(item.Day)
		if err != nil {
			errs = append(errs, NormalizationError{Source: "office_hours", Index: i, Reason: err.Error()})
			continue
		}
		ev, nerr := newRecurringEvent(fmt.Sprintf("oh-%d", i), KindOfficeHours,
			item.StartDate, item.EndDate, item.Time, []time.Weekday{day})
		if nerr != "" {
			errs = append(errs, NormalizationError{Source: "office_hours", Index: i, Reason: nerr})
			continue
		}
		ev.Title = officeHoursTitle(p.Professor)
		ev.Location = item.Location
		ev.CourseCode = p.CourseCode

		ev, warning := annotateWithWarning(ev)
		if warning != nil {
			warnings = append(warnings, *warning)
		}
		events = append(events, ev)
	}

	for i, item := range p.ClassMeetings {
		days, err := parseWeekdaySet(item.Days)
		if err != nil {
			errs = append(errs, NormalizationError{Source: "class_meetings", Index: i, Reason: err.Error()})
			continue
		}
		ev, nerr := newRecurringEvent(fmt.Sprintf("class-%d", i), KindClass,
			item.StartDate, item.EndDate, item.Time, days)
		if nerr != "" {
			errs = append(errs, NormalizationError{Source: "class_meetings", Index: i, Reason: nerr})
			continue
		}
		ev.Title = classMeetingTitle(p.CourseName)
		ev.Location = item.Location
		ev.Description = strings.TrimSpace(p.ClassSchedule)
		ev.CourseCode = p.CourseCode

		ev, warning := annotateWithWarning(ev)
		if warning != nil {
			warnings = append(warnings, *warning)
		}
		events = append(events, ev)
	}

	return events, errs, warnings
}

// newRecurringEvent builds the shared shape of office-hours and class-meeting
// events. It returns a non-empty reason string when a date field is unusable.
func newRecurringEvent(id string, kind Kind, startDate, endDate, timeOfDay string, days []time.Weekday) (Event, string) {
	start, err := parseDate(startDate)
	if err != nil {
		return Event{}, fmt.Sprintf("unparseable start date %q", startDate)
	}
	end, err := parseDate(endDate)
	if err != nil {
		return Event{}, fmt.Sprintf("unparseable end date %q", endDate)
	}
	if end.Before(start) {
		return Event{}, fmt.Sprintf("end date %q precedes start date %q", endDate, startDate)
	}

	ev := Event{
		ID:         id,
		Kind:       kind,
		DueDate:    start,
		EndDate:    &end,
		Recurrence: RecurrenceWeekly,
		DaysOfWeek: days,
		Priority:   PriorityLow,
		Status:     StatusPending,
	}
	if clock, ok := parseClock(timeOfDay); ok {
		ev.DueDate = atClock(start, clock)
		ev.HasTime = true
	}
	return ev, ""
}

func annotateWithWarning(ev Event) (Event, *Warning) {
	original := ev.DueDate
	annotated, repaired := Annotate(ev)
	if !repaired {
		return annotated, nil
	}
	return annotated, &Warning{
		EventID: annotated.ID,
		Reason: fmt.Sprintf("start date %s is not on a listed weekday; first occurrence moved to %s",
			original.Format(dateLayout), annotated.DueDate.Format(dateLayout)),
	}
}

func officeHoursTitle(prof extraction.Professor) string {
	name := strings.TrimSpace(prof.Name)
	if name == "" {
		return "Office Hours"
	}
	return name + " Office Hours"
}

func classMeetingTitle(courseName string) string {
	name := strings.TrimSpace(courseName)
	if name == "" {
		return "Class Meeting"
	}
	return name + " Class"
}

func parseWeekdaySet(names []string) ([]time.Weekday, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no meeting weekdays given")
	}
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		day, err := ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		if !containsWeekday(days, day) {
			days = append(days, day)
		}
	}
	return sortWeekdays(days), nil
}

// parseDate accepts only the YYYY-MM-DD form the extraction service is
// contracted to emit. Anything else is a parse failure, by design.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(s))
}

var clockLayouts = []string{"15:04", "3:04 PM", "3:04PM", "15:04:05"}

func parseClock(s string) (clockTime, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return clockTime{}, false
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			return clockTime{t.Hour(), t.Minute()}, true
		}
	}
	return clockTime{}, false
}

func atClock(date time.Time, c clockTime) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.hour, c.minute, 0, 0, date.Location())
}
