package ical

import (
	"fmt"
	"strings"
	"time"

	"github.com/syllabussync/syllabussync/internal/utils"
	"github.com/syllabussync/syllabussync/pkg/schedule"
)

const (
	prodID = "-//SyllabusSync//Schedule Export//EN"

	dateTimeLayout    = "20060102T150405"
	dateTimeUTCLayout = "20060102T150405Z"
)

// kindGlyphs prefix exported event titles so the entry type is recognizable at
// a glance inside third-party calendar apps.
var kindGlyphs = map[schedule.Kind]string{
	schedule.KindAssignment:  "\U0001F4DD",
	schedule.KindExam:        "\U0001F4DA",
	schedule.KindQuiz:        "✍️",
	schedule.KindProject:     "\U0001F3AF",
	schedule.KindLecture:     "\U0001F393",
	schedule.KindOfficeHours: "\U0001F550",
	schedule.KindClass:       "\U0001F3EB",
}

const fallbackGlyph = "\U0001F4CC"

var byDayCodes = map[time.Weekday]string{
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
	time.Sunday:    "SU",
}

// Encoder serializes schedule events into an RFC 5545 calendar. The clock is
// injected because DTSTAMP records encoding time; everything else is a pure
// function of the input.
type Encoder struct {
	clock       utils.Clock
	timezone    string
	defaultName string
}

func NewEncoder(clock utils.Clock, timezone string, defaultName string) *Encoder {
	return &Encoder{clock: clock, timezone: timezone, defaultName: defaultName}
}

// Encode renders the events as a single VCALENDAR. The input slice is not
// mutated, and an empty list still yields a valid calendar with no VEVENTs.
//
// The output is a wire contract with Apple, Google, and Outlook calendar
// importers. Line endings are CRLF and TEXT values are escaped per RFC 5545;
// both are required for those clients to accept the file.
func (e *Encoder) Encode(events []schedule.Event, calendarName string) []byte {
	name := strings.TrimSpace(calendarName)
	if name == "" {
		name = e.defaultName
	}
	dtstamp := e.clock.Now().UTC().Format(dateTimeUTCLayout)

	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:"+prodID)
	writeLine(&b, "CALSCALE:GREGORIAN")
	writeLine(&b, "METHOD:PUBLISH")
	writeLine(&b, "X-WR-CALNAME:"+escapeText(name))
	writeLine(&b, "X-WR-TIMEZONE:"+e.timezone)

	for i, event := range events {
		e.writeEvent(&b, event, i, dtstamp)
	}

	writeLine(&b, "END:VCALENDAR")
	return []byte(b.String())
}

func (e *Encoder) writeEvent(b *strings.Builder, event schedule.Event, ordinal int, dtstamp string) {
	writeLine(b, "BEGIN:VEVENT")
	writeLine(b, fmt.Sprintf("UID:%s-%d@syllabussync", event.ID, ordinal))
	writeLine(b, "DTSTAMP:"+dtstamp)

	// All-day events keep DTSTART equal to DTEND at midnight. Consumers rely on
	// the zero-duration instant for reminder timing, so it stays that way.
	start := event.DueDate.Format(dateTimeLayout)
	writeLine(b, "DTSTART:"+start)
	writeLine(b, "DTEND:"+start)

	if event.Recurrence == schedule.RecurrenceWeekly && event.EndDate != nil {
		writeLine(b, rruleLine(*event.EndDate, event.DaysOfWeek))
	}

	writeLine(b, "SUMMARY:"+escapeText(glyphFor(event.Kind)+" "+event.Title))
	if event.Description != "" {
		writeLine(b, "DESCRIPTION:"+escapeText(event.Description))
	}
	if event.Location != "" {
		writeLine(b, "LOCATION:"+event.Location)
	}
	if event.CourseCode != "" {
		writeLine(b, "CATEGORIES:"+event.CourseCode)
	}
	writeLine(b, "PRIORITY:"+priorityValue(event.Priority))

	writeLine(b, "BEGIN:VALARM")
	writeLine(b, "TRIGGER:-P1D")
	writeLine(b, "ACTION:DISPLAY")
	writeLine(b, "DESCRIPTION:"+escapeText(event.Title+" is due tomorrow"))
	writeLine(b, "END:VALARM")

	writeLine(b, "END:VEVENT")
}

// rruleLine emits the weekly repetition rule. UNTIL is the end of the last day
// expressed in UTC so every consumer closes the recurrence on the same instant.
func rruleLine(endDate time.Time, days []time.Weekday) string {
	until := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 23, 59, 59, 0, time.UTC)
	line := "RRULE:FREQ=WEEKLY;UNTIL=" + until.Format(dateTimeUTCLayout)
	if len(days) > 0 {
		codes := make([]string, 0, len(days))
		for _, day := range days {
			codes = append(codes, byDayCodes[day])
		}
		line += ";BYDAY=" + strings.Join(codes, ",")
	}
	return line
}

func glyphFor(kind schedule.Kind) string {
	if glyph, ok := kindGlyphs[kind]; ok {
		return glyph
	}
	return fallbackGlyph
}

// priorityValue maps to the RFC 5545 numeric scale, where 1 is the most urgent.
func priorityValue(p schedule.Priority) string {
	switch p {
	case schedule.PriorityHigh:
		return "1"
	case schedule.PriorityLow:
		return "9"
	default:
		return "5"
	}
}

// escapeText applies RFC 5545 TEXT escaping. Backslash must be escaped first.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\r\n")
}

// Filename derives the download name for an exported calendar: whitespace in
// the calendar name collapses to underscores and a fixed suffix is appended.
func (e *Encoder) Filename(calendarName string) string {
	name := strings.TrimSpace(calendarName)
	if name == "" {
		name = e.defaultName
	}
	return strings.Join(strings.Fields(name), "_") + "_calendar.ics"
}
