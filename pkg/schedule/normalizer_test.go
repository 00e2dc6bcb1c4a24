package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syllabussync/syllabussync/pkg/extraction"
)

func TestNormalize_StableOrdering(t *testing.T) {
	// Given
	payload := extraction.Payload{
		CourseCode: "CS2200",
		Homework: []extraction.HomeworkItem{
			{Title: "Problem Set 1", DueDate: "2025-09-05"},
			{Title: "Problem Set 2", DueDate: "2025-09-12"},
		},
		Exams: []extraction.ExamItem{
			{Type: "Midterm", Date: "2025-10-10"},
		},
		Projects: []extraction.ProjectItem{
			{Title: "Final Project", DueDate: "2025-12-01"},
		},
	}

	// When
	events, errs, warnings := Normalize(payload)

	// Then
	require.NoError(t, errorOrNil(errs))
	assert.Empty(t, warnings)
	require.Len(t, events, 4)

	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"hw-0", "hw-1", "exam-0", "project-0"}, ids)
}

func TestNormalize_GracefulDegradation(t *testing.T) {
	// Given - the middle homework item carries an unusable date
	payload := extraction.Payload{
		Homework: []extraction.HomeworkItem{
			{Title: "Essay 1", DueDate: "2025-03-10"},
			{Title: "Essay 2", DueDate: "not-a-date"},
			{Title: "Essay 3", DueDate: "2025-03-24"},
		},
	}

	// When
	events, errs, _ := Normalize(payload)

	// Then - the bad item is dropped and reported, the others survive
	require.Len(t, events, 2)
	assert.Equal(t, "Essay 1", events[0].Title)
	assert.Equal(t, "Essay 3", events[1].Title)

	require.Len(t, errs, 1)
	assert.Equal(t, "homework", errs[0].Source)
	assert.Equal(t, 1, errs[0].Index)
	assert.Contains(t, errs[0].Reason, "not-a-date")
}

func TestNormalize_DefaultTimesAndPriorities(t *testing.T) {
	payload := extraction.Payload{
		Homework: []extraction.HomeworkItem{{Title: "HW", DueDate: "2025-09-05"}},
		Exams:    []extraction.ExamItem{{Type: "Midterm", Date: "2025-10-10"}},
		Projects: []extraction.ProjectItem{{Title: "Project", DueDate: "2025-12-01"}},
	}

	events, errs, _ := Normalize(payload)
	require.Empty(t, errs)
	require.Len(t, events, 3)

	hw, exam, project := events[0], events[1], events[2]

	assert.Equal(t, KindAssignment, hw.Kind)
	assert.Equal(t, PriorityMedium, hw.Priority)
	assert.True(t, hw.HasTime)
	assert.Equal(t, 23, hw.DueDate.Hour())
	assert.Equal(t, 59, hw.DueDate.Minute())

	assert.Equal(t, KindExam, exam.Kind)
	assert.Equal(t, PriorityHigh, exam.Priority)
	assert.Equal(t, 10, exam.DueDate.Hour())
	assert.Equal(t, 0, exam.DueDate.Minute())

	assert.Equal(t, KindProject, project.Kind)
	assert.Equal(t, PriorityHigh, project.Priority)
	assert.Equal(t, 23, project.DueDate.Hour())
}

func TestNormalize_DefaultTitles(t *testing.T) {
	payload := extraction.Payload{
		Homework: []extraction.HomeworkItem{{DueDate: "2025-09-05"}},
		Exams:    []extraction.ExamItem{{Date: "2025-10-10"}},
	}

	events, errs, _ := Normalize(payload)
	require.Empty(t, errs)
	require.Len(t, events, 2)
	assert.Equal(t, "Assignment 1", events[0].Title)
	assert.Equal(t, "Exam 1", events[1].Title)
}

func TestNormalize_ClassMeetings(t *testing.T) {
	payload := extraction.Payload{
		CourseName:    "Systems and Networks",
		CourseCode:    "CS2200",
		ClassSchedule: "MWF 10:00-10:50 in Clough 152",
		ClassMeetings: []extraction.ClassMeetingItem{
			{
				Days:      []string{"Wednesday", "Monday", "Monday"},
				Time:      "10:00",
				Location:  "Clough 152",
				StartDate: "2025-08-18", // a Monday
				EndDate:   "2025-12-05",
			},
		},
	}

	events, errs, warnings := Normalize(payload)
	require.Empty(t, errs)
	assert.Empty(t, warnings)
	require.Len(t, events, 1)

	class := events[0]
	assert.Equal(t, "class-0", class.ID)
	assert.Equal(t, "Systems and Networks Class", class.Title)
	assert.Equal(t, KindClass, class.Kind)
	assert.Equal(t, RecurrenceWeekly, class.Recurrence)
	// Duplicates removed, Monday-first ordering
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday}, class.DaysOfWeek)
	assert.True(t, class.HasTime)
	assert.Equal(t, 10, class.DueDate.Hour())
	require.NotNil(t, class.EndDate)
	assert.Equal(t, "2025-12-05", class.EndDate.Format("2006-01-02"))
	assert.Equal(t, "Clough 152", class.Location)
	assert.Equal(t, "MWF 10:00-10:50 in Clough 152", class.Description)
}

func TestNormalize_OfficeHours(t *testing.T) {
	payload := extraction.Payload{
		Professor: extraction.Professor{Name: "Dr. Ada Lovelace"},
		OfficeHours: []extraction.OfficeHoursItem{
			{
				Day:       "Tuesday",
				Time:      "2:00 PM",
				Location:  "Office 314",
				StartDate: "2025-08-19", // a Tuesday
				EndDate:   "2025-12-02",
			},
		},
	}

	events, errs, warnings := Normalize(payload)
	require.Empty(t, errs)
	assert.Empty(t, warnings)
	require.Len(t, events, 1)

	oh := events[0]
	assert.Equal(t, "oh-0", oh.ID)
	assert.Equal(t, "Dr. Ada Lovelace Office Hours", oh.Title)
	assert.Equal(t, KindOfficeHours, oh.Kind)
	assert.Equal(t, []time.Weekday{time.Tuesday}, oh.DaysOfWeek)
	assert.Equal(t, 14, oh.DueDate.Hour())
	assert.Equal(t, PriorityLow, oh.Priority)
}

func TestNormalize_RepairsMismatchedStartWeekday(t *testing.T) {
	// 2025-08-16 is a Saturday; the class meets Monday and Wednesday.
	payload := extraction.Payload{
		ClassMeetings: []extraction.ClassMeetingItem{
			{
				Days:      []string{"Monday", "Wednesday"},
				Time:      "10:00",
				StartDate: "2025-08-16",
				EndDate:   "2025-12-05",
			},
		},
	}

	events, errs, warnings := Normalize(payload)
	require.Empty(t, errs)
	require.Len(t, events, 1)

	// The first occurrence moves forward to the first listed weekday.
	assert.Equal(t, time.Monday, events[0].DueDate.Weekday())
	assert.Equal(t, "2025-08-18", events[0].DueDate.Format("2006-01-02"))

	require.Len(t, warnings, 1)
	assert.Equal(t, "class-0", warnings[0].EventID)
	assert.Contains(t, warnings[0].Reason, "2025-08-16")
	assert.Contains(t, warnings[0].Reason, "2025-08-18")
}

func TestNormalize_RejectsInvertedDateRange(t *testing.T) {
	payload := extraction.Payload{
		OfficeHours: []extraction.OfficeHoursItem{
			{Day: "Monday", StartDate: "2025-12-01", EndDate: "2025-08-18"},
		},
	}

	events, errs, _ := Normalize(payload)
	assert.Empty(t, events)
	require.Len(t, errs, 1)
	assert.Equal(t, "office_hours", errs[0].Source)
	assert.Contains(t, errs[0].Reason, "precedes")
}

func TestNormalize_EmptyPayload(t *testing.T) {
	events, errs, warnings := Normalize(extraction.Payload{})
	assert.Empty(t, events)
	assert.Empty(t, errs)
	assert.Empty(t, warnings)
}

func errorOrNil(errs []NormalizationError) error {
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}
