package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syllabussync/syllabussync/internal/test_utils"
)

func setupRepositoryTest(t *testing.T) (*RepositoryImpl, context.Context, string) {
	db := test_utils.SetupTestDB(t)
	repository := NewRepository(db)
	return repository, context.Background(), "user-1"
}

func testEvent(id, title string, kind Kind) Event {
	return Event{
		ID:       id,
		Title:    title,
		Kind:     kind,
		DueDate:  time.Date(2025, 9, 5, 23, 59, 0, 0, time.UTC),
		HasTime:  true,
		Priority: PriorityMedium,
		Status:   StatusPending,
	}
}

// assertEventEqual compares the fields that round-trip through storage.
func assertEventEqual(t *testing.T, expected Event, actual Event) {
	assert.Equal(t, expected.ID, actual.ID)
	assert.Equal(t, expected.Title, actual.Title)
	assert.Equal(t, expected.Kind, actual.Kind)
	assert.True(t, expected.DueDate.Equal(actual.DueDate),
		"due date mismatch: %v != %v", expected.DueDate, actual.DueDate)
	assert.Equal(t, expected.HasTime, actual.HasTime)
	assert.Equal(t, expected.Recurrence, actual.Recurrence)
	assert.Equal(t, expected.DaysOfWeek, actual.DaysOfWeek)
	assert.Equal(t, expected.Description, actual.Description)
	assert.Equal(t, expected.Location, actual.Location)
	assert.Equal(t, expected.CourseCode, actual.CourseCode)
	assert.Equal(t, expected.Priority, actual.Priority)
	assert.Equal(t, expected.Status, actual.Status)
	assert.Equal(t, expected.IsEdited, actual.IsEdited)
	if expected.EndDate == nil {
		assert.Nil(t, actual.EndDate)
	} else {
		require.NotNil(t, actual.EndDate)
		assert.True(t, expected.EndDate.Equal(*actual.EndDate))
	}
}

func TestRepositoryImpl_StoreAndGetEvent(t *testing.T) {
	repository, ctx, userId := setupRepositoryTest(t)

	end := time.Date(2025, 12, 5, 0, 0, 0, 0, time.UTC)
	event := Event{
		ID:          "class-0",
		Title:       "Systems Class",
		Kind:        KindClass,
		DueDate:     time.Date(2025, 8, 18, 10, 0, 0, 0, time.UTC),
		HasTime:     true,
		EndDate:     &end,
		Recurrence:  RecurrenceWeekly,
		DaysOfWeek:  []time.Weekday{time.Monday, time.Wednesday},
		Description: "MWF lecture",
		Location:    "Clough 152",
		CourseCode:  "CS2200",
		Priority:    PriorityLow,
		Status:      StatusPending,
	}

	err := repository.StoreEvent(ctx, userId, event)
	require.NoError(t, err)

	stored, err := repository.GetEvent(ctx, userId, "class-0")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assertEventEqual(t, event, *stored)
}

func TestRepositoryImpl_GetEventNotFound(t *testing.T) {
	repository, ctx, userId := setupRepositoryTest(t)

	event, err := repository.GetEvent(ctx, userId, "missing")
	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestRepositoryImpl_GetEventsPreservesOrder(t *testing.T) {
	repository, ctx, userId := setupRepositoryTest(t)

	imported := []Event{
		testEvent("hw-0", "Essay 1", KindAssignment),
		testEvent("hw-1", "Essay 2", KindAssignment),
		testEvent("exam-0", "Midterm", KindExam),
	}
	require.NoError(t, repository.ReplaceImported(ctx, userId, imported))

	events, err := repository.GetEvents(ctx, userId)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "hw-0", events[0].ID)
	assert.Equal(t, "hw-1", events[1].ID)
	assert.Equal(t, "exam-0", events[2].ID)
}

func TestRepositoryImpl_ReplaceImportedKeepsManualEvents(t *testing.T) {
	repository, ctx, userId := setupRepositoryTest(t)

	// Given an imported schedule and a manually added event on top of it
	require.NoError(t, repository.ReplaceImported(ctx, userId, []Event{
		testEvent("hw-0", "Old Essay", KindAssignment),
	}))
	require.NoError(t, repository.StoreEvent(ctx, userId,
		testEvent("manual-abc", "Study group", KindOther)))

	// When a new syllabus import replaces the schedule
	require.NoError(t, repository.ReplaceImported(ctx, userId, []Event{
		testEvent("hw-0", "New Essay", KindAssignment),
		testEvent("exam-0", "Midterm", KindExam),
	}))

	// Then imported events are replaced and the manual one survives, at the end
	events, err := repository.GetEvents(ctx, userId)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "hw-0", events[0].ID)
	assert.Equal(t, "New Essay", events[0].Title)
	assert.Equal(t, "exam-0", events[1].ID)
	assert.Equal(t, "manual-abc", events[2].ID)
}

func TestRepositoryImpl_ReplaceImportedIsolatesUsers(t *testing.T) {
	repository, ctx, _ := setupRepositoryTest(t)

	require.NoError(t, repository.ReplaceImported(ctx, "user-1", []Event{
		testEvent("hw-0", "User 1 Essay", KindAssignment),
	}))
	require.NoError(t, repository.ReplaceImported(ctx, "user-2", []Event{
		testEvent("hw-0", "User 2 Essay", KindAssignment),
	}))

	require.NoError(t, repository.ReplaceImported(ctx, "user-1", nil))

	events1, err := repository.GetEvents(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, events1)

	events2, err := repository.GetEvents(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, events2, 1)
	assert.Equal(t, "User 2 Essay", events2[0].Title)
}

func TestRepositoryImpl_UpdateEvent(t *testing.T) {
	repository, ctx, userId := setupRepositoryTest(t)

	event := testEvent("hw-0", "Essay 1", KindAssignment)
	require.NoError(t, repository.StoreEvent(ctx, userId, event))

	points := 100.0
	updated := event
	updated.Title = "Essay 1 (revised)"
	updated.Priority = PriorityHigh
	updated.Points = &points
	updated.IsEdited = true

	require.NoError(t, repository.UpdateEvent(ctx, userId, updated))

	stored, err := repository.GetEvent(ctx, userId, "hw-0")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assertEventEqual(t, updated, *stored)
	require.NotNil(t, stored.Points)
	assert.Equal(t, 100.0, *stored.Points)
}

func TestRepositoryImpl_UpdateStatus(t *testing.T) {
	repository, ctx, userId := setupRepositoryTest(t)

	require.NoError(t, repository.StoreEvent(ctx, userId, testEvent("hw-0", "Essay", KindAssignment)))
	require.NoError(t, repository.UpdateStatus(ctx, userId, "hw-0", StatusCompleted))

	stored, err := repository.GetEvent(ctx, userId, "hw-0")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, StatusCompleted, stored.Status)
}

func TestRepositoryImpl_DeleteEvent(t *testing.T) {
	repository, ctx, userId := setupRepositoryTest(t)

	require.NoError(t, repository.StoreEvent(ctx, userId, testEvent("hw-0", "Essay 1", KindAssignment)))
	require.NoError(t, repository.StoreEvent(ctx, userId, testEvent("hw-1", "Essay 2", KindAssignment)))

	require.NoError(t, repository.DeleteEvent(ctx, userId, "hw-0"))

	events, err := repository.GetEvents(ctx, userId)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "hw-1", events[0].ID)
}
