package ical

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syllabussync/syllabussync/internal/event_bus"
	"github.com/syllabussync/syllabussync/internal/utils"
	"github.com/syllabussync/syllabussync/pkg/extraction"
	"github.com/syllabussync/syllabussync/pkg/schedule"
	"github.com/syllabussync/syllabussync/pkg/user"
)

func setupExportTest(t *testing.T) (*Handler, *schedule.Service) {
	t.Helper()
	service := schedule.NewService(schedule.NewStubRepository(), event_bus.NewEventBus())
	clock := &utils.MockClock{}
	clock.SetNow(time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC))
	encoder := NewEncoder(clock, "America/New_York", "SyllabusSync Schedule")
	return NewHandler(service, encoder), service
}

func TestExport(t *testing.T) {
	handler, service := setupExportTest(t)

	ctx := user.WithId(context.Background(), "user-1")
	_, err := service.ImportSyllabus(ctx, extraction.Payload{
		CourseCode: "CS2200",
		Homework:   []extraction.HomeworkItem{{Title: "Essay 1", DueDate: "2025-03-10"}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/schedule/export?name=My+Course", nil)
	w := httptest.NewRecorder()
	handler.Export(w, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="My_Course_calendar.ics"`, w.Header().Get("Content-Disposition"))

	body := w.Body.String()
	assert.Contains(t, body, "BEGIN:VCALENDAR\r\n")
	assert.Contains(t, body, "X-WR-CALNAME:My Course\r\n")
	assert.Equal(t, 1, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "Essay 1")
}

func TestExport_EmptySchedule(t *testing.T) {
	handler, _ := setupExportTest(t)

	ctx := user.WithId(context.Background(), "user-1")
	req := httptest.NewRequest(http.MethodGet, "/api/schedule/export", nil)
	w := httptest.NewRecorder()
	handler.Export(w, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "BEGIN:VCALENDAR\r\n")
	assert.Contains(t, body, "END:VCALENDAR\r\n")
	assert.NotContains(t, body, "BEGIN:VEVENT")
	assert.Equal(t, `attachment; filename="SyllabusSync_Schedule_calendar.ics"`,
		w.Header().Get("Content-Disposition"))
}

func TestExport_RequiresUser(t *testing.T) {
	handler, _ := setupExportTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/schedule/export", nil)
	w := httptest.NewRecorder()
	handler.Export(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
