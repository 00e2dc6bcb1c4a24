package ical

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/syllabussync/syllabussync/pkg/schedule"
	"github.com/syllabussync/syllabussync/pkg/user"
)

type Handler struct {
	schedule *schedule.Service
	encoder  *Encoder
}

func NewHandler(scheduleService *schedule.Service, encoder *Encoder) *Handler {
	return &Handler{schedule: scheduleService, encoder: encoder}
}

// Export renders the current user's schedule as a downloadable .ics file. The
// optional "name" query parameter names the calendar; when absent the encoder's
// configured default is used.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	events, err := h.schedule.GetSchedule(r.Context())
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	calendarName := r.URL.Query().Get("name")
	payload := h.encoder.Encode(events, calendarName)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", h.encoder.Filename(calendarName)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
