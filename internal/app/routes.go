package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/syllabussync/syllabussync/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Syllabus import
	r.HandleFunc("/api/syllabus", deps.ScheduleHandler.ImportSyllabus).Methods("POST")
	r.HandleFunc("/api/syllabus/upload", deps.ScheduleHandler.UploadSyllabus).Methods("POST")

	// Schedule
	r.HandleFunc("/api/schedule/event", deps.ScheduleHandler.GetEvents).Methods("GET")
	r.HandleFunc("/api/schedule/event", deps.ScheduleHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/schedule/event/{eventId}", deps.ScheduleHandler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/schedule/event/{eventId}/status", deps.ScheduleHandler.UpdateStatus).Methods("PATCH")
	r.HandleFunc("/api/schedule/event/{eventId}", deps.ScheduleHandler.DeleteEvent).Methods("DELETE")

	// Calendar export
	r.HandleFunc("/api/schedule/export", deps.ExportHandler.Export).Methods("GET")

	// Health
	r.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")
}
