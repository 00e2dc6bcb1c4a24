package schedule

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/syllabussync/syllabussync/internal/rest"
	"github.com/syllabussync/syllabussync/pkg/extraction"
	"github.com/syllabussync/syllabussync/pkg/user"
)

const maxSyllabusUploadBytes = 20 << 20

type Handler struct {
	service    *Service
	extraction extraction.Client
}

func NewHandler(service *Service, extractionClient extraction.Client) *Handler {
	return &Handler{service: service, extraction: extractionClient}
}

type EventDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Kind        string   `json:"kind"`
	DueDate     string   `json:"dueDate"`
	DueTime     string   `json:"dueTime,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	Recurrence  string   `json:"recurrence,omitempty"`
	DaysOfWeek  []string `json:"daysOfWeek,omitempty"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	CourseCode  string   `json:"courseCode,omitempty"`
	Points      *float64 `json:"points,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Priority    string   `json:"priority"`
	Status      string   `json:"status"`
	IsEdited    bool     `json:"isEdited"`
}

type NormalizationErrorDTO struct {
	Source string `json:"source"`
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type WarningDTO struct {
	EventID string `json:"eventId"`
	Reason  string `json:"reason"`
}

type ImportResultDTO struct {
	Events   []EventDTO              `json:"events"`
	Errors   []NormalizationErrorDTO `json:"errors"`
	Warnings []WarningDTO            `json:"warnings"`
}

type statusUpdateDTO struct {
	Status string `json:"status"`
}

// ImportSyllabus handles a pre-extracted syllabus payload posted as JSON.
func (h *Handler) ImportSyllabus(w http.ResponseWriter, r *http.Request) {
	var payload extraction.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid syllabus payload",
			Details: err.Error(),
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	h.importAndRespond(w, r, payload)
}

// UploadSyllabus accepts a syllabus file upload, runs it through the extraction
// service, and imports the result in one request.
func (h *Handler) UploadSyllabus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxSyllabusUploadBytes); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid multipart request",
			Details: err.Error(),
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Missing syllabus file",
			Details: "a 'file' form field with the syllabus document is required",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}
	defer file.Close()

	payload, err := h.extraction.ExtractSyllabus(r.Context(), header.Filename, file)
	if err != nil {
		log.Errorf("Syllabus extraction failed: %v", err)
		w.WriteHeader(http.StatusBadGateway)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Syllabus extraction failed",
			Details: err.Error(),
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	h.importAndRespond(w, r, *payload)
}

func (h *Handler) importAndRespond(w http.ResponseWriter, r *http.Request, payload extraction.Payload) {
	result, err := h.service.ImportSyllabus(r.Context(), payload)
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := ImportResultDTO{
		Events:   make([]EventDTO, 0, len(result.Events)),
		Errors:   make([]NormalizationErrorDTO, 0, len(result.Errors)),
		Warnings: make([]WarningDTO, 0, len(result.Warnings)),
	}
	for _, e := range result.Events {
		dto.Events = append(dto.Events, eventToDTO(e))
	}
	for _, ne := range result.Errors {
		dto.Errors = append(dto.Errors, NormalizationErrorDTO{Source: ne.Source, Index: ne.Index, Reason: ne.Reason})
	}
	for _, warning := range result.Warnings {
		dto.Warnings = append(dto.Warnings, WarningDTO{EventID: warning.EventID, Reason: warning.Reason})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.GetSchedule(r.Context())
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, eventToDTO(e))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	event, err := dtoToEvent(dto)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid event",
			Details: err.Error(),
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	created, err := h.service.AddManualEvent(r.Context(), event)
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid event",
			Details: err.Error(),
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(eventToDTO(*created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	eventId := vars["eventId"]

	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dto.ID = eventId

	event, err := dtoToEvent(dto)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid event",
			Details: err.Error(),
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	updated, err := h.service.UpdateEvent(r.Context(), event)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(eventToDTO(*updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	eventId := vars["eventId"]

	var dto statusUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), eventId, Status(dto.Status))
	if err != nil {
		h.writeMutationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(eventToDTO(*updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	eventId := vars["eventId"]

	err := h.service.DeleteEvent(r.Context(), eventId)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, ErrEventNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Could not apply event change",
			Details: err.Error(),
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
	}
}

const (
	dtoDateLayout = "2006-01-02"
	dtoTimeLayout = "15:04"
)

func eventToDTO(e Event) EventDTO {
	dto := EventDTO{
		ID:          e.ID,
		Title:       e.Title,
		Kind:        string(e.Kind),
		DueDate:     e.DueDate.Format(dtoDateLayout),
		Recurrence:  string(e.Recurrence),
		Description: e.Description,
		Location:    e.Location,
		CourseCode:  e.CourseCode,
		Points:      e.Points,
		Weight:      e.Weight,
		Priority:    string(e.Priority),
		Status:      string(e.Status),
		IsEdited:    e.IsEdited,
	}
	if e.HasTime {
		dto.DueTime = e.DueDate.Format(dtoTimeLayout)
	}
	if e.EndDate != nil {
		dto.EndDate = e.EndDate.Format(dtoDateLayout)
	}
	if len(e.DaysOfWeek) > 0 {
		dto.DaysOfWeek = make([]string, 0, len(e.DaysOfWeek))
		for _, day := range e.DaysOfWeek {
			dto.DaysOfWeek = append(dto.DaysOfWeek, day.String())
		}
	}
	return dto
}

func dtoToEvent(dto EventDTO) (Event, error) {
	date, err := time.Parse(dtoDateLayout, dto.DueDate)
	if err != nil {
		return Event{}, err
	}

	event := Event{
		ID:          dto.ID,
		Title:       dto.Title,
		Kind:        Kind(dto.Kind),
		DueDate:     date,
		Recurrence:  Recurrence(dto.Recurrence),
		Description: dto.Description,
		Location:    dto.Location,
		CourseCode:  dto.CourseCode,
		Points:      dto.Points,
		Weight:      dto.Weight,
		Priority:    Priority(dto.Priority),
		Status:      Status(dto.Status),
		IsEdited:    dto.IsEdited,
	}
	if event.Kind == "" {
		event.Kind = KindOther
	}
	if dto.DueTime != "" {
		clock, err := time.Parse(dtoTimeLayout, dto.DueTime)
		if err != nil {
			return Event{}, err
		}
		event.DueDate = time.Date(date.Year(), date.Month(), date.Day(),
			clock.Hour(), clock.Minute(), 0, 0, date.Location())
		event.HasTime = true
	}
	if dto.EndDate != "" {
		end, err := time.Parse(dtoDateLayout, dto.EndDate)
		if err != nil {
			return Event{}, err
		}
		event.EndDate = &end
	}
	if len(dto.DaysOfWeek) > 0 {
		days, err := parseWeekdaySet(dto.DaysOfWeek)
		if err != nil {
			return Event{}, err
		}
		event.DaysOfWeek = days
	}
	return event, nil
}
