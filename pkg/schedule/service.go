package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/syllabussync/syllabussync/internal/event_bus"
	"github.com/syllabussync/syllabussync/pkg/extraction"
	"github.com/syllabussync/syllabussync/pkg/user"
)

var ErrEventNotFound = errors.New("schedule event not found")

// ImportResult is everything a syllabus import produced: the stored events plus
// the per-item drop reports and repair notices accumulated along the way.
type ImportResult struct {
	Events   []Event
	Errors   []NormalizationError
	Warnings []Warning
}

type Service struct {
	repo Repository
	bus  *event_bus.EventBus
}

func NewService(repo Repository, bus *event_bus.EventBus) *Service {
	return &Service{repo: repo, bus: bus}
}

// ImportSyllabus normalizes an extraction payload and replaces the current
// user's imported schedule with the result. Manually added events survive the
// replacement. Unparseable items never fail the import; they are dropped and
// reported in the result.
func (s *Service) ImportSyllabus(ctx context.Context, payload extraction.Payload) (*ImportResult, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, err
	}

	events, normErrors, warnings := Normalize(payload)
	log.Debugf("Normalized syllabus %q into %d events (%d dropped, %d repaired)",
		payload.CourseName, len(events), len(normErrors), len(warnings))

	if err := s.repo.ReplaceImported(ctx, userId, events); err != nil {
		return nil, fmt.Errorf("failed to store imported schedule: %w", err)
	}

	err = s.bus.Publish(event_bus.NewEvent(ctx, event_bus.ScheduleImportedType, event_bus.ScheduleImported{
		CourseName:   payload.CourseName,
		CourseCode:   payload.CourseCode,
		EventCount:   len(events),
		DroppedCount: len(normErrors),
		RepairCount:  len(warnings),
	}))
	if err != nil {
		log.Errorf("Failed to publish schedule import event: %v", err)
	}

	return &ImportResult{Events: events, Errors: normErrors, Warnings: warnings}, nil
}

func (s *Service) GetSchedule(ctx context.Context) ([]Event, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.GetEvents(ctx, userId)
}

// AddManualEvent stores a user-created event. The ID is always assigned here;
// the manual- namespace keeps these events out of the way of syllabus imports.
func (s *Service) AddManualEvent(ctx context.Context, event Event) (*Event, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, err
	}

	event.ID = "manual-" + uuid.NewString()
	if event.Priority == "" {
		event.Priority = DefaultPriority(event.Kind)
	}
	if event.Status == "" {
		event.Status = StatusPending
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.StoreEvent(ctx, userId, event); err != nil {
		return nil, fmt.Errorf("failed to store manual event: %w", err)
	}
	return &event, nil
}

// UpdateEvent overwrites an existing event's fields, keeping its ID, and marks
// it edited so a later re-import is known to have replaced user changes.
func (s *Service) UpdateEvent(ctx context.Context, event Event) (*Event, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetEvent(ctx, userId, event.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrEventNotFound
	}

	event.IsEdited = true
	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateEvent(ctx, userId, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return &event, nil
}

func (s *Service) UpdateStatus(ctx context.Context, eventId string, status Status) (*Event, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, err
	}

	switch status {
	case StatusPending, StatusInProgress, StatusCompleted:
	default:
		return nil, fmt.Errorf("invalid status %q", status)
	}

	existing, err := s.repo.GetEvent(ctx, userId, eventId)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrEventNotFound
	}

	if err := s.repo.UpdateStatus(ctx, userId, eventId, status); err != nil {
		return nil, fmt.Errorf("failed to update event status: %w", err)
	}
	existing.Status = status
	return existing, nil
}

func (s *Service) DeleteEvent(ctx context.Context, eventId string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return err
	}

	existing, err := s.repo.GetEvent(ctx, userId, eventId)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrEventNotFound
	}

	return s.repo.DeleteEvent(ctx, userId, eventId)
}
