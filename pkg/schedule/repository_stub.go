package schedule

import (
	"context"
	"strings"
)

// StubRepository is an in-memory Repository used in tests.
type StubRepository struct {
	events map[string][]Event
	Err    error
}

func NewStubRepository() *StubRepository {
	return &StubRepository{events: make(map[string][]Event)}
}

func (s *StubRepository) WithTransaction(_ context.Context, fn func(repo Repository) error) error {
	if s.Err != nil {
		return s.Err
	}
	return fn(s)
}

func (s *StubRepository) ReplaceImported(_ context.Context, userId string, events []Event) error {
	if s.Err != nil {
		return s.Err
	}
	kept := make([]Event, 0, len(events))
	kept = append(kept, events...)
	for _, e := range s.events[userId] {
		if strings.HasPrefix(e.ID, "manual-") {
			kept = append(kept, e)
		}
	}
	s.events[userId] = kept
	return nil
}

func (s *StubRepository) GetEvents(_ context.Context, userId string) ([]Event, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	events := make([]Event, len(s.events[userId]))
	copy(events, s.events[userId])
	return events, nil
}

func (s *StubRepository) GetEvent(_ context.Context, userId string, eventId string) (*Event, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, e := range s.events[userId] {
		if e.ID == eventId {
			event := e
			return &event, nil
		}
	}
	return nil, nil
}

func (s *StubRepository) StoreEvent(_ context.Context, userId string, event Event) error {
	if s.Err != nil {
		return s.Err
	}
	s.events[userId] = append(s.events[userId], event)
	return nil
}

func (s *StubRepository) UpdateEvent(_ context.Context, userId string, event Event) error {
	if s.Err != nil {
		return s.Err
	}
	for i, e := range s.events[userId] {
		if e.ID == event.ID {
			s.events[userId][i] = event
			return nil
		}
	}
	return nil
}

func (s *StubRepository) UpdateStatus(_ context.Context, userId string, eventId string, status Status) error {
	if s.Err != nil {
		return s.Err
	}
	for i, e := range s.events[userId] {
		if e.ID == eventId {
			s.events[userId][i].Status = status
			return nil
		}
	}
	return nil
}

func (s *StubRepository) DeleteEvent(_ context.Context, userId string, eventId string) error {
	if s.Err != nil {
		return s.Err
	}
	events := s.events[userId]
	for i, e := range events {
		if e.ID == eventId {
			s.events[userId] = append(events[:i], events[i+1:]...)
			return nil
		}
	}
	return nil
}
