package extraction

import (
	"context"
	"io"
)

// StubClient returns a fixed payload or error; used by handler and service tests.
type StubClient struct {
	Payload      *Payload
	Err          error
	LastFilename string
}

func (s *StubClient) ExtractSyllabus(ctx context.Context, filename string, document io.Reader) (*Payload, error) {
	s.LastFilename = filename
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Payload, nil
}
