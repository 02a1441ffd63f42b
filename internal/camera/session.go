// Package camera models the capture device boundary. A Session exclusively
// owns a frame source for its lifetime: started when the capture view is
// entered, stopped when it is left. Stop is unconditional and idempotent.
package camera

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrNoSession is returned when a frame is requested without an active session.
var ErrNoSession = errors.New("no active camera session")

// DeviceError reports that the capture device could not be acquired (missing
// device, denied permission). It is recoverable: the caller may retry by
// starting a fresh session.
type DeviceError struct {
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("camera device unavailable: %v", e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// Source is a live frame producer. Implementations own the underlying device
// handle between Open and Close.
type Source interface {
	Open(ctx context.Context) error
	Frame(ctx context.Context) ([]byte, error)
	Close() error
}

// Session manages the lifecycle of a single frame source. At most one session
// is active per Session value; Start on an active session releases the device
// and acquires it again.
type Session struct {
	mu     sync.Mutex
	source Source
	active bool
}

// NewSession creates a session around the given source. The source is not
// opened until Start.
func NewSession(source Source) *Session {
	return &Session{source: source}
}

// Start acquires the capture device. Failures are reported as *DeviceError.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		s.source.Close()
		s.active = false
	}
	if err := s.source.Open(ctx); err != nil {
		return &DeviceError{Err: err}
	}
	s.active = true
	return nil
}

// Frame returns the current live frame. ErrNoSession when the session is not
// active.
func (s *Session) Frame(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return nil, ErrNoSession
	}
	frame, err := s.source.Frame(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading camera frame: %w", err)
	}
	return frame, nil
}

// Stop releases the capture device. Safe to call repeatedly and when no
// session is active.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return
	}
	s.source.Close()
	s.active = false
}

// Active reports whether the session currently owns the device.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// FileSource serves frames from an image file on disk. Used by the CLI, where
// there is no live device.
type FileSource struct {
	Path string
}

// Open verifies the file is readable.
func (f *FileSource) Open(ctx context.Context) error {
	fi, err := os.Stat(f.Path)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return fmt.Errorf("%s is a directory", f.Path)
	}
	return nil
}

// Frame reads the whole file as a single frame.
func (f *FileSource) Frame(ctx context.Context) ([]byte, error) {
	return os.ReadFile(f.Path)
}

// Close releases nothing; file sources hold no device handle.
func (f *FileSource) Close() error { return nil }
