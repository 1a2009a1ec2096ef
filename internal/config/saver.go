package config

import "sync"

// Saver serializes configuration writes. Concurrent saves coalesce: when a
// write is in flight, new values replace the single pending slot and the
// in-flight writer issues one follow-up write with the latest value.
// Intermediate values are dropped; the newest value always reaches disk.
type Saver struct {
	mu      sync.Mutex
	idle    *sync.Cond
	path    string
	writing bool
	pending *Config
	lastErr error

	write func(path string, cfg *Config) error
}

// NewSaver constructs a Saver that persists to path.
func NewSaver(path string) *Saver {
	s := &Saver{path: path, write: Write}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// Save persists cfg. When a write is already in flight the value is queued
// and Save returns nil immediately; the queued value (or a newer one) is
// written by the in-flight caller before it returns.
func (s *Saver) Save(cfg Config) error {
	s.mu.Lock()
	if s.writing {
		s.pending = &cfg
		s.mu.Unlock()
		return nil
	}
	s.writing = true
	s.mu.Unlock()

	err := s.write(s.path, &cfg)
	for {
		s.mu.Lock()
		next := s.pending
		s.pending = nil
		if next == nil {
			s.lastErr = err
			s.writing = false
			s.idle.Broadcast()
			s.mu.Unlock()
			return err
		}
		s.mu.Unlock()
		err = s.write(s.path, next)
	}
}

// Flush blocks until no write is in flight and returns the error of the most
// recent completed write.
func (s *Saver) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.writing {
		s.idle.Wait()
	}
	return s.lastErr
}

// Path returns the destination file.
func (s *Saver) Path() string {
	return s.path
}
