package passgen

import (
	"sync"

	"github.com/dmitrijs2005/lightningpass/internal/entropy"
)

// Session pairs one collector with one generator for a single generation
// run. Its methods are safe to call from an input goroutine while another
// goroutine polls progress.
type Session struct {
	mu        sync.Mutex
	collector *entropy.Collector
	gen       *Generator
}

// NewSession starts a generation run for opts.
func NewSession(opts Options) (*Session, error) {
	g, err := New(opts)
	if err != nil {
		return nil, err
	}
	return &Session{collector: entropy.NewCollector(), gen: g}, nil
}

// Move records a mouse position. The returned status comes from the
// collector; the generator is fed through its pacing.
func (s *Session) Move(x, y int) entropy.SampleStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collector.Full() {
		return entropy.Done
	}
	st := s.collector.Collect(x, y)
	s.gen.Offer(x, y)
	return st
}

// Progress returns the collector fill ratio in percent.
func (s *Session) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collector.Progress()
}

// Result returns the password and whether it is complete.
func (s *Session) Result() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen.Password(), s.gen.Done()
}

// Restart keeps the options and starts over with empty state.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collector = entropy.NewCollector()
	s.gen.Reset()
}
