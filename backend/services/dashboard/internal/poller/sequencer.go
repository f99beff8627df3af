package poller

import "sync"

// Sequencer tags fetches with increasing numbers and lets only the newest response through.
// Once stopped it rejects everything.
type Sequencer struct {
	mu      sync.Mutex
	next    uint64
	applied uint64
	stopped bool
}

// NewSequencer returns a live sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Begin reserves the number for a fetch about to start.
func (s *Sequencer) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

// Commit runs apply when seq is newer than the last committed fetch and the sequencer is still
// live. It reports whether apply ran. apply runs under the sequencer lock.
func (s *Sequencer) Commit(seq uint64, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || seq <= s.applied {
		return false
	}
	s.applied = seq
	if apply != nil {
		apply()
	}
	return true
}

// Stop marks the owner as gone.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}

// Live reports whether Stop has not been called yet.
func (s *Sequencer) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stopped
}

// Applied returns the sequence of the last committed fetch.
func (s *Sequencer) Applied() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied
}
