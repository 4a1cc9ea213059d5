package screen

import (
	"fmt"
	"sync"
)

// Policy decides whether a response may overwrite the displayed output.
type Policy int

const (
	// LastWriteWins applies every committed response, so the response
	// that arrives last is shown even if its request was issued first.
	LastWriteWins Policy = iota
	// LatestRequestWins drops responses to requests older than the one
	// whose output is currently shown.
	LatestRequestWins
)

func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", "last-write":
		return LastWriteWins, nil
	case "latest-request":
		return LatestRequestWins, nil
	default:
		return 0, fmt.Errorf("unknown screen policy %q", name)
	}
}

// Screen holds the output text shown to the user.
type Screen struct {
	mu        sync.RWMutex
	policy    Policy
	text      string
	next      uint64
	displayed uint64
}

func New(policy Policy) *Screen {
	return &Screen{policy: policy}
}

// Begin reserves a sequence number for a request about to be issued.
func (s *Screen) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

// Commit writes text for the request numbered seq and reports whether
// it is now displayed.
func (s *Screen) Commit(seq uint64, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.policy == LatestRequestWins && seq < s.displayed {
		return false
	}
	s.text = text
	if seq > s.displayed {
		s.displayed = seq
	}
	return true
}

func (s *Screen) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text
}
