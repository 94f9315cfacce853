package nav

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	ErrEmptyKey   = errors.New("nav: binding key is empty")
	ErrDigitKey   = errors.New("nav: binding key collides with digit entry")
	ErrZeroDelta  = errors.New("nav: binding delta is zero")
	ErrNoBindings = errors.New("nav: no step bindings configured")
)

// Bindings maps a key name to the index delta it applies.
type Bindings map[string]int

// DefaultBindings mirrors the arrow keys: right/up forward, left/down back.
func DefaultBindings() Bindings {
	return Bindings{"right": 1, "left": -1, "up": 1, "down": -1}
}

// Validate checks that every binding can be routed unambiguously.
func (b Bindings) Validate() error {
	if len(b) == 0 {
		return ErrNoBindings
	}
	for key, delta := range b {
		if key == "" {
			return ErrEmptyKey
		}
		if isDigitKey(key) {
			return fmt.Errorf("%w: %q", ErrDigitKey, key)
		}
		if delta == 0 {
			return fmt.Errorf("%w: %q", ErrZeroDelta, key)
		}
	}
	return nil
}

// State is the navigation state of one browsing session.
// current stays in [0, max-1] whenever max > 0 and is 0 otherwise.
type State struct {
	current  int
	max      int
	bindings Bindings
	pending  []rune
}

func NewState(max int, bindings Bindings) (*State, error) {
	if max < 0 {
		max = 0
	}
	if bindings == nil {
		bindings = DefaultBindings()
	}
	if err := bindings.Validate(); err != nil {
		return nil, err
	}
	b := make(Bindings, len(bindings))
	for k, v := range bindings {
		b[k] = v
	}
	return &State{max: max, bindings: b}, nil
}

func (s *State) Current() int { return s.current }
func (s *State) Max() int     { return s.max }

// Delta reports the step bound to key.
func (s *State) Delta(key string) (int, bool) {
	d, ok := s.bindings[key]
	return d, ok
}

// Bindings returns a copy of the step bindings.
func (s *State) Bindings() Bindings {
	out := make(Bindings, len(s.bindings))
	for k, d := range s.bindings {
		out[k] = d
	}
	return out
}

// Step moves by the delta bound to direction and reports whether current changed.
// Steps past either end hold at the boundary.
func (s *State) Step(direction string) bool {
	delta, ok := s.bindings[direction]
	if !ok {
		return false
	}
	return s.JumpTo(s.current + delta)
}

// JumpTo moves to target, clamped to the valid range, and reports whether current changed.
func (s *State) JumpTo(target int) bool {
	next := s.clamp(target)
	if next == s.current {
		return false
	}
	s.current = next
	return true
}

func (s *State) clamp(i int) int {
	if s.max == 0 || i < 0 {
		return 0
	}
	if i > s.max-1 {
		return s.max - 1
	}
	return i
}

// BeginEntry starts a fresh digit entry, discarding any buffered digits.
func (s *State) BeginEntry() { s.pending = s.pending[:0] }

// AppendDigit buffers r; anything but '0'..'9' is refused.
func (s *State) AppendDigit(r rune) bool {
	if r < '0' || r > '9' {
		return false
	}
	s.pending = append(s.pending, r)
	return true
}

func (s *State) Pending() string { return string(s.pending) }
func (s *State) InEntry() bool   { return len(s.pending) > 0 }

// CommitEntry jumps to the buffered frame number and clears the buffer.
// An empty buffer means frame 0; a number too large for int clamps to the last frame.
func (s *State) CommitEntry() bool {
	target := 0
	if len(s.pending) > 0 {
		n, err := strconv.Atoi(string(s.pending))
		if err != nil {
			n = math.MaxInt
		}
		target = n
	}
	s.pending = s.pending[:0]
	return s.JumpTo(target)
}

func (s *State) CancelEntry() { s.pending = s.pending[:0] }

func isDigitKey(key string) bool {
	return len(key) == 1 && key[0] >= '0' && key[0] <= '9'
}
