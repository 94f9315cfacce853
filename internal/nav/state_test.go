package nav

import (
	"errors"
	"math/rand"
	"testing"
)

func newState(t *testing.T, max int) *State {
	t.Helper()
	s, err := NewState(max, nil)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return s
}

func TestState_ClampingInvariant(t *testing.T) {
	keys := []string{"right", "left", "up", "down", "pgup"}
	rng := rand.New(rand.NewSource(42))

	for _, max := range []int{1, 2, 5, 17} {
		s := newState(t, max)
		for i := 0; i < 2000; i++ {
			s.Step(keys[rng.Intn(len(keys))])
			if c := s.Current(); c < 0 || c >= max {
				t.Fatalf("max=%d: current %d out of range after %d steps", max, c, i+1)
			}
		}
	}
}

func TestState_Boundaries(t *testing.T) {
	s := newState(t, 3)

	if s.Step("left") {
		t.Error("stepping left at 0 should not change current")
	}
	if s.Current() != 0 {
		t.Errorf("expected 0, got %d", s.Current())
	}

	s.JumpTo(2)
	if s.Step("right") {
		t.Error("stepping right at max-1 should not change current")
	}
	if s.Current() != 2 {
		t.Errorf("expected 2, got %d", s.Current())
	}
}

func TestState_JumpToClamps(t *testing.T) {
	tests := []struct {
		name   string
		target int
		want   int
	}{
		{"negative", -4, 0},
		{"in range", 3, 3},
		{"last", 9, 9},
		{"past end", 10, 9},
		{"far past end", 1 << 40, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newState(t, 10)
			s.JumpTo(tt.target)
			if got := s.Current(); got != tt.want {
				t.Errorf("JumpTo(%d) = %d, want %d", tt.target, got, tt.want)
			}
		})
	}
}

func TestState_DigitEntry(t *testing.T) {
	s := newState(t, 100)

	for _, r := range "23" {
		if !s.AppendDigit(r) {
			t.Fatalf("digit %q refused", r)
		}
	}
	if s.AppendDigit('x') {
		t.Error("non-digit accepted")
	}
	if s.Pending() != "23" {
		t.Errorf("pending = %q, want 23", s.Pending())
	}
	if !s.CommitEntry() {
		t.Error("commit should report a change")
	}
	if s.Current() != 23 {
		t.Errorf("current = %d, want 23", s.Current())
	}
	if s.InEntry() {
		t.Error("buffer not cleared after commit")
	}
}

func TestState_CommitEmptyBuffer(t *testing.T) {
	s := newState(t, 10)
	s.JumpTo(5)

	s.CommitEntry()
	if s.Current() != 0 {
		t.Errorf("empty commit: current = %d, want 0", s.Current())
	}
}

func TestState_CommitOverflowClamps(t *testing.T) {
	s := newState(t, 7)
	for _, r := range "99999999999999999999999999" {
		s.AppendDigit(r)
	}
	s.CommitEntry()
	if s.Current() != 6 {
		t.Errorf("current = %d, want 6", s.Current())
	}
	if s.Pending() != "" {
		t.Errorf("pending = %q after commit", s.Pending())
	}
}

func TestState_CancelEntry(t *testing.T) {
	s := newState(t, 10)
	s.AppendDigit('4')
	s.CancelEntry()
	if s.InEntry() || s.Current() != 0 {
		t.Errorf("cancel left state %d/%q", s.Current(), s.Pending())
	}
}

func TestState_BeginEntryDiscardsBuffer(t *testing.T) {
	tests := []struct {
		typed string
		then  string
		want  int
	}{
		{"", "5", 5},
		{"7", "3", 3},
		{"12", "", 0},
	}
	for _, tt := range tests {
		s := newState(t, 20)
		for _, r := range tt.typed {
			s.AppendDigit(r)
		}
		s.BeginEntry()
		if s.InEntry() {
			t.Errorf("typed %q: buffer %q survived BeginEntry", tt.typed, s.Pending())
		}
		for _, r := range tt.then {
			s.AppendDigit(r)
		}
		s.CommitEntry()
		if s.Current() != tt.want {
			t.Errorf("typed %q then %q: current = %d, want %d", tt.typed, tt.then, s.Current(), tt.want)
		}
	}
}

func TestState_EmptyFrameSet(t *testing.T) {
	s := newState(t, 0)

	for _, key := range []string{"right", "left", "up", "down"} {
		if s.Step(key) {
			t.Errorf("step %s changed an empty state", key)
		}
	}
	if s.JumpTo(5) || s.JumpTo(-1) {
		t.Error("jump changed an empty state")
	}
	s.AppendDigit('3')
	if s.CommitEntry() {
		t.Error("commit changed an empty state")
	}
	if s.Current() != 0 {
		t.Errorf("current = %d, want 0", s.Current())
	}
}

func TestBindings_Validate(t *testing.T) {
	tests := []struct {
		name     string
		bindings Bindings
		want     error
	}{
		{"default", DefaultBindings(), nil},
		{"paging", Bindings{"pgup": 10, "pgdown": -10}, nil},
		{"empty", Bindings{}, ErrNoBindings},
		{"empty key", Bindings{"": 1}, ErrEmptyKey},
		{"digit key", Bindings{"5": 1}, ErrDigitKey},
		{"zero delta", Bindings{"right": 0}, ErrZeroDelta},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bindings.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestState_CustomBindings(t *testing.T) {
	s, err := NewState(50, Bindings{"pgup": 10, "pgdown": -10})
	if err != nil {
		t.Fatal(err)
	}
	s.Step("pgup")
	s.Step("pgup")
	if s.Current() != 20 {
		t.Errorf("current = %d, want 20", s.Current())
	}
	if s.Step("right") {
		t.Error("unbound key moved the state")
	}
}

func TestBindingsAreCopied(t *testing.T) {
	in := Bindings{"l": 1, "h": -1}
	s, err := NewState(5, in)
	if err != nil {
		t.Fatal(err)
	}
	in["l"] = 3
	out := s.Bindings()
	out["h"] = -7
	if d, _ := s.Delta("l"); d != 1 {
		t.Errorf("caller mutation leaked into state: %d", d)
	}
	if d, _ := s.Delta("h"); d != -1 {
		t.Errorf("Bindings() exposed internal map: %d", d)
	}
}
