package engine

import (
	"errors"
	"testing"
	"time"
)

// fakeClock is a settable clock for deadline tests.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestLifecycle_InitialState(t *testing.T) {
	l := newLifecycle(nil)
	if l.current() != NotStarted {
		t.Errorf("Expected NotStarted, got %v", l.current())
	}
}

func TestLifecycle_StartTransitions(t *testing.T) {
	l := newLifecycle(nil)
	cfg := GameConfig{NumRows: 3, NumCols: 3, Secret: "pw"}

	if err := l.start(cfg); err != nil {
		t.Fatalf("start from NotStarted failed: %v", err)
	}
	if l.current() != Running {
		t.Errorf("Expected Running after start, got %v", l.current())
	}

	// Starting again while running is rejected.
	if err := l.start(cfg); !errors.Is(err, ErrGameRunning) {
		t.Errorf("Expected ErrGameRunning, got %v", err)
	}
}

func TestLifecycle_StartRejectsInvalidConfig(t *testing.T) {
	l := newLifecycle(nil)

	tests := []GameConfig{
		{NumRows: 0, NumCols: 3},
		{NumRows: 3, NumCols: 0},
		{NumRows: -1, NumCols: -1},
		{NumRows: 3, NumCols: 3, TimeLimit: -5},
	}
	for _, cfg := range tests {
		if err := l.start(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("start(%+v): expected ErrInvalidConfig, got %v", cfg, err)
		}
		if l.current() != NotStarted {
			t.Errorf("Rejected start must not change state, got %v", l.current())
		}
	}
}

func TestLifecycle_LazyDeadlineExpiry(t *testing.T) {
	clock := newFakeClock()
	l := newLifecycle(clock.now)

	if err := l.start(GameConfig{NumRows: 3, NumCols: 3, Secret: "pw", TimeLimit: 1}); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	clock.advance(59 * time.Second)
	if l.current() != Running {
		t.Errorf("Expected Running before deadline, got %v", l.current())
	}

	clock.advance(1 * time.Second)
	if l.current() != Ended {
		t.Errorf("Expected Ended at deadline, got %v", l.current())
	}
}

func TestLifecycle_UntimedGameNeverExpires(t *testing.T) {
	clock := newFakeClock()
	l := newLifecycle(clock.now)

	if err := l.start(GameConfig{NumRows: 3, NumCols: 3, Secret: "pw"}); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	clock.advance(1000 * time.Hour)
	if l.current() != Running {
		t.Errorf("Untimed game expired: %v", l.current())
	}
}

func TestLifecycle_StartLegalFromEnded(t *testing.T) {
	clock := newFakeClock()
	l := newLifecycle(clock.now)

	l.start(GameConfig{NumRows: 3, NumCols: 3, Secret: "pw", TimeLimit: 1})
	clock.advance(2 * time.Minute)
	if l.current() != Ended {
		t.Fatalf("Expected Ended, got %v", l.current())
	}

	if err := l.start(GameConfig{NumRows: 4, NumCols: 4, Secret: "pw2"}); err != nil {
		t.Fatalf("start from Ended failed: %v", err)
	}
	if l.current() != Running {
		t.Errorf("Expected Running, got %v", l.current())
	}
}

func TestLifecycle_ResetSecretPolicy(t *testing.T) {
	l := newLifecycle(nil)

	// Never-started machine accepts any secret.
	if err := l.reset("anything"); err != nil {
		t.Errorf("Reset before first start should accept any secret, got %v", err)
	}

	l.start(GameConfig{NumRows: 3, NumCols: 3, Secret: "pw"})

	if err := l.reset("wrong"); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for wrong secret, got %v", err)
	}
	if l.current() != Running {
		t.Errorf("Failed reset must not change state, got %v", l.current())
	}

	if err := l.reset("pw"); err != nil {
		t.Fatalf("Reset with correct secret failed: %v", err)
	}
	if l.current() != NotStarted {
		t.Errorf("Expected NotStarted after reset, got %v", l.current())
	}

	// The last start's secret is still required after a reset.
	if err := l.reset("anything"); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden after reset with stale secret, got %v", err)
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{NotStarted, "NotStarted"},
		{Running, "Running"},
		{Ended, "Ended"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	valid := map[string]Direction{
		"up":    Up,
		"Down":  Down,
		"LEFT":  Left,
		" right ": Right,
	}
	for in, want := range valid {
		got, err := ParseDirection(in)
		if err != nil {
			t.Errorf("ParseDirection(%q) failed: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseDirection(%q) = %v, want %v", in, got, want)
		}
	}

	for _, in := range []string{"", "north", "upp"} {
		if _, err := ParseDirection(in); err == nil {
			t.Errorf("ParseDirection(%q) should fail", in)
		}
	}
}
