package engine

import "time"

// lifecycle is the game state machine: NotStarted -> Running -> Ended, with
// reset returning to NotStarted from anywhere. It also records the admin
// secret and the optional deadline of the current game.
//
// Deadline expiry is lazy: refresh is evaluated at the start of every engine
// operation, so no caller ever observes Running strictly after the deadline
// and no background timer is needed.
type lifecycle struct {
	status   Status
	secret   string
	deadline time.Time
	// started flips on the first successful start and never clears; it
	// decides the reset policy for a game that has never been started.
	started bool
	now     func() time.Time
}

func newLifecycle(now func() time.Time) *lifecycle {
	if now == nil {
		now = time.Now
	}
	return &lifecycle{status: NotStarted, now: now}
}

// refresh applies lazy deadline expiry.
func (l *lifecycle) refresh() {
	if l.status == Running && !l.deadline.IsZero() && !l.now().Before(l.deadline) {
		l.status = Ended
	}
}

// start transitions to Running. Legal from NotStarted and Ended only.
func (l *lifecycle) start(cfg GameConfig) error {
	l.refresh()
	if l.status == Running {
		return ErrGameRunning
	}
	if err := ValidateGameConfig(cfg); err != nil {
		return err
	}

	l.secret = cfg.Secret
	l.deadline = time.Time{}
	if cfg.TimeLimit > 0 {
		l.deadline = l.now().Add(time.Duration(cfg.TimeLimit) * time.Minute)
	}
	l.status = Running
	l.started = true
	return nil
}

// reset returns the machine to NotStarted. Legal from any state. Before the
// first start no secret has ever been recorded, so any secret is accepted;
// afterwards the secret of the last start is required, even after the game
// ended.
func (l *lifecycle) reset(secret string) error {
	if l.started && secret != l.secret {
		return ErrForbidden
	}
	l.status = NotStarted
	l.deadline = time.Time{}
	return nil
}

// current returns the status after applying lazy expiry.
func (l *lifecycle) current() Status {
	l.refresh()
	return l.status
}
