package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/umerwe/school-frontend-sub001/internal/logging"
)

// Reason tells why a session ended.
type Reason int

const (
	ReasonSessionExpired Reason = iota + 1
	ReasonServerDown
	ReasonManualLogout
)

func (r Reason) String() string {
	switch r {
	case ReasonSessionExpired:
		return "session_expired"
	case ReasonServerDown:
		return "server_down"
	case ReasonManualLogout:
		return "manual_logout"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Reason) UnmarshalText(b []byte) error {
	for _, c := range []Reason{ReasonSessionExpired, ReasonServerDown, ReasonManualLogout} {
		if c.String() == string(b) {
			*r = c
			return nil
		}
	}
	return fmt.Errorf("unknown sign-out reason %q", b)
}

// View names a terminal screen the user is sent to when a session ends.
type View string

const (
	ViewSessionExpired View = "session-expired"
	ViewServerDown     View = "server-down"
	ViewSignIn         View = "sign-in"
)

func (r Reason) View() View {
	switch r {
	case ReasonSessionExpired:
		return ViewSessionExpired
	case ReasonServerDown:
		return ViewServerDown
	default:
		return ViewSignIn
	}
}

// SignOutEvent is broadcast whenever a session ends so that state derived
// from the session elsewhere can be dropped.
type SignOutEvent struct {
	Reason Reason    `json:"reason"`
	At     time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, ev SignOutEvent) error
}

type Navigator interface {
	Navigate(ctx context.Context, v View) error
}

// Reporter receives forced terminations (expired session, server down).
type Reporter interface {
	Report(ctx context.Context, ev SignOutEvent)
}

// SessionTerminator is the capability the coordinator and the detector use
// to end a session.
type SessionTerminator interface {
	Terminate(ctx context.Context, reason Reason) bool
	Rearm()
}

// Terminator is the shared exit path for ended sessions. It clears the
// credential store, publishes a SignOutEvent, reports forced terminations
// and navigates to the terminal view for the reason. Each step runs even if
// an earlier one failed.
//
// While a termination is running, further calls return immediately. After
// it completes, calls with the same reason keep returning immediately until
// Rearm is called on the next sign-in.
type Terminator struct {
	store     *CredentialStore
	notifier  Notifier
	navigator Navigator
	reporter  Reporter
	log       logging.Logger
	now       func() time.Time

	mu         sync.Mutex
	inProgress bool
	ended      bool
	last       Reason
}

type TerminatorOption func(*Terminator)

func WithNotifier(n Notifier) TerminatorOption {
	return func(t *Terminator) { t.notifier = n }
}

func WithNavigator(n Navigator) TerminatorOption {
	return func(t *Terminator) { t.navigator = n }
}

func WithReporter(r Reporter) TerminatorOption {
	return func(t *Terminator) { t.reporter = r }
}

func WithTerminatorLogger(l logging.Logger) TerminatorOption {
	return func(t *Terminator) { t.log = l }
}

func NewTerminator(store *CredentialStore, opts ...TerminatorOption) *Terminator {
	t := &Terminator{store: store, log: logging.Nop(), now: time.Now}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Terminate ends the session for reason and reports whether this call
// performed the termination.
func (t *Terminator) Terminate(ctx context.Context, reason Reason) bool {
	t.mu.Lock()
	if t.inProgress || (t.ended && t.last == reason) {
		t.mu.Unlock()
		t.log.Debug(ctx, "termination short-circuited", "reason", reason)
		return false
	}
	t.inProgress = true
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.inProgress = false
		t.ended = true
		t.last = reason
		t.mu.Unlock()
	}()

	log := t.log.With("reason", reason)
	log.Info(ctx, "ending session")

	ev := SignOutEvent{Reason: reason, At: t.now().UTC()}

	t.step(ctx, log, "clear credentials", func() error {
		t.store.Clear()
		return nil
	})

	if t.notifier != nil {
		t.step(ctx, log, "notify sign-out", func() error {
			return t.notifier.Notify(ctx, ev)
		})
	}

	if t.reporter != nil && reason != ReasonManualLogout {
		t.step(ctx, log, "report termination", func() error {
			t.reporter.Report(ctx, ev)
			return nil
		})
	}

	if t.navigator != nil {
		t.step(ctx, log, "navigate", func() error {
			return t.navigator.Navigate(ctx, reason.View())
		})
	}

	return true
}

// Rearm allows the next termination regardless of the previous reason.
func (t *Terminator) Rearm() {
	t.mu.Lock()
	t.ended = false
	t.mu.Unlock()
}

// Ended returns the reason of the last completed termination, if the
// terminator has not been re-armed since.
func (t *Terminator) Ended() (Reason, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last, t.ended
}

func (t *Terminator) step(ctx context.Context, log logging.Logger, name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error(ctx, "termination step panicked", "step", name, "panic", r)
		}
	}()
	if err := fn(); err != nil {
		log.Warn(ctx, "termination step failed", "step", name, "error", err)
	}
}
