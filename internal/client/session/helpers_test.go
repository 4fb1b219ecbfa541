package session

import (
	"context"
	"errors"
	"sync"

	"github.com/umerwe/school-frontend-sub001/internal/client/models"
)

/*************
 * Fake executor
 *************/

type call struct {
	path    string
	cred    models.Credential
	retried bool
	cookies map[string]string
}

type fakeExec struct {
	mu      sync.Mutex
	calls   []call
	handler func(req *models.Request, cred models.Credential) models.Outcome
}

func (f *fakeExec) Execute(ctx context.Context, req *models.Request, cred models.Credential) models.Outcome {
	f.mu.Lock()
	f.calls = append(f.calls, call{path: req.Path, cred: cred, retried: req.Retried, cookies: req.Cookies})
	h := f.handler
	f.mu.Unlock()
	return h(req, cred)
}

func (f *fakeExec) callsTo(path string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.path == path {
			out = append(out, c)
		}
	}
	return out
}

/*************
 * Fake terminator
 *************/

type countingTerminator struct {
	mu      sync.Mutex
	reasons []Reason
	rearms  int
	store   *CredentialStore
}

func (t *countingTerminator) Terminate(ctx context.Context, reason Reason) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reasons = append(t.reasons, reason)
	if t.store != nil {
		t.store.Clear()
	}
	return true
}

func (t *countingTerminator) Rearm() {
	t.mu.Lock()
	t.rearms++
	t.mu.Unlock()
}

func (t *countingTerminator) calls() []Reason {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Reason(nil), t.reasons...)
}

/*************
 * Fake collaborators of Terminator
 *************/

type recordingNavigator struct {
	mu    sync.Mutex
	views []View
	err   error
	block chan struct{}
}

func (n *recordingNavigator) Navigate(ctx context.Context, v View) error {
	if n.block != nil {
		<-n.block
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.views = append(n.views, v)
	return n.err
}

func (n *recordingNavigator) got() []View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]View(nil), n.views...)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []SignOutEvent
	err    error
	panics bool
}

func (n *recordingNotifier) Notify(ctx context.Context, ev SignOutEvent) error {
	if n.panics {
		panic("notifier exploded")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return n.err
}

type recordingReporter struct {
	events []SignOutEvent
}

func (r *recordingReporter) Report(ctx context.Context, ev SignOutEvent) {
	r.events = append(r.events, ev)
}

var errBoom = errors.New("boom")
