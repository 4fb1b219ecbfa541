package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/umerwe/school-frontend-sub001/internal/client/models"
	"github.com/umerwe/school-frontend-sub001/internal/client/services"
)

type fakeAuth struct {
	mu       sync.Mutex
	status   services.Status
	loginErr error
	email    string
	password string
	logouts  int

	pingErr atomic.Value // error wrapper
}

type pingResult struct{ err error }

func (f *fakeAuth) Login(ctx context.Context, email string, password []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email, f.password = email, string(password)
	if f.loginErr != nil {
		return f.loginErr
	}
	f.status.SignedIn = true
	return nil
}

func (f *fakeAuth) Logout(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	f.status.SignedIn = false
	f.status.ManualSignOut = true
}

func (f *fakeAuth) Ping(ctx context.Context) error {
	if v, ok := f.pingErr.Load().(pingResult); ok {
		return v.err
	}
	return nil
}

func (f *fakeAuth) setPing(err error) { f.pingErr.Store(pingResult{err: err}) }

func (f *fakeAuth) Status() services.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

type fakePerformer struct {
	reqs []*models.Request
	out  models.Outcome
}

func (f *fakePerformer) Perform(ctx context.Context, req *models.Request) models.Outcome {
	f.reqs = append(f.reqs, req)
	return f.out
}

func newTestApp(input string, fa *fakeAuth, fp *fakePerformer) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	app := NewApp(0, strings.NewReader(input), &out, nil).Bind(fa, fp)
	return app, &out
}
