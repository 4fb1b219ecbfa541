package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/umerwe/school-frontend-sub001/internal/client/client"
	"github.com/umerwe/school-frontend-sub001/internal/client/models"
	"github.com/umerwe/school-frontend-sub001/internal/logging"
)

const (
	DefaultRefreshPath = "/auth/refresh-tokens"
	DefaultLogoutPath  = "/auth/logout"
	DefaultTokenField  = "data"

	// RefreshCookieName carries the stored refresh token on refresh and
	// logout calls.
	RefreshCookieName = "refreshToken"
)

// Coordinator is the single entry point for authenticated requests.
//
// Perform executes a request with the stored credential. When the result is
// Unauthorized, the request has not been retried yet and no manual sign-out
// is running, the caller is parked until a refresh resolves. The first
// parked caller issues the only refresh call; callers arriving meanwhile
// queue behind it and are released in arrival order. On success every parked
// caller replays its own request once with the new pair. On failure the
// session is terminated once and every parked caller gets Unauthorized.
type Coordinator struct {
	exec     client.Executor
	store    *CredentialStore
	detector *Detector
	term     SessionTerminator
	log      logging.Logger

	refreshPath string
	logoutPath  string
	tokenField  string

	manualSignOut atomic.Bool
	refreshes     atomic.Int64

	mu         sync.Mutex
	refreshing bool
	waiters    []*waiter
	// epoch changes on every sign-in and sign-out; a refresh whose epoch
	// is stale must not install its pair.
	epoch uint64
}

type waiter struct {
	release chan refreshResult
}

type refreshResult struct {
	cred models.Credential
	ok   bool
	fail models.Outcome
}

type Option func(*Coordinator)

func WithLogger(l logging.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

func WithRefreshPath(p string) Option {
	return func(c *Coordinator) { c.refreshPath = p }
}

func WithLogoutPath(p string) Option {
	return func(c *Coordinator) { c.logoutPath = p }
}

// WithTokenField names the payload field holding the credential pair.
// An empty name means the pair is at the top level of the payload.
func WithTokenField(f string) Option {
	return func(c *Coordinator) { c.tokenField = f }
}

func NewCoordinator(exec client.Executor, store *CredentialStore, detector *Detector, term SessionTerminator, opts ...Option) *Coordinator {
	c := &Coordinator{
		exec:        exec,
		store:       store,
		detector:    detector,
		term:        term,
		log:         logging.Nop(),
		refreshPath: DefaultRefreshPath,
		logoutPath:  DefaultLogoutPath,
		tokenField:  DefaultTokenField,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Perform executes req and transparently handles credential refresh.
func (c *Coordinator) Perform(ctx context.Context, req *models.Request) models.Outcome {
	ctx = logging.ContextWithRequestID(ctx, req.ID)
	cred, _ := c.store.Get()
	out := c.execute(ctx, req, cred)

	if out.Kind != models.OutcomeUnauthorized || req.Retried || c.manualSignOut.Load() {
		return out
	}

	return c.awaitRefresh(ctx, req, cred)
}

// Refreshes returns how many refresh calls have been issued.
func (c *Coordinator) Refreshes() int64 {
	return c.refreshes.Load()
}

// Credential returns the stored pair, if any.
func (c *Coordinator) Credential() (models.Credential, bool) {
	return c.store.Get()
}

// SignIn installs a freshly issued pair and re-arms session handling.
func (c *Coordinator) SignIn(ctx context.Context, cred models.Credential) error {
	c.mu.Lock()
	if err := c.store.Set(cred); err != nil {
		c.mu.Unlock()
		return err
	}
	c.epoch++
	c.manualSignOut.Store(false)
	c.mu.Unlock()

	c.detector.Reset()
	c.term.Rearm()
	c.log.Info(ctx, "signed in")
	return nil
}

// SignOut ends the session on user request. Unauthorized results seen after
// this point never start a refresh. The logout call is best-effort; local
// teardown happens regardless of its result.
func (c *Coordinator) SignOut(ctx context.Context) {
	c.markSignedOut()

	cred, _ := c.store.Get()
	req := models.Post(c.logoutPath, nil)
	req.Retried = true
	if cred.RefreshToken != "" {
		req.WithCookie(RefreshCookieName, cred.RefreshToken)
	}

	if out := c.exec.Execute(ctx, req, cred); !out.OK() {
		c.log.Warn(ctx, "logout call failed", "kind", out.Kind.String(), "detail", out.Detail)
	}

	c.term.Terminate(ctx, ReasonManualLogout)
}

// EndSession ends the local session for reason without calling the backend,
// for sign-outs that already happened elsewhere. A manual logout is recorded
// like a local one, so later Unauthorized results never start a refresh.
func (c *Coordinator) EndSession(ctx context.Context, reason Reason) {
	if reason == ReasonManualLogout {
		c.markSignedOut()
	}
	c.term.Terminate(ctx, reason)
}

func (c *Coordinator) markSignedOut() {
	c.mu.Lock()
	c.manualSignOut.Store(true)
	c.epoch++
	c.mu.Unlock()
}

// ManualSignOut reports whether a user-initiated sign-out is in effect.
func (c *Coordinator) ManualSignOut() bool {
	return c.manualSignOut.Load()
}

func (c *Coordinator) execute(ctx context.Context, req *models.Request, cred models.Credential) models.Outcome {
	out := c.exec.Execute(ctx, req, cred)
	c.detector.Observe(ctx, out)
	return out
}

func (c *Coordinator) retry(ctx context.Context, req *models.Request, cred models.Credential) models.Outcome {
	req.Retried = true
	out := c.execute(ctx, req, cred)
	if out.Kind == models.OutcomeUnauthorized {
		c.log.Warn(ctx, "request still unauthorized after refresh", "path", req.Path)
	}
	return out
}

func (c *Coordinator) awaitRefresh(ctx context.Context, req *models.Request, used models.Credential) models.Outcome {
	w := &waiter{release: make(chan refreshResult, 1)}

	c.mu.Lock()
	if !c.refreshing {
		// The pair changed since this request was sent: a refresh already
		// completed, so replay with the current pair instead of starting
		// another one.
		if cur, ok := c.store.Get(); ok && !cur.Equal(used) {
			c.mu.Unlock()
			return c.retry(ctx, req, cur)
		}
	}
	c.waiters = append(c.waiters, w)
	leader := !c.refreshing
	c.refreshing = true
	c.mu.Unlock()

	if leader {
		c.refresh(context.WithoutCancel(ctx))
	}

	select {
	case res := <-w.release:
		if !res.ok {
			req.Retried = true
			return res.fail
		}
		return c.retry(ctx, req, res.cred)
	case <-ctx.Done():
		return models.OtherError(0, ctx.Err().Error())
	}
}

// refresh issues the refresh call and releases every parked caller. It is
// only ever run by the caller that moved the state out of idle.
func (c *Coordinator) refresh(ctx context.Context) {
	c.refreshes.Add(1)
	c.log.Info(ctx, "refreshing credentials")

	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()

	cred, serverDown, err := c.callRefresh(ctx)

	c.mu.Lock()
	stale := c.epoch != epoch
	if err == nil && !stale {
		err = c.store.Set(cred)
	}
	c.mu.Unlock()

	var res refreshResult
	switch {
	case stale:
		// Signed out (or in again) while the call was in flight. The
		// session was already torn down, so there is nothing to end.
		c.log.Info(ctx, "discarding refresh result after sign-out")
		res.fail = models.Unauthorized(ErrSignedOut.Error())
	case err == nil:
		res = refreshResult{cred: cred, ok: true}
	case serverDown:
		// The detector already ended the session as server down.
		c.log.Warn(ctx, "credential refresh failed, server down", "error", err)
		res.fail = models.Unreachable(err.Error())
	default:
		c.log.Warn(ctx, "credential refresh failed", "error", err)
		c.term.Terminate(ctx, ReasonSessionExpired)
		res.fail = models.Unauthorized(ErrSessionExpired.Error())
	}

	c.mu.Lock()
	batch := c.waiters
	c.waiters = nil
	c.refreshing = false
	c.mu.Unlock()

	c.log.Info(ctx, "refresh resolved", "ok", res.ok, "waiters", len(batch))

	for _, w := range batch {
		w.release <- res
	}
}

// callRefresh reports serverDown when its own outcome was the strike that
// ended the session.
func (c *Coordinator) callRefresh(ctx context.Context) (cred models.Credential, serverDown bool, err error) {
	req := models.Post(c.refreshPath, nil)
	req.Retried = true
	if cur, ok := c.store.Get(); ok {
		req.WithCookie(RefreshCookieName, cur.RefreshToken)
	}

	out := c.exec.Execute(ctx, req, models.Credential{})
	if c.detector.Observe(ctx, out) {
		return models.Credential{}, true, fmt.Errorf("%w: %w", ErrRefreshFailed, out.Err())
	}
	if !out.OK() {
		return models.Credential{}, false, fmt.Errorf("%w: %w", ErrRefreshFailed, out.Err())
	}

	cred, err = DecodeCredential(out.Payload, c.tokenField)
	return cred, false, err
}

// DecodeCredential extracts a complete credential pair from a JSON payload.
// When field is not empty the pair is read from that top-level field.
func DecodeCredential(payload []byte, field string) (models.Credential, error) {
	raw := json.RawMessage(payload)
	if field != "" {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(payload, &envelope); err != nil {
			return models.Credential{}, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
		}
		var ok bool
		if raw, ok = envelope[field]; !ok {
			return models.Credential{}, fmt.Errorf("%w: missing field %q", ErrMalformedCredential, field)
		}
	}

	var cred models.Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return models.Credential{}, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}
	if !cred.Complete() {
		return models.Credential{}, ErrPartialCredential
	}
	return cred, nil
}
