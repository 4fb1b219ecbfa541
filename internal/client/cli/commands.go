package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/umerwe/school-frontend-sub001/internal/client/models"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

var ErrNotSignedIn = errors.New("not signed in")

// Login prompts the user for credentials and signs in.
//
// The password byte slice is wiped before returning. A failed login leaves
// the App signed out and returns the service error.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	if err := a.authService.Login(ctx, userName, password); err != nil {
		a.log.Warn(ctx, "login failed", "error", err)
		return err
	}

	a.mu.Lock()
	a.userName = userName
	a.view = ""
	a.mu.Unlock()

	a.setMode(ModeOnline)
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout signs out on user request. The sign-in screen is rendered by
// Navigate once the session has been torn down.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return ErrNotSignedIn
	}
	a.authService.Logout(ctx)
	return nil
}

func (a *App) Get(ctx context.Context, path string) error {
	return a.send(ctx, models.Get(path))
}

// Post sends body to path. When body is empty the user is prompted for a
// multi-line JSON document.
func (a *App) Post(ctx context.Context, path, body string) error {
	if strings.TrimSpace(body) == "" {
		var err error
		body, err = getMultiline(a.reader, "Enter JSON body", a.out)
		if err != nil {
			return err
		}
	}
	if !json.Valid([]byte(body)) {
		return fmt.Errorf("invalid JSON body")
	}
	return a.send(ctx, models.Post(path, []byte(body)))
}

func (a *App) send(ctx context.Context, req *models.Request) error {
	if !a.isLoggedIn() {
		return ErrNotSignedIn
	}

	out := a.api.Perform(ctx, req)
	if !out.OK() {
		return out.Err()
	}

	if len(out.Payload) == 0 {
		_, err := fmt.Fprintf(a.out, "%d %s\n", out.Status, http.StatusText(out.Status))
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, out.Payload, "", "  "); err != nil {
		buf.Reset()
		buf.Write(out.Payload)
	}
	_, err := fmt.Fprintln(a.out, buf.String())
	return err
}

// Status prints what the client knows about the current session.
func (a *App) Status(ctx context.Context) error {
	st := a.authService.Status()

	if !st.SignedIn {
		_, err := fmt.Fprintln(a.out, "Signed out")
		return err
	}

	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", a.currentUser(), a.Mode())
	if !st.AccessExpiry.IsZero() {
		fmt.Fprintf(a.out, "Access token expires in %s\n", time.Until(st.AccessExpiry).Round(time.Second))
	}
	_, err := fmt.Fprintf(a.out, "Credential refreshes: %d\n", st.Refreshes)
	return err
}

func (a *App) currentUser() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userName
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
