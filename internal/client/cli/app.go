package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/umerwe/school-frontend-sub001/internal/client/models"
	"github.com/umerwe/school-frontend-sub001/internal/client/services"
	"github.com/umerwe/school-frontend-sub001/internal/client/session"
	"github.com/umerwe/school-frontend-sub001/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Performer sends an authenticated request. *session.Coordinator satisfies it.
type Performer interface {
	Perform(ctx context.Context, req *models.Request) models.Outcome
}

type App struct {
	authService   services.AuthService
	api           Performer
	log           logging.Logger
	checkInterval time.Duration

	reader *bufio.Reader
	out    io.Writer

	mu       sync.Mutex
	mode     Mode
	userName string
	view     session.View
}

// NewApp builds the REPL shell. The App is the terminator's Navigator, so the
// services that depend on the terminator are attached afterwards with Bind.
func NewApp(checkInterval time.Duration, in io.Reader, out io.Writer, log logging.Logger) *App {
	if log == nil {
		log = logging.Nop()
	}
	return &App{
		log:           log,
		checkInterval: checkInterval,
		reader:        bufio.NewReader(in),
		out:           out,
	}
}

// Bind attaches the authentication service and the request performer.
func (a *App) Bind(as services.AuthService, api Performer) *App {
	a.authService = as
	a.api = api
	return a
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.authService.Status().SignedIn
}

// Navigate renders the terminal screen for v. Every screen leads back to the
// sign-in prompt; nothing else is offered until the next login.
func (a *App) Navigate(ctx context.Context, v session.View) error {
	a.mu.Lock()
	a.view = v
	a.userName = ""
	a.mu.Unlock()

	switch v {
	case session.ViewSessionExpired:
		_, err := fmt.Fprintln(a.out, "Your session has expired. Type 'login' to sign in again.")
		return err
	case session.ViewServerDown:
		_, err := fmt.Fprintln(a.out, "The server is not responding. Type 'login' to sign in again once it is back.")
		return err
	default:
		_, err := fmt.Fprintln(a.out, "Signed out.")
		return err
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.userName != "" {
		s = a.userName + " "
	} else if a.view != "" {
		s = string(a.view) + " "
	}
	if a.mode != "" {
		s = s + string(a.mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Run prompts for a first login, starts the connectivity watcher and serves
// the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "School dashboard CLI (type 'help' for commands)")
	_ = a.Login(ctx)

	if a.checkInterval > 0 {
		go a.StartOnlineStatusWatcher(ctx, a.checkInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// connectivity mode. Pings never touch the session.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.authService.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
