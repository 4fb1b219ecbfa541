// Package devserver runs a fake school API for local development and
// integration tests: sign-in, rotating refresh tokens, logout, health and
// per-role dashboard summaries over HTTP and gRPC.
package devserver

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/umerwe/school-frontend-sub001/internal/devserver/api"
	"github.com/umerwe/school-frontend-sub001/internal/devserver/config"
	"github.com/umerwe/school-frontend-sub001/internal/devserver/users"
	"github.com/umerwe/school-frontend-sub001/internal/logging"
	"golang.org/x/sync/errgroup"

	gs "github.com/umerwe/school-frontend-sub001/internal/devserver/grpc"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	api    *api.API
}

func NewApp(c *config.Config, logger logging.Logger) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	us := users.NewService(users.NewMemoryRepository(users.DefaultUsers()...), c)
	return &App{config: c, logger: logger, api: api.New(us, logger)}
}

// API exposes the endpoints, e.g. to simulate an outage.
func (app *App) API() *api.API {
	return app.api
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves both fronts until ctx is cancelled, a signal arrives or one of
// them fails.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting dev server...")

	app.initSignalHandler(cancelFunc)

	g, ctx := errgroup.WithContext(ctx)

	httpSrv := api.NewHTTPServer(app.config.HTTPAddr, app.api, app.config.SecureCookies)
	g.Go(func() error {
		app.logger.Info(ctx, "Starting HTTP server", "address", app.config.HTTPAddr)
		return httpSrv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(sctx)
	})

	if app.config.GRPCAddr != "" {
		grpcSrv := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.api)
		g.Go(func() error {
			return grpcSrv.Run(ctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		app.logger.Error(ctx, "dev server stopped", "error", err)
		return err
	}

	app.logger.Info(ctx, "dev server stopped")
	return nil
}
