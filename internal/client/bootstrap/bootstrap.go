// Package bootstrap assembles the dashboard client from its Config: the
// transport, the session core, sign-out fan-out, error reporting and the CLI.
package bootstrap

import (
	"context"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"github.com/umerwe/school-frontend-sub001/internal/client/cli"
	"github.com/umerwe/school-frontend-sub001/internal/client/client"
	"github.com/umerwe/school-frontend-sub001/internal/client/config"
	"github.com/umerwe/school-frontend-sub001/internal/client/events"
	"github.com/umerwe/school-frontend-sub001/internal/client/services"
	"github.com/umerwe/school-frontend-sub001/internal/client/session"
	"github.com/umerwe/school-frontend-sub001/internal/logging"
	"github.com/umerwe/school-frontend-sub001/internal/observability"
)

// Client is a fully wired client. Close releases the connections it holds.
type Client struct {
	App         *cli.App
	Auth        services.AuthService
	Coordinator *session.Coordinator
	Terminator  *session.Terminator
	Bus         *events.Bus

	listener *events.RedisListener
	closers  []func() error
	log      logging.Logger
}

func newExecutor(cfg *config.Config) (client.Executor, func() error, error) {
	switch cfg.Transport {
	case config.TransportGRPC:
		conn, err := client.DialGRPC(cfg.GRPCAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("grpc dial: %w", err)
		}
		return client.NewGRPCExecutor(conn, cfg.RequestTimeout), conn.Close, nil
	case config.TransportHTTP, "":
		exec, err := client.NewHTTPExecutor(cfg.ServerURL, cfg.RequestTimeout)
		if err != nil {
			return nil, nil, err
		}
		return exec, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

// Build wires a Client. The CLI reads from in and renders to out.
func Build(cfg *config.Config, in io.Reader, out io.Writer, log logging.Logger) (*Client, error) {
	if log == nil {
		log = logging.Nop()
	}

	c := &Client{Bus: events.NewBus(), log: log}

	exec, closeExec, err := newExecutor(cfg)
	if err != nil {
		return nil, err
	}
	if closeExec != nil {
		c.closers = append(c.closers, closeExec)
	}

	c.App = cli.NewApp(cfg.OnlineCheckInterval, in, out, log.With("module", "cli"))

	notifiers := events.Multi{c.Bus}
	var rdb *redis.Client
	var publisher *events.RedisNotifier
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		c.closers = append(c.closers, rdb.Close)
		publisher = events.NewRedisNotifier(rdb, cfg.RedisChannel)
		notifiers = append(notifiers, publisher)
	}

	termOpts := []session.TerminatorOption{
		session.WithNotifier(notifiers),
		session.WithNavigator(c.App),
		session.WithTerminatorLogger(log.With("module", "terminator")),
	}
	if cfg.SentryDSN != "" {
		if err := observability.InitSentry(cfg.SentryDSN, cfg.Environment); err != nil {
			c.Close()
			return nil, fmt.Errorf("sentry init: %w", err)
		}
		c.closers = append(c.closers, func() error { observability.FlushSentry(); return nil })
		termOpts = append(termOpts, session.WithReporter(observability.NewSentryReporter(nil)))
	}

	store := session.NewCredentialStore()
	c.Terminator = session.NewTerminator(store, termOpts...)
	detector := session.NewDetector(cfg.UnreachableThreshold, c.Terminator, log.With("module", "detector"))
	c.Coordinator = session.NewCoordinator(exec, store, detector, c.Terminator,
		session.WithLogger(log.With("module", "coordinator")),
		session.WithRefreshPath(cfg.RefreshPath),
		session.WithLogoutPath(cfg.LogoutPath),
		session.WithTokenField(cfg.TokenField),
	)

	c.Auth = services.NewAuthService(exec, c.Coordinator, services.Paths{
		Login:      cfg.LoginPath,
		Health:     cfg.HealthPath,
		TokenField: cfg.TokenField,
	})
	c.App.Bind(c.Auth, c.Coordinator)

	if rdb != nil {
		remote := events.NewBus()
		remote.Subscribe(c.endRemotely)
		c.listener = events.NewRedisListener(rdb, cfg.RedisChannel, remote, log.With("module", "redis_listener")).
			IgnoreOrigin(publisher.Origin())
	}

	return c, nil
}

// endRemotely ends the local session when another process of the same user
// reports a sign-out.
func (c *Client) endRemotely(ctx context.Context, ev session.SignOutEvent) error {
	if _, ok := c.Coordinator.Credential(); !ok {
		return nil
	}
	c.log.Info(ctx, "session ended in another process", "reason", ev.Reason.String())
	c.Coordinator.EndSession(ctx, ev.Reason)
	return nil
}

// Listen relays sign-outs from other processes until ctx is done. It returns
// immediately when Redis is not configured.
func (c *Client) Listen(ctx context.Context, ready chan<- struct{}) error {
	if c.listener == nil {
		if ready != nil {
			close(ready)
		}
		return nil
	}
	return c.listener.Listen(ctx, ready)
}

func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.log.Warn(context.Background(), "close failed", "error", err)
		}
	}
	c.closers = nil
}
