package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/umerwe/school-frontend-sub001/internal/client/bootstrap"
	"github.com/umerwe/school-frontend-sub001/internal/client/config"
	"github.com/umerwe/school-frontend-sub001/internal/logging"
)

func main() {

	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogBackend, cfg.LogFormat, cfg.LogLevel, os.Stderr)

	c, err := bootstrap.Build(cfg, os.Stdin, os.Stdout, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := c.Listen(ctx, nil); err != nil {
			logger.Warn(ctx, "sign-out listener stopped", "error", err)
		}
	}()

	c.App.Run(ctx)
}
