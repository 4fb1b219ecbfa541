package main

import (
	"context"
	"os"

	"github.com/umerwe/school-frontend-sub001/internal/devserver"
	"github.com/umerwe/school-frontend-sub001/internal/devserver/config"
	"github.com/umerwe/school-frontend-sub001/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(logging.BackendSlog, "json", "info", os.Stdout)

	if err := devserver.NewApp(cfg, logger).Run(ctx); err != nil {
		os.Exit(1)
	}
}
