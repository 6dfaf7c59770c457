package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/devicekeeper/internal/cli"
	"github.com/dmitrijs2005/devicekeeper/internal/flagx"
	"github.com/dmitrijs2005/devicekeeper/internal/logging"
	"github.com/dmitrijs2005/devicekeeper/internal/server"
	"github.com/dmitrijs2005/devicekeeper/internal/server/config"
	"github.com/dmitrijs2005/devicekeeper/internal/server/services"
)

// flags that take a value, as read by the config loaders
var valueFlags = []string{"-a", "-d", "-s", "-ds", "-as", "-l", "-f", "-i", "-c", "-config", "-e", "-env"}

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	rm, err := server.OpenRepositories(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app := cli.NewApp(services.NewDeviceService(rm, logger), services.NewUserService(rm), os.Stdout)
	err = app.Run(ctx, flagx.Positional(os.Args[1:], valueFlags))
	_ = rm.Close()

	switch {
	case errors.Is(err, cli.ErrUsage):
		os.Exit(2)
	case services.IsNotFound(err):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(3)
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
