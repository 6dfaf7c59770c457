// Package server wires configuration, storage, services and the gRPC health
// endpoint of the device registry, and runs them until a shutdown signal.
package server

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/devicekeeper/internal/logging"
	"github.com/dmitrijs2005/devicekeeper/internal/server/config"
	"github.com/dmitrijs2005/devicekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/devicekeeper/internal/server/services"

	gs "github.com/dmitrijs2005/devicekeeper/internal/server/grpc"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	repomanager   repomanager.RepositoryManager
	deviceService *services.DeviceService
	userService   *services.UserService
}

// NewApp validates c, opens the configured store and bootstraps its schema.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger := logging.New(c.LogLevel, c.LogFormat, os.Stdout)

	rm, err := OpenRepositories(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		config:        c,
		logger:        logger,
		repomanager:   rm,
		deviceService: services.NewDeviceService(rm, logger),
		userService:   services.NewUserService(rm),
	}, nil
}

// Devices returns the device service for in-process callers.
func (app *App) Devices() *services.DeviceService { return app.deviceService }

// Users returns the user service for in-process callers.
func (app *App) Users() *services.UserService { return app.userService }

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.repomanager, app.config.HealthCheckInterval, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a shutdown signal arrives, then
// closes the store.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage)

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "closing storage", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
