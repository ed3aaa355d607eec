package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-lan-sync/internal/adapter"
	"github.com/MKhiriev/go-lan-sync/internal/config"
	"github.com/MKhiriev/go-lan-sync/internal/handler"
	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/internal/scanner"
	"github.com/MKhiriev/go-lan-sync/internal/server"
	"github.com/MKhiriev/go-lan-sync/internal/service"
	"github.com/MKhiriev/go-lan-sync/internal/store"
	"github.com/MKhiriev/go-lan-sync/internal/tui"
	"github.com/MKhiriev/go-lan-sync/internal/workers"
	"github.com/MKhiriev/go-lan-sync/models"
	tea "github.com/charmbracelet/bubbletea"
)

type App struct {
	storages *store.Storages
	services *service.Services
	server   server.Server
	workers  *workers.Workers
	ui       UI

	self   models.Identity
	logger *logger.Logger
}

// NewApp builds every component from cfg. Nothing runs until Run is called.
func NewApp(ctx context.Context, cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*App, error) {
	storages, err := store.NewStorages(ctx, cfg.Storage, logger.Component("store"))
	if err != nil {
		return nil, fmt.Errorf("create storages: %w", err)
	}

	app, err := newApp(ctx, cfg, storages, buildInfo, logger)
	if err != nil {
		_ = storages.Close()
		return nil, err
	}

	return app, nil
}

func newApp(ctx context.Context, cfg *config.StructuredConfig, storages *store.Storages, buildInfo models.AppBuildInfo, logger *logger.Logger) (*App, error) {
	if err := storages.SettingsRepository.Seed(ctx, cfg.SeedSettings()); err != nil {
		return nil, fmt.Errorf("seed settings: %w", err)
	}

	peerAdapter := adapter.NewHTTPPeerAdapter(cfg.Adapter, logger.Component("adapter"))
	peerScanner := scanner.NewScanner(cfg.Scanner, peerAdapter, logger.Component("scanner"))

	self, err := selfIdentity(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("name", self.Name).Str("address", self.Address).Msg("local identity")

	services, err := service.NewServices(storages, peerAdapter, peerScanner, peerScanner, self, buildInfo, logger)
	if err != nil {
		return nil, fmt.Errorf("create services: %w", err)
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, logger.Component("http"))
	if err != nil {
		return nil, fmt.Errorf("create handlers: %w", err)
	}

	srv, err := server.NewServer(handlers, cfg.Server, logger.Component("server"))
	if err != nil {
		return nil, fmt.Errorf("create server: %w", err)
	}

	app := &App{
		storages: storages,
		services: services,
		server:   srv,
		self:     self,
		logger:   logger,
	}
	app.workers = workers.NewWorkers(logger.Component("workers")).
		Add("scheduler", workers.WorkerFunc(services.Scheduler.Run)).
		Add("server", workers.ServerWorker(srv))

	if !cfg.App.Headless {
		ui, err := tui.New(services, self, buildInfo, logger.Component("tui"))
		if err != nil {
			srv.Shutdown()
			return nil, fmt.Errorf("create ui: %w", err)
		}
		app.ui = ui
	}

	return app, nil
}

// Run starts the scheduler and the peer endpoint, fires the start trigger
// and hands control to the UI. Without a UI it waits for a stop signal and
// treats SIGUSR1 as a return to the foreground.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- a.workers.Run(ctx) }()

	a.logger.Info().Str("result", a.services.Scheduler.Start().String()).Msg("start trigger")

	var uiErr error
	if a.ui != nil {
		uiErr = a.ui.Run(ctx)
		if errors.Is(uiErr, tui.ErrUserQuit) || (errors.Is(uiErr, tea.ErrProgramKilled) && ctx.Err() != nil) {
			uiErr = nil
		}
	} else {
		a.headless(ctx)
	}

	cancel()
	workersErr := <-done

	return errors.Join(uiErr, workersErr, a.storages.Close())
}

func (a *App) headless(ctx context.Context) {
	resume := make(chan os.Signal, 1)
	signal.Notify(resume, syscall.SIGUSR1)
	defer signal.Stop(resume)

	a.logger.Info().Str("address", a.server.Addr()).Msg("running headless, SIGUSR1 resumes sync")

	for {
		select {
		case <-ctx.Done():
			return
		case <-resume:
			a.logger.Info().Str("result", a.services.Scheduler.Resume().String()).Msg("resume trigger")
		}
	}
}

// selfIdentity builds the identity announced to peers. The id is filled in
// from settings by the peer service.
func selfIdentity(cfg *config.StructuredConfig) (models.Identity, error) {
	self := models.Identity{
		Name: cfg.App.DeviceName,
		Type: cfg.App.DeviceType,
	}

	if cfg.Server.AdvertiseAddress != "" {
		address, err := adapter.NormalizeAddress(cfg.Server.AdvertiseAddress)
		if err != nil {
			return models.Identity{}, fmt.Errorf("advertise address: %w", err)
		}
		self.Address = address
		return self, nil
	}

	_, port, err := net.SplitHostPort(cfg.Server.HTTPAddress)
	if err != nil {
		return models.Identity{}, fmt.Errorf("listen address %q: %w", cfg.Server.HTTPAddress, err)
	}

	ip, err := scanner.LocalIPv4()
	if err != nil {
		return models.Identity{}, fmt.Errorf("resolve local address: %w", err)
	}

	self.Address = "http://" + net.JoinHostPort(ip.String(), port)
	return self, nil
}
