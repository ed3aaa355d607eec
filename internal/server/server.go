package server

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MKhiriev/go-lan-sync/internal/config"
	"github.com/MKhiriev/go-lan-sync/internal/handler"
	"github.com/MKhiriev/go-lan-sync/internal/logger"
)

type server struct {
	httpServer *httpServer
	logger     *logger.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// NewServer binds the peer endpoint address. The returned server is not
// serving until RunServer is called.
func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handlers == nil || handlers.HTTP == nil {
		return nil, errNoServersAreCreated
	}

	s := &server{
		httpServer: newHTTPServer(handlers.HTTP.Init(), cfg, logger),
		logger:     logger,
		stop:       make(chan struct{}),
	}
	if err := s.httpServer.listen(); err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.HTTPAddress, err)
	}

	return s, nil
}

func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	served := make(chan struct{})

	s.logger.Info().Str("address", s.Addr()).Msg("Launching HTTP server")
	go func() {
		defer close(served)
		s.httpServer.RunServer()
	}()

	select {
	case <-ctx.Done():
		s.Shutdown()
	case <-s.stop:
	}

	<-served
	s.logger.Info().Msg("server Shutdown gracefully")
}

func (s *server) Shutdown() {
	s.stopOnce.Do(func() {
		s.httpServer.Shutdown()
		close(s.stop)
	})
}

func (s *server) Addr() string {
	return s.httpServer.Addr()
}
