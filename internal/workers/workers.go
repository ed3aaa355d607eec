package workers

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/internal/server"
	"golang.org/x/sync/errgroup"
)

type namedWorker struct {
	name   string
	worker Worker
}

type Workers struct {
	workers []namedWorker
	logger  *logger.Logger
}

func NewWorkers(logger *logger.Logger) *Workers {
	return &Workers{logger: logger}
}

// Add registers a worker under name. Workers start in the order they were
// added.
func (w *Workers) Add(name string, worker Worker) *Workers {
	w.workers = append(w.workers, namedWorker{name: name, worker: worker})
	return w
}

// Run starts every worker on its own goroutine and blocks until all of them
// return. The first worker to return stops the others. A cancelled context
// is not reported as an error.
func (w *Workers) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for _, nw := range w.workers {
		g.Go(func() error {
			defer cancel()

			w.logger.Debug().Str("worker", nw.name).Msg("worker started")
			err := nw.worker.Run(gctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				w.logger.Err(err).Str("worker", nw.name).Msg("worker failed")
				return fmt.Errorf("worker %s: %w", nw.name, err)
			}
			w.logger.Debug().Str("worker", nw.name).Msg("worker stopped")
			return nil
		})
	}

	return g.Wait()
}

// ServerWorker serves s until ctx is cancelled or a stop signal arrives.
func ServerWorker(s server.Server) Worker {
	return WorkerFunc(func(ctx context.Context) error {
		stopped := make(chan struct{})
		defer close(stopped)

		go func() {
			select {
			case <-ctx.Done():
				s.Shutdown()
			case <-stopped:
			}
		}()

		s.RunServer()
		return nil
	})
}
