// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingWorker runs until its context is cancelled.
type blockingWorker struct {
	started atomic.Bool
}

func (b *blockingWorker) Run(ctx context.Context) error {
	b.started.Store(true)
	<-ctx.Done()
	return ctx.Err()
}

type fakeServer struct {
	mu       sync.Mutex
	stop     chan struct{}
	shutdown int
}

func newFakeServer() *fakeServer { return &fakeServer{stop: make(chan struct{})} }

func (s *fakeServer) RunServer() { <-s.stop }

func (s *fakeServer) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shutdown == 0 {
		close(s.stop)
	}
	s.shutdown++
}

func (s *fakeServer) Addr() string { return "127.0.0.1:0" }

func runAsync(ctx context.Context, w *Workers) <-chan error {
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return done
}

func waitErr(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop")
		return nil
	}
}

func TestWorkers_Run_CancelStopsAll(t *testing.T) {
	w1, w2 := &blockingWorker{}, &blockingWorker{}
	ws := NewWorkers(logger.Nop()).Add("one", w1).Add("two", w2)

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, ws)

	require.Eventually(t, func() bool { return w1.started.Load() && w2.started.Load() }, time.Second, 5*time.Millisecond)
	cancel()

	assert.NoError(t, waitErr(t, done))
}

func TestWorkers_Run_FirstReturnStopsOthers(t *testing.T) {
	blocking := &blockingWorker{}
	ws := NewWorkers(logger.Nop()).
		Add("blocking", blocking).
		Add("short", WorkerFunc(func(context.Context) error { return nil }))

	assert.NoError(t, waitErr(t, runAsync(context.Background(), ws)))
}

func TestWorkers_Run_ErrorIsReported(t *testing.T) {
	boom := errors.New("boom")
	ws := NewWorkers(logger.Nop()).
		Add("blocking", &blockingWorker{}).
		Add("failing", WorkerFunc(func(context.Context) error { return boom }))

	err := waitErr(t, runAsync(context.Background(), ws))
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "worker failing")
}

func TestWorkers_Run_Empty(t *testing.T) {
	assert.NoError(t, NewWorkers(logger.Nop()).Run(context.Background()))
}

func TestServerWorker_ShutsDownOnCancel(t *testing.T) {
	srv := newFakeServer()
	ws := NewWorkers(logger.Nop()).Add("server", ServerWorker(srv))

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, ws)
	cancel()

	assert.NoError(t, waitErr(t, done))
	assert.Equal(t, 1, srv.shutdown)
}

func TestServerWorker_ServerStopEndsGroup(t *testing.T) {
	srv := newFakeServer()
	blocking := &blockingWorker{}
	ws := NewWorkers(logger.Nop()).Add("server", ServerWorker(srv)).Add("blocking", blocking)

	done := runAsync(context.Background(), ws)
	require.Eventually(t, blocking.started.Load, time.Second, 5*time.Millisecond)
	srv.Shutdown()

	assert.NoError(t, waitErr(t, done))
}
