package service

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/internal/store"
	"github.com/MKhiriev/go-lan-sync/models"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

// ── clock ────────────────────────────────────────────────────────────────────

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return &fakeTimerHandle{clock: c, timer: t}
}

// pending returns timers that were neither stopped nor fired.
func (c *fakeClock) pending() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []time.Duration
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t.d)
		}
	}
	return out
}

// fire runs every pending timer callback.
func (c *fakeClock) fire() int {
	c.mu.Lock()
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due)
}

type fakeTimerHandle struct {
	clock *fakeClock
	timer *fakeTimer
}

func (h *fakeTimerHandle) Stop() bool {
	h.clock.mu.Lock()
	defer h.clock.mu.Unlock()
	if h.timer.stopped || h.timer.fired {
		return false
	}
	h.timer.stopped = true
	return true
}

// ── scanner ──────────────────────────────────────────────────────────────────

type fakeScanner struct {
	mu      sync.Mutex
	devices []models.Device
	hints   [][]string
	cancel  context.CancelFunc
	done    chan struct{}
}

func (s *fakeScanner) Scan(ctx context.Context, hints []string) <-chan models.Device {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.hints = append(s.hints, hints)
	scanCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel, s.done = cancel, done

	out := make(chan models.Device)
	devices := slices.Clone(s.devices)
	go func() {
		defer close(done)
		defer close(out)
		for _, d := range devices {
			select {
			case out <- d:
			case <-scanCtx.Done():
				return
			}
		}
	}()

	return out
}

func (s *fakeScanner) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (s *fakeScanner) scans() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hints)
}

// ── sync service ─────────────────────────────────────────────────────────────

type syncCall struct {
	target models.Device
	force  bool
}

// spySyncer records Sync calls. When gate is set every call blocks until
// the gate is closed.
type spySyncer struct {
	mu      sync.Mutex
	calls   []syncCall
	outcome models.SyncOutcome
	gate    chan struct{}
	entered atomic.Int64
}

func (s *spySyncer) Sync(ctx context.Context, target models.Device, force bool) models.SyncOutcome {
	s.mu.Lock()
	s.calls = append(s.calls, syncCall{target: target, force: force})
	gate := s.gate
	outcome := s.outcome
	s.mu.Unlock()

	s.entered.Add(1)
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return models.Failed(models.OutcomeTimeout, ctx.Err().Error())
		}
	}
	return outcome
}

func (s *spySyncer) recorded() []syncCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// ── prober ───────────────────────────────────────────────────────────────────

type stubProber struct {
	device models.Device
	err    error
}

func (p stubProber) Probe(_ context.Context, address string) (models.Device, error) {
	if p.err != nil {
		return models.Device{}, p.err
	}
	d := p.device
	if d.Address == "" {
		d.Address = address
	}
	return d, nil
}

// ── repositories ─────────────────────────────────────────────────────────────

type memDeviceRepo struct {
	mu      sync.Mutex
	devices []models.Device
}

func (r *memDeviceRepo) List(context.Context) ([]models.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.devices), nil
}

func (r *memDeviceRepo) Upsert(_ context.Context, device models.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.devices {
		if r.devices[i].Address == device.Address {
			r.devices[i] = device
			return nil
		}
	}
	r.devices = append(r.devices, device)
	return nil
}

func (r *memDeviceRepo) Delete(_ context.Context, address string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.devices {
		if r.devices[i].Address == address {
			r.devices = slices.Delete(r.devices, i, i+1)
			return nil
		}
	}
	return store.ErrDeviceNotFound
}

type memSettingsRepo struct {
	mu       sync.Mutex
	settings models.Settings
	localID  string
}

func (r *memSettingsRepo) Seed(_ context.Context, initial models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = initial
	return nil
}

func (r *memSettingsRepo) Get(context.Context) (models.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings, nil
}

func (r *memSettingsRepo) SaveMode(_ context.Context, mode models.SyncMode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings.Mode = mode
	return nil
}

func (r *memSettingsRepo) SaveAutoSync(_ context.Context, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings.AutoSync = enabled
	return nil
}

func (r *memSettingsRepo) SaveInterval(_ context.Context, minutes int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings.IntervalMinutes = minutes
	return nil
}

func (r *memSettingsRepo) LocalID(context.Context) (string, error) {
	return r.localID, nil
}

func (r *memSettingsRepo) snapshot() models.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings
}

// ── scheduler harness ────────────────────────────────────────────────────────

type schedulerHarness struct {
	scheduler Scheduler
	clock     *fakeClock
	scanner   *fakeScanner
	syncer    *spySyncer
	devices   *memDeviceRepo
	settings  *memSettingsRepo
	modes     ModeResolver

	customSyncer SyncService
}

type harnessOption func(h *schedulerHarness)

func withDevices(devices ...models.Device) harnessOption {
	return func(h *schedulerHarness) { h.devices.devices = devices }
}

func withScanResults(devices ...models.Device) harnessOption {
	return func(h *schedulerHarness) { h.scanner.devices = devices }
}

func withSettings(settings models.Settings) harnessOption {
	return func(h *schedulerHarness) { h.settings.settings = settings }
}

func withSyncer(syncer SyncService) harnessOption {
	return func(h *schedulerHarness) { h.syncer = nil; h.customSyncer = syncer }
}

func newSchedulerHarness(t *testing.T, prober Prober, opts ...harnessOption) *schedulerHarness {
	t.Helper()

	h := &schedulerHarness{
		clock:    newFakeClock(),
		scanner:  &fakeScanner{},
		syncer:   &spySyncer{outcome: models.Succeeded(models.SyncResponse{})},
		devices:  &memDeviceRepo{},
		settings: &memSettingsRepo{settings: models.Settings{IntervalMinutes: 30}, localID: "local-id"},
	}
	for _, opt := range opts {
		opt(h)
	}

	var syncer SyncService = h.syncer
	if h.customSyncer != nil {
		syncer = h.customSyncer
	}

	log := logger.Nop()
	h.modes = NewModeResolver(h.settings, log)
	h.scheduler = NewScheduler(
		NewDeviceRegistry(h.devices, log),
		h.scanner,
		prober,
		syncer,
		h.modes,
		h.settings,
		log,
		WithClock(h.clock),
	)

	return h
}

func (h *schedulerHarness) run(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.scheduler.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(waitTimeout):
			t.Error("scheduler did not stop")
		}
	})
}

func nextResult(t *testing.T, ch <-chan CycleResult) CycleResult {
	t.Helper()

	select {
	case r, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return r
	case <-time.After(waitTimeout):
		t.Fatal("no cycle result")
		return CycleResult{}
	}
}
