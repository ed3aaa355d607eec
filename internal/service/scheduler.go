// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/internal/store"
	"github.com/MKhiriev/go-lan-sync/models"
)

const (
	opsBuffer        = 64
	subscriberBuffer = 16
)

var errSchedulerRunning = errors.New("scheduler is already running")

type scheduler struct {
	registry DeviceRegistry
	scanner  Scanner
	prober   Prober
	syncer   SyncService
	modes    ModeResolver
	settings store.SettingsRepository
	clock    Clock

	ops     chan func()
	stopped chan struct{}
	running atomic.Bool
	workers sync.WaitGroup

	// Owned by the Run goroutine.
	ctx      context.Context
	state    SchedulerState
	autoSync bool
	interval int
	timer    Timer
	timerGen uint64
	nextRun  time.Time
	last     *CycleResult

	statusMu sync.RWMutex
	status   SchedulerStatus

	subsMu     sync.Mutex
	subs       map[uint64]chan CycleResult
	nextSub    uint64
	subsClosed bool

	logger *logger.Logger
}

// SchedulerOption customizes a scheduler built by NewScheduler.
type SchedulerOption func(*scheduler)

// WithClock replaces the wall clock used for the periodic trigger.
func WithClock(clock Clock) SchedulerOption {
	return func(s *scheduler) {
		s.clock = clock
	}
}

// NewScheduler wires the scheduler. Nothing happens until Run is called.
func NewScheduler(
	registry DeviceRegistry,
	scanner Scanner,
	prober Prober,
	syncer SyncService,
	modes ModeResolver,
	settings store.SettingsRepository,
	logger *logger.Logger,
	opts ...SchedulerOption,
) Scheduler {
	s := &scheduler{
		registry: registry,
		scanner:  scanner,
		prober:   prober,
		syncer:   syncer,
		modes:    modes,
		settings: settings,
		clock:    RealClock(),
		ops:      make(chan func(), opsBuffer),
		stopped:  make(chan struct{}),
		ctx:      context.Background(),
		interval: models.DefaultSyncIntervalMinutes,
		subs:     make(map[uint64]chan CycleResult),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return errSchedulerRunning
	}
	defer s.shutdown()

	s.ctx = ctx
	if err := s.load(ctx); err != nil {
		return err
	}
	s.publish()

	s.logger.Info().
		Bool("auto_sync", s.autoSync).
		Int("interval_minutes", s.interval).
		Int("devices", len(s.registry.List())).
		Msg("scheduler started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case op := <-s.ops:
			op()
		}
	}
}

func (s *scheduler) load(ctx context.Context) error {
	settings, err := s.settings.Get(ctx)
	switch {
	case errors.Is(err, store.ErrSettingsNotFound):
		settings = models.Settings{IntervalMinutes: models.DefaultSyncIntervalMinutes}
	case err != nil:
		return fmt.Errorf("load settings: %w", err)
	}

	s.autoSync = settings.AutoSync
	s.interval = settings.IntervalMinutes
	if !models.ValidInterval(s.interval) {
		s.interval = models.DefaultSyncIntervalMinutes
	}

	if err = s.modes.Load(ctx); err != nil {
		return err
	}
	if err = s.registry.Load(ctx); err != nil {
		return err
	}

	return nil
}

func (s *scheduler) shutdown() {
	close(s.stopped)
	s.cancelTimer()
	s.scanner.Stop()
	s.workers.Wait()
	s.closeSubscribers()
	s.logger.Info().Msg("scheduler stopped")
}

// post hands op to the owner goroutine. It fails once Run has returned.
func (s *scheduler) post(op func()) bool {
	select {
	case <-s.stopped:
		return false
	default:
	}

	select {
	case s.ops <- op:
		return true
	case <-s.stopped:
		return false
	}
}

// call runs fn on the owner goroutine and waits for its result.
func call[T any](s *scheduler, fn func() T) (T, error) {
	reply := make(chan T, 1)
	if !s.post(func() { reply <- fn() }) {
		var zero T
		return zero, ErrSchedulerStopped
	}

	select {
	case v := <-reply:
		return v, nil
	case <-s.stopped:
		select {
		case v := <-reply:
			return v, nil
		default:
			var zero T
			return zero, ErrSchedulerStopped
		}
	}
}

func (s *scheduler) triggerCall(fn func() TriggerResult) TriggerResult {
	res, err := call(s, fn)
	if err != nil {
		return TriggerRejected
	}
	return res
}

func (s *scheduler) Start() TriggerResult {
	return s.triggerCall(func() TriggerResult { return s.trigger(TriggerStart) })
}

func (s *scheduler) Resume() TriggerResult {
	return s.triggerCall(func() TriggerResult { return s.trigger(TriggerResume) })
}

func (s *scheduler) SyncNow() TriggerResult {
	return s.triggerCall(func() TriggerResult { return s.trigger(TriggerManual) })
}

func (s *scheduler) SyncDevice(device models.Device, force bool) TriggerResult {
	return s.triggerCall(func() TriggerResult { return s.syncDevice(device, force) })
}

func (s *scheduler) Rescan() TriggerResult {
	return s.triggerCall(func() TriggerResult {
		if s.state != StateIdle {
			return TriggerDropped
		}
		s.startScan(TriggerRescan, nil, false)
		return TriggerAccepted
	})
}

func (s *scheduler) Pair(ctx context.Context, address string) (models.Device, TriggerResult, error) {
	// the handshake runs on the caller's goroutine; only its result reaches the owner
	device, err := s.prober.Probe(ctx, address)
	if err != nil {
		return models.Device{}, TriggerRejected, fmt.Errorf("pair %s: %w", address, err)
	}

	res, err := call(s, func() TriggerResult { return s.paired(device) })
	if err != nil {
		return device, TriggerRejected, err
	}

	return device, res, nil
}

func (s *scheduler) Discovered(devices ...models.Device) {
	if len(devices) == 0 {
		return
	}
	_, _ = call(s, func() struct{} {
		if err := s.registry.Add(s.ctx, devices...); err != nil {
			s.logger.Warn().Err(err).Msg("failed to register discovered devices")
		}
		return struct{}{}
	})
}

func (s *scheduler) Forget(address string) error {
	res, err := call(s, func() error { return s.registry.Remove(s.ctx, address) })
	if err != nil {
		return err
	}
	return res
}

func (s *scheduler) SetInterval(minutes int) error {
	if !models.ValidInterval(minutes) {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, minutes)
	}

	res, err := call(s, func() error {
		if err := s.settings.SaveInterval(s.ctx, minutes); err != nil {
			return fmt.Errorf("save interval: %w", err)
		}
		s.interval = minutes
		if s.timer != nil || (s.autoSync && s.state == StateIdle) {
			s.armTimer()
		}
		s.publish()
		return nil
	})
	if err != nil {
		return err
	}
	return res
}

func (s *scheduler) SetAutoSync(enabled bool) error {
	res, err := call(s, func() error {
		if err := s.settings.SaveAutoSync(s.ctx, enabled); err != nil {
			return fmt.Errorf("save auto sync: %w", err)
		}
		s.autoSync = enabled
		switch {
		case !enabled:
			s.cancelTimer()
		case s.timer == nil && s.state == StateIdle:
			s.armTimer()
		}
		s.publish()
		return nil
	})
	if err != nil {
		return err
	}
	return res
}

func (s *scheduler) Status() SchedulerStatus {
	s.statusMu.RLock()
	status := s.status
	s.statusMu.RUnlock()

	status.Mode = s.modes.Current()
	return status
}

func (s *scheduler) Devices() []models.Device {
	return s.registry.List()
}

func (s *scheduler) Subscribe() (<-chan CycleResult, func()) {
	ch := make(chan CycleResult, subscriberBuffer)

	s.subsMu.Lock()
	if s.subsClosed {
		s.subsMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// ── owner goroutine ─────────────────────────────────────────────────────────

func (s *scheduler) trigger(kind TriggerKind) TriggerResult {
	log := s.logger.With().Str("trigger", kind.String()).Logger()

	if kind.Automatic() && !s.autoSync {
		log.Debug().Msg("auto sync disabled, trigger ignored")
		return TriggerDisabled
	}
	if s.state != StateIdle {
		log.Debug().Str("state", s.state.String()).Msg("cycle in progress, trigger dropped")
		return TriggerDropped
	}

	devices := s.registry.List()
	if len(devices) > 0 {
		s.startSync(kind, devices[0], false, 0)
		return TriggerAccepted
	}

	s.startScan(kind, addresses(devices), true)
	return TriggerAccepted
}

func (s *scheduler) syncDevice(device models.Device, force bool) TriggerResult {
	if s.state != StateIdle {
		return TriggerDropped
	}

	mode := s.modes.Current()
	if force && s.modes.ForcePolicy(mode) == ForceReject {
		s.logger.Info().Str("address", device.Address).Msg(msgForcedBidirectional)
		return TriggerRejected
	}

	s.startSync(TriggerDevice, device, force, 0)
	return TriggerAccepted
}

func (s *scheduler) paired(device models.Device) TriggerResult {
	log := s.logger.With().Str("address", device.Address).Logger()

	if err := s.registry.Add(s.ctx, device); err != nil {
		log.Warn().Err(err).Msg("failed to register paired device")
	}

	if !s.autoSync {
		if err := s.settings.SaveAutoSync(s.ctx, true); err != nil {
			log.Warn().Err(err).Msg("failed to persist auto sync")
		}
		s.autoSync = true
	}
	if s.interval != models.DefaultSyncIntervalMinutes {
		if err := s.settings.SaveInterval(s.ctx, models.DefaultSyncIntervalMinutes); err != nil {
			log.Warn().Err(err).Msg("failed to persist interval")
		}
		s.interval = models.DefaultSyncIntervalMinutes
	}
	log.Info().Msg("device paired, auto sync enabled")

	if s.state != StateIdle {
		s.publish()
		return TriggerDropped
	}

	s.startSync(TriggerPair, device, false, 1)
	return TriggerAccepted
}

func (s *scheduler) startScan(kind TriggerKind, hints []string, syncFirst bool) {
	s.state = StateScanning
	s.publish()

	ch := s.scanner.Scan(s.ctx, hints)

	s.workers.Add(1)
	go func() {
		defer s.workers.Done()

		var found []models.Device
		if syncFirst {
			if first, ok := <-ch; ok {
				found = append(found, first)

				rest := make(chan []models.Device, 1)
				go func() {
					var late []models.Device
					for d := range ch {
						late = append(late, d)
					}
					rest <- late
				}()
				s.scanner.Stop()
				found = append(found, <-rest...)
			}
		} else {
			for d := range ch {
				found = append(found, d)
			}
		}

		s.post(func() { s.scanFinished(kind, found, syncFirst) })
	}()
}

func (s *scheduler) scanFinished(kind TriggerKind, found []models.Device, syncFirst bool) {
	s.logger.Debug().Str("trigger", kind.String()).Int("found", len(found)).Msg("scan finished")

	if len(found) > 0 {
		if err := s.registry.Add(s.ctx, found...); err != nil {
			s.logger.Warn().Err(err).Msg("failed to register scanned devices")
		}
	}

	if !syncFirst || len(found) == 0 {
		s.finishCycle(CycleResult{Trigger: kind, Discovered: len(found)})
		return
	}

	s.startSync(kind, found[0], false, len(found))
}

func (s *scheduler) startSync(kind TriggerKind, target models.Device, force bool, discovered int) {
	s.state = StateSyncing
	s.publish()

	s.workers.Add(1)
	go func() {
		defer s.workers.Done()

		outcome := s.syncer.Sync(s.ctx, target, force)
		s.post(func() { s.syncFinished(kind, target, outcome, discovered) })
	}()
}

func (s *scheduler) syncFinished(kind TriggerKind, target models.Device, outcome models.SyncOutcome, discovered int) {
	log := s.logger.With().
		Str("trigger", kind.String()).
		Str("address", target.Address).
		Str("outcome", outcome.Kind.String()).
		Logger()

	switch {
	case outcome.OK():
		target.LastSeen = s.clock.Now()
		if err := s.registry.Add(s.ctx, target); err != nil {
			log.Warn().Err(err).Msg("failed to update device")
		}
		log.Info().Int("applied", outcome.Applied).Msg("sync cycle finished")
	case kind.Automatic():
		log.Debug().Str("message", outcome.Message).Msg("automatic sync failed")
	default:
		log.Warn().Str("message", outcome.Message).Msg("sync failed")
	}

	s.finishCycle(CycleResult{
		Trigger:    kind,
		Target:     target,
		Outcome:    outcome,
		Synced:     true,
		Discovered: discovered,
	})
}

func (s *scheduler) finishCycle(result CycleResult) {
	result.FinishedAt = s.clock.Now()

	s.state = StateIdle
	s.last = &result
	if s.autoSync {
		s.armTimer()
	}
	s.publish()
	s.broadcast(result)
}

// armTimer replaces any pending timer with one firing after the interval.
func (s *scheduler) armTimer() {
	s.cancelTimer()

	gen := s.timerGen
	d := time.Duration(s.interval) * time.Minute
	s.nextRun = s.clock.Now().Add(d)
	s.timer = s.clock.AfterFunc(d, func() {
		s.post(func() { s.timerFired(gen) })
	})
}

func (s *scheduler) cancelTimer() {
	// a fire already queued on ops carries the old generation and is ignored
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.nextRun = time.Time{}
}

func (s *scheduler) timerFired(gen uint64) {
	if gen != s.timerGen {
		return
	}
	s.timer = nil
	s.nextRun = time.Time{}

	if res := s.trigger(TriggerTimer); res != TriggerAccepted {
		s.publish()
	}
}

func (s *scheduler) publish() {
	status := SchedulerStatus{
		State:           s.state,
		AutoSync:        s.autoSync,
		IntervalMinutes: s.interval,
		TimerPending:    s.timer != nil,
		NextRun:         s.nextRun,
	}
	if s.last != nil {
		last := *s.last
		status.LastResult = &last
	}

	s.statusMu.Lock()
	s.status = status
	s.statusMu.Unlock()
}

func (s *scheduler) broadcast(result CycleResult) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for id, ch := range s.subs {
		select {
		case ch <- result:
		default:
			s.logger.Debug().Uint64("subscriber", id).Msg("subscriber is slow, cycle result dropped")
		}
	}
}

func (s *scheduler) closeSubscribers() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	s.subsClosed = true
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
}
