package service

import (
	"time"

	"github.com/MKhiriev/go-lan-sync/models"
)

// TriggerKind names what asked the scheduler for a cycle.
type TriggerKind int

const (
	TriggerStart TriggerKind = iota
	TriggerResume
	TriggerTimer
	TriggerManual
	TriggerPair
	TriggerDevice
	TriggerRescan
)

func (k TriggerKind) String() string {
	switch k {
	case TriggerStart:
		return "start"
	case TriggerResume:
		return "resume"
	case TriggerTimer:
		return "timer"
	case TriggerManual:
		return "manual"
	case TriggerPair:
		return "pair"
	case TriggerDevice:
		return "device"
	case TriggerRescan:
		return "rescan"
	default:
		return "unknown"
	}
}

// Automatic reports whether the trigger fires without a user action.
// Automatic triggers require auto sync and fail silently.
func (k TriggerKind) Automatic() bool {
	return k == TriggerStart || k == TriggerResume || k == TriggerTimer
}

// TriggerResult is the immediate answer to a trigger.
type TriggerResult int

const (
	// TriggerAccepted means a cycle started.
	TriggerAccepted TriggerResult = iota
	// TriggerDropped means a cycle was already running. Triggers are never queued.
	TriggerDropped
	// TriggerDisabled means an automatic trigger fired while auto sync is off.
	TriggerDisabled
	// TriggerRejected means the trigger was refused (forced bidirectional
	// sync, or the scheduler is not running).
	TriggerRejected
)

func (r TriggerResult) String() string {
	switch r {
	case TriggerAccepted:
		return "accepted"
	case TriggerDropped:
		return "dropped"
	case TriggerDisabled:
		return "disabled"
	case TriggerRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// SchedulerState is the state of the sync state machine.
type SchedulerState int

const (
	StateIdle SchedulerState = iota
	StateScanning
	StateSyncing
)

func (s SchedulerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateSyncing:
		return "syncing"
	default:
		return "unknown"
	}
}

// CycleResult is published to subscribers when a cycle ends.
type CycleResult struct {
	Trigger TriggerKind
	// Target is the synced device; zero when nothing was synced.
	Target models.Device
	// Outcome is meaningful only when Synced is true.
	Outcome models.SyncOutcome
	Synced  bool
	// Discovered is the number of peers found by the scan of this cycle.
	Discovered int
	FinishedAt time.Time
}

// SchedulerStatus is a point-in-time copy of the scheduler state.
type SchedulerStatus struct {
	State           SchedulerState
	Mode            models.SyncMode
	AutoSync        bool
	IntervalMinutes int
	// TimerPending is true while a periodic cycle is armed; NextRun is its
	// due time.
	TimerPending bool
	NextRun      time.Time
	LastResult   *CycleResult
}

// Syncing reports whether a cycle is in progress.
func (s SchedulerStatus) Syncing() bool {
	return s.State != StateIdle
}

// Clock abstracts timers so the periodic trigger can be driven by tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the handle of a pending [Clock.AfterFunc] call.
type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealClock returns a [Clock] backed by the time package.
func RealClock() Clock {
	return realClock{}
}
