// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-lan-sync/models"
)

// DeviceRegistry is the durable set of known peers. Reads are served from an
// in-memory snapshot; writes go through the device repository first and only
// then update the snapshot.
//
// The registry is mutated only by the [Scheduler] owner goroutine. Other
// components hand new devices to the scheduler (see [Scheduler.Discovered]).
type DeviceRegistry interface {
	// Load replaces the snapshot with the devices stored in the repository.
	Load(ctx context.Context) error

	// List returns a copy of the known devices in stable order (first
	// insertion first). The first element is the default sync target.
	List() []models.Device

	// Add upserts devices by address. A known address keeps its position in
	// the list; only name and last-seen are updated.
	Add(ctx context.Context, devices ...models.Device) error

	// Remove deletes the device with the given address. Removing an unknown
	// address is not an error.
	Remove(ctx context.Context, address string) error
}

// ForcePolicy describes what a forced sync does in a given mode.
type ForcePolicy int

const (
	// ForceReject means the forced sync is refused before any request is built.
	ForceReject ForcePolicy = iota
	// ForceClearLocal means the local history of the active source is
	// discarded before the request is built.
	ForceClearLocal
	// ForceReplaceRemote means the request is sent with force=true so the
	// peer replaces its history with ours.
	ForceReplaceRemote
)

// ModeResolver owns the sync direction and its persistence.
type ModeResolver interface {
	// Load reads the persisted mode into memory.
	Load(ctx context.Context) error

	// Current returns the in-memory mode without touching storage.
	Current() models.SyncMode

	// Cycle advances Bidirectional → Upload → Download → Bidirectional,
	// persists and returns the new mode.
	Cycle(ctx context.Context) (models.SyncMode, error)

	// Set persists mode. Invalid modes return ErrInvalidSyncMode.
	Set(ctx context.Context, mode models.SyncMode) error

	// ForcePolicy reports how a forced sync behaves under mode.
	ForcePolicy(mode models.SyncMode) ForcePolicy
}

// SyncService performs one sync exchange with one peer.
type SyncService interface {
	// Sync builds the full-snapshot request for the active source, sends it
	// to target and applies the peer's answer to the local history.
	//
	// Forced syncs follow [ModeResolver.ForcePolicy]: in Download mode the
	// local history is cleared first, in Bidirectional mode nothing is sent
	// and an OutcomeRejected outcome is returned.
	//
	// Sync never retries. The returned outcome is the only result.
	Sync(ctx context.Context, target models.Device, force bool) models.SyncOutcome
}

// PeerService is the receiving side of the protocol: it answers the
// discovery handshake and applies sync requests sent by other peers.
type PeerService interface {
	// Identity returns the local identity announced to peers.
	Identity(ctx context.Context) (models.Identity, error)

	// Apply handles an incoming sync request and returns the history the
	// requester should store.
	//
	//   - Upload: the requester pushes; targets are merged (replaced when forced).
	//   - Download: the requester pulls; the local history of its source is returned.
	//   - Bidirectional: targets are merged, then the merged set is returned.
	//
	// The requester's source config is stored without activating it.
	Apply(ctx context.Context, in models.IncomingSync) (models.SyncResponse, error)
}

// PeerServiceWrapper defines middleware composition for PeerService.
// Implementations wrap an existing PeerService to add behavior such as
// validating.
type PeerServiceWrapper interface {
	Wrap(PeerService) PeerService // returns a decorated PeerService applying additional behavior
}

// Scheduler is the orchestrator deciding when to sync. Every state transition
// runs on one owner goroutine started by Run; all exported methods are safe
// for concurrent use and marshal their work onto that goroutine.
type Scheduler interface {
	// Run loads persisted settings and serves triggers until ctx is done.
	Run(ctx context.Context) error

	// Start is the application start trigger. Requires auto sync.
	Start() TriggerResult

	// Resume is the return-to-foreground trigger. Requires auto sync.
	Resume() TriggerResult

	// SyncNow is the manual sync trigger. It ignores the auto sync flag.
	SyncNow() TriggerResult

	// SyncDevice syncs with device directly, bypassing registry and scanner
	// selection. A forced sync in Bidirectional mode returns TriggerRejected.
	SyncDevice(device models.Device, force bool) TriggerResult

	// Pair probes address; on success the device is registered, auto sync is
	// enabled with the default interval and the device is synced right away.
	Pair(ctx context.Context, address string) (models.Device, TriggerResult, error)

	// Rescan scans the local network and registers every peer found without
	// syncing.
	Rescan() TriggerResult

	// Discovered registers devices learnt outside a scan (e.g. an incoming sync).
	Discovered(devices ...models.Device)

	// Forget deletes a device from the registry.
	Forget(address string) error

	// SetInterval persists minutes and re-arms the pending timer, if any.
	SetInterval(minutes int) error

	// SetAutoSync persists the flag; disabling cancels the pending timer.
	SetAutoSync(enabled bool) error

	// Status returns a snapshot of the scheduler state.
	Status() SchedulerStatus

	// Devices returns the registry snapshot.
	Devices() []models.Device

	// Subscribe registers for completed cycle results. The channel is closed
	// by unsubscribe or when Run returns. Slow subscribers miss results.
	Subscribe() (<-chan CycleResult, func())
}

// Scanner discovers peers on the local network.
type Scanner interface {
	Scan(ctx context.Context, hints []string) <-chan models.Device
	Stop()
}

// Prober performs the discovery handshake with a single address.
type Prober interface {
	Probe(ctx context.Context, address string) (models.Device, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}
