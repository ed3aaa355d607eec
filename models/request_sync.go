// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "encoding/json"

// SyncRequest is the payload of one sync attempt. It always carries a full
// snapshot of the local history for the active source: the protocol replaces
// rather than diffs.
type SyncRequest struct {
	// Identity is the JSON form of the local [Identity].
	// Sent as the `device` form field.
	Identity json.RawMessage

	// Config is the JSON form of the active [SourceConfig].
	// Sent as the `config` form field.
	Config json.RawMessage

	// Targets is the complete local history of the active source.
	// Sent as the `targets` form field (JSON array).
	Targets []HistoryEntry

	// Mode is the requested replication direction.
	Mode SyncMode

	// Force marks a user-forced sync. The peer replaces instead of merging.
	Force bool
}

// IncomingSync is a sync request as decoded by the receiving peer.
type IncomingSync struct {
	// Sender is the identity of the requesting device.
	Sender Identity

	// Config is the requester's active source configuration. It is only
	// meaningful when HasConfig is set.
	Config    SourceConfig
	HasConfig bool

	// Targets is the requester's full history for Config.
	Targets []HistoryEntry

	// Mode is the direction as seen by the requester: Upload means the
	// requester pushes, Download means it pulls.
	Mode SyncMode

	// Force is true when the requester forced the sync.
	Force bool
}
