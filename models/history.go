// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "encoding/json"

// HistoryEntry is one playback history record. The sync engine never
// interprets it: it only ships the full set for the active source and hands
// received entries back to the history store, which owns merge rules.
type HistoryEntry struct {
	// Key identifies the watched item within its source.
	Key string `json:"key"`

	// SourceID is the id of the content source the entry belongs to.
	SourceID int `json:"cid"`

	// Name is the title shown to the user.
	Name string `json:"vodName,omitempty"`

	// Position is the playback position in milliseconds.
	Position int64 `json:"position"`

	// Duration is the total length in milliseconds, zero when unknown.
	Duration int64 `json:"duration"`

	// UpdatedAt is the unix time in milliseconds of the last change. The
	// history store keeps the newer entry when two copies meet.
	UpdatedAt int64 `json:"createTime"`

	// Data carries any further fields verbatim.
	Data json.RawMessage `json:"data,omitempty"`
}
