// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SyncResponse is the body a peer answers a sync request with. Targets is
// empty for uploads; for downloads and bidirectional syncs it holds the
// peer's history for the requester's source, which the requester hands to its
// history store.
type SyncResponse struct {
	// Targets is the peer's history snapshot.
	Targets []HistoryEntry `json:"targets"`

	// Length is the number of entries in Targets.
	Length int `json:"length"`
}
