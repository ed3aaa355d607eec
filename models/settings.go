// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// DefaultSyncIntervalMinutes is used when no interval was ever chosen.
const DefaultSyncIntervalMinutes = 30

// SyncIntervals lists the periods, in minutes, a user may pick between
// automatic sync cycles.
var SyncIntervals = []int{10, 30, 60, 120}

// ValidInterval reports whether minutes is one of [SyncIntervals].
func ValidInterval(minutes int) bool {
	for _, v := range SyncIntervals {
		if v == minutes {
			return true
		}
	}
	return false
}

// Settings is the persisted sync configuration owned by the settings store.
type Settings struct {
	Mode            SyncMode `json:"sync_mode"`
	AutoSync        bool     `json:"auto_sync"`
	IntervalMinutes int      `json:"sync_interval_minutes"`
}
