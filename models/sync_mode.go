// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"strconv"
	"strings"
)

// SyncMode is the direction of history replication. It is persisted and sent
// over the wire as its ordinal.
type SyncMode int

const (
	// Bidirectional merges history both ways.
	Bidirectional SyncMode = 0

	// Upload pushes local history to the peer only.
	Upload SyncMode = 1

	// Download pulls the peer's history only. A forced download discards the
	// local history of the active source first.
	Download SyncMode = 2
)

// Valid reports whether m is one of the three known modes.
func (m SyncMode) Valid() bool {
	return m >= Bidirectional && m <= Download
}

// Next returns the mode that follows m in the fixed cycle
// Bidirectional → Upload → Download → Bidirectional.
func (m SyncMode) Next() SyncMode {
	if !m.Valid() {
		return Bidirectional
	}
	return (m + 1) % 3
}

func (m SyncMode) String() string {
	switch m {
	case Bidirectional:
		return "bidirectional"
	case Upload:
		return "upload"
	case Download:
		return "download"
	default:
		return "unknown(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseSyncMode parses the ordinal form used on the wire ("0", "1", "2").
func ParseSyncMode(s string) (SyncMode, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid sync mode %q: %w", s, err)
	}

	m := SyncMode(v)
	if !m.Valid() {
		return 0, fmt.Errorf("invalid sync mode %q: out of range", s)
	}

	return m, nil
}

// ParseSyncModeName accepts either a mode name ("upload") or its ordinal.
func ParseSyncModeName(s string) (SyncMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bidirectional", "both":
		return Bidirectional, nil
	case "upload":
		return Upload, nil
	case "download":
		return Download, nil
	}
	return ParseSyncMode(s)
}
