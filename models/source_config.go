// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "encoding/json"

// SourceConfig is the content source configuration the history belongs to.
// It travels as the `config` field of a sync request so the peer can file
// received history under the same source.
type SourceConfig struct {
	ID   int             `json:"id"`
	Name string          `json:"name"`
	URL  string          `json:"url"`
	Data json.RawMessage `json:"json,omitempty"`
}
