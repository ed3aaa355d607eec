// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Device is a peer instance of the application reachable on the local
// network. Address is the identity of the device: the registry keeps at most
// one entry per address and later discoveries update Name and LastSeen in
// place.
type Device struct {
	// Address is the base URL of the peer endpoint
	// (e.g. "http://192.168.1.5:9978"). A bare host is accepted and
	// normalised by the adapter.
	Address string `json:"ip"`

	// Name is the human-readable display name announced by the peer.
	Name string `json:"name"`

	// LastSeen is the moment the device was last discovered or paired.
	LastSeen time.Time `json:"last_seen"`
}

// Identity describes the local instance. It is sent as the `device` field of
// every sync request and returned by the discovery handshake.
type Identity struct {
	// ID is a random UUID generated once per installation.
	ID string `json:"uuid"`

	// Name is the display name other peers show for this device.
	Name string `json:"name"`

	// Address is the base URL peers use to reach this instance.
	Address string `json:"ip"`

	// Type is a free-form device class (e.g. "tv", "mobile", "desktop").
	Type string `json:"type"`
}

// Device converts the identity of a remote peer into a registry record.
func (i Identity) Device(seenAt time.Time) Device {
	return Device{Address: i.Address, Name: i.Name, LastSeen: seenAt}
}
