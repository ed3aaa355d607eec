// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the outbound side of the peer protocol.
//
// [PeerAdapter] sends sync requests to other instances and performs the
// discovery handshake used by the network scanner. The HTTP implementation
// ([NewHTTPPeerAdapter]) is built on resty; peer status codes are mapped to
// the sentinel errors in errors.go and then to [models.SyncOutcome] values so
// that callers never see raw transport errors.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-lan-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/peer_adapter_mock.go -package=mock

// PeerAdapter talks to one remote instance per call.
type PeerAdapter interface {
	// Send performs one sync exchange with target and classifies the result.
	// It never returns a raw error: every failure is a non-success outcome.
	// The exchange is bounded by the configured request timeout.
	Send(ctx context.Context, target models.Device, req models.SyncRequest) models.SyncOutcome

	// Probe performs the discovery handshake against address. It returns the
	// device announced by the peer, or an error wrapping [ErrNotAPeer].
	Probe(ctx context.Context, address string) (models.Device, error)
}
