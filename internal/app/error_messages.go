// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used by the peer
// endpoint and by the adapter that talks to it.
//
// All Msg* constants are human-readable message strings written into HTTP
// response bodies. A peer answering with one of them gets it back verbatim
// in the failure message of its sync outcome.
package app

const (
	// MsgInvalidSyncRequest is returned when the query or form of a sync
	// request cannot be decoded (bad mode, unsupported type, malformed JSON).
	MsgInvalidSyncRequest = "invalid sync request"

	// MsgInvalidDataProvided is returned when a decoded sync request fails
	// validation (e.g. a history entry without a key).
	MsgInvalidDataProvided = "invalid data provided"

	// MsgApplySyncFailed is returned when the local history could not be
	// updated with the incoming entries.
	MsgApplySyncFailed = "error applying sync request"

	// MsgIdentityUnavailable is returned by the discovery handshake when the
	// local identity cannot be read.
	MsgIdentityUnavailable = "error reading local identity"

	// MsgUnknownAction is returned when the do query parameter names no
	// known action.
	MsgUnknownAction = "unknown action"

	// MsgNoAddressProvided is returned when a pairing request has no
	// address form field.
	MsgNoAddressProvided = "no address provided"

	// MsgPairingFailed is returned when the announced address could not be
	// paired with.
	MsgPairingFailed = "pairing failed"

	// MsgInternalServerError is returned when an unexpected failure occurs
	// that the requester cannot resolve.
	MsgInternalServerError = "internal server error"
)
