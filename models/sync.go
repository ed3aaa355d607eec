// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// OutcomeKind classifies the result of one sync exchange.
type OutcomeKind int

const (
	// OutcomeSuccess means the peer answered with a success-class response.
	OutcomeSuccess OutcomeKind = iota

	// OutcomeUnreachable means no connection could be established
	// (refused, host down, DNS failure, any other transport error).
	OutcomeUnreachable

	// OutcomeTimeout means the exchange did not finish within the fixed
	// request timeout.
	OutcomeTimeout

	// OutcomeMalformedResponse means the peer answered 2xx with a body that
	// could not be decoded.
	OutcomeMalformedResponse

	// OutcomeRejected means the peer answered with a non-success status, or
	// the sync was refused locally (forced sync in bidirectional mode).
	OutcomeRejected
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeUnreachable:
		return "unreachable"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeMalformedResponse:
		return "malformed_response"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// SyncOutcome is the named result of a sync attempt. Failures carry a
// human-readable Message suitable for showing to the user.
type SyncOutcome struct {
	Kind    OutcomeKind
	Message string

	// Response is the decoded peer answer. It is set only on success.
	Response SyncResponse

	// Applied is the number of received history entries handed to the local
	// history store.
	Applied int
}

// OK reports whether the outcome is a success.
func (o SyncOutcome) OK() bool {
	return o.Kind == OutcomeSuccess
}

// Succeeded builds a success outcome.
func Succeeded(resp SyncResponse) SyncOutcome {
	return SyncOutcome{Kind: OutcomeSuccess, Response: resp}
}

// Failed builds a failure outcome of the given kind.
func Failed(kind OutcomeKind, message string) SyncOutcome {
	return SyncOutcome{Kind: kind, Message: message}
}
