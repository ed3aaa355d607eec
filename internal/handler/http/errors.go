// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors returned while decoding /action requests. Callers can match
// against them with [errors.Is].
var (
	// ErrUnknownAction is returned when the "do" query parameter names no
	// supported action.
	ErrUnknownAction = errors.New("unknown action")

	// ErrUnsupportedType is returned when a sync request asks for anything
	// other than history.
	ErrUnsupportedType = errors.New("unsupported sync type")

	// ErrInvalidMode is returned when the "mode" query parameter is not 0, 1 or 2.
	ErrInvalidMode = errors.New("invalid sync mode")

	// ErrInvalidFormField is returned when a form field holds malformed JSON.
	ErrInvalidFormField = errors.New("invalid form field")

	// ErrMissingFormField is returned when a required form field is absent.
	ErrMissingFormField = errors.New("missing form field")
)
