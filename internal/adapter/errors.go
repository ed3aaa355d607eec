package adapter

import "errors"

// Sentinel errors mapped from peer HTTP status codes by mapHTTPError.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("peer refused: unauthorized")
	ErrForbidden           = errors.New("peer refused: forbidden")
	ErrNotFound            = errors.New("peer endpoint not found")
	ErrConflict            = errors.New("peer reported a conflict")
	ErrInternalServerError = errors.New("peer internal error")
	ErrBadGateway          = errors.New("bad gateway")
)

var (
	// ErrInvalidAddress is returned when a device address cannot be turned
	// into a base URL.
	ErrInvalidAddress = errors.New("invalid peer address")

	// ErrNotAPeer is returned by Probe when the host does not answer the
	// discovery handshake like an instance of this application.
	ErrNotAPeer = errors.New("host is not a peer")
)
