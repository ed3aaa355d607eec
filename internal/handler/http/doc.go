// Package http implements the peer endpoint other instances talk to.
//
// It exposes the discovery handshake (GET /device), the sync and pairing
// actions (POST /action?do=...) and a version probe. Cross-cutting concerns
// such as request tracing, access logging and response compression are
// handled in this package before requests are delegated to the service layer.
package http
