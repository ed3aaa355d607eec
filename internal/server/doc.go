// Package server runs the peer endpoint.
//
// It owns the HTTP server lifecycle: startup, signal handling and graceful
// shutdown.
package server
