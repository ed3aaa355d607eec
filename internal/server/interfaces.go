package server

// Server defines the lifecycle contract of the peer endpoint.
//
// Implementations block in [RunServer] until a stop signal arrives or
// [Shutdown] is called.
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server and frees associated resources.
	// It is safe to call more than once.
	Shutdown()

	// Addr is the address the server listens on.
	Addr() string
}
