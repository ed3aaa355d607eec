// Package workers runs the long-lived goroutines of the application and
// waits for them to finish.
package workers

import "context"

// Worker is a long-running task. Run blocks until ctx is cancelled or the
// work ends on its own.
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a plain function to [Worker].
type WorkerFunc func(ctx context.Context) error

func (f WorkerFunc) Run(ctx context.Context) error { return f(ctx) }
