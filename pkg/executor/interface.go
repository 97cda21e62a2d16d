package executor

import "context"

// Executor defines the interface for executing external commands
type Executor interface {
	// Execute runs the command and returns its stdout.
	Execute(ctx context.Context, name string, args ...string) (string, error)
	// Stream runs the command and calls onLine for every stdout line as it
	// is produced. It returns once the process has exited and every line has
	// been delivered.
	Stream(ctx context.Context, name string, args []string, onLine func(line string)) error
}
