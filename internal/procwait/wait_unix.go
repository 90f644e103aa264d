//go:build linux || darwin

package procwait

import (
	"context"
	"fmt"
	"syscall"
	"time"
)

const pollInterval = 100 * time.Millisecond

// Wait blocks until the process with the given PID exits or ctx is done.
// Polls with syscall.Kill(pid, 0). Signal 0 doesn't send a signal; it
// just checks whether the process exists. Returns ErrNotFound immediately
// if the process doesn't exist at the start.
func Wait(ctx context.Context, pid int) error {
	// Check that the process exists before entering the poll loop.
	if err := syscall.Kill(pid, 0); err != nil {
		return fmt.Errorf("process %d: %w: %v", pid, ErrNotFound, err)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for process %d: %w", pid, ctx.Err())
		case <-ticker.C:
			if err := syscall.Kill(pid, 0); err != nil {
				return nil // process exited
			}
		}
	}
}
