package procwait

import (
	"context"
	"fmt"

	"golang.org/x/sys/windows"
)

// sliceMillis bounds each kernel wait so ctx is honoured.
const sliceMillis = 100

// Wait blocks until the process with the given PID exits or ctx is done.
// Uses OpenProcess(SYNCHRONIZE) + WaitForSingleObject in short slices.
// Returns ErrNotFound if the process can't be opened.
func Wait(ctx context.Context, pid int) error {
	h, err := windows.OpenProcess(windows.SYNCHRONIZE, false, uint32(pid))
	if err != nil {
		return fmt.Errorf("process %d: %w: %v", pid, ErrNotFound, err)
	}
	defer windows.CloseHandle(h)

	for {
		event, err := windows.WaitForSingleObject(h, sliceMillis)
		if err != nil {
			return fmt.Errorf("waiting for process %d: %w", pid, err)
		}
		switch event {
		case windows.WAIT_OBJECT_0:
			return nil
		case uint32(windows.WAIT_TIMEOUT):
		default:
			return fmt.Errorf("unexpected wait result for process %d: %d", pid, event)
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("waiting for process %d: %w", pid, err)
		}
	}
}
