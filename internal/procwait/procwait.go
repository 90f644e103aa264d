// Package procwait blocks until another process exits. A relaunched
// deskshell uses it to wait for the instance it replaced.
package procwait

import "errors"

// ErrNotFound is returned when the process does not exist at the start
// of the wait. For a relaunch this means the predecessor is already gone.
var ErrNotFound = errors.New("process not found")
