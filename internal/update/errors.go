package update

import "errors"

// Sentinel errors returned (wrapped) by the Coordinator. Use errors.Is.
var (
	ErrInvalidURL        = errors.New("invalid update server URL")
	ErrNetworkOrServer   = errors.New("update server unreachable or returned an error")
	ErrNoPendingUpdate   = errors.New("no pending update")
	ErrDownloadOrInstall = errors.New("update download or install failed")
)
