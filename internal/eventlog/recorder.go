package eventlog

import (
	log "github.com/sirupsen/logrus"
)

// Recorder adapts a Store to the callbacks used by the update coordinator
// and the leave beacon. Write failures are logged and otherwise ignored.
type Recorder struct {
	Store Store
}

// NewRecorder returns a Recorder writing to s. A nil store records nothing.
func NewRecorder(s Store) *Recorder {
	return &Recorder{Store: s}
}

// CheckFinished records the outcome of an update check. An empty version
// with a nil error means the client is up to date.
func (r *Recorder) CheckFinished(server, version string, err error) {
	if r == nil || r.Store == nil {
		return
	}
	if err != nil {
		warn(r.Store.LogCheckFailed(server, err))
		return
	}
	warn(r.Store.LogCheck(server, version))
}

// InstallFinished records the outcome of an install attempt.
func (r *Recorder) InstallFinished(version string, err error) {
	if r == nil || r.Store == nil {
		return
	}
	if err != nil {
		warn(r.Store.LogInstallFailed(version, err))
		return
	}
	warn(r.Store.LogInstall(version))
}

// LeaveSent records that a leave beacon was dispatched to server.
func (r *Recorder) LeaveSent(server string) {
	if r == nil || r.Store == nil {
		return
	}
	warn(r.Store.LogLeave(server))
}

func warn(err error) {
	if err != nil {
		log.Warnf("eventlog: %v", err)
	}
}
