package update

import "sync"

// handle is the installer-facing half of a Descriptor. Callers outside
// the package never see it.
type handle struct {
	url       string
	signature string
}

// Descriptor is a release found by Check. It is consumed exactly once by
// Install and never persisted.
type Descriptor struct {
	Version string
	Body    *string
	Date    string

	handle handle
}

// UpdateInfo is the UI-facing projection of a Descriptor.
type UpdateInfo struct {
	Version string  `json:"version"`
	Body    *string `json:"body,omitempty"`
}

// Info strips the installer handle.
func (d *Descriptor) Info() *UpdateInfo {
	if d == nil {
		return nil
	}
	info := &UpdateInfo{Version: d.Version}
	if d.Body != nil {
		body := *d.Body
		info.Body = &body
	}
	return info
}

// Slot holds at most one pending Descriptor.
type Slot struct {
	mu sync.Mutex
	d  *Descriptor
}

// Store replaces the pending descriptor and reports whether one was
// already staged.
func (s *Slot) Store(d *Descriptor) (replaced bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	replaced = s.d != nil
	s.d = d
	return replaced
}

// Take removes and returns the pending descriptor, or nil.
func (s *Slot) Take() *Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.d
	s.d = nil
	return d
}

// Peek returns the projection of the pending descriptor without
// consuming it.
func (s *Slot) Peek() (*UpdateInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.d == nil {
		return nil, false
	}
	return s.d.Info(), true
}
