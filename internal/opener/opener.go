// Package opener hands links from the web UI to the system browser or
// mail client.
package opener

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/skratchdot/open-golang/open"
)

// ErrScheme is returned for URLs the shell refuses to open.
var ErrScheme = errors.New("only http, https and mailto links can be opened")

// run is replaced in tests.
var run = open.Run

// OpenURL validates raw and opens it with the default handler.
func OpenURL(raw string) error {
	u, err := Validate(raw)
	if err != nil {
		return err
	}
	if err := run(u.String()); err != nil {
		return fmt.Errorf("open %s: %w", u.Redacted(), err)
	}
	return nil
}

// Validate parses raw and checks its scheme.
func Validate(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid link %q: %w", raw, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return nil, fmt.Errorf("invalid link %q: missing host", raw)
		}
	case "mailto":
		if u.Opaque == "" && u.Path == "" {
			return nil, fmt.Errorf("invalid link %q: missing address", raw)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrScheme, raw)
	}
	return u, nil
}
