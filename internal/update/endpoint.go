package update

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildEndpoint returns {server}/api/updates/{target}/{arch}/{current} with
// trailing slashes stripped from server. The result must be an absolute
// http or https URL.
func BuildEndpoint(server, target, arch, current string) (*url.URL, error) {
	base := strings.TrimRight(strings.TrimSpace(server), "/")
	raw := base + "/api/updates/" + url.PathEscape(target) + "/" +
		url.PathEscape(arch) + "/" + url.PathEscape(current)

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidURL, server, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q: scheme must be http or https", ErrInvalidURL, server)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q: missing host", ErrInvalidURL, server)
	}
	return u, nil
}
