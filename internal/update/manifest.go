package update

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// manifest is the release document served with a 200. Servers send
// either url/signature at the top level or one entry per platform.
type manifest struct {
	Version   string                   `json:"version"`
	Notes     *string                  `json:"notes"`
	PubDate   string                   `json:"pub_date"`
	URL       string                   `json:"url"`
	Signature string                   `json:"signature"`
	Platforms map[string]platformEntry `json:"platforms"`
}

type platformEntry struct {
	URL       string `json:"url"`
	Signature string `json:"signature"`
}

// parseManifest decodes data and selects the artifact for target-arch.
func parseManifest(data []byte, target, arch string) (*Descriptor, error) {
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if strings.TrimSpace(m.Version) == "" {
		return nil, errors.New("manifest has no version")
	}

	h := handle{url: m.URL, signature: m.Signature}
	if len(m.Platforms) > 0 {
		key := target + "-" + arch
		p, ok := m.Platforms[key]
		if !ok {
			return nil, fmt.Errorf("manifest has no artifact for %s", key)
		}
		h = handle{url: p.URL, signature: p.Signature}
	}
	if h.url == "" {
		return nil, errors.New("manifest has no artifact url")
	}

	return &Descriptor{
		Version: strings.TrimPrefix(strings.TrimSpace(m.Version), "v"),
		Body:    m.Notes,
		Date:    m.PubDate,
		handle:  h,
	}, nil
}
