package update

import (
	"errors"
	"testing"
)

func TestBuildEndpoint(t *testing.T) {
	tests := []struct {
		server string
		want   string
	}{
		{"https://app.example.com", "https://app.example.com/api/updates/linux/x86_64/1.0.0"},
		{"https://app.example.com/", "https://app.example.com/api/updates/linux/x86_64/1.0.0"},
		{"https://app.example.com///", "https://app.example.com/api/updates/linux/x86_64/1.0.0"},
		{"http://localhost:8080/base/", "http://localhost:8080/base/api/updates/linux/x86_64/1.0.0"},
		{"  https://app.example.com  ", "https://app.example.com/api/updates/linux/x86_64/1.0.0"},
	}
	for _, tt := range tests {
		u, err := BuildEndpoint(tt.server, "linux", "x86_64", "1.0.0")
		if err != nil {
			t.Errorf("BuildEndpoint(%q): %v", tt.server, err)
			continue
		}
		if got := u.String(); got != tt.want {
			t.Errorf("BuildEndpoint(%q) = %q, want %q", tt.server, got, tt.want)
		}
	}
}

func TestBuildEndpointInvalid(t *testing.T) {
	for _, server := range []string{"", "not a url", "ftp://files.example.com", "https://", "://bad", "app.example.com"} {
		if _, err := BuildEndpoint(server, "linux", "x86_64", "1.0.0"); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("BuildEndpoint(%q) error = %v, want ErrInvalidURL", server, err)
		}
	}
}
