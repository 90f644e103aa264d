package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Mavwarf/deskshell/internal/update"
)

// setupEnv points the data dir at a temp dir and writes a config that logs
// to the console and keeps history in a flat file.
func setupEnv(t *testing.T, server string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("APPDATA", dir)
	t.Setenv("DESKSHELL_UPDATE_SERVER", "")
	cfg := map[string]any{
		"update":  map[string]any{"server": server},
		"log":     map[string]any{"level": "error", "file": "console"},
		"storage": "file",
	}
	data, _ := json.Marshal(cfg)
	path := filepath.Join(dir, "deskshell-config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "deskshell ") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestCheckUpToDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	cfg := setupEnv(t, srv.URL)

	out, err := runCLI(t, "check", "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "is up to date") {
		t.Errorf("unexpected output %q", out)
	}

	out, err = runCLI(t, "history", "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "total") {
		t.Errorf("history should list the check:\n%s", out)
	}
}

func TestCheckUpdateAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"version":"9.1.0","notes":"Faster startup","url":"https://example.com/a.tar.gz","signature":"sig"}`)
	}))
	defer srv.Close()
	cfg := setupEnv(t, srv.URL)

	out, err := runCLI(t, "check", "-c", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Update available: 9.1.0") || !strings.Contains(out, "Faster startup") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestCheckNoServer(t *testing.T) {
	cfg := setupEnv(t, "")
	if _, err := runCLI(t, "check", "--config", cfg); err != errNoServer {
		t.Errorf("err = %v, want errNoServer", err)
	}
}

func TestCheckServerFlagOverridesConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	cfg := setupEnv(t, "")

	if _, err := runCLI(t, "check", "--config", cfg, "--server", srv.URL); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateRequiresTerminalOrYes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"version":"9.1.0","url":"https://example.com/a.tar.gz","signature":"sig"}`)
	}))
	defer srv.Close()
	cfg := setupEnv(t, srv.URL)
	orig := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdinIsTerminal = orig })

	_, err := runCLI(t, "update", "--config", cfg)
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Errorf("err = %v, want hint about --yes", err)
	}
}

func TestUpdateDeclined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"version":"9.1.0","url":"https://example.com/a.tar.gz","signature":"sig"}`)
	}))
	defer srv.Close()
	cfg := setupEnv(t, srv.URL)
	orig := stdinIsTerminal
	stdinIsTerminal = func() bool { return true }
	t.Cleanup(func() { stdinIsTerminal = orig })

	out, err := runCLI(t, "update", "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Update skipped.") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestUpdateYesWithoutKeyFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"version":"9.1.0","url":"https://example.com/a.tar.gz","signature":"sig"}`)
	}))
	defer srv.Close()
	cfg := setupEnv(t, srv.URL)

	_, err := runCLI(t, "update", "--config", cfg, "--yes")
	if err == nil || !strings.Contains(err.Error(), "signing key") {
		t.Errorf("err = %v, want missing signing key", err)
	}
}

func TestSessionCommands(t *testing.T) {
	cfg := setupEnv(t, "")

	out, err := runCLI(t, "session", "show", "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No session stored.") {
		t.Errorf("show before set = %q", out)
	}

	if _, err := runCLI(t, "session", "set", "tok-abcdefghijklmnop", "https://chat.example.com", "--config", cfg); err != nil {
		t.Fatal(err)
	}
	out, err = runCLI(t, "session", "show", "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "https://chat.example.com") || !strings.Contains(out, "tok-...mnop") {
		t.Errorf("show after set = %q", out)
	}

	if _, err := runCLI(t, "session", "clear", "--config", cfg); err != nil {
		t.Fatal(err)
	}
	out, _ = runCLI(t, "session", "show", "--config", cfg)
	if !strings.Contains(out, "No session stored.") {
		t.Errorf("show after clear = %q", out)
	}
}

func TestSessionSetRejectsBadServer(t *testing.T) {
	cfg := setupEnv(t, "")
	if _, err := runCLI(t, "session", "set", "tok", "ftp://host", "--config", cfg); err == nil {
		t.Error("expected error for non-http server")
	}
}

func TestLeaveSendsBeacon(t *testing.T) {
	var (
		mu   sync.Mutex
		got  map[string]string
		path string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	cfg := setupEnv(t, "")

	if _, err := runCLI(t, "session", "set", "tok-1", srv.URL+"/", "--config", cfg); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, "leave", "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Leave beacon sent") {
		t.Errorf("unexpected output %q", out)
	}

	mu.Lock()
	defer mu.Unlock()
	if path != "/api/events/leave" {
		t.Errorf("path = %q", path)
	}
	if got["token"] != "tok-1" {
		t.Errorf("token = %q", got["token"])
	}
}

func TestLeaveWithoutSession(t *testing.T) {
	cfg := setupEnv(t, "")
	if _, err := runCLI(t, "leave", "--config", cfg); err == nil {
		t.Error("expected error without a session")
	}
}

func TestHistoryEmptyAndClean(t *testing.T) {
	cfg := setupEnv(t, "")

	out, err := runCLI(t, "history", "--config", cfg, "--days", "3")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No activity in the last 3 days.") {
		t.Errorf("unexpected output %q", out)
	}

	out, err = runCLI(t, "history", "clean", "5", "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Removed 0 entries") {
		t.Errorf("unexpected output %q", out)
	}

	if _, err := runCLI(t, "history", "clean", "zero", "--config", cfg); err == nil {
		t.Error("expected error for bad days")
	}
	if _, err := runCLI(t, "history", "clear", "--config", cfg); err != nil {
		t.Fatal(err)
	}
}

func TestParseAnswer(t *testing.T) {
	for _, s := range []string{"y", "Y", "yes", " YES \n"} {
		if !parseAnswer(s) {
			t.Errorf("parseAnswer(%q) = false", s)
		}
	}
	for _, s := range []string{"", "n", "no", "yep", "\n"} {
		if parseAnswer(s) {
			t.Errorf("parseAnswer(%q) = true", s)
		}
	}
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	if !confirm(strings.NewReader("yes\n"), &out, "Install?") {
		t.Error("confirm should accept yes")
	}
	if out.String() != "Install? [y/N] " {
		t.Errorf("prompt = %q", out.String())
	}
	if confirm(strings.NewReader(""), &out, "Install?") {
		t.Error("confirm should decline on EOF")
	}
}

func TestPrintUpdateInfo(t *testing.T) {
	var b bytes.Buffer
	printUpdateInfo(&b, "1.0.0", nil)
	if b.String() != "deskshell 1.0.0 is up to date.\n" {
		t.Errorf("got %q", b.String())
	}

	b.Reset()
	notes := "  Bug fixes\n"
	printUpdateInfo(&b, "1.0.0", &update.UpdateInfo{Version: "1.1.0", Body: &notes})
	want := "Update available: 1.1.0 (current 1.0.0)\n\nBug fixes\n"
	if b.String() != want {
		t.Errorf("got %q, want %q", b.String(), want)
	}
}

func TestMaskToken(t *testing.T) {
	if got := maskToken("short"); got != "short" {
		t.Errorf("maskToken(short) = %q", got)
	}
	if got := maskToken("abcd0123456789wxyz"); got != "abcd...wxyz" {
		t.Errorf("maskToken = %q", got)
	}
}
