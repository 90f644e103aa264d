package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDownload(t *testing.T) {
	body := strings.Repeat("x", 100*1024)
	var gotUA, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	var chunked int
	finished := 0
	header := http.Header{"Authorization": {"Bearer t"}}
	data, err := Download(context.Background(), srv.Client(), srv.URL+"/a.tar.gz", header,
		func(n int, _ int64) { chunked += n },
		func() { finished++ })
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != body {
		t.Errorf("downloaded %d bytes, want %d", len(data), len(body))
	}
	if chunked != len(body) {
		t.Errorf("onChunk total = %d, want %d", chunked, len(body))
	}
	if finished != 1 {
		t.Errorf("onFinish called %d times", finished)
	}
	if !strings.HasPrefix(gotUA, "deskshell/") {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotAuth != "Bearer t" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestDownloadErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	_, err := Download(context.Background(), nil, srv.URL, nil, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "410") {
		t.Errorf("Download error = %v, want status 410", err)
	}
}

func TestDownloadCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Download(ctx, nil, srv.URL, nil, nil, nil); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestArtifactName(t *testing.T) {
	tests := map[string]string{
		"https://cdn.example.com/r/deskshell.AppImage.tar.gz":  "deskshell.AppImage.tar.gz",
		"https://cdn.example.com/r/setup.msi?token=abc":        "setup.msi",
		"https://cdn.example.com/r/Deskshell%20Setup.exe#frag": "Deskshell Setup.exe",
	}
	for in, want := range tests {
		if got := artifactName(in); got != want {
			t.Errorf("artifactName(%q) = %q, want %q", in, got, want)
		}
	}
}
