package update

import (
	"context"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/Mavwarf/deskshell/internal/httputil"
)

// maxArtifactSize bounds a downloaded release artifact.
const maxArtifactSize = 512 << 20

// Download fetches url into memory. onChunk, when set, is called after
// each read with the chunk size and the advertised content length (-1 if
// unknown); onFinish is called once the body is fully read.
func Download(ctx context.Context, client *http.Client, url string, header http.Header,
	onChunk func(n int, total int64), onFinish func()) ([]byte, error) {
	log.Debugf("starting download from %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", httputil.UserAgent())
	req.Header.Set("Accept", "application/octet-stream")

	if client == nil {
		client = httputil.Client
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Warnf("error closing response body: %v", cerr)
		}
	}()

	if err := httputil.CheckStatus(resp, "download"); err != nil {
		return nil, err
	}
	if resp.ContentLength > maxArtifactSize {
		return nil, fmt.Errorf("download: artifact is %d bytes, limit %d", resp.ContentLength, maxArtifactSize)
	}

	var data []byte
	if resp.ContentLength > 0 {
		data = make([]byte, 0, resp.ContentLength)
	}
	buf := make([]byte, 32*1024)
	body := io.LimitReader(resp.Body, maxArtifactSize+1)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			if onChunk != nil {
				onChunk(n, resp.ContentLength)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("download: read body: %w", err)
		}
	}
	if len(data) > maxArtifactSize {
		return nil, fmt.Errorf("download: artifact exceeds %d bytes", maxArtifactSize)
	}
	if onFinish != nil {
		onFinish()
	}

	log.Debugf("downloaded %d bytes from %s", len(data), url)
	return data, nil
}
