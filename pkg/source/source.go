// Package source opens the external collaborators the pipelines read from:
// the remote collection endpoint and the local JSON snapshot files.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const userAgent = "rmetl/1.0"

// NewHTTPClient returns the client used for page retrieval. A zero timeout means none.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// Get issues one GET and returns the body of a 2xx response.
// The caller must close the returned body.
func Get(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	return resp.Body, nil
}

// Snapshot is an open snapshot file decoded as UTF-8 with any leading BOM removed.
type Snapshot struct {
	io.Reader
	f *os.File
}

func (s *Snapshot) Close() error {
	return s.f.Close()
}

// OpenSnapshot opens a local JSON snapshot for reading.
func OpenSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot '%s': %w", path, err)
	}
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return &Snapshot{Reader: transform.NewReader(f, dec), f: f}, nil
}
