package logstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// HTTPStore uploads logs with a single HTTP PUT (or POST) per file.
type HTTPStore struct {
	client  *http.Client
	method  string
	headers map[string]string
	token   string
}

// HTTPConfig holds HTTPStore settings.
type HTTPConfig struct {
	Timeout     time.Duration
	Method      string            // PUT (default) or POST
	Headers     map[string]string // added to every request
	BearerToken string
}

// NewHTTPStore creates an HTTPStore.
func NewHTTPStore(cfg HTTPConfig) *HTTPStore {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	method := cfg.Method
	if method == "" {
		method = http.MethodPut
	}
	return &HTTPStore{
		client:  &http.Client{Timeout: timeout},
		method:  method,
		headers: cfg.Headers,
		token:   cfg.BearerToken,
	}
}

// Upload sends localPath to remote.
func (s *HTTPStore) Upload(ctx context.Context, localPath, remote string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("http store: open file: %w", err)
	}
	defer file.Close()

	// Get file size for Content-Length.
	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("http store: stat file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, s.method, remote, file)
	if err != nil {
		return fmt.Errorf("http store: create request: %w", err)
	}
	req.ContentLength = stat.Size()
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("http store: request failed: %w", err)
	}
	defer resp.Body.Close()

	// Accept 2xx status codes.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if len(body) > 0 {
			return fmt.Errorf("http store: HTTP %d: %s", resp.StatusCode, body)
		}
		return fmt.Errorf("http store: HTTP %d", resp.StatusCode)
	}
	return nil
}
