package execution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// NameResolver determines the unique human-readable name of the execution.
// ok is false when the name cannot be obtained; that is never an error.
type NameResolver interface {
	ExecutionName(ctx context.Context, ec Context) (name string, ok bool)
}

// NameResolverFunc adapts a function to NameResolver.
type NameResolverFunc func(ctx context.Context, ec Context) (string, bool)

// ExecutionName calls f.
func (f NameResolverFunc) ExecutionName(ctx context.Context, ec Context) (string, bool) {
	return f(ctx, ec)
}

// StaticNameResolver returns the name already present on the Context.
type StaticNameResolver struct{}

// ExecutionName returns ec.Name.
func (StaticNameResolver) ExecutionName(_ context.Context, ec Context) (string, bool) {
	return ec.Name, ec.Name != ""
}

// ChainNameResolver tries resolvers in order and returns the first name found.
type ChainNameResolver []NameResolver

// ExecutionName walks the chain.
func (c ChainNameResolver) ExecutionName(ctx context.Context, ec Context) (string, bool) {
	for _, r := range c {
		if name, ok := r.ExecutionName(ctx, ec); ok {
			return name, true
		}
	}
	return "", false
}

// HTTPNameResolver asks a platform endpoint for the execution name. The
// request is authenticated with the execution token and the endpoint must
// answer {"name": "..."}.
type HTTPNameResolver struct {
	URL    string
	Client *http.Client
	Logger *slog.Logger
}

// NewHTTPNameResolver creates a resolver for url.
func NewHTTPNameResolver(url string, logger *slog.Logger) *HTTPNameResolver {
	return &HTTPNameResolver{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
		Logger: logger.With("component", "name-resolver"),
	}
}

// ExecutionName performs the lookup. All failures degrade to ok=false.
func (r *HTTPNameResolver) ExecutionName(ctx context.Context, ec Context) (string, bool) {
	if r.URL == "" || ec.Token() == "" {
		return "", false
	}
	name, err := r.lookup(ctx, ec)
	if err != nil {
		r.Logger.Debug("execution name lookup failed", "url", r.URL, "error", err)
		return "", false
	}
	return name, true
}

func (r *HTTPNameResolver) lookup(ctx context.Context, ec Context) (string, error) {
	body, err := json.Marshal(map[string]string{"token": ec.Token()})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", ec.Authorization())

	resp, err := r.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var out struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	name := strings.TrimSpace(out.Name)
	if name == "" {
		return "", fmt.Errorf("empty name")
	}
	return name, nil
}
