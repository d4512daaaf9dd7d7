// Package provision requests shared storage volumes from the cluster-local
// provisioning service.
package provision

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

	"github.com/google/uuid"
	"github.com/me/nfisoseq/internal/execution"
	"github.com/me/nfisoseq/pkg/model"
)

// DefaultURL is the in-cluster provisioning endpoint.
const DefaultURL = "http://nf-dispatcher-service.flyte.svc.cluster.local/provision-storage"

// Provisioner hands out shared volumes.
type Provisioner interface {
	Provision(ctx context.Context, ec execution.Context) (model.Volume, error)
}

// Client talks to the provisioning service. It never retries: any failure
// is fatal for the step.
type Client struct {
	url        string
	storageGiB int
	httpClient *http.Client
	logger     *slog.Logger
}

// Config holds Client settings.
type Config struct {
	URL        string
	StorageGiB int
	Timeout    time.Duration
}

// NewClient creates a provisioning client. Zero fields in cfg take defaults.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.StorageGiB <= 0 {
		cfg.StorageGiB = model.DefaultStorageGiB
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		url:        cfg.URL,
		storageGiB: cfg.StorageGiB,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("component", "provisioner"),
	}
}

// Provision requests a volume for the execution identified by ec.
// A missing token is a ConfigurationError raised before any request is made;
// every other failure is a ProvisioningError.
func (c *Client) Provision(ctx context.Context, ec execution.Context) (model.Volume, error) {
	if err := ec.Validate(); err != nil {
		return model.Volume{}, err
	}

	body, err := json.Marshal(model.ProvisionRequest{StorageGiB: c.storageGiB})
	if err != nil {
		return model.Volume{}, &execution.ProvisioningError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return model.Volume{}, &execution.ProvisioningError{Err: fmt.Errorf("create request: %w", err)}
	}
	reqID := "req_" + uuid.New().String()[:8]
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", ec.Authorization())
	req.Header.Set("X-Request-ID", reqID)

	c.logger.Info("provisioning shared storage volume", "url", c.url, "storage_gib", c.storageGiB, "request_id", reqID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Volume{}, &execution.ProvisioningError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return model.Volume{}, &execution.ProvisioningError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("provisioning response", "status", resp.StatusCode, "body", string(respBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.Volume{}, &execution.ProvisioningError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	var vol model.Volume
	if err := json.Unmarshal(respBody, &vol); err != nil {
		return model.Volume{}, &execution.ProvisioningError{StatusCode: resp.StatusCode, Err: fmt.Errorf("parse response: %w", err)}
	}
	if vol.Name == "" {
		return model.Volume{}, &execution.ProvisioningError{StatusCode: resp.StatusCode, Err: execution.ErrEmptyVolumeName}
	}

	c.logger.Info("provisioned shared storage volume", "volume", vol.Name)
	return vol, nil
}
