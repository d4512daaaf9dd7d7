package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/me/nfisoseq/pkg/model"
)

// handleProvision creates a volume for the calling execution. Repeated
// requests with the same token return the volume already created for it.
func (s *Server) handleProvision(w http.ResponseWriter, r *http.Request) {
	token := ExecutionTokenFromContext(r.Context())

	req := model.ProvisionRequest{StorageGiB: model.DefaultStorageGiB}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, model.NewValidationError("invalid JSON body: "+err.Error()))
		return
	}
	if req.StorageGiB <= 0 {
		respondError(w, http.StatusBadRequest, model.NewValidationError("invalid request",
			model.FieldError{Field: "storage_gib", Message: "must be a positive integer"}))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.volumes[token]; ok {
		respondJSON(w, http.StatusOK, model.Volume{Name: v.Name})
		return
	}

	v, err := s.createVolume(req.StorageGiB)
	if err != nil {
		s.logger.Error("volume creation failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		respondError(w, http.StatusInternalServerError, &model.APIError{Code: model.ErrInternal, Message: err.Error()})
		return
	}
	s.volumes[token] = v
	s.metrics.volumes.Inc()
	s.logger.Info("volume provisioned", "name", v.Name, "path", v.Path, "storage_gib", v.StorageGiB)
	respondJSON(w, http.StatusOK, model.Volume{Name: v.Name})
}

func (s *Server) createVolume(storageGiB int) (volume, error) {
	if s.config.Root == "" {
		return volume{}, errors.New("volume root is not configured")
	}
	name := "pvc-" + uuid.New().String()[:8]
	path := filepath.Join(s.config.Root, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return volume{}, fmt.Errorf("create volume %s: %w", name, err)
	}
	return volume{Name: name, Path: path, StorageGiB: storageGiB, Created: time.Now()}, nil
}
