package server

import (
	"net/http"
	"time"

	"github.com/me/nfisoseq/pkg/model"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n := len(s.volumes)
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, model.HealthResponse{
		Status:  "healthy",
		Volumes: n,
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
	})
}
