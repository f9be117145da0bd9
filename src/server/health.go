package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// HealthChecker reporta se as dependências do serviço respondem.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	if s.health != nil {
		if err := s.health.Ping(ctx); err != nil {
			s.logger.Error("Health check failed", "error", err)

			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"}) //nolint:errcheck
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"}) //nolint:errcheck
}
