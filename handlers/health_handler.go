package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	databases map[string]Pinger
	timeout   time.Duration
}

func NewHealthHandler(databases map[string]Pinger, timeout time.Duration) *HealthHandler {
	return &HealthHandler{databases: databases, timeout: timeout}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.databases))
	for name, db := range h.databases {
		if err := db.PingContext(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	if err := writeJSON(w, status, jsonResponse{"databases": checks}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
