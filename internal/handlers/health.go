package handlers

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HealthHandler reports service and database health.
type HealthHandler struct {
	db      *sql.DB
	version string
}

// NewHealthHandler constructs a HealthHandler over the given connection.
func NewHealthHandler(db *sql.DB, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// HealthRouter registers the health route on the given router.
func HealthRouter(r chi.Router, db *sql.DB, version string) {
	handler := NewHealthHandler(db, version)
	r.Get("/", handler.Health)
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
}

// Health reports degraded rather than failing when the database is
// unreachable, so load balancers can tell the two conditions apart.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "online",
		Database: "connected",
		Version:  h.version,
	}

	if h.db == nil || h.db.PingContext(r.Context()) != nil {
		resp.Status = "degraded"
		resp.Database = "disconnected"
	}

	writeJSON(w, http.StatusOK, resp)
}
