package handlers

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/db"
	"github.com/diewo77/go-backoffice/internal/httpx"
)

type HealthHandler struct {
	db      *gorm.DB
	started time.Time
}

func NewHealthHandler(gdb *gorm.DB) *HealthHandler {
	return &HealthHandler{db: gdb, started: time.Now()}
}

// Health answers as long as the process is up.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, httpx.Status{
		State:  "ok",
		Uptime: time.Since(h.started).Round(time.Second).String(),
	})
}

// Healthz reports readiness; it fails when the database does not answer.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := db.Ping(r.Context(), h.db); err != nil {
		httpx.WriteJSON(w, http.StatusServiceUnavailable, httpx.Status{
			State:  "unavailable",
			Checks: map[string]string{"db": err.Error()},
		})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Status{State: "ok", Checks: map[string]string{"db": "ok"}})
}
