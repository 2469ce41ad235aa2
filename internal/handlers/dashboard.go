package handlers

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/services"
)

const dashboardListSize = 5

type DashboardHandler struct {
	db     *gorm.DB
	alerts *services.AlertService
}

func NewDashboardHandler(db *gorm.DB, alerts *services.AlertService) *DashboardHandler {
	return &DashboardHandler{db: db, alerts: alerts}
}

// Show: GET /. Alerts are recomputed before display.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := h.alerts.Sweep(ctx, time.Now()); err != nil {
		fail(w, r, err)
		return
	}
	db := h.db.WithContext(ctx)

	var clients []models.Client
	if err := db.Order("last_contact desc").Limit(dashboardListSize).Find(&clients).Error; err != nil {
		fail(w, r, err)
		return
	}
	var quotes []models.Quote
	if err := db.Preload("Client").Where("status = ?", models.QuotePending).
		Order("created_at desc").Limit(dashboardListSize).Find(&quotes).Error; err != nil {
		fail(w, r, err)
		return
	}
	alerts, err := h.alerts.Active(ctx)
	if err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "dashboard.html", map[string]any{
		"Clients": clients,
		"Quotes":  quotes,
		"Alerts":  alerts,
	})
}
