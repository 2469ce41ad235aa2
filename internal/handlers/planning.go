package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/middleware"
	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/services"
	"github.com/diewo77/go-backoffice/internal/validation"
)

type PlanningHandler struct {
	db *gorm.DB
}

func NewPlanningHandler(db *gorm.DB) *PlanningHandler { return &PlanningHandler{db: db} }

// List: GET /planning?all=1. Past events are hidden unless all is set.
func (h *PlanningHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.db.WithContext(r.Context()).Order("start asc")
	all := field(r, "all") == "1"
	if !all {
		q = q.Where("\"end\" >= ?", models.Today())
	}
	var events []models.PlanningEvent
	if err := q.Find(&events).Error; err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "planning.html", map[string]any{"Events": events, "All": all})
}

// New: GET /planning/add
func (h *PlanningHandler) New(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, "planning_form.html", map[string]any{})
}

// Create: POST /planning/add
func (h *PlanningHandler) Create(w http.ResponseWriter, r *http.Request) {
	v := validation.Violations{}
	title := field(r, "title")
	validation.Required("title", title, v)
	start := validation.DateTime("start", field(r, "start"), v)
	end := validation.DateTime("end", field(r, "end"), v)
	if !v.Empty() {
		invalid(w, r, "planning_form.html", v, nil)
		return
	}
	if err := services.CheckDateRange(start, end); err != nil {
		done(w, r, "/planning/add", middleware.FlashWarning, "event_bad_range")
		return
	}
	e := models.PlanningEvent{
		Title:       title,
		Start:       start,
		End:         end,
		Description: field(r, "description"),
	}
	if err := h.db.WithContext(r.Context()).Create(&e).Error; err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, "/planning", middleware.FlashSuccess, "event_added")
}
