package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/middleware"
	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/services"
	"github.com/diewo77/go-backoffice/internal/validation"
)

type CandidateHandler struct {
	db *gorm.DB
}

func NewCandidateHandler(db *gorm.DB) *CandidateHandler { return &CandidateHandler{db: db} }

type candidateForm struct {
	FullName string `form:"full_name" validate:"required,max=150"`
	Email    string `form:"email" validate:"required,email,max=150"`
	Phone    string `form:"phone" validate:"max=30"`
	Position string `form:"position_applied_for" validate:"max=100"`
	Notes    string `form:"notes"`

	applied *time.Time
}

// List: GET /candidates?status=
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.db.WithContext(r.Context()).Order("application_date desc")
	status := field(r, "status")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var candidates []models.Candidate
	if err := q.Find(&candidates).Error; err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "candidates.html", map[string]any{
		"Candidates": candidates,
		"Status":     status,
		"Statuses":   models.CandidateStatuses,
	})
}

// New: GET /candidate/add
func (h *CandidateHandler) New(w http.ResponseWriter, r *http.Request) {
	form := url.Values{}
	setDate(form, "application_date", models.Today())
	render(w, r, http.StatusOK, "candidate_form.html", map[string]any{"Form": form})
}

// Create: POST /candidate/add
func (h *CandidateHandler) Create(w http.ResponseWriter, r *http.Request) {
	f := candidateForm{
		FullName: field(r, "full_name"),
		Email:    field(r, "email"),
		Phone:    field(r, "phone"),
		Position: field(r, "position_applied_for"),
		Notes:    field(r, "notes"),
	}
	v := validation.Violations{}
	validation.Struct(f, v)
	f.applied = validation.Date("application_date", field(r, "application_date"), v)
	if f.Email != "" {
		var n int64
		if err := h.db.WithContext(r.Context()).Model(&models.Candidate{}).Where("email = ?", f.Email).Count(&n).Error; err != nil {
			fail(w, r, err)
			return
		}
		if n > 0 {
			v.Add("email", "already_taken")
		}
	}
	if !v.Empty() {
		invalid(w, r, "candidate_form.html", v, nil)
		return
	}
	c := models.Candidate{
		FullName:           f.FullName,
		Email:              f.Email,
		Phone:              f.Phone,
		PositionAppliedFor: f.Position,
		Notes:              f.Notes,
	}
	if f.applied != nil {
		c.ApplicationDate = *f.applied
	}
	if err := h.db.WithContext(r.Context()).Create(&c).Error; err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, "/candidates", middleware.FlashSuccess, "candidate_added")
}

// Show: GET /candidate/{id}, the detail page with the status and notes form.
func (h *CandidateHandler) Show(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	render(w, r, http.StatusOK, "candidate.html", map[string]any{
		"Candidate": c,
		"Statuses":  models.CandidateStatuses,
		"Form":      url.Values{"status": {c.Status}, "notes": {c.Notes}},
	})
}

// Update: POST /candidate/{id}. Only status and notes change.
func (h *CandidateHandler) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	v := validation.Violations{}
	status := field(r, "status")
	validation.OneOf("status", status, models.CandidateStatuses, v)
	if !v.Empty() {
		invalid(w, r, "candidate.html", v, map[string]any{
			"Candidate": c,
			"Statuses":  models.CandidateStatuses,
		})
		return
	}
	err := h.db.WithContext(r.Context()).Model(c).Updates(map[string]any{
		"status": status,
		"notes":  field(r, "notes"),
	}).Error
	if err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, fmt.Sprintf("/candidate/%d", c.ID), middleware.FlashSuccess, "candidate_updated")
}

// Convert: GET /candidate/{id}/convert renders the employee form pre-filled
// from a hired candidate. The candidate itself is left as is.
func (h *CandidateHandler) Convert(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	e, err := services.EmployeeFromCandidate(c)
	if err != nil {
		done(w, r, fmt.Sprintf("/candidate/%d", c.ID), middleware.FlashWarning, "candidate_not_hired")
		return
	}
	form := url.Values{
		"full_name": {e.FullName},
		"email":     {e.Email},
		"phone":     {e.Phone},
		"position":  {e.Position},
		"is_active": {"on"},
	}
	render(w, r, http.StatusOK, "employee_form.html", map[string]any{
		"Form":      form,
		"Candidate": c,
	})
}

func (h *CandidateHandler) load(w http.ResponseWriter, r *http.Request) (*models.Candidate, bool) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	var c models.Candidate
	if err := h.db.WithContext(r.Context()).First(&c, id).Error; err != nil {
		fail(w, r, err)
		return nil, false
	}
	return &c, true
}
