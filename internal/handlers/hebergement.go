package handlers

import (
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/middleware"
	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/services"
	"github.com/diewo77/go-backoffice/internal/validation"
)

type HebergementHandler struct {
	db *gorm.DB
}

func NewHebergementHandler(db *gorm.DB) *HebergementHandler { return &HebergementHandler{db: db} }

// List: GET /hebergements
func (h *HebergementHandler) List(w http.ResponseWriter, r *http.Request) {
	var items []models.Hebergement
	err := h.db.WithContext(r.Context()).Preload("Employees", func(db *gorm.DB) *gorm.DB {
		return db.Order("full_name asc")
	}).Order("start_date desc").Find(&items).Error
	if err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "hebergements.html", map[string]any{"Hebergements": items})
}

// New: GET /hebergement/add
func (h *HebergementHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, map[string]any{})
}

// Create: POST /hebergement/add. The employee set is exactly the submitted
// employee_ids that resolve to employees; unknown ids are dropped.
func (h *HebergementHandler) Create(w http.ResponseWriter, r *http.Request) {
	v := validation.Violations{}
	address := field(r, "address")
	validation.Required("address", address, v)
	start := validation.RequiredDate("start_date", field(r, "start_date"), v)
	end := validation.RequiredDate("end_date", field(r, "end_date"), v)
	if !start.IsZero() && !end.IsZero() && services.CheckDateRange(start, end) != nil {
		v.Add("end_date", "end_before_start")
	}
	var cost float64
	if c := validation.Float("cost", field(r, "cost"), v); c != nil {
		cost = *c
		if cost < 0 {
			v.Add("cost", "must_be_positive")
		}
	}
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, map[string]any{"Errors": v, "Form": r.Form})
		return
	}

	heb := models.Hebergement{
		Address:   address,
		StartDate: start,
		EndDate:   end,
		Cost:      cost,
		Notes:     field(r, "notes"),
	}
	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		var employees []models.Employee
		if ids := employeeIDs(r); len(ids) > 0 {
			if err := tx.Where("id IN ?", ids).Find(&employees).Error; err != nil {
				return err
			}
		}
		if err := tx.Omit("Employees").Create(&heb).Error; err != nil {
			return err
		}
		return tx.Model(&heb).Association("Employees").Replace(employees)
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, "/hebergements", middleware.FlashSuccess, "hebergement_added")
}

// employeeIDs collects the positive integers posted as employee_ids.
func employeeIDs(r *http.Request) []uint {
	var ids []uint
	seen := map[uint]bool{}
	for _, raw := range r.Form["employee_ids"] {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || n == 0 || seen[uint(n)] {
			continue
		}
		seen[uint(n)] = true
		ids = append(ids, uint(n))
	}
	return ids
}

func (h *HebergementHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	var employees []models.Employee
	if err := h.db.WithContext(r.Context()).Where("is_active = ?", true).Order("full_name asc").Find(&employees).Error; err != nil {
		fail(w, r, err)
		return
	}
	data["Employees"] = employees
	data["Selected"] = employeeIDs(r)
	render(w, r, status, "hebergement_form.html", data)
}
