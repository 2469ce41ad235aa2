package handlers

import (
	"net/http"
	"net/url"

	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/middleware"
	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/services"
	"github.com/diewo77/go-backoffice/internal/validation"
)

type LeaveHandler struct {
	db *gorm.DB
}

func NewLeaveHandler(db *gorm.DB) *LeaveHandler { return &LeaveHandler{db: db} }

// List: GET /leaves?status=
func (h *LeaveHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.db.WithContext(r.Context()).Preload("Employee").Order("requested_at desc")
	status := field(r, "status")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var leaves []models.LeaveRequest
	if err := q.Find(&leaves).Error; err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "leaves.html", map[string]any{
		"Leaves":   leaves,
		"Status":   status,
		"Statuses": []string{models.LeavePending, models.LeaveApproved, models.LeaveRejected},
	})
}

// RequestForm: GET /leaves/request
func (h *LeaveHandler) RequestForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, map[string]any{
		"Form": url.Values{"leave_type": {models.DefaultLeaveType}},
	})
}

// Request: POST /leaves/request. A start after the end is a business-rule
// failure: warning flash, nothing stored.
func (h *LeaveHandler) Request(w http.ResponseWriter, r *http.Request) {
	v := validation.Violations{}
	employeeID := validation.ID("employee_id", field(r, "employee_id"), v)
	if employeeID == nil {
		v.Add("employee_id", "required")
	}
	leaveType := field(r, "leave_type")
	if leaveType == "" {
		leaveType = models.DefaultLeaveType
	}
	validation.OneOf("leave_type", leaveType, models.LeaveTypes, v)
	start := validation.RequiredDate("start_date", field(r, "start_date"), v)
	end := validation.RequiredDate("end_date", field(r, "end_date"), v)
	if employeeID != nil {
		var n int64
		if err := h.db.WithContext(r.Context()).Model(&models.Employee{}).Where("id = ?", *employeeID).Count(&n).Error; err != nil {
			fail(w, r, err)
			return
		}
		if n == 0 {
			v.Add("employee_id", "invalid_choice")
		}
	}
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, map[string]any{"Errors": v, "Form": r.Form})
		return
	}
	if err := services.CheckDateRange(start, end); err != nil {
		done(w, r, "/leaves/request", middleware.FlashWarning, "leave_bad_range")
		return
	}
	l := models.LeaveRequest{
		EmployeeID: *employeeID,
		LeaveType:  leaveType,
		StartDate:  start,
		EndDate:    end,
		Reason:     field(r, "reason"),
	}
	if err := h.db.WithContext(r.Context()).Create(&l).Error; err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, "/", middleware.FlashSuccess, "leave_requested")
}

// UpdateStatus: POST /leaves/{id}/update_status. Only Approved and Rejected
// are accepted.
func (h *LeaveHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	var l models.LeaveRequest
	if err := h.db.WithContext(r.Context()).First(&l, id).Error; err != nil {
		fail(w, r, err)
		return
	}
	status := field(r, "status")
	if err := services.CheckLeaveDecision(status); err != nil {
		done(w, r, "/leaves", middleware.FlashWarning, "invalid_status")
		return
	}
	if err := h.db.WithContext(r.Context()).Model(&l).Update("status", status).Error; err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, "/leaves", middleware.FlashSuccess, "leave_status_updated")
}

func (h *LeaveHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	var employees []models.Employee
	if err := h.db.WithContext(r.Context()).Where("is_active = ?", true).Order("full_name asc").Find(&employees).Error; err != nil {
		fail(w, r, err)
		return
	}
	data["Employees"] = employees
	data["LeaveTypes"] = models.LeaveTypes
	render(w, r, status, "leave_form.html", data)
}
