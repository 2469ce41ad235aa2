package handlers

import (
	"net/http"
	"net/url"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/export"
	"github.com/diewo77/go-backoffice/internal/middleware"
	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/validation"
)

type EmployeeHandler struct {
	db *gorm.DB
}

func NewEmployeeHandler(db *gorm.DB) *EmployeeHandler { return &EmployeeHandler{db: db} }

type employeeForm struct {
	FullName string `form:"full_name" validate:"required,max=150"`
	Email    string `form:"email" validate:"required,email,max=150"`
	Phone    string `form:"phone" validate:"max=30"`
	Position string `form:"position" validate:"max=100"`

	hireDate *time.Time
	salary   *float64
	active   bool
}

func parseEmployeeForm(r *http.Request) (employeeForm, validation.Violations) {
	f := employeeForm{
		FullName: field(r, "full_name"),
		Email:    field(r, "email"),
		Phone:    field(r, "phone"),
		Position: field(r, "position"),
		active:   r.FormValue("is_active") != "",
	}
	v := validation.Violations{}
	validation.Struct(f, v)
	f.hireDate = validation.Date("hire_date", field(r, "hire_date"), v)
	f.salary = validation.Float("salary", field(r, "salary"), v)
	if f.salary != nil && *f.salary < 0 {
		v.Add("salary", "must_be_positive")
	}
	return f, v
}

func (f employeeForm) apply(e *models.Employee) {
	e.FullName = f.FullName
	e.Email = f.Email
	e.Phone = f.Phone
	e.Position = f.Position
	e.Salary = f.salary
	if f.hireDate != nil {
		e.HireDate = *f.hireDate
	}
}

func employeeValues(e *models.Employee) url.Values {
	v := url.Values{
		"full_name": {e.FullName},
		"email":     {e.Email},
		"phone":     {e.Phone},
		"position":  {e.Position},
	}
	setDate(v, "hire_date", e.HireDate)
	if e.Salary != nil {
		setFloat(v, "salary", *e.Salary)
	}
	if e.IsActive {
		v.Set("is_active", "on")
	}
	return v
}

// List: GET /employees?active=0|1
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.db.WithContext(r.Context()).Order("full_name asc")
	switch field(r, "active") {
	case "1":
		q = q.Where("is_active = ?", true)
	case "0":
		q = q.Where("is_active = ?", false)
	}
	var employees []models.Employee
	if err := q.Find(&employees).Error; err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "employees.html", map[string]any{
		"Employees": employees,
		"Active":    field(r, "active"),
	})
}

// New: GET /employee/add
func (h *EmployeeHandler) New(w http.ResponseWriter, r *http.Request) {
	form := url.Values{"is_active": {"on"}}
	setDate(form, "hire_date", models.Today())
	render(w, r, http.StatusOK, "employee_form.html", map[string]any{"Form": form})
}

// Create: POST /employee/add. New employees start active.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	f, v := parseEmployeeForm(r)
	if err := h.checkEmail(r, f.Email, 0, v); err != nil {
		fail(w, r, err)
		return
	}
	if !v.Empty() {
		invalid(w, r, "employee_form.html", v, nil)
		return
	}
	e := models.Employee{IsActive: true}
	f.apply(&e)
	if err := h.db.WithContext(r.Context()).Create(&e).Error; err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, "/employees", middleware.FlashSuccess, "employee_added")
}

// EditForm: GET /employee/edit/{id}
func (h *EmployeeHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	e, ok := h.load(w, r)
	if !ok {
		return
	}
	render(w, r, http.StatusOK, "employee_form.html", map[string]any{
		"Employee": e,
		"Form":     employeeValues(e),
	})
}

// Update: POST /employee/edit/{id}
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	e, ok := h.load(w, r)
	if !ok {
		return
	}
	f, v := parseEmployeeForm(r)
	if err := h.checkEmail(r, f.Email, e.ID, v); err != nil {
		fail(w, r, err)
		return
	}
	if !v.Empty() {
		invalid(w, r, "employee_form.html", v, map[string]any{"Employee": e})
		return
	}
	f.apply(e)
	e.IsActive = f.active
	if err := h.db.WithContext(r.Context()).Save(e).Error; err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, "/employees", middleware.FlashSuccess, "employee_updated")
}

// Export: GET /employees/export.xlsx
func (h *EmployeeHandler) Export(w http.ResponseWriter, r *http.Request) {
	var employees []models.Employee
	if err := h.db.WithContext(r.Context()).Order("full_name asc").Find(&employees).Error; err != nil {
		fail(w, r, err)
		return
	}
	writeXLSX(w, r, "employees.xlsx", export.Employees(employees))
}

func (h *EmployeeHandler) checkEmail(r *http.Request, email string, self uint, v validation.Violations) error {
	if email == "" {
		return nil
	}
	var n int64
	if err := h.db.WithContext(r.Context()).Model(&models.Employee{}).Where("email = ? AND id <> ?", email, self).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		v.Add("email", "already_taken")
	}
	return nil
}

func (h *EmployeeHandler) load(w http.ResponseWriter, r *http.Request) (*models.Employee, bool) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	var e models.Employee
	if err := h.db.WithContext(r.Context()).First(&e, id).Error; err != nil {
		fail(w, r, err)
		return nil, false
	}
	return &e, true
}
