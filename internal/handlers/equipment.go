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

type EquipmentHandler struct {
	db *gorm.DB
}

func NewEquipmentHandler(db *gorm.DB) *EquipmentHandler { return &EquipmentHandler{db: db} }

type equipmentForm struct {
	Name         string `form:"name" validate:"required,max=150"`
	Brand        string `form:"brand" validate:"max=100"`
	Model        string `form:"model" validate:"max=100"`
	SerialNumber string `form:"serial_number" validate:"required,max=100"`
	Notes        string `form:"notes"`

	status          string
	purchaseDate    *time.Time
	lastMaintenance *time.Time
	nextMaintenance *time.Time
	clientID        *uint
}

func parseEquipmentForm(r *http.Request) (equipmentForm, validation.Violations) {
	f := equipmentForm{
		Name:         field(r, "name"),
		Brand:        field(r, "brand"),
		Model:        field(r, "model"),
		SerialNumber: field(r, "serial_number"),
		Notes:        field(r, "notes"),
		status:       field(r, "status"),
	}
	v := validation.Violations{}
	validation.Struct(f, v)
	if f.status == "" {
		f.status = models.EquipmentInService
	}
	validation.OneOf("status", f.status, models.EquipmentStatuses, v)
	f.purchaseDate = validation.Date("purchase_date", field(r, "purchase_date"), v)
	f.lastMaintenance = validation.Date("last_maintenance", field(r, "last_maintenance"), v)
	f.nextMaintenance = validation.Date("next_maintenance", field(r, "next_maintenance"), v)
	f.clientID = validation.ID("client_id", field(r, "client_id"), v)
	return f, v
}

func (f equipmentForm) apply(e *models.Equipment) {
	e.Name = f.Name
	e.Brand = f.Brand
	e.Model = f.Model
	e.SerialNumber = f.SerialNumber
	e.Notes = f.Notes
	e.Status = f.status
	e.PurchaseDate = f.purchaseDate
	e.LastMaintenance = f.lastMaintenance
	e.NextMaintenance = f.nextMaintenance
	e.ClientID = f.clientID
}

func equipmentValues(e *models.Equipment) url.Values {
	v := url.Values{
		"name":          {e.Name},
		"brand":         {e.Brand},
		"model":         {e.Model},
		"serial_number": {e.SerialNumber},
		"status":        {e.Status},
		"notes":         {e.Notes},
	}
	setOptDate(v, "purchase_date", e.PurchaseDate)
	setOptDate(v, "last_maintenance", e.LastMaintenance)
	setOptDate(v, "next_maintenance", e.NextMaintenance)
	setID(v, "client_id", e.ClientID)
	return v
}

// List: GET /equipment?status=
func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.db.WithContext(r.Context()).Preload("Client").Order("name asc")
	status := field(r, "status")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var items []models.Equipment
	if err := q.Find(&items).Error; err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "equipment.html", map[string]any{
		"Equipment": items,
		"Status":    status,
		"Statuses":  models.EquipmentStatuses,
	})
}

// New: GET /equipment/add
func (h *EquipmentHandler) New(w http.ResponseWriter, r *http.Request) {
	data, err := h.formData(r, map[string]any{
		"Form": url.Values{"status": {models.EquipmentInService}},
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "equipment_form.html", data)
}

// Create: POST /equipment/add
func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	f, v := parseEquipmentForm(r)
	if err := h.checkRefs(r, f, 0, v); err != nil {
		fail(w, r, err)
		return
	}
	if !v.Empty() {
		h.invalid(w, r, v, nil)
		return
	}
	var e models.Equipment
	f.apply(&e)
	if err := h.db.WithContext(r.Context()).Create(&e).Error; err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, "/equipment", middleware.FlashSuccess, "equipment_added")
}

// EditForm: GET /equipment/edit/{id}
func (h *EquipmentHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	e, ok := h.load(w, r)
	if !ok {
		return
	}
	data, err := h.formData(r, map[string]any{"Item": e, "Form": equipmentValues(e)})
	if err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "equipment_form.html", data)
}

// Update: POST /equipment/edit/{id}
func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	e, ok := h.load(w, r)
	if !ok {
		return
	}
	f, v := parseEquipmentForm(r)
	if err := h.checkRefs(r, f, e.ID, v); err != nil {
		fail(w, r, err)
		return
	}
	if !v.Empty() {
		h.invalid(w, r, v, map[string]any{"Item": e})
		return
	}
	f.apply(e)
	if err := h.db.WithContext(r.Context()).Save(e).Error; err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, "/equipment", middleware.FlashSuccess, "equipment_updated")
}

// Export: GET /equipment/export.xlsx
func (h *EquipmentHandler) Export(w http.ResponseWriter, r *http.Request) {
	var items []models.Equipment
	if err := h.db.WithContext(r.Context()).Preload("Client").Order("name asc").Find(&items).Error; err != nil {
		fail(w, r, err)
		return
	}
	writeXLSX(w, r, "equipment.xlsx", export.Equipment(items))
}

// checkRefs enforces serial uniqueness and an existing client.
func (h *EquipmentHandler) checkRefs(r *http.Request, f equipmentForm, self uint, v validation.Violations) error {
	db := h.db.WithContext(r.Context())
	if f.SerialNumber != "" {
		var n int64
		if err := db.Model(&models.Equipment{}).Where("serial_number = ? AND id <> ?", f.SerialNumber, self).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			v.Add("serial_number", "already_taken")
		}
	}
	if f.clientID != nil {
		var n int64
		if err := db.Model(&models.Client{}).Where("id = ?", *f.clientID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			v.Add("client_id", "invalid_choice")
		}
	}
	return nil
}

func (h *EquipmentHandler) formData(r *http.Request, extra map[string]any) (map[string]any, error) {
	var clients []models.Client
	if err := h.db.WithContext(r.Context()).Order("name asc").Find(&clients).Error; err != nil {
		return nil, err
	}
	data := map[string]any{"Clients": clients, "Statuses": models.EquipmentStatuses}
	for k, v := range extra {
		data[k] = v
	}
	return data, nil
}

func (h *EquipmentHandler) invalid(w http.ResponseWriter, r *http.Request, v validation.Violations, extra map[string]any) {
	data, err := h.formData(r, extra)
	if err != nil {
		fail(w, r, err)
		return
	}
	invalid(w, r, "equipment_form.html", v, data)
}

func (h *EquipmentHandler) load(w http.ResponseWriter, r *http.Request) (*models.Equipment, bool) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	var e models.Equipment
	if err := h.db.WithContext(r.Context()).First(&e, id).Error; err != nil {
		fail(w, r, err)
		return nil, false
	}
	return &e, true
}
