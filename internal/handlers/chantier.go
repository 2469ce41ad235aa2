package handlers

import (
	"errors"
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

type ChantierHandler struct {
	db      *gorm.DB
	uploads *Uploads
}

func NewChantierHandler(db *gorm.DB, uploads *Uploads) *ChantierHandler {
	return &ChantierHandler{db: db, uploads: uploads}
}

type chantierForm struct {
	Name        string `form:"name" validate:"required,max=150"`
	Address     string `form:"address" validate:"max=255"`
	Description string `form:"description"`

	clientID uint
	status   string
	start    *time.Time
	end      *time.Time
}

// List: GET /chantiers?status=
func (h *ChantierHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.db.WithContext(r.Context()).Preload("Client").Order("created_at desc")
	status := field(r, "status")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var chantiers []models.Chantier
	if err := q.Find(&chantiers).Error; err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "chantiers.html", map[string]any{
		"Chantiers": chantiers,
		"Status":    status,
		"Statuses":  models.ChantierStatuses,
	})
}

// New: GET /chantier/add
func (h *ChantierHandler) New(w http.ResponseWriter, r *http.Request) {
	form := url.Values{"status": {models.ChantierPlanned}}
	if id := field(r, "client_id"); id != "" {
		form.Set("client_id", id)
	}
	h.renderForm(w, r, http.StatusOK, map[string]any{"Form": form})
}

// Create: POST /chantier/add
func (h *ChantierHandler) Create(w http.ResponseWriter, r *http.Request) {
	f := chantierForm{
		Name:        field(r, "name"),
		Address:     field(r, "address"),
		Description: field(r, "description"),
		status:      field(r, "status"),
	}
	v := validation.Violations{}
	validation.Struct(f, v)
	if f.status == "" {
		f.status = models.ChantierPlanned
	}
	validation.OneOf("status", f.status, models.ChantierStatuses, v)
	if id := validation.ID("client_id", field(r, "client_id"), v); id != nil {
		f.clientID = *id
		var n int64
		if err := h.db.WithContext(r.Context()).Model(&models.Client{}).Where("id = ?", f.clientID).Count(&n).Error; err != nil {
			fail(w, r, err)
			return
		}
		if n == 0 {
			v.Add("client_id", "invalid_choice")
		}
	} else {
		v.Add("client_id", "required")
	}
	f.start = validation.Date("start_date", field(r, "start_date"), v)
	f.end = validation.Date("end_date", field(r, "end_date"), v)
	if f.start != nil && f.end != nil && services.CheckDateRange(*f.start, *f.end) != nil {
		v.Add("end_date", "end_before_start")
	}
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, map[string]any{"Errors": v, "Form": r.Form})
		return
	}
	c := models.Chantier{
		Name:        f.Name,
		ClientID:    f.clientID,
		Address:     f.Address,
		Status:      f.status,
		StartDate:   f.start,
		EndDate:     f.end,
		Description: f.Description,
	}
	if err := h.db.WithContext(r.Context()).Create(&c).Error; err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, fmt.Sprintf("/chantier/%d", c.ID), middleware.FlashSuccess, "chantier_added")
}

// Show: GET /chantier/{id}
func (h *ChantierHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	var c models.Chantier
	err := h.db.WithContext(r.Context()).Preload("Client").
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("uploaded_at desc") }).
		First(&c, id).Error
	if err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "chantier.html", map[string]any{"Chantier": c})
}

// AddDocument: POST /chantier/{id}/add_document. Takes an uploaded "file" or
// an external "url"; the document belongs to the current user.
func (h *ChantierHandler) AddDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	back := fmt.Sprintf("/chantier/%d", id)
	if err := h.uploads.parse(w, r); err != nil {
		if errors.Is(err, errUploadTooBig) {
			done(w, r, back, middleware.FlashWarning, "file_too_large")
			return
		}
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	var c models.Chantier
	if err := h.db.WithContext(r.Context()).First(&c, id).Error; err != nil {
		fail(w, r, err)
		return
	}

	doc := models.Document{
		Name:       field(r, "name"),
		ChantierID: &c.ID,
		UserID:     currentUserID(r),
	}
	key, filename, err := h.uploads.save(r, "file", "documents")
	switch {
	case err == nil:
		doc.URL = fileURL(key)
		if doc.Name == "" {
			doc.Name = filename
		}
	case errors.Is(err, errNoUpload):
		link := field(r, "url")
		if link == "" {
			done(w, r, back, middleware.FlashWarning, "document_missing")
			return
		}
		if u, perr := url.Parse(link); perr != nil || (u.Scheme != "http" && u.Scheme != "https") {
			done(w, r, back, middleware.FlashWarning, "invalid_url")
			return
		}
		doc.URL = link
		if doc.Name == "" {
			doc.Name = link
		}
	default:
		fail(w, r, err)
		return
	}

	if err := h.db.WithContext(r.Context()).Create(&doc).Error; err != nil {
		h.uploads.discard(r.Context(), key)
		fail(w, r, err)
		return
	}
	done(w, r, back, middleware.FlashSuccess, "document_added")
}

func (h *ChantierHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	var clients []models.Client
	if err := h.db.WithContext(r.Context()).Order("name asc").Find(&clients).Error; err != nil {
		fail(w, r, err)
		return
	}
	data["Clients"] = clients
	data["Statuses"] = models.ChantierStatuses
	render(w, r, status, "chantier_form.html", data)
}
