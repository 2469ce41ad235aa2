package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/export"
	"github.com/diewo77/go-backoffice/internal/middleware"
	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/validation"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler { return &ClientHandler{db: db} }

type clientForm struct {
	Name    string `form:"name" validate:"required,max=150"`
	Email   string `form:"email" validate:"omitempty,email,max=150"`
	Phone   string `form:"phone" validate:"max=30"`
	Company string `form:"company" validate:"max=150"`
	Address string `form:"address" validate:"max=255"`
	Status  string `form:"status" validate:"omitempty,oneof=Prospect Active Inactive"`
	Notes   string `form:"notes"`
}

func parseClientForm(r *http.Request) (clientForm, validation.Violations) {
	f := clientForm{
		Name:    field(r, "name"),
		Email:   field(r, "email"),
		Phone:   field(r, "phone"),
		Company: field(r, "company"),
		Address: field(r, "address"),
		Status:  field(r, "status"),
		Notes:   field(r, "notes"),
	}
	v := validation.Violations{}
	validation.Struct(f, v)
	return f, v
}

func (f clientForm) apply(c *models.Client) {
	c.Name = f.Name
	c.Email = f.Email
	c.Phone = f.Phone
	c.Company = f.Company
	c.Address = f.Address
	c.Notes = f.Notes
	if f.Status != "" {
		c.Status = f.Status
	}
}

func clientValues(c *models.Client) url.Values {
	return url.Values{
		"name":    {c.Name},
		"email":   {c.Email},
		"phone":   {c.Phone},
		"company": {c.Company},
		"address": {c.Address},
		"status":  {c.Status},
		"notes":   {c.Notes},
	}
}

func (h *ClientHandler) formData(extra map[string]any) map[string]any {
	data := map[string]any{"Statuses": models.ClientStatuses}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// List: GET /clients?q=&status=
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.db.WithContext(r.Context()).Order("name asc")
	query := field(r, "q")
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("name LIKE ? OR company LIKE ? OR email LIKE ?", like, like, like)
	}
	status := field(r, "status")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var clients []models.Client
	if err := q.Find(&clients).Error; err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "clients.html", map[string]any{
		"Clients":  clients,
		"Query":    query,
		"Status":   status,
		"Statuses": models.ClientStatuses,
	})
}

// Show: GET /client/{id}
func (h *ClientHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	var c models.Client
	err := h.db.WithContext(r.Context()).
		Preload("Quotes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Preload("Chantiers").Preload("Factures").Preload("SavTickets").
		First(&c, id).Error
	if err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "client.html", map[string]any{"Client": c})
}

// New: GET /client/add
func (h *ClientHandler) New(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, "client_form.html", h.formData(map[string]any{
		"Form": url.Values{"status": {models.ClientProspect}},
	}))
}

// Create: POST /client/add
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	f, v := parseClientForm(r)
	if !v.Empty() {
		invalid(w, r, "client_form.html", v, h.formData(nil))
		return
	}
	var c models.Client
	f.apply(&c)
	if err := h.db.WithContext(r.Context()).Create(&c).Error; err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, "/clients", middleware.FlashSuccess, "client_added")
}

// EditForm: GET /client/edit/{id}
func (h *ClientHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	render(w, r, http.StatusOK, "client_form.html", h.formData(map[string]any{
		"Client": c,
		"Form":   clientValues(c),
	}))
}

// Update: POST /client/edit/{id}. Editing counts as a contact.
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	f, v := parseClientForm(r)
	if !v.Empty() {
		invalid(w, r, "client_form.html", v, h.formData(map[string]any{"Client": c}))
		return
	}
	f.apply(c)
	c.LastContact = time.Now()
	if err := h.db.WithContext(r.Context()).Save(c).Error; err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, fmt.Sprintf("/client/%d", c.ID), middleware.FlashSuccess, "client_updated")
}

// Delete: POST /client/delete/{id}. Quotes go with the client; chantiers,
// factures and SAV tickets block the delete.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}
	var blocked bool
	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		for _, dep := range []any{&models.Chantier{}, &models.Facture{}, &models.SavTicket{}} {
			var n int64
			if err := tx.Model(dep).Where("client_id = ?", c.ID).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				blocked = true
				return nil
			}
		}
		quoteIDs := tx.Model(&models.Quote{}).Select("id").Where("client_id = ?", c.ID)
		if err := tx.Model(&models.Facture{}).Where("quote_id IN (?)", quoteIDs).Update("quote_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", c.ID).Delete(&models.Quote{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Equipment{}).Where("client_id = ?", c.ID).Update("client_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(c).Error
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	if blocked {
		done(w, r, fmt.Sprintf("/client/%d", c.ID), middleware.FlashWarning, "client_has_dependents")
		return
	}
	done(w, r, "/clients", middleware.FlashSuccess, "client_deleted")
}

// Export: GET /clients/export.xlsx
func (h *ClientHandler) Export(w http.ResponseWriter, r *http.Request) {
	var clients []models.Client
	if err := h.db.WithContext(r.Context()).Order("name asc").Find(&clients).Error; err != nil {
		fail(w, r, err)
		return
	}
	writeXLSX(w, r, "clients.xlsx", export.Clients(clients))
}

func (h *ClientHandler) load(w http.ResponseWriter, r *http.Request) (*models.Client, bool) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	var c models.Client
	if err := h.db.WithContext(r.Context()).First(&c, id).Error; err != nil {
		fail(w, r, err)
		return nil, false
	}
	return &c, true
}
