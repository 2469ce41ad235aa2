package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/middleware"
	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/services"
	"github.com/diewo77/go-backoffice/internal/validation"
)

type FactureHandler struct {
	db      *gorm.DB
	numbers *services.Numbering
	uploads *Uploads
}

func NewFactureHandler(db *gorm.DB, numbers *services.Numbering, uploads *Uploads) *FactureHandler {
	return &FactureHandler{db: db, numbers: numbers, uploads: uploads}
}

// List: GET /factures?status=
func (h *FactureHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.db.WithContext(r.Context()).Preload("Client").Preload("Quote").Order("created_at desc")
	status := field(r, "status")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var factures []models.Facture
	if err := q.Find(&factures).Error; err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "factures.html", map[string]any{
		"Factures": factures,
		"Status":   status,
		"Statuses": models.FactureStatuses,
	})
}

// New: GET /facture/add
func (h *FactureHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, map[string]any{
		"Form": url.Values{"status": {models.FactureUnpaid}},
	})
}

// Create: POST /facture/add. An optional "pdf_file" is stored before the
// insert and removed again if the insert fails.
func (h *FactureHandler) Create(w http.ResponseWriter, r *http.Request) {
	v := validation.Violations{}
	if err := h.uploads.parse(w, r); err != nil {
		if !errors.Is(err, errUploadTooBig) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		v.Add("pdf_file", "file_too_large")
	}
	ctx := r.Context()
	db := h.db.WithContext(ctx)

	var clientID uint
	if id := validation.ID("client_id", field(r, "client_id"), v); id != nil {
		clientID = *id
		var n int64
		if err := db.Model(&models.Client{}).Where("id = ?", clientID).Count(&n).Error; err != nil {
			fail(w, r, err)
			return
		}
		if n == 0 {
			v.Add("client_id", "invalid_choice")
		}
	} else {
		v.Add("client_id", "required")
	}
	quoteID := validation.ID("quote_id", field(r, "quote_id"), v)
	var quote models.Quote
	if quoteID != nil {
		err := db.Where("id = ? AND client_id = ?", *quoteID, clientID).First(&quote).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			v.Add("quote_id", "invalid_choice")
		case err != nil:
			fail(w, r, err)
			return
		}
	}
	amount := validation.Float("amount", field(r, "amount"), v)
	switch {
	case amount == nil && quoteID != nil && quote.ID != 0:
		total := quote.TotalPrice()
		amount = &total
	case amount == nil:
		v.Add("amount", "required")
	case *amount < 0:
		v.Add("amount", "must_be_positive")
	}
	status := field(r, "status")
	if status == "" {
		status = models.FactureUnpaid
	}
	validation.OneOf("status", status, models.FactureStatuses, v)
	due := validation.Date("due_date", field(r, "due_date"), v)

	var key string
	if v.Empty() {
		var err error
		key, _, err = h.uploads.save(r, "pdf_file", "factures", ".pdf")
		switch {
		case err == nil, errors.Is(err, errNoUpload):
		case errors.Is(err, errBadUploadType):
			v.Add("pdf_file", "pdf_only")
		default:
			fail(w, r, err)
			return
		}
	}
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, map[string]any{"Errors": v, "Form": r.Form})
		return
	}

	f := models.Facture{
		ClientID:    clientID,
		QuoteID:     quoteID,
		Amount:      *amount,
		Status:      status,
		DueDate:     due,
		PDFFilename: key,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		number, err := h.numbers.Next(tx, services.FactureNumbers)
		if err != nil {
			return err
		}
		f.InvoiceNumber = number
		return tx.Create(&f).Error
	})
	if err != nil {
		h.uploads.discard(ctx, key)
		fail(w, r, err)
		return
	}
	done(w, r, "/factures", middleware.FlashSuccess, "facture_added")
}

func (h *FactureHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	db := h.db.WithContext(r.Context())
	var clients []models.Client
	if err := db.Order("name asc").Find(&clients).Error; err != nil {
		fail(w, r, err)
		return
	}
	var quotes []models.Quote
	if err := db.Preload("Client").Where("status = ?", models.QuoteAccepted).Order("created_at desc").Find(&quotes).Error; err != nil {
		fail(w, r, err)
		return
	}
	data["Clients"] = clients
	data["Quotes"] = quotes
	data["Statuses"] = models.FactureStatuses
	render(w, r, status, "facture_form.html", data)
}
