package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/logger"
	"github.com/diewo77/go-backoffice/internal/middleware"
	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/pdf"
	"github.com/diewo77/go-backoffice/internal/services"
	"github.com/diewo77/go-backoffice/internal/validation"
)

type QuoteHandler struct {
	db      *gorm.DB
	numbers *services.Numbering
	pdf     pdf.Renderer
	company string
}

func NewQuoteHandler(db *gorm.DB, numbers *services.Numbering, renderer pdf.Renderer, company string) *QuoteHandler {
	if renderer == nil {
		renderer = pdf.Disabled{}
	}
	return &QuoteHandler{db: db, numbers: numbers, pdf: renderer, company: company}
}

type quoteForm struct {
	ServiceType string `form:"service_type" validate:"required,max=150"`
	Details     string `form:"details"`

	clientID  uint
	price     float64
	vatRate   float64
	expiresAt *time.Time
}

func parseQuoteForm(r *http.Request) (quoteForm, validation.Violations) {
	f := quoteForm{
		ServiceType: field(r, "service_type"),
		Details:     field(r, "details"),
		vatRate:     models.DefaultVATRate,
	}
	v := validation.Violations{}
	validation.Struct(f, v)
	if id := validation.ID("client_id", field(r, "client_id"), v); id != nil {
		f.clientID = *id
	} else {
		v.Add("client_id", "required")
	}
	if p := validation.Float("price", field(r, "price"), v); p != nil {
		f.price = *p
		if f.price < 0 {
			v.Add("price", "must_be_positive")
		}
	} else {
		v.Add("price", "required")
	}
	if rate := validation.Float("vat_rate", field(r, "vat_rate"), v); rate != nil {
		f.vatRate = *rate
		validation.RangeFloat("vat_rate", f.vatRate, 0, 1, v)
	}
	f.expiresAt = validation.Date("expires_at", field(r, "expires_at"), v)
	return f, v
}

// List: GET /quotes?status=
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.db.WithContext(r.Context()).Preload("Client").Order("created_at desc")
	status := field(r, "status")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var quotes []models.Quote
	if err := q.Find(&quotes).Error; err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "quotes.html", map[string]any{
		"Quotes":   quotes,
		"Status":   status,
		"Statuses": []string{models.QuotePending, models.QuoteAccepted, models.QuoteRejected},
	})
}

// New: GET /quote/add. ?client_id= preselects the client.
func (h *QuoteHandler) New(w http.ResponseWriter, r *http.Request) {
	form := url.Values{"vat_rate": {strconv.FormatFloat(models.DefaultVATRate, 'f', -1, 64)}}
	if id := field(r, "client_id"); id != "" {
		form.Set("client_id", id)
	}
	h.renderForm(w, r, http.StatusOK, map[string]any{"Form": form})
}

// Create: POST /quote/add. The number is minted inside the insert transaction.
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	f, v := parseQuoteForm(r)
	if f.clientID != 0 {
		var n int64
		if err := h.db.WithContext(r.Context()).Model(&models.Client{}).Where("id = ?", f.clientID).Count(&n).Error; err != nil {
			fail(w, r, err)
			return
		}
		if n == 0 {
			v.Add("client_id", "invalid_choice")
		}
	}
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, map[string]any{"Errors": v, "Form": r.Form})
		return
	}
	q := models.Quote{
		ClientID:    f.clientID,
		ServiceType: f.ServiceType,
		Details:     f.Details,
		Price:       f.price,
		VATRate:     f.vatRate,
	}
	if f.expiresAt != nil {
		q.ExpiresAt = *f.expiresAt
	}
	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		number, err := h.numbers.Next(tx, services.QuoteNumbers)
		if err != nil {
			return err
		}
		q.QuoteNumber = number
		return tx.Create(&q).Error
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, "/quotes", middleware.FlashSuccess, "quote_added")
}

// UpdateStatus: POST /quote/{id}/status
func (h *QuoteHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	var q models.Quote
	if err := h.db.WithContext(r.Context()).First(&q, id).Error; err != nil {
		fail(w, r, err)
		return
	}
	status := field(r, "status")
	if err := services.CheckQuoteDecision(status); err != nil {
		done(w, r, "/quotes", middleware.FlashWarning, "invalid_status")
		return
	}
	if err := h.db.WithContext(r.Context()).Model(&q).Update("status", status).Error; err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, "/quotes", middleware.FlashSuccess, "quote_status_updated")
}

// PDF: GET /quote/{id}/pdf. Renderer failures never produce partial output.
func (h *QuoteHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	var q models.Quote
	if err := h.db.WithContext(r.Context()).Preload("Client").First(&q, id).Error; err != nil {
		fail(w, r, err)
		return
	}
	body, err := h.pdf.Quote(quoteData(&q, h.company))
	if err != nil {
		if !errors.Is(err, pdf.ErrUnavailable) {
			logger.FromContext(r.Context()).Error("quote pdf", zap.Uint("quote_id", q.ID), zap.Error(err))
		}
		done(w, r, "/quotes", middleware.FlashDanger, "pdf_unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="Quote_`+q.QuoteNumber+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, _ = w.Write(body)
}

func quoteData(q *models.Quote, company string) pdf.QuoteData {
	d := pdf.QuoteData{
		Number:      q.QuoteNumber,
		CreatedAt:   q.CreatedAt,
		ExpiresAt:   q.ExpiresAt,
		Status:      q.Status,
		ServiceType: q.ServiceType,
		Details:     q.Details,
		Price:       q.Price,
		VATRate:     q.VATRate,
		VATAmount:   q.VATAmount(),
		Total:       q.TotalPrice(),
		Company:     company,
	}
	if q.Client != nil {
		d.Client = pdf.ClientData{
			Name:    q.Client.Name,
			Company: q.Client.Company,
			Address: q.Client.Address,
			Email:   q.Client.Email,
			Phone:   q.Client.Phone,
		}
	}
	return d
}

func (h *QuoteHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	var clients []models.Client
	if err := h.db.WithContext(r.Context()).Order("name asc").Find(&clients).Error; err != nil {
		fail(w, r, err)
		return
	}
	data["Clients"] = clients
	render(w, r, status, "quote_form.html", data)
}
