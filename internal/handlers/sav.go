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

var ticketStatuses = []string{models.TicketOpen, models.TicketInProgress, models.TicketClosed}

type SavHandler struct {
	db      *gorm.DB
	numbers *services.Numbering
}

func NewSavHandler(db *gorm.DB, numbers *services.Numbering) *SavHandler {
	return &SavHandler{db: db, numbers: numbers}
}

// List: GET /sav?status=
func (h *SavHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.db.WithContext(r.Context()).Preload("Client").Order("created_at desc")
	status := field(r, "status")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var tickets []models.SavTicket
	if err := q.Find(&tickets).Error; err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "sav.html", map[string]any{
		"Tickets":  tickets,
		"Status":   status,
		"Statuses": ticketStatuses,
	})
}

// New: GET /sav/add
func (h *SavHandler) New(w http.ResponseWriter, r *http.Request) {
	form := url.Values{"status": {models.TicketOpen}}
	if id := field(r, "client_id"); id != "" {
		form.Set("client_id", id)
	}
	h.renderForm(w, r, http.StatusOK, map[string]any{"Form": form})
}

// Create: POST /sav/add
func (h *SavHandler) Create(w http.ResponseWriter, r *http.Request) {
	v := validation.Violations{}
	var clientID uint
	if id := validation.ID("client_id", field(r, "client_id"), v); id != nil {
		clientID = *id
		var n int64
		if err := h.db.WithContext(r.Context()).Model(&models.Client{}).Where("id = ?", clientID).Count(&n).Error; err != nil {
			fail(w, r, err)
			return
		}
		if n == 0 {
			v.Add("client_id", "invalid_choice")
		}
	} else {
		v.Add("client_id", "required")
	}
	description := field(r, "description")
	validation.Required("description", description, v)
	status := field(r, "status")
	if status == "" {
		status = models.TicketOpen
	}
	validation.OneOf("status", status, ticketStatuses, v)
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, map[string]any{"Errors": v, "Form": r.Form})
		return
	}
	t := models.SavTicket{ClientID: clientID, Description: description, Status: status}
	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		number, err := h.numbers.Next(tx, services.TicketNumbers)
		if err != nil {
			return err
		}
		t.TicketNumber = number
		return tx.Create(&t).Error
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	done(w, r, "/sav", middleware.FlashSuccess, "ticket_added")
}

func (h *SavHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	var clients []models.Client
	if err := h.db.WithContext(r.Context()).Order("name asc").Find(&clients).Error; err != nil {
		fail(w, r, err)
		return
	}
	data["Clients"] = clients
	data["Statuses"] = ticketStatuses
	render(w, r, status, "sav_form.html", data)
}
