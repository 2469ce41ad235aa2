package models

import (
	"time"

	"gorm.io/gorm"
)

// Facture statuses.
const (
	FactureUnpaid  = "Unpaid"
	FacturePaid    = "Paid"
	FactureOverdue = "Overdue"
)

var FactureStatuses = []string{FactureUnpaid, FacturePaid, FactureOverdue}

// Facture is an issued invoice, optionally backed by a quote and an uploaded PDF.
type Facture struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	InvoiceNumber string     `gorm:"uniqueIndex;size:30;not null" json:"invoice_number"`
	ClientID      uint       `gorm:"index;not null" json:"client_id"`
	Client        *Client    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	QuoteID       *uint      `gorm:"index" json:"quote_id,omitempty"`
	Quote         *Quote     `gorm:"foreignKey:QuoteID;constraint:OnDelete:SET NULL" json:"quote,omitempty"`
	Amount        float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status        string     `gorm:"size:20;not null;default:'Unpaid'" json:"status"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	PDFFilename   string     `gorm:"size:255" json:"pdf_filename,omitempty"`
}

func (f *Facture) BeforeCreate(tx *gorm.DB) error {
	if f.Status == "" {
		f.Status = FactureUnpaid
	}
	return nil
}
