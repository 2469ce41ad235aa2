package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Quote statuses.
const (
	QuotePending  = "Pending"
	QuoteAccepted = "Accepted"
	QuoteRejected = "Rejected"
)

const (
	// DefaultVATRate applies when the form leaves the rate empty.
	DefaultVATRate = 0.20
	// QuoteValidity is how long a quote stays open after creation.
	QuoteValidity = 30 * 24 * time.Hour
)

// Quote is a priced offer sent to a client ("devis").
type Quote struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	QuoteNumber string    `gorm:"uniqueIndex;size:30;not null" json:"quote_number"`
	ClientID    uint      `gorm:"index;not null" json:"client_id"`
	Client      *Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	ServiceType string    `gorm:"size:150;not null" json:"service_type"`
	Details     string    `gorm:"type:text" json:"details,omitempty"`
	Price       float64   `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	VATRate     float64   `gorm:"type:decimal(5,4);not null" json:"vat_rate"`
	Status      string    `gorm:"size:20;not null;default:'Pending'" json:"status"`
	ExpiresAt   time.Time `gorm:"index" json:"expires_at"`
}

// BeforeCreate stamps the creation time and derives the expiry from it.
func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.Status == "" {
		q.Status = QuotePending
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
	if q.ExpiresAt.IsZero() {
		q.ExpiresAt = q.CreatedAt.Add(QuoteValidity)
	}
	return nil
}

// TotalPrice returns price * (1 + VAT rate), rounded to the cent.
func (q *Quote) TotalPrice() float64 {
	if q.Price == 0 {
		return 0
	}
	price := decimal.NewFromFloat(q.Price)
	rate := decimal.NewFromFloat(q.VATRate)
	return price.Mul(decimal.NewFromInt(1).Add(rate)).Round(2).InexactFloat64()
}

// VATAmount returns the tax part of TotalPrice.
func (q *Quote) VATAmount() float64 {
	total := decimal.NewFromFloat(q.TotalPrice())
	return total.Sub(decimal.NewFromFloat(q.Price)).Round(2).InexactFloat64()
}
