package models

import (
	"time"

	"gorm.io/gorm"
)

// SAV ticket statuses.
const (
	TicketOpen       = "Open"
	TicketInProgress = "In Progress"
	TicketClosed     = "Closed"
)

// SavTicket is an after-sales support request raised by a client.
type SavTicket struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	TicketNumber string    `gorm:"uniqueIndex;size:30;not null" json:"ticket_number"`
	ClientID     uint      `gorm:"index;not null" json:"client_id"`
	Client       *Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Status       string    `gorm:"size:20;not null;default:'Open'" json:"status"`
}

func (s *SavTicket) BeforeCreate(tx *gorm.DB) error {
	if s.Status == "" {
		s.Status = TicketOpen
	}
	return nil
}
