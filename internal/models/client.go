package models

import (
	"time"

	"gorm.io/gorm"
)

// Client statuses.
const (
	ClientProspect = "Prospect"
	ClientActive   = "Active"
	ClientInactive = "Inactive"
)

var ClientStatuses = []string{ClientProspect, ClientActive, ClientInactive}

// Client is a customer or prospect followed by the sales team.
type Client struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"size:150;not null;index" json:"name"`
	Email       string    `gorm:"size:150" json:"email,omitempty"`
	Phone       string    `gorm:"size:30" json:"phone,omitempty"`
	Company     string    `gorm:"size:150" json:"company,omitempty"`
	Address     string    `gorm:"size:255" json:"address,omitempty"`
	Status      string    `gorm:"size:50;not null;default:'Prospect'" json:"status"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`
	LastContact time.Time `gorm:"not null" json:"last_contact"`

	Quotes     []Quote     `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"quotes,omitempty"`
	Chantiers  []Chantier  `gorm:"foreignKey:ClientID" json:"chantiers,omitempty"`
	Factures   []Facture   `gorm:"foreignKey:ClientID" json:"factures,omitempty"`
	SavTickets []SavTicket `gorm:"foreignKey:ClientID" json:"sav_tickets,omitempty"`
}

// BeforeCreate applies the defaults a new client starts with.
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.Status == "" {
		c.Status = ClientProspect
	}
	if c.LastContact.IsZero() {
		c.LastContact = time.Now()
	}
	return nil
}
