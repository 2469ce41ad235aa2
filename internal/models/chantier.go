package models

import (
	"time"

	"gorm.io/gorm"
)

// Chantier statuses.
const (
	ChantierPlanned    = "Planned"
	ChantierInProgress = "In Progress"
	ChantierCompleted  = "Completed"
)

var ChantierStatuses = []string{ChantierPlanned, ChantierInProgress, ChantierCompleted}

// Chantier is a work site or project carried out for a client.
type Chantier struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Name        string     `gorm:"size:150;not null" json:"name"`
	ClientID    uint       `gorm:"index;not null" json:"client_id"`
	Client      *Client    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Address     string     `gorm:"size:255" json:"address,omitempty"`
	Status      string     `gorm:"size:30;not null;default:'Planned'" json:"status"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Documents   []Document `gorm:"foreignKey:ChantierID" json:"documents,omitempty"`
}

func (c *Chantier) BeforeCreate(tx *gorm.DB) error {
	if c.Status == "" {
		c.Status = ChantierPlanned
	}
	return nil
}

// Document is a file or link, owned by a user and optionally attached to a chantier.
type Document struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:200;not null" json:"name"`
	URL        string    `gorm:"size:500;not null" json:"url"`
	UploadedAt time.Time `gorm:"not null" json:"uploaded_at"`
	ChantierID *uint     `gorm:"index" json:"chantier_id,omitempty"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"-"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now()
	}
	return nil
}
