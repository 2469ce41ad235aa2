package models

import (
	"time"

	"gorm.io/gorm"
)

// Equipment statuses.
const (
	EquipmentInService        = "In Service"
	EquipmentUnderMaintenance = "Under Maintenance"
	EquipmentOutOfService     = "Out of Service"
)

var EquipmentStatuses = []string{EquipmentInService, EquipmentUnderMaintenance, EquipmentOutOfService}

// Equipment is a maintained asset, optionally installed at a client.
type Equipment struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Name            string     `gorm:"size:150;not null" json:"name"`
	Brand           string     `gorm:"size:100" json:"brand,omitempty"`
	Model           string     `gorm:"size:100" json:"model,omitempty"`
	SerialNumber    string     `gorm:"uniqueIndex;size:100;not null" json:"serial_number"`
	PurchaseDate    *time.Time `json:"purchase_date,omitempty"`
	LastMaintenance *time.Time `json:"last_maintenance,omitempty"`
	NextMaintenance *time.Time `gorm:"index" json:"next_maintenance,omitempty"`
	Status          string     `gorm:"size:50;not null;default:'In Service'" json:"status"`
	Notes           string     `gorm:"type:text" json:"notes,omitempty"`
	ClientID        *uint      `gorm:"index" json:"client_id,omitempty"`
	Client          *Client    `gorm:"foreignKey:ClientID;constraint:OnDelete:SET NULL" json:"client,omitempty"`
}

func (Equipment) TableName() string { return "equipment" }

func (e *Equipment) BeforeCreate(tx *gorm.DB) error {
	if e.Status == "" {
		e.Status = EquipmentInService
	}
	return nil
}
