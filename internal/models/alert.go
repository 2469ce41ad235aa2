package models

import "time"

// Alert categories.
const (
	AlertMaintenance = "Maintenance"
	AlertQuote       = "Quote"
	AlertClient      = "Client"
)

// Alert is a derived reminder. Rows are rebuilt wholesale by the alert sweep.
type Alert struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Message   string    `gorm:"size:255;not null" json:"message"`
	Category  string    `gorm:"size:50;not null" json:"category"`
	RelatedID uint      `json:"related_id"`
	DueDate   time.Time `gorm:"index" json:"due_date"`
	Dismissed bool      `gorm:"not null" json:"dismissed"`
}
