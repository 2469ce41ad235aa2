package models

import "time"

// PlanningEvent is a calendar entry shared by all users.
type PlanningEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Start       time.Time `gorm:"not null;index" json:"start"`
	End         time.Time `gorm:"not null" json:"end"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
}

// Hebergement is a lodging booked for one or more employees.
type Hebergement struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Address   string     `gorm:"size:255;not null" json:"address"`
	StartDate time.Time  `gorm:"not null" json:"start_date"`
	EndDate   time.Time  `gorm:"not null" json:"end_date"`
	Cost      float64    `gorm:"type:decimal(12,2);not null;default:0" json:"cost"`
	Notes     string     `gorm:"type:text" json:"notes,omitempty"`
	Employees []Employee `gorm:"many2many:hebergement_employees;" json:"employees,omitempty"`
}

// Sequence is a named counter used to mint document numbers.
type Sequence struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"uniqueIndex;size:50;not null"`
	Value uint   `gorm:"not null"`
}
