// Package models holds the gorm entities of the back-office.
package models

// All returns every model in dependency order, for AutoMigrate and tests.
func All() []any {
	return []any{
		&User{},
		&Client{},
		&Equipment{},
		&Quote{},
		&Alert{},
		&Employee{},
		&LeaveRequest{},
		&Candidate{},
		&Chantier{},
		&Document{},
		&Facture{},
		&SavTicket{},
		&PlanningEvent{},
		&Hebergement{},
		&Sequence{},
	}
}
