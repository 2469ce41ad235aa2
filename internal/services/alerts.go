package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/models"
)

const (
	MaintenanceHorizon = 30 * 24 * time.Hour
	QuoteExpiryHorizon = 7 * 24 * time.Hour
	ProspectFollowUp   = 30 * 24 * time.Hour
)

// AlertService rebuilds the derived alerts table.
type AlertService struct {
	db      *gorm.DB
	observe func(int)
}

// NewAlertService returns a service; observe, when non-nil, receives the
// number of alerts produced by each sweep.
func NewAlertService(db *gorm.DB, observe func(int)) *AlertService {
	return &AlertService{db: db, observe: observe}
}

// Sweep deletes every alert and recomputes them from current data in one transaction.
func (s *AlertService) Sweep(ctx context.Context, now time.Time) ([]models.Alert, error) {
	var alerts []models.Alert
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Alert{}).Error; err != nil {
			return err
		}

		y, m, d := now.Date()
		today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

		var equipment []models.Equipment
		if err := tx.Where("next_maintenance IS NOT NULL AND next_maintenance <= ?", today.Add(MaintenanceHorizon)).
			Order("next_maintenance").Find(&equipment).Error; err != nil {
			return err
		}
		for _, e := range equipment {
			alerts = append(alerts, models.Alert{
				Message:   fmt.Sprintf("Maintenance for %s (%s)", e.Name, e.Brand),
				Category:  models.AlertMaintenance,
				RelatedID: e.ID,
				DueDate:   *e.NextMaintenance,
			})
		}

		var quotes []models.Quote
		if err := tx.Preload("Client").
			Where("status = ? AND expires_at <= ?", models.QuotePending, now.Add(QuoteExpiryHorizon)).
			Order("expires_at").Find(&quotes).Error; err != nil {
			return err
		}
		for _, q := range quotes {
			clientName := ""
			if q.Client != nil {
				clientName = q.Client.Name
			}
			alerts = append(alerts, models.Alert{
				Message:   fmt.Sprintf("Quote #%s for %s expires soon", q.QuoteNumber, clientName),
				Category:  models.AlertQuote,
				RelatedID: q.ID,
				DueDate:   q.ExpiresAt,
			})
		}

		var prospects []models.Client
		if err := tx.Where("status = ? AND last_contact <= ?", models.ClientProspect, now.Add(-ProspectFollowUp)).
			Order("last_contact").Find(&prospects).Error; err != nil {
			return err
		}
		for _, c := range prospects {
			alerts = append(alerts, models.Alert{
				Message:   fmt.Sprintf("Follow up with %s", c.Name),
				Category:  models.AlertClient,
				RelatedID: c.ID,
				DueDate:   c.LastContact.Add(ProspectFollowUp),
			})
		}

		if len(alerts) == 0 {
			return nil
		}
		return tx.Create(&alerts).Error
	})
	if err != nil {
		return nil, fmt.Errorf("alert sweep: %w", err)
	}
	if s.observe != nil {
		s.observe(len(alerts))
	}
	return alerts, nil
}

// Active returns the undismissed alerts, soonest first.
func (s *AlertService) Active(ctx context.Context) ([]models.Alert, error) {
	var alerts []models.Alert
	err := s.db.WithContext(ctx).Where("dismissed = ?", false).Order("due_date asc").Find(&alerts).Error
	return alerts, err
}
