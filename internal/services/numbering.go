package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/diewo77/go-backoffice/internal/models"
)

// NumberKind names a document series.
type NumberKind struct {
	Name   string // sequences.name
	Prefix string
	Table  string // entity table used to seed a missing counter
}

var (
	QuoteNumbers   = NumberKind{Name: "quote", Prefix: "DEV", Table: "quotes"}
	FactureNumbers = NumberKind{Name: "facture", Prefix: "FACT", Table: "factures"}
	TicketNumbers  = NumberKind{Name: "sav_ticket", Prefix: "TICKET", Table: "sav_tickets"}
)

// Numbering mints sequential document numbers such as DEV-2025-0001.
type Numbering struct {
	now func() time.Time
}

func NewNumbering() *Numbering { return &Numbering{now: time.Now} }

// Next increments the kind's counter and formats the number. tx must be the
// transaction that inserts the numbered row so a rollback discards the value.
func (n *Numbering) Next(tx *gorm.DB, kind NumberKind) (string, error) {
	seq, err := n.increment(tx, kind)
	if err != nil {
		return "", fmt.Errorf("next %s number: %w", kind.Name, err)
	}
	return FormatNumber(kind.Prefix, n.now().Year(), seq), nil
}

// FormatNumber renders <PREFIX>-<year>-<seq4>.
func FormatNumber(prefix string, year int, seq uint) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

func (n *Numbering) increment(tx *gorm.DB, kind NumberKind) (uint, error) {
	res := tx.Model(&models.Sequence{}).
		Where("name = ?", kind.Name).
		UpdateColumn("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		var maxID uint
		if err := tx.Table(kind.Table).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return 0, err
		}
		seed := models.Sequence{Name: kind.Name, Value: maxID + 1}
		ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed)
		if ins.Error != nil {
			return 0, ins.Error
		}
		if ins.RowsAffected == 0 {
			// Another transaction seeded the row first.
			if err := tx.Model(&models.Sequence{}).Where("name = ?", kind.Name).
				UpdateColumn("value", gorm.Expr("value + 1")).Error; err != nil {
				return 0, err
			}
		}
	}
	var s models.Sequence
	if err := tx.Where("name = ?", kind.Name).First(&s).Error; err != nil {
		return 0, err
	}
	return s.Value, nil
}
