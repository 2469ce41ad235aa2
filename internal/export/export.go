// Package export writes list pages as XLSX workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/diewo77/go-backoffice/internal/models"
)

const dateLayout = "2006-01-02"

// Sheet is a header row plus data rows.
type Sheet struct {
	Name    string
	Headers []string
	Widths  []float64
	Rows    [][]any
}

// Write renders the sheet as an .xlsx document into w.
func Write(w io.Writer, s Sheet) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", s.Name); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}

	for i, h := range s.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(s.Name, cell, h)
		f.SetCellStyle(s.Name, cell, cell, headerStyle)
	}
	for r, row := range s.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(s.Name, cell, v)
		}
	}
	for i, width := range s.Widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(s.Name, col, col, width)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func optDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return date(*t)
}

// Clients lays out the client list.
func Clients(clients []models.Client) Sheet {
	s := Sheet{
		Name:    "Clients",
		Headers: []string{"ID", "Name", "Company", "Email", "Phone", "Address", "Status", "Last contact"},
		Widths:  []float64{6, 24, 24, 28, 16, 32, 12, 14},
	}
	for _, c := range clients {
		s.Rows = append(s.Rows, []any{c.ID, c.Name, c.Company, c.Email, c.Phone, c.Address, c.Status, date(c.LastContact)})
	}
	return s
}

// Equipment lays out the equipment list.
func Equipment(items []models.Equipment) Sheet {
	s := Sheet{
		Name:    "Equipment",
		Headers: []string{"ID", "Name", "Brand", "Model", "Serial number", "Status", "Purchase date", "Last maintenance", "Next maintenance", "Client"},
		Widths:  []float64{6, 22, 16, 16, 18, 18, 14, 16, 16, 22},
	}
	for _, e := range items {
		client := ""
		if e.Client != nil {
			client = e.Client.Name
		}
		s.Rows = append(s.Rows, []any{e.ID, e.Name, e.Brand, e.Model, e.SerialNumber, e.Status,
			optDate(e.PurchaseDate), optDate(e.LastMaintenance), optDate(e.NextMaintenance), client})
	}
	return s
}

// Employees lays out the employee list.
func Employees(employees []models.Employee) Sheet {
	s := Sheet{
		Name:    "Employees",
		Headers: []string{"ID", "Full name", "Position", "Email", "Phone", "Hire date", "Salary", "Active"},
		Widths:  []float64{6, 24, 20, 28, 16, 14, 12, 8},
	}
	for _, e := range employees {
		var salary any = ""
		if e.Salary != nil {
			salary = *e.Salary
		}
		active := "no"
		if e.IsActive {
			active = "yes"
		}
		s.Rows = append(s.Rows, []any{e.ID, e.FullName, e.Position, e.Email, e.Phone, date(e.HireDate), salary, active})
	}
	return s
}
