// Package pdf renders printable documents.
package pdf

import (
	"errors"
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ErrUnavailable is returned when PDF rendering is switched off.
var ErrUnavailable = errors.New("pdf: renderer unavailable")

// QuoteData is everything printed on a quote.
type QuoteData struct {
	Number      string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	Status      string
	ServiceType string
	Details     string
	Price       float64
	VATRate     float64
	VATAmount   float64
	Total       float64
	Client      ClientData
	Company     string
}

type ClientData struct {
	Name    string
	Company string
	Address string
	Email   string
	Phone   string
}

// Renderer produces PDF bytes.
type Renderer interface {
	Quote(QuoteData) ([]byte, error)
}

// Disabled always fails with ErrUnavailable.
type Disabled struct{}

func (Disabled) Quote(QuoteData) ([]byte, error) { return nil, ErrUnavailable }

// Maroto renders with johnfercher/maroto.
type Maroto struct{}

func NewMaroto() *Maroto { return &Maroto{} }

var (
	titleProps = props.Text{Size: 18, Style: fontstyle.Bold, Align: align.Center}
	headProps  = props.Text{Size: 11, Style: fontstyle.Bold}
	bodyProps  = props.Text{Size: 10}
	rightProps = props.Text{Size: 10, Align: align.Right}
	totalProps = props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right}
)

func money(v float64) string { return fmt.Sprintf("%.2f EUR", v) }

func (Maroto) Quote(q QuoteData) ([]byte, error) {
	m := maroto.New(config.NewBuilder().Build())

	m.AddRow(14, text.NewCol(12, "Quote "+q.Number, titleProps))
	if q.Company != "" {
		m.AddRow(8, text.NewCol(12, q.Company, props.Text{Size: 10, Align: align.Center}))
	}
	m.AddRow(8,
		text.NewCol(6, "Date: "+q.CreatedAt.Format("2006-01-02"), bodyProps),
		text.NewCol(6, "Valid until: "+q.ExpiresAt.Format("2006-01-02"), rightProps),
	)

	m.AddRow(10, text.NewCol(12, "Client", headProps))
	for _, line := range []string{q.Client.Name, q.Client.Company, q.Client.Address, q.Client.Email, q.Client.Phone} {
		if line != "" {
			m.AddRow(6, text.NewCol(12, line, bodyProps))
		}
	}

	m.AddRow(12, text.NewCol(12, q.ServiceType, headProps))
	if q.Details != "" {
		m.AddRow(20, text.NewCol(12, q.Details, bodyProps))
	}

	m.AddRow(8,
		text.NewCol(8, "Price (excl. VAT)", bodyProps),
		text.NewCol(4, money(q.Price), rightProps),
	)
	m.AddRow(8,
		text.NewCol(8, fmt.Sprintf("VAT %.0f%%", q.VATRate*100), bodyProps),
		text.NewCol(4, money(q.VATAmount), rightProps),
	)
	m.AddRow(10,
		text.NewCol(8, "Total", headProps),
		text.NewCol(4, money(q.Total), totalProps),
	)
	m.AddRow(8, text.NewCol(12, "Status: "+q.Status, bodyProps))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate quote pdf: %w", err)
	}
	return doc.GetBytes(), nil
}
