// Package receipt renders payment receipts as PDF documents.
package receipt

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// Receipt holds everything printed on a receipt. Empty optional fields are
// left off the page.
type Receipt struct {
	Number        string
	Brand         string
	IssuedAt      time.Time
	SessionID     string
	Nickname      string
	Email         string
	Phone         string
	Description   string
	Amount        string // display units, e.g. "25.00"
	Currency      string
	PaymentMethod string
}

type Renderer struct {
	location *time.Location
}

// NewRenderer returns a renderer that prints timestamps in loc (UTC if nil).
func NewRenderer(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{location: loc}
}

func (r *Renderer) Render(rc Receipt) ([]byte, error) {
	if rc.SessionID == "" {
		return nil, fmt.Errorf("receipt: session id required")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(rc.Brand, true)
	pdf.SetCreator("paylink", true)
	pdf.SetCreationDate(rc.IssuedAt)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// Core fonts are cp1252; accented Italian text needs translating.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(rc.Brand), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(90, 90, 90)
	if rc.Number != "" {
		pdf.CellFormat(0, 6, tr("N. "+rc.Number), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, rc.IssuedAt.In(r.location).Format("02/01/2006 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	for _, row := range rows(rc) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 8, tr(row[0]), "B", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, tr(row[1]), "B", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(50, 10, tr("Totale"), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 10, tr(formatTotal(rc.Amount, rc.Currency)), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func rows(rc Receipt) [][2]string {
	all := [][2]string{
		{"Sessione", rc.SessionID},
		{"Venditore", rc.Nickname},
		{"Cliente", rc.Email},
		{"Telefono", rc.Phone},
		{"Descrizione", rc.Description},
		{"Metodo di pagamento", rc.PaymentMethod},
	}
	out := all[:0]
	for _, r := range all {
		if strings.TrimSpace(r[1]) != "" {
			out = append(out, r)
		}
	}
	return out
}

func formatTotal(amount, currency string) string {
	switch strings.ToLower(currency) {
	case "eur", "":
		return "EUR " + amount
	default:
		return strings.ToUpper(currency) + " " + amount
	}
}
