// Package export renders invoices to PDF and keeps an on-disk archive in
// sync with invoice events.
package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"adbill/internal/core"
)

// Renderer produces A4 invoice PDFs. The zero value is ready to use.
type Renderer struct{}

// Render lays out the invoice with its full monetary breakdown and the
// payable amount in the client's preferred currency.
func (Renderer) Render(inv core.Invoice) ([]byte, error) {
	b := core.ComputeBreakdown(inv.Items, inv.TaxRate, core.FullOptions)
	payable, err := core.Convert(b.Total, inv.Client.PreferredCurrency, inv.Client)
	if err != nil {
		return nil, fmt.Errorf("convert total: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(100, 10, "INVOICE")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(80, 10, inv.InvoiceNumber, "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(90, 6, "Date: "+inv.Date.Format("Jan 2, 2006"), "", 0, "", false, 0, "")
	pdf.CellFormat(90, 6, "Due: "+inv.DueDate.Format("Jan 2, 2006"), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, "Bill To", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, inv.Client.Name, "", 1, "", false, 0, "")
	if inv.Client.Address != "" {
		pdf.CellFormat(0, 5, inv.Client.Address, "", 1, "", false, 0, "")
	}
	if inv.Client.Email != "" {
		pdf.CellFormat(0, 5, inv.Client.Email, "", 1, "", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(95, 7, "Description", "1", 0, "", true, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 7, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 7, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range inv.Items {
		desc := item.Description
		if item.IsAdSpend {
			desc += " (ad spend)"
		}
		pdf.CellFormat(95, 7, desc, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 7, trimFloat(item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", item.Total()), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	summaryLine(pdf, "Ad Spend (pass-through)", b.AdSpendBase, false)
	summaryLine(pdf, "Service Fees", b.ServiceFees, false)
	summaryLine(pdf, "Ad Spend Margin (15%)", b.MarginEarned, false)
	summaryLine(pdf, "Subtotal", b.Subtotal, false)
	summaryLine(pdf, fmt.Sprintf("Tax (%s%%)", trimFloat(inv.TaxRate)), b.Tax, false)
	summaryLine(pdf, "Total (USD)", b.Total, true)

	if inv.Client.PreferredCurrency != core.USD {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(155, 7, fmt.Sprintf("Payable in %s", inv.Client.PreferredCurrency), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, core.Format(payable, inv.Client.PreferredCurrency), "", 1, "R", false, 0, "")
	}

	if inv.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Notes", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, inv.Notes, "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func summaryLine(pdf *gofpdf.Fpdf, label string, amount float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Arial", style, 10)
	pdf.CellFormat(155, 6, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, fmt.Sprintf("$%.2f", amount), "", 1, "R", false, 0, "")
}

// trimFloat drops trailing zeros so quantities print as "2" or "2.5", not
// "2.00".
func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
