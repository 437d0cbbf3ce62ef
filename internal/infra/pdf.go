package infra

// pdf.go: profitability report export using go-pdf/fpdf.
// A4 landscape, one row per product:
//   - Business name header and generation time
//   - Product, category, prices, stock, unit profit, margin, potential profit
//   - Totals block (inventory value, potential profit, average margin)

import (
	"fmt"
	"io"
	"time"

	"github.com/offset122/PubInventoryTracker/internal/currency"
	"github.com/offset122/PubInventoryTracker/internal/dto"

	"github.com/go-pdf/fpdf"
)

// ReportMeta is the non-tabular context printed on a report.
type ReportMeta struct {
	BusinessName string
	Currency     string
	GeneratedAt  time.Time
}

// GenerateProfitabilityPDF writes the profitability view as a PDF to w.
func GenerateProfitabilityPDF(w io.Writer, report dto.ProfitabilityResponse, meta ReportMeta) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	money := func(s string) string { return tr(currency.FormatString(s, meta.Currency)) }

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// column widths as fractions of the content width
	widths := []float64{0.22, 0.14, 0.10, 0.10, 0.07, 0.11, 0.10, 0.16}
	headers := []string{"Product", "Category", "Buying", "Selling", "Stock", "Unit profit", "Margin %", "Potential profit"}
	aligns := []string{"L", "L", "R", "R", "R", "R", "R", "R"}
	for i := range widths {
		widths[i] *= contentW
	}

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 6, h, "1", 0, aligns[i], true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(0, 4, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// ── Title ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr(meta.BusinessName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Product profitability", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Generated "+meta.GeneratedAt.Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Rows ─────────────────────────────────────────────────────────────────
	header()
	if len(report.Products) == 0 {
		pdf.CellFormat(contentW, 6, "No products", "1", 1, "C", false, 0, "")
	}
	for _, p := range report.Products {
		if p.NegativeMargin {
			pdf.SetTextColor(180, 0, 0)
		}
		cells := []string{
			tr(truncate(p.Name, 40)),
			tr(truncate(p.Category, 24)),
			money(p.BuyingPrice),
			money(p.SellingPrice),
			fmt.Sprintf("%d", p.CurrentStock),
			money(p.UnitProfit),
			p.ProfitMargin,
			money(p.PotentialProfit),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 5, c, "1", 0, aligns[i], false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.Ln(4)
	labelW, valueW := contentW*0.25, contentW*0.20
	totals := [][2]string{
		{"Total inventory value", money(report.TotalInventoryValue)},
		{"Total potential profit", money(report.TotalPotentialProfit)},
		{"Average margin", report.AverageMargin + " %"},
	}
	for _, t := range totals {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(labelW, 6, t[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(valueW, 6, t[1], "", 1, "R", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "..."
}
