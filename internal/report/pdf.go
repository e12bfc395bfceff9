package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfRowHeight    = 6.0
	pdfHeaderHeight = 7.0
	pdfMargin       = 12.0
)

func renderPDF(t *table, meta Metadata) (*bytes.Buffer, error) {
	orientation := "P"
	if len(t.headers) > 5 {
		orientation = "L"
	}

	pdf := gofpdf.New(orientation, "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// ── header block ──
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, tr(meta.Institution), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, tr(meta.Title), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	for _, kv := range meta.pairs()[2:] {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(40, 5, tr(kv.Name+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 5, tr(kv.Value), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── table ──
	pageW, pageH := pdf.GetPageSize()
	widths := columnWidths(t.weights, pageW-2*pdfMargin)

	drawHeader := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(68, 114, 196)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range t.headers {
			pdf.CellFormat(widths[i], pdfHeaderHeight, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Arial", "", 9)
	}
	drawHeader()

	for _, row := range t.rows {
		if pdf.GetY()+pdfRowHeight > pageH-2*pdfMargin {
			pdf.AddPage()
			drawHeader()
		}
		for i, v := range row {
			align := "L"
			if t.numeric[i] {
				align = "R"
			}
			text := fitText(pdf, tr(cellText(v)), widths[i]-2)
			pdf.CellFormat(widths[i], pdfRowHeight, text, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if pdf.Err() {
		return nil, pdf.Error()
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func columnWidths(weights []float64, usable float64) []float64 {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	widths := make([]float64, len(weights))
	for i, w := range weights {
		widths[i] = usable * w / total
	}
	return widths
}

// fitText truncates s with "..." until it fits width
func fitText(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if pdf.GetStringWidth(candidate) <= width {
			return candidate
		}
	}
	return ""
}
