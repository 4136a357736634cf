package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMargin = 10.0
	rowHeight  = 7.0
)

// PDFExporter renders datasets into a tabular PDF with numeric columns right aligned.
type PDFExporter struct {
	// Now stamps the footer; nil leaves the footer without a date.
	Now func() string
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title. Wide tables switch to landscape
// and the header row repeats on every page.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}

	orientation := "P"
	if len(data.Headers) > 6 {
		orientation = "L"
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(pageMargin, 15, pageMargin)
	pdf.SetAutoPageBreak(true, 15)

	pageWidth, _ := pdf.GetPageSize()
	colWidth := (pageWidth - 2*pageMargin) / float64(len(data.Headers))
	numeric := numericColumns(data)

	pdf.SetHeaderFunc(func() {
		if title != "" && pdf.PageNo() == 1 {
			pdf.SetFont("Arial", "B", 14)
			pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
			pdf.Ln(3)
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 8, header, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		footer := fmt.Sprintf("Page %d", pdf.PageNo())
		if e.Now != nil {
			footer = e.Now() + " - " + footer
		}
		pdf.CellFormat(0, 8, footer, "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			align := "L"
			if numeric[i] {
				align = "R"
			}
			pdf.CellFormat(colWidth, rowHeight, row[header], "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// numericColumns marks columns whose non-empty cells all parse as integers.
func numericColumns(data Dataset) []bool {
	numeric := make([]bool, len(data.Headers))
	for i, header := range data.Headers {
		seen := false
		numeric[i] = true
		for _, row := range data.Rows {
			value := row[header]
			if value == "" {
				continue
			}
			seen = true
			if _, err := strconv.Atoi(value); err != nil {
				numeric[i] = false
				break
			}
		}
		numeric[i] = numeric[i] && seen
	}
	return numeric
}
