package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// A4 page geometry shared by both engines, in millimetres.
const (
	PageWidthMM    = 210.0
	PageHeightMM   = 297.0
	MarginTopMM    = 20.0
	MarginBottomMM = 20.0
	MarginSideMM   = 15.0
)

// PDFEngine paginates a rendered report onto A4. Engines may use either the
// structured Document or the HTML fragment rendered from it.
type PDFEngine interface {
	Name() string
	RenderPDF(ctx context.Context, doc *Document, fragment string) ([]byte, error)
}

// NativeEngine lays the Document out with gofpdf. It needs no browser.
type NativeEngine struct{}

// NewNativeEngine constructs a gofpdf backed engine.
func NewNativeEngine() *NativeEngine {
	return &NativeEngine{}
}

// Name identifies the engine in logs.
func (e *NativeEngine) Name() string { return "native" }

// RenderPDF draws doc on A4 portrait pages.
func (e *NativeEngine) RenderPDF(ctx context.Context, doc *Document, _ string) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(MarginSideMM, MarginTopMM, MarginSideMM)
	pdf.SetAutoPageBreak(true, MarginBottomMM)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	width := PageWidthMM - 2*MarginSideMM

	pdf.SetFont("Arial", "B", 14)
	pdf.MultiCell(width, 7, tr(doc.Title), "", "C", false)
	pdf.Ln(3)

	pdf.SetFont("Arial", "", 10)
	for _, f := range doc.Meta {
		pdf.CellFormat(width, 6, tr(f.Label+" "+f.Value), "", 1, "L", false, 0, "")
	}

	for _, section := range doc.Sections {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(width, 6, tr(section.Title), "", "L", false)
		for _, table := range section.Tables {
			if table.Caption != "" {
				pdf.SetFont("Arial", "I", 10)
				pdf.CellFormat(width, 6, tr(table.Caption), "", 1, "L", false, 0, "")
			}
			drawTable(pdf, tr, table, width)
		}
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	for _, f := range doc.Footer {
		pdf.CellFormat(width, 7, tr(f.Label+" "+f.Value), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawTable(pdf *gofpdf.Fpdf, tr func(string) string, table Table, width float64) {
	widths := columnWidths(table, width)
	if len(table.Columns) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(232, 232, 232)
		for i, col := range table.Columns {
			pdf.CellFormat(widths[i], 7, tr(col), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetFont("Arial", "", 10)
	for _, row := range table.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			align := "L"
			if i == len(row)-1 && i > 0 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 7, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// columnWidths gives label/value tables a wide label column and splits
// headed tables evenly.
func columnWidths(table Table, width float64) []float64 {
	cols := len(table.Columns)
	if cols == 0 {
		for _, row := range table.Rows {
			if len(row) > cols {
				cols = len(row)
			}
		}
	}
	if cols == 0 {
		return nil
	}
	widths := make([]float64, cols)
	if len(table.Columns) == 0 && cols == 2 {
		widths[0] = width * 0.75
		widths[1] = width - widths[0]
		return widths
	}
	for i := range widths {
		widths[i] = width / float64(cols)
	}
	return widths
}
