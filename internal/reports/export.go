package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Format is an export encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// Resource names an exportable dataset.
type Resource string

const (
	ResourceCustomers   Resource = "customers"
	ResourceInventory   Resource = "inventory"
	ResourceServiceLogs Resource = "service_logs"
	ResourceSchedule    Resource = "schedule"
)

// Export is an encoded report ready to download.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// table is the format-neutral shape every export renders from.
type table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func encode(t table, format Format, generatedAt time.Time) (*Export, error) {
	stamp := generatedAt.UTC().Format("20060102-150405")
	switch format {
	case FormatCSV:
		data, err := encodeCSV(t)
		if err != nil {
			return nil, err
		}
		return &Export{Filename: fmt.Sprintf("%s-%s.csv", t.Title, stamp), ContentType: "text/csv", Data: data}, nil
	case FormatPDF:
		data, err := encodePDF(t, generatedAt)
		if err != nil {
			return nil, err
		}
		return &Export{Filename: fmt.Sprintf("%s-%s.pdf", t.Title, stamp), ContentType: "application/pdf", Data: data}, nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

func encodeCSV(t table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Headers); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, fmt.Errorf("csv: write rows: %w", err)
	}
	return buf.Bytes(), nil
}

const maxPDFCell = 40

func encodePDF(t table, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "OpsDesk "+t.Title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Generated "+generatedAt.UTC().Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	if len(t.Headers) == 0 {
		return nil, fmt.Errorf("pdf: table has no columns")
	}
	colW := contentW / float64(len(t.Headers))
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 8)
	for _, h := range t.Headers {
		pdf.CellFormat(colW, 6, tr(h), "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 7)
	for _, row := range t.Rows {
		for i := range t.Headers {
			cell := ""
			if i < len(row) {
				cell = truncate(row[i], maxPDFCell)
			}
			pdf.CellFormat(colW, 5, tr(cell), "", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("%d rows", len(t.Rows)), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
