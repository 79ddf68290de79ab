// Package report renders an end-of-session summary PDF, grounded in the
// teacher's internal/adapters/reporting/pdf_exporter.go layout conventions
// (title header, statistics block, tabular histogram, footer).
package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/lcalzada-xor/airbridge/internal/core/domain"
)

// Summary is the data a session report is rendered from: the filter/session
// outcomes a driver loop accumulates outside the core (§5 keeps the core
// itself free of reporting concerns).
type Summary struct {
	SessionID      string
	LockedSSID     string
	LockedBSSID    domain.MAC
	FramesByKind   map[string]int
	FramesConverted int
	AcksBuilt      int
	FramesDropped  int
	AuditHighlights []string
}

// Exporter renders Summary values to PDF bytes.
type Exporter struct{}

// NewExporter constructs an Exporter.
func NewExporter() *Exporter { return &Exporter{} }

// Export renders s as a single-page PDF report.
func (e *Exporter) Export(s Summary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	e.addHeader(pdf, s)
	e.addStatistics(pdf, s)
	e.addFrameHistogram(pdf, s)
	e.addAuditHighlights(pdf, s)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) addHeader(pdf *gofpdf.Fpdf, s Summary) {
	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 12, "airbridge session report", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 7, "session "+s.SessionID, "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (e *Exporter) addStatistics(pdf *gofpdf.Fpdf, s Summary) {
	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, "Session overview", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	rows := [][2]string{
		{"Locked SSID", s.LockedSSID},
		{"Locked BSSID", s.LockedBSSID.String()},
		{"Frames converted", fmt.Sprintf("%d", s.FramesConverted)},
		{"Acks built", fmt.Sprintf("%d", s.AcksBuilt)},
		{"Frames dropped", fmt.Sprintf("%d", s.FramesDropped)},
	}
	for _, r := range rows {
		pdf.CellFormat(50, 6, r[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, r[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func (e *Exporter) addFrameHistogram(pdf *gofpdf.Fpdf, s Summary) {
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, "Frame kind histogram", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for kind, count := range s.FramesByKind {
		pdf.CellFormat(50, 6, kind, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", count), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func (e *Exporter) addAuditHighlights(pdf *gofpdf.Fpdf, s Summary) {
	if len(s.AuditHighlights) == 0 {
		return
	}
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, "Audit highlights", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, h := range s.AuditHighlights {
		pdf.CellFormat(0, 6, "- "+h, "", 1, "L", false, 0, "")
	}
}
