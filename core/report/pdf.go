// Package report — PDF renderer.
// Lays out the scan result as a printable document with gofpdf: a summary
// header, the per-page screenshots, and the findings table with severity
// colouring and evidence thumbnails.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"github.com/karthik-anand/webaudit/core"
)

// PDFRenderer renders a ScanResult as a PDF document.
type PDFRenderer struct{}

var _ core.Renderer = (*PDFRenderer)(nil)

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// A4 portrait content area with 10mm margins.
const (
	contentWidth = 190.0
	pageBottom   = 275.0
	lineHeight   = 4.0
	thumbHeight  = 24.0
)

// Findings table column widths, summing to contentWidth.
var colWidths = []float64{38, 40, 62, 16, 34}

var colHeaders = []string{"Issue", "Page", "Description", "Severity", "Evidence"}

// Render builds the PDF bytes. Missing screenshot files degrade to an
// explicit "N/A" marker; a build failure returns an error and no partial
// report.
func (r *PDFRenderer) Render(result *core.ScanResult, shotsDir string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 15)
	pdf.AddPage()

	r.header(pdf, result)
	r.pageScreenshots(pdf, result, shotsDir)
	r.findingsTable(pdf, result, shotsDir)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("building PDF report: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func (r *PDFRenderer) header(pdf *gofpdf.Fpdf, result *core.ScanResult) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentWidth, 10, "Usability Testing Report", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	counts := result.SeverityCounts()
	pdf.SetFont("Helvetica", "", 10)
	summary := fmt.Sprintf("Pages scanned: %d    Findings: %d (High %d / Medium %d / Low %d)",
		len(result.Pages), len(result.Findings),
		counts[core.SeverityHigh], counts[core.SeverityMedium], counts[core.SeverityLow])
	pdf.CellFormat(contentWidth, 6, summary, "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (r *PDFRenderer) pageScreenshots(pdf *gofpdf.Fpdf, result *core.ScanResult, shotsDir string) {
	if len(result.Pages) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentWidth, 8, "Screenshots of Tested Pages", "", 1, "L", false, 0, "")

	for _, page := range result.Pages {
		r.breakIfNeeded(pdf, 70)

		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(contentWidth, 5, "Page: "+page.URL, "", "L", false)

		path := filepath.Join(shotsDir, page.Screenshot)
		if page.Screenshot != "" && fileExists(path) {
			pdf.ImageOptions(path, pdf.GetX(), pdf.GetY(), 120, 0, true,
				gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		} else {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(contentWidth, 5, "Screenshot unavailable", "", 1, "L", false, 0, "")
		}

		if page.Preview != "" {
			pdf.Ln(2)
			pdf.SetFont("Courier", "", 7)
			pdf.SetTextColor(90, 90, 90)
			pdf.MultiCell(contentWidth, 3.5, page.Preview, "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Ln(4)
	}
	pdf.Ln(4)
}

func (r *PDFRenderer) findingsTable(pdf *gofpdf.Fpdf, result *core.ScanResult, shotsDir string) {
	pdf.SetFont("Helvetica", "B", 13)
	if len(result.Findings) == 0 {
		pdf.CellFormat(contentWidth, 8, "No major issues found!", "", 1, "L", false, 0, "")
		return
	}
	r.breakIfNeeded(pdf, 30)
	pdf.CellFormat(contentWidth, 8, "Detected Issues", "", 1, "L", false, 0, "")

	r.tableHeader(pdf)
	for _, f := range result.Findings {
		r.tableRow(pdf, f, shotsDir)
	}
}

func (r *PDFRenderer) tableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(245, 245, 245)
	for i, h := range colHeaders {
		pdf.CellFormat(colWidths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
}

func (r *PDFRenderer) tableRow(pdf *gofpdf.Fpdf, f core.Finding, shotsDir string) {
	pdf.SetFont("Helvetica", "", 8)

	cells := []string{f.Rule, f.PageURL, f.Description, string(f.Severity)}
	var lines [][]string
	rowHeight := thumbHeight + 2 // evidence thumbnail sets the floor
	for i, text := range cells {
		split := pdf.SplitText(text, colWidths[i]-2)
		lines = append(lines, split)
		if h := float64(len(split))*lineHeight + 2; h > rowHeight {
			rowHeight = h
		}
	}

	if pdf.GetY()+rowHeight > pageBottom {
		pdf.AddPage()
		r.tableHeader(pdf)
		pdf.SetFont("Helvetica", "", 8)
	}

	x, y := pdf.GetX(), pdf.GetY()
	for i, split := range lines {
		pdf.Rect(x, y, colWidths[i], rowHeight, "D")
		if i == 3 {
			r.severityColor(pdf, f.Severity)
		}
		for j, line := range split {
			pdf.SetXY(x+1, y+1+float64(j)*lineHeight)
			pdf.CellFormat(colWidths[i]-2, lineHeight, line, "", 0, "L", false, 0, "")
		}
		pdf.SetTextColor(0, 0, 0)
		x += colWidths[i]
	}

	// Evidence column: thumbnail or explicit N/A.
	pdf.Rect(x, y, colWidths[4], rowHeight, "D")
	shotPath := filepath.Join(shotsDir, f.EvidenceRef)
	if f.EvidenceRef != "" && fileExists(shotPath) {
		pdf.ImageOptions(shotPath, x+1, y+1, colWidths[4]-2, thumbHeight, false,
			gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	} else {
		pdf.SetXY(x+1, y+1)
		pdf.CellFormat(colWidths[4]-2, lineHeight, "N/A", "", 0, "L", false, 0, "")
	}

	pdf.SetXY(10, y+rowHeight)
}

func (r *PDFRenderer) severityColor(pdf *gofpdf.Fpdf, sev core.Severity) {
	switch sev {
	case core.SeverityHigh:
		pdf.SetTextColor(200, 0, 0)
	case core.SeverityMedium:
		pdf.SetTextColor(220, 120, 0)
	default:
		pdf.SetTextColor(0, 140, 0)
	}
}

func (r *PDFRenderer) breakIfNeeded(pdf *gofpdf.Fpdf, needed float64) {
	if pdf.GetY()+needed > pageBottom {
		pdf.AddPage()
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
