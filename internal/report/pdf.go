// Package report renders HealthChain medical reports as PDF files.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/harentsoaR/healthchain-api/internal/models"
)

// Document is everything printed on a report.
type Document struct {
	ReportID    string
	PatientName string
	IssuedAt    time.Time
	Logs        []models.HealthLog
	Analysis    string
}

var logColumns = []struct {
	title string
	width float64
}{
	{"Timestamp", 45},
	{"Mood", 25},
	{"Sleep", 20},
	{"Water", 20},
	{"Exercise", 25},
	{"Note", 60},
}

// Render writes doc as a Letter-size PDF to w.
func Render(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "HealthChain Medical Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr("Patient: "+doc.PatientName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Report ID: "+doc.ReportID, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date Issued: "+doc.IssuedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Health Logs", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range logColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	if len(doc.Logs) == 0 {
		pdf.CellFormat(0, 7, "No logs recorded", "1", 1, "C", false, 0, "")
	}
	for _, l := range doc.Logs {
		row := []string{
			l.Timestamp.Format("2006-01-02 15:04"),
			l.Mood,
			fmt.Sprintf("%g h", l.Sleep),
			fmt.Sprintf("%g L", l.Water),
			fmt.Sprintf("%g min", l.Exercise),
			truncate(l.Note, 35),
		}
		for i, col := range logColumns {
			pdf.CellFormat(col.width, 7, tr(row[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "AI Analysis Report", "", 1, "L", false, 0, "")
	for _, line := range strings.Split(doc.Analysis, "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
		if line == "" {
			continue
		}
		if strings.Contains(line, "Disclaimer") {
			pdf.SetFont("Helvetica", "I", 10)
		} else {
			pdf.SetFont("Helvetica", "", 11)
		}
		pdf.MultiCell(0, 6, tr(line), "", "L", false)
		pdf.Ln(1)
	}

	return pdf.Output(w)
}

// FileName is the on-disk name of a report's PDF.
func FileName(reportID string) string {
	return "report_" + reportID + ".pdf"
}

// WriteFile renders doc into dir and returns the file path.
func WriteFile(dir string, doc Document) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}
	path := filepath.Join(dir, FileName(doc.ReportID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	if err := Render(f, doc); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("render report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close report file: %w", err)
	}
	return path, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
