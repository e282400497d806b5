package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harentsoaR/healthchain-api/internal/models"
)

func sampleDocument() Document {
	return Document{
		ReportID:    "65f0c0ffee0000000000abcd",
		PatientName: "Zoé",
		IssuedAt:    time.Date(2026, 2, 3, 9, 30, 0, 0, time.UTC),
		Logs: []models.HealthLog{
			{Mood: "good", Sleep: 7.5, Water: 2, Exercise: 30, Note: "felt rested after a long walk in the park this morning", Timestamp: time.Now()},
		},
		Analysis: "- **Condition**: [Healthy]\n\n- **Description**: [Regular sleep]\nDisclaimer: Not a substitute for professional medical advice.",
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleDocument()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", buf.Bytes()[:16])
	}
}

func TestRenderWithoutLogs(t *testing.T) {
	doc := sampleDocument()
	doc.Logs = nil
	var buf bytes.Buffer
	if err := Render(&buf, doc); err != nil {
		t.Fatalf("render: %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	path, err := WriteFile(dir, sampleDocument())
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(path) != "report_65f0c0ffee0000000000abcd.pdf" {
		t.Fatalf("unexpected path %s", path)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Fatalf("report file missing: %v", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Fatalf("unexpected %q", got)
	}
}
