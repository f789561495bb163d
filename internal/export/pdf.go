package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"legalens/internal/common"
)

// Service renders analysis artifacts and writes them under the output
// directory for later download.
type Service struct {
	outputDir string
	logger    *slog.Logger
}

func NewService(outputDir string, logger *slog.Logger) *Service {
	if outputDir == "" {
		outputDir = "outputs"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{outputDir: outputDir, logger: logger}
}

// OutputDir returns the directory artifacts are written to.
func (s *Service) OutputDir() string {
	return s.outputDir
}

// RenderPDF lays the analysis text out as a paginated PDF: a fixed title
// header, the generation timestamp, then the body line by line. A blank line
// becomes vertical spacing rather than an empty paragraph.
func RenderPDF(content string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont("Arial", "B", 16)
	doc.CellFormat(0, 10, "Legal Document Analysis", "", 1, "C", false, 0, "")
	doc.Ln(5)

	doc.SetFont("Arial", "I", 10)
	doc.CellFormat(0, 10, "Generated: "+time.Now().Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
	doc.Ln(5)

	doc.SetFont("Arial", "", 11)
	for _, line := range strings.Split(toLatin1(content), "\n") {
		if strings.TrimSpace(line) != "" {
			doc.MultiCell(0, 6, tr(line), "", "L", false)
		} else {
			doc.Ln(3)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// toLatin1 replaces runes outside the core-font codepage with '?', so exotic
// model output cannot fail the export.
func toLatin1(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r > 0xFF {
			b.WriteByte('?')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SavePDF renders content and writes it under the output directory. filename
// is optional; a timestamp-derived name is used when absent and a .pdf
// extension is enforced. An empty content slot fails before any file is
// written.
func (s *Service) SavePDF(content, filename string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", common.NewAppError("NO_ANALYSIS", "no analysis to save", common.ErrNoAnalysis)
	}

	if filename == "" {
		filename = "legal_analysis_" + time.Now().Format("20060102_150405") + ".pdf"
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		filename += ".pdf"
	}
	// writes stay inside the output directory
	filename = filepath.Base(filename)

	data, err := RenderPDF(content)
	if err != nil {
		return "", common.NewAppError("EXPORT_ERROR", "error saving PDF: "+err.Error(), err)
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", common.NewAppError("EXPORT_ERROR", "error saving PDF: "+err.Error(), err)
	}
	path := filepath.Join(s.outputDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", common.NewAppError("EXPORT_ERROR", "error saving PDF: "+err.Error(), err)
	}

	s.logger.Info("export.pdf_saved", "file", path, "bytes", len(data))
	return filename, nil
}
