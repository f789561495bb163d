package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"legalens/internal/common"
	"legalens/internal/llm"
)

// ConcernsXLSX returns an XLSX workbook (as bytes) listing the flagged
// clauses, one row per concern.
func ConcernsXLSX(entries []llm.ConcernEntry) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Concerns"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"Severity",
		"Clause",
		"Concern",
		"Recommendation",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, e := range entries {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, e.Severity)
		write(2, e.Clause)
		write(3, e.Concern)
		write(4, e.Recommendation)
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveConcernsXLSX writes the concerns workbook under the output directory.
// Fails like SavePDF does when there is nothing to export.
func (s *Service) SaveConcernsXLSX(entries []llm.ConcernEntry, filename string) (string, error) {
	if len(entries) == 0 {
		return "", common.NewAppError("NO_ANALYSIS", "no concerns to export", common.ErrNoAnalysis)
	}

	if filename == "" {
		filename = "concerning_clauses_" + time.Now().Format("20060102_150405") + ".xlsx"
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		filename += ".xlsx"
	}
	filename = filepath.Base(filename)

	data, err := ConcernsXLSX(entries)
	if err != nil {
		return "", common.NewAppError("EXPORT_ERROR", "error saving workbook: "+err.Error(), err)
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", common.NewAppError("EXPORT_ERROR", "error saving workbook: "+err.Error(), err)
	}
	path := filepath.Join(s.outputDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", common.NewAppError("EXPORT_ERROR", "error saving workbook: "+err.Error(), err)
	}

	s.logger.Info("export.xlsx_saved", "file", path, "rows", len(entries))
	return filename, nil
}
