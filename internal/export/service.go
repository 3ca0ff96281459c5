// Package export renders a batch run as an XLSX report for human review.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/obafemi-akin/policy-extract/internal/batch"
)

// Service produces XLSX bytes from a batch summary.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// BatchReportXLSX returns an XLSX workbook (as bytes) for a batch run:
// aggregate counts on top, one row per document below.
func (s *Service) BatchReportXLSX(summary batch.Summary) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Documents"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	// Aggregate block
	write(1, 1, "Total")
	write(2, 1, summary.Total)
	write(3, 1, "Successful")
	write(4, 1, summary.Successful)
	write(5, 1, "Failed")
	write(6, 1, summary.Failed)

	headers := []string{"Input", "Output", "Status", "Error"}
	for i, h := range headers {
		write(i+1, 3, h)
	}

	row := 4
	for _, fr := range summary.Files {
		write(1, row, fr.Input)
		if fr.Output != nil {
			write(2, row, *fr.Output)
		} else {
			write(2, row, "")
		}
		write(3, row, string(fr.Status))
		write(4, row, truncate(fr.Error, 200))
		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "B", 60) // paths
	_ = f.SetColWidth(sheet, "C", "C", 12) // status
	_ = f.SetColWidth(sheet, "D", "D", 80) // error

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(summary.Files),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
