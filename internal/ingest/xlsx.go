package ingest

import (
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	apierrors "gexcli/internal/errors"
	"gexcli/pkg/contracts/domain"
)

// ParseWorkbook reads an XLSX chain export and feeds the first sheet whose
// header row resolves the required canonical columns through the generic row
// pipeline. Broker workbook exports vary in sheet naming, so every sheet is
// probed rather than trusting the active one.
func (p *Parser) ParseWorkbook(path string) (*domain.ParseResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apierrors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}

		headerRow, headers := findHeaderRow(rows)
		if headerRow < 0 {
			continue
		}

		p.logger.Info("found option chain sheet",
			slog.String("sheet", sheet),
			slog.Int("header_row", headerRow),
			slog.Int("total_rows", len(rows)))

		result := &domain.ParseResult{
			Records:  []domain.OptionRecord{},
			Errors:   []string{},
			Warnings: []string{},
		}
		return p.parseTable(headers, rows[headerRow+1:], nil, result), nil
	}

	return nil, apierrors.NewParsingError("could not find an option chain sheet in workbook", nil)
}

// findHeaderRow scans the leading rows of a sheet for one that resolves the
// required canonical columns. Workbooks often carry title or export-date rows
// above the real header.
func findHeaderRow(rows [][]string) (int, []string) {
	limit := 10
	if len(rows) < limit {
		limit = len(rows)
	}

	for i := 0; i < limit; i++ {
		headers := make([]string, len(rows[i]))
		for j, h := range rows[i] {
			headers[j] = strings.TrimSpace(h)
		}
		mapping := DetectColumnMapping(headers)
		if len(missingRequired(mapping)) == 0 {
			return i, headers
		}
	}
	return -1, nil
}
