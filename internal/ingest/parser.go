package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"gexcli/pkg/contracts/domain"
)

// defaultUnderlying is used when a generic source carries no symbol at all
const defaultUnderlying = "SPX"

// Parser converts raw chain exports into canonical option records. It holds
// no state between calls; every Parse invocation is a pure function of its
// input and wall-clock time.
type Parser struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewParser creates a parser. A nil logger falls back to slog.Default.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		logger: logger.With(slog.String("component", "chain_parser")),
		now:    time.Now,
	}
}

// Parse auto-detects the source format and parses the content. Sectioned
// broker exports take priority: if the expiry-section header pattern appears
// anywhere in the input, the sectioned parser is used exclusively.
func (p *Parser) Parse(content string) *domain.ParseResult {
	if isSectionedFormat(content) {
		p.logger.Info("detected sectioned broker export format")
		return p.parseSectioned(content)
	}
	return p.parseGeneric(content, nil)
}

// ParseWithMapping parses generic tabular content with an explicit column
// mapping, bypassing auto-detection.
func (p *Parser) ParseWithMapping(content string, mapping domain.ColumnMapping) *domain.ParseResult {
	return p.parseGeneric(content, &mapping)
}

// parseGeneric handles the one-header-row, one-record-per-row shape
func (p *Parser) parseGeneric(content string, custom *domain.ColumnMapping) *domain.ParseResult {
	result := &domain.ParseResult{
		Records:  []domain.OptionRecord{},
		Errors:   []string{},
		Warnings: []string{},
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		result.Errors = append(result.Errors, "no data found in CSV file")
		return result
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", len(rows)+2, err))
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "no data found in CSV file")
		return result
	}

	return p.parseTable(headers, rows, custom, result)
}

// parseTable runs the shared header-mapped row pipeline. It serves both the
// generic CSV path and flattened XLSX sheets.
func (p *Parser) parseTable(headers []string, rows [][]string, custom *domain.ColumnMapping, result *domain.ParseResult) *domain.ParseResult {
	result.RowCount = len(rows)

	var mapping domain.ColumnMapping
	if custom != nil {
		mapping = *custom
	} else {
		mapping = DetectColumnMapping(headers)
	}

	if missing := missingRequired(mapping); len(missing) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")))
		return result
	}

	p.logger.Info("resolved column mapping",
		slog.String("strike", mapping.Strike),
		slog.String("gamma", mapping.Gamma),
		slog.String("open_interest", mapping.OpenInterest),
		slog.Int("row_count", len(rows)))

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, exists := index[h]; !exists {
			index[h] = i
		}
	}
	cell := func(row []string, header string) string {
		if header == "" {
			return ""
		}
		i, ok := index[header]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	today := p.now().Format("2006-01-02")

	for i, row := range rows {
		p.parseGenericRow(row, i, mapping, cell, today, result)
	}

	p.imputeUnderlyingPrice(result)

	result.Success = len(result.Errors) == 0 || result.ValidRowCount > 0
	return result
}

// parseGenericRow coerces a single row. Any panic inside the row is caught
// and converted to a per-row error string so parsing continues with the
// remaining rows.
func (p *Parser) parseGenericRow(row []string, i int, mapping domain.ColumnMapping, cell func([]string, string) string, today string, result *domain.ParseResult) {
	displayRow := i + 2 // 1-based, after the header row

	defer func() {
		if r := recover(); r != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: failed to parse - %v", displayRow, r))
		}
	}()

	strike := ParseNumber(cell(row, mapping.Strike))
	gamma := ParseNumber(cell(row, mapping.Gamma))
	openInterest := ParseInt(cell(row, mapping.OpenInterest))

	// Rows without essential data are dropped without a message; they stay
	// in RowCount but never reach ValidRowCount.
	if strike == 0 || openInterest == 0 {
		return
	}

	optionType := domain.OptionTypeCall
	if raw := cell(row, mapping.Type); raw != "" {
		if parsed, ok := ParseOptionType(raw); ok {
			optionType = parsed
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: could not determine option type, defaulting to call", displayRow))
		}
	} else if symbol := cell(row, mapping.Symbol); symbol != "" {
		lower := strings.ToLower(symbol)
		if strings.Contains(lower, "p") && !strings.Contains(lower, "c") {
			optionType = domain.OptionTypePut
		}
	}

	expiry := today
	if raw := cell(row, mapping.Expiry); raw != "" {
		if parsed, ok := ParseExpiryDate(raw); ok {
			expiry = parsed
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: could not parse expiry date", displayRow))
		}
	}

	symbol := cell(row, mapping.Symbol)
	underlying := cell(row, mapping.Underlying)
	if underlying == "" {
		if symbol != "" {
			underlying = ExtractUnderlying(symbol)
		} else {
			underlying = defaultUnderlying
		}
	}
	if symbol == "" {
		symbol = syntheticSymbol(underlying, expiry, optionType, strike)
	}

	record := domain.OptionRecord{
		Symbol:            symbol,
		Underlying:        underlying,
		Expiry:            expiry,
		Strike:            strike,
		OptionType:        optionType,
		Volume:            ParseInt(cell(row, mapping.Volume)),
		OpenInterest:      openInterest,
		Delta:             ParseNumber(cell(row, mapping.Delta)),
		Gamma:             gamma,
		Theta:             ParseNumber(cell(row, mapping.Theta)),
		Vega:              ParseNumber(cell(row, mapping.Vega)),
		ImpliedVolatility: ParseNumber(cell(row, mapping.IV)),
		Bid:               ParseNumber(cell(row, mapping.Bid)),
		Ask:               ParseNumber(cell(row, mapping.Ask)),
		Last:              ParseNumber(cell(row, mapping.Last)),
		UnderlyingPrice:   ParseNumber(cell(row, mapping.UnderlyingPrice)),
	}
	record.ID = recordID(record, i)

	result.Records = append(result.Records, record)
	result.ValidRowCount++
}

// imputeUnderlyingPrice estimates the reference price when the source
// carried none at all, using the open-interest-weighted mean strike of
// at-the-money calls (delta within 0.1 of 0.5) as a proxy. The single
// estimate is backfilled onto every record. When no qualifying calls exist
// the price stays 0 and is surfaced as-is downstream.
func (p *Parser) imputeUnderlyingPrice(result *domain.ParseResult) {
	if len(result.Records) == 0 {
		return
	}
	for _, r := range result.Records {
		if r.UnderlyingPrice != 0 {
			return
		}
	}

	var weightedSum, totalOI float64
	for _, r := range result.Records {
		if r.OptionType == domain.OptionTypeCall && math.Abs(r.Delta-0.5) < 0.1 {
			weightedSum += r.Strike * float64(r.OpenInterest)
			totalOI += float64(r.OpenInterest)
		}
	}
	if totalOI == 0 {
		return
	}

	estimate := weightedSum / totalOI
	for i := range result.Records {
		result.Records[i].UnderlyingPrice = estimate
	}
	result.Warnings = append(result.Warnings, fmt.Sprintf("estimated underlying price from ATM options: %.2f", estimate))
}

// recordID derives a display identifier for a record. IDs are stable within
// one ingestion call but not guaranteed unique across re-imports.
func recordID(r domain.OptionRecord, index int) string {
	base := r.Symbol
	if base == "" {
		base = r.Underlying
	}
	if base == "" {
		base = "UNKNOWN"
	}
	return fmt.Sprintf("%s_%s_%g_%s_%d", base, r.Expiry, r.Strike, r.OptionType, index)
}

// syntheticSymbol builds an OCC-style symbol from the contract terms, e.g.
// SPX20251219C04500000.
func syntheticSymbol(underlying, expiry string, optionType domain.OptionType, strike float64) string {
	return fmt.Sprintf("%s%s%s%08d",
		underlying,
		strings.ReplaceAll(expiry, "-", ""),
		optionType.Marker(),
		int64(math.Round(strike*1000)))
}
