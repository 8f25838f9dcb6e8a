package ingest

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"gexcli/pkg/contracts/domain"
)

// Sectioned broker exports (ThinkOrSwim / StockAnalysis style) repeat an
// expiry-section header line like "8 DEC 25  (2)  100 (Weeklys)" followed by
// rows that carry a call leg and a put leg for one strike at fixed column
// offsets. A reference-price block sits near the top of the document.
var (
	sectionHeaderRe = regexp.MustCompile(`^(\d{1,2})\s+([A-Z]{3})\s+(\d{2})\s+\(\d+\)`)
	nonPriceCharsRe = regexp.MustCompile(`[^\d.]`)
)

// Fixed column offsets within one sectioned row. Call fields occupy the left
// block, the strike sits in the middle, and put fields mirror on the right.
const (
	colCallDelta  = 2
	colCallGamma  = 3
	colCallTheta  = 4
	colCallVega   = 5
	colCallOI     = 6
	colCallVolume = 7
	colCallIV     = 8
	colCallLast   = 9
	colCallBid    = 10
	colCallAsk    = 12
	colStrike     = 15
	colPutBid     = 16
	colPutAsk     = 18
	colPutDelta   = 20
	colPutGamma   = 21
	colPutTheta   = 22
	colPutVega    = 23
	colPutOI      = 24
	colPutVolume  = 25
	colPutIV      = 26
	colPutLast    = 27

	minSectionedColumns = 28

	// Plausible underlying price range used to reject non-price noise when
	// scanning the reference block.
	minPlausiblePrice = 100
	maxPlausiblePrice = 100000

	// The reference-price block appears within the first lines of the file
	priceScanLines = 20
)

var monthAbbrev = map[string]string{
	"JAN": "01", "FEB": "02", "MAR": "03", "APR": "04",
	"MAY": "05", "JUN": "06", "JUL": "07", "AUG": "08",
	"SEP": "09", "OCT": "10", "NOV": "11", "DEC": "12",
}

// isSectionedFormat reports whether any line matches the expiry-section
// header pattern. Detection takes priority over generic parsing.
func isSectionedFormat(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		if sectionHeaderRe.MatchString(line) {
			return true
		}
	}
	return false
}

// parseSectioned extracts both legs of every strike row from a sectioned
// export. A leg is emitted only when its own open interest is nonzero, so
// side assignment is never ambiguous on this path.
func (p *Parser) parseSectioned(content string) *domain.ParseResult {
	result := &domain.ParseResult{
		Records:  []domain.OptionRecord{},
		Errors:   []string{},
		Warnings: []string{},
	}

	lines := strings.Split(content, "\n")
	underlyingPrice := findReferencePrice(lines)

	currentExpiry := ""
	rowIndex := 0

	for _, line := range lines {
		if m := sectionHeaderRe.FindStringSubmatch(line); m != nil {
			day, month, year := m[1], m[2], m[3]
			monthNum, ok := monthAbbrev[month]
			if !ok {
				monthNum = "01"
			}
			if len(day) == 1 {
				day = "0" + day
			}
			currentExpiry = fmt.Sprintf("20%s-%s-%s", year, monthNum, day)
			continue
		}

		if currentExpiry == "" || strings.TrimSpace(line) == "" ||
			strings.Contains(line, "Delta,Gamma") || strings.Contains(line, "UNDERLYING") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.Trim(strings.TrimSpace(parts[i]), `"`)
		}
		if len(parts) < minSectionedColumns {
			continue
		}

		strike := ParseNumber(parts[colStrike])
		if strike == 0 {
			continue
		}

		if callOI := ParseInt(parts[colCallOI]); callOI > 0 {
			record := domain.OptionRecord{
				ID:                fmt.Sprintf("%s_%s_%g_call_%d", defaultUnderlying, currentExpiry, strike, rowIndex),
				Symbol:            syntheticSymbol(defaultUnderlying, currentExpiry, domain.OptionTypeCall, strike),
				Underlying:        defaultUnderlying,
				Expiry:            currentExpiry,
				Strike:            strike,
				OptionType:        domain.OptionTypeCall,
				Volume:            ParseInt(parts[colCallVolume]),
				OpenInterest:      callOI,
				Delta:             ParseNumber(parts[colCallDelta]),
				Gamma:             ParseNumber(parts[colCallGamma]),
				Theta:             ParseNumber(parts[colCallTheta]),
				Vega:              ParseNumber(parts[colCallVega]),
				ImpliedVolatility: ParsePercent(parts[colCallIV]),
				Bid:               ParseNumber(parts[colCallBid]),
				Ask:               ParseNumber(parts[colCallAsk]),
				Last:              ParseNumber(parts[colCallLast]),
				UnderlyingPrice:   underlyingPrice,
			}
			result.Records = append(result.Records, record)
		}

		if putOI := ParseInt(parts[colPutOI]); putOI > 0 {
			record := domain.OptionRecord{
				ID:                fmt.Sprintf("%s_%s_%g_put_%d", defaultUnderlying, currentExpiry, strike, rowIndex),
				Symbol:            syntheticSymbol(defaultUnderlying, currentExpiry, domain.OptionTypePut, strike),
				Underlying:        defaultUnderlying,
				Expiry:            currentExpiry,
				Strike:            strike,
				OptionType:        domain.OptionTypePut,
				Volume:            ParseInt(parts[colPutVolume]),
				OpenInterest:      putOI,
				Delta:             ParseNumber(parts[colPutDelta]),
				Gamma:             ParseNumber(parts[colPutGamma]),
				Theta:             ParseNumber(parts[colPutTheta]),
				Vega:              ParseNumber(parts[colPutVega]),
				ImpliedVolatility: ParsePercent(parts[colPutIV]),
				Bid:               ParseNumber(parts[colPutBid]),
				Ask:               ParseNumber(parts[colPutAsk]),
				Last:              ParseNumber(parts[colPutLast]),
				UnderlyingPrice:   underlyingPrice,
			}
			result.Records = append(result.Records, record)
		}

		rowIndex++
	}

	result.RowCount = rowIndex
	result.ValidRowCount = len(result.Records)

	if len(result.Records) == 0 {
		result.Errors = append(result.Errors, "no valid option data found in sectioned format")
		return result
	}

	result.Success = true
	result.Warnings = append(result.Warnings, fmt.Sprintf("parsed %d options from sectioned broker format", len(result.Records)))
	if underlyingPrice > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("detected underlying price: %.2f", underlyingPrice))
	}

	p.logger.Info("sectioned parse complete",
		slog.Int("records", len(result.Records)),
		slog.Int("strike_rows", rowIndex),
		slog.Float64("underlying_price", underlyingPrice))

	return result
}

// findReferencePrice locates the underlying price block near the top of the
// document: a header line that carries the LAST, BID and ASK column tokens
// together, with the price as the first numeric field of the following line.
func findReferencePrice(lines []string) float64 {
	limit := priceScanLines
	if len(lines) < limit {
		limit = len(lines)
	}

	for i := 0; i < limit; i++ {
		line := lines[i]
		if line == "" || !strings.Contains(line, "LAST") || !strings.Contains(line, "BID") || !strings.Contains(line, "ASK") {
			continue
		}
		if i+1 >= len(lines) {
			break
		}
		parts := strings.Split(lines[i+1], ",")
		if len(parts) == 0 {
			continue
		}
		price := ParseNumber(nonPriceCharsRe.ReplaceAllString(parts[0], ""))
		if price > minPlausiblePrice && price < maxPlausiblePrice {
			return price
		}
	}
	return 0
}
