package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gexcli/pkg/contracts/domain"
)

// buildSectionedRow assembles a 28-column sectioned row with the call leg on
// the left, the strike in the middle and the put leg mirrored on the right.
func buildSectionedRow(strike, callOI, putOI string) string {
	cols := make([]string, minSectionedColumns)
	cols[colCallDelta] = "0.52"
	cols[colCallGamma] = "0.0021"
	cols[colCallTheta] = "-0.45"
	cols[colCallVega] = "1.2"
	cols[colCallOI] = callOI
	cols[colCallVolume] = "320"
	cols[colCallIV] = "18.5%"
	cols[colCallLast] = "12.3"
	cols[colCallBid] = "12.1"
	cols[colCallAsk] = "12.5"
	cols[colStrike] = strike
	cols[colPutBid] = "8.2"
	cols[colPutAsk] = "8.6"
	cols[colPutDelta] = "-0.48"
	cols[colPutGamma] = "0.0019"
	cols[colPutTheta] = "-0.42"
	cols[colPutVega] = "1.1"
	cols[colPutOI] = putOI
	cols[colPutVolume] = "410"
	cols[colPutIV] = "19.1%"
	cols[colPutLast] = "8.4"
	return strings.Join(cols, ",")
}

func sectionedFixture(rows ...string) string {
	lines := []string{
		"UNDERLYING",
		"LAST,LX,Net Chng,BID,BX,ASK,AX,Size,Volume,Open,High,Low",
		"6870.40, ,0,6842.61, ,6898.63, ,<empty>,<empty>,0,0,0",
		"",
		"8 DEC 25  (2)  100 (Weeklys)",
		",,Delta,Gamma,Theta,Vega,Open.Int,Volume,Impl Vol,Last,BID,BX,ASK,AX,Exp,Strike,BID,BX,ASK,AX,Delta,Gamma,Theta,Vega,Open.Int,Volume,Impl Vol,Last",
	}
	lines = append(lines, rows...)
	return strings.Join(lines, "\n")
}

func TestIsSectionedFormat(t *testing.T) {
	assert.True(t, isSectionedFormat("8 DEC 25  (2)  100 (Weeklys)"))
	assert.True(t, isSectionedFormat("junk\n15 JAN 26 (38)\nmore"))
	assert.False(t, isSectionedFormat("strike,gamma,open_interest\n100,0.05,1000"))
}

func TestParse_SectionedTakesPriority(t *testing.T) {
	content := sectionedFixture(buildSectionedRow("6500", "1500", "2200"))

	result := NewParser(nil).Parse(content)

	require.True(t, result.Success)
	require.Len(t, result.Records, 2, "one call leg and one put leg")
}

func TestParseSectioned_BothLegs(t *testing.T) {
	content := sectionedFixture(buildSectionedRow("6500", "1500", "2200"))

	result := NewParser(nil).Parse(content)

	require.True(t, result.Success)
	require.Len(t, result.Records, 2)
	assert.Equal(t, 1, result.RowCount, "one strike row")
	assert.Equal(t, 2, result.ValidRowCount)

	call, put := result.Records[0], result.Records[1]
	require.Equal(t, domain.OptionTypeCall, call.OptionType)
	require.Equal(t, domain.OptionTypePut, put.OptionType)

	assert.Equal(t, "2025-12-08", call.Expiry)
	assert.Equal(t, 6500.0, call.Strike)
	assert.Equal(t, int64(1500), call.OpenInterest)
	assert.Equal(t, 0.0021, call.Gamma)
	assert.Equal(t, 0.52, call.Delta)
	assert.InDelta(t, 0.185, call.ImpliedVolatility, 1e-9, "IV stored as decimal fraction")
	assert.Equal(t, 12.1, call.Bid)
	assert.Equal(t, 12.5, call.Ask)
	assert.Equal(t, "SPX20251208C06500000", call.Symbol)

	assert.Equal(t, int64(2200), put.OpenInterest)
	assert.Equal(t, 0.0019, put.Gamma)
	assert.Equal(t, -0.48, put.Delta)
	assert.Equal(t, 8.2, put.Bid)
	assert.Equal(t, "SPX20251208P06500000", put.Symbol)

	// Reference price detected from the block under the LAST/BID/ASK header
	assert.Equal(t, 6870.40, call.UnderlyingPrice)
	assert.Equal(t, 6870.40, put.UnderlyingPrice)
}

func TestParseSectioned_LegEmittedOnlyWithOpenInterest(t *testing.T) {
	content := sectionedFixture(buildSectionedRow("6500", "1500", "0"))

	result := NewParser(nil).Parse(content)

	require.True(t, result.Success)
	require.Len(t, result.Records, 1)
	assert.Equal(t, domain.OptionTypeCall, result.Records[0].OptionType)
}

func TestParseSectioned_AllZeroOpenInterestFails(t *testing.T) {
	content := sectionedFixture(
		buildSectionedRow("6500", "0", "0"),
		buildSectionedRow("6550", "0", "0"),
	)

	result := NewParser(nil).Parse(content)

	assert.False(t, result.Success)
	assert.Empty(t, result.Records)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "no valid option data")
}

func TestParseSectioned_SkipsShortAndStrikelessRows(t *testing.T) {
	content := sectionedFixture(
		"too,short,row",
		buildSectionedRow("", "1500", "2200"), // strike fails to coerce
		buildSectionedRow("6500", "1500", "2200"),
	)

	result := NewParser(nil).Parse(content)

	require.True(t, result.Success)
	require.Len(t, result.Records, 2)
	assert.Equal(t, 1, result.RowCount)
}

func TestParseSectioned_MultipleExpirySections(t *testing.T) {
	content := sectionedFixture(
		buildSectionedRow("6500", "1500", "2200"),
		"15 JAN 26  (38)  100",
		buildSectionedRow("6600", "900", "0"),
	)

	result := NewParser(nil).Parse(content)

	require.True(t, result.Success)
	require.Len(t, result.Records, 3)
	assert.Equal(t, "2025-12-08", result.Records[0].Expiry)
	assert.Equal(t, "2026-01-15", result.Records[2].Expiry)
}

func TestFindReferencePrice(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  float64
	}{
		{
			name: "price on line after header",
			lines: []string{
				"LAST,LX,Net Chng,BID,BX,ASK,AX",
				"6870.40, ,0,6842.61, ,6898.63, ",
			},
			want: 6870.40,
		},
		{
			name: "implausible price rejected",
			lines: []string{
				"LAST,BID,ASK",
				"3, , ",
			},
			want: 0,
		},
		{
			name:  "no header found",
			lines: []string{"nothing", "here"},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findReferencePrice(tt.lines))
		})
	}
}

func TestSectionedWarningsIncludeCounts(t *testing.T) {
	content := sectionedFixture(buildSectionedRow("6500", "1500", "2200"))

	result := NewParser(nil).Parse(content)

	require.True(t, result.Success)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "parsed 2 options")
	assert.Contains(t, result.Warnings[1], "detected underlying price: 6870.40")
}
