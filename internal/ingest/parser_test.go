package ingest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gexcli/pkg/contracts/domain"
)

func TestParseGeneric_SingleRow(t *testing.T) {
	content := "Strike,Type,Gamma,OpenInterest\n100,call,0.05,1000\n"

	result := NewParser(nil).Parse(content)

	require.True(t, result.Success)
	require.Len(t, result.Records, 1)
	assert.Equal(t, 1, result.RowCount)
	assert.Equal(t, 1, result.ValidRowCount)

	rec := result.Records[0]
	assert.Equal(t, domain.OptionTypeCall, rec.OptionType)
	assert.Equal(t, 100.0, rec.Strike)
	assert.Equal(t, 0.05, rec.Gamma)
	assert.Equal(t, int64(1000), rec.OpenInterest)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "SPX", rec.Underlying, "no symbol column falls back to the default underlying")
}

func TestParseGeneric_DropsInvalidRows(t *testing.T) {
	content := strings.Join([]string{
		"strike,type,gamma,open_interest",
		"100,call,0.05,1000",
		"0,call,0.05,500",  // zero strike
		"105,put,0.04,0",   // zero open interest
		"110,put,0.03,200", // valid
	}, "\n")

	result := NewParser(nil).Parse(content)

	require.True(t, result.Success)
	assert.Equal(t, 4, result.RowCount)
	assert.Equal(t, 2, result.ValidRowCount)
	assert.Len(t, result.Records, 2)
	// Dropped rows produce neither errors nor warnings
	assert.Empty(t, result.Errors)
	for _, rec := range result.Records {
		assert.Greater(t, rec.Strike, 0.0)
		assert.Greater(t, rec.OpenInterest, int64(0))
	}
}

func TestParseGeneric_MissingRequiredColumns(t *testing.T) {
	content := "strike,delta\n100,0.5\n"

	result := NewParser(nil).Parse(content)

	assert.False(t, result.Success)
	assert.Empty(t, result.Records)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "missing required columns")
	assert.Contains(t, result.Errors[0], "gamma")
	assert.Contains(t, result.Errors[0], "openInterest")
}

func TestParseGeneric_EmptyInput(t *testing.T) {
	for _, content := range []string{"", "strike,gamma,open_interest\n"} {
		result := NewParser(nil).Parse(content)
		assert.False(t, result.Success)
		require.NotEmpty(t, result.Errors)
		assert.Contains(t, result.Errors[0], "no data found")
	}
}

func TestParseGeneric_OptionTypeFallbacks(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantType    domain.OptionType
		wantWarning bool
	}{
		{
			name:        "unclassifiable type defaults to call with warning",
			content:     "strike,type,gamma,open_interest\n100,???,0.05,1000\n",
			wantType:    domain.OptionTypeCall,
			wantWarning: true,
		},
		{
			name:     "side inferred from symbol when type column absent",
			content:  "symbol,strike,gamma,open_interest\nXSP241220P00450000,100,0.05,1000\n",
			wantType: domain.OptionTypePut,
		},
		{
			name:     "no type and no symbol defaults to call silently",
			content:  "strike,gamma,open_interest\n100,0.05,1000\n",
			wantType: domain.OptionTypeCall,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewParser(nil).Parse(tt.content)
			require.True(t, result.Success)
			require.Len(t, result.Records, 1)
			assert.Equal(t, tt.wantType, result.Records[0].OptionType)
			if tt.wantWarning {
				require.NotEmpty(t, result.Warnings)
				assert.Contains(t, result.Warnings[0], "defaulting to call")
			} else {
				assert.Empty(t, result.Warnings)
			}
		})
	}
}

func TestParseGeneric_ExpiryFallsBackToToday(t *testing.T) {
	content := "strike,expiry,gamma,open_interest\n100,someday,0.05,1000\n"

	result := NewParser(nil).Parse(content)

	require.True(t, result.Success)
	require.Len(t, result.Records, 1)
	assert.Equal(t, time.Now().Format("2006-01-02"), result.Records[0].Expiry)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "could not parse expiry date")
}

func TestParseGeneric_ImputesUnderlyingPrice(t *testing.T) {
	// Two ATM calls (delta near 0.5) with different open interest; the
	// estimate is the OI-weighted mean strike: (100*3000 + 110*1000) / 4000.
	content := strings.Join([]string{
		"strike,type,delta,gamma,open_interest",
		"100,call,0.52,0.05,3000",
		"110,call,0.45,0.04,1000",
		"120,call,0.20,0.03,500",
		"100,put,-0.48,0.05,2000",
	}, "\n")

	result := NewParser(nil).Parse(content)

	require.True(t, result.Success)
	require.Len(t, result.Records, 4)
	for _, rec := range result.Records {
		assert.InDelta(t, 102.5, rec.UnderlyingPrice, 1e-9)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "estimated underlying price") {
			found = true
		}
	}
	assert.True(t, found, "imputation must emit a warning")
}

func TestParseGeneric_NoImputationWithoutATMCalls(t *testing.T) {
	content := strings.Join([]string{
		"strike,type,delta,gamma,open_interest",
		"100,put,-0.48,0.05,2000",
		"120,call,0.10,0.03,500",
	}, "\n")

	result := NewParser(nil).Parse(content)

	require.True(t, result.Success)
	for _, rec := range result.Records {
		assert.Zero(t, rec.UnderlyingPrice)
	}
}

func TestParseGeneric_PriceColumnSkipsImputation(t *testing.T) {
	content := "strike,type,delta,gamma,open_interest,underlying_price\n100,call,0.5,0.05,1000,4500\n"

	result := NewParser(nil).Parse(content)

	require.True(t, result.Success)
	require.Len(t, result.Records, 1)
	assert.Equal(t, 4500.0, result.Records[0].UnderlyingPrice)
	assert.Empty(t, result.Warnings)
}

func TestParseWithMapping_BypassesDetection(t *testing.T) {
	content := "K,G,Oint\n4500,0.002,1200\n"
	mapping := domain.ColumnMapping{Strike: "K", Gamma: "G", OpenInterest: "Oint"}

	result := NewParser(nil).ParseWithMapping(content, mapping)

	require.True(t, result.Success)
	require.Len(t, result.Records, 1)
	assert.Equal(t, 4500.0, result.Records[0].Strike)
	assert.Equal(t, int64(1200), result.Records[0].OpenInterest)
}

func TestParseGeneric_SoftCoercionOfMessyNumbers(t *testing.T) {
	content := `strike,type,gamma,open_interest,bid,iv
"4,500",call,0.002,"1,200",$12.50,--
`
	result := NewParser(nil).Parse(content)

	require.True(t, result.Success)
	require.Len(t, result.Records, 1)
	rec := result.Records[0]
	assert.Equal(t, 4500.0, rec.Strike)
	assert.Equal(t, int64(1200), rec.OpenInterest)
	assert.Equal(t, 12.50, rec.Bid)
	assert.Zero(t, rec.ImpliedVolatility)
}

func TestRecordID_Format(t *testing.T) {
	rec := domain.OptionRecord{
		Symbol:     "SPX20251219C04500000",
		Expiry:     "2025-12-19",
		Strike:     4500,
		OptionType: domain.OptionTypeCall,
	}
	assert.Equal(t, "SPX20251219C04500000_2025-12-19_4500_call_3", recordID(rec, 3))
}

func TestSyntheticSymbol(t *testing.T) {
	got := syntheticSymbol("SPX", "2025-12-19", domain.OptionTypeCall, 4500)
	assert.Equal(t, "SPX20251219C04500000", got)

	got = syntheticSymbol("SPX", "2025-12-08", domain.OptionTypePut, 6500.5)
	assert.Equal(t, fmt.Sprintf("SPX20251208P%08d", 6500500), got)
}
