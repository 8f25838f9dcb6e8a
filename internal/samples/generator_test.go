package samples

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gexcli/internal/ingest"
)

func TestGenerateCSV_Shape(t *testing.T) {
	opts := DefaultOptions()
	opts.Now = time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC) // a Monday

	content := GenerateCSV(opts)
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")

	// header + 3 expiries * 41 strikes * 2 sides
	assert.Len(t, lines, 1+3*41*2)
	assert.True(t, strings.HasPrefix(lines[0], "symbol,underlying,expiry,strike,type"))
	assert.Contains(t, lines[1], "SPX")
	assert.Contains(t, lines[1], ",call,")
}

func TestGenerateCSV_Deterministic(t *testing.T) {
	opts := DefaultOptions()
	opts.Seed = 42
	opts.Now = time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, GenerateCSV(opts), GenerateCSV(opts), "same seed produces identical output")

	opts2 := opts
	opts2.Seed = 43
	assert.NotEqual(t, GenerateCSV(opts), GenerateCSV(opts2))
}

func TestGenerateCSV_RoundTripsThroughParser(t *testing.T) {
	opts := DefaultOptions()
	opts.ExpiryCount = 1
	opts.StrikeCount = 5

	content := GenerateCSV(opts)
	result := ingest.NewParser(nil).Parse(content)

	require.True(t, result.Success)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 11*2, len(result.Records))

	for _, r := range result.Records {
		assert.True(t, r.IsValid())
		assert.Equal(t, "SPX", r.Underlying)
		assert.Equal(t, 4500.0, r.UnderlyingPrice)
		assert.Greater(t, r.Gamma, 0.0)
	}
}

func TestNextFridays(t *testing.T) {
	monday := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)
	fridays := nextFridays(monday, 3)
	assert.Equal(t, []string{"2025-08-29", "2025-09-05", "2025-09-12"}, fridays)

	// On a Friday the series starts the following week
	friday := time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC)
	fridays = nextFridays(friday, 2)
	assert.Equal(t, []string{"2025-09-05", "2025-09-12"}, fridays)
}

func TestGenerateCSV_ZeroOptionsFallBackToDefaults(t *testing.T) {
	content := GenerateCSV(Options{})
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	assert.Len(t, lines, 1+3*41*2)
	assert.Contains(t, lines[1], "SPX")
}
