package gamma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gexcli/pkg/contracts/domain"
)

func TestExposureCurve_BandAndStepCount(t *testing.T) {
	records := []domain.OptionRecord{call(100, 0.05, 1000)}

	points := ExposureCurve(records, 100, 10, 20)

	require.Len(t, points, 21, "steps+1 samples inclusive of both band edges")
	assert.Equal(t, 90.0, points[0].SpotPrice)
	assert.Equal(t, 110.0, points[len(points)-1].SpotPrice)
}

func TestExposureCurve_SignConvention(t *testing.T) {
	records := []domain.OptionRecord{
		call(100, 0.05, 1000),
		put(100, 0.03, 1000),
	}

	points := ExposureCurve(records, 100, 5, 4)
	require.NotEmpty(t, points)

	for _, p := range points {
		assert.Greater(t, p.CallGEX, 0.0)
		assert.Less(t, p.PutGEX, 0.0)
		assert.InDelta(t, p.CallGEX+p.PutGEX, p.GEX, 1e-9)
	}

	// At spot 100: call 0.05*1000*100*100 = 500000, put -0.03*1000*100*100
	mid := points[2]
	assert.InDelta(t, 500000.0, mid.CallGEX, 1e-6)
	assert.InDelta(t, -300000.0, mid.PutGEX, 1e-6)
}

func TestExposureCurve_InvalidInputs(t *testing.T) {
	records := []domain.OptionRecord{call(100, 0.05, 1000)}

	assert.Empty(t, ExposureCurve(records, 0, 10, 20), "zero spot yields no points")
	assert.Empty(t, ExposureCurve(records, -5, 10, 20))
	assert.Empty(t, ExposureCurve(records, 100, 10, 0), "zero steps yields no points")
}

func TestExposureCurve_EmptyRecords(t *testing.T) {
	points := ExposureCurve(nil, 100, 10, 4)

	require.Len(t, points, 5)
	for _, p := range points {
		assert.Zero(t, p.GEX)
	}
}
