package gamma

import (
	"math"

	"gexcli/pkg/contracts/domain"
)

// ExposureCurve samples total gamma exposure across a band of spot prices
// around the given spot. The band spans ±rangePercent of spot in the given
// number of steps. Greeks are not recomputed per spot; each contract's
// uploaded gamma is scaled linearly with the sampled spot, which is the
// usual dealer-positioning approximation for display purposes.
func ExposureCurve(records []domain.OptionRecord, spot float64, rangePercent float64, steps int) []domain.ExposurePoint {
	if spot <= 0 || steps <= 0 {
		return []domain.ExposurePoint{}
	}

	minSpot := spot * (1 - rangePercent/100)
	maxSpot := spot * (1 + rangePercent/100)
	stepSize := (maxSpot - minSpot) / float64(steps)

	points := make([]domain.ExposurePoint, 0, steps+1)
	for s := minSpot; s <= maxSpot+stepSize/2; s += stepSize {
		var callGEX, putGEX float64
		for _, r := range records {
			gex := r.Gamma * float64(r.OpenInterest) * ContractMultiplier * s
			if r.OptionType == domain.OptionTypeCall {
				callGEX += gex
			} else {
				putGEX -= gex
			}
		}
		points = append(points, domain.ExposurePoint{
			SpotPrice: math.Round(s*100) / 100,
			GEX:       callGEX + putGEX,
			CallGEX:   callGEX,
			PutGEX:    putGEX,
		})
	}
	return points
}
