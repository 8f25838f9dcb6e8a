package gamma

import (
	"math"
	"sort"

	"gexcli/pkg/contracts/domain"
)

// FlipLevel finds the strike where net gamma crosses zero. Strike buckets
// are scanned in ascending strike order; the first adjacent pair with
// opposite-sign net gamma brackets the flip, and the flip strike is linearly
// interpolated within that interval weighted by the relative magnitudes of
// the two net values. Returns nil when no sign change exists.
func FlipLevel(byStrike []domain.StrikeGamma) *float64 {
	sorted := make([]domain.StrikeGamma, len(byStrike))
	copy(sorted, byStrike)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Strike < sorted[j].Strike })

	for i := 0; i < len(sorted)-1; i++ {
		cur, next := sorted[i], sorted[i+1]
		if (cur.NetGamma > 0 && next.NetGamma < 0) || (cur.NetGamma < 0 && next.NetGamma > 0) {
			ratio := math.Abs(cur.NetGamma) / (math.Abs(cur.NetGamma) + math.Abs(next.NetGamma))
			flip := cur.Strike + (next.Strike-cur.Strike)*ratio
			return &flip
		}
	}
	return nil
}

// KeyLevels picks the top ⌈count/2⌉ strikes by net gamma descending as
// support candidates and the bottom ⌈count/2⌉ ascending as resistance
// candidates, then appends the flip level when one exists. The final list is
// ordered descending by strike with all classifications mixed.
func KeyLevels(byStrike []domain.StrikeGamma, count int) []domain.KeyLevel {
	levels := []domain.KeyLevel{}
	half := (count + 1) / 2

	positive := filterByNetSign(byStrike, true)
	sort.Slice(positive, func(i, j int) bool { return positive[i].NetGamma > positive[j].NetGamma })
	if len(positive) > half {
		positive = positive[:half]
	}
	for _, s := range positive {
		levels = append(levels, domain.KeyLevel{
			Strike:      s.Strike,
			NetGamma:    s.NetGamma,
			TotalOI:     s.CallOI + s.PutOI,
			Type:        domain.LevelPositive,
			Description: "High positive gamma - potential support level",
		})
	}

	negative := filterByNetSign(byStrike, false)
	sort.Slice(negative, func(i, j int) bool { return negative[i].NetGamma < negative[j].NetGamma })
	if len(negative) > half {
		negative = negative[:half]
	}
	for _, s := range negative {
		levels = append(levels, domain.KeyLevel{
			Strike:      s.Strike,
			NetGamma:    s.NetGamma,
			TotalOI:     s.CallOI + s.PutOI,
			Type:        domain.LevelNegative,
			Description: "High negative gamma - potential resistance level",
		})
	}

	if flip := FlipLevel(byStrike); flip != nil {
		levels = append(levels, domain.KeyLevel{
			Strike:      *flip,
			NetGamma:    0,
			TotalOI:     0,
			Type:        domain.LevelFlip,
			Description: "Gamma flip zone - volatility transition point",
		})
	}

	sort.Slice(levels, func(i, j int) bool { return levels[i].Strike > levels[j].Strike })
	return levels
}

// TopStrikes returns the count strikes with the largest absolute net gamma,
// descending.
func TopStrikes(byStrike []domain.StrikeGamma, count int) []domain.StrikeGamma {
	out := make([]domain.StrikeGamma, len(byStrike))
	copy(out, byStrike)
	sort.Slice(out, func(i, j int) bool {
		return math.Abs(out[i].NetGamma) > math.Abs(out[j].NetGamma)
	})
	if len(out) > count {
		out = out[:count]
	}
	return out
}

// TopExpiries returns the count expiries with the largest absolute net
// gamma, descending.
func TopExpiries(byExpiry []domain.ExpiryGamma, count int) []domain.ExpiryGamma {
	out := make([]domain.ExpiryGamma, len(byExpiry))
	copy(out, byExpiry)
	sort.Slice(out, func(i, j int) bool {
		return math.Abs(out[i].NetGamma) > math.Abs(out[j].NetGamma)
	})
	if len(out) > count {
		out = out[:count]
	}
	return out
}

func filterByNetSign(byStrike []domain.StrikeGamma, positive bool) []domain.StrikeGamma {
	var out []domain.StrikeGamma
	for _, s := range byStrike {
		if (positive && s.NetGamma > 0) || (!positive && s.NetGamma < 0) {
			out = append(out, s)
		}
	}
	return out
}
