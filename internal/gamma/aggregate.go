package gamma

import (
	"math"
	"sort"
	"time"

	"gexcli/pkg/contracts/domain"
)

// ContractMultiplier converts per-contract gamma into exposure terms
// (standard equity option contract size).
const ContractMultiplier = 100

// Exposure returns the gamma exposure contributed by one record
func Exposure(r domain.OptionRecord) float64 {
	return r.Gamma * float64(r.OpenInterest) * ContractMultiplier
}

// DaysToExpiry computes calendar days from today until the ISO expiry date,
// clamped to zero. Invalid dates count as zero days.
func DaysToExpiry(expiry string) int {
	t, err := time.Parse("2006-01-02", expiry)
	if err != nil {
		return 0
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(math.Ceil(t.Sub(today).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// AggregateByStrike buckets records by strike and accumulates signed gamma
// exposure per side. The result is sorted ascending by strike.
func AggregateByStrike(records []domain.OptionRecord) []domain.StrikeGamma {
	buckets := make(map[float64]*domain.StrikeGamma)

	for _, r := range records {
		b, ok := buckets[r.Strike]
		if !ok {
			b = &domain.StrikeGamma{Strike: r.Strike}
			buckets[r.Strike] = b
		}

		exposure := Exposure(r)
		if r.OptionType == domain.OptionTypeCall {
			b.CallGamma += exposure
			b.CallOI += r.OpenInterest
		} else {
			// Put exposure is stored as a negative contribution
			b.PutGamma -= exposure
			b.PutOI += r.OpenInterest
		}
		b.NetGamma = b.CallGamma + b.PutGamma
		b.TotalGamma = math.Abs(b.CallGamma) + math.Abs(b.PutGamma)
	}

	out := make([]domain.StrikeGamma, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Strike < out[j].Strike })
	return out
}

// AggregateByExpiry buckets records by expiry date with the same exposure
// accounting as AggregateByStrike. The result is sorted ascending by
// days-to-expiry, which is derived against the wall clock at call time.
func AggregateByExpiry(records []domain.OptionRecord) []domain.ExpiryGamma {
	buckets := make(map[string]*domain.ExpiryGamma)

	for _, r := range records {
		b, ok := buckets[r.Expiry]
		if !ok {
			b = &domain.ExpiryGamma{
				Expiry:       r.Expiry,
				DaysToExpiry: DaysToExpiry(r.Expiry),
			}
			buckets[r.Expiry] = b
		}

		exposure := Exposure(r)
		if r.OptionType == domain.OptionTypeCall {
			b.CallGamma += exposure
			b.CallOI += r.OpenInterest
		} else {
			b.PutGamma -= exposure
			b.PutOI += r.OpenInterest
		}
		b.NetGamma = b.CallGamma + b.PutGamma
		b.TotalGamma = math.Abs(b.CallGamma) + math.Abs(b.PutGamma)
	}

	out := make([]domain.ExpiryGamma, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DaysToExpiry < out[j].DaysToExpiry })
	return out
}
