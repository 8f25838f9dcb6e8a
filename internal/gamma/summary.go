package gamma

import (
	"sort"

	"gexcli/pkg/contracts/domain"
)

// Summarize computes the dashboard summary snapshot for one record set. An
// empty set yields the explicit zero-value summary rather than an error.
//
// Symbol and spot price come from the first record only: the summary assumes
// a single underlying per call, so mixed-underlying inputs must be
// pre-filtered by the caller.
func Summarize(records []domain.OptionRecord) domain.DashboardSummary {
	if len(records) == 0 {
		return domain.DashboardSummary{}
	}

	byStrike := AggregateByStrike(records)

	var callTotal, putTotal float64
	var totalOI int64
	strikes := make(map[float64]struct{})
	expiries := make(map[string]struct{})

	for _, r := range records {
		exposure := Exposure(r)
		if r.OptionType == domain.OptionTypeCall {
			callTotal += exposure
		} else {
			// Accumulated unsigned here; the signed view lives in the buckets
			putTotal += exposure
		}
		totalOI += r.OpenInterest
		strikes[r.Strike] = struct{}{}
		expiries[r.Expiry] = struct{}{}
	}

	summary := domain.DashboardSummary{
		Symbol:            records[0].Symbol,
		SpotPrice:         records[0].UnderlyingPrice,
		TotalGamma:        callTotal + putTotal,
		TotalNetGamma:     callTotal - putTotal,
		CallGammaTotal:    callTotal,
		PutGammaTotal:     putTotal,
		TotalOpenInterest: totalOI,
		UniqueStrikes:     len(strikes),
		UniqueExpiries:    len(expiries),
		GammaFlipLevel:    FlipLevel(byStrike),
	}

	byNetDesc := make([]domain.StrikeGamma, len(byStrike))
	copy(byNetDesc, byStrike)
	sort.Slice(byNetDesc, func(i, j int) bool { return byNetDesc[i].NetGamma > byNetDesc[j].NetGamma })
	for _, s := range byNetDesc {
		if s.NetGamma > 0 {
			strike := s.Strike
			summary.TopPositiveStrike = &strike
			break
		}
	}

	byNetAsc := make([]domain.StrikeGamma, len(byStrike))
	copy(byNetAsc, byStrike)
	sort.Slice(byNetAsc, func(i, j int) bool { return byNetAsc[i].NetGamma < byNetAsc[j].NetGamma })
	for _, s := range byNetAsc {
		if s.NetGamma < 0 {
			strike := s.Strike
			summary.TopNegativeStrike = &strike
			break
		}
	}

	return summary
}
