// Package samples generates synthetic option chain CSV files for demos and
// testing. Output uses the canonical generic header so it round-trips through
// the ingestion pipeline without a custom column mapping.
package samples

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// Options configures sample chain generation
type Options struct {
	Underlying  string
	BasePrice   float64
	StrikeStep  float64
	StrikeCount int // strikes on each side of the base price
	ExpiryCount int // weekly expiries, next Fridays from today
	Seed        int64
	Now         time.Time // zero value means time.Now
}

// DefaultOptions returns the canonical SPX-shaped sample configuration
func DefaultOptions() Options {
	return Options{
		Underlying:  "SPX",
		BasePrice:   4500,
		StrikeStep:  25,
		StrikeCount: 20,
		ExpiryCount: 3,
	}
}

// GenerateCSV produces a generic-format chain CSV. Gamma follows a Gaussian
// profile centered at the base price so the aggregated exposure has a
// realistic peak near the money, and deltas taper linearly away from it.
func GenerateCSV(opts Options) string {
	if opts.Underlying == "" {
		opts.Underlying = "SPX"
	}
	if opts.BasePrice <= 0 {
		opts.BasePrice = 4500
	}
	if opts.StrikeStep <= 0 {
		opts.StrikeStep = 25
	}
	if opts.StrikeCount <= 0 {
		opts.StrikeCount = 20
	}
	if opts.ExpiryCount <= 0 {
		opts.ExpiryCount = 3
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	headers := []string{
		"symbol", "underlying", "expiry", "strike", "type", "volume",
		"open_interest", "delta", "gamma", "theta", "vega", "iv", "bid",
		"ask", "last", "underlying_price",
	}

	expiries := nextFridays(now, opts.ExpiryCount)

	var strikes []float64
	for i := -opts.StrikeCount; i <= opts.StrikeCount; i++ {
		strikes = append(strikes, opts.BasePrice+float64(i)*opts.StrikeStep)
	}

	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	b.WriteString("\n")

	for _, expiry := range expiries {
		for _, strike := range strikes {
			// Gamma peaks at the money and decays with distance
			gamma := 0.002 * math.Exp(-math.Pow((strike-opts.BasePrice)/100, 2))

			callDelta := clamp(0.5-(strike-opts.BasePrice)/(opts.BasePrice*0.2), 0, 1)
			callIV := 0.15 + rng.Float64()*0.1
			writeRow(&b, rowParams{
				underlying: opts.Underlying,
				expiry:     expiry,
				strike:     strike,
				side:       "call",
				marker:     "C",
				volume:     rng.Int63n(1000),
				oi:         rng.Int63n(5000) + 500,
				delta:      callDelta,
				gamma:      gamma,
				theta:      -0.5 - rng.Float64(),
				vega:       1 + rng.Float64(),
				iv:         callIV,
				bid:        rng.Float64() * 10,
				ask:        rng.Float64()*10 + 0.1,
				last:       rng.Float64()*10 + 0.05,
				spot:       opts.BasePrice,
			})

			putDelta := clamp(-0.5+(strike-opts.BasePrice)/(opts.BasePrice*0.2), -1, 0)
			writeRow(&b, rowParams{
				underlying: opts.Underlying,
				expiry:     expiry,
				strike:     strike,
				side:       "put",
				marker:     "P",
				volume:     rng.Int63n(1000),
				oi:         rng.Int63n(5000) + 500,
				delta:      putDelta,
				gamma:      gamma,
				theta:      -0.3 - rng.Float64(),
				vega:       1 + rng.Float64(),
				iv:         callIV + 0.02,
				bid:        rng.Float64() * 10,
				ask:        rng.Float64()*10 + 0.1,
				last:       rng.Float64()*10 + 0.05,
				spot:       opts.BasePrice,
			})
		}
	}

	return b.String()
}

type rowParams struct {
	underlying string
	expiry     string
	strike     float64
	side       string
	marker     string
	volume     int64
	oi         int64
	delta      float64
	gamma      float64
	theta      float64
	vega       float64
	iv         float64
	bid        float64
	ask        float64
	last       float64
	spot       float64
}

func writeRow(b *strings.Builder, p rowParams) {
	symbol := fmt.Sprintf("%s%s%s%05d",
		p.underlying,
		strings.ReplaceAll(p.expiry, "-", ""),
		p.marker,
		int(p.strike))

	fmt.Fprintf(b, "%s,%s,%s,%g,%s,%d,%d,%.4f,%.6f,%.4f,%.4f,%.4f,%.2f,%.2f,%.2f,%g\n",
		symbol, p.underlying, p.expiry, p.strike, p.side, p.volume, p.oi,
		p.delta, p.gamma, p.theta, p.vega, p.iv, p.bid, p.ask, p.last, p.spot)
}

// nextFridays returns the next count Fridays from now as ISO dates. When now
// is a Friday the series starts the following week, matching listed weekly
// expiration behavior.
func nextFridays(now time.Time, count int) []string {
	daysUntilFriday := (int(time.Friday) - int(now.Weekday()) + 7) % 7
	if daysUntilFriday == 0 {
		daysUntilFriday = 7
	}
	current := now.AddDate(0, 0, daysUntilFriday)

	fridays := make([]string, 0, count)
	for i := 0; i < count; i++ {
		fridays = append(fridays, current.Format("2006-01-02"))
		current = current.AddDate(0, 0, 7)
	}
	return fridays
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
