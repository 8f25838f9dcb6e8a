package domain

// StrikeGamma holds aggregated gamma exposure for a single strike across all
// expiries. The put leg is stored as a negative contribution, so NetGamma is
// a true signed sum: NetGamma = CallGamma + PutGamma. TotalGamma never
// cancels: TotalGamma = |CallGamma| + |PutGamma|.
type StrikeGamma struct {
	Strike     float64 `json:"strike"`
	CallGamma  float64 `json:"call_gamma"`
	PutGamma   float64 `json:"put_gamma"`
	NetGamma   float64 `json:"net_gamma"`
	TotalGamma float64 `json:"total_gamma"`
	CallOI     int64   `json:"call_oi"`
	PutOI      int64   `json:"put_oi"`
}

// ExpiryGamma holds aggregated gamma exposure for a single expiry date.
// DaysToExpiry is derived from wall-clock time at calculation time and
// clamped to zero for past dates.
type ExpiryGamma struct {
	Expiry       string  `json:"expiry"`
	DaysToExpiry int     `json:"days_to_expiry"`
	CallGamma    float64 `json:"call_gamma"`
	PutGamma     float64 `json:"put_gamma"`
	NetGamma     float64 `json:"net_gamma"`
	TotalGamma   float64 `json:"total_gamma"`
	CallOI       int64   `json:"call_oi"`
	PutOI        int64   `json:"put_oi"`
}

// LevelType classifies a key gamma level
type LevelType string

const (
	LevelPositive LevelType = "positive" // high positive gamma, potential support
	LevelNegative LevelType = "negative" // high negative gamma, potential resistance
	LevelFlip     LevelType = "flip"     // net gamma zero crossing
)

// KeyLevel is a strike annotated with its gamma classification and a
// human-readable rationale for display in the dashboard levels table.
type KeyLevel struct {
	Strike      float64   `json:"strike"`
	NetGamma    float64   `json:"net_gamma"`
	TotalOI     int64     `json:"total_oi"`
	Type        LevelType `json:"type"`
	Description string    `json:"description"`
}

// ExposurePoint is one sample of the gamma exposure curve across spot prices
type ExposurePoint struct {
	SpotPrice float64 `json:"spot_price"`
	GEX       float64 `json:"gex"`
	CallGEX   float64 `json:"call_gex"`
	PutGEX    float64 `json:"put_gex"`
}

// DashboardSummary is the snapshot shown on the dashboard landing cards.
// Symbol and SpotPrice are taken from the first record of the input set;
// callers must pre-filter to a single underlying before summarizing.
type DashboardSummary struct {
	Symbol            string   `json:"symbol"`
	SpotPrice         float64  `json:"spot_price"`
	TotalGamma        float64  `json:"total_gamma"`
	TotalNetGamma     float64  `json:"total_net_gamma"`
	TopPositiveStrike *float64 `json:"top_positive_strike"`
	TopNegativeStrike *float64 `json:"top_negative_strike"`
	GammaFlipLevel    *float64 `json:"gamma_flip_level"`
	CallGammaTotal    float64  `json:"call_gamma_total"`
	PutGammaTotal     float64  `json:"put_gamma_total"`
	TotalOpenInterest int64    `json:"total_open_interest"`
	UniqueStrikes     int      `json:"unique_strikes"`
	UniqueExpiries    int      `json:"unique_expiries"`
}
