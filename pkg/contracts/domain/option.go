package domain

// OptionType represents the side of an option contract
type OptionType string

const (
	OptionTypeCall OptionType = "call"
	OptionTypePut  OptionType = "put"
)

// IsValid checks if the option type is one of the two known sides
func (ot OptionType) IsValid() bool {
	return ot == OptionTypeCall || ot == OptionTypePut
}

// Marker returns the single-letter symbol marker for the side ("C" or "P")
func (ot OptionType) Marker() string {
	if ot == OptionTypePut {
		return "P"
	}
	return "C"
}

// OptionRecord is the canonical, source-independent representation of one
// option contract observation. Records are created fresh on every ingestion
// call and never mutated afterwards, with one exception: a post-parse pass may
// backfill UnderlyingPrice for every record when the source carried none.
type OptionRecord struct {
	ID                string     `json:"id"`
	Symbol            string     `json:"symbol"`
	Underlying        string     `json:"underlying"`
	Expiry            string     `json:"expiry"` // ISO date, YYYY-MM-DD
	Strike            float64    `json:"strike" validate:"gt=0"`
	OptionType        OptionType `json:"option_type"`
	Volume            int64      `json:"volume" validate:"min=0"`
	OpenInterest      int64      `json:"open_interest" validate:"gt=0"`
	Delta             float64    `json:"delta"`
	Gamma             float64    `json:"gamma"`
	Theta             float64    `json:"theta"`
	Vega              float64    `json:"vega"`
	ImpliedVolatility float64    `json:"implied_volatility"` // decimal fraction, not percentage
	Bid               float64    `json:"bid"`
	Ask               float64    `json:"ask"`
	Last              float64    `json:"last"`
	UnderlyingPrice   float64    `json:"underlying_price"` // 0 means unknown, may be imputed
}

// IsValid reports whether the record carries the minimum data required for
// aggregation. Records failing this are dropped silently during ingestion.
func (r OptionRecord) IsValid() bool {
	return r.Strike > 0 && r.OpenInterest > 0 && r.OptionType.IsValid()
}

// ColumnMapping maps each canonical field to the header string found in a
// generic tabular source. A field is absent when no header matched. The
// mapping is resolved once per ingestion call and reused for every row.
type ColumnMapping struct {
	Symbol          string `json:"symbol,omitempty"`
	Underlying      string `json:"underlying,omitempty"`
	Expiry          string `json:"expiry,omitempty"`
	Strike          string `json:"strike,omitempty"`
	Type            string `json:"type,omitempty"`
	Volume          string `json:"volume,omitempty"`
	OpenInterest    string `json:"open_interest,omitempty"`
	Delta           string `json:"delta,omitempty"`
	Gamma           string `json:"gamma,omitempty"`
	Theta           string `json:"theta,omitempty"`
	Vega            string `json:"vega,omitempty"`
	IV              string `json:"iv,omitempty"`
	Bid             string `json:"bid,omitempty"`
	Ask             string `json:"ask,omitempty"`
	Last            string `json:"last,omitempty"`
	UnderlyingPrice string `json:"underlying_price,omitempty"`
}

// ParseResult is the outcome of one ingestion call. Success is true when
// parsing produced zero structural errors, or when at least one valid record
// was extracted despite row-level errors.
type ParseResult struct {
	Success       bool           `json:"success"`
	Records       []OptionRecord `json:"records"`
	Errors        []string       `json:"errors"`
	Warnings      []string       `json:"warnings"`
	RowCount      int            `json:"row_count"`
	ValidRowCount int            `json:"valid_row_count"`
}
