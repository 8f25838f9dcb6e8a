package ingest

import (
	"strings"

	"gexcli/pkg/contracts/domain"
)

// canonicalField names one of the sixteen canonical columns
type canonicalField string

const (
	fieldSymbol          canonicalField = "symbol"
	fieldUnderlying      canonicalField = "underlying"
	fieldExpiry          canonicalField = "expiry"
	fieldStrike          canonicalField = "strike"
	fieldType            canonicalField = "type"
	fieldVolume          canonicalField = "volume"
	fieldOpenInterest    canonicalField = "openInterest"
	fieldDelta           canonicalField = "delta"
	fieldGamma           canonicalField = "gamma"
	fieldTheta           canonicalField = "theta"
	fieldVega            canonicalField = "vega"
	fieldIV              canonicalField = "iv"
	fieldBid             canonicalField = "bid"
	fieldAsk             canonicalField = "ask"
	fieldLast            canonicalField = "last"
	fieldUnderlyingPrice canonicalField = "underlyingPrice"
)

// columnSynonyms maps each canonical field to the header name variations seen
// across broker exports. Order matters: earlier synonyms win when several
// headers would match, so the exact names come before the loose ones. The
// tables are immutable static data and never mutated after construction.
var columnSynonyms = map[canonicalField][]string{
	fieldSymbol:          {"symbol", "ticker", "option_symbol", "optionsymbol", "option symbol", "contract"},
	fieldUnderlying:      {"underlying", "underlying_symbol", "root", "stock", "equity"},
	fieldExpiry:          {"expiry", "expiration", "exp", "expiration_date", "exp_date", "expirydate", "expdate"},
	fieldStrike:          {"strike", "strike_price", "strikeprice", "k"},
	fieldType:            {"type", "option_type", "optiontype", "call_put", "callput", "cp", "put_call", "putcall", "side"},
	fieldVolume:          {"volume", "vol", "trading_volume", "qty"},
	fieldOpenInterest:    {"open_interest", "openinterest", "oi", "open interest", "open_int"},
	fieldDelta:           {"delta", "del"},
	fieldGamma:           {"gamma", "gam"},
	fieldTheta:           {"theta", "the"},
	fieldVega:            {"vega", "veg"},
	fieldIV:              {"iv", "implied_volatility", "impliedvolatility", "impl_vol", "implvol", "implied vol", "implied_vol"},
	fieldBid:             {"bid", "bid_price", "bidprice"},
	fieldAsk:             {"ask", "ask_price", "askprice", "offer"},
	fieldLast:            {"last", "last_price", "lastprice", "close", "mark"},
	fieldUnderlyingPrice: {"underlying_price", "underlyingprice", "spot", "spot_price", "stock_price", "stockprice", "underlying_last"},
}

// requiredFields must all resolve for a generic ingestion to proceed
var requiredFields = []canonicalField{fieldStrike, fieldGamma, fieldOpenInterest}

// normalizeHeader lowercases a header and strips everything that is not a
// letter or digit, so "Open Interest", "open_interest" and "OPENINTEREST"
// all collapse to the same key.
func normalizeHeader(header string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(header) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// findColumn returns the first header matching any synonym, trying synonyms
// in priority order. A synonym matches a header when they are equal after
// normalization or the normalized header contains the normalized synonym.
func findColumn(headers []string, synonyms []string) string {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	for _, syn := range synonyms {
		ns := normalizeHeader(syn)
		for i, nh := range normalized {
			if nh == ns || strings.Contains(nh, ns) {
				return headers[i]
			}
		}
	}
	return ""
}

// DetectColumnMapping maps the header strings of a generic tabular source to
// the canonical field set. Fields with no matching header stay empty.
func DetectColumnMapping(headers []string) domain.ColumnMapping {
	return domain.ColumnMapping{
		Symbol:          findColumn(headers, columnSynonyms[fieldSymbol]),
		Underlying:      findColumn(headers, columnSynonyms[fieldUnderlying]),
		Expiry:          findColumn(headers, columnSynonyms[fieldExpiry]),
		Strike:          findColumn(headers, columnSynonyms[fieldStrike]),
		Type:            findColumn(headers, columnSynonyms[fieldType]),
		Volume:          findColumn(headers, columnSynonyms[fieldVolume]),
		OpenInterest:    findColumn(headers, columnSynonyms[fieldOpenInterest]),
		Delta:           findColumn(headers, columnSynonyms[fieldDelta]),
		Gamma:           findColumn(headers, columnSynonyms[fieldGamma]),
		Theta:           findColumn(headers, columnSynonyms[fieldTheta]),
		Vega:            findColumn(headers, columnSynonyms[fieldVega]),
		IV:              findColumn(headers, columnSynonyms[fieldIV]),
		Bid:             findColumn(headers, columnSynonyms[fieldBid]),
		Ask:             findColumn(headers, columnSynonyms[fieldAsk]),
		Last:            findColumn(headers, columnSynonyms[fieldLast]),
		UnderlyingPrice: findColumn(headers, columnSynonyms[fieldUnderlyingPrice]),
	}
}

// missingRequired returns the canonical names of required fields the mapping
// failed to resolve.
func missingRequired(mapping domain.ColumnMapping) []string {
	var missing []string
	resolved := map[canonicalField]string{
		fieldStrike:       mapping.Strike,
		fieldGamma:        mapping.Gamma,
		fieldOpenInterest: mapping.OpenInterest,
	}
	for _, f := range requiredFields {
		if resolved[f] == "" {
			missing = append(missing, string(f))
		}
	}
	return missing
}
