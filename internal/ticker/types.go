package ticker

// Currency represents one asset's latest market snapshot as returned by the ticker API.
// Numeric-looking fields stay as text; absent upstream fields decode to nil.
type Currency struct {
	ID     string `json:"id"`     // Canonical asset id (e.g., "bitcoin"), also the cache file stem
	Name   string `json:"name"`   // Display name (e.g., "Bitcoin")
	Symbol string `json:"symbol"` // Exchange symbol (e.g., "BTC")
	Rank   string `json:"rank"`   // Market cap rank, kept as text

	PriceUSD *string `json:"price_usd"`
	PriceBTC *string `json:"price_btc"`

	VolumeUSD24h    *string `json:"24h_volume_usd"`
	MarketCapUSD    *string `json:"market_cap_usd"`
	AvailableSupply *string `json:"available_supply"`
	TotalSupply     *string `json:"total_supply"`

	PercentChange1h  *string `json:"percent_change_1h"`
	PercentChange24h *string `json:"percent_change_24h"`
	PercentChange7d  *string `json:"percent_change_7d"`

	LastUpdated *string `json:"last_updated"` // Upstream epoch seconds as text
}

// NullMarker is rendered in place of any missing field.
const NullMarker = "null"

// PriceOrNull returns the USD price, or NullMarker when upstream omitted it.
func (c *Currency) PriceOrNull() string {
	return valueOrNull(c.PriceUSD)
}

func valueOrNull(s *string) string {
	if s == nil {
		return NullMarker
	}
	return *s
}
