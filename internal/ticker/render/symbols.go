package render

// DefaultShortNames maps well-known asset ids to their short display codes.
var DefaultShortNames = map[string]string{
	"bitcoin":  "btc",
	"ethereum": "eth",
}

// ShortNames resolves the display prefix for an asset id.
type ShortNames map[string]string

// NewShortNames merges overrides on top of DefaultShortNames.
func NewShortNames(overrides map[string]string) ShortNames {
	names := make(ShortNames, len(DefaultShortNames)+len(overrides))
	for id, short := range DefaultShortNames {
		names[id] = short
	}
	for id, short := range overrides {
		names[id] = short
	}
	return names
}

// Display returns the short code for id, or id itself.
func (s ShortNames) Display(id string) string {
	if short, ok := s[id]; ok && short != "" {
		return short
	}
	return id
}
