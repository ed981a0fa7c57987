// internal/service/location/normalizer.go

package location

import (
	"regexp"
	"strings"

	"datescout/internal/domain/event"
)

// Confidence tags how a raw string was resolved to a canonical city
type Confidence string

const (
	// ConfidenceHigh means an exact alias or exact venue-table match
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium means a substring venue-table match
	ConfidenceMedium Confidence = "medium"
	// ConfidenceLow means a pattern extraction from the raw string
	ConfidenceLow Confidence = "low"
)

// CanonicalCity is the result of resolving a raw city or venue string
type CanonicalCity struct {
	Name       string
	Confidence Confidence
}

// cityAliases maps a canonical city to its spelling and language variants.
// Matching is case-insensitive; entries are stored lowercased.
var cityAliases = map[string][]string{
	"Prague":   {"prague", "praha", "praga", "prag"},
	"Brno":     {"brno", "brünn"},
	"London":   {"london", "londres", "londyn", "londýn"},
	"Berlin":   {"berlin", "berlín"},
	"Vienna":   {"vienna", "wien", "vídeň", "viden"},
	"Warsaw":   {"warsaw", "warszawa", "varsovie"},
	"Paris":    {"paris", "paříž", "pariz"},
	"Munich":   {"munich", "münchen", "muenchen", "mnichov"},
	"Budapest": {"budapest", "budapešť"},
}

// venueCities maps well-known venues to the city they are in. Provider
// records frequently carry a country or region in the city field; the venue
// is then the only reliable locality signal.
var venueCities = map[string]string{
	"o2 arena":                  "Prague",
	"o2 universum":              "Prague",
	"forum karlin":              "Prague",
	"forum karlín":              "Prague",
	"prague congress centre":    "Prague",
	"rudolfinum":                "Prague",
	"lucerna great hall":        "Prague",
	"letnany exhibition centre": "Prague",
	"brno exhibition centre":    "Brno",
	"the o2":                    "London",
	"excel london":              "London",
	"wembley stadium":           "London",
	"royal albert hall":         "London",
	"olympia london":            "London",
	"messe berlin":              "Berlin",
	"velodrom":                  "Berlin",
	"austria center vienna":     "Vienna",
	"wiener stadthalle":         "Vienna",
	"palais des congres":        "Paris",
	"accor arena":               "Paris",
	"messe munchen":             "Munich",
	"ptak warsaw expo":          "Warsaw",
	"hungexpo":                  "Budapest",
}

// Normalizer resolves raw city and venue strings to canonical cities.
// It is a pure function of its inputs and the static tables; it holds no
// runtime state.
type Normalizer struct {
	aliases  map[string]string
	venues   map[string]string
	patterns map[string]*regexp.Regexp
}

// NewNormalizer builds a normalizer from the static alias and venue tables
func NewNormalizer() *Normalizer {
	aliases := make(map[string]string)
	for city, list := range cityAliases {
		for _, alias := range list {
			aliases[alias] = city
		}
	}

	patterns := make(map[string]*regexp.Regexp, len(cityAliases))
	for city, list := range cityAliases {
		patterns[city] = regexp.MustCompile(`(?i)\b(` + strings.Join(list, "|") + `)\b`)
	}

	return &Normalizer{
		aliases:  aliases,
		venues:   venueCities,
		patterns: patterns,
	}
}

// ResolveCity maps a raw city or venue string to a canonical city, or nil
// if the string resolves to no known city. Resolution order: exact alias
// match, exact venue-table match, substring venue-table match, city-name
// pattern extraction.
func (n *Normalizer) ResolveCity(raw string) *CanonicalCity {
	key := normalizeKey(raw)
	if key == "" {
		return nil
	}

	if city, ok := n.aliases[key]; ok {
		return &CanonicalCity{Name: city, Confidence: ConfidenceHigh}
	}

	if city, ok := n.venues[key]; ok {
		return &CanonicalCity{Name: city, Confidence: ConfidenceHigh}
	}

	// Substring venue match in either direction: a record may carry
	// "O2 Arena Prague" or a truncated venue name next to a full table
	// entry. Very short keys are skipped to avoid accidental hits.
	if len(key) >= 4 {
		for venue, city := range n.venues {
			if strings.Contains(key, venue) || strings.Contains(venue, key) {
				return &CanonicalCity{Name: city, Confidence: ConfidenceMedium}
			}
		}
	}

	for city, pattern := range n.patterns {
		if pattern.MatchString(raw) {
			return &CanonicalCity{Name: city, Confidence: ConfidenceLow}
		}
	}

	return nil
}

// BelongsTo reports whether an event is local to the target city.
// An event whose city field resolves to a different city is excluded even
// when its venue would match; an event resolving nowhere is excluded from
// every city's analysis.
func (n *Normalizer) BelongsTo(e event.Event, targetCity string) bool {
	target := n.ResolveCity(targetCity)
	if target == nil {
		// Unknown target city: fall back to a literal comparison so the
		// engine still works for cities outside the alias table.
		return strings.EqualFold(strings.TrimSpace(e.City), strings.TrimSpace(targetCity))
	}

	if resolved := n.resolveCityField(e.City); resolved != nil {
		return resolved.Name == target.Name
	}

	if e.Venue != "" {
		if resolved := n.ResolveCity(e.Venue); resolved != nil {
			return resolved.Name == target.Name
		}
	}

	// Last resort: pattern extraction over everything we have.
	raw := e.City + " " + e.Venue + " " + e.Title
	if pattern, ok := n.patterns[target.Name]; ok && pattern.MatchString(raw) {
		return true
	}

	return false
}

// resolveCityField resolves the city field alone, without the venue-table
// substring pass. Providers that put a country name in the city field must
// not accidentally substring-match a venue entry.
func (n *Normalizer) resolveCityField(raw string) *CanonicalCity {
	key := normalizeKey(raw)
	if key == "" {
		return nil
	}
	if city, ok := n.aliases[key]; ok {
		return &CanonicalCity{Name: city, Confidence: ConfidenceHigh}
	}
	for city, pattern := range n.patterns {
		if pattern.MatchString(raw) {
			return &CanonicalCity{Name: city, Confidence: ConfidenceLow}
		}
	}
	return nil
}

// normalizeKey lowercases and collapses whitespace for table lookups
func normalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
