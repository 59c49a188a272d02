package globequiz

import (
	"slices"

	"github.com/playperu/globequiz/internal/geo"
)

// Palette holds the fixed polygon colours. Hint colours come from the
// proximity scale instead.
type Palette struct {
	Base     geo.RGB `json:"base"`
	Accent   geo.RGB `json:"accent"`
	Revealed geo.RGB `json:"revealed"`
	Neutral  geo.RGB `json:"neutral"`
}

func DefaultPalette() Palette {
	return Palette{
		Base:     geo.MustParseHex("#4b5563"),
		Accent:   geo.MustParseHex("#f59e0b"),
		Revealed: geo.MustParseHex("#22c55e"),
		Neutral:  geo.MustParseHex("#9ca3af"),
	}
}

// VisibleCountries returns the polygons the globe should draw.
func VisibleCountries(s Session, countries *CountrySet) []Country {
	if s.Mode == ModeNormal {
		return countries.Eligible()
	}

	switch s.Status {
	case StatusPlaying, StatusWon, StatusLost:
	default:
		return []Country{}
	}

	visible := make([]Country, 0, len(s.Guesses)+1)
	for _, g := range s.Guesses {
		visible = append(visible, withBoundary(countries, g.Country))
	}
	if s.Status.Over() && s.Target != nil && !s.Guessed(s.Target.Name) {
		visible = append(visible, withBoundary(countries, *s.Target))
	}
	return visible
}

// withBoundary prefers the loaded record, which carries the geometry that
// stored sessions leave out.
func withBoundary(countries *CountrySet, c Country) Country {
	if loaded, ok := countries.Lookup(c.Name); ok && loaded.Name == c.Name {
		return loaded
	}
	return c
}

// CountryColor returns the fill colour for c under the session's state.
func CountryColor(s Session, c Country, p Palette) geo.RGB {
	if s.Mode == ModeNormal {
		if s.Selected != "" && c.Name == s.Selected {
			return p.Accent
		}
		return p.Base
	}

	if s.Status.Over() && s.Target != nil && c.Name == s.Target.Name {
		return p.Revealed
	}
	if g, ok := s.guessFor(c.Name); ok && s.Settings.HintsEnabled && s.Settings.HintStyle == HintColor {
		return g.HintColor()
	}
	return p.Neutral
}

// SelectableNames lists the names the picker may still offer.
func SelectableNames(s Session, countries *CountrySet) []string {
	return slices.DeleteFunc(countries.Names(), s.Guessed)
}

// Polygon is one country ready for the rendering surface.
type Polygon struct {
	Name    string    `json:"name"`
	ISOCode string    `json:"isoCode"`
	Label   string    `json:"label"`
	Anchor  geo.Point `json:"anchor"`
	Color   string    `json:"color"`
	// Population is POP_EST for the hover label; 0 when unknown.
	Population int64 `json:"population,omitempty"`
	Boundary   any   `json:"boundary"`
}

// Polygons pairs every visible country with its colour.
func Polygons(s Session, countries *CountrySet, p Palette) []Polygon {
	visible := VisibleCountries(s, countries)
	out := make([]Polygon, 0, len(visible))
	for _, c := range visible {
		var boundary any
		if len(c.Boundary) > 0 {
			boundary = c.Boundary
		}
		out = append(out, Polygon{
			Name:       c.Name,
			ISOCode:    c.ISOCode,
			Label:      c.Label(),
			Anchor:     c.Anchor,
			Color:      CountryColor(s, c, p).Hex(),
			Population: c.Population,
			Boundary:   boundary,
		})
	}
	return out
}
