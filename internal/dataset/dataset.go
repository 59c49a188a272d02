// Package dataset loads the country boundary collection (a Natural Earth
// admin-0 style GeoJSON FeatureCollection) into globequiz countries.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/playperu/globequiz/internal/geo"
	"github.com/playperu/globequiz/internal/globequiz"
)

// Natural Earth uses "-99" for countries without an official ISO 3166 code.
const missingISO = "-99"

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string          `json:"type"`
	Properties properties      `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// properties lists the fields we read; pointers mark what may be absent.
type properties struct {
	Admin   string   `json:"ADMIN"`
	Name    string   `json:"NAME"`
	ISOA2   string   `json:"ISO_A2"`
	ISOA2EH string   `json:"ISO_A2_EH"`
	LabelX  *float64 `json:"LABEL_X"`
	LabelY  *float64 `json:"LABEL_Y"`
	PopEst  *float64 `json:"POP_EST"`
}

// Stats reports how many features were kept and skipped by Parse.
type Stats struct {
	Features int
	Loaded   int
	Skipped  int
}

// Parse decodes a FeatureCollection. Features without a name or label point
// are skipped instead of failing the whole collection.
func Parse(r io.Reader) ([]globequiz.Country, Stats, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, Stats{}, fmt.Errorf("decoding feature collection: %w", err)
	}

	stats := Stats{Features: len(fc.Features)}
	countries := make([]globequiz.Country, 0, len(fc.Features))
	for _, f := range fc.Features {
		c, ok := toCountry(f)
		if !ok {
			stats.Skipped++
			continue
		}
		countries = append(countries, c)
	}
	stats.Loaded = len(countries)
	return countries, stats, nil
}

func toCountry(f feature) (globequiz.Country, bool) {
	p := f.Properties

	name := strings.TrimSpace(p.Admin)
	if name == "" {
		name = strings.TrimSpace(p.Name)
	}
	if name == "" || p.LabelX == nil || p.LabelY == nil {
		return globequiz.Country{}, false
	}

	iso := p.ISOA2
	if iso == "" || iso == missingISO {
		iso = p.ISOA2EH
	}
	if iso == missingISO {
		iso = ""
	}

	c := globequiz.Country{
		Name:     name,
		ISOCode:  strings.ToUpper(iso),
		Anchor:   geo.Point{Lat: *p.LabelY, Lng: *p.LabelX},
		Boundary: f.Geometry,
	}
	if p.PopEst != nil && *p.PopEst > 0 {
		c.Population = int64(*p.PopEst)
	}
	if string(c.Boundary) == "null" {
		c.Boundary = nil
	}
	return c, true
}

// Fetch reads a collection from an http(s) URL or a local path.
func Fetch(ctx context.Context, client *http.Client, source string) ([]globequiz.Country, Stats, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, Stats{}, fmt.Errorf("opening %s: %w", source, err)
		}
		defer f.Close()
		return Parse(f)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("building request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("fetching %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, Stats{}, fmt.Errorf("fetching %s: unexpected status %s", source, resp.Status)
	}
	return Parse(resp.Body)
}
