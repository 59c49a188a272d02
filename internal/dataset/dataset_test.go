package dataset

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	f, err := os.Open("testdata/countries.geojson")
	if err != nil {
		t.Fatalf("opening fixture: %v", err)
	}
	defer f.Close()

	countries, stats, err := Parse(f)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if stats.Features != 6 || stats.Loaded != 4 || stats.Skipped != 2 {
		t.Errorf("stats = %+v, want 6 features, 4 loaded, 2 skipped", stats)
	}

	fr := countries[0]
	if fr.Name != "France" || fr.ISOCode != "FR" {
		t.Errorf("france = %+v, want ISO fallback to ISO_A2_EH", fr)
	}
	if fr.Anchor.Lat != 46.0 || fr.Anchor.Lng != 2.0 {
		t.Errorf("france anchor = %+v", fr.Anchor)
	}
	if fr.Population != 67059887 {
		t.Errorf("france population = %d", fr.Population)
	}
	if !strings.Contains(string(fr.Boundary), `"Polygon"`) {
		t.Errorf("france boundary = %s", fr.Boundary)
	}

	aq := countries[2]
	if aq.ISOCode != "AQ" || aq.Boundary != nil {
		t.Errorf("antarctica = %+v, want AQ with no boundary", aq)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, _, err := Parse(strings.NewReader(`{"features": 5}`)); err == nil {
		t.Error("expected error for malformed collection")
	}
}

func TestFetch(t *testing.T) {
	fixture, err := os.ReadFile("testdata/countries.geojson")
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/countries.geojson" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write(fixture)
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		source  string
		want    int
		wantErr bool
	}{
		{name: "local file", source: "testdata/countries.geojson", want: 4},
		{name: "http", source: srv.URL + "/countries.geojson", want: 4},
		{name: "http 404", source: srv.URL + "/missing", wantErr: true},
		{name: "missing file", source: "testdata/nope.geojson", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			countries, _, err := Fetch(context.Background(), srv.Client(), tt.source)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if len(countries) != tt.want {
				t.Errorf("countries = %d, want %d", len(countries), tt.want)
			}
		})
	}
}

func TestLoaderRun(t *testing.T) {
	catalog := NewCatalog()
	if err := catalog.Check(context.Background()); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("Check before load = %v, want ErrNotLoaded", err)
	}

	failing := &Loader{Source: "testdata/nope.geojson", Logger: slog.Default()}
	failing.Run(context.Background(), catalog)
	if catalog.Countries().Len() != 0 {
		t.Fatal("failed load populated the catalog")
	}

	loader := &Loader{Source: "testdata/countries.geojson", Logger: slog.Default()}
	loader.Run(context.Background(), catalog)

	set := catalog.Countries()
	if set.Len() != 3 {
		t.Fatalf("catalog size = %d, want 3 after dropping the duplicate Germany", set.Len())
	}
	de, ok := set.Lookup("Germany")
	if !ok || de.Anchor.Lat != 51.0 {
		t.Errorf("germany = %+v, want the first record", de)
	}
	if len(set.Eligible()) != 2 {
		t.Errorf("eligible = %d, want 2 without Antarctica", len(set.Eligible()))
	}
	if err := catalog.Check(context.Background()); err != nil {
		t.Errorf("Check after load = %v", err)
	}
}
