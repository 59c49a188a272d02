package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/playperu/globequiz/internal/database"
	"github.com/playperu/globequiz/internal/dataset"
	"github.com/playperu/globequiz/internal/geo"
	"github.com/playperu/globequiz/internal/globequiz"
	"github.com/playperu/globequiz/internal/handler/health"
	"github.com/playperu/globequiz/internal/migrations"
)

// fixedPicker always draws the same index.
type fixedPicker int

func (p fixedPicker) Intn(n int) int { return int(p) % n }

var testCountries = []globequiz.Country{
	{Name: "France", ISOCode: "FR", Anchor: geo.Point{Lat: 46.0, Lng: 2.0}, Boundary: json.RawMessage(`{"type":"Polygon","coordinates":[]}`)},
	{Name: "Germany", ISOCode: "DE", Anchor: geo.Point{Lat: 51.0, Lng: 9.0}},
	{Name: "Antarctica", ISOCode: "AQ", Anchor: geo.Point{Lat: -80.0, Lng: 0}},
}

type testEnv struct {
	router   http.Handler
	sessions *Sessions
	broker   *Broker
	catalog  *dataset.Catalog
}

func newTestEnv(t *testing.T, countries []globequiz.Country) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("migrations: %v", err)
	}

	catalog := dataset.NewCatalog()
	if countries != nil {
		catalog.Replace(countries)
	}
	store := NewSQLiteStore(db)
	broker := NewBroker()
	sessions := NewSessions(store, catalog, broker, fixedPicker(0), globequiz.DefaultPalette(), slog.Default())

	router := NewRouter(slog.Default(), Deps{
		Sessions: sessions,
		Broker:   broker,
		Checks: map[string]health.Checker{
			"sqlite":    store,
			"countries": catalog,
		},
	})
	return &testEnv{router: router, sessions: sessions, broker: broker, catalog: catalog}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) globequiz.View {
	t.Helper()
	var v globequiz.View
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return v
}

func (e *testEnv) createSession(t *testing.T, req CreateSessionRequest) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/sessions", req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return decodeView(t, w).Session.ID
}

func oneGuess() *globequiz.SettingsPatch {
	limit := globequiz.Limit(1)
	return &globequiz.SettingsPatch{MaxGuesses: &limit}
}

func TestCreateSessionDefaults(t *testing.T) {
	e := newTestEnv(t, testCountries)

	w := e.do(t, http.MethodPost, "/api/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	v := decodeView(t, w)
	if _, err := uuid.Parse(v.Session.ID); err != nil {
		t.Errorf("session id %q is not a uuid", v.Session.ID)
	}
	if v.Session.Mode != globequiz.ModeHotCold || v.Session.Status != globequiz.StatusIdle {
		t.Errorf("session = %+v, want idle hotcold", v.Session)
	}
	if v.Session.Settings != globequiz.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", v.Session.Settings)
	}

	w = e.do(t, http.MethodGet, "/api/sessions/"+v.Session.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	if got := decodeView(t, w); got.Session.ID != v.Session.ID {
		t.Errorf("get returned session %q", got.Session.ID)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	e := newTestEnv(t, testCountries)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"bad mode", `{"mode":"arcade"}`},
		{"bad hint style", `{"settings":{"maxGuesses":3,"hintStyle":"smell"}}`},
		{"bad limit", `{"settings":{"maxGuesses":"lots","hintStyle":"color"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()
			e.router.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestSessionNotFound(t *testing.T) {
	e := newTestEnv(t, testCountries)

	for _, path := range []string{
		"/api/sessions/" + uuid.NewString(),
		"/api/sessions/" + uuid.NewString() + "/start",
		"/api/sessions/not-a-uuid",
	} {
		method := http.MethodGet
		if path[len(path)-5:] == "start" {
			method = http.MethodPost
		}
		if w := e.do(t, method, path, nil); w.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", method, path, w.Code)
		}
	}
}

func TestLostScenario(t *testing.T) {
	e := newTestEnv(t, testCountries)
	id := e.createSession(t, CreateSessionRequest{Settings: oneGuess()})

	w := e.do(t, http.MethodPost, "/api/sessions/"+id+"/start", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	v := decodeView(t, w)
	if v.Session.Status != globequiz.StatusPlaying {
		t.Fatalf("start: status = %q", v.Session.Status)
	}
	if v.Session.Target != nil {
		t.Fatal("start: target leaked to client")
	}

	w = e.do(t, http.MethodPost, "/api/sessions/"+id+"/guesses", GuessRequest{Country: "Germany"})
	if w.Code != http.StatusOK {
		t.Fatalf("guess: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	v = decodeView(t, w)

	if v.Session.Status != globequiz.StatusLost {
		t.Errorf("status = %q, want lost", v.Session.Status)
	}
	if v.Session.Target == nil || v.Session.Target.Name != "France" {
		t.Errorf("target = %v, want France revealed", v.Session.Target)
	}
	if len(v.History.Entries) != 1 || v.History.Entries[0].String() != "Germany — 758 km" {
		t.Errorf("history = %+v", v.History.Entries)
	}
	if v.History.Outcome == nil || v.History.Outcome.Message != "Out of guesses!" {
		t.Errorf("outcome = %+v", v.History.Outcome)
	}
	if len(v.Recenter) != 2 || v.Recenter[1].Reason != globequiz.RecenterReveal {
		t.Errorf("recenter = %+v, want guess + reveal", v.Recenter)
	}

	w = e.do(t, http.MethodGet, "/api/sessions/"+id+"/polygons", nil)
	var polys []globequiz.Polygon
	if err := json.NewDecoder(w.Body).Decode(&polys); err != nil {
		t.Fatalf("decode polygons: %v", err)
	}
	if len(polys) != 2 || polys[1].Name != "France" || polys[1].Color != globequiz.DefaultPalette().Revealed.Hex() {
		t.Errorf("polygons = %+v, want Germany then revealed France", polys)
	}
	if polys[1].Boundary == nil {
		t.Error("france polygon lost its boundary")
	}
}

func TestWonScenario(t *testing.T) {
	e := newTestEnv(t, testCountries)
	id := e.createSession(t, CreateSessionRequest{Settings: oneGuess()})
	e.do(t, http.MethodPost, "/api/sessions/"+id+"/start", nil)

	v := decodeView(t, e.do(t, http.MethodPost, "/api/sessions/"+id+"/guesses", GuessRequest{Country: "France"}))
	if v.Session.Status != globequiz.StatusWon {
		t.Errorf("status = %q, want won", v.Session.Status)
	}
	if len(v.History.Entries) != 1 || v.History.Entries[0].String() != "France — 0 km" {
		t.Errorf("history = %+v", v.History.Entries)
	}
}

func TestIgnoredGuesses(t *testing.T) {
	e := newTestEnv(t, testCountries)
	id := e.createSession(t, CreateSessionRequest{})
	e.do(t, http.MethodPost, "/api/sessions/"+id+"/start", nil)
	e.do(t, http.MethodPost, "/api/sessions/"+id+"/guesses", GuessRequest{Country: "Germany"})

	for _, name := range []string{"Germany", "Atlantis", ""} {
		w := e.do(t, http.MethodPost, "/api/sessions/"+id+"/guesses", GuessRequest{Country: name})
		if w.Code != http.StatusOK {
			t.Fatalf("guess %q: expected 200, got %d", name, w.Code)
		}
		v := decodeView(t, w)
		if len(v.Session.Guesses) != 1 || v.Session.Status != globequiz.StatusPlaying {
			t.Errorf("guess %q changed session: %+v", name, v.Session)
		}
		if len(v.Recenter) != 0 {
			t.Errorf("guess %q produced recenter %+v", name, v.Recenter)
		}
	}

	var names []string
	json.NewDecoder(e.do(t, http.MethodGet, "/api/sessions/"+id+"/names", nil).Body).Decode(&names)
	if len(names) != 2 || names[0] != "Antarctica" || names[1] != "France" {
		t.Errorf("names = %v, want Germany removed", names)
	}
}

func TestStartBeforeDatasetLoads(t *testing.T) {
	e := newTestEnv(t, nil)
	id := e.createSession(t, CreateSessionRequest{})

	v := decodeView(t, e.do(t, http.MethodPost, "/api/sessions/"+id+"/start", nil))
	if v.Session.Status != globequiz.StatusIdle {
		t.Errorf("status = %q, want idle with no countries", v.Session.Status)
	}

	w := e.do(t, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("healthz: expected 503 before load, got %d", w.Code)
	}

	e.catalog.Replace(testCountries)
	v = decodeView(t, e.do(t, http.MethodPost, "/api/sessions/"+id+"/start", nil))
	if v.Session.Status != globequiz.StatusPlaying {
		t.Errorf("status = %q, want playing once countries arrive", v.Session.Status)
	}
	if w := e.do(t, http.MethodGet, "/healthz", nil); w.Code != http.StatusOK {
		t.Errorf("healthz: expected 200 after load, got %d", w.Code)
	}
}

func TestModeAndSelect(t *testing.T) {
	e := newTestEnv(t, testCountries)
	id := e.createSession(t, CreateSessionRequest{})
	e.do(t, http.MethodPost, "/api/sessions/"+id+"/start", nil)
	e.do(t, http.MethodPost, "/api/sessions/"+id+"/guesses", GuessRequest{Country: "Germany"})

	if w := e.do(t, http.MethodPut, "/api/sessions/"+id+"/mode", ModeRequest{Mode: "arcade"}); w.Code != http.StatusBadRequest {
		t.Errorf("bad mode: expected 400, got %d", w.Code)
	}

	v := decodeView(t, e.do(t, http.MethodPut, "/api/sessions/"+id+"/mode", ModeRequest{Mode: globequiz.ModeNormal}))
	if v.Session.Mode != globequiz.ModeNormal || v.Session.Status != globequiz.StatusIdle || len(v.Session.Guesses) != 0 {
		t.Errorf("after mode switch = %+v", v.Session)
	}

	v = decodeView(t, e.do(t, http.MethodPost, "/api/sessions/"+id+"/select", GuessRequest{Country: "germany"}))
	if v.Session.Selected != "Germany" || len(v.Recenter) != 1 {
		t.Errorf("select = %+v", v)
	}

	var polys []globequiz.Polygon
	json.NewDecoder(e.do(t, http.MethodGet, "/api/sessions/"+id+"/polygons", nil).Body).Decode(&polys)
	if len(polys) != 2 {
		t.Fatalf("normal polygons = %d, want 2 without Antarctica", len(polys))
	}
	if polys[1].Name != "Germany" || polys[1].Color != globequiz.DefaultPalette().Accent.Hex() {
		t.Errorf("germany polygon = %+v, want accent", polys[1])
	}
}

func TestSettings(t *testing.T) {
	e := newTestEnv(t, testCountries)
	id := e.createSession(t, CreateSessionRequest{})

	body := map[string]any{"maxGuesses": "unlimited", "hintStyle": "color", "hintsEnabled": true}
	v := decodeView(t, e.do(t, http.MethodPut, "/api/sessions/"+id+"/settings", body))
	if !v.Session.Settings.MaxGuesses.Unlimited() || v.Session.Settings.HintStyle != globequiz.HintColor {
		t.Errorf("settings = %+v", v.Session.Settings)
	}
	if v.History.Headline != "Guesses (0 / Unlimited)" {
		t.Errorf("headline = %q", v.History.Headline)
	}

	bad := map[string]any{"maxGuesses": 5, "hintStyle": "sound"}
	if w := e.do(t, http.MethodPut, "/api/sessions/"+id+"/settings", bad); w.Code != http.StatusBadRequest {
		t.Errorf("bad settings: expected 400, got %d", w.Code)
	}
}

func TestPartialSettingsKeepLimit(t *testing.T) {
	e := newTestEnv(t, testCountries)
	limit := globequiz.Limit(2)
	id := e.createSession(t, CreateSessionRequest{Settings: &globequiz.SettingsPatch{MaxGuesses: &limit}})
	e.do(t, http.MethodPost, "/api/sessions/"+id+"/start", nil)

	body := map[string]any{"hintStyle": "color", "hintsEnabled": true}
	v := decodeView(t, e.do(t, http.MethodPut, "/api/sessions/"+id+"/settings", body))
	if n, ok := v.Session.Settings.MaxGuesses.Max(); !ok || n != 2 {
		t.Fatalf("max guesses = %s, want 2", v.Session.Settings.MaxGuesses)
	}
	if v.Session.Settings.HintStyle != globequiz.HintColor {
		t.Errorf("hint style = %q, want color", v.Session.Settings.HintStyle)
	}

	e.do(t, http.MethodPost, "/api/sessions/"+id+"/guesses", GuessRequest{Country: "Germany"})
	v = decodeView(t, e.do(t, http.MethodPost, "/api/sessions/"+id+"/guesses", GuessRequest{Country: "Antarctica"}))
	if v.Session.Status != globequiz.StatusLost {
		t.Errorf("status = %q, want lost after two wrong guesses", v.Session.Status)
	}

	// Only the hint style given; limit and hints flag fall back to defaults.
	w := e.do(t, http.MethodPost, "/api/sessions", map[string]any{"settings": map[string]any{"hintStyle": "color"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", w.Code)
	}
	created := decodeView(t, w).Session.Settings
	want := globequiz.DefaultSettings()
	want.HintStyle = globequiz.HintColor
	if created != want {
		t.Errorf("settings = %+v, want %+v", created, want)
	}
}

func TestCountries(t *testing.T) {
	e := newTestEnv(t, testCountries)

	w := e.do(t, http.MethodGet, "/api/countries", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got []map[string]any
	json.NewDecoder(w.Body).Decode(&got)
	if len(got) != 3 {
		t.Fatalf("countries = %d, want 3", len(got))
	}
	if _, ok := got[0]["boundary"]; ok {
		t.Error("country list includes geometry")
	}
}
