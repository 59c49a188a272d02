package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/globequiz/internal/globequiz"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse documents the /healthz body: one entry per dependency.
type HealthResponse map[string]struct {
	Status string `json:"status" enum:"ok,error"`
	Error  string `json:"error,omitempty"`
}

type sessionPath struct {
	ID string `path:"id" format:"uuid"`
}

type guessOp struct {
	sessionPath
	GuessRequest
}

type modeOp struct {
	sessionPath
	ModeRequest
}

type settingsOp struct {
	sessionPath
	globequiz.SettingsPatch
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Globe Quiz API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend for the hot/cold country guessing globe.")

	type op struct {
		method, path, summary, description string
		req                                any
		resp                               any
		status                             int
		errors                             []int
		contentType                        string
	}

	ops := []op{
		{
			method: http.MethodGet, path: "/healthz", summary: "Health check",
			description: "Reports the session store and country dataset status.",
			resp:        HealthResponse{}, status: http.StatusOK,
			errors: []int{http.StatusServiceUnavailable},
		},
		{
			method: http.MethodGet, path: "/api/countries", summary: "List countries",
			description: "Every loaded country without geometry. Empty until the dataset has loaded.",
			resp:        []globequiz.Country{}, status: http.StatusOK,
		},
		{
			method: http.MethodPost, path: "/api/sessions", summary: "Create session",
			description: "Creates an idle session. Mode defaults to hotcold.",
			req:         CreateSessionRequest{}, resp: globequiz.View{}, status: http.StatusCreated,
			errors: []int{http.StatusBadRequest},
		},
		{
			method: http.MethodGet, path: "/api/sessions/{id}", summary: "Get session",
			description: "Session state, guess history and selectable names. The target is hidden until the round ends.",
			req:         sessionPath{}, resp: globequiz.View{}, status: http.StatusOK,
			errors: []int{http.StatusNotFound},
		},
		{
			method: http.MethodPost, path: "/api/sessions/{id}/start", summary: "Start round",
			description: "Draws a new target and clears the guesses. Does nothing while no countries are loaded.",
			req:         sessionPath{}, resp: globequiz.View{}, status: http.StatusOK,
			errors: []int{http.StatusNotFound},
		},
		{
			method: http.MethodPost, path: "/api/sessions/{id}/guesses", summary: "Submit guess",
			description: "Scores a guess. Unknown or repeated countries leave the session unchanged.",
			req:         guessOp{}, resp: globequiz.View{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest, http.StatusNotFound},
		},
		{
			method: http.MethodPost, path: "/api/sessions/{id}/select", summary: "Select country",
			description: "Highlights and recenters on a country in normal mode.",
			req:         guessOp{}, resp: globequiz.View{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest, http.StatusNotFound},
		},
		{
			method: http.MethodPut, path: "/api/sessions/{id}/mode", summary: "Switch mode",
			description: "Leaving hotcold discards the current round.",
			req:         modeOp{}, resp: globequiz.View{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest, http.StatusNotFound},
		},
		{
			method: http.MethodPut, path: "/api/sessions/{id}/settings", summary: "Update settings",
			description: "Partial update: omitted fields keep their value. maxGuesses is 1-20 or \"unlimited\". Recorded guesses are never rewritten.",
			req:         settingsOp{}, resp: globequiz.View{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest, http.StatusNotFound},
		},
		{
			method: http.MethodGet, path: "/api/sessions/{id}/polygons", summary: "Visible polygons",
			description: "Countries to draw with fill colour and GeoJSON geometry.",
			req:         sessionPath{}, resp: []globequiz.Polygon{}, status: http.StatusOK,
			errors: []int{http.StatusNotFound},
		},
		{
			method: http.MethodGet, path: "/api/sessions/{id}/names", summary: "Selectable names",
			description: "Loaded country names not yet guessed, sorted.",
			req:         sessionPath{}, resp: []string{}, status: http.StatusOK,
			errors: []int{http.StatusNotFound},
		},
		{
			method: http.MethodGet, path: "/api/sessions/{id}/events", summary: "SSE event stream",
			description: "Server-Sent Events with recenter instructions and state changes.",
			req:         sessionPath{}, status: http.StatusOK, contentType: "text/event-stream",
			errors: []int{http.StatusNotFound},
		},
		{
			method: http.MethodGet, path: "/api/sessions/{id}/play", summary: "WebSocket play",
			description: "Upgrades to a WebSocket. Send actions as JSON, receive the resulting view.",
			req:         sessionPath{}, status: http.StatusSwitchingProtocols, contentType: "application/json",
			errors: []int{http.StatusNotFound},
		},
	}

	for _, o := range ops {
		oc, err := r.NewOperationContext(o.method, o.path)
		if err != nil {
			continue
		}
		oc.SetSummary(o.summary)
		oc.SetDescription(o.description)
		if o.req != nil {
			oc.AddReqStructure(o.req)
		}
		if o.contentType != "" {
			oc.AddRespStructure(nil, openapi.WithHTTPStatus(o.status), openapi.WithContentType(o.contentType))
		} else {
			oc.AddRespStructure(o.resp, openapi.WithHTTPStatus(o.status))
		}
		for _, status := range o.errors {
			if status == http.StatusServiceUnavailable {
				oc.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(status))
				continue
			}
			oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(status))
		}
		_ = r.AddOperation(oc)
	}

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
