package server

import (
	"log/slog"
	"net/http"

	"github.com/playperu/globequiz/internal/globequiz"
)

type CreateSessionRequest struct {
	Mode     globequiz.Mode           `json:"mode,omitempty"`
	Settings *globequiz.SettingsPatch `json:"settings,omitempty"`
}

func handleCreateSession(logger *slog.Logger, sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSessionRequest
		if err := readOptionalJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		mode := globequiz.ModeHotCold
		if req.Mode != "" {
			m, err := globequiz.ParseMode(string(req.Mode))
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			mode = m
		}

		settings := globequiz.DefaultSettings()
		if req.Settings != nil {
			merged, err := req.Settings.Merge(settings)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			settings = merged
		}

		view, err := sessions.Create(r.Context(), mode, settings)
		if err != nil {
			writeSessionError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, view)
	}
}

func handleGetSession(logger *slog.Logger, sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := sessions.View(r.Context(), sessionID(r))
		if err != nil {
			writeSessionError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func handlePolygons(logger *slog.Logger, sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		polys, err := sessions.Polygons(r.Context(), sessionID(r))
		if err != nil {
			writeSessionError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, polys)
	}
}

func handleNames(logger *slog.Logger, sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := sessions.Names(r.Context(), sessionID(r))
		if err != nil {
			writeSessionError(w, logger, err)
			return
		}
		if names == nil {
			names = []string{}
		}
		writeJSON(w, http.StatusOK, names)
	}
}

func handleCountries(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		countries := sessions.Countries().All()
		if countries == nil {
			countries = []globequiz.Country{}
		}
		writeJSON(w, http.StatusOK, countries)
	}
}
