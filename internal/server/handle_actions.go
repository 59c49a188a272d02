package server

import (
	"log/slog"
	"net/http"

	"github.com/playperu/globequiz/internal/globequiz"
)

type GuessRequest struct {
	Country string `json:"country"`
}

type ModeRequest struct {
	Mode globequiz.Mode `json:"mode"`
}

// handleAction decodes a request body into an Action via build and applies it.
// A nil build means the action carries no body.
func handleAction(logger *slog.Logger, sessions *Sessions, typ string, build func(r *http.Request) (Action, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := Action{Type: typ}
		if build != nil {
			var err error
			if a, err = build(r); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}

		view, err := sessions.Apply(r.Context(), sessionID(r), a)
		if err != nil {
			writeSessionError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func handleStart(logger *slog.Logger, sessions *Sessions) http.HandlerFunc {
	return handleAction(logger, sessions, ActionStart, nil)
}

func handleGuess(logger *slog.Logger, sessions *Sessions) http.HandlerFunc {
	return handleAction(logger, sessions, ActionGuess, func(r *http.Request) (Action, error) {
		var req GuessRequest
		err := readJSON(r, &req)
		return Action{Type: ActionGuess, Country: req.Country}, err
	})
}

func handleSelect(logger *slog.Logger, sessions *Sessions) http.HandlerFunc {
	return handleAction(logger, sessions, ActionSelect, func(r *http.Request) (Action, error) {
		var req GuessRequest
		err := readJSON(r, &req)
		return Action{Type: ActionSelect, Country: req.Country}, err
	})
}

func handleMode(logger *slog.Logger, sessions *Sessions) http.HandlerFunc {
	return handleAction(logger, sessions, ActionMode, func(r *http.Request) (Action, error) {
		var req ModeRequest
		err := readJSON(r, &req)
		return Action{Type: ActionMode, Mode: req.Mode}, err
	})
}

func handleSettings(logger *slog.Logger, sessions *Sessions) http.HandlerFunc {
	return handleAction(logger, sessions, ActionSettings, func(r *http.Request) (Action, error) {
		var req globequiz.SettingsPatch
		err := readJSON(r, &req)
		return Action{Type: ActionSettings, Settings: &req}, err
	})
}
