package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

type playError struct {
	Error string `json:"error"`
}

// handlePlay upgrades to a WebSocket that takes one Action per message and
// answers each with the resulting view. The current view is sent on connect.
func handlePlay(logger *slog.Logger, sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := sessionID(r)
		view, err := sessions.View(r.Context(), id)
		if err != nil {
			writeSessionError(w, logger, err)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Minute)
		defer cancel()

		if err := wsjson.Write(ctx, conn, view); err != nil {
			logger.Debug("websocket write failed", "error", err)
			return
		}

		for {
			var a Action
			if err := wsjson.Read(ctx, conn, &a); err != nil {
				if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
					logger.Debug("websocket read ended", "session_id", id, "error", err)
				}
				return
			}

			var reply any
			view, err := sessions.Apply(ctx, id, a)
			switch {
			case err == nil:
				reply = view
			case errors.Is(err, ErrInvalidAction):
				reply = playError{Error: err.Error()}
			case errors.Is(err, ErrNotFound):
				conn.Close(websocket.StatusPolicyViolation, "session not found")
				return
			default:
				logger.Error("applying websocket action", "session_id", id, "error", err)
				conn.Close(websocket.StatusInternalError, "internal error")
				return
			}

			if err := wsjson.Write(ctx, conn, reply); err != nil {
				logger.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}
