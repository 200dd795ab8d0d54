package server

import (
	"net/http"
	"strings"

	"github.com/bridgetime/bridgetime/internal/game"
)

type StartGameRequest struct {
	PastName     string `json:"pastName"`
	PresentName  string `json:"presentName"`
	BridgeLength int    `json:"bridgeLength,omitempty"` // 0 means settings default
}

func handleStartGame(sess *game.Session, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.PastName = strings.TrimSpace(req.PastName)
		req.PresentName = strings.TrimSpace(req.PresentName)
		if req.PastName == "" || req.PresentName == "" {
			writeError(w, http.StatusBadRequest, "pastName and presentName are required")
			return
		}
		if req.BridgeLength < 0 {
			writeError(w, http.StatusBadRequest, "bridgeLength must be positive")
			return
		}

		// Starting replaces any game already in progress.
		st := sess.Start(req.PastName, req.PresentName, req.BridgeLength)

		broker.Publish(SSEEvent{
			Type:        EventGameStarted,
			CurrentTurn: st.Game.CurrentTurn,
		})

		writeJSON(w, http.StatusOK, GameStateResponse{
			Game:     st.Game,
			Settings: st.Settings,
		})
	}
}
