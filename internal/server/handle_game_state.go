package server

import (
	"net/http"

	"github.com/bridgetime/bridgetime/internal/bridgetime"
	"github.com/bridgetime/bridgetime/internal/game"
)

// GameStateResponse is the full observable state: the live game (null before
// the first start and after a reset) plus the process-wide settings.
type GameStateResponse struct {
	Game     *bridgetime.GameState   `json:"game"`
	Settings bridgetime.GameSettings `json:"settings"`
}

func handleGameState(sess *game.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := sess.Snapshot()
		writeJSON(w, http.StatusOK, GameStateResponse{
			Game:     st.Game,
			Settings: st.Settings,
		})
	}
}
