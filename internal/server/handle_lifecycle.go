package server

import (
	"net/http"

	"github.com/bridgetime/bridgetime/internal/game"
)

// Pause, resume and reset follow the state machine's failure policy: on an
// absent game they are silent no-ops, not errors, so a stale client never
// sees a failure for a speculative call.

func handlePause(sess *game.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := sess.Pause()
		writeJSON(w, http.StatusOK, GameStateResponse{Game: st.Game, Settings: st.Settings})
	}
}

func handleResume(sess *game.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := sess.Resume()
		writeJSON(w, http.StatusOK, GameStateResponse{Game: st.Game, Settings: st.Settings})
	}
}

func handleReset(sess *game.Session, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := sess.Reset()
		broker.Publish(SSEEvent{Type: EventGameReset})
		writeJSON(w, http.StatusOK, GameStateResponse{Game: st.Game, Settings: st.Settings})
	}
}
