package server

import (
	"net/http"

	"github.com/bridgetime/bridgetime/internal/game"
)

func handleGetSettings(sess *game.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sess.Settings())
	}
}

// handleUpdateSettings merges a partial settings record over the current
// one. Settings outlive game resets; a non-positive bridgeLength is ignored
// by the merge.
func handleUpdateSettings(sess *game.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch game.SettingsPatch
		if err := readJSON(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		st := sess.UpdateSettings(patch)
		writeJSON(w, http.StatusOK, st.Settings)
	}
}
