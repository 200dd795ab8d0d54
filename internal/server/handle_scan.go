package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bridgetime/bridgetime/internal/bridgetime"
	"github.com/bridgetime/bridgetime/internal/game"
	"github.com/bridgetime/bridgetime/internal/question"
	"github.com/bridgetime/bridgetime/internal/scan"
)

type ScanRequest struct {
	Payload string `json:"payload"`
}

type ScanResponse struct {
	Question   bridgetime.Question   `json:"question"`
	TimePeriod bridgetime.TimePeriod `json:"timePeriod"`
}

// handleScan is the full scan pipeline: gate the raw payload against the
// current turn, look the question up, and hand it to the state machine.
func handleScan(logger *slog.Logger, sess *game.Session, gate *scan.Gate, questions question.Lookup, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScanRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		questionID, era, err := gate.Check(req.Payload, sess.Game())
		if err != nil {
			writeScanError(w, logger, req.Payload, err)
			return
		}
		// The gate stays busy until the question has been handed over, so
		// a camera loop re-reading the same code cannot race us.
		defer gate.Release()

		q := questions.Get(r.Context(), questionID, era)
		sess.SetQuestion(q)

		broker.Publish(SSEEvent{
			Type:        EventQuestionSet,
			Player:      era,
			QuestionID:  q.ID,
			CurrentTurn: era,
		})

		writeJSON(w, http.StatusOK, ScanResponse{
			Question:   q,
			TimePeriod: era,
		})
	}
}

func writeScanError(w http.ResponseWriter, logger *slog.Logger, payload string, err error) {
	var mismatch *scan.EraMismatchError
	switch {
	case errors.Is(err, scan.ErrScanDebounced):
		// The camera loop fires the same code many times; ignore quietly.
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, scan.ErrNoActiveGame):
		writeError(w, http.StatusConflict, "no active game: return to the home screen and start a new one")
	case errors.Is(err, scan.ErrUnrecognizedPayload):
		logger.Warn("unrecognized scan payload", "payload", payload)
		writeError(w, http.StatusUnprocessableEntity, "could not recognize the card: try scanning again")
	case errors.Is(err, scan.ErrUnknownEra):
		writeError(w, http.StatusUnprocessableEntity, "could not determine the card's era: try another card")
	case errors.As(err, &mismatch):
		writeJSON(w, http.StatusConflict, EraMismatchResponse{
			Error:       mismatch.Error(),
			ExpectedEra: mismatch.Expected,
			ScannedEra:  mismatch.Scanned,
		})
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// EraMismatchResponse names both eras so the client can tell the player
// which deck to draw from.
type EraMismatchResponse struct {
	Error       string                `json:"error"`
	ExpectedEra bridgetime.TimePeriod `json:"expectedEra"`
	ScannedEra  bridgetime.TimePeriod `json:"scannedEra"`
}
