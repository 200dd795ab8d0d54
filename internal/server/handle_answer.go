package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bridgetime/bridgetime/internal/bridgetime"
	"github.com/bridgetime/bridgetime/internal/game"
)

type AnswerRequest struct {
	OptionID string `json:"optionId"`
}

type AnswerResponse struct {
	Correct         bool                   `json:"correct"`
	CorrectOptionID string                 `json:"correctOptionId,omitempty"`
	Player          bridgetime.Player      `json:"player"`
	GameFinished    bool                   `json:"gameFinished"`
	Winner          *bridgetime.TimePeriod `json:"winner,omitempty"`
	CurrentTurn     bridgetime.TimePeriod  `json:"currentTurn"`
}

// handleAnswer resolves the submitted option against the pending question
// and advances the turn. The turn passes whether the answer was right or
// wrong; only a winning answer freezes it on the winner.
func handleAnswer(sess *game.Session, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.OptionID = strings.TrimSpace(req.OptionID)
		if req.OptionID == "" {
			writeError(w, http.StatusBadRequest, "optionId is required")
			return
		}

		g := sess.Game()
		if g == nil {
			writeError(w, http.StatusConflict, "no active game")
			return
		}
		q := g.CurrentQuestion
		if q == nil {
			writeError(w, http.StatusConflict, "no pending question: scan a card first")
			return
		}

		var chosen *bridgetime.AnswerOption
		for i := range q.Options {
			if q.Options[i].ID == req.OptionID {
				chosen = &q.Options[i]
				break
			}
		}
		if chosen == nil {
			writeError(w, http.StatusBadRequest, "unknown option for this question")
			return
		}

		player := g.CurrentTurn
		res, err := sess.Answer(chosen.IsCorrect)
		if errors.Is(err, game.ErrNoActiveGame) || errors.Is(err, game.ErrNoPendingQuestion) {
			// The question was consumed between the snapshot and the
			// answer, e.g. a double submit.
			writeError(w, http.StatusConflict, "no pending question: scan a card first")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := AnswerResponse{
			Correct:      res.Correct,
			Player:       res.Player,
			GameFinished: res.Finished,
			Winner:       res.Winner,
			CurrentTurn:  sess.Game().CurrentTurn,
		}
		if !res.Correct {
			if correct := q.CorrectOption(); correct != nil {
				resp.CorrectOptionID = correct.ID
			}
		}

		broker.Publish(SSEEvent{
			Type:       EventAnswered,
			Player:     player,
			QuestionID: q.ID,
			Correct:    res.Correct,
		})
		if res.Finished {
			broker.Publish(SSEEvent{
				Type:        EventGameFinished,
				Winner:      res.Winner,
				CurrentTurn: resp.CurrentTurn,
			})
		} else {
			broker.Publish(SSEEvent{
				Type:        EventTurnSwitched,
				CurrentTurn: resp.CurrentTurn,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
