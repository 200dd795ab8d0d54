package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bridgetime/bridgetime/internal/bridgetime"
	"github.com/bridgetime/bridgetime/internal/question"
	"github.com/bridgetime/bridgetime/internal/scan"
)

// AdminQuestionRequest is the request body for creating or updating a
// question. The id is the card number players scan, as a string of digits.
type AdminQuestionRequest struct {
	ID         string                       `json:"id"`
	CardID     string                       `json:"cardId"`
	TimePeriod bridgetime.TimePeriod        `json:"timePeriod"`
	Format     bridgetime.QuestionFormat    `json:"format"`
	Title      string                       `json:"title"`
	Content    string                       `json:"content"`
	Hint       string                       `json:"hint"`
	Options    []bridgetime.AnswerOption    `json:"options"`
	Metadata   *bridgetime.QuestionMetadata `json:"metadata"`
}

// validateQuestion enforces the authoring rules: complete content, a valid
// era, exactly one correct option, and an era consistent with the card
// number so a scanned card can never land in the wrong player's turn.
func validateQuestion(q bridgetime.Question) error {
	if strings.TrimSpace(q.ID) == "" {
		return errors.New("id is required")
	}
	if strings.TrimSpace(q.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(q.Content) == "" {
		return errors.New("content is required")
	}
	if !q.TimePeriod.Valid() {
		return fmt.Errorf("timePeriod must be %q or %q", bridgetime.Past, bridgetime.Present)
	}
	switch q.Format {
	case bridgetime.FormatText, bridgetime.FormatVideo, bridgetime.FormatAudio:
	case "":
		return errors.New("format is required")
	default:
		return fmt.Errorf("unknown format %q", q.Format)
	}
	if len(q.Options) < 2 {
		return errors.New("at least two answer options are required")
	}
	correct := 0
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if strings.TrimSpace(opt.ID) == "" || strings.TrimSpace(opt.Text) == "" {
			return errors.New("every option needs an id and text")
		}
		if seen[opt.ID] {
			return fmt.Errorf("duplicate option id %q", opt.ID)
		}
		seen[opt.ID] = true
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return errors.New("exactly one option must be marked correct")
	}
	if era, ok := scan.InferTimePeriod(q.ID); ok && era != q.TimePeriod {
		return fmt.Errorf("card number %s belongs to the %s era, not %s", q.ID, era, q.TimePeriod)
	}
	return nil
}

func questionFromRequest(req AdminQuestionRequest) bridgetime.Question {
	q := bridgetime.Question{
		ID:         strings.TrimSpace(req.ID),
		CardID:     strings.TrimSpace(req.CardID),
		TimePeriod: req.TimePeriod,
		Format:     req.Format,
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
		Hint:       req.Hint,
		Options:    req.Options,
		Metadata:   req.Metadata,
	}
	if q.CardID == "" {
		q.CardID = "card_" + q.ID
	}
	return q
}

// invalidator is satisfied by the cached lookup; the bare SQLite bank has
// nothing to invalidate.
type invalidator interface {
	Invalidate(ctx context.Context, id string)
}

func invalidateCached(ctx context.Context, lookup question.Lookup, id string) {
	if c, ok := lookup.(invalidator); ok {
		c.Invalidate(ctx, id)
	}
}

func handleAdminListQuestions(bank *question.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		questions, err := bank.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if questions == nil {
			questions = []bridgetime.Question{}
		}
		writeJSON(w, http.StatusOK, questions)
	}
}

func handleAdminCreateQuestion(bank *question.Bank, lookup question.Lookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminQuestionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		q := questionFromRequest(req)
		if err := validateQuestion(q); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if _, err := bank.GetAuthored(r.Context(), q.ID); err == nil {
			writeError(w, http.StatusConflict, "question already exists")
			return
		} else if !errors.Is(err, question.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if err := bank.Create(r.Context(), q); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		invalidateCached(r.Context(), lookup, q.ID)
		writeJSON(w, http.StatusCreated, q)
	}
}

func handleAdminGetQuestion(bank *question.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		q, err := bank.GetAuthored(r.Context(), id)
		if errors.Is(err, question.ErrNotFound) {
			writeError(w, http.StatusNotFound, "question not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func handleAdminUpdateQuestion(bank *question.Bank, lookup question.Lookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req AdminQuestionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.ID = id
		q := questionFromRequest(req)
		if err := validateQuestion(q); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := bank.Update(r.Context(), q); err != nil {
			if errors.Is(err, question.ErrNotFound) {
				writeError(w, http.StatusNotFound, "question not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		invalidateCached(r.Context(), lookup, q.ID)
		writeJSON(w, http.StatusOK, q)
	}
}

func handleAdminDeleteQuestion(bank *question.Bank, lookup question.Lookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := bank.Delete(r.Context(), id); err != nil {
			if errors.Is(err, question.ErrNotFound) {
				writeError(w, http.StatusNotFound, "question not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		invalidateCached(r.Context(), lookup, id)
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}
