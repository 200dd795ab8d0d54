// Package question resolves question ids to playable questions. Content is
// data: authored entries live in SQLite, and ids without an authored entry
// get a synthesized placeholder so a freshly printed card is always playable.
package question

import (
	"context"
	"fmt"

	"github.com/bridgetime/bridgetime/internal/bridgetime"
	"github.com/bridgetime/bridgetime/internal/scan"
)

// Lookup is the contract the game flow depends on: total and non-failing.
// Whatever goes wrong underneath, the player gets a question.
type Lookup interface {
	Get(ctx context.Context, id string, fallbackEra bridgetime.TimePeriod) bridgetime.Question
}

// Placeholder synthesizes a question for a card number with no authored
// entry: a fixed four-option scaffold with option "a" correct. The era comes
// from the numeric convention when the id supports it, otherwise from the
// fallback.
func Placeholder(id string, fallbackEra bridgetime.TimePeriod) bridgetime.Question {
	era := fallbackEra
	if inferred, ok := scan.InferTimePeriod(id); ok {
		era = inferred
	}
	return bridgetime.Question{
		ID:         id,
		CardID:     fmt.Sprintf("card-%s-%s", era, id),
		TimePeriod: era,
		Format:     bridgetime.FormatText,
		Title:      fmt.Sprintf("Question #%s", id),
		Content:    "This card has no question yet. Replace this text with the real question for this card.",
		Hint:       "Correct option: A",
		Options: []bridgetime.AnswerOption{
			{ID: "a", Text: "Option A", IsCorrect: true},
			{ID: "b", Text: "Option B"},
			{ID: "c", Text: "Option C"},
			{ID: "d", Text: "Option D"},
		},
	}
}
