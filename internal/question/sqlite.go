package question

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/bridgetime/bridgetime/internal/bridgetime"
)

// ErrNotFound is returned by the authoring methods when no entry exists.
// Get never returns it; lookups degrade to a placeholder instead.
var ErrNotFound = errors.New("question not found")

// Bank is the SQLite-backed question store.
type Bank struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewBank(db *sql.DB, logger *slog.Logger) *Bank {
	return &Bank{db: db, logger: logger}
}

// Get returns the authored question for id, or a placeholder when the entry
// is missing or the store misbehaves. It satisfies the Lookup contract:
// total over any id.
func (b *Bank) Get(ctx context.Context, id string, fallbackEra bridgetime.TimePeriod) bridgetime.Question {
	q, err := b.GetAuthored(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Placeholder(id, fallbackEra)
	}
	if err != nil {
		b.logger.Warn("question lookup failed, serving placeholder", "id", id, "error", err)
		return Placeholder(id, fallbackEra)
	}
	return q
}

// GetAuthored returns the authored entry for id, or ErrNotFound.
func (b *Bank) GetAuthored(ctx context.Context, id string) (bridgetime.Question, error) {
	var q bridgetime.Question
	var optionsJSON string
	var metadataJSON sql.NullString
	var hint sql.NullString
	err := b.db.QueryRowContext(ctx, `
		SELECT id, card_id, time_period, format, title, content, hint, options, metadata
		FROM questions WHERE id = ?
	`, id).Scan(&q.ID, &q.CardID, &q.TimePeriod, &q.Format, &q.Title, &q.Content, &hint, &optionsJSON, &metadataJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return q, ErrNotFound
	}
	if err != nil {
		return q, err
	}
	q.Hint = hint.String
	if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
		return q, err
	}
	if metadataJSON.Valid && metadataJSON.String != "" {
		var md bridgetime.QuestionMetadata
		if err := json.Unmarshal([]byte(metadataJSON.String), &md); err != nil {
			return q, err
		}
		q.Metadata = &md
	}
	return q, nil
}

// List returns every authored question ordered by numeric id where possible.
func (b *Bank) List(ctx context.Context) ([]bridgetime.Question, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, card_id, time_period, format, title, content, hint, options, metadata
		FROM questions
		ORDER BY CAST(id AS INTEGER), id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []bridgetime.Question
	for rows.Next() {
		var q bridgetime.Question
		var optionsJSON string
		var metadataJSON sql.NullString
		var hint sql.NullString
		if err := rows.Scan(&q.ID, &q.CardID, &q.TimePeriod, &q.Format, &q.Title, &q.Content, &hint, &optionsJSON, &metadataJSON); err != nil {
			return nil, err
		}
		q.Hint = hint.String
		if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
			return nil, err
		}
		if metadataJSON.Valid && metadataJSON.String != "" {
			var md bridgetime.QuestionMetadata
			if err := json.Unmarshal([]byte(metadataJSON.String), &md); err != nil {
				return nil, err
			}
			q.Metadata = &md
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Create inserts a new authored question.
func (b *Bank) Create(ctx context.Context, q bridgetime.Question) error {
	optionsJSON, metadataJSON, err := encodeContent(q)
	if err != nil {
		return err
	}
	_, err = b.db.ExecContext(ctx, `
		INSERT INTO questions (id, card_id, time_period, format, title, content, hint, options, metadata)
		VALUES (?, ?, ?, ?, ?, ?, NULLIF(?, ''), ?, ?)
	`, q.ID, q.CardID, q.TimePeriod, q.Format, q.Title, q.Content, q.Hint, optionsJSON, metadataJSON)
	return err
}

// Update replaces the authored entry for q.ID, or returns ErrNotFound.
func (b *Bank) Update(ctx context.Context, q bridgetime.Question) error {
	optionsJSON, metadataJSON, err := encodeContent(q)
	if err != nil {
		return err
	}
	res, err := b.db.ExecContext(ctx, `
		UPDATE questions
		SET card_id = ?, time_period = ?, format = ?, title = ?, content = ?,
			hint = NULLIF(?, ''), options = ?, metadata = ?
		WHERE id = ?
	`, q.CardID, q.TimePeriod, q.Format, q.Title, q.Content, q.Hint, optionsJSON, metadataJSON, q.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the authored entry for id, or returns ErrNotFound.
func (b *Bank) Delete(ctx context.Context, id string) error {
	res, err := b.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func encodeContent(q bridgetime.Question) (string, any, error) {
	optionsJSON, err := json.Marshal(q.Options)
	if err != nil {
		return "", nil, err
	}
	var metadataJSON any
	if q.Metadata != nil {
		data, err := json.Marshal(q.Metadata)
		if err != nil {
			return "", nil, err
		}
		metadataJSON = string(data)
	}
	return string(optionsJSON), metadataJSON, nil
}
