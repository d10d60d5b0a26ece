package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yisuchen/bananaguava/internal/prompt"
)

// promptRow is the prompts table shape. Tag and variable collections are
// stored as JSON text so the schema stays portable across all three drivers.
type promptRow struct {
	ID             string    `db:"id"`
	Number         int       `db:"number"`
	Title          string    `db:"title"`
	DisplayTitle   string    `db:"display_title"`
	Body           string    `db:"body"`
	Category       string    `db:"category"`
	PromptText     string    `db:"prompt_text"`
	Notes          string    `db:"notes"`
	Source         string    `db:"source"`
	ImageURL       string    `db:"image_url"`
	Tags           string    `db:"tags"`
	CustomTags     string    `db:"custom_tags"`
	LocalVariables string    `db:"local_variables"`
	IsPreview      bool      `db:"is_preview"`
	URL            string    `db:"url"`
	FetchedAt      time.Time `db:"fetched_at"`
}

// PromptStore is the sqlx-backed snapshot cache of normalized prompts.
type PromptStore struct {
	db *sqlx.DB
}

func NewPromptStore(db *sqlx.DB) *PromptStore {
	return &PromptStore{db: db}
}

// q rebinds ? placeholders to the driver's native format ($1,$2,... for PostgreSQL).
func (s *PromptStore) q(query string) string { return s.db.Rebind(query) }

// ReplaceAll swaps the whole snapshot in one transaction. Readers either see
// the previous snapshot or the new one, never a partial mix.
func (s *PromptStore) ReplaceAll(ctx context.Context, prompts []prompt.Prompt) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM prompts`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	now := time.Now().UTC()
	for _, p := range prompts {
		row, err := toRow(p, now)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, s.q(`
			INSERT INTO prompts (id, number, title, display_title, body, category,
				prompt_text, notes, source, image_url, tags, custom_tags,
				local_variables, is_preview, url, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`), row.ID, row.Number, row.Title, row.DisplayTitle, row.Body, row.Category,
			row.PromptText, row.Notes, row.Source, row.ImageURL, row.Tags, row.CustomTags,
			row.LocalVariables, row.IsPreview, row.URL, row.FetchedAt)
		if err != nil {
			return fmt.Errorf("insert prompt %d: %w", p.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// ListAll returns the snapshot, newest issue first. Preview (pending) prompts
// are included only when includePreview is set.
func (s *PromptStore) ListAll(ctx context.Context, includePreview bool) ([]prompt.Prompt, error) {
	query := `SELECT * FROM prompts ORDER BY number DESC`
	if !includePreview {
		query = `SELECT * FROM prompts WHERE is_preview = FALSE ORDER BY number DESC`
	}

	var rows []promptRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	prompts := make([]prompt.Prompt, 0, len(rows))
	for _, row := range rows {
		p, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, p)
	}
	return prompts, nil
}

// GetByNumber returns one prompt by its issue number, or ErrNotFound.
func (s *PromptStore) GetByNumber(ctx context.Context, number int) (*prompt.Prompt, error) {
	var row promptRow
	err := s.db.GetContext(ctx, &row, s.q(`SELECT * FROM prompts WHERE number = ?`), number)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p, err := fromRow(row)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Count returns snapshot sizes split by moderation state.
func (s *PromptStore) Count(ctx context.Context) (accepted, preview int, err error) {
	err = s.db.GetContext(ctx, &accepted, `SELECT COUNT(*) FROM prompts WHERE is_preview = FALSE`)
	if err != nil {
		return 0, 0, err
	}
	err = s.db.GetContext(ctx, &preview, `SELECT COUNT(*) FROM prompts WHERE is_preview = TRUE`)
	if err != nil {
		return 0, 0, err
	}
	return accepted, preview, nil
}

func toRow(p prompt.Prompt, fetchedAt time.Time) (promptRow, error) {
	tags, err := marshalJSON(p.Tags, "[]")
	if err != nil {
		return promptRow{}, fmt.Errorf("marshal tags for %d: %w", p.Number, err)
	}
	customTags, err := marshalJSON(p.CustomTags, "[]")
	if err != nil {
		return promptRow{}, fmt.Errorf("marshal custom tags for %d: %w", p.Number, err)
	}
	locals, err := marshalJSON(p.LocalVariables, "{}")
	if err != nil {
		return promptRow{}, fmt.Errorf("marshal local variables for %d: %w", p.Number, err)
	}

	return promptRow{
		ID:             uuid.New().String(),
		Number:         p.Number,
		Title:          p.Title,
		DisplayTitle:   p.DisplayTitle,
		Body:           p.BodyRaw,
		Category:       p.Category,
		PromptText:     p.PromptText,
		Notes:          p.Notes,
		Source:         p.Source,
		ImageURL:       p.ImageURL,
		Tags:           tags,
		CustomTags:     customTags,
		LocalVariables: locals,
		IsPreview:      p.IsPreview,
		URL:            p.URL,
		FetchedAt:      fetchedAt,
	}, nil
}

func fromRow(row promptRow) (prompt.Prompt, error) {
	p := prompt.Prompt{
		Number:       row.Number,
		Title:        row.Title,
		DisplayTitle: row.DisplayTitle,
		BodyRaw:      row.Body,
		Category:     row.Category,
		PromptText:   row.PromptText,
		Notes:        row.Notes,
		Source:       row.Source,
		ImageURL:     row.ImageURL,
		IsPreview:    row.IsPreview,
		URL:          row.URL,
	}
	if err := json.Unmarshal([]byte(row.Tags), &p.Tags); err != nil {
		return p, fmt.Errorf("unmarshal tags for %d: %w", row.Number, err)
	}
	if err := json.Unmarshal([]byte(row.CustomTags), &p.CustomTags); err != nil {
		return p, fmt.Errorf("unmarshal custom tags for %d: %w", row.Number, err)
	}
	if err := json.Unmarshal([]byte(row.LocalVariables), &p.LocalVariables); err != nil {
		return p, fmt.Errorf("unmarshal local variables for %d: %w", row.Number, err)
	}
	return p, nil
}

// marshalJSON encodes v, substituting empty for nil collections so columns
// always hold valid JSON.
func marshalJSON(v any, empty string) (string, error) {
	if v == nil {
		return empty, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(raw) == "null" {
		return empty, nil
	}
	return string(raw), nil
}
