package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yisuchen/bananaguava/internal/prompt"
)

// vocabRow is the vocabulary pool table shape. var_value_folded carries the
// lower-cased value so the unique constraint enforces case-insensitive
// idempotence at the database level.
type vocabRow struct {
	ID          string    `db:"id"`
	Key         string    `db:"var_key"`
	Value       string    `db:"var_value"`
	ValueFolded string    `db:"var_value_folded"`
	CreatedAt   time.Time `db:"created_at"`
}

// VocabStore is the durable vocabulary growth pool: append-only, dedupe at
// the constraint. It doubles as a vocab.Sink.
type VocabStore struct {
	db *sqlx.DB
}

func NewVocabStore(db *sqlx.DB) *VocabStore {
	return &VocabStore{db: db}
}

func (s *VocabStore) q(query string) string { return s.db.Rebind(query) }

// Append records one key/value pair, normalizing the key. Reports whether a
// row was actually inserted; an already-present value (case-insensitive) is a
// silent no-op.
func (s *VocabStore) Append(ctx context.Context, key, value string) (bool, error) {
	key = prompt.NormalizeKey(key)
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return false, nil
	}

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO vocabulary (id, var_key, var_value, var_value_folded, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), uuid.New().String(), key, value, strings.ToLower(value), time.Now().UTC())
	if err != nil {
		if isUniqueConstraintError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SyncVariable implements vocab.Sink.
func (s *VocabStore) SyncVariable(ctx context.Context, key, value string) error {
	_, err := s.Append(ctx, key, value)
	return err
}

// All returns the pool as a vocabulary source map, insertion order preserved
// per key.
func (s *VocabStore) All(ctx context.Context) (map[string][]string, error) {
	var rows []vocabRow
	err := s.db.SelectContext(ctx, &rows, `SELECT * FROM vocabulary ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}

	pool := make(map[string][]string)
	for _, row := range rows {
		pool[row.Key] = append(pool[row.Key], row.Value)
	}
	return pool, nil
}
