// Package vocab holds the merged variable vocabulary: the key → option-list
// table that placeholder fill-in suggestions are drawn from, plus the
// fire-and-forget growth reporter that records newly typed values.
package vocab

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/yisuchen/bananaguava/internal/prompt"
)

// Table is the session's merged vocabulary. It is built by merging the seed
// file, the derived file, the durable growth pool, and per-issue local
// variables, in that order, and grows append-only afterwards: values are
// never removed or renamed, which keeps concurrent read-while-append safe
// behind one mutex.
type Table struct {
	mu     sync.RWMutex
	values map[string][]string
}

// NewTable returns an empty vocabulary table.
func NewTable() *Table {
	return &Table{values: make(map[string][]string)}
}

// Merge folds a source into the table. Keys are normalized; values are
// appended with case-insensitive deduplication, keeping the first-seen casing
// and insertion order. Merging the same source twice is a no-op.
func (t *Table) Merge(source map[string][]string) {
	if len(source) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for rawKey, options := range source {
		t.mergeLocked(prompt.NormalizeKey(rawKey), options)
	}
}

// Rebuild clears the table and merges the given sources in order. Used on
// snapshot refresh: the whole vocabulary is reconstructed each time, and
// session growth survives through the durable pool source.
func (t *Table) Rebuild(sources ...map[string][]string) {
	t.mu.Lock()
	t.values = make(map[string][]string)
	t.mu.Unlock()
	for _, src := range sources {
		t.Merge(src)
	}
}

func (t *Table) mergeLocked(key string, options []string) {
	if key == "" {
		return
	}
	existing := t.values[key]
	seen := make(map[string]bool, len(existing))
	for _, v := range existing {
		seen[strings.ToLower(v)] = true
	}
	for _, opt := range options {
		opt = strings.TrimSpace(opt)
		if opt == "" || seen[strings.ToLower(opt)] {
			continue
		}
		seen[strings.ToLower(opt)] = true
		existing = append(existing, opt)
	}
	t.values[key] = existing
}

// Add appends a single value under key, normalizing the key first. Reports
// whether the value was actually new (case-insensitively).
func (t *Table) Add(key, value string) bool {
	key = prompt.NormalizeKey(key)
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, v := range t.values[key] {
		if strings.EqualFold(v, value) {
			return false
		}
	}
	t.values[key] = append(t.values[key], value)
	return true
}

// Contains reports whether value is already present under key, checking both
// the normalized key and its alias form, case-insensitively.
func (t *Table) Contains(key, value string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, k := range []string{prompt.NormalizeKey(key), prompt.KeyAlias(key)} {
		for _, v := range t.values[k] {
			if strings.EqualFold(v, value) {
				return true
			}
		}
	}
	return false
}

// Values returns a copy of the option list for key (already-normalized keys
// and raw keys both work).
func (t *Table) Values(key string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	options := t.values[key]
	if options == nil {
		options = t.values[prompt.NormalizeKey(key)]
	}
	if len(options) == 0 {
		return nil
	}
	out := make([]string, len(options))
	copy(out, options)
	return out
}

// Snapshot returns a deep copy of the whole table.
func (t *Table) Snapshot() map[string][]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string][]string, len(t.values))
	for k, v := range t.values {
		vv := make([]string, len(v))
		copy(vv, v)
		out[k] = vv
	}
	return out
}

// Len returns the number of keys in the table.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.values)
}

// LoadFile reads a vocabulary JSON file (object of string → array of
// strings), the shape shared by the seed and derived files. A missing file is
// not an error: the caller degrades to an empty source.
func LoadFile(path string) (map[string][]string, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read vocabulary file %s: %w", path, err)
	}
	var vars map[string][]string
	if err := json.Unmarshal(raw, &vars); err != nil {
		return nil, fmt.Errorf("parse vocabulary file %s: %w", path, err)
	}
	return vars, nil
}
