package github

import (
	"context"
	"fmt"
	"strings"
)

// PoolTitle is the title of the issue that aggregates vocabulary growth
// entries. One open issue with this title acts as the shared durable pool.
const PoolTitle = "[Variable Growth Pool]"

const poolBodyTemplate = `### Variables (key=value)
%s = %s

---
*此為變數彙整池，請勿刪除*`

// VariablePool appends vocabulary growth entries to the pool issue, creating
// it on first use. Appends are idempotent: an entry already present in the
// pool body is skipped.
type VariablePool struct {
	client        *Client
	acceptedLabel string
}

// NewVariablePool returns a pool writer. acceptedLabel is attached to a newly
// created pool issue so it survives the gallery's label filters.
func NewVariablePool(client *Client, acceptedLabel string) *VariablePool {
	return &VariablePool{client: client, acceptedLabel: acceptedLabel}
}

// SyncVariable implements the vocabulary growth sink against the pool issue.
func (p *VariablePool) SyncVariable(ctx context.Context, key, value string) error {
	existing, err := p.client.SearchIssueByTitle(ctx, PoolTitle)
	if err != nil {
		return err
	}

	entry := fmt.Sprintf("%s = %s", key, value)

	if existing == nil {
		body := fmt.Sprintf(poolBodyTemplate, key, value)
		_, err := p.client.CreateIssue(ctx, PoolTitle, body, []string{p.acceptedLabel, "auto-sync"})
		if err != nil {
			return fmt.Errorf("create growth pool: %w", err)
		}
		return nil
	}

	// Skip entries already in the pool so the issue doesn't grow without bound.
	if strings.Contains(existing.Body, entry) {
		return nil
	}

	if err := p.client.UpdateIssueBody(ctx, existing.Number, appendEntry(existing.Body, entry)); err != nil {
		return fmt.Errorf("append to growth pool: %w", err)
	}
	return nil
}

// appendEntry inserts entry at the end of the variable block, before the
// blank line that terminates it, so readers of the block see every entry.
func appendEntry(body, entry string) string {
	if i := strings.Index(body, "\n\n---"); i >= 0 {
		return body[:i] + "\n" + entry + body[i:]
	}
	return body + "\n" + entry
}
