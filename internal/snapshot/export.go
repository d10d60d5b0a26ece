package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yisuchen/bananaguava/internal/prompt"
)

// Export writes the current snapshot as the static gallery files: data.json
// (accepted prompts), data-preview.json (pending prompts), and
// variables.json (the merged vocabulary).
func (s *Service) Export(ctx context.Context, dir string) error {
	all, err := s.prompts.ListAll(ctx, true)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	var accepted, preview []prompt.Prompt
	for _, p := range all {
		if p.IsPreview {
			preview = append(preview, p)
		} else {
			accepted = append(accepted, p)
		}
	}

	if err := writeJSON(filepath.Join(dir, "data.json"), accepted); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "data-preview.json"), preview); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "variables.json"), s.table.Snapshot())
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
