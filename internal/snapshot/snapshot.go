// Package snapshot refreshes the gallery's local cache from GitHub: it
// fetches accepted and pending issues, normalizes them into prompt records,
// and rebuilds the merged vocabulary table.
package snapshot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yisuchen/bananaguava/internal/github"
	"github.com/yisuchen/bananaguava/internal/metrics"
	"github.com/yisuchen/bananaguava/internal/prompt"
	"github.com/yisuchen/bananaguava/internal/store"
	"github.com/yisuchen/bananaguava/internal/vocab"
)

// IssueSource lists issues for a label. Satisfied by *github.Client; tests
// substitute a fake.
type IssueSource interface {
	ListIssues(ctx context.Context, label string, perPage int) ([]github.Issue, error)
}

// Config carries the snapshot parameters.
type Config struct {
	AcceptedLabel   string
	PendingLabel    string
	PerPage         int
	SeedVarsPath    string
	DerivedVarsPath string
}

// Stats summarizes one refresh.
type Stats struct {
	Accepted  int `json:"accepted"`
	Preview   int `json:"preview"`
	VocabKeys int `json:"vocabulary_keys"`
}

// Service runs snapshot refreshes.
type Service struct {
	source     IssueSource
	prompts    *store.PromptStore
	pool       *store.VocabStore
	table      *vocab.Table
	normalizer prompt.Normalizer
	cfg        Config
}

// NewService wires a snapshot Service.
func NewService(source IssueSource, prompts *store.PromptStore, pool *store.VocabStore, table *vocab.Table, cfg Config) *Service {
	if cfg.PerPage <= 0 {
		cfg.PerPage = 100
	}
	return &Service{
		source:  source,
		prompts: prompts,
		pool:    pool,
		table:   table,
		normalizer: prompt.Normalizer{
			AcceptedLabel: cfg.AcceptedLabel,
			PendingLabel:  cfg.PendingLabel,
		},
		cfg: cfg,
	}
}

// Refresh fetches both issue sets, replaces the prompt snapshot, and rebuilds
// the vocabulary table from seed file, derived file, durable pool, the growth
// pool issue, and per-issue locals, in that precedence order. On failure the
// previous snapshot stays in place.
func (s *Service) Refresh(ctx context.Context) (Stats, error) {
	start := time.Now()
	stats, err := s.refresh(ctx)
	metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SnapshotsTotal.WithLabelValues("error").Inc()
		return stats, err
	}
	metrics.SnapshotsTotal.WithLabelValues("ok").Inc()
	metrics.PromptsLoaded.WithLabelValues("accepted").Set(float64(stats.Accepted))
	metrics.PromptsLoaded.WithLabelValues("preview").Set(float64(stats.Preview))
	metrics.VocabularyKeys.Set(float64(stats.VocabKeys))
	return stats, nil
}

func (s *Service) refresh(ctx context.Context) (Stats, error) {
	accepted, err := s.source.ListIssues(ctx, s.cfg.AcceptedLabel, s.cfg.PerPage)
	if err != nil {
		return Stats{}, fmt.Errorf("fetch accepted issues: %w", err)
	}
	pending, err := s.source.ListIssues(ctx, s.cfg.PendingLabel, s.cfg.PerPage)
	if err != nil {
		return Stats{}, fmt.Errorf("fetch pending issues: %w", err)
	}

	var prompts []prompt.Prompt
	var poolIssueVars map[string][]string
	for _, issue := range accepted {
		// Accepted listings include PRs and housekeeping issues; only form
		// submissions carry the title prefix. The growth pool issue is not a
		// prompt, but its variable block still feeds the vocabulary so
		// entries written by other deployments are picked up.
		if issue.Title == github.PoolTitle {
			poolIssueVars = prompt.ParseVariableBlock(issue.Body)
			continue
		}
		if issue.IsPullRequest() || !hasTitlePrefix(issue.Title) {
			continue
		}
		prompts = append(prompts, s.normalizer.Normalize(issue, false))
	}
	seen := make(map[int]bool, len(prompts))
	for _, p := range prompts {
		seen[p.Number] = true
	}
	for _, issue := range pending {
		if issue.IsPullRequest() || seen[issue.Number] {
			continue
		}
		prompts = append(prompts, s.normalizer.Normalize(issue, true))
	}

	if err := s.prompts.ReplaceAll(ctx, prompts); err != nil {
		return Stats{}, fmt.Errorf("store snapshot: %w", err)
	}

	stats := Stats{}
	for _, p := range prompts {
		if p.IsPreview {
			stats.Preview++
		} else {
			stats.Accepted++
		}
	}

	s.rebuildVocabulary(ctx, prompts, poolIssueVars)
	stats.VocabKeys = s.table.Len()

	return stats, nil
}

// rebuildVocabulary reconstructs the merged table. Source failures degrade to
// an empty contribution — missing suggestions, never incorrect ones.
func (s *Service) rebuildVocabulary(ctx context.Context, prompts []prompt.Prompt, poolIssueVars map[string][]string) {
	seed, err := vocab.LoadFile(s.cfg.SeedVarsPath)
	if err != nil {
		log.Printf("snapshot: seed vocabulary: %v", err)
	}
	derived, err := vocab.LoadFile(s.cfg.DerivedVarsPath)
	if err != nil {
		log.Printf("snapshot: derived vocabulary: %v", err)
	}
	pool, err := s.pool.All(ctx)
	if err != nil {
		log.Printf("snapshot: vocabulary pool: %v", err)
	}

	sources := []map[string][]string{seed, derived, pool, poolIssueVars}
	for _, p := range prompts {
		sources = append(sources, p.LocalVariables)
	}
	s.table.Rebuild(sources...)
}

func hasTitlePrefix(title string) bool {
	return len(title) >= len(prompt.TitlePrefix) && title[:len(prompt.TitlePrefix)] == prompt.TitlePrefix
}
