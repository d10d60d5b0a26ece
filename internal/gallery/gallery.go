// Package gallery implements the browsing semantics over a prompt snapshot:
// category and tag filtering, free-text search, pagination, and the derived
// filter metadata (category and tag lists).
package gallery

import (
	"sort"
	"strings"

	"github.com/yisuchen/bananaguava/internal/prompt"
)

const (
	// CategoryAll disables category filtering.
	CategoryAll = "All"

	DefaultPerPage = 24
	MaxPerPage     = 100
)

// Filter narrows and pages a prompt list. Zero values mean "no filtering":
// empty Category is treated like CategoryAll.
type Filter struct {
	Category       string
	Tag            string
	Query          string
	IncludePreview bool
	Page           int
	PerPage        int
}

// Page is one page of filtered results.
type Page struct {
	Prompts    []prompt.Prompt
	Total      int
	PageNumber int
	PerPage    int
	TotalPages int
}

// Apply filters, searches, and paginates prompts. The search term matches
// case-insensitively against the display title, raw title, prompt text, raw
// body, and tags — the same fields the gallery grid searches.
func Apply(prompts []prompt.Prompt, f Filter) Page {
	var filtered []prompt.Prompt
	term := strings.ToLower(strings.TrimSpace(f.Query))

	for _, p := range prompts {
		if p.IsPreview && !f.IncludePreview {
			continue
		}
		if f.Category != "" && f.Category != CategoryAll && p.Category != f.Category {
			continue
		}
		if f.Tag != "" && !containsTag(p.Tags, f.Tag) {
			continue
		}
		if term != "" && !matchesSearch(p, term) {
			continue
		}
		filtered = append(filtered, p)
	}

	perPage := f.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}

	total := len(filtered)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return Page{
		Prompts:    filtered[start:end],
		Total:      total,
		PageNumber: page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func matchesSearch(p prompt.Prompt, term string) bool {
	if strings.Contains(strings.ToLower(p.DisplayTitle), term) ||
		strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.PromptText), term) ||
		strings.Contains(strings.ToLower(p.BodyRaw), term) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	return false
}

// Categories returns the filter's category list: the fixed closed set.
// Parsed category values outside the set stay on their records for display
// but never enter this list.
func Categories() []string {
	out := make([]string, len(prompt.FixedCategories))
	copy(out, prompt.FixedCategories)
	return out
}

// Tags collects the distinct tags across prompts, sorted. Values equal to a
// fixed category are already excluded at normalization, so the tag list and
// category list stay disjoint.
func Tags(prompts []prompt.Prompt) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, p := range prompts {
		for _, t := range p.Tags {
			if t == "" || seen[t] || prompt.IsFixedCategory(t) {
				continue
			}
			seen[t] = true
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)
	return tags
}
