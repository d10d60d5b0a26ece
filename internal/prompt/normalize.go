package prompt

import (
	"regexp"
	"strings"

	"github.com/yisuchen/bananaguava/internal/github"
)

// Sentinels used by the issue form and the gallery.
const (
	TitlePrefix      = "[Prompt]:"
	placeholderTitle = "請在此輸入標題"
	UntitledTitle    = "未命名提示詞"
	Uncategorized    = "未分類"
)

// FixedCategories is the closed category set the gallery filters on. A parsed
// category outside this set stays on the record for display but never enters
// the filter lists.
var FixedCategories = []string{
	"人像",
	"產品",
	"場景",
	"設計（插畫、圖表、圖解..等）",
	"系列",
	"改圖",
	"風格",
	"其他（待歸納）",
}

// IsFixedCategory reports whether name is in the closed category set.
func IsFixedCategory(name string) bool {
	for _, c := range FixedCategories {
		if c == name {
			return true
		}
	}
	return false
}

var (
	titlePrefixRe = regexp.MustCompile(`(?i)^\[Prompt\]:\s*`)
	mdImageRe     = regexp.MustCompile(`!\s*\[.*?\]\((.*?)\)`)
	htmlImageRe   = regexp.MustCompile(`<img.*?src=["'](.*?)["']`)
)

// Prompt is the structured record derived from one raw issue. It is immutable
// once built and rebuilt in full on every snapshot.
type Prompt struct {
	Number         int                 `json:"number"`
	Title          string              `json:"title"`
	DisplayTitle   string              `json:"display_title"`
	BodyRaw        string              `json:"body"`
	Category       string              `json:"category"`
	PromptText     string              `json:"prompt_text"`
	Notes          string              `json:"notes"`
	Source         string              `json:"source"`
	ImageURL       string              `json:"image_url"`
	CustomTags     []string            `json:"custom_tags"`
	Tags           []string            `json:"tags"`
	LocalVariables map[string][]string `json:"local_variables"`
	IsPreview      bool                `json:"is_preview"`
	URL            string              `json:"url"`
}

// Normalizer turns raw issues into Prompt records. The accepted and pending
// labels are moderation state, not content tags, and are filtered out of the
// computed tag set.
type Normalizer struct {
	AcceptedLabel string
	PendingLabel  string
}

// NewNormalizer returns a Normalizer with the gallery's default workflow
// labels.
func NewNormalizer() Normalizer {
	return Normalizer{AcceptedLabel: "accepted", PendingLabel: "pending"}
}

// Normalize derives a Prompt from a raw issue. Pure, no I/O; a malformed
// body degrades every field to its fallback rather than failing.
func (n Normalizer) Normalize(issue github.Issue, isPreview bool) Prompt {
	p := Prompt{
		Number:    issue.Number,
		Title:     issue.Title,
		BodyRaw:   issue.Body,
		URL:       issue.HTMLURL,
		IsPreview: isPreview,
	}

	p.DisplayTitle = strings.TrimSpace(titlePrefixRe.ReplaceAllString(issue.Title, ""))
	if p.DisplayTitle == "" || p.DisplayTitle == placeholderTitle {
		p.DisplayTitle = UntitledTitle
	}

	if category, ok := ExtractSection(issue.Body, HeadingCategory); ok && strings.TrimSpace(category) != "" {
		p.Category = strings.TrimSpace(category)
	} else {
		p.Category = Uncategorized
	}

	if tagsSection, ok := ExtractSection(issue.Body, HeadingTags); ok {
		for _, t := range splitTags(StripVariableBlock(tagsSection)) {
			p.CustomTags = append(p.CustomTags, t)
		}
	}

	githubLabels := make([]string, 0, len(issue.Labels))
	for _, name := range issue.LabelNames() {
		if name == n.AcceptedLabel || name == n.PendingLabel {
			continue
		}
		githubLabels = append(githubLabels, name)
	}
	p.Tags = computeTags(githubLabels, p.CustomTags)

	if text, ok := ExtractSection(issue.Body, HeadingPromptText); ok {
		text = mdImageRe.ReplaceAllString(text, "")
		p.PromptText = StripVariableBlock(text)
	}

	if notes, ok := ExtractSection(issue.Body, HeadingNotes); ok {
		p.Notes = notes
	}
	if source, ok := ExtractSection(issue.Body, HeadingSource); ok {
		p.Source = source
	}

	p.ImageURL = ExtractImage(issue.Body)
	p.LocalVariables = ParseVariableBlock(issue.Body)

	return p
}

// computeTags unions GitHub labels and custom tags with set semantics.
// Values equal to a fixed category are excluded so categories and tags stay
// disjoint by construction.
func computeTags(labels, customTags []string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, t := range append(append([]string{}, labels...), customTags...) {
		if t == "" || seen[t] || IsFixedCategory(t) {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

// splitTags splits a tag section on ASCII and CJK commas, trimming and
// dropping empties.
func splitTags(text string) []string {
	var tags []string
	for _, t := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '，'
	}) {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ExtractImage returns the first image URL found in body, checking the
// Markdown image form before HTML <img> tags. Empty when the body carries no
// image.
func ExtractImage(body string) string {
	if body == "" {
		return ""
	}
	if m := mdImageRe.FindStringSubmatch(body); m != nil {
		return m[1]
	}
	if m := htmlImageRe.FindStringSubmatch(body); m != nil {
		return m[1]
	}
	return ""
}
