// Package prompt parses the issue-body micro-format submitted through the
// gallery's issue form: `### Heading` sections, a `Variables (key=value)`
// block, and the title conventions. Every function here is pure and degrades
// to a documented fallback on malformed input — nothing in this package ever
// returns an error for bad text.
package prompt

import "strings"

// Section headings produced by the issue form. 來源 carries a bilingual
// parenthetical; ExtractSection matches either rendering.
const (
	HeadingPromptText = "提示詞內容"
	HeadingCategory   = "分類"
	HeadingSource     = "來源 (Source)"
	HeadingTags       = "標籤"
	HeadingNotes      = "使用說明"
	HeadingImage      = "預覽圖片"
)

// ExtractSection pulls the raw text of a named `### Heading` section out of
// body. ok is false when the heading never appears, so callers can tell an
// absent section from an empty one.
//
// Matching is prefix-based on purpose: the issue form has shipped several
// heading variants over time (`### 標籤` vs `### 標籤 (Tags)`), and a prefix
// match works across all of them. A heading containing a parenthetical, e.g.
// "來源 (Source)", also matches on the part before " (" so the English-only
// rendering is accepted too.
//
// A section whose content is the form's "no response" filler (with or without
// the underscore markers, any casing) comes back as the empty string.
func ExtractSection(body, headingText string) (content string, ok bool) {
	if body == "" {
		return "", false
	}

	var short string
	if i := strings.Index(headingText, " ("); i >= 0 {
		short = headingText[:i]
	}

	var lines []string
	found := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if !found {
			if strings.HasPrefix(trimmed, "### "+headingText) ||
				(short != "" && strings.HasPrefix(trimmed, "### "+short)) {
				found = true
			}
			continue
		}
		if strings.HasPrefix(trimmed, "### ") {
			break
		}
		lines = append(lines, line)
	}

	if !found {
		return "", false
	}

	result := strings.TrimSpace(strings.Join(lines, "\n"))
	if isNoResponse(result) {
		return "", true
	}
	return result, true
}

// isNoResponse reports whether text is the issue form's placeholder for a
// field the submitter left blank.
func isNoResponse(text string) bool {
	lower := strings.ToLower(text)
	return lower == "_no response_" || lower == "no response"
}
