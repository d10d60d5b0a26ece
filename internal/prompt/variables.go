package prompt

import (
	"regexp"
	"strings"
)

// variableMarkerRe locates the start of a variables block: the literal
// `Variables (key=value)`, optionally prefixed with `###` and suffixed with
// `:`, any casing.
var variableMarkerRe = regexp.MustCompile(`(?i)^(?:###\s*)?Variables\s*\(key=value\)\s*:?\s*$`)

// variableSplitRe matches the marker anywhere in a text, for stripping
// trailing blocks out of section content.
var variableSplitRe = regexp.MustCompile(`(?i)Variables\s*\(key=value\)`)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeKey canonicalizes a variable key: trimmed, lower-cased, internal
// whitespace collapsed to a single underscore.
func NormalizeKey(key string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(key)), "_")
}

// KeyAlias is the backward-compatible lookup form of a raw key: lower-cased
// and trimmed but with its whitespace intact, so both "text style" and
// "text_style" resolve. It equals NormalizeKey for keys without spaces.
func KeyAlias(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// ParseVariableBlock parses the `Variables (key=value)` block of an issue
// body into a map of normalized key to ordered option list. Each option list
// is also stored under the key's alias form (see KeyAlias). Missing or empty
// blocks yield an empty map, never nil trouble for callers.
//
// The block ends at the first blank line, `###` heading, or `---` rule, so
// free-form prose after it is never mistaken for definitions. Each line is
// split on the first `=` (falling back to the first `:`), and the value side
// is pipe-separated — pipes were chosen for the per-issue format so option
// text may itself contain commas. A line without a pipe is a single option.
// Duplicates are kept; deduplication is the merge layer's job.
func ParseVariableBlock(body string) map[string][]string {
	vars := make(map[string][]string)
	if body == "" {
		return vars
	}

	lines := strings.Split(body, "\n")
	capturing := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !capturing {
			if variableMarkerRe.MatchString(trimmed) {
				capturing = true
			}
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "### ") || strings.HasPrefix(trimmed, "---") {
			break
		}

		sep := strings.Index(trimmed, "=")
		if sep < 0 {
			sep = strings.Index(trimmed, ":")
		}
		if sep < 0 {
			continue
		}

		rawKey := trimmed[:sep]
		key := NormalizeKey(rawKey)
		if key == "" {
			continue
		}

		var options []string
		for _, opt := range strings.Split(trimmed[sep+1:], "|") {
			opt = strings.TrimSpace(opt)
			if opt != "" {
				options = append(options, opt)
			}
		}
		if len(options) == 0 {
			continue
		}

		vars[key] = append(vars[key], options...)
		if alias := KeyAlias(rawKey); alias != key {
			vars[alias] = append(vars[alias], options...)
		}
	}

	return vars
}

// StripVariableBlock removes a trailing `Variables (key=value)` block (and
// everything after its marker) from section content. Tag and prompt-text
// sections must never leak variable definitions.
func StripVariableBlock(text string) string {
	if text == "" {
		return text
	}
	loc := variableSplitRe.FindStringIndex(text)
	if loc == nil {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(text[:loc[0]])
}
