// Package template implements the placeholder engine for prompt text:
// scanning for {{key}} / {{key:default}} tokens, resolving candidate values
// against local and global vocabularies, and serializing filled-in text.
package template

import (
	"regexp"
	"strings"

	"github.com/yisuchen/bananaguava/internal/prompt"
	"github.com/yisuchen/bananaguava/internal/vocab"
)

// tokenRe matches one placeholder token: a {{ ... }} run with no nested
// braces. Anything that fails to match — an unterminated {{, nested braces —
// stays literal text.
var tokenRe = regexp.MustCompile(`\{\{[^{}]+\}\}`)

// SegmentKind discriminates parsed segments.
type SegmentKind int

const (
	KindText SegmentKind = iota
	KindPlaceholder
)

// Segment is one piece of parsed prompt text: either literal text or a
// placeholder slot. For placeholders, Text holds the original token so
// unrecognized content can round-trip untouched.
type Segment struct {
	Kind    SegmentKind
	Text    string
	Key     string
	Default string
}

// Parse splits text into literal and placeholder segments, preserving order.
// Within a token, the part before the first ':' is the key and the part after
// is the default value, both trimmed. A token whose key trims to empty is
// kept as literal text. Repeated keys yield independent placeholder
// instances; the builder UI is what coalesces them, not the parser.
func Parse(text string) []Segment {
	var segments []Segment
	last := 0
	for _, loc := range tokenRe.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Kind: KindText, Text: text[last:loc[0]]})
		}
		token := text[loc[0]:loc[1]]
		inner := strings.TrimSpace(token[2 : len(token)-2])

		key := inner
		def := ""
		if i := strings.Index(inner, ":"); i >= 0 {
			key = strings.TrimSpace(inner[:i])
			def = strings.TrimSpace(inner[i+1:])
		}

		if key == "" {
			segments = append(segments, Segment{Kind: KindText, Text: token})
		} else {
			segments = append(segments, Segment{Kind: KindPlaceholder, Text: token, Key: key, Default: def})
		}
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Kind: KindText, Text: text[last:]})
	}
	return segments
}

// Placeholders returns just the placeholder segments of text, in order.
func Placeholders(text string) []Segment {
	var out []Segment
	for _, s := range Parse(text) {
		if s.Kind == KindPlaceholder {
			out = append(out, s)
		}
	}
	return out
}

// Candidates resolves the suggestion list for a placeholder key: the
// deduplicated union of the prompt's local variables and the global
// vocabulary, looked up under both the normalized key and its alias form.
//
// When the union is empty and the normalized key contains '_', the last
// '_'-delimited segment is dropped and both sources are retried — so numbered
// slots like text_1, text_2 share the option pool of "text" without the
// author duplicating the vocabulary per index.
func Candidates(key string, localVars map[string][]string, global *vocab.Table) []string {
	norm := prompt.NormalizeKey(key)
	if norm == "" {
		return nil
	}

	options := union(
		lookupLocal(localVars, norm, prompt.KeyAlias(key)),
		globalValues(global, norm),
	)

	if len(options) == 0 && strings.Contains(norm, "_") {
		parts := strings.Split(norm, "_")
		base := strings.Join(parts[:len(parts)-1], "_")
		options = union(lookupLocal(localVars, base, base), globalValues(global, base))
	}

	return options
}

func lookupLocal(localVars map[string][]string, key, alias string) []string {
	if localVars == nil {
		return nil
	}
	if opts := localVars[key]; len(opts) > 0 {
		return opts
	}
	return localVars[alias]
}

func globalValues(global *vocab.Table, key string) []string {
	if global == nil {
		return nil
	}
	return global.Values(key)
}

// union concatenates option lists with case-insensitive deduplication,
// first-seen casing and order preserved.
func union(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, v := range list {
			if v == "" || seen[strings.ToLower(v)] {
				continue
			}
			seen[strings.ToLower(v)] = true
			out = append(out, v)
		}
	}
	return out
}

// Resolution maps a placeholder instance (its index in the Parse output) to
// the user's chosen value. Instances of the same key resolve independently.
type Resolution map[int]string

// Render serializes segments back to text. A placeholder emits its chosen
// value, else its default, else the bare token form {{key}}.
//
// Note the asymmetry: an unresolved slot that declared a default re-emits as
// {{key}}, not {{key:default}}. That is the shipped behavior — the bare form
// doubles as the "still needs input" marker for copy actions — so it is kept
// deliberately rather than fixed.
func Render(segments []Segment, resolved Resolution) string {
	var b strings.Builder
	for i, seg := range segments {
		if seg.Kind == KindText {
			b.WriteString(seg.Text)
			continue
		}
		if v, ok := resolved[i]; ok && v != "" {
			b.WriteString(v)
		} else if seg.Default != "" {
			b.WriteString(seg.Default)
		} else {
			b.WriteString("{{" + seg.Key + "}}")
		}
	}
	return b.String()
}

// RenderValues is Render with resolution by key instead of by instance: every
// instance of a key gets the same value. Used by the HTTP render endpoint,
// where clients send a flat key → value object.
func RenderValues(segments []Segment, values map[string]string) string {
	res := make(Resolution)
	for i, seg := range segments {
		if seg.Kind != KindPlaceholder {
			continue
		}
		if v, ok := values[seg.Key]; ok && v != "" {
			res[i] = v
			continue
		}
		if v, ok := values[prompt.NormalizeKey(seg.Key)]; ok && v != "" {
			res[i] = v
		}
	}
	return Render(segments, res)
}
