package outline

import (
	"regexp"
	"strings"
)

const (
	minTextLen  = 3
	maxTextLen  = 150
	maxTitleLen = 100
)

var spaceRun = regexp.MustCompile(`\s+`)

// cleanText collapses whitespace runs and strips the stray punctuation
// that TOC dot leaders and line wrapping leave behind.
func cleanText(s string) string {
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.Trim(s, " .,;:")
}

func textLengthOK(s string) bool {
	n := len([]rune(s))
	return n >= minTextLen && n <= maxTextLen
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// assemble normalizes a tier result into the final artifact: cleaned
// heading text, no empty or truncated-to-nothing entries, and
// immediately-adjacent duplicate (level, text, page) triples collapsed.
// Pure data transformation; no document access.
func assemble(r Result, tier Tier) Result {
	out := Result{
		Title:   cleanText(r.Title),
		Outline: make([]Entry, 0, len(r.Outline)),
		Tier:    tier,
	}
	for _, e := range r.Outline {
		e.Text = cleanText(e.Text)
		if len([]rune(e.Text)) < minTextLen {
			continue
		}
		if n := len(out.Outline); n > 0 && out.Outline[n-1] == e {
			continue
		}
		out.Outline = append(out.Outline, e)
	}
	return out
}
