package outline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// maxFallbackEntries caps the pattern tier output: a line scan that
	// matches more than this is matching prose, not structure.
	maxFallbackEntries = 20
	maxCapsLineLen     = 60
)

var (
	numberedRe = regexp.MustCompile(`^(\d+(?:\.\d+)*)[.)]?\s+\S`)
	chapterRe  = regexp.MustCompile(`(?i)^(?:chapter|part|section)\s+\S+`)
)

// fromPatterns scans raw page text for heading-shaped lines. It is the
// cascade backstop: it always returns a result, possibly with an empty
// outline, truncating remaining pages once the deadline passes.
func fromPatterns(src Source, dl Deadline) Result {
	pages := src.PageCount()
	if pages > maxScanPages {
		pages = maxScanPages
	}

	title := ""
	entries := []Entry{}
	for p := 1; p <= pages && len(entries) < maxFallbackEntries; p++ {
		if dl.Expired() {
			break
		}
		for _, line := range strings.Split(src.PlainText(p), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			lvl, ok := classifyLine(line)
			if !ok {
				if title == "" && p == 1 {
					title = truncate(cleanText(line), maxTitleLen)
				}
				continue
			}
			entries = append(entries, Entry{Level: lvl, Text: line, Page: p})
			if len(entries) == maxFallbackEntries {
				break
			}
		}
	}
	return Result{Title: title, Outline: entries}
}

// classifyLine applies the ordered fallback rules. The first matching
// rule wins: numbered section prefix, chapter marker, short all-caps
// line.
func classifyLine(line string) (Level, bool) {
	if m := numberedRe.FindStringSubmatch(line); m != nil {
		switch strings.Count(m[1], ".") {
		case 0:
			return H1, true
		case 1:
			return H2, true
		default:
			return H3, true
		}
	}
	if chapterRe.MatchString(line) {
		return H1, true
	}
	if isShortCapsLine(line) {
		return H2, true
	}
	return "", false
}

func isShortCapsLine(line string) bool {
	n := len([]rune(line))
	if n < minTextLen || n > maxCapsLineLen {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(line)
	if strings.ContainsRune(".,;:!?", last) {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			hasLetter = true
		}
	}
	return hasLetter
}
