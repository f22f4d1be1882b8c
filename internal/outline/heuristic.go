package outline

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// fontSignature clusters spans that share one visual style.
type fontSignature struct {
	size int // font size rounded to the nearest point
	bold bool
}

func signatureOf(s Span) fontSignature {
	return fontSignature{size: int(math.Round(s.FontSize)), bold: s.Bold}
}

const (
	// A line repeated at the same vertical position on this many pages
	// is treated as a running header or footer.
	furnitureMinPages = 3
	furnitureYQuantum = 2.0
)

var levelOrder = [...]Level{H1, H2, H3}

// fromLayout infers headings from font usage across the document. The
// most frequent font signature is presumed body text; the largest
// remaining signatures become H1-H3. Returns nil when the document has
// no visual hierarchy to read (a single style, or no spans at all).
func fromLayout(src Source, dl Deadline) *Result {
	spans := collectSpans(src, dl)
	if len(spans) == 0 {
		return nil
	}

	freq := make(map[fontSignature]int)
	for _, s := range spans {
		freq[signatureOf(s)]++
	}
	if len(freq) < 2 {
		return nil
	}

	ranked := rankSignatures(freq)
	if len(ranked) == 0 {
		return nil
	}
	levels := make(map[fontSignature]Level, len(levelOrder))
	for i, sig := range ranked {
		if i == len(levelOrder) {
			break
		}
		levels[sig] = levelOrder[i]
	}

	furniture := furnitureSet(spans)

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Page != spans[j].Page {
			return spans[i].Page < spans[j].Page
		}
		return spans[i].Y < spans[j].Y
	})

	// The first page-1 span in the top-ranked style is the title, not a
	// heading, even when later spans of the same style are headings.
	title := ""
	titleIdx := -1
	for i, s := range spans {
		if s.Page != 1 {
			break
		}
		if signatureOf(s) != ranked[0] || furniture[furnitureKeyOf(s)] {
			continue
		}
		if t := cleanText(s.Text); textLengthOK(t) && !isArtifactText(t) {
			title = t
			titleIdx = i
			break
		}
	}

	var entries []Entry
	seen := make(map[string]bool)
	for i, s := range spans {
		if i == titleIdx {
			continue
		}
		lvl, ok := levels[signatureOf(s)]
		if !ok {
			continue
		}
		text := cleanText(s.Text)
		if !textLengthOK(text) || seen[text] {
			continue
		}
		if furniture[furnitureKeyOf(s)] || isArtifactText(text) {
			continue
		}
		seen[text] = true
		entries = append(entries, Entry{Level: lvl, Text: text, Page: s.Page})
	}
	if len(entries) == 0 {
		return nil
	}
	return &Result{Title: title, Outline: entries}
}

// collectSpans gathers spans document-wide, polling the deadline at
// page boundaries. On expiry it returns whatever was gathered so far.
func collectSpans(src Source, dl Deadline) []Span {
	pages := src.PageCount()
	if pages > maxScanPages {
		pages = maxScanPages
	}
	var spans []Span
	for p := 1; p <= pages; p++ {
		if dl.Expired() {
			break
		}
		for _, s := range src.Spans(p) {
			if len([]rune(strings.TrimSpace(s.Text))) >= minTextLen {
				spans = append(spans, s)
			}
		}
	}
	return spans
}

// rankSignatures orders distinct signatures by font size descending,
// frequency ascending on ties: a rare large font is a better heading
// candidate than a common one. The most frequent signature overall is
// excluded as presumed body text.
func rankSignatures(freq map[fontSignature]int) []fontSignature {
	body := mostFrequent(freq)
	sigs := make([]fontSignature, 0, len(freq))
	for sig := range freq {
		if sig != body {
			sigs = append(sigs, sig)
		}
	}
	sort.Slice(sigs, func(i, j int) bool {
		if sigs[i].size != sigs[j].size {
			return sigs[i].size > sigs[j].size
		}
		if freq[sigs[i]] != freq[sigs[j]] {
			return freq[sigs[i]] < freq[sigs[j]]
		}
		return sigs[i].bold && !sigs[j].bold
	})
	return sigs
}

func mostFrequent(freq map[fontSignature]int) fontSignature {
	var best fontSignature
	bestN := -1
	for sig, n := range freq {
		switch {
		case n > bestN:
			best, bestN = sig, n
		case n == bestN && (sig.size < best.size || (sig.size == best.size && !sig.bold && best.bold)):
			// Total-order tie-break, independent of map iteration
			// order: body text tends to be smaller and regular weight.
			best = sig
		}
	}
	return best
}

var (
	bareNumberRe = regexp.MustCompile(`^\d+$`)
	pageLabelRe  = regexp.MustCompile(`(?i)^page \d+`)
	linkRe       = regexp.MustCompile(`https?://|www\.|@`)
)

// isArtifactText catches page furniture that a positional check cannot:
// bare page numbers, copyright lines, URLs and TOC labels sometimes
// appear once, in a heading-sized font.
func isArtifactText(text string) bool {
	if bareNumberRe.MatchString(text) || pageLabelRe.MatchString(text) {
		return true
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "copyright") ||
		strings.Contains(lower, "all rights reserved") ||
		strings.Contains(lower, "table of contents") {
		return true
	}
	return linkRe.MatchString(text)
}

type furnitureKey struct {
	text    string
	yBucket int
}

func furnitureKeyOf(s Span) furnitureKey {
	return furnitureKey{
		text:    strings.TrimSpace(s.Text),
		yBucket: int(s.Y / furnitureYQuantum),
	}
}

// furnitureSet finds lines that repeat at a near-identical vertical
// position on several pages: page numbers, running titles, footers.
func furnitureSet(spans []Span) map[furnitureKey]bool {
	pages := make(map[furnitureKey]map[int]bool)
	for _, s := range spans {
		k := furnitureKeyOf(s)
		if pages[k] == nil {
			pages[k] = make(map[int]bool)
		}
		pages[k][s.Page] = true
	}
	furniture := make(map[furnitureKey]bool)
	for k, seen := range pages {
		if len(seen) >= furnitureMinPages {
			furniture[k] = true
		}
	}
	return furniture
}
