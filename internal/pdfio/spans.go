package pdfio

import (
	"math"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/godzaryan/DocStructureX/internal/outline"
)

// rowTolerance is the vertical slack, in points, for grouping glyphs
// into one text row.
const rowTolerance = 3.0

// mergeSpans converts the per-glyph content stream of a page into line
// spans: glyphs are bucketed into rows by Y position, ordered left to
// right, and adjacent runs sharing a font and size are concatenated.
// Span Y values are converted to top-down offsets so ascending order is
// reading order.
func mergeSpans(texts []pdflib.Text, page int) []outline.Span {
	if len(texts) == 0 {
		return nil
	}

	type row struct {
		y      float64
		glyphs []pdflib.Text
	}
	var rows []row
	for _, t := range texts {
		placed := false
		for i := range rows {
			if math.Abs(rows[i].y-t.Y) <= rowTolerance {
				rows[i].glyphs = append(rows[i].glyphs, t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, row{y: t.Y, glyphs: []pdflib.Text{t}})
		}
	}

	// PDF Y grows bottom-up; the topmost row has the largest Y.
	sort.Slice(rows, func(i, j int) bool { return rows[i].y > rows[j].y })
	pageTop := rows[0].y

	var spans []outline.Span
	for _, rw := range rows {
		glyphs := rw.glyphs
		sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].X < glyphs[j].X })

		var b strings.Builder
		var cur pdflib.Text
		started := false
		lastEnd := 0.0

		flush := func() {
			if !started {
				return
			}
			if text := strings.TrimSpace(b.String()); text != "" {
				spans = append(spans, outline.Span{
					Text:     text,
					FontSize: cur.FontSize,
					Bold:     isBoldFont(cur.Font),
					Italic:   isItalicFont(cur.Font),
					Y:        pageTop - rw.y,
					Page:     page,
				})
			}
			b.Reset()
		}

		for _, t := range glyphs {
			if started && (t.Font != cur.Font || t.FontSize != cur.FontSize) {
				flush()
				started = false
			}
			if started && t.X-lastEnd > wordGap(t.FontSize) {
				b.WriteByte(' ')
			}
			b.WriteString(t.S)
			cur = t
			started = true
			lastEnd = t.X + t.W
		}
		flush()
	}
	return spans
}

// wordGap is the horizontal distance beyond which two glyph runs are
// separate words rather than tight kerning.
func wordGap(fontSize float64) float64 {
	if fontSize <= 0 {
		return 3.0
	}
	return fontSize * 0.3
}

func isBoldFont(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "bold") || strings.Contains(name, "black") || strings.Contains(name, "heavy")
}

func isItalicFont(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "italic") || strings.Contains(name, "oblique")
}
