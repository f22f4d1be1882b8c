// Package pdfio adapts PDF files into the outline.Source view consumed
// by the extraction pipeline. Page text and font geometry come from
// ledongthuc/pdf; the native bookmark tree is read with pdfcpu, which
// resolves bookmark destinations to page numbers.
package pdfio

import (
	"errors"
	"fmt"
	"os"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/godzaryan/DocStructureX/internal/outline"
)

// ErrUnreadablePDF marks files the adapter cannot open or parse. It is
// a per-document failure: callers skip the file and move on.
var ErrUnreadablePDF = errors.New("unreadable pdf")

// Document is a read-only view of one PDF file. It is not safe for
// concurrent use; the pipeline processes one document per goroutine.
type Document struct {
	f         *os.File
	r         *pdflib.Reader
	pageCount int
	metaTitle string
	bookmarks []outline.Bookmark
}

// Open parses the file at path. Any open or parse failure wraps
// ErrUnreadablePDF.
func Open(path string) (doc *Document, err error) {
	// ledongthuc/pdf panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: %s: parse panic: %v", ErrUnreadablePDF, path, r)
		}
	}()

	f, r, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadablePDF, path, err)
	}

	return &Document{
		f:         f,
		r:         r,
		pageCount: r.NumPage(),
		metaTitle: readMetaTitle(r),
		bookmarks: readBookmarks(path),
	}, nil
}

func (d *Document) Close() error { return d.f.Close() }

func (d *Document) PageCount() int { return d.pageCount }

func (d *Document) MetaTitle() string { return d.metaTitle }

func (d *Document) Bookmarks() []outline.Bookmark { return d.bookmarks }

// Spans returns the merged text spans of a 1-based page in reading
// order. A page that fails to decode yields no spans.
func (d *Document) Spans(page int) (spans []outline.Span) {
	defer func() {
		if recover() != nil {
			spans = nil
		}
	}()

	if page < 1 || page > d.pageCount {
		return nil
	}
	p := d.r.Page(page)
	if p.V.IsNull() {
		return nil
	}
	return mergeSpans(p.Content().Text, page)
}

// PlainText returns the raw text of a 1-based page. A page that fails
// to decode yields an empty string.
func (d *Document) PlainText(page int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	if page < 1 || page > d.pageCount {
		return ""
	}
	p := d.r.Page(page)
	if p.V.IsNull() {
		return ""
	}
	text, err := p.GetPlainText(cacheFonts(p))
	if err != nil {
		return ""
	}
	return text
}

// cacheFonts parses each page font once so GetPlainText does not
// re-read charmaps per glyph.
func cacheFonts(p pdflib.Page) map[string]*pdflib.Font {
	fonts := make(map[string]*pdflib.Font)
	for _, name := range p.Fonts() {
		if _, ok := fonts[name]; !ok {
			font := p.Font(name)
			fonts[name] = &font
		}
	}
	return fonts
}

func readMetaTitle(r *pdflib.Reader) (title string) {
	defer func() {
		if recover() != nil {
			title = ""
		}
	}()
	return r.Trailer().Key("Info").Key("Title").Text()
}
