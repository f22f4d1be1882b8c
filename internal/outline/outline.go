// Package outline extracts a document title and an H1-H3 heading
// hierarchy from PDF documents. Three strategies run in fixed order
// (embedded bookmark tree, font-layout heuristics, regex line scan)
// under a shared per-document wall-clock budget.
package outline

// Level is the heading depth of an outline entry.
type Level string

const (
	H1 Level = "H1"
	H2 Level = "H2"
	H3 Level = "H3"
)

// Tier identifies which extraction strategy produced a result.
type Tier string

const (
	TierNative    Tier = "native"
	TierHeuristic Tier = "heuristic"
	TierFallback  Tier = "fallback"
)

// Entry is a single heading in the extracted outline. Its JSON shape is
// part of the output contract consumed downstream.
type Entry struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"` // 1-based
}

// Result is the extraction artifact. Serialized as
// {"title": ..., "outline": [...]}.
type Result struct {
	Title   string  `json:"title"`
	Outline []Entry `json:"outline"`

	// Tier records which strategy produced the outline. Diagnostic only.
	Tier Tier `json:"-"`
}

// Span is a run of text sharing one font style on a page. Y is the
// vertical offset from the top of the page, so ascending (Page, Y)
// order is reading order.
type Span struct {
	Text     string
	FontSize float64
	Bold     bool
	Italic   bool
	Y        float64
	Page     int // 1-based
}

// Bookmark is one node of the document's native outline tree, flattened
// in document order. Depth starts at 1 for top-level entries. Page is 0
// when the bookmark destination could not be resolved.
type Bookmark struct {
	Title string
	Depth int
	Page  int
}

// Source is the read-only document view the tiers consume. Page
// arguments are 1-based. Implementations must tolerate malformed pages
// by returning empty data rather than failing.
type Source interface {
	PageCount() int
	MetaTitle() string
	Bookmarks() []Bookmark
	Spans(page int) []Span
	PlainText(page int) string
}
