package pdfio

import (
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/godzaryan/DocStructureX/internal/outline"
)

// readBookmarks loads the native outline tree via pdfcpu and flattens
// it in document order. Any failure yields nil: missing bookmarks are
// not an error, they send the cascade to the layout tier.
func readBookmarks(path string) (marks []outline.Bookmark) {
	defer func() {
		if recover() != nil {
			marks = nil
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	bms, err := api.Bookmarks(f, nil)
	if err != nil {
		return nil
	}
	return flattenBookmarks(bms, 1, nil)
}

func flattenBookmarks(bms []pdfcpu.Bookmark, depth int, out []outline.Bookmark) []outline.Bookmark {
	for _, bm := range bms {
		out = append(out, outline.Bookmark{
			Title: bm.Title,
			Depth: depth,
			Page:  bm.PageFrom,
		})
		if len(bm.Kids) > 0 {
			out = flattenBookmarks(bm.Kids, depth+1, out)
		}
	}
	return out
}
