package outline

// fromBookmarks converts the document's embedded bookmark tree into an
// outline. Bookmark depth maps onto the three supported levels with
// deeper nesting flattened to H3. Returns nil when the document carries
// no usable bookmarks, which sends the cascade to the layout tier.
func fromBookmarks(src Source, dl Deadline) *Result {
	if dl.Expired() {
		return nil
	}
	marks := src.Bookmarks()
	if len(marks) == 0 {
		return nil
	}

	var entries []Entry
	for _, b := range marks {
		if b.Page <= 0 {
			// Unresolved destination. Drop rather than guess.
			continue
		}
		text := cleanText(b.Title)
		if !textLengthOK(text) {
			continue
		}
		entries = append(entries, Entry{
			Level: levelForDepth(b.Depth),
			Text:  text,
			Page:  b.Page,
		})
	}
	if len(entries) == 0 {
		return nil
	}

	title := cleanText(src.MetaTitle())
	if title == "" {
		title = entries[0].Text
	}
	if len([]rune(title)) > maxTitleLen {
		// Overlong metadata titles are usually tool artifacts.
		title = ""
	}
	return &Result{Title: title, Outline: entries}
}

func levelForDepth(depth int) Level {
	switch {
	case depth <= 1:
		return H1
	case depth == 2:
		return H2
	default:
		return H3
	}
}
