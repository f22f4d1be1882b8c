package outline

import "time"

const (
	// DefaultBudget bounds per-document processing time.
	DefaultBudget = 10 * time.Second

	// maxScanPages caps how many pages tiers 2 and 3 examine.
	maxScanPages = 50

	// maxEntries rejects implausibly dense tier results as noise.
	maxEntries = 100
)

// Extract runs the tier cascade against src within budget. It never
// fails: the pattern tier is the backstop and always yields a result,
// possibly with an empty outline. The worst-case overrun past budget
// is the cost of one page of work, since tiers poll the deadline at
// page boundaries.
func Extract(src Source, budget time.Duration) Result {
	dl := NewDeadline(budget)

	if res := fromBookmarks(src, dl); usable(res) {
		return assemble(*res, TierNative)
	}
	if res := fromLayout(src, dl); usable(res) {
		return assemble(*res, TierHeuristic)
	}
	res := fromPatterns(src, dl)
	return assemble(res, TierFallback)
}

// usable reports whether a tier produced an outline worth keeping.
// Zero entries means the tier found no signal; more than maxEntries
// means it misread body text as headings. Either way the cascade
// moves on.
func usable(r *Result) bool {
	return r != nil && len(r.Outline) >= 1 && len(r.Outline) <= maxEntries
}
