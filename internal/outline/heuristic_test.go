package outline

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"
)

// layoutFixture builds the canonical three-style document: one 24pt
// span on page 1, five 18pt spans across pages 1-3, and body text at
// 12pt everywhere.
func layoutFixture() *fakeSource {
	src := &fakeSource{pageCount: 3, spans: map[int][]Span{}}
	src.spans[1] = append(src.spans[1], Span{Text: "Annual Performance Review", FontSize: 24, Y: 40, Page: 1})
	titles := []string{"Summary", "Revenue", "Costs", "Outlook", "Appendix"}
	for i, title := range titles {
		page := i%3 + 1
		src.spans[page] = append(src.spans[page], Span{Text: title, FontSize: 18, Y: 100 + float64(i), Page: page})
	}
	for i := 0; i < 200; i++ {
		page := i%3 + 1
		src.spans[page] = append(src.spans[page], Span{
			Text:     fmt.Sprintf("body paragraph line number %d with regular prose", i),
			FontSize: 12,
			Y:        200 + float64(i),
			Page:     page,
		})
	}
	return src
}

func TestFromLayout_RanksSignaturesBySize(t *testing.T) {
	res := fromLayout(layoutFixture(), NewDeadline(time.Minute))
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.Title != "Annual Performance Review" {
		t.Errorf("expected the 24pt span as title, got %q", res.Title)
	}
	if len(res.Outline) != 5 {
		t.Fatalf("expected 5 heading entries, got %d", len(res.Outline))
	}
	for _, e := range res.Outline {
		// 24pt is consumed by the title, so 18pt carries H2.
		if e.Level != H2 {
			t.Errorf("expected H2 for 18pt span %q, got %q", e.Text, e.Level)
		}
	}
}

func TestFromLayout_BodyTextExcluded(t *testing.T) {
	res := fromLayout(layoutFixture(), NewDeadline(time.Minute))
	if res == nil {
		t.Fatal("expected a result")
	}
	for _, e := range res.Outline {
		if len(e.Text) > 20 {
			t.Errorf("12pt body span leaked into outline: %q", e.Text)
		}
	}
}

func TestFromLayout_SingleSignatureYieldsNoResult(t *testing.T) {
	src := &fakeSource{
		pageCount: 2,
		spans: map[int][]Span{
			1: {{Text: "uniform text one", FontSize: 11, Page: 1}},
			2: {{Text: "uniform text two", FontSize: 11, Page: 2}},
		},
	}
	if res := fromLayout(src, NewDeadline(time.Minute)); res != nil {
		t.Errorf("expected nil for single-signature document, got %+v", res)
	}
}

func TestFromLayout_HeaderFooterExcluded(t *testing.T) {
	src := &fakeSource{pageCount: 4, spans: map[int][]Span{}}
	for p := 1; p <= 4; p++ {
		// Running header in a heading-sized font at the same position.
		src.spans[p] = append(src.spans[p], Span{Text: "ACME Corp Confidential", FontSize: 16, Y: 10, Page: p})
		src.spans[p] = append(src.spans[p], Span{
			Text:     fmt.Sprintf("ordinary body copy for page %d repeated often", p),
			FontSize: 10, Y: 100, Page: p,
		})
		src.spans[p] = append(src.spans[p], Span{
			Text:     fmt.Sprintf("more ordinary body copy for page %d here too", p),
			FontSize: 10, Y: 120, Page: p,
		})
	}
	src.spans[2] = append(src.spans[2], Span{Text: "Genuine Heading", FontSize: 16, Y: 60, Page: 2})

	res := fromLayout(src, NewDeadline(time.Minute))
	if res == nil {
		t.Fatal("expected a result")
	}
	for _, e := range res.Outline {
		if e.Text == "ACME Corp Confidential" {
			t.Error("running header classified as heading")
		}
	}
	found := false
	for _, e := range res.Outline {
		if e.Text == "Genuine Heading" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the genuine heading to survive, got %+v", res.Outline)
	}
}

func TestFromLayout_OrderedByPageThenPosition(t *testing.T) {
	src := &fakeSource{
		pageCount: 2,
		spans: map[int][]Span{
			1: {
				{Text: "Second On Page", FontSize: 18, Y: 300, Page: 1},
				{Text: "First On Page", FontSize: 18, Y: 50, Page: 1},
				{Text: "plain body text sits here at the usual size", FontSize: 11, Y: 400, Page: 1},
				{Text: "and more plain body text sits right below it", FontSize: 11, Y: 420, Page: 1},
			},
			2: {
				{Text: "Later Heading", FontSize: 18, Y: 10, Page: 2},
				{Text: "closing body paragraph written in regular type", FontSize: 11, Y: 200, Page: 2},
			},
		},
	}

	res := fromLayout(src, NewDeadline(time.Minute))
	if res == nil {
		t.Fatal("expected a result")
	}
	want := []string{"Second On Page", "Later Heading"}
	// "First On Page" is the page-1 title; the rest follow reading order.
	if res.Title != "First On Page" {
		t.Fatalf("expected topmost page-1 span as title, got %q", res.Title)
	}
	if len(res.Outline) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), res.Outline)
	}
	for i, text := range want {
		if res.Outline[i].Text != text {
			t.Errorf("entry %d: expected %q, got %q", i, text, res.Outline[i].Text)
		}
	}
}

func TestFromLayout_TiedSignaturesAreDeterministic(t *testing.T) {
	// Bold and regular runs of the same size and frequency: the body
	// pick must not depend on map iteration order.
	build := func() *fakeSource {
		return &fakeSource{
			pageCount: 1,
			spans: map[int][]Span{
				1: {
					{Text: "Quarterly Report", FontSize: 18, Y: 20, Page: 1},
					{Text: "Bold Alpha", FontSize: 12, Bold: true, Y: 40, Page: 1},
					{Text: "Bold Beta", FontSize: 12, Bold: true, Y: 60, Page: 1},
					{Text: "Bold Gamma", FontSize: 12, Bold: true, Y: 80, Page: 1},
					{Text: "Plain Alpha", FontSize: 12, Y: 100, Page: 1},
					{Text: "Plain Beta", FontSize: 12, Y: 120, Page: 1},
					{Text: "Plain Gamma", FontSize: 12, Y: 140, Page: 1},
				},
			},
		}
	}

	first := fromLayout(build(), NewDeadline(time.Minute))
	if first == nil {
		t.Fatal("expected a result")
	}
	for i := 0; i < 20; i++ {
		res := fromLayout(build(), NewDeadline(time.Minute))
		if res == nil {
			t.Fatalf("run %d: expected a result", i)
		}
		if !reflect.DeepEqual(res, first) {
			t.Fatalf("run %d differs:\n%+v\n%+v", i, res, first)
		}
	}

	// The regular-weight runs are body text; the bold runs survive.
	for _, e := range first.Outline {
		if !strings.HasPrefix(e.Text, "Bold ") {
			t.Errorf("regular-weight body span classified as heading: %q", e.Text)
		}
	}
}

func TestFromLayout_ContentArtifactsExcluded(t *testing.T) {
	src := &fakeSource{
		pageCount: 2,
		spans: map[int][]Span{
			1: {
				{Text: "User Manual", FontSize: 24, Y: 20, Page: 1},
				{Text: "Copyright 2026 Acme Inc", FontSize: 16, Y: 40, Page: 1},
				{Text: "Table of Contents", FontSize: 16, Y: 60, Page: 1},
				{Text: "www.acme.example", FontSize: 16, Y: 80, Page: 1},
				{Text: "Page 1 of 12", FontSize: 16, Y: 700, Page: 1},
				{Text: "ordinary introductory prose set in body type", FontSize: 10, Y: 120, Page: 1},
				{Text: "more ordinary prose in the same body type here", FontSize: 10, Y: 140, Page: 1},
				{Text: "a third paragraph of plain running text follows", FontSize: 10, Y: 160, Page: 1},
				{Text: "and a fourth keeps the body style dominant", FontSize: 10, Y: 180, Page: 1},
			},
			2: {
				{Text: "Installation", FontSize: 16, Y: 20, Page: 2},
				{Text: "follow the steps below to install the product", FontSize: 10, Y: 40, Page: 2},
				{Text: "each step assumes the previous one completed", FontSize: 10, Y: 60, Page: 2},
			},
		},
	}

	res := fromLayout(src, NewDeadline(time.Minute))
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.Title != "User Manual" {
		t.Errorf("expected title from the largest span, got %q", res.Title)
	}
	want := []Entry{{Level: H2, Text: "Installation", Page: 2}}
	if !reflect.DeepEqual(res.Outline, want) {
		t.Errorf("expected artifacts filtered out, got %+v", res.Outline)
	}
}

func TestIsArtifactText(t *testing.T) {
	artifacts := []string{
		"42",
		"Page 7",
		"page 12 of 30",
		"Copyright 2026 Acme Inc",
		"All Rights Reserved",
		"Table of Contents",
		"See https://example.com/docs",
		"visit www.example.com",
		"support@example.com",
	}
	for _, s := range artifacts {
		if !isArtifactText(s) {
			t.Errorf("expected %q to be an artifact", s)
		}
	}
	headings := []string{
		"Introduction",
		"Chapter 4 Results",
		"Page Layout Design",
		"2026 in Review",
	}
	for _, s := range headings {
		if isArtifactText(s) {
			t.Errorf("expected %q to be kept", s)
		}
	}
}

func TestFromLayout_ExpiredDeadlineReturnsPartial(t *testing.T) {
	src := layoutFixture()
	if res := fromLayout(src, Deadline{}); res != nil {
		t.Errorf("expected nil when nothing was scanned, got %+v", res)
	}
	if src.spanCalls != 0 {
		t.Errorf("expected no page scans on expired deadline, got %d", src.spanCalls)
	}
}
