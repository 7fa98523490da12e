// Package extract pulls SVG process diagrams out of rendered pages. A
// page is tried with a fixed sequence of strategies, from the cheapest
// read to the bluntest: the top document's svg elements, then svg
// elements inside same-origin frames, then a raw scan of the page
// source. The first strategy that yields a diagram wins.
//
// The package also harvests anchors from page source for the crawler's
// link discovery.
package extract

import (
	"context"
	"fmt"
	"regexp"

	"github.com/nick-rajwade/svg-crawler/internal/browser"
)

// Status classifies the outcome of one extraction attempt.
type Status string

const (
	// StatusSuccess means a diagram was extracted.
	StatusSuccess Status = "success"
	// StatusFailed means no svg markup was found, or the session faulted
	// while reading the page.
	StatusFailed Status = "failed"
	// StatusSkipped means the page holds svg markup but every fragment
	// looks like an inline icon rather than a process map.
	StatusSkipped Status = "skipped"
)

// Result is the outcome of running the strategy sequence on one page.
type Result struct {
	Status   Status
	SVG      string
	ByteSize int
	// Reason explains a non-success outcome, for console reporting.
	Reason string
	// Strategy names the step that produced the fragment.
	Strategy string
}

// Extractor runs the strategy sequence. The zero value is not usable;
// call New.
type Extractor struct {
	strategies []strategy
}

type strategy struct {
	name    string
	collect func(ctx context.Context, s browser.Session) ([]string, error)
}

func New() *Extractor {
	return &Extractor{
		strategies: []strategy{
			{"document", collectDocument},
			{"iframe", collectFrames},
			{"source", collectSource},
		},
	}
}

// Extract runs the strategies against the current page of s. Session
// faults inside a strategy are folded into a failed result; Extract
// never returns an error because a bad page must not stop a crawl.
func (e *Extractor) Extract(ctx context.Context, s browser.Session) Result {
	sawPlausible := false

	for _, st := range e.strategies {
		fragments, err := st.collect(ctx, s)
		if err != nil {
			return Result{
				Status: StatusFailed,
				Reason: fmt.Sprintf("%s strategy: %v", st.name, err),
			}
		}

		best, plausible := pickDiagram(fragments)
		sawPlausible = sawPlausible || plausible
		if best != "" {
			return Result{
				Status:   StatusSuccess,
				SVG:      best,
				ByteSize: len(best),
				Strategy: st.name,
			}
		}
	}

	if sawPlausible {
		return Result{Status: StatusSkipped, Reason: "only icon-sized svg elements"}
	}
	return Result{Status: StatusFailed, Reason: "no svg found"}
}

func collectDocument(ctx context.Context, s browser.Session) ([]string, error) {
	return s.ElementsHTML(ctx, "svg")
}

func collectFrames(ctx context.Context, s browser.Session) ([]string, error) {
	return s.FrameElementsHTML(ctx, "iframe", "svg")
}

var svgPattern = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)

func collectSource(ctx context.Context, s browser.Session) ([]string, error) {
	source, err := s.PageSource(ctx)
	if err != nil {
		return nil, err
	}
	return svgPattern.FindAllString(source, -1), nil
}
