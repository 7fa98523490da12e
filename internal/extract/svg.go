package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// shapeSelector matches the element kinds that make an svg fragment a
// drawable graphic rather than an empty or declarative shell.
const shapeSelector = "path, rect, circle, ellipse, line, polyline, polygon, text, g"

// Thresholds separating process maps from inline icons. Process maps
// render on large canvases with dozens of shapes; toolbar icons stay
// tiny on every axis.
const (
	minDiagramBytes    = 1000
	minDiagramSpan     = 300.0
	minDiagramElements = 20
)

// pickDiagram chooses the largest diagram-looking fragment. plausible
// reports whether any fragment contained vector shapes at all, so the
// caller can tell icons-only pages apart from svg-free pages.
func pickDiagram(fragments []string) (best string, plausible bool) {
	for _, frag := range fragments {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(frag))
		if err != nil {
			continue
		}
		svg := doc.Find("svg").First()
		if svg.Length() == 0 || svg.Find(shapeSelector).Length() == 0 {
			continue
		}
		plausible = true
		if !isDiagram(frag, svg) {
			continue
		}
		if len(frag) > len(best) {
			best = frag
		}
	}
	return best, plausible
}

// isDiagram applies the process-map heuristic to a parsed fragment.
func isDiagram(frag string, svg *goquery.Selection) bool {
	if cssSpan(svg.AttrOr("width", "")) > minDiagramSpan {
		return true
	}
	if cssSpan(svg.AttrOr("height", "")) > minDiagramSpan {
		return true
	}
	if svg.Find("*").Length() > minDiagramElements {
		return true
	}
	return len(frag) > minDiagramBytes
}

// cssSpan parses a width or height attribute, tolerating a px suffix.
// Percentage and other relative units report zero.
func cssSpan(v string) float64 {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
