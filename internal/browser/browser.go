// Package browser drives a single logged-in browser session. The crawl
// code only talks to the Session interface; the chromedp implementation
// lives in chrome.go and a scripted in-memory fake for tests lives in
// the browsertest subpackage.
package browser

import "context"

// Session is one browser tab navigating the target site. Methods block
// until the step completes or the per-step timeout expires. The session
// keeps its page state between calls, so reads always refer to the page
// of the most recent Navigate or Click.
type Session interface {
	// Navigate loads a URL and waits for the document body plus the
	// configured settle time for in-page rendering.
	Navigate(ctx context.Context, url string) error

	// Location returns the resolved URL of the current page.
	Location(ctx context.Context) (string, error)

	// Title returns the current document title.
	Title(ctx context.Context) (string, error)

	// PageSource returns the serialized HTML of the current document.
	PageSource(ctx context.Context) (string, error)

	// WaitVisible blocks until an element matching selector is visible.
	WaitVisible(ctx context.Context, selector string) error

	// WaitHidden blocks until no visible element matches selector.
	// An element absent from the document counts as hidden.
	WaitHidden(ctx context.Context, selector string) error

	// Present reports whether the document contains a matching element,
	// visible or not.
	Present(ctx context.Context, selector string) (bool, error)

	// Click clicks the first matching element.
	Click(ctx context.Context, selector string) error

	// SendKeys clears the matching input and types value into it.
	SendKeys(ctx context.Context, selector, value string) error

	// ElementsHTML returns the outer HTML of every matching element in
	// the top document.
	ElementsHTML(ctx context.Context, selector string) ([]string, error)

	// FrameElementsHTML returns the outer HTML of every element matching
	// selector inside same-origin frames matching frameSelector.
	FrameElementsHTML(ctx context.Context, frameSelector, selector string) ([]string, error)

	// Screenshot captures the visible viewport as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)

	// Settle waits the configured post-interaction delay so in-page
	// script can finish rendering.
	Settle(ctx context.Context) error

	// Close shuts the browser down.
	Close() error
}
