// Package browsertest provides a scripted in-memory browser.Session for
// tests. Pages are registered by URL; navigation, clicks and reads then
// consult the scripted page data instead of a real browser.
package browsertest

import (
	"context"
	"fmt"
	"slices"
)

// Page scripts what the fake session reports while it is the current
// page.
type Page struct {
	Title  string
	Source string

	// Elements maps a selector to the fragments ElementsHTML returns.
	Elements map[string][]string

	// FrameElements maps a selector to the fragments FrameElementsHTML
	// returns.
	FrameElements map[string][]string

	// Visible lists selectors that WaitVisible succeeds for. Visible
	// selectors also count as present.
	Visible []string

	// Present lists selectors Present reports true for.
	Present []string

	// ClickTargets maps a selector to the URL clicking it lands on.
	// A selector may also map to its own page URL to model a click
	// that goes nowhere.
	ClickTargets map[string]string

	// Stuck lists selectors WaitHidden times out on.
	Stuck []string
}

// Session is the scripted fake. The zero value is not usable; call New.
type Session struct {
	Pages      map[string]*Page
	CurrentURL string

	// Fault injection, keyed by URL or selector.
	NavErrs       map[string]error
	ElementErrs   map[string]error
	FrameErrs     map[string]error
	SourceErr     error
	ScreenshotErr error

	// Recorded interactions.
	Navigations []string
	Clicked     []string
	Typed       map[string]string
	Screenshots int
	Settles     int
	Closed      bool
}

func New() *Session {
	return &Session{
		Pages:       make(map[string]*Page),
		NavErrs:     make(map[string]error),
		ElementErrs: make(map[string]error),
		FrameErrs:   make(map[string]error),
		Typed:       make(map[string]string),
	}
}

// AddPage registers a scripted page under its URL.
func (s *Session) AddPage(url string, p *Page) *Session {
	s.Pages[url] = p
	return s
}

func (s *Session) page() *Page {
	if p, ok := s.Pages[s.CurrentURL]; ok {
		return p
	}
	return &Page{}
}

func (s *Session) Navigate(_ context.Context, url string) error {
	s.Navigations = append(s.Navigations, url)
	if err := s.NavErrs[url]; err != nil {
		return err
	}
	s.CurrentURL = url
	return nil
}

func (s *Session) Location(context.Context) (string, error) {
	return s.CurrentURL, nil
}

func (s *Session) Title(context.Context) (string, error) {
	return s.page().Title, nil
}

func (s *Session) PageSource(context.Context) (string, error) {
	if s.SourceErr != nil {
		return "", s.SourceErr
	}
	return s.page().Source, nil
}

func (s *Session) WaitVisible(_ context.Context, selector string) error {
	if slices.Contains(s.page().Visible, selector) {
		return nil
	}
	return fmt.Errorf("wait visible %s: timeout", selector)
}

func (s *Session) WaitHidden(_ context.Context, selector string) error {
	if slices.Contains(s.page().Stuck, selector) {
		return fmt.Errorf("wait hidden %s: timeout", selector)
	}
	return nil
}

func (s *Session) Present(_ context.Context, selector string) (bool, error) {
	p := s.page()
	return slices.Contains(p.Present, selector) || slices.Contains(p.Visible, selector), nil
}

func (s *Session) Click(_ context.Context, selector string) error {
	s.Clicked = append(s.Clicked, selector)
	if target, ok := s.page().ClickTargets[selector]; ok {
		s.CurrentURL = target
		return nil
	}
	return fmt.Errorf("click %s: not found", selector)
}

func (s *Session) SendKeys(_ context.Context, selector, value string) error {
	p := s.page()
	if !slices.Contains(p.Visible, selector) && !slices.Contains(p.Present, selector) {
		return fmt.Errorf("send keys %s: not found", selector)
	}
	s.Typed[selector] = value
	return nil
}

func (s *Session) ElementsHTML(_ context.Context, selector string) ([]string, error) {
	if err := s.ElementErrs[selector]; err != nil {
		return nil, err
	}
	return s.page().Elements[selector], nil
}

func (s *Session) FrameElementsHTML(_ context.Context, _, selector string) ([]string, error) {
	if err := s.FrameErrs[selector]; err != nil {
		return nil, err
	}
	return s.page().FrameElements[selector], nil
}

func (s *Session) Screenshot(context.Context) ([]byte, error) {
	if s.ScreenshotErr != nil {
		return nil, s.ScreenshotErr
	}
	s.Screenshots++
	return []byte("PNG"), nil
}

func (s *Session) Settle(context.Context) error {
	s.Settles++
	return nil
}

func (s *Session) Close() error {
	s.Closed = true
	return nil
}
