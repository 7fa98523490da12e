package site

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/nick-rajwade/svg-crawler/internal/browser"
	"github.com/nick-rajwade/svg-crawler/internal/extract"
)

// Selectors for the portal's fixed page furniture. The library link and
// sign-in control carry no stable ids, so those are matched by text.
const (
	LoginLinkSelector   = `//a[contains(., 'Partner Login')]`
	UsernameSelector    = `input[placeholder='Enter your Username']`
	PasswordSelector    = `input[placeholder='Password']`
	SignInSelector      = `//span[text()='Sign in']`
	LibraryLinkSelector = `//a[normalize-space(text())='Library']`
	LoaderSelector      = `#mainLoader`
)

// processPathMarker appears in the href of every process diagram page.
const processPathMarker = "/Content/Index/"

// SectionSelector matches a catalog section entry on the library page
// by its display name.
func SectionSelector(name string) string {
	return fmt.Sprintf(`//li[contains(normalize-space(.), '%s')]`, name)
}

// OpenLibrary clicks through from the authenticated landing page to the
// process library and waits for the loading overlay to clear. It
// returns the resolved library URL.
func OpenLibrary(ctx context.Context, s browser.Session) (string, error) {
	if err := s.WaitHidden(ctx, LoaderSelector); err != nil {
		return "", fmt.Errorf("landing page loader: %w", err)
	}
	if err := s.Click(ctx, LibraryLinkSelector); err != nil {
		return "", fmt.Errorf("library link: %w", err)
	}
	if err := s.WaitHidden(ctx, LoaderSelector); err != nil {
		return "", fmt.Errorf("library loader: %w", err)
	}
	if err := s.Settle(ctx); err != nil {
		return "", err
	}
	loc, err := s.Location(ctx)
	if err != nil {
		return "", err
	}
	return loc, nil
}

// OpenSection clicks a section entry on the library page and returns
// the resolved section URL. The session must be on the library page.
func OpenSection(ctx context.Context, s browser.Session, section *Node) (string, error) {
	if err := s.Click(ctx, SectionSelector(section.Name)); err != nil {
		return "", fmt.Errorf("section entry: %w", err)
	}
	if err := s.WaitHidden(ctx, LoaderSelector); err != nil {
		return "", fmt.Errorf("section loader: %w", err)
	}
	if err := s.Settle(ctx); err != nil {
		return "", err
	}
	loc, err := s.Location(ctx)
	if err != nil {
		return "", err
	}
	return loc, nil
}

// ProcessLinks enumerates the process diagram links on the current
// page, parented to section, in document order. Repeated hrefs are
// folded into the first occurrence.
func ProcessLinks(ctx context.Context, s browser.Session, section *Node) ([]*Node, error) {
	source, err := s.PageSource(ctx)
	if err != nil {
		return nil, err
	}
	loc, err := s.Location(ctx)
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(loc)
	if err != nil {
		return nil, fmt.Errorf("section location %q: %w", loc, err)
	}

	links, err := extract.Links(source, base)
	if err != nil {
		return nil, err
	}

	var nodes []*Node
	seen := make(map[string]bool)
	for _, l := range links {
		if !strings.Contains(l.URL.Path, processPathMarker) {
			continue
		}
		href := l.URL.String()
		if seen[href] {
			continue
		}
		seen[href] = true

		name := l.Name
		if name == "" {
			name = path.Base(l.URL.Path)
		}
		nodes = append(nodes, &Node{
			Kind:   KindProcess,
			Index:  len(nodes),
			Name:   name,
			URL:    href,
			Parent: section,
		})
	}
	return nodes, nil
}
