package crawler

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nick-rajwade/svg-crawler/internal/config"
	"github.com/nick-rajwade/svg-crawler/internal/extract"
	"github.com/nick-rajwade/svg-crawler/internal/site"
)

// runRecursive walks every reachable library page depth-first from the
// library root. The visited set, keyed by resolved URL, guarantees one
// visit per page however tangled the cross-links are; the page budget
// caps runaway link graphs.
func (c *Crawler) runRecursive(ctx context.Context) error {
	libraryURL, err := site.OpenLibrary(ctx, c.session)
	if err != nil {
		return fmt.Errorf("opening library: %w", err)
	}

	budget := c.cfg.MaxPages
	if budget <= 0 {
		budget = config.DefaultMaxPages
	}

	root := &site.Node{Kind: site.KindLibraryFolder, Name: "Library", URL: libraryURL}
	work := newFrontier(root)
	pages := 0

	for pages < budget {
		node, ok := work.Pop()
		if !ok {
			break
		}
		pages++

		if _, err := c.visit(ctx, node); err != nil {
			// Never reached the page, so its links are unknowable.
			continue
		}

		children, err := c.discover(ctx, node)
		if err != nil {
			log.Debug("link discovery failed", "url", node.URL, "err", err)
			continue
		}
		work.Push(children)
	}

	if work.Pending() > 0 {
		log.Warn("page budget reached", "visited", pages, "frontier", work.Pending())
	}
	log.Info("library walk complete", "pages", pages)
	return nil
}

// libraryPathMarkers identify links that stay inside the process
// library.
var libraryPathMarkers = []string{"/Library", "/Content/"}

// discover harvests child library links from the page just visited.
func (c *Crawler) discover(ctx context.Context, node *site.Node) ([]*site.Node, error) {
	source, err := c.session.PageSource(ctx)
	if err != nil {
		return nil, err
	}
	loc, err := c.session.Location(ctx)
	if err != nil || loc == "" {
		loc = node.URL
	}
	base, err := url.Parse(loc)
	if err != nil {
		return nil, fmt.Errorf("page location %q: %w", loc, err)
	}

	links, err := extract.Links(source, base)
	if err != nil {
		return nil, err
	}

	var children []*site.Node
	seen := make(map[string]bool)
	for _, l := range links {
		if l.URL.Hostname() != base.Hostname() {
			continue
		}
		if !insideLibrary(l.URL.Path) {
			continue
		}

		resolved := *l.URL
		resolved.Fragment = ""
		href := resolved.String()
		if href == node.URL || seen[href] {
			continue
		}
		seen[href] = true

		kind := site.KindLibraryFolder
		if strings.Contains(resolved.Path, "/Content/Index/") {
			kind = site.KindLibraryProcess
		}
		name := l.Name
		if name == "" {
			name = path.Base(resolved.Path)
		}
		children = append(children, &site.Node{
			Kind:   kind,
			Index:  len(children),
			Name:   name,
			URL:    href,
			Parent: node,
		})
	}
	return children, nil
}

func insideLibrary(urlPath string) bool {
	for _, marker := range libraryPathMarkers {
		if strings.Contains(urlPath, marker) {
			return true
		}
	}
	return false
}
