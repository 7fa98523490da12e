package crawler

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nick-rajwade/svg-crawler/internal/config"
	"github.com/nick-rajwade/svg-crawler/internal/site"
)

// runFlat walks the numbered catalog sections and visits each of their
// process pages. Sample mode trims both levels to the configured
// bounds; full mode takes everything the catalog and the section pages
// offer.
func (c *Crawler) runFlat(ctx context.Context) error {
	libraryURL, err := site.OpenLibrary(ctx, c.session)
	if err != nil {
		return fmt.Errorf("opening library: %w", err)
	}

	root := &site.Node{Kind: site.KindLibraryFolder, Name: "Library", URL: libraryURL}
	sections := site.Sections(root)
	if c.cfg.Mode == config.ModeSample && c.cfg.MaxSections > 0 && len(sections) > c.cfg.MaxSections {
		sections = sections[:c.cfg.MaxSections]
	}

	// Sections can cross-list a process; the first section to reach a
	// URL owns its visit.
	visited := make(map[string]bool)

	for _, section := range sections {
		processes, err := c.openSection(ctx, root, section)
		if err != nil {
			// The section page never came up. Its processes were never
			// discovered, so there is nothing to record; siblings still run.
			log.Error("section unavailable", "section", section.Name, "err", err)
			continue
		}
		if c.cfg.Mode == config.ModeSample && c.cfg.MaxProcesses > 0 && len(processes) > c.cfg.MaxProcesses {
			processes = processes[:c.cfg.MaxProcesses]
		}

		log.Info("section opened", "section", section.Name, "processes", len(processes))
		for _, process := range processes {
			if visited[process.URL] {
				continue
			}
			visited[process.URL] = true
			c.visit(ctx, process)
		}
	}
	return nil
}

// openSection returns to the library page, opens one section and
// enumerates its process links.
func (c *Crawler) openSection(ctx context.Context, root, section *site.Node) ([]*site.Node, error) {
	if err := c.session.Navigate(ctx, root.URL); err != nil {
		return nil, fmt.Errorf("returning to library: %w", err)
	}
	sectionURL, err := site.OpenSection(ctx, c.session, section)
	if err != nil {
		return nil, err
	}
	section.URL = sectionURL

	return site.ProcessLinks(ctx, c.session, section)
}
