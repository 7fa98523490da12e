// Package crawler walks the process library with an authenticated
// browser session, extracting one diagram per visited page. Two
// strategies share the same visit step: the catalog walk over numbered
// sections (sample and full modes) and the depth-first library walk
// (library-recursive mode). A bad page never stops a crawl; it becomes
// a failed log entry and the walk moves on.
package crawler

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nick-rajwade/svg-crawler/internal/browser"
	"github.com/nick-rajwade/svg-crawler/internal/config"
	"github.com/nick-rajwade/svg-crawler/internal/extract"
	"github.com/nick-rajwade/svg-crawler/internal/progress"
	"github.com/nick-rajwade/svg-crawler/internal/site"
	"github.com/nick-rajwade/svg-crawler/internal/writer"
)

// Crawler runs one crawl over an already authenticated session.
type Crawler struct {
	cfg       config.Config
	session   browser.Session
	store     *writer.Store
	extractor *extract.Extractor
	tracker   *progress.Tracker
}

// New wires a crawler. tracker may be nil to silence console feedback.
func New(session browser.Session, store *writer.Store, tracker *progress.Tracker, cfg config.Config) *Crawler {
	return &Crawler{
		cfg:       cfg,
		session:   session,
		store:     store,
		extractor: extract.New(),
		tracker:   tracker,
	}
}

// Run executes the configured crawl and flushes the log. The returned
// summary reflects every page visited; err is non-nil only for faults
// that prevent the crawl from running at all.
func (c *Crawler) Run(ctx context.Context) (writer.Summary, error) {
	c.tracker.Begin("opening library")
	defer c.tracker.End()

	var err error
	switch c.cfg.Mode {
	case config.ModeLibraryRecursive:
		err = c.runRecursive(ctx)
	default:
		err = c.runFlat(ctx)
	}
	if err != nil {
		return writer.Summary{}, err
	}

	if err := c.store.WriteLog(); err != nil {
		return writer.Summary{}, err
	}

	summary := writer.Summarize(c.store.Entries())
	log.Info("crawl complete",
		"extracted", summary.ExtractedCount,
		"failed", summary.FailedCount,
		"total", summary.TotalProcessed,
		"log", c.store.LogPath())
	return summary, nil
}

// visit processes one extraction target and records exactly one log
// entry. The returned error reports a navigation fault, already folded
// into the entry, so callers know the session never reached the page.
func (c *Crawler) visit(ctx context.Context, node *site.Node) (writer.LogEntry, error) {
	c.tracker.Page(node.Name)
	log.Debug("visiting", "kind", node.Kind, "url", node.URL)

	if err := c.session.Navigate(ctx, node.URL); err != nil {
		log.Error("navigation failed", "page", node.Name, "err", err)
		res := extract.Result{Status: extract.StatusFailed, Reason: err.Error()}
		return c.store.Save(node, "", res), fmt.Errorf("navigate %s: %w", node.URL, err)
	}

	title, err := c.session.Title(ctx)
	if err != nil {
		log.Debug("title unavailable", "url", node.URL, "err", err)
	}

	res := c.extractor.Extract(ctx, c.session)
	entry := c.store.Save(node, title, res)
	switch res.Status {
	case extract.StatusSuccess:
		log.Info("extracted", "page", node.Name, "bytes", res.ByteSize, "file", entry.FilePath)
	default:
		log.Warn("no diagram", "page", node.Name, "reason", res.Reason)
	}
	return entry, nil
}
