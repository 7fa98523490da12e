package crawler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nick-rajwade/svg-crawler/internal/browser/browsertest"
	"github.com/nick-rajwade/svg-crawler/internal/config"
	"github.com/nick-rajwade/svg-crawler/internal/writer"
)

func folderURL(name string) string {
	return "https://portal.example/ProcessLibrary/Library/" + name
}

func contentURL(id int) string {
	return fmt.Sprintf("https://portal.example/ProcessLibrary/Content/Index/%d", id)
}

// libraryPage scripts one page of the library walk: its outgoing links
// in document order and, optionally, a diagram.
func libraryPage(withDiagram bool, anchors ...string) *browsertest.Page {
	p := &browsertest.Page{Source: "<nav>" + strings.Join(anchors, "\n") + "</nav>"}
	if withDiagram {
		p.Elements = map[string][]string{"svg": {diagramSVG}}
	}
	return p
}

func recursiveConfig() config.Config {
	cfg := config.Default()
	cfg.Mode = config.ModeLibraryRecursive
	return cfg
}

func TestRecursiveWalksDepthFirst(t *testing.T) {
	s := newSession()
	s.AddPage(libraryURL, libraryPage(true,
		anchor("/ProcessLibrary/Library/Corporate", "Corporate"),
		anchor("/ProcessLibrary/Library/Retail", "Retail"),
	))
	s.AddPage(folderURL("Corporate"), libraryPage(true,
		anchor("/ProcessLibrary/Content/Index/7", "Open Account"),
	))
	s.AddPage(folderURL("Retail"), libraryPage(true))
	s.AddPage(contentURL(7), libraryPage(true))
	c, store := newCrawler(t, s, recursiveConfig())

	summary, err := c.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, writer.Summary{ExtractedCount: 4, TotalProcessed: 4}, summary)

	var urls []string
	for _, e := range store.Entries() {
		urls = append(urls, e.URL)
	}
	// Corporate's subtree is exhausted before Retail is taken up.
	assert.Equal(t, []string{
		libraryURL,
		folderURL("Corporate"),
		contentURL(7),
		folderURL("Retail"),
	}, urls)

	process := store.Entries()[2]
	assert.Equal(t, "Library > Corporate > Open Account", process.Breadcrumb)
	assert.Equal(t, "Corporate", process.Section)
	assert.True(t, strings.HasSuffix(process.FilePath,
		filepath.Join("library_recursive", "Corporate", "Open_Account.svg")), process.FilePath)
}

func TestRecursiveVisitsCyclesOnce(t *testing.T) {
	s := newSession()
	s.AddPage(libraryURL, libraryPage(true, anchor("/ProcessLibrary/Library/B", "B")))
	s.AddPage(folderURL("B"), libraryPage(true, anchor("/ProcessLibrary/Library/C", "C")))
	s.AddPage(folderURL("C"), libraryPage(true, anchor("/ProcessLibrary/Library", "Back to start")))
	c, store := newCrawler(t, s, recursiveConfig())

	summary, err := c.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalProcessed)
	assert.Equal(t, []string{libraryURL, folderURL("B"), folderURL("C")}, s.Navigations)
	assert.Len(t, store.Entries(), 3)
}

func TestRecursiveRespectsPageBudget(t *testing.T) {
	s := newSession()
	s.AddPage(libraryURL, libraryPage(true, anchor("/ProcessLibrary/Library/B", "B")))
	s.AddPage(folderURL("B"), libraryPage(true, anchor("/ProcessLibrary/Library/C", "C")))
	s.AddPage(folderURL("C"), libraryPage(true, anchor("/ProcessLibrary/Library/D", "D")))
	s.AddPage(folderURL("D"), libraryPage(true))

	cfg := recursiveConfig()
	cfg.MaxPages = 2
	c, store := newCrawler(t, s, cfg)

	summary, err := c.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalProcessed)
	assert.Equal(t, []string{libraryURL, folderURL("B")}, s.Navigations)
	assert.Len(t, store.Entries(), 2)
}

func TestRecursiveSkipsForeignAndNonLibraryLinks(t *testing.T) {
	s := newSession()
	s.AddPage(libraryURL, libraryPage(true,
		anchor("https://elsewhere.example/ProcessLibrary/Library/Mirror", "Mirror"),
		anchor("/About", "About"),
		anchor("/ProcessLibrary/Library/Branch#list", "Branch"),
		anchor("/ProcessLibrary/Library/Branch", "Branch"),
	))
	s.AddPage(folderURL("Branch"), libraryPage(true))
	c, _ := newCrawler(t, s, recursiveConfig())

	summary, err := c.Run(context.Background())

	// The fragment link and the plain link are the same page; the
	// foreign host and the non-library path are not crawl targets.
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalProcessed)
	assert.Equal(t, []string{libraryURL, folderURL("Branch")}, s.Navigations)
}

func TestRecursiveSkipsLinksOfUnreachablePage(t *testing.T) {
	s := newSession()
	s.AddPage(libraryURL, libraryPage(true, anchor("/ProcessLibrary/Library/Gone", "Gone")))
	s.AddPage(folderURL("Gone"), libraryPage(true, anchor("/ProcessLibrary/Content/Index/9", "Orphan")))
	s.NavErrs[folderURL("Gone")] = errors.New("net::ERR_EMPTY_RESPONSE")
	c, store := newCrawler(t, s, recursiveConfig())

	summary, err := c.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, writer.Summary{ExtractedCount: 1, FailedCount: 1, TotalProcessed: 2}, summary)

	entries := store.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "failed", entries[1].Status)
	// The orphan behind the dead page was never discovered.
	assert.NotContains(t, s.Navigations, contentURL(9))
}

func TestRecursiveDescendsPastDiagramlessFolder(t *testing.T) {
	s := newSession()
	s.AddPage(libraryURL, libraryPage(false,
		anchor("/ProcessLibrary/Content/Index/3", "Create Account"),
	))
	s.AddPage(contentURL(3), libraryPage(true))
	c, store := newCrawler(t, s, recursiveConfig())

	summary, err := c.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, writer.Summary{ExtractedCount: 1, FailedCount: 1, TotalProcessed: 2}, summary)

	entries := store.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "failed", entries[0].Status)
	assert.Equal(t, "success", entries[1].Status)
	assert.Equal(t, "Library > Create Account", entries[1].Breadcrumb)
}
