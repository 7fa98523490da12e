package crawler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nick-rajwade/svg-crawler/internal/browser/browsertest"
	"github.com/nick-rajwade/svg-crawler/internal/config"
	"github.com/nick-rajwade/svg-crawler/internal/site"
	"github.com/nick-rajwade/svg-crawler/internal/writer"
)

const (
	homeURL    = "https://portal.example/home"
	libraryURL = "https://portal.example/ProcessLibrary/Library"
)

// diagramSVG is large enough on both axes to count as a process map.
const diagramSVG = `<svg width="900" height="620" xmlns="http://www.w3.org/2000/svg">` +
	`<g><rect x="20" y="20" width="200" height="80"></rect>` +
	`<path d="M220 60 L400 60"></path></g></svg>`

// newSession scripts the authenticated landing page with a working
// library link and parks the session on it, the state a crawl starts
// from after login.
func newSession() *browsertest.Session {
	s := browsertest.New()
	s.AddPage(homeURL, &browsertest.Page{
		ClickTargets: map[string]string{site.LibraryLinkSelector: libraryURL},
	})
	s.CurrentURL = homeURL
	return s
}

func anchor(href, text string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, href, text)
}

// newCrawler wires a crawler with a silent tracker and a store rooted
// in a per-test temp directory.
func newCrawler(t *testing.T, s *browsertest.Session, cfg config.Config) (*Crawler, *writer.Store) {
	t.Helper()
	cfg.OutputDir = t.TempDir()
	store, err := writer.NewStore(cfg.OutputDir)
	require.NoError(t, err)
	return New(s, store, nil, cfg), store
}
