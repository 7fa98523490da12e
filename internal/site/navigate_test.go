package site

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nick-rajwade/svg-crawler/internal/browser/browsertest"
)

const (
	homeURL    = "https://t.example/home"
	libraryURL = "https://t.example/Library"
	sectionURL = "https://t.example/Library/Section/3"
)

func TestOpenLibrary(t *testing.T) {
	ctx := context.Background()
	s := browsertest.New().
		AddPage(homeURL, &browsertest.Page{
			ClickTargets: map[string]string{LibraryLinkSelector: libraryURL},
		}).
		AddPage(libraryURL, &browsertest.Page{})
	require.NoError(t, s.Navigate(ctx, homeURL))

	got, err := OpenLibrary(ctx, s)

	require.NoError(t, err)
	assert.Equal(t, libraryURL, got)
	assert.Contains(t, s.Clicked, LibraryLinkSelector)
	assert.Positive(t, s.Settles)
}

func TestOpenLibraryStuckLoader(t *testing.T) {
	ctx := context.Background()
	s := browsertest.New().AddPage(homeURL, &browsertest.Page{
		Stuck:        []string{LoaderSelector},
		ClickTargets: map[string]string{LibraryLinkSelector: libraryURL},
	})
	require.NoError(t, s.Navigate(ctx, homeURL))

	_, err := OpenLibrary(ctx, s)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loader")
}

func TestOpenSection(t *testing.T) {
	ctx := context.Background()
	section := &Node{Kind: KindSection, Index: 3, Name: "3. Transactional Processes"}
	s := browsertest.New().
		AddPage(libraryURL, &browsertest.Page{
			ClickTargets: map[string]string{SectionSelector(section.Name): sectionURL},
		}).
		AddPage(sectionURL, &browsertest.Page{})
	require.NoError(t, s.Navigate(ctx, libraryURL))

	got, err := OpenSection(ctx, s, section)

	require.NoError(t, err)
	assert.Equal(t, sectionURL, got)
}

func TestOpenSectionMissingEntry(t *testing.T) {
	ctx := context.Background()
	s := browsertest.New().AddPage(libraryURL, &browsertest.Page{})
	require.NoError(t, s.Navigate(ctx, libraryURL))

	_, err := OpenSection(ctx, s, &Node{Name: "9. Wealth Management Processes"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "section entry")
}

func TestProcessLinks(t *testing.T) {
	ctx := context.Background()
	source := `<html><body>
		<a href="/Content/Index/11"><span>Account Opening</span></a>
		<a href="/Content/Index/12">Loan  Origination</a>
		<a href="/Content/Index/11">Account Opening (repeat)</a>
		<a href="/Library/Section/4">Next section</a>
		<a href="https://other.example/Content/Index/9">Offsite</a>
	</body></html>`
	s := browsertest.New().AddPage(sectionURL, &browsertest.Page{Source: source})
	require.NoError(t, s.Navigate(ctx, sectionURL))

	section := &Node{Kind: KindSection, Index: 3, Name: "3. Transactional Processes", URL: sectionURL}
	nodes, err := ProcessLinks(ctx, s, section)

	require.NoError(t, err)
	require.Len(t, nodes, 3)

	assert.Equal(t, "Account Opening", nodes[0].Name)
	assert.Equal(t, "https://t.example/Content/Index/11", nodes[0].URL)
	assert.Equal(t, 0, nodes[0].Index)
	assert.Equal(t, KindProcess, nodes[0].Kind)
	assert.Same(t, section, nodes[0].Parent)

	assert.Equal(t, "Loan Origination", nodes[1].Name)
	assert.Equal(t, 1, nodes[1].Index)

	// The offsite link still matches the process path; filtering by host
	// belongs to the recursive walk, not to section enumeration.
	assert.Equal(t, "https://other.example/Content/Index/9", nodes[2].URL)
}

func TestProcessLinksEmptyPage(t *testing.T) {
	ctx := context.Background()
	s := browsertest.New().AddPage(sectionURL, &browsertest.Page{Source: "<html><body></body></html>"})
	require.NoError(t, s.Navigate(ctx, sectionURL))

	nodes, err := ProcessLinks(ctx, s, &Node{Name: "5. Trade Finance Processes", URL: sectionURL})

	require.NoError(t, err)
	assert.Empty(t, nodes)
}
