// Package site models the Temenos process library. It holds the node
// graph a crawl walks and the fixed section catalog, plus the selectors
// and navigation steps the portal requires.
package site

// Kind classifies a node in the site graph.
type Kind string

const (
	// KindSection is a numbered top-level section from the catalog.
	KindSection Kind = "section"
	// KindProcess is a process diagram page reached through a section.
	KindProcess Kind = "process"
	// KindLibraryFolder is an intermediate library page found while
	// walking the library recursively.
	KindLibraryFolder Kind = "library-folder"
	// KindLibraryProcess is a process diagram page found while walking
	// the library recursively.
	KindLibraryProcess Kind = "library-process"
)

// Node is one addressable page in the site graph. Nodes are filled in
// when discovered and read-only afterwards. Parent is a back-reference
// used to reconstruct name paths; it carries no ownership.
type Node struct {
	Kind   Kind
	Index  int // position among its siblings, in document order
	Name   string
	URL    string
	Parent *Node
}

// Breadcrumb returns the name path from the root node down to n.
func (n *Node) Breadcrumb() []string {
	if n == nil {
		return nil
	}
	return append(n.Parent.Breadcrumb(), n.Name)
}

// Section returns the catalog section this node belongs to. Nodes at or
// above the section level report their own name.
func (n *Node) Section() string {
	crumbs := n.Breadcrumb()
	if len(crumbs) < 2 {
		return crumbs[len(crumbs)-1]
	}
	return crumbs[1]
}
