package crawler

import "github.com/nick-rajwade/svg-crawler/internal/site"

// frontier is the depth-first work list of the library walk. It
// remembers every URL it hands out, so a page is visited at most once
// however many links point at it.
type frontier struct {
	stack   []*site.Node
	visited map[string]bool
}

func newFrontier(root *site.Node) *frontier {
	return &frontier{
		stack:   []*site.Node{root},
		visited: make(map[string]bool),
	}
}

// Push stacks nodes in reverse, so Pop hands them back in document
// order. Nodes already visited are dropped.
func (f *frontier) Push(nodes []*site.Node) {
	for i := len(nodes) - 1; i >= 0; i-- {
		if !f.visited[nodes[i].URL] {
			f.stack = append(f.stack, nodes[i])
		}
	}
}

// Pop returns the next unvisited node and marks it visited. The same
// URL can sit on the stack twice when two pages link to it before
// either is processed; the second copy is skipped here.
func (f *frontier) Pop() (*site.Node, bool) {
	for len(f.stack) > 0 {
		node := f.stack[len(f.stack)-1]
		f.stack = f.stack[:len(f.stack)-1]
		if f.visited[node.URL] {
			continue
		}
		f.visited[node.URL] = true
		return node, true
	}
	return nil, false
}

// Pending reports how much of the frontier is left unexplored.
func (f *frontier) Pending() int {
	return len(f.stack)
}
