// Package writer persists extracted diagrams under the output
// directory and keeps the crawl log that is flushed to crawl_log.json
// at the end of a run.
package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nick-rajwade/svg-crawler/internal/extract"
	"github.com/nick-rajwade/svg-crawler/internal/site"
)

// LogEntry is one crawl log record. Exactly one entry exists per
// visited page, whatever its outcome.
type LogEntry struct {
	Section    string `json:"section"`
	PageTitle  string `json:"page_title"`
	Breadcrumb string `json:"breadcrumb"`
	URL        string `json:"url"`
	FilePath   string `json:"file_path"`
	SVGSize    int    `json:"svg_size"`
	Status     string `json:"status"`
}

// Summary aggregates entry outcomes. It is recomputed from the entry
// list on every read, never stored, so the counts cannot drift from
// the entries they describe.
type Summary struct {
	ExtractedCount int `json:"extracted_count"`
	FailedCount    int `json:"failed_count"`
	TotalProcessed int `json:"total_processed"`
}

// Summarize reduces entries to their aggregate counts.
func Summarize(entries []LogEntry) Summary {
	s := Summary{TotalProcessed: len(entries)}
	for _, e := range entries {
		if e.Status == string(extract.StatusSuccess) {
			s.ExtractedCount++
		} else {
			s.FailedCount++
		}
	}
	return s
}

type crawlLog struct {
	Summary   Summary    `json:"summary"`
	Processes []LogEntry `json:"processes"`
}

// Store writes diagram files and accumulates the in-memory crawl log.
type Store struct {
	root    string
	entries []LogEntry
	taken   map[string]bool
}

// NewStore creates the output directory if needed.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Store{
		root:    root,
		entries: []LogEntry{},
		taken:   make(map[string]bool),
	}, nil
}

// Save records the outcome of one page visit and, on success, writes
// the extracted fragment to its derived path. Filesystem problems
// downgrade the entry to failed; Save never fails the crawl.
func (st *Store) Save(node *site.Node, pageTitle string, res extract.Result) LogEntry {
	entry := LogEntry{
		Section:    node.Section(),
		PageTitle:  pageTitle,
		Breadcrumb: strings.Join(node.Breadcrumb(), " > "),
		URL:        node.URL,
		Status:     string(extract.StatusFailed),
	}

	if res.Status != extract.StatusSuccess {
		st.entries = append(st.entries, entry)
		return entry
	}

	dest := st.uniquePath(st.pathFor(node))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		log.Error("diagram directory", "path", dest, "err", err)
		st.entries = append(st.entries, entry)
		return entry
	}
	if err := os.WriteFile(dest, []byte(res.SVG), 0644); err != nil {
		log.Error("diagram write", "path", dest, "err", err)
		st.entries = append(st.entries, entry)
		return entry
	}

	entry.FilePath = dest
	entry.SVGSize = res.ByteSize
	entry.Status = string(extract.StatusSuccess)
	st.entries = append(st.entries, entry)
	return entry
}

// Entries returns the accumulated log entries in visit order.
func (st *Store) Entries() []LogEntry {
	return st.entries
}

// LogPath is where WriteLog flushes to.
func (st *Store) LogPath() string {
	return filepath.Join(st.root, "crawl_log.json")
}

// WriteLog flushes the crawl log as indented JSON, replacing any log a
// previous run left behind.
func (st *Store) WriteLog() error {
	file, err := os.Create(st.LogPath())
	if err != nil {
		return fmt.Errorf("creating crawl log: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(crawlLog{Summary: Summarize(st.entries), Processes: st.entries}); err != nil {
		return fmt.Errorf("encoding crawl log: %w", err)
	}
	return nil
}

// pathFor derives the destination for a node's diagram. Catalog
// traversal files sit under a numbered section folder; library walk
// files mirror the breadcrumb under library_recursive.
func (st *Store) pathFor(node *site.Node) string {
	if node.Kind == site.KindProcess && node.Parent != nil {
		return filepath.Join(st.root, sectionDir(node.Parent), sanitizeName(node.Name)+".svg")
	}

	crumbs := node.Breadcrumb()
	if len(crumbs) > 1 && crumbs[0] == "Library" {
		crumbs = crumbs[1:]
	}
	parts := make([]string, 0, len(crumbs)+2)
	parts = append(parts, st.root, "library_recursive")
	for _, crumb := range crumbs {
		parts = append(parts, sanitizeName(crumb))
	}
	return filepath.Join(parts...) + ".svg"
}

// uniquePath reserves a destination, disambiguating repeats with a
// numeric suffix before the extension.
func (st *Store) uniquePath(dest string) string {
	if !st.taken[dest] {
		st.taken[dest] = true
		return dest
	}
	ext := filepath.Ext(dest)
	stem := strings.TrimSuffix(dest, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if !st.taken[candidate] {
			st.taken[candidate] = true
			return candidate
		}
	}
}

var sectionName = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)

// sectionDir derives a section's folder name, keeping the ordinal as a
// sortable prefix: "3. Transactional Processes" becomes
// "3_Transactional_Processes".
func sectionDir(section *site.Node) string {
	if m := sectionName.FindStringSubmatch(section.Name); m != nil {
		return m[1] + "_" + sanitizeName(m[2])
	}
	return sanitizeName(section.Name)
}

const maxNameLen = 200

var unsafeChars = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_", "/", "_",
	`\`, "_", "|", "_", "?", "_", "*", "_",
)

// sanitizeName turns a display name into a safe path segment: reserved
// characters and whitespace runs become underscores, leading and
// trailing dots and underscores are trimmed, and the result is capped
// at 200 characters.
func sanitizeName(name string) string {
	name = unsafeChars.Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "unnamed"
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	return name
}
