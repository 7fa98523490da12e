package extract

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Link is a resolved anchor harvested from page source.
type Link struct {
	Name string
	URL  *url.URL
}

// Links harvests every anchor from raw page source, resolving relative
// hrefs against base. Script, mail, tel and bare fragment pseudo-links
// are dropped.
func Links(source string, base *url.URL) ([]Link, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parsing page source: %w", err)
	}

	var out []Link
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" ||
			strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "javascript:") ||
			strings.HasPrefix(href, "mailto:") ||
			strings.HasPrefix(href, "tel:") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		out = append(out, Link{
			Name: anchorText(sel.Nodes),
			URL:  base.ResolveReference(ref),
		})
	})
	return out, nil
}

// anchorText flattens the text content of anchor nodes, replacing
// non-printable characters and collapsing whitespace runs to single
// spaces.
func anchorText(nodes []*html.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		nodeText(n, &b)
	}
	clean := strings.Map(func(r rune) rune {
		if !unicode.IsPrint(r) {
			return ' '
		}
		return r
	}, b.String())
	return strings.Join(strings.Fields(clean), " ")
}

func nodeText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		nodeText(child, b)
	}
}
