package site

import "fmt"

// sectionTitles lists the sixteen numbered sections of the process
// library in site order. The ordinal prefix is part of the on-site
// display name, so "Transactional Processes" appears on the page as
// "3. Transactional Processes".
var sectionTitles = [16]string{
	"Customer Relationship Management Processes",
	"Retail Banking Processes",
	"Corporate Banking Processes",
	"Transactional Processes",
	"Treasury Processes",
	"Trade Finance Processes",
	"Retail Lending Processes",
	"Corporate Lending Processes",
	"Payments Processes",
	"Wealth Management Processes",
	"Private Banking Processes",
	"Islamic Banking Processes",
	"Risk Management Processes",
	"Compliance Processes",
	"Securities Processes",
	"Fund Accounting Processes",
}

// Sections returns the fixed section catalog as fresh nodes parented to
// root. Section URLs are resolved later, when each section is opened.
func Sections(root *Node) []*Node {
	nodes := make([]*Node, 0, len(sectionTitles))
	for i, title := range sectionTitles {
		nodes = append(nodes, &Node{
			Kind:   KindSection,
			Index:  i,
			Name:   fmt.Sprintf("%d. %s", i, title),
			Parent: root,
		})
	}
	return nodes
}
