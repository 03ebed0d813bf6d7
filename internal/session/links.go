package session

import (
	"stenograf/internal/markup"
	"stenograf/internal/psp"
)

// IndexLinks collects the session-page links from a term's steno index
// document, in document order.
func IndexLinks(doc *markup.Document, era psp.Era) []string {
	var out []string
	for _, anchor := range doc.Anchors() {
		href, ok := markup.Attr(anchor, "href")
		if !ok {
			continue
		}
		if era.IsSessionLink(href) {
			out = append(out, href)
		}
	}
	return out
}

// SubpageURL expands a sub-page file name into its absolute URL under the
// session directory.
func (p *Parser) SubpageURL(name string) string {
	return p.subURL + name
}
