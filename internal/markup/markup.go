// Package markup wraps golang.org/x/net/html with the handful of traversal
// helpers the steno parsers need: document-order element collection,
// attribute lookup, subtree text extraction, and region pruning.
//
// The helpers operate on *html.Node directly so callers can mix them freely
// with their own walks.
package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// Document is a parsed page.
type Document struct {
	Root *html.Node
}

// Parse builds a Document from raw page text. The tokenizer is tolerant of
// the malformed markup the older eras serve; it never fails on structure,
// only on reader errors.
func Parse(content string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}
	return &Document{Root: root}, nil
}

// Title returns the text of the document's <title> element, or "".
func (d *Document) Title() string {
	if d == nil || d.Root == nil {
		return ""
	}
	title := findElement(d.Root, "title")
	if title == nil {
		return ""
	}
	return Text(title)
}

// Anchors collects every <a> element in the document in document order.
func (d *Document) Anchors() []*html.Node {
	return Elements(d.Root, "a")
}

// Paragraphs collects every <p> element in the document in document order.
func (d *Document) Paragraphs() []*html.Node {
	return Elements(d.Root, "p")
}

// ElementByID finds the first element with the given tag name and id
// attribute, or nil.
func (d *Document) ElementByID(tag, id string) *html.Node {
	var found *html.Node
	walk(d.Root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == tag {
			if v, ok := Attr(n, "id"); ok && v == id {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

// Elements collects every element with the given tag name under root, in
// document order. Matching elements' subtrees are still descended, so nested
// occurrences are all reported.
func Elements(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		return true
	})
	return out
}

// FirstElement returns the first element with the given tag under root, or nil.
func FirstElement(root *html.Node, tag string) *html.Node {
	return findElement(root, tag)
}

// Attr returns the value of the named attribute on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Text concatenates every text node under n in document order.
func Text(n *html.Node) string {
	var b strings.Builder
	collectText(n, nil, &b)
	return b.String()
}

// TextExcluding concatenates text under n, skipping the subtree rooted at skip.
func TextExcluding(n, skip *html.Node) string {
	var b strings.Builder
	collectText(n, skip, &b)
	return b.String()
}

// NextSiblingText returns the text of the node immediately following n, which
// for topic anchors carries the topic title. Returns "" when n is the last
// child of its parent.
func NextSiblingText(n *html.Node) string {
	if n == nil || n.NextSibling == nil {
		return ""
	}
	return Text(n.NextSibling)
}

// Remove detaches every node under root for which pred returns true. Detached
// subtrees are not descended, mirroring decompose-style pruning of navigation
// and header regions.
func Remove(root *html.Node, pred func(*html.Node) bool) {
	if root == nil {
		return
	}
	for child := root.FirstChild; child != nil; {
		next := child.NextSibling
		if pred(child) {
			root.RemoveChild(child)
		} else {
			Remove(child, pred)
		}
		child = next
	}
}

// IsElement reports whether n is an element with the given tag name.
func IsElement(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == tag
}

func findElement(root *html.Node, tag string) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == tag {
			found = n
			return false
		}
		return true
	})
	return found
}

// walk visits nodes in document order; returning false from visit stops the
// entire traversal.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if n == nil {
		return true
	}
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func collectText(n, skip *html.Node, b *strings.Builder) {
	if n == nil || n == skip {
		return
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, skip, b)
	}
}
