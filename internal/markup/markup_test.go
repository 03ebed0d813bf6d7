package markup

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

const samplePage = `<html><head><title>Stenografický zápis 5. schůze</title></head>
<body>
<div id="main-content">
<p align="center">HEADER</p>
<p><a id="r1" href="detail.sqw?id=5">Poslanec Jan Novák:</a> Dobrý den.</p>
<div><p>navigation</p></div>
<p>Pokračování projevu.</p>
</div>
</body></html>`

func mustParse(t *testing.T, content string) *Document {
	t.Helper()
	doc, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestTitle(t *testing.T) {
	doc := mustParse(t, samplePage)
	if got := doc.Title(); got != "Stenografický zápis 5. schůze" {
		t.Errorf("Title() = %q", got)
	}
}

func TestAnchorsAndAttr(t *testing.T) {
	doc := mustParse(t, samplePage)
	anchors := doc.Anchors()
	if len(anchors) != 1 {
		t.Fatalf("Anchors() = %d, want 1", len(anchors))
	}
	if id, ok := Attr(anchors[0], "id"); !ok || id != "r1" {
		t.Errorf("Attr(id) = %q, %v", id, ok)
	}
	if _, ok := Attr(anchors[0], "name"); ok {
		t.Error("Attr(name) should be absent")
	}
}

func TestElementByID(t *testing.T) {
	doc := mustParse(t, samplePage)
	if doc.ElementByID("div", "main-content") == nil {
		t.Error("ElementByID(div, main-content) = nil")
	}
	if doc.ElementByID("div", "missing") != nil {
		t.Error("ElementByID(div, missing) should be nil")
	}
}

func TestTextExcluding(t *testing.T) {
	doc := mustParse(t, samplePage)
	var withAnchor *html.Node
	for _, p := range doc.Paragraphs() {
		if FirstElement(p, "a") != nil {
			withAnchor = p
			break
		}
	}
	if withAnchor == nil {
		t.Fatal("no paragraph with anchor found")
	}
	anchor := FirstElement(withAnchor, "a")
	full := Text(withAnchor)
	excluded := TextExcluding(withAnchor, anchor)
	if !strings.Contains(full, "Novák") {
		t.Errorf("Text dropped anchor text: %q", full)
	}
	if strings.Contains(excluded, "Novák") {
		t.Errorf("TextExcluding still contains anchor text: %q", excluded)
	}
	if !strings.Contains(excluded, "Dobrý den.") {
		t.Errorf("TextExcluding dropped paragraph text: %q", excluded)
	}
}

func TestNextSiblingText(t *testing.T) {
	doc := mustParse(t, `<p><a name="b1"></a>Zahájení schůze</p>`)
	anchors := doc.Anchors()
	if len(anchors) != 1 {
		t.Fatalf("Anchors() = %d, want 1", len(anchors))
	}
	if got := NextSiblingText(anchors[0]); got != "Zahájení schůze" {
		t.Errorf("NextSiblingText = %q", got)
	}
}

func TestRemove(t *testing.T) {
	doc := mustParse(t, samplePage)
	main := doc.ElementByID("div", "main-content")
	if main == nil {
		t.Fatal("main-content not found")
	}
	Remove(main, func(n *html.Node) bool {
		if IsElement(n, "div") {
			return true
		}
		if IsElement(n, "p") {
			if align, ok := Attr(n, "align"); ok && align == "center" {
				return true
			}
		}
		return false
	})
	paragraphs := Elements(main, "p")
	if len(paragraphs) != 2 {
		t.Fatalf("paragraphs after prune = %d, want 2", len(paragraphs))
	}
	for _, p := range paragraphs {
		text := Text(p)
		if strings.Contains(text, "HEADER") || strings.Contains(text, "navigation") {
			t.Errorf("pruned content still present: %q", text)
		}
	}
}
