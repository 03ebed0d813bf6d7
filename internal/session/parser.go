// Package session reconstructs the topic structure of one parliamentary
// sitting from its index document. The four era-specific locator variants
// share the sub-page resolver and differ only in how topic and intervention
// boundaries are marked up.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"stenograf/internal/czdate"
	"stenograf/internal/fetch"
	"stenograf/internal/markup"
	"stenograf/internal/psp"
	"stenograf/internal/textutil"
)

// Parser walks one session document and accumulates its topics, sub-pages,
// and intervention index. All collections are owned by the parser; nothing
// is shared between sessions except the fetch cache.
type Parser struct {
	year    int
	era     psp.Era
	number  int
	baseURL string
	subURL  string
	link    string
	fetcher *fetch.Client
	logger  *slog.Logger

	topicOrder []int
	topics     map[int]*Topic
	pages      map[string]*Page
	index      map[string][]InterventionRef
}

// NewParser prepares a parser for one session. sessionNumber is the digit
// prefix of the session directory; sessionLink is relative to the term's
// base URL.
func NewParser(year int, sessionNumber, sessionLink string, fetcher *fetch.Client, logger *slog.Logger) (*Parser, error) {
	number, err := strconv.Atoi(sessionNumber)
	if err != nil {
		return nil, fmt.Errorf("session: bad session number %q: %w", sessionNumber, err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	baseURL := psp.BaseURL(year)
	return &Parser{
		year:    year,
		era:     psp.ForYear(year),
		number:  number,
		baseURL: baseURL,
		subURL:  baseURL + sessionNumber + "schuz/",
		link:    baseURL + sessionLink,
		fetcher: fetcher,
		logger:  logger,
		topics:  make(map[int]*Topic),
		pages:   make(map[string]*Page),
		index:   make(map[string][]InterventionRef),
	}, nil
}

// Number returns the numeric session index.
func (p *Parser) Number() int { return p.number }

// Era returns the layout era the parser was built for.
func (p *Parser) Era() psp.Era { return p.era }

// Topics returns the session's topics in first-seen order.
func (p *Parser) Topics() []*Topic {
	out := make([]*Topic, 0, len(p.topicOrder))
	for _, id := range p.topicOrder {
		out = append(out, p.topics[id])
	}
	return out
}

// Page returns a fetched sub-page by name.
func (p *Parser) Page(name string) (*Page, bool) {
	page, ok := p.pages[name]
	return page, ok
}

// Pages returns the number of sub-pages fetched for this session.
func (p *Parser) Pages() int { return len(p.pages) }

// Parse fetches the session index document and partitions its anchors into
// topics. A failed session fetch abandons the whole session: the topic map
// stays empty and the error is returned for the caller to report.
func (p *Parser) Parse(ctx context.Context) error {
	p.logger.InfoContext(ctx, "parsing session", "session", p.number, "link", p.link, "era", p.era.String())

	text, err := p.fetcher.Get(ctx, p.link)
	if err != nil {
		return fmt.Errorf("session %d: %w", p.number, err)
	}
	doc, err := markup.Parse(text)
	if err != nil {
		return fmt.Errorf("session %d: parse: %w", p.number, err)
	}

	switch p.era {
	case psp.EraPost2013:
		p.locateTopicsPost2013(ctx, doc)
	default:
		// 2013 and earlier share the anchor walk; the href pattern and
		// sub-page naming differ per era inside the shared code path.
		p.locateTopicsByAnchors(ctx, doc)
	}
	return nil
}

// locateTopicsPost2013 handles the current layout: each topic is one
// paragraph block whose first anchor carries id="b<n>", with the
// intervention links following inside the same block.
func (p *Parser) locateTopicsPost2013(ctx context.Context, doc *markup.Document) {
	for _, block := range doc.Paragraphs() {
		anchors := markup.Elements(block, "a")
		if len(anchors) == 0 {
			continue
		}

		id, ok := markup.Attr(anchors[0], "id")
		if !ok {
			p.logger.DebugContext(ctx, "ignoring block without topic anchor", "session", p.number)
			continue
		}
		topicID, ok := psp.TopicAnchorID(id)
		if !ok {
			continue
		}
		topic := p.openTopic(topicID, markup.NextSiblingText(anchors[0]))

		for _, anchor := range anchors[1:] {
			href, ok := markup.Attr(anchor, "href")
			if !ok {
				continue
			}
			if psp.IsHistoryLink(href) {
				continue
			}
			refID, ok := p.era.TopicRef(href)
			if !ok {
				p.logger.WarnContext(ctx, "no reference id in link", "session", p.number, "href", href)
				continue
			}
			p.extendTopic(ctx, topic, refID, href)
		}
	}
}

// locateTopicsByAnchors handles the 2013 and earlier layouts: one flat
// anchor walk where name="b<n>" opens a topic and matching hrefs below it
// extend the open topic.
func (p *Parser) locateTopicsByAnchors(ctx context.Context, doc *markup.Document) {
	var topic *Topic
	for _, anchor := range doc.Anchors() {
		if name, ok := markup.Attr(anchor, "name"); ok {
			if topicID, ok := psp.TopicAnchorID(name); ok {
				topic = p.openTopic(topicID, textutil.FilterText(markup.NextSiblingText(anchor)))
				continue
			}
		}

		href, ok := markup.Attr(anchor, "href")
		if !ok {
			continue
		}
		refID, ok := p.era.TopicRef(href)
		if !ok {
			continue
		}
		if topic == nil {
			// References before the first topic boundary have no home.
			p.logger.DebugContext(ctx, "reference before first topic", "session", p.number, "href", href)
			continue
		}
		p.extendTopic(ctx, topic, refID, href)
	}
}

// openTopic returns the topic for id, creating it with the given title on
// first sight. The first-seen title is never overwritten.
func (p *Parser) openTopic(id int, title string) *Topic {
	if existing, ok := p.topics[id]; ok {
		return existing
	}
	topic := &Topic{ID: id, Title: textutil.FilterText(title)}
	p.topics[id] = topic
	p.topicOrder = append(p.topicOrder, id)
	p.logger.Debug("new topic", "session", p.number, "topic", id, "title", topic.Title)
	return topic
}

// extendTopic resolves the sub-page behind href and appends the reference
// group's entries to the topic, skipping duplicates already present.
func (p *Parser) extendTopic(ctx context.Context, topic *Topic, refID, href string) {
	if !p.resolveSubpage(ctx, href) {
		return
	}
	for _, ref := range p.index[refID] {
		if topic.contains(ref) {
			continue
		}
		topic.Refs = append(topic.Refs, ref)
	}
}

// resolveSubpage ensures the sub-page named by href has been fetched and
// indexed. Returns false when the page name or its date cannot be
// determined; the caller skips the topic extension entirely.
func (p *Parser) resolveSubpage(ctx context.Context, href string) bool {
	pageName, ok := p.era.PageName(href)
	if !ok {
		p.logger.WarnContext(ctx, "no page name in link", "session", p.number, "href", href)
		return false
	}
	if _, done := p.pages[pageName]; done {
		return true
	}

	link := p.subURL + pageName
	text, err := p.fetcher.Get(ctx, link)
	if err != nil {
		p.logger.WarnContext(ctx, "sub-page fetch failed", "session", p.number, "link", link, "error", err)
		return false
	}
	doc, err := markup.Parse(text)
	if err != nil {
		p.logger.WarnContext(ctx, "sub-page parse failed", "session", p.number, "link", link, "error", err)
		return false
	}
	date, err := czdate.FromTitle(doc.Title())
	if err != nil {
		p.logger.WarnContext(ctx, "no date in sub-page", "session", p.number, "link", link, "error", err)
		return false
	}

	p.indexInterventions(doc, date)
	p.pages[pageName] = &Page{Name: pageName, Link: link, Date: date, Content: text, Doc: doc}
	return true
}

// indexInterventions scans a listing page's anchors once: a name attribute
// opens a reference group, and every intervention href below it is recorded
// under the open group, de-duplicated by full equality.
func (p *Parser) indexInterventions(doc *markup.Document, date string) {
	group := ""
	for _, anchor := range doc.Anchors() {
		if name, ok := markup.Attr(anchor, "name"); ok {
			group = name
			if _, exists := p.index[group]; !exists {
				p.index[group] = nil
			}
			continue
		}
		if group == "" {
			continue
		}
		href, ok := markup.Attr(anchor, "href")
		if !ok {
			continue
		}
		full, pageName, tag, ok := psp.InterventionAnchor(href)
		if !ok {
			continue
		}
		ref := InterventionRef{
			PageRef:   full,
			PageName:  pageName,
			Tag:       tag,
			StenoName: textutil.FilterText(markup.Text(anchor)),
			Date:      date,
		}
		if !containsRef(p.index[group], ref) {
			p.index[group] = append(p.index[group], ref)
		}
	}
}

func containsRef(refs []InterventionRef, ref InterventionRef) bool {
	for _, r := range refs {
		if r == ref {
			return true
		}
	}
	return false
}
