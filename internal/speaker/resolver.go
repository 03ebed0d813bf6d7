package speaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"stenograf/internal/czdate"
	"stenograf/internal/fetch"
	"stenograf/internal/markup"
	"stenograf/internal/psp"
	"stenograf/internal/textutil"
)

// ErrEnrichment marks a biography fetch failure. Unlike every other fetch in
// the pipeline this aborts the whole run; the asymmetry is inherited from
// the archive's behavior and deliberately kept loud instead of being
// silently unified with the skip-and-continue policy.
var ErrEnrichment = errors.New("speaker: enrichment failed")

// The two caption forms seen on legislator detail pages: with and without
// an electoral-list clause. The feminine suffix on "Narozen"/"Zvolen" is
// covered by the optional character.
var (
	captionWithParty = regexp.MustCompile(`Narozen.?: (\d+)\.\s?(\d+)\.\s?(\d+).*Zvolen.? na kandidátce: (.*)$`)
	captionPlain     = regexp.MustCompile(`Narozen: (\d+)\.\s?(\d+)\.\s?(\d+)$`)
)

// Resolver enriches speaker stubs from their linked biography pages.
type Resolver struct {
	fetcher *fetch.Client
	logger  *slog.Logger
}

// NewResolver builds a Resolver on top of the shared fetch client.
func NewResolver(fetcher *fetch.Client, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{fetcher: fetcher, logger: logger}
}

// EnrichAll resolves every un-enriched speaker in the directory in
// first-seen order. A biography fetch failure is returned as ErrEnrichment
// and must abort the run.
func (r *Resolver) EnrichAll(ctx context.Context, dir *Directory) error {
	for _, key := range dir.Keys() {
		sp, ok := dir.Get(key)
		if !ok || sp.Enriched() {
			continue
		}
		enriched, err := r.Enrich(ctx, sp)
		if err != nil {
			return err
		}
		dir.Put(key, enriched)
	}
	return nil
}

// Enrich resolves one speaker. Already-enriched speakers are returned
// unchanged.
func (r *Resolver) Enrich(ctx context.Context, sp Speaker) (Speaker, error) {
	if sp.Enriched() {
		return sp, nil
	}

	switch {
	case psp.IsGovernmentLink(sp.Link):
		text, err := r.fetcher.Get(ctx, sp.Link)
		if err != nil {
			return sp, fmt.Errorf("%w: %s: %v", ErrEnrichment, sp.StenoName, err)
		}
		sp.PageName = headingText(text)
	case strings.Contains(sp.Link, "/sqw/detail.sqw") && psp.IsDetailLink(sp.Link):
		text, err := r.fetcher.Get(ctx, psp.DetailURL(sp.Link))
		if err != nil {
			return sp, fmt.Errorf("%w: %s: %v", ErrEnrichment, sp.StenoName, err)
		}
		sp.PageName = headingText(text)
		sp.BirthDate, sp.Party = parseCaption(text)
	}

	name, titles := SplitTitles(sp.PageName)
	sp.Name = name
	sp.Titles = titles
	sp.Function = textutil.FilterText(FunctionText(sp.StenoName, name))
	sp.Sex = InferSex(sp.Function)

	if sp.Name == "" {
		r.logger.DebugContext(ctx, "speaker left without page name", "steno_name", sp.StenoName, "link", sp.Link)
	}
	return sp, nil
}

// headingText extracts the first h1 heading of a biography page.
func headingText(content string) string {
	doc, err := markup.Parse(content)
	if err != nil {
		return ""
	}
	h1 := markup.FirstElement(doc.Root, "h1")
	if h1 == nil {
		return ""
	}
	return textutil.FilterText(markup.Text(h1))
}

// parseCaption reads the figcaption block of a legislator detail page and
// extracts birth date (yyyymmdd) and electoral list when present. A caption
// that matches neither form leaves both fields empty.
func parseCaption(content string) (birthDate, party string) {
	doc, err := markup.Parse(content)
	if err != nil {
		return "", ""
	}
	var caption string
	for _, div := range markup.Elements(doc.Root, "div") {
		if class, ok := markup.Attr(div, "class"); ok && hasClass(class, "figcaption") {
			caption = textutil.FilterText(markup.Text(div))
			break
		}
	}
	if caption == "" {
		return "", ""
	}

	var m []string
	if strings.Contains(caption, "Zvolen") {
		m = captionWithParty.FindStringSubmatch(caption)
		if m != nil {
			party = strings.TrimSpace(m[4])
		}
	} else {
		m = captionPlain.FindStringSubmatch(caption)
	}
	if m != nil {
		if date, err := czdate.FromNumeric(m[1], m[2], m[3]); err == nil {
			birthDate = date
		}
	}
	return birthDate, party
}

func hasClass(attr, class string) bool {
	for _, field := range strings.Fields(attr) {
		if field == class {
			return true
		}
	}
	return false
}
