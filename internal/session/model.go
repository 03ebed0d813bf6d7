package session

import "stenograf/internal/markup"

// InterventionRef points from a session's topic listing to one intervention
// on a steno sub-page. Immutable once created; equality over all fields is
// the dedup key within a topic.
type InterventionRef struct {
	PageRef   string // full anchor target, e.g. "s170001.htm#r3"
	PageName  string // sub-page file name, e.g. "s170001.htm"
	Tag       string // reference tag, e.g. "r3"
	StenoName string // anchor text on the listing page
	Date      string // sub-page date, yyyymmdd
}

// Topic is one agenda item: a display title plus the intervention references
// listed under it, in document order.
type Topic struct {
	ID    int
	Title string
	Refs  []InterventionRef
}

// contains reports whether an equal reference was already appended.
func (t *Topic) contains(ref InterventionRef) bool {
	for _, r := range t.Refs {
		if r == ref {
			return true
		}
	}
	return false
}

// Page is one fetched steno sub-page. Each sub-page is fetched at most once
// per session.
type Page struct {
	Name    string
	Link    string
	Date    string // yyyymmdd
	Content string
	Doc     *markup.Document
}
