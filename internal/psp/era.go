// Package psp encodes the structural conventions of the psp.cz steno archive
// across its four layout eras. The regular expressions here are the contract
// with the site: they encode undocumented, observed markup behavior and must
// not be reshaped without fixture coverage for every era.
package psp

import (
	"fmt"
	"regexp"
	"strings"
)

// Era identifies which layout generation a session's documents belong to.
type Era int

const (
	// EraPre2010 covers the electoral terms before 2010: session links are
	// directories and sub-page names nest under a session directory.
	EraPre2010 Era = iota
	// Era2010 covers 2010 through 2012: flat sub-page links, numeric
	// intervention fragments.
	Era2010
	// Era2013 is the transitional 2013 layout: topic anchors still use the
	// name attribute but intervention fragments carry the q prefix.
	Era2013
	// EraPost2013 is the current layout: topic anchors carry an id attribute
	// and topics are grouped into paragraph blocks.
	EraPost2013
)

var validYears = []int{1993, 1996, 1998, 2002, 2006, 2010, 2013, 2017}

// ValidYears lists the electoral-term years the archive exposes.
func ValidYears() []int {
	out := make([]int, len(validYears))
	copy(out, validYears)
	return out
}

// ForYear maps an electoral-term year to its layout era.
func ForYear(year int) Era {
	switch {
	case year > 2013:
		return EraPost2013
	case year == 2013:
		return Era2013
	case year >= 2010:
		return Era2010
	default:
		return EraPre2010
	}
}

func (e Era) String() string {
	switch e {
	case EraPre2010:
		return "pre-2010"
	case Era2010:
		return "2010-2012"
	case Era2013:
		return "2013"
	case EraPost2013:
		return "post-2013"
	default:
		return fmt.Sprintf("era(%d)", int(e))
	}
}

// IsValidYear reports whether year names a known electoral term.
func IsValidYear(year int) bool {
	for _, y := range validYears {
		if y == year {
			return true
		}
	}
	return false
}

// BaseURL returns the steno protocol root for an electoral-term year. Terms
// before 2010 are only served from the public mirror.
func BaseURL(year int) string {
	if year >= 2010 {
		return fmt.Sprintf("http://psp.cz/eknih/%dps/stenprot/", year)
	}
	return fmt.Sprintf("http://public.psp.cz/eknih/%dps/stenprot/", year)
}

// CacheRoot is the URL prefix stripped when deriving cache file paths.
const CacheRoot = "/eknih/"

var (
	sessionLinkPost2010 = regexp.MustCompile(`^.*schuz.*htm[l]?$`)
	sessionLinkPre2010  = regexp.MustCompile(`^.*schuz/$`)
	sessionNumber       = regexp.MustCompile(`^(\d+)schuz/index.htm$`)

	topicAnchorID = regexp.MustCompile(`^b(\d+)$`)

	topicHrefQ    = regexp.MustCompile(`^.*html#(q\d+)$`)
	topicHrefHash = regexp.MustCompile(`^.*html#(\d+)$`)

	pageNameFlat   = regexp.MustCompile(`^(.*\.html).*`)
	pageNameNested = regexp.MustCompile(`^.*schuz/(.*\.html).*`)

	interventionAnchor = regexp.MustCompile(`(s\d+\.htm[l]?)#(r\d+)$`)

	detailLink = regexp.MustCompile(`/sqw/detail\.sqw\?id=(\d+)$`)
)

// IsSessionLink reports whether an index-page href points at a session page
// for the given era.
func (e Era) IsSessionLink(href string) bool {
	if e == EraPre2010 {
		return sessionLinkPre2010.MatchString(href)
	}
	return sessionLinkPost2010.MatchString(href)
}

// SessionNumber extracts the session number from a normalized session link
// of the form "<n>schuz/index.htm".
func SessionNumber(link string) (string, bool) {
	m := sessionNumber.FindStringSubmatch(link)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// TopicAnchorID extracts a topic number from a boundary anchor's id or name
// attribute value ("b12" -> 12).
func TopicAnchorID(value string) (int, bool) {
	m := topicAnchorID.FindStringSubmatch(value)
	if m == nil {
		return 0, false
	}
	var id int
	if _, err := fmt.Sscanf(m[1], "%d", &id); err != nil {
		return 0, false
	}
	return id, true
}

// TopicRef extracts the topic-scoped reference id from an intervention href.
// Eras from 2013 on use the q-prefixed form ("q12"); earlier eras use the
// bare numeric fragment.
func (e Era) TopicRef(href string) (string, bool) {
	var m []string
	switch e {
	case Era2013, EraPost2013:
		m = topicHrefQ.FindStringSubmatch(href)
	default:
		m = topicHrefHash.FindStringSubmatch(href)
	}
	if m == nil {
		return "", false
	}
	return m[1], true
}

// PageName derives the sub-page file name from a raw intervention link.
// Pre-2010 links nest the file name under a session directory; later eras
// carry it directly.
func (e Era) PageName(link string) (string, bool) {
	pattern := pageNameFlat
	if e == EraPre2010 {
		pattern = pageNameNested
	}
	m := pattern.FindStringSubmatch(link)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// InterventionAnchor splits a sub-page intervention href into its full
// reference, sub-page name, and reference tag. Returns ok=false for hrefs
// that do not point at an intervention.
func InterventionAnchor(href string) (ref, page, tag string, ok bool) {
	m := interventionAnchor.FindStringSubmatch(href)
	if m == nil {
		return "", "", "", false
	}
	return m[0], m[1], m[2], true
}

// IsVotingLink reports whether an href targets the voting record viewer,
// which must never be treated as a topic or speaker boundary.
func IsVotingLink(href string) bool {
	return strings.Contains(href, "hlasy.sqw")
}

// IsHistoryLink reports whether an href targets the document history viewer.
func IsHistoryLink(href string) bool {
	return strings.Contains(href, "/sqw/historie.sqw")
}

// IsDetailLink reports whether a speaker link points at a legislator detail
// page on psp.cz.
func IsDetailLink(href string) bool {
	return detailLink.MatchString(href)
}

// IsGovernmentLink reports whether a speaker link points at a government
// member biography on vlada.cz.
func IsGovernmentLink(href string) bool {
	return strings.HasPrefix(href, "https://www.vlada.cz/cz/")
}

// DetailURL expands a relative legislator detail link into an absolute URL.
func DetailURL(href string) string {
	return "http://www.psp.cz/" + strings.TrimPrefix(href, "/")
}
