package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// FilterText normalizes a markup text fragment: non-breaking spaces become
// ordinary spaces, a colon left at the start of a paragraph after anchor
// extraction is dropped, and whitespace runs collapse to a single space.
func FilterText(text string) string {
	if text == "" {
		return ""
	}
	if text[0] == ':' {
		text = strings.TrimSpace(text[1:])
	}
	text = strings.ReplaceAll(text, " ", " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// SpeakerLabel trims a raw anchor text into a display label: surrounding
// whitespace and a trailing colon are removed.
func SpeakerLabel(anchorText string) string {
	label := FilterText(anchorText)
	label = strings.TrimSuffix(label, ":")
	return strings.TrimSpace(label)
}

// SpeakerKey derives the stable identifier for a speaker from its display
// label. Spaces and commas map to underscores and doubled underscores
// collapse, so the key survives small formatting drift between sessions.
func SpeakerKey(label string) string {
	key := strings.ReplaceAll(label, " ", "_")
	key = strings.ReplaceAll(key, ",", "_")
	for strings.Contains(key, "__") {
		key = strings.ReplaceAll(key, "__", "_")
	}
	return strings.Trim(key, "_")
}
