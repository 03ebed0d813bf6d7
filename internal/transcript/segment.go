// Package transcript splits one steno transcript page into per-speaker
// intervention records. The segmenter is a single forward pass over the
// page's paragraph blocks: a labeled anchor opens a new speaker turn and
// every following paragraph accumulates into it until the next label.
package transcript

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"stenograf/internal/markup"
	"stenograf/internal/psp"
	"stenograf/internal/speaker"
	"stenograf/internal/textutil"
)

// Intervention is one contiguous speaker turn. Text is the concatenation of
// every paragraph of the turn in document order, without the speaker-label
// anchor itself.
type Intervention struct {
	StenoName  string
	Text       string
	SpeakerKey string
}

// Segment partitions a transcript page into reference tag -> Intervention.
// Newly seen speakers are registered as stubs in dir; existing entries are
// never overwritten. A page with no qualifying paragraphs yields an empty
// map.
func Segment(ctx context.Context, doc *markup.Document, dir *speaker.Directory, logger *slog.Logger) map[string]Intervention {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	interventions := make(map[string]Intervention)

	root := doc.ElementByID("div", "main-content")
	if root == nil {
		logger.DebugContext(ctx, "transcript without main-content region")
		root = doc.Root
	}
	pruneChrome(root)

	var (
		tag    string
		label  string
		key    string
		buffer strings.Builder
	)
	flush := func() {
		if tag == "" {
			return
		}
		interventions[tag] = Intervention{
			StenoName:  label,
			Text:       strings.TrimSpace(buffer.String()),
			SpeakerKey: key,
		}
	}

	for _, p := range markup.Elements(root, "p") {
		full := markup.Text(p)
		if full == "" || full == " " {
			continue
		}

		anchor := markup.FirstElement(p, "a")
		text := full
		if anchor != nil {
			if _, labeled := markup.Attr(anchor, "id"); labeled {
				if href, ok := markup.Attr(anchor, "href"); ok && psp.IsVotingLink(href) {
					continue
				}
				anchorText := markup.Text(anchor)
				if anchorText == "" {
					continue
				}

				flush()
				buffer.Reset()

				id, _ := markup.Attr(anchor, "id")
				tag = id
				label = textutil.SpeakerLabel(anchorText)
				key = textutil.SpeakerKey(label)

				href, _ := markup.Attr(anchor, "href")
				if dir.Register(key, speaker.Speaker{StenoName: label, Link: href}) {
					logger.InfoContext(ctx, "new speaker", "speaker", label)
				}

				text = markup.TextExcluding(p, anchor)
			}
		}

		buffer.WriteString(textutil.FilterText(strings.TrimSpace(text)))
		buffer.WriteString("\n")
	}
	flush()

	return interventions
}

// pruneChrome removes the regions that never carry transcript text: nested
// containers, centered header paragraphs, and center elements.
func pruneChrome(root *html.Node) {
	markup.Remove(root, func(n *html.Node) bool {
		if markup.IsElement(n, "div") || markup.IsElement(n, "center") {
			return true
		}
		if markup.IsElement(n, "p") {
			if align, ok := markup.Attr(n, "align"); ok && align == "center" {
				return true
			}
		}
		return false
	})
}
