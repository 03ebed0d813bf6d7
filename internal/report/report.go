// Package report turns segmented sessions into the output tree: one text
// file per intervention plus the tab-separated file and speaker summaries.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"stenograf/internal/session"
	"stenograf/internal/speaker"
	"stenograf/internal/textutil"
	"stenograf/internal/transcript"
)

const (
	fileSummaryName    = "file_summary.tsv"
	speakerSummaryName = "speakers_summary.tsv"

	fileSummaryHeader    = "session\tdate\ttopic_idx\ttopic_str\torder\tname\tsteno_name\tfile_name"
	speakerSummaryHeader = "name\ttitles\tfunction\tsteno_name\tsex\tparty\tbirthdate\tweb_page"
)

// Generator writes intervention files and summary tables under one output
// directory.
type Generator struct {
	outputDir string
	logger    *slog.Logger
}

// NewGenerator prepares a Generator rooted at outputDir. The directory is
// created on demand.
func NewGenerator(outputDir string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{outputDir: outputDir, logger: logger}
}

// FileName builds the canonical intervention file name. The speaker name is
// underscored the same way speaker keys are, then sanitized for the
// filesystem.
func FileName(sessionNumber int, date string, topicID, order int, stenoName string) string {
	name := textutil.SanitizeFileName(textutil.SpeakerKey(stenoName))
	return fmt.Sprintf("s_%03d_%s_t_%03d_i_%03d_%s.txt", sessionNumber, date, topicID, order, name)
}

// Entry records one intervention file emitted by WriteSession, mirroring
// its file_summary.tsv row.
type Entry struct {
	FileName   string
	Session    int
	Date       string
	TopicID    int
	TopicTitle string
	Order      int
	Name       string
	StenoName  string
	SpeakerKey string
}

// WriteSession emits one text file per intervention of the session and
// appends the matching rows to file_summary.tsv. When newReport is true (or
// the summary does not exist yet) the summary is rewritten with its header.
// Returns one Entry per file written, in emission order.
func (g *Generator) WriteSession(ctx context.Context, sess *session.Parser, stenos map[string]map[string]transcript.Intervention, dir *speaker.Directory, newReport bool) ([]Entry, error) {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("report: ensure output dir: %w", err)
	}

	summary, err := g.openSummary(fileSummaryName, fileSummaryHeader, newReport)
	if err != nil {
		return nil, err
	}
	defer summary.Close()

	var entries []Entry
	visited := make(map[string]map[string]bool)
	for _, topic := range sess.Topics() {
		for idx, ref := range topic.Refs {
			if visited[ref.PageName] == nil {
				visited[ref.PageName] = make(map[string]bool)
			}
			if visited[ref.PageName][ref.Tag] {
				g.logger.WarnContext(ctx, "skipping duplicate reference",
					"session", sess.Number(), "page", ref.PageName, "tag", ref.Tag)
				continue
			}
			visited[ref.PageName][ref.Tag] = true

			page, ok := stenos[ref.PageName]
			if !ok {
				g.logger.ErrorContext(ctx, "steno page missing",
					"session", sess.Number(), "page", ref.PageName)
				continue
			}
			iv, ok := page[ref.Tag]
			if !ok {
				g.logger.ErrorContext(ctx, "reference tag missing in steno page",
					"session", sess.Number(), "page", ref.PageName, "tag", ref.Tag)
				continue
			}

			order := idx + 1
			fileName := FileName(sess.Number(), ref.Date, topic.ID, order, iv.StenoName)
			if err := os.WriteFile(filepath.Join(g.outputDir, fileName), []byte(iv.Text), 0o644); err != nil {
				return entries, fmt.Errorf("report: write %s: %w", fileName, err)
			}

			var name string
			if sp, ok := dir.Get(iv.SpeakerKey); ok {
				name = sp.Name
			}
			row := strings.Join([]string{
				fmt.Sprint(sess.Number()),
				ref.Date,
				fmt.Sprint(topic.ID),
				topic.Title,
				fmt.Sprint(order),
				name,
				iv.StenoName,
				fileName,
			}, "\t")
			if _, err := fmt.Fprintln(summary, row); err != nil {
				return entries, fmt.Errorf("report: append summary: %w", err)
			}
			entries = append(entries, Entry{
				FileName:   fileName,
				Session:    sess.Number(),
				Date:       ref.Date,
				TopicID:    topic.ID,
				TopicTitle: topic.Title,
				Order:      order,
				Name:       name,
				StenoName:  iv.StenoName,
				SpeakerKey: iv.SpeakerKey,
			})
		}
	}

	g.logger.InfoContext(ctx, "session files generated", "session", sess.Number(), "files", len(entries))
	return entries, nil
}

// WriteSpeakers rewrites speakers_summary.tsv from the merged directory,
// ordered by Czech collation of the resolved names so the table reads
// naturally.
func (g *Generator) WriteSpeakers(ctx context.Context, dir *speaker.Directory) error {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return fmt.Errorf("report: ensure output dir: %w", err)
	}
	out, err := g.openSummary(speakerSummaryName, speakerSummaryHeader, true)
	if err != nil {
		return err
	}
	defer out.Close()

	speakers := make([]speaker.Speaker, 0, dir.Len())
	for _, key := range dir.Keys() {
		if sp, ok := dir.Get(key); ok {
			speakers = append(speakers, sp)
		}
	}
	coll := collate.New(language.Czech)
	sort.SliceStable(speakers, func(i, j int) bool {
		return coll.CompareString(sortName(speakers[i]), sortName(speakers[j])) < 0
	})

	for _, sp := range speakers {
		row := strings.Join([]string{
			sp.Name, sp.Titles, sp.Function, sp.StenoName,
			sp.Sex, sp.Party, sp.BirthDate, sp.Link,
		}, "\t")
		if _, err := fmt.Fprintln(out, row); err != nil {
			return fmt.Errorf("report: append speakers summary: %w", err)
		}
	}
	g.logger.InfoContext(ctx, "speakers summary written", "speakers", len(speakers))
	return nil
}

func sortName(sp speaker.Speaker) string {
	if sp.Name != "" {
		return sp.Name
	}
	return sp.StenoName
}

// openSummary opens a summary table for appending, writing the header first
// when starting fresh. A missing file always forces a fresh start.
func (g *Generator) openSummary(name, header string, fresh bool) (*os.File, error) {
	path := filepath.Join(g.outputDir, name)
	if _, err := os.Stat(path); err != nil {
		fresh = true
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if fresh {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	out, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("report: open %s: %w", name, err)
	}
	if fresh {
		if _, err := fmt.Fprintln(out, header); err != nil {
			out.Close()
			return nil, fmt.Errorf("report: write %s header: %w", name, err)
		}
	}
	return out, nil
}
