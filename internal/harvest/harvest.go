// Package harvest drives a full term reconstruction: it walks the steno
// index, parses every session, segments the transcript pages, enriches the
// speaker directory, and hands the results to the report generator and the
// run store.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"stenograf/internal/config"
	"stenograf/internal/fetch"
	"stenograf/internal/logging"
	"stenograf/internal/markup"
	"stenograf/internal/psp"
	"stenograf/internal/report"
	"stenograf/internal/session"
	"stenograf/internal/speaker"
	"stenograf/internal/store"
	"stenograf/internal/transcript"
)

// Options tunes a single run.
type Options struct {
	// NewReport truncates file_summary.tsv before the first session instead
	// of appending to summaries left by a previous run.
	NewReport bool

	// Session limits the run to a single session number. Zero harvests the
	// whole term.
	Session int
}

// Result summarizes a completed run.
type Result struct {
	RunID    string
	Year     int
	Sessions int
	Files    int
	Requests int
	Speakers int
}

// Harvester coordinates one term harvest end to end.
type Harvester struct {
	cfg      *config.Config
	store    *store.Store
	fetcher  *fetch.Client
	reports  *report.Generator
	resolver *speaker.Resolver
	lock     *flock.Flock
	logger   *slog.Logger
}

// New wires a Harvester from its collaborators. The lock file lives next to
// the run store so concurrent invocations against the same store exclude
// each other.
func New(cfg *config.Config, st *store.Store, fetcher *fetch.Client, logger *slog.Logger) *Harvester {
	logger = logging.NewComponentLogger(logger, "harvest")
	lockPath := cfg.Paths.StorePath + ".lock"
	return &Harvester{
		cfg:      cfg,
		store:    st,
		fetcher:  fetcher,
		reports:  report.NewGenerator(cfg.Paths.OutputDir, logger),
		resolver: speaker.NewResolver(fetcher, logger),
		lock:     flock.New(lockPath),
		logger:   logger,
	}
}

// Run harvests the configured term. Sessions that cannot be parsed are
// skipped; a biography fetch failure aborts the run.
func (h *Harvester) Run(ctx context.Context, opts Options) (Result, error) {
	ok, err := h.lock.TryLock()
	if err != nil {
		return Result{}, fmt.Errorf("harvest: acquire lock: %w", err)
	}
	if !ok {
		return Result{}, errors.New("harvest: another harvest is already running")
	}
	defer h.lock.Unlock() //nolint:errcheck

	year := h.cfg.Source.Year
	era := psp.ForYear(year)
	runID := uuid.NewString()
	result := Result{RunID: runID, Year: year}

	if err := h.store.StartRun(ctx, runID, year); err != nil {
		return result, err
	}

	dir, err := h.store.LoadDirectory(ctx)
	if err != nil {
		return result, err
	}

	indexURL := psp.BaseURL(year) + "index.htm"
	h.logger.InfoContext(ctx, "harvest started",
		logging.String(logging.FieldRunID, runID),
		logging.Int(logging.FieldYear, year),
		slog.String("index", indexURL))

	body, err := h.fetcher.Get(ctx, indexURL)
	if err != nil {
		return result, fmt.Errorf("harvest: term index: %w", err)
	}
	doc, err := markup.Parse(body)
	if err != nil {
		return result, fmt.Errorf("harvest: term index: %w", err)
	}
	links := session.IndexLinks(doc, era)
	h.logger.InfoContext(ctx, "session links found", slog.Int("links", len(links)))

	newReport := opts.NewReport
	previousRequests := h.fetcher.Requests()

	for _, link := range links {
		if era == psp.EraPre2010 {
			link += "index.htm"
		}
		number, ok := psp.SessionNumber(link)
		if !ok {
			h.logger.DebugContext(ctx, "skipping non-session link", slog.String("link", link))
			continue
		}
		if opts.Session != 0 {
			n, err := strconv.Atoi(number)
			if err != nil || n != opts.Session {
				h.logger.DebugContext(ctx, "skipping session outside requested range",
					logging.String(logging.FieldSession, number))
				continue
			}
		}

		entries, err := h.runSession(ctx, year, number, link, dir, newReport)
		if err != nil {
			if errors.Is(err, speaker.ErrEnrichment) {
				return result, err
			}
			h.logger.ErrorContext(ctx, "session abandoned",
				logging.String(logging.FieldSession, number), logging.Error(err))
			continue
		}

		for _, entry := range entries {
			rec := store.FileRecord{
				FileName:   entry.FileName,
				RunID:      runID,
				Session:    entry.Session,
				Date:       entry.Date,
				TopicID:    entry.TopicID,
				TopicTitle: entry.TopicTitle,
				Order:      entry.Order,
				SpeakerKey: entry.SpeakerKey,
				StenoName:  entry.StenoName,
			}
			if err := h.store.SaveFile(ctx, rec); err != nil {
				return result, err
			}
		}
		if err := h.store.SaveDirectory(ctx, dir); err != nil {
			return result, err
		}

		result.Sessions++
		result.Files += len(entries)
		newReport = false

		total := h.fetcher.Requests()
		h.logger.InfoContext(ctx, "session completed",
			logging.String(logging.FieldSession, number),
			slog.Int("accesses", total-previousRequests),
			slog.Int("cumulative", total))
		previousRequests = total
	}

	if err := h.reports.WriteSpeakers(ctx, dir); err != nil {
		return result, err
	}

	result.Requests = h.fetcher.Requests()
	result.Speakers = dir.Len()
	if err := h.store.CompleteRun(ctx, runID, result.Sessions, result.Files, result.Requests); err != nil {
		return result, err
	}
	h.logger.InfoContext(ctx, "harvest completed",
		logging.String(logging.FieldRunID, runID),
		slog.Int("sessions", result.Sessions),
		slog.Int("files", result.Files),
		slog.Int("requests", result.Requests),
		slog.Int("speakers", result.Speakers))
	return result, nil
}

// runSession parses one session, segments its transcript pages, enriches
// the directory, and writes the session's files and summary rows.
func (h *Harvester) runSession(ctx context.Context, year int, number, link string, dir *speaker.Directory, newReport bool) ([]report.Entry, error) {
	parser, err := session.NewParser(year, number, link, h.fetcher, h.logger)
	if err != nil {
		return nil, err
	}
	if err := parser.Parse(ctx); err != nil {
		return nil, err
	}

	stenos := h.segmentTranscripts(ctx, parser, dir)

	if err := h.resolver.EnrichAll(ctx, dir); err != nil {
		return nil, err
	}

	return h.reports.WriteSession(ctx, parser, stenos, dir, newReport)
}

// segmentTranscripts fetches every transcript page the session references
// and splits it into interventions. An unfetchable page is logged and left
// out; the report pass marks its references as missing.
func (h *Harvester) segmentTranscripts(ctx context.Context, parser *session.Parser, dir *speaker.Directory) map[string]map[string]transcript.Intervention {
	stenos := make(map[string]map[string]transcript.Intervention)
	visited := make(map[string]bool)
	for _, topic := range parser.Topics() {
		for _, ref := range topic.Refs {
			if visited[ref.PageName] {
				continue
			}
			visited[ref.PageName] = true
			body, err := h.fetcher.Get(ctx, parser.SubpageURL(ref.PageName))
			if err != nil {
				h.logger.WarnContext(ctx, "transcript page unavailable",
					logging.String(logging.FieldPage, ref.PageName), logging.Error(err))
				continue
			}
			doc, err := markup.Parse(body)
			if err != nil {
				h.logger.WarnContext(ctx, "transcript page unparsable",
					logging.String(logging.FieldPage, ref.PageName), logging.Error(err))
				continue
			}
			stenos[ref.PageName] = transcript.Segment(ctx, doc, dir, h.logger)
		}
	}
	return stenos
}
