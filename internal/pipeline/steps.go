package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/replygraph/internal/config"
	"github.com/nao1215/replygraph/internal/crawler"
	"github.com/nao1215/replygraph/internal/model"
	"github.com/nao1215/replygraph/internal/report"
)

// CrawlStep collects the comment threads of the report's video into the
// report's edge table.
type CrawlStep struct {
	// crawler runs the thread crawl loop.
	crawler *crawler.Crawler

	// now returns the current time. It is replaced in tests.
	now func() time.Time

	// logger for structured logging.
	logger *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// WithCrawlClock sets the clock used for the start and finish times.
func WithCrawlClock(now func() time.Time) CrawlStepOption {
	return func(s *CrawlStep) {
		s.now = now
	}
}

// NewCrawlStep creates a crawl step backed by c.
func NewCrawlStep(c *crawler.Crawler, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		crawler: c,
		now:     time.Now,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do crawls report.VideoID. On failure the edges collected so far stay in
// report.Table and the error is recorded in the report.
func (s *CrawlStep) Do(ctx context.Context, r *model.CrawlReport) error {
	if r.Table == nil {
		r.Table = model.NewEdgeTable(0)
	}
	r.MaxEdges = s.crawler.MaxEdges()
	r.StartedAt = s.now()

	s.logger.Debug("starting crawl",
		"videoID", r.VideoID,
		"maxEdges", r.MaxEdges,
		"replyPageSize", s.crawler.ReplyPageSize(),
	)

	res, err := s.crawler.Crawl(ctx, r.VideoID, r.Table)

	r.FinishedAt = s.now()
	r.StopReason = res.StopReason
	r.ThreadPages = res.ThreadPages
	r.ReplyPages = res.ReplyPages
	r.Threads = res.Threads
	r.Replies = res.Replies
	r.Digest = r.Table.Digest()

	if err != nil {
		r.SetError(err)
		return fmt.Errorf("crawl %s: %w", r.VideoID, err)
	}

	s.logger.Info("crawl completed",
		"videoID", r.VideoID,
		"edges", r.EdgeCount(),
		"stopReason", r.StopReason,
		"duration", r.Duration(),
	)
	return nil
}

// ExportStep writes the edge table to a file or to standard output.
type ExportStep struct {
	// format is config.FormatCSV or config.FormatJSON.
	format string

	// path is the destination file. config.StdoutPath writes to stdout.
	path string

	// stdout receives the table when path is config.StdoutPath.
	stdout io.Writer

	// logger for structured logging.
	logger *slog.Logger
}

// ExportStepOption configures an ExportStep.
type ExportStepOption func(*ExportStep)

// WithExportStdout sets the writer used for config.StdoutPath.
func WithExportStdout(w io.Writer) ExportStepOption {
	return func(s *ExportStep) {
		s.stdout = w
	}
}

// WithExportLogger sets a custom logger for the export step.
func WithExportLogger(logger *slog.Logger) ExportStepOption {
	return func(s *ExportStep) {
		s.logger = logger
	}
}

// NewExportStep creates an export step writing format to path.
func NewExportStep(format, path string, opts ...ExportStepOption) *ExportStep {
	s := &ExportStep{
		format: format,
		path:   path,
		stdout: os.Stdout,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ExportStep) Name() string {
	return "export"
}

// Do writes report.Table and records the file in report.OutputPath.
func (s *ExportStep) Do(_ context.Context, r *model.CrawlReport) error {
	if s.path == config.StdoutPath {
		w, err := report.NewEdgeWriter(s.format, s.stdout)
		if err != nil {
			return err
		}
		if _, err := w.WriteEdges(r.Table); err != nil {
			return fmt.Errorf("failed to write edges to stdout: %w", err)
		}
		return nil
	}

	n, err := WriteEdgeFile(s.path, s.format, r.Table)
	if err != nil {
		return err
	}
	r.OutputPath = s.path

	s.logger.Info("edge table exported",
		"path", s.path,
		"format", s.format,
		"edges", r.EdgeCount(),
		"bytes", n,
	)
	return nil
}

// WriteEdgeFile writes table to path in format, creating parent
// directories as needed. It returns the number of bytes written.
func WriteEdgeFile(path, format string, table *model.EdgeTable) (n int, err error) {
	if !config.IsValidFormat(format) {
		return 0, fmt.Errorf("%w: %q", report.ErrUnknownFormat, format)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return 0, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, fmt.Errorf("failed to create edge file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close edge file: %w", cerr)
		}
	}()

	w, err := report.NewEdgeWriter(format, f)
	if err != nil {
		return 0, err
	}
	n, err = w.WriteEdges(table)
	if err != nil {
		return n, fmt.Errorf("failed to write edge file: %w", err)
	}
	return n, nil
}

// RunSaver stores a finished run.
type RunSaver interface {
	SaveRun(ctx context.Context, report *model.CrawlReport) (int64, error)
}

// SaveStep stores the report and its edge table.
type SaveStep struct {
	saver  RunSaver
	logger *slog.Logger
}

// SaveStepOption configures a SaveStep.
type SaveStepOption func(*SaveStep)

// WithSaveLogger sets a custom logger for the save step.
func WithSaveLogger(logger *slog.Logger) SaveStepOption {
	return func(s *SaveStep) {
		s.logger = logger
	}
}

// NewSaveStep creates a save step backed by saver.
func NewSaveStep(saver RunSaver, opts ...SaveStepOption) *SaveStep {
	s := &SaveStep{
		saver:  saver,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return "save"
}

// Do saves the report and records the new run ID in report.RunID.
// Saving is independent of cancellation so that an interrupted crawl is
// still stored.
func (s *SaveStep) Do(ctx context.Context, r *model.CrawlReport) error {
	if s.saver == nil {
		return errors.New("no run store configured")
	}

	id, err := s.saver.SaveRun(context.WithoutCancel(ctx), r)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	r.RunID = id

	s.logger.Info("run saved",
		"runID", id,
		"videoID", r.VideoID,
		"edges", r.EdgeCount(),
	)
	return nil
}
