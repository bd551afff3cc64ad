package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/replygraph/internal/config"
	"github.com/nao1215/replygraph/internal/crawler"
	"github.com/nao1215/replygraph/internal/database"
	"github.com/nao1215/replygraph/internal/model"
	"github.com/nao1215/replygraph/internal/pipeline"
	"github.com/nao1215/replygraph/internal/report"
	"github.com/nao1215/replygraph/internal/transport"
	"github.com/nao1215/replygraph/internal/youtube"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <video-id-or-url>",
		Short: "Collect the comments of a video into an edge table",
		Long: `Crawl pages through every comment thread of a YouTube video, fetches all
replies of each thread, and writes one edge per comment and reply.

The crawl stops when the API has no more pages or once the table holds at
least --max-edges edges. The cap is checked after each page, so the table
can end up slightly larger than the cap.

If a request fails, the edges collected so far are still written and
stored, and the command exits with an error.

The API key is taken from --api-key, the YOUTUBE_API_KEY environment
variable (a .env file in the current directory is loaded), or the
configuration file, in that order.

Examples:
  # Crawl a video by ID
  replygraph crawl dQw4w9WgXcQ

  # Crawl by URL and write JSON
  replygraph crawl "https://www.youtube.com/watch?v=dQw4w9WgXcQ" -f json

  # Write the table to stdout and stop after 10,000 edges
  replygraph crawl dQw4w9WgXcQ -o - --max-edges 10000

  # Route API traffic through Tor
  replygraph crawl --tor dQw4w9WgXcQ

Configuration file (.replygraph) example:
  apiKey: "AIza..."
  maxEdges: 300000
  videos:
    dQw4w9WgXcQ:
      maxEdges: 5000
      output: rickroll.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	// Credentials and configuration
	cmd.Flags().String("api-key", "",
		"YouTube Data API key (default: $YOUTUBE_API_KEY or the configuration file)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .replygraph in current or home directory)")

	// Crawl behavior
	cmd.Flags().Int("max-edges", config.DefaultMaxEdges,
		"Stop once the table holds at least this many edges")
	cmd.Flags().Int("reply-page-size", config.DefaultReplyPageSize,
		"Replies requested per page (1-100)")
	cmd.Flags().Int("thread-page-size", config.DefaultThreadPageSize,
		"Threads requested per page (1-100, 0 uses the API default)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each API request")

	// Transport
	cmd.Flags().String("proxy", "",
		"Route API requests through a SOCKS5 proxy (e.g., 127.0.0.1:9050)")
	cmd.Flags().Bool("tor", false,
		"Route API requests through an embedded Tor daemon")
	cmd.Flags().DurationP("tor-timeout", "T", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")

	// Output
	cmd.Flags().StringP("output", "o", "",
		"Edge file path, or - for stdout (default: <video-id>_edges.<format>)")
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Edge file format (csv or json)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print the run summary as Markdown")
	cmd.Flags().Bool("no-db", false,
		"Do not store the run in the database")

	cmd.Flags().String("api-base-url", config.DefaultAPIBaseURL, "YouTube Data API root")
	_ = cmd.Flags().MarkHidden("api-base-url") //nolint:errcheck // Flag is defined above

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := loggerFor(cmd)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, saving collected edges...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCrawl(ctx, cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// buildConfig creates a Config from defaults, the configuration file and
// the command flags, in increasing order of precedence.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	if len(args) == 0 {
		return nil, errors.New("a video ID or URL is required")
	}
	videoID, err := model.ParseVideoID(args[0])
	if err != nil {
		return nil, err
	}
	cfg.VideoID = videoID

	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly named file must exist; otherwise a missing file just
	// means defaults.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		f, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(f)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	flags := cmd.Flags()

	apiKey, err := flags.GetString("api-key")
	if err != nil {
		return nil, err
	}
	cfg.APIKey = config.ResolveAPIKey(apiKey, cfg.File)

	if flags.Changed("max-edges") {
		if cfg.MaxEdges, err = flags.GetInt("max-edges"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("reply-page-size") {
		if cfg.ReplyPageSize, err = flags.GetInt("reply-page-size"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("thread-page-size") {
		if cfg.ThreadPageSize, err = flags.GetInt("thread-page-size"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if cfg.UseTor, err = flags.GetBool("tor"); err != nil {
		return nil, err
	}
	if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
		return nil, err
	}
	if flags.Changed("output") {
		if cfg.OutputPath, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return nil, err
		}
	}
	if cfg.MarkdownSummary, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	noDB, err := flags.GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB
	if cfg.APIBaseURL, err = flags.GetString("api-base-url"); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.DBDir = getDBDir(cmd)

	return cfg, nil
}

// runCrawl collects cfg.VideoID, writes the edge file, stores the run and
// prints its summary. The summary goes to stderr when the edge table is
// written to stdout.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) error {
	logger.Info("starting crawl",
		"videoID", cfg.VideoID,
		"maxEdges", cfg.MaxEdges,
		"format", cfg.Format,
		"saveToDB", cfg.SaveToDB,
	)

	if cfg.UseTor {
		fmt.Fprintln(stderr, "Starting embedded Tor daemon...")
		fmt.Fprintf(stderr, "This may take 1-3 minutes while Tor bootstraps and connects to the network.\n\n")
	}

	session, err := transport.Open(ctx, transport.Options{
		ProxyAddress:      cfg.ProxyAddress,
		UseTor:            cfg.UseTor,
		Timeout:           cfg.Timeout,
		TorStartupTimeout: cfg.TorStartupTimeout,
		Logger:            logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Error("failed to stop embedded Tor", "error", err)
		}
	}()

	client, err := youtube.NewClient(cfg.APIKey,
		youtube.WithHTTPClient(session.HTTPClient()),
		youtube.WithBaseURL(cfg.APIBaseURL),
		youtube.WithThreadPageSize(cfg.ThreadPageSize),
		youtube.WithUserAgent(cfg.UserAgent),
		youtube.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	c := crawler.New(client,
		crawler.WithMaxEdges(cfg.MaxEdges),
		crawler.WithReplyPageSize(cfg.ReplyPageSize),
		crawler.WithLogger(logger),
	)

	outputPath := cfg.EdgeOutputPath()
	p := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)
	p.AddSteps(
		pipeline.NewCrawlStep(c, pipeline.WithCrawlLogger(logger)),
		pipeline.NewExportStep(cfg.Format, outputPath,
			pipeline.WithExportStdout(stdout),
			pipeline.WithExportLogger(logger),
		),
	)

	var previous *database.RunRecord
	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		previous, err = db.LatestRun(ctx, cfg.VideoID)
		if err != nil && !errors.Is(err, database.ErrRunNotFound) {
			logger.Warn("failed to look up previous run", "error", err)
		}
		p.AddStep(pipeline.NewSaveStep(db, pipeline.WithSaveLogger(logger)))
	}

	crawlReport := model.NewCrawlReport(cfg.VideoID)
	execErr := p.Execute(ctx, crawlReport)

	summaryOut := stdout
	if outputPath == config.StdoutPath {
		summaryOut = stderr
	}
	if err := writeSummary(summaryOut, cfg, crawlReport); err != nil {
		logger.Error("failed to write summary", "error", err)
	}
	if previous != nil && crawlReport.StopReason.Succeeded() {
		fmt.Fprintln(summaryOut, compareWithPrevious(previous, crawlReport))
	}

	return execErr
}

// writeSummary prints the run summary in the configured format.
func writeSummary(w io.Writer, cfg *config.Config, crawlReport *model.CrawlReport) error {
	var sw report.SummaryWriter
	if cfg.MarkdownSummary {
		sw = report.NewMarkdownWriter(w)
	} else {
		sw = report.NewSimpleWriter(w, report.WithVerbose(cfg.Verbose))
	}
	_, err := sw.WriteSummary(model.NewSummary(crawlReport))
	return err
}

// compareWithPrevious describes how the table differs from the previous
// stored run of the same video.
func compareWithPrevious(previous *database.RunRecord, current *model.CrawlReport) string {
	if previous.Digest == current.Digest {
		return fmt.Sprintf("Edge table unchanged since run #%d (%s).",
			previous.ID, previous.StartedAt.Format("2006-01-02 15:04"))
	}
	return fmt.Sprintf("Edge table changed since run #%d (%s): %d -> %d edges.",
		previous.ID, previous.StartedAt.Format("2006-01-02 15:04"),
		previous.EdgeCount, current.EdgeCount())
}
