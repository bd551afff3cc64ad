package crawler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/replygraph/internal/youtube"
)

const (
	// DefaultMaxEdges is the soft cap on the table length. The cap is checked
	// after each thread page, so a crawl may end somewhat above it.
	DefaultMaxEdges = 300000

	// DefaultReplyPageSize is the page size requested for replies.
	DefaultReplyPageSize = 100
)

// Lister is the paged listing capability the crawler consumes.
// *youtube.Client implements it.
type Lister interface {
	// ListThreads returns one page of top-level threads for videoID.
	// An empty pageToken requests the first page.
	ListThreads(ctx context.Context, videoID, pageToken string) (*youtube.ThreadPage, error)

	// ListReplies returns one page of replies under threadID.
	// An empty pageToken requests the first page.
	ListReplies(ctx context.Context, threadID, pageToken string, pageSize int) (*youtube.ReplyPage, error)
}

// Crawler collects the comment threads and replies of a video.
// A Crawler holds no per-crawl state and can run several crawls in sequence.
type Crawler struct {
	lister        Lister
	maxEdges      int
	replyPageSize int
	logger        *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithMaxEdges sets the soft cap on the table length.
// Values below one are ignored.
func WithMaxEdges(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.maxEdges = n
		}
	}
}

// WithReplyPageSize sets the page size for reply requests.
// Values outside 1..100 are ignored.
func WithReplyPageSize(n int) Option {
	return func(c *Crawler) {
		if n > 0 && n <= youtube.MaxPageSize {
			c.replyPageSize = n
		}
	}
}

// WithLogger sets the logger for crawl progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler reading from lister.
func New(lister Lister, opts ...Option) *Crawler {
	c := &Crawler{
		lister:        lister,
		maxEdges:      DefaultMaxEdges,
		replyPageSize: DefaultReplyPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// MaxEdges returns the configured soft cap.
func (c *Crawler) MaxEdges() int {
	return c.maxEdges
}

// ReplyPageSize returns the configured reply page size.
func (c *Crawler) ReplyPageSize() int {
	return c.replyPageSize
}

// asFetchError makes sure err is classifiable as a transient fetch failure.
func asFetchError(op string, err error) error {
	if errors.Is(err, youtube.ErrTransientFetch) {
		return err
	}
	return youtube.NewFetchError(op, err)
}
