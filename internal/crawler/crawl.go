package crawler

import (
	"context"
	"fmt"

	"github.com/nao1215/replygraph/internal/model"
	"github.com/nao1215/replygraph/internal/youtube"
)

// Result describes a finished crawl. Stop reasons other than a failure are
// informational; both mean the crawl succeeded.
type Result struct {
	// StopReason is StopExhausted, StopCapReached, or StopFailed.
	StopReason model.StopReason

	// ThreadPages is the number of thread pages fetched.
	ThreadPages int

	// ReplyPages is the number of reply pages fetched.
	ReplyPages int

	// Threads is the number of top-level edges appended.
	Threads int

	// Replies is the number of reply edges appended.
	Replies int
}

// Crawl pages through the comment threads of videoID and appends one edge
// per top-level comment and per reply to table, in API order.
//
// After each thread page the table length is compared to the edge cap; once
// it is reached the crawl stops even if more pages exist. The check runs per
// page, never per record, so the table may end up past the cap and is not
// truncated. Without a continuation token the crawl stops as exhausted.
//
// The first error aborts the crawl. Edges appended before it stay in table,
// and the returned Result has StopReason StopFailed.
func (c *Crawler) Crawl(ctx context.Context, videoID string, table *model.EdgeTable) (Result, error) {
	var res Result
	if table == nil {
		res.StopReason = model.StopFailed
		return res, ErrNilTable
	}

	fail := func(err error) (Result, error) {
		res.StopReason = model.StopFailed
		c.logger.Error("crawl aborted",
			"videoID", videoID,
			"edges", table.Len(),
			"error", err,
		)
		return res, err
	}

	page, err := c.fetchThreads(ctx, videoID, "")
	if err != nil {
		return fail(err)
	}
	res.ThreadPages++

	for {
		if err := c.processPage(ctx, page, table, &res); err != nil {
			return fail(err)
		}

		if table.Len() >= c.maxEdges {
			res.StopReason = model.StopCapReached
			c.logger.Info("crawl finished",
				"videoID", videoID,
				"reason", "edge cap reached",
				"edges", table.Len(),
				"maxEdges", c.maxEdges,
			)
			return res, nil
		}

		if page.NextPageToken == "" {
			res.StopReason = model.StopExhausted
			c.logger.Info("crawl finished",
				"videoID", videoID,
				"reason", "no more pages",
				"edges", table.Len(),
			)
			return res, nil
		}

		c.logger.Info("requesting next page",
			"videoID", videoID,
			"page", res.ThreadPages+1,
			"edges", table.Len(),
		)
		page, err = c.fetchThreads(ctx, videoID, page.NextPageToken)
		if err != nil {
			return fail(err)
		}
		res.ThreadPages++
	}
}

// processPage normalizes every thread of page, and the replies of threads
// that have any, into table.
func (c *Crawler) processPage(ctx context.Context, page *youtube.ThreadPage, table *model.EdgeTable, res *Result) error {
	for i, item := range page.Items {
		edge, err := NormalizeTopLevel(item)
		if err != nil {
			return fmt.Errorf("failed to normalize thread %d of page %d: %w", i, res.ThreadPages, err)
		}
		table.Append(edge)
		res.Threads++

		if edge.ReplyCount == nil || *edge.ReplyCount == 0 {
			continue
		}

		replies, pages, err := c.collectReplies(ctx, edge.ThreadID)
		res.ReplyPages += pages
		if err != nil {
			return err
		}
		c.logger.Debug("replies collected",
			"threadID", edge.ThreadID,
			"replies", len(replies),
			"pages", pages,
		)

		for _, raw := range replies {
			reply, err := NormalizeReply(raw, edge.VideoID)
			if err != nil {
				return fmt.Errorf("failed to normalize reply in thread %s: %w", edge.ThreadID, err)
			}
			table.Append(reply)
			res.Replies++
		}
	}
	return nil
}

// fetchThreads requests one thread page and classifies any failure.
func (c *Crawler) fetchThreads(ctx context.Context, videoID, pageToken string) (*youtube.ThreadPage, error) {
	page, err := c.lister.ListThreads(ctx, videoID, pageToken)
	if err == nil && page == nil {
		err = ErrEmptyPage
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list threads of video %s: %w",
			videoID, asFetchError("commentThreads.list", err))
	}
	return page, nil
}
