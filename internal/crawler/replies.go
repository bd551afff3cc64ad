package crawler

import (
	"context"
	"fmt"

	"github.com/nao1215/replygraph/internal/youtube"
)

// CollectReplies returns every reply under threadID in API order.
//
// Pages are requested until one comes back without a continuation token;
// there is no upper bound on the number of pages. If any page request fails
// the replies gathered so far are discarded and the error is returned.
func (c *Crawler) CollectReplies(ctx context.Context, threadID string) ([]youtube.Comment, error) {
	replies, _, err := c.collectReplies(ctx, threadID)
	return replies, err
}

// collectReplies is CollectReplies that also reports how many pages it fetched.
func (c *Crawler) collectReplies(ctx context.Context, threadID string) ([]youtube.Comment, int, error) {
	var (
		replies   []youtube.Comment
		pageToken string
		pages     int
	)

	for {
		page, err := c.lister.ListReplies(ctx, threadID, pageToken, c.replyPageSize)
		if err == nil && page == nil {
			err = ErrEmptyPage
		}
		if err != nil {
			return nil, pages, fmt.Errorf("failed to list replies of thread %s: %w",
				threadID, asFetchError("comments.list", err))
		}
		pages++

		replies = append(replies, page.Items...)

		if page.NextPageToken == "" {
			return replies, pages, nil
		}
		pageToken = page.NextPageToken
	}
}
