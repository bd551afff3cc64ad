// Package crawler walks the comment threads of one video and flattens them
// into an edge table.
//
// # Architecture
//
// The package is built around the Crawler type, which owns the accumulating
// table for the length of one crawl. It talks to the API only through the
// Lister interface, so the crawl loop never sees HTTP, JSON or transports.
//
// Design decision: We keep the two raw record shapes (a thread's top-level
// comment and a reply) inside this package because:
//  1. Downstream code (pipeline, storage, writers) should only ever see model.Edge
//  2. Replies do not carry the video ID and must inherit it from their thread
//  3. A missing raw field must fail loudly as MalformedRecordError rather than
//     become a zero value in the table
//
// # Components
//
//   - ExtractDestination: derives a reply's addressee from @-mention syntax
//   - NormalizeTopLevel / NormalizeReply: map the two raw record shapes onto
//     model.Edge
//   - Crawler.CollectReplies: drains every reply page of one thread
//   - Crawler.Crawl: pages through the threads of a video, normalizing each
//     thread and its replies into the table until the pages run out or the
//     table reaches the edge cap
//
// # Stopping
//
// The edge cap is checked once per thread page, after the whole page and
// every reply of its threads have been appended. It is a soft cap: one page
// can push the table past it, and the table is never truncated back down.
// When the cap and the last page coincide, the crawl reports cap_reached.
//
// # Usage
//
//	c := crawler.New(client, crawler.WithMaxEdges(300000))
//	table := model.NewEdgeTable(0)
//	res, err := c.Crawl(ctx, "dQw4w9WgXcQ", table)
//
// # Error Handling
//
// The crawl is synchronous. Each page fetch blocks until it returns, and the
// table is filled in API order, so identical API responses always produce an
// identical table. Errors are never retried or skipped: the first fetch or
// normalization failure aborts the crawl and edges already appended stay in
// the table. Every fetch failure is returned as a *youtube.FetchError, so
// callers can classify it with errors.Is.
package crawler
