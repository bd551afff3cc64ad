package model

import "time"

// StopReason records why a crawl ended.
type StopReason string

const (
	// StopExhausted means the last thread page carried no continuation token.
	StopExhausted StopReason = "exhausted"

	// StopCapReached means the table reached the edge cap after a page.
	StopCapReached StopReason = "cap_reached"

	// StopFailed means a fetch or normalization error aborted the crawl.
	// Edges appended before the failure are kept.
	StopFailed StopReason = "failed"
)

// String returns the stop reason as stored in the database.
func (r StopReason) String() string {
	return string(r)
}

// Succeeded reports whether the crawl completed without error.
// Reaching the cap and exhausting the pages are both successful.
func (r StopReason) Succeeded() bool {
	return r == StopExhausted || r == StopCapReached
}

// CrawlReport is the result of collecting one video.
// It is filled by the collection pipeline and consumed by storage and
// report writers.
type CrawlReport struct {
	// RunID is the database ID once the report has been saved.
	RunID int64 `json:"run_id,omitempty"`

	// VideoID is the crawled video.
	VideoID string `json:"video_id"`

	// StartedAt is when the first page was requested.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the crawl loop returned.
	FinishedAt time.Time `json:"finished_at"`

	// StopReason tells how the crawl loop terminated.
	StopReason StopReason `json:"stop_reason"`

	// MaxEdges is the soft cap the crawl ran with.
	MaxEdges int `json:"max_edges"`

	// ThreadPages is the number of thread pages fetched.
	ThreadPages int `json:"thread_pages"`

	// ReplyPages is the number of reply pages fetched.
	ReplyPages int `json:"reply_pages"`

	// Threads is the number of top-level comments appended.
	Threads int `json:"threads"`

	// Replies is the number of replies appended.
	Replies int `json:"replies"`

	// Digest is the SHA3-256 digest of the edge table.
	Digest string `json:"digest,omitempty"`

	// OutputPath is where the edge table was exported, if anywhere.
	OutputPath string `json:"output_path,omitempty"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error is the error that aborted the crawl, if any.
	Error error `json:"-"`

	// ErrorMessage is Error rendered as text for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// Table is the accumulating edge table.
	Table *EdgeTable `json:"-"`
}

// NewCrawlReport returns a report for videoID with an empty table.
func NewCrawlReport(videoID string) *CrawlReport {
	return &CrawlReport{
		VideoID: videoID,
		Table:   NewEdgeTable(0),
	}
}

// Duration returns how long the crawl took.
func (r *CrawlReport) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// EdgeCount returns the number of edges collected.
func (r *CrawlReport) EdgeCount() int {
	return r.Table.Len()
}

// SetError records err as the reason the crawl aborted.
func (r *CrawlReport) SetError(err error) {
	r.Error = err
	if err != nil {
		r.ErrorMessage = err.Error()
		r.StopReason = StopFailed
	}
}
