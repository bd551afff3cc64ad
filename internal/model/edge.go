package model

import "strconv"

// Kind discriminates the two record shapes that end up in the edge table.
type Kind string

const (
	// KindTopLevelComment is a comment posted directly under the video.
	// Its comment ID doubles as the thread ID.
	KindTopLevelComment Kind = "TopLevelComment"

	// KindReply is a reply posted inside a thread.
	KindReply Kind = "Reply"
)

// String returns the kind as written to the edge table.
func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	return k == KindTopLevelComment || k == KindReply
}

// Columns is the canonical column order of the edge table.
// Every writer and the database schema follow this order.
var Columns = []string{
	"comment_id",
	"thread_id",
	"timestamp",
	"kind",
	"author",
	"destination",
	"likes",
	"reply_count",
	"text",
	"video_id",
}

// Edge is one normalized comment or reply.
//
// The author is the source of the edge. For replies, Destination holds the
// addressee extracted from an @-mention in the text; it is always empty for
// top-level comments.
type Edge struct {
	// CommentID uniquely identifies the comment or reply.
	CommentID string `json:"comment_id"`

	// ThreadID equals CommentID for top-level comments and identifies the
	// parent thread for replies.
	ThreadID string `json:"thread_id"`

	// Timestamp is the ISO-8601 publish time exactly as the API returned it.
	Timestamp string `json:"timestamp"`

	// Kind is either KindTopLevelComment or KindReply.
	Kind Kind `json:"kind"`

	// Author is the author's channel ID.
	Author string `json:"author"`

	// Destination is the mentioned addressee of a reply, or empty.
	Destination string `json:"destination"`

	// Likes is the like count at crawl time.
	Likes int64 `json:"likes"`

	// ReplyCount is the thread's total reply count. It is nil for replies.
	ReplyCount *int64 `json:"reply_count"`

	// Text is the original comment body.
	Text string `json:"text"`

	// VideoID is the video the comment belongs to. Replies inherit it from
	// their thread.
	VideoID string `json:"video_id"`
}

// IsTopLevel reports whether e is a top-level comment.
func (e Edge) IsTopLevel() bool {
	return e.Kind == KindTopLevelComment
}

// HasDestination reports whether a mention addressee was found.
func (e Edge) HasDestination() bool {
	return e.Destination != ""
}

// Record renders e as strings in Columns order.
// An absent reply count renders as an empty cell.
func (e Edge) Record() []string {
	replyCount := ""
	if e.ReplyCount != nil {
		replyCount = strconv.FormatInt(*e.ReplyCount, 10)
	}
	return []string{
		e.CommentID,
		e.ThreadID,
		e.Timestamp,
		e.Kind.String(),
		e.Author,
		e.Destination,
		strconv.FormatInt(e.Likes, 10),
		replyCount,
		e.Text,
		e.VideoID,
	}
}

// Int64 returns a pointer to v. It is a convenience for ReplyCount.
func Int64(v int64) *int64 {
	return &v
}
