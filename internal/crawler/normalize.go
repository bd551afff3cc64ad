package crawler

import (
	"github.com/nao1215/replygraph/internal/model"
	"github.com/nao1215/replygraph/internal/youtube"
)

const (
	problemMissing  = "missing field"
	problemNegative = "negative value in field"
)

// recordReader pulls required fields out of a raw record and remembers the
// first one that is missing or invalid.
type recordReader struct {
	kind model.Kind
	id   string
	bad  *MalformedRecordError
}

func newRecordReader(kind model.Kind, id *string) *recordReader {
	r := &recordReader{kind: kind}
	if id != nil {
		r.id = *id
	}
	return r
}

func (r *recordReader) fail(field, problem string) {
	if r.bad == nil {
		r.bad = &MalformedRecordError{Kind: r.kind, ID: r.id, Field: field, Problem: problem}
	}
}

func (r *recordReader) str(field string, v *string) string {
	if v == nil {
		r.fail(field, problemMissing)
		return ""
	}
	return *v
}

func (r *recordReader) count(field string, v *int64) int64 {
	if v == nil {
		r.fail(field, problemMissing)
		return 0
	}
	if *v < 0 {
		r.fail(field, problemNegative)
		return 0
	}
	return *v
}

func (r *recordReader) channel(field string, v *youtube.ChannelRef) string {
	if v == nil {
		r.fail(field, problemMissing)
		return ""
	}
	return r.str(field, v.Value)
}

// err returns the first problem found, or nil.
func (r *recordReader) err() error {
	if r.bad == nil {
		return nil
	}
	return r.bad
}

// NormalizeTopLevel maps a commentThread resource onto an Edge.
// The thread ID is used as both comment ID and thread ID. Destination is
// always empty.
func NormalizeTopLevel(item youtube.CommentThread) (model.Edge, error) {
	r := newRecordReader(model.KindTopLevelComment, item.ID)
	id := r.str("id", item.ID)

	if item.Snippet == nil {
		r.fail("snippet", problemMissing)
		return model.Edge{}, r.err()
	}
	videoID := r.str("snippet.videoId", item.Snippet.VideoID)
	replyCount := r.count("snippet.totalReplyCount", item.Snippet.TotalReplyCount)

	top := item.Snippet.TopLevelComment
	if top == nil || top.Snippet == nil {
		r.fail("snippet.topLevelComment.snippet", problemMissing)
		return model.Edge{}, r.err()
	}
	s := top.Snippet
	timestamp := r.str("snippet.topLevelComment.snippet.publishedAt", s.PublishedAt)
	author := r.channel("snippet.topLevelComment.snippet.authorChannelId.value", s.AuthorChannelID)
	likes := r.count("snippet.topLevelComment.snippet.likeCount", s.LikeCount)
	text := r.str("snippet.topLevelComment.snippet.textOriginal", s.TextOriginal)

	if err := r.err(); err != nil {
		return model.Edge{}, err
	}

	return model.Edge{
		CommentID:  id,
		ThreadID:   id,
		Timestamp:  timestamp,
		Kind:       model.KindTopLevelComment,
		Author:     author,
		Likes:      likes,
		ReplyCount: model.Int64(replyCount),
		Text:       text,
		VideoID:    videoID,
	}, nil
}

// NormalizeReply maps a reply comment resource onto an Edge.
// Replies do not carry a video ID, so the caller passes the thread's.
// Destination is extracted from the reply text.
func NormalizeReply(reply youtube.Comment, videoID string) (model.Edge, error) {
	r := newRecordReader(model.KindReply, reply.ID)
	id := r.str("id", reply.ID)

	if reply.Snippet == nil {
		r.fail("snippet", problemMissing)
		return model.Edge{}, r.err()
	}
	s := reply.Snippet
	threadID := r.str("snippet.parentId", s.ParentID)
	timestamp := r.str("snippet.publishedAt", s.PublishedAt)
	author := r.channel("snippet.authorChannelId.value", s.AuthorChannelID)
	likes := r.count("snippet.likeCount", s.LikeCount)
	text := r.str("snippet.textOriginal", s.TextOriginal)

	if err := r.err(); err != nil {
		return model.Edge{}, err
	}

	return model.Edge{
		CommentID:   id,
		ThreadID:    threadID,
		Timestamp:   timestamp,
		Kind:        model.KindReply,
		Author:      author,
		Destination: ExtractDestination(text),
		Likes:       likes,
		Text:        text,
		VideoID:     videoID,
	}, nil
}
