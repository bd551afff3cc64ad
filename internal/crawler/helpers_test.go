package crawler

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/nao1215/replygraph/internal/youtube"
)

func strPtr(s string) *string { return &s }

func intPtr(n int64) *int64 { return &n }

// discardLogger keeps test output quiet.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testThread builds a complete commentThread resource.
func testThread(id, videoID string, replyCount int64, text string) youtube.CommentThread {
	return youtube.CommentThread{
		Kind: "youtube#commentThread",
		ID:   strPtr(id),
		Snippet: &youtube.ThreadSnippet{
			VideoID:         strPtr(videoID),
			TotalReplyCount: intPtr(replyCount),
			TopLevelComment: &youtube.Comment{
				Kind: "youtube#comment",
				ID:   strPtr(id),
				Snippet: &youtube.CommentSnippet{
					VideoID:         strPtr(videoID),
					PublishedAt:     strPtr("2021-06-01T12:00:00Z"),
					AuthorChannelID: &youtube.ChannelRef{Value: strPtr("UC-" + id)},
					LikeCount:       intPtr(3),
					TextOriginal:    strPtr(text),
				},
			},
		},
	}
}

// testReply builds a complete reply comment resource.
func testReply(id, parentID, text string) youtube.Comment {
	return youtube.Comment{
		Kind: "youtube#comment",
		ID:   strPtr(id),
		Snippet: &youtube.CommentSnippet{
			ParentID:        strPtr(parentID),
			PublishedAt:     strPtr("2021-06-02T08:30:00Z"),
			AuthorChannelID: &youtube.ChannelRef{Value: strPtr("UC-" + id)},
			LikeCount:       intPtr(1),
			TextOriginal:    strPtr(text),
		},
	}
}

// replyCall records one ListReplies invocation.
type replyCall struct {
	threadID  string
	pageToken string
	pageSize  int
}

// fakeLister serves canned pages keyed by page token.
// The first page of any listing is keyed by the empty token.
type fakeLister struct {
	mu sync.Mutex

	threads    map[string]*youtube.ThreadPage
	threadErrs map[string]error
	replies    map[string]map[string]*youtube.ReplyPage
	replyErrs  map[string]error

	threadCalls []string
	replyCalls  []replyCall
}

func newFakeLister() *fakeLister {
	return &fakeLister{
		threads:    make(map[string]*youtube.ThreadPage),
		threadErrs: make(map[string]error),
		replies:    make(map[string]map[string]*youtube.ReplyPage),
		replyErrs:  make(map[string]error),
	}
}

// addReplyPage registers a reply page of threadID served for token.
func (f *fakeLister) addReplyPage(threadID, token string, page *youtube.ReplyPage) {
	if f.replies[threadID] == nil {
		f.replies[threadID] = make(map[string]*youtube.ReplyPage)
	}
	f.replies[threadID][token] = page
}

func (f *fakeLister) ListThreads(_ context.Context, _ string, pageToken string) (*youtube.ThreadPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.threadCalls = append(f.threadCalls, pageToken)
	if err := f.threadErrs[pageToken]; err != nil {
		return nil, err
	}
	return f.threads[pageToken], nil
}

func (f *fakeLister) ListReplies(_ context.Context, threadID, pageToken string, pageSize int) (*youtube.ReplyPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.replyCalls = append(f.replyCalls, replyCall{threadID: threadID, pageToken: pageToken, pageSize: pageSize})
	if err := f.replyErrs[threadID+"/"+pageToken]; err != nil {
		return nil, err
	}
	return f.replies[threadID][pageToken], nil
}
