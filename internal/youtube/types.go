package youtube

// ThreadPage is one page of commentThreads.list.
type ThreadPage struct {
	Items []CommentThread `json:"items"`

	// NextPageToken is empty when there are no more pages.
	NextPageToken string `json:"nextPageToken,omitempty"`
}

// ReplyPage is one page of comments.list for a parent thread.
type ReplyPage struct {
	Items []Comment `json:"items"`

	// NextPageToken is empty when there are no more pages.
	NextPageToken string `json:"nextPageToken,omitempty"`
}

// CommentThread is a commentThread resource: a top-level comment plus
// thread-level metadata.
type CommentThread struct {
	Kind    string         `json:"kind,omitempty"`
	ID      *string        `json:"id,omitempty"`
	Snippet *ThreadSnippet `json:"snippet,omitempty"`
}

// ThreadSnippet is the snippet part of a commentThread resource.
type ThreadSnippet struct {
	VideoID         *string  `json:"videoId,omitempty"`
	TopLevelComment *Comment `json:"topLevelComment,omitempty"`
	TotalReplyCount *int64   `json:"totalReplyCount,omitempty"`
}

// Comment is a comment resource. It is used both for the top-level comment
// nested in a thread and for replies returned by comments.list.
type Comment struct {
	Kind    string          `json:"kind,omitempty"`
	ID      *string         `json:"id,omitempty"`
	Snippet *CommentSnippet `json:"snippet,omitempty"`
}

// CommentSnippet is the snippet part of a comment resource.
// Replies carry ParentID but no VideoID.
type CommentSnippet struct {
	VideoID         *string     `json:"videoId,omitempty"`
	ParentID        *string     `json:"parentId,omitempty"`
	PublishedAt     *string     `json:"publishedAt,omitempty"`
	AuthorChannelID *ChannelRef `json:"authorChannelId,omitempty"`
	LikeCount       *int64      `json:"likeCount,omitempty"`
	TextOriginal    *string     `json:"textOriginal,omitempty"`
}

// ChannelRef wraps a channel ID as the API nests it.
type ChannelRef struct {
	Value *string `json:"value,omitempty"`
}

// apiErrorEnvelope is the body of a non-2xx API response.
type apiErrorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}
