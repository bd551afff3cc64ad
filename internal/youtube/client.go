package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	rglog "github.com/nao1215/replygraph/internal/log"
)

const (
	// DefaultBaseURL is the YouTube Data API v3 root.
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

	// MaxPageSize is the largest maxResults the API accepts for both endpoints.
	MaxPageSize = 100

	// maxErrorBody limits how much of an error response is read.
	maxErrorBody = 64 * 1024

	opListThreads = "commentThreads.list"
	opListReplies = "comments.list"
)

// Client lists comment threads and replies from the YouTube Data API.
// It is safe for concurrent use, although the crawler uses it from a single
// goroutine.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	threadPageSize int
	userAgent      string
	logger         *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
// Use this to route requests through a proxy or Tor.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the API root. Tests point this at httptest servers.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithThreadPageSize sets maxResults for commentThreads.list.
// Zero leaves the API default in place.
func WithThreadPageSize(n int) Option {
	return func(c *Client) {
		c.threadPageSize = n
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// ListThreads fetches one page of top-level comment threads for videoID.
// An empty pageToken requests the first page.
func (c *Client) ListThreads(ctx context.Context, videoID, pageToken string) (*ThreadPage, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("videoId", videoID)
	if c.threadPageSize > 0 {
		params.Set("maxResults", strconv.Itoa(c.threadPageSize))
	}
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var page ThreadPage
	if err := c.get(ctx, opListThreads, "commentThreads", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListReplies fetches one page of replies under the thread threadID.
// An empty pageToken requests the first page.
func (c *Client) ListReplies(ctx context.Context, threadID, pageToken string, pageSize int) (*ReplyPage, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("parentId", threadID)
	if pageSize > 0 {
		params.Set("maxResults", strconv.Itoa(pageSize))
	}
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var page ReplyPage
	if err := c.get(ctx, opListReplies, "comments", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// get issues a GET for resource and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, op, resource string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	reqURL := c.baseURL + "/" + resource + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return NewFetchError(op, redactURLError(err))
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("sending request", "op", op, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return NewFetchError(op, redactURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewFetchError(op, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// redactURLError masks the API key in the request URL quoted by a
// *url.Error. Fetch errors end up in stored runs and printed summaries,
// so the key must not survive in their text.
func redactURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = rglog.RedactQuery(ue.URL)
	}
	return err
}

// decodeAPIError turns a non-2xx response into a FetchError, pulling the
// reason out of the API error envelope when there is one.
func decodeAPIError(op string, resp *http.Response) *FetchError {
	fe := &FetchError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return fe
	}

	var envelope apiErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		fe.Message = strings.TrimSpace(string(body))
		return fe
	}
	if envelope.Error.Message != "" {
		fe.Message = envelope.Error.Message
	}
	if len(envelope.Error.Errors) > 0 {
		fe.Reason = envelope.Error.Errors[0].Reason
	}
	return fe
}
