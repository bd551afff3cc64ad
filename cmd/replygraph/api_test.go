package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// testVideoID is the video served by the fake API.
const testVideoID = "dQw4w9WgXcQ"

// fakeAPI serves a two-page video: thread A with two replies split over
// two reply pages, thread B without replies, and thread C on the second
// page.
type fakeAPI struct {
	mu sync.Mutex

	// failSecondPage answers the second thread page with a quota error.
	failSecondPage bool

	// keys records the API key of every request.
	keys []string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.keys = append(f.keys, r.URL.Query().Get("key"))
	f.mu.Unlock()

	q := r.URL.Query()
	switch r.URL.Path {
	case "/commentThreads":
		if q.Get("videoId") != testVideoID {
			writeAPIError(w, http.StatusNotFound, "videoNotFound")
			return
		}
		switch q.Get("pageToken") {
		case "":
			writeJSON(w, map[string]any{
				"nextPageToken": "p2",
				"items":         []any{apiThread("A", 2, "first"), apiThread("B", 0, "second")},
			})
		case "p2":
			if f.failSecondPage {
				writeAPIError(w, http.StatusForbidden, "quotaExceeded")
				return
			}
			writeJSON(w, map[string]any{
				"items": []any{apiThread("C", 0, "third")},
			})
		default:
			writeAPIError(w, http.StatusBadRequest, "invalidPageToken")
		}

	case "/comments":
		if q.Get("parentId") != "A" {
			writeJSON(w, map[string]any{"items": []any{}})
			return
		}
		switch q.Get("pageToken") {
		case "":
			writeJSON(w, map[string]any{
				"nextPageToken": "r2",
				"items":         []any{apiReply("A.1", "A", "@UC-A")},
			})
		default:
			writeJSON(w, map[string]any{
				"items": []any{apiReply("A.2", "A", "me too")},
			})
		}

	default:
		http.NotFound(w, r)
	}
}

// newFakeAPI starts a fake YouTube Data API server.
func newFakeAPI(t *testing.T, failSecondPage bool) (*httptest.Server, *fakeAPI) {
	t.Helper()

	api := &fakeAPI{failSecondPage: failSecondPage}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return srv, api
}

func apiThread(id string, replies int, text string) map[string]any {
	return map[string]any{
		"kind": "youtube#commentThread",
		"id":   id,
		"snippet": map[string]any{
			"videoId":         testVideoID,
			"totalReplyCount": replies,
			"topLevelComment": map[string]any{
				"kind": "youtube#comment",
				"id":   id,
				"snippet": map[string]any{
					"videoId":         testVideoID,
					"publishedAt":     "2024-03-01T10:00:00Z",
					"authorChannelId": map[string]any{"value": "UC-" + id},
					"likeCount":       5,
					"textOriginal":    text,
				},
			},
		},
	}
}

func apiReply(id, parentID, text string) map[string]any {
	return map[string]any{
		"kind": "youtube#comment",
		"id":   id,
		"snippet": map[string]any{
			"parentId":        parentID,
			"publishedAt":     "2024-03-02T10:00:00Z",
			"authorChannelId": map[string]any{"value": "UC-" + id},
			"likeCount":       1,
			"textOriginal":    text,
		},
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Test server
}

func writeAPIError(w http.ResponseWriter, status int, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck // Test server
		"error": map[string]any{
			"code":    status,
			"message": reason,
			"errors":  []any{map[string]any{"reason": reason, "message": reason}},
		},
	})
}
