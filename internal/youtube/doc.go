// Package youtube implements the paged comment listing capability on top of
// the YouTube Data API v3.
//
// Two endpoints are used:
//   - commentThreads.list: top-level comment threads of a video
//   - comments.list: replies inside one thread
//
// Responses are decoded into pointer-valued structs so that a field missing
// from the API response stays nil and can be reported by the caller instead
// of silently becoming a zero value.
//
// Every failed request is returned as a *FetchError, which matches
// ErrTransientFetch with errors.Is. Responses whose error reason signals an
// exhausted quota additionally match ErrQuotaExceeded. The client never
// retries; retry policy belongs to the caller.
package youtube
