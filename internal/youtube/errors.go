package youtube

import (
	"errors"
	"fmt"
)

var (
	// ErrTransientFetch matches every failed page request, whether the
	// transport failed or the API answered with an error status.
	ErrTransientFetch = errors.New("transient fetch error")

	// ErrQuotaExceeded matches page requests rejected because the API key ran
	// out of quota. It is a specialization of ErrTransientFetch: any error
	// matching it also matches ErrTransientFetch.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrMissingAPIKey is returned by NewClient when no API key is given.
	ErrMissingAPIKey = errors.New("missing YouTube Data API key")
)

// quotaReasons are the API error reasons that indicate exhausted usage limits.
var quotaReasons = map[string]bool{
	"quotaExceeded":         true,
	"dailyLimitExceeded":    true,
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
}

// IsQuotaReason reports whether reason is an API error reason for exhausted quota.
func IsQuotaReason(reason string) bool {
	return quotaReasons[reason]
}

// FetchError describes a failed page request.
type FetchError struct {
	// Op names the request, e.g. "commentThreads.list".
	Op string

	// StatusCode is the HTTP status, or 0 if no response was received.
	StatusCode int

	// Reason is the first error reason from the API error envelope, if any.
	Reason string

	// Message is the API error message, if any.
	Message string

	// Err is the underlying transport or decoding error, if any.
	Err error
}

// NewFetchError wraps err as a FetchError for op.
func NewFetchError(op string, err error) *FetchError {
	return &FetchError{Op: op, Err: err}
}

// Error implements error.
func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Reason != "":
		return fmt.Sprintf("%s: HTTP %d (%s): %s", e.Op, e.StatusCode, e.Reason, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": request failed"
	}
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is makes every FetchError match ErrTransientFetch and quota failures
// additionally match ErrQuotaExceeded.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrTransientFetch:
		return true
	case ErrQuotaExceeded:
		return e.Quota()
	default:
		return false
	}
}

// Quota reports whether the API rejected the request for exhausted quota.
func (e *FetchError) Quota() bool {
	return IsQuotaReason(e.Reason)
}
