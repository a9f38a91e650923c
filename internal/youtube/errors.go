package youtube

import (
	"errors"
	"fmt"
)

// ErrQuotaExhausted means the daily quota budget cannot cover the call.
// It is raised locally by the ledger pre-flight check and remotely when the
// provider answers 429 or 403 quotaExceeded. Not retryable until the daily
// reset.
var ErrQuotaExhausted = errors.New("youtube: daily quota exhausted")

// APIError is a non-retryable provider error (4xx other than rate limits).
type APIError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube: api error %d (%s): %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("youtube: api error %d: %s", e.StatusCode, e.Message)
}
