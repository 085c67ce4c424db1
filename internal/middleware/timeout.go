package middleware

import (
	"net/http"
	"time"
)

// Timeout cancels the request context after timeout and answers 503 with
// the REQUEST_TIMEOUT error envelope if the handler has not responded.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	message := string(errorJSON("REQUEST_TIMEOUT", "request timed out"))

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, message)
	}
}
