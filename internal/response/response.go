// Package response encodes HTTP/1.1 responses onto a byte stream. The
// Writer enforces status-line, header, body ordering; connections are
// one-shot, so every response carries Connection: close.
package response

import (
	"fmt"
	"time"

	"tinyhttpd/internal/headers"
)

// GetDefaultHeaders returns the header set every response starts from.
// Content-Length must equal the exact byte length of the body that will be
// written.
func GetDefaultHeaders(contentLen int) *headers.Headers {
	h := headers.New()
	h.Set("Content-Length", fmt.Sprintf("%d", contentLen))
	h.Set("Connection", "close")
	h.Set("Content-Type", "text/plain")
	h.Set("Date", time.Now().UTC().Format(time.RFC1123))

	return h
}
