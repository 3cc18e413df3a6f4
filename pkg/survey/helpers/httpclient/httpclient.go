package httpclient

import (
	"io"
	"net/http"
	"time"
	"unicode/utf8"
)

// MaxBodyBytes caps how much of a response body is read into memory.
// Generated images arrive base64 encoded in the body, hence the size.
const MaxBodyBytes = 64 << 20

// HTTPClient is shared by the outbound clients. Tests swap it for
// httptest's client.
var HTTPClient = &http.Client{Timeout: 30 * time.Second}

// ReadBody drains at most MaxBodyBytes of the response body.
func ReadBody(resp *http.Response) ([]byte, error) {
	return io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
}

// Truncate shortens s to at most n bytes for log and error messages,
// cutting on a rune boundary.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
