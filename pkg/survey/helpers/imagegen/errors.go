package imagegen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAPIKey is matched by the ConfigurationError returned when no
// API key is configured.
var ErrMissingAPIKey = errors.New("image generation api key is not configured")

// ErrInvalidSize is returned for sizes outside the supported set.
var ErrInvalidSize = errors.New("unsupported image size")

// ConfigurationError means the client cannot be used as configured. No
// request was sent.
type ConfigurationError struct {
	Setting string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("imagegen: %s: %v", e.Setting, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// TransportError wraps network-level failures (DNS, resets, timeouts).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "imagegen: transport: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// RedirectHop is one redirect followed on the way to the final response.
type RedirectHop struct {
	StatusCode int    `json:"statusCode"`
	Location   string `json:"location"`
	Method     string `json:"method"`
}

// RedirectIntegrityError reports that following redirects changed the
// request method, which turns the generation call into a plain read.
type RedirectIntegrityError struct {
	OriginalMethod string
	FinalMethod    string
	Hops           []RedirectHop
	FinalStatus    int
	FinalBody      string
}

func (e *RedirectIntegrityError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "imagegen: redirect changed method %s -> %s; chain:", e.OriginalMethod, e.FinalMethod)
	for i, hop := range e.Hops {
		fmt.Fprintf(&b, " [%d] %d -> %s (%s)", i+1, hop.StatusCode, hop.Location, hop.Method)
	}
	fmt.Fprintf(&b, "; final status %d body %q", e.FinalStatus, e.FinalBody)
	return b.String()
}

// HTTPStatusError is a non-2xx answer. Body holds the parsed JSON when the
// body was JSON, otherwise the raw text.
type HTTPStatusError struct {
	StatusCode int
	Body       any
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("imagegen: unexpected status %d: %s", e.StatusCode, renderBody(e.Body))
}

// ResponseParseError means a 2xx body was not valid JSON. Body is truncated.
type ResponseParseError struct {
	Body string
	Err  error
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("imagegen: invalid json response: %v; body: %s", e.Err, e.Body)
}

func (e *ResponseParseError) Unwrap() error { return e.Err }

// ResponseShapeError means the JSON lacked data[0].b64_json. Body is the
// full parsed document.
type ResponseShapeError struct {
	Body any
}

func (e *ResponseShapeError) Error() string {
	return "imagegen: unexpected response shape, missing data[0].b64_json: " + renderBody(e.Body)
}

func renderBody(body any) string {
	if s, ok := body.(string); ok {
		return s
	}
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Sprint(body)
	}
	return string(b)
}
