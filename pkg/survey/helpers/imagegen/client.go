// Package imagegen calls the hosted image generation API and turns every
// way that call can go wrong into a distinct, diagnosable error.
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/helpers/httpclient"
)

const (
	DefaultEndpoint = "https://api.openai.com/v1/images/generations"
	DefaultModel    = "gpt-image-1"
	DefaultTimeout  = 90 * time.Second

	maxRedirects = 10
	rawBodyLimit = 512
)

// Size is one of the output sizes the API accepts.
type Size string

const (
	SizeSquare    Size = "1024x1024"
	SizePortrait  Size = "1024x1536"
	SizeLandscape Size = "1536x1024"
	SizeAuto      Size = "auto"
)

// Sizes lists the supported sizes.
var Sizes = []Size{SizeSquare, SizePortrait, SizeLandscape, SizeAuto}

// ParseSize maps the empty string to SizeSquare and rejects unknown sizes.
func ParseSize(s string) (Size, error) {
	if strings.TrimSpace(s) == "" {
		return SizeSquare, nil
	}
	for _, size := range Sizes {
		if string(size) == s {
			return size, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSize, s)
}

// Client issues single, unretried generation requests.
type Client struct {
	apiKey    string
	endpoint  string
	model     string
	timeout   time.Duration
	transport http.RoundTripper
}

type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTransport replaces the transport of httpclient.HTTPClient.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

// New returns a client. An empty apiKey is accepted here and reported by
// GenerateImage, so the service can start without image generation.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   strings.TrimSpace(apiKey),
		endpoint: DefaultEndpoint,
		model:    DefaultModel,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

type generationRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Size   Size   `json:"size"`
}

// redirectRecorder keeps the hops of one request.
type redirectRecorder struct {
	hops []RedirectHop
}

func (r *redirectRecorder) check(req *http.Request, via []*http.Request) error {
	hop := RedirectHop{Location: req.URL.String(), Method: req.Method}
	if req.Response != nil {
		hop.StatusCode = req.Response.StatusCode
	}
	r.hops = append(r.hops, hop)
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	return nil
}

func (c *Client) httpClient(rec *redirectRecorder) *http.Client {
	base := httpclient.HTTPClient
	transport := c.transport
	if transport == nil {
		transport = base.Transport
	}
	return &http.Client{
		Transport:     transport,
		Jar:           base.Jar,
		Timeout:       c.timeout,
		CheckRedirect: rec.check,
	}
}

// GenerateImage requests one image and returns it base64 encoded.
func (c *Client) GenerateImage(ctx context.Context, prompt string, size Size) (string, error) {
	if c.apiKey == "" {
		return "", &ConfigurationError{Setting: "OPENAI_API_KEY", Err: ErrMissingAPIKey}
	}
	if _, err := ParseSize(string(size)); err != nil {
		return "", err
	}

	buf, err := json.Marshal(generationRequest{Model: c.model, Prompt: prompt, Size: size})
	if err != nil {
		return "", fmt.Errorf("imagegen: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(buf))
	if err != nil {
		return "", &ConfigurationError{Setting: "IMAGE_ENDPOINT", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	rec := &redirectRecorder{}
	resp, err := c.httpClient(rec).Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	finalMethod := req.Method
	if resp.Request != nil {
		finalMethod = resp.Request.Method
	}
	if len(rec.hops) > 0 && finalMethod != req.Method {
		// Whatever arrived before a read failure is still worth reporting.
		raw, _ := httpclient.ReadBody(resp)
		return "", &RedirectIntegrityError{
			OriginalMethod: req.Method,
			FinalMethod:    finalMethod,
			Hops:           rec.hops,
			FinalStatus:    resp.StatusCode,
			FinalBody:      httpclient.Truncate(string(raw), rawBodyLimit),
		}
	}

	raw, err := httpclient.ReadBody(resp)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return "", &HTTPStatusError{StatusCode: resp.StatusCode, Body: string(raw)}
		}
		return "", &HTTPStatusError{StatusCode: resp.StatusCode, Body: parsed}
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &ResponseParseError{Body: httpclient.Truncate(string(raw), rawBodyLimit), Err: err}
	}

	image, ok := extractImage(parsed)
	if !ok {
		return "", &ResponseShapeError{Body: parsed}
	}
	return image, nil
}

// extractImage digs out data[0].b64_json.
func extractImage(body any) (string, bool) {
	doc, ok := body.(map[string]any)
	if !ok {
		return "", false
	}
	data, ok := doc["data"].([]any)
	if !ok || len(data) == 0 {
		return "", false
	}
	first, ok := data[0].(map[string]any)
	if !ok {
		return "", false
	}
	image, ok := first["b64_json"].(string)
	if !ok || image == "" {
		return "", false
	}
	return image, true
}
