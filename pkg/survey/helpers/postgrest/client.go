// Package postgrest is a small client for PostgREST style table endpoints,
// as exposed by Supabase under /rest/v1.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/developer-overheid-nl/beeldvoorkeur/pkg/survey/helpers/httpclient"
)

const restPath = "/rest/v1"

var (
	ErrMissingURL = errors.New("postgrest: missing endpoint url")
	ErrMissingKey = errors.New("postgrest: missing api key")
)

// Client talks to one PostgREST endpoint.
type Client struct {
	restURL *url.URL
	apiKey  string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient overrides the shared httpclient.HTTPClient.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient validates the endpoint and key. It does not touch the network.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	apiKey = strings.TrimSpace(apiKey)
	if baseURL == "" {
		return nil, ErrMissingURL
	}
	if apiKey == "" {
		return nil, ErrMissingKey
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("postgrest: invalid url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("postgrest: invalid url %q: need http(s)://host", baseURL)
	}
	if !strings.HasSuffix(strings.TrimRight(u.Path, "/"), restPath) {
		u.Path = path.Join(u.Path, restPath)
	}
	c := &Client{restURL: u, apiKey: apiKey, http: httpclient.HTTPClient}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Error is the error object PostgREST returns for failed statements.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Response is the raw outcome of a request. Depending on where a failure
// happened it shows up as Error, as an error-ish Data mapping, or only as
// Status; callers are expected to check all three.
type Response struct {
	Status int
	Data   any
	Body   []byte
	Error  *Error
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// Query is a request against one table, built fluently.
type Query struct {
	c      *Client
	table  string
	method string
	params url.Values
	body   any
	prefer string
}

func (c *Client) From(table string) *Query {
	return &Query{c: c, table: table, method: http.MethodGet, params: url.Values{}}
}

func (q *Query) Select(columns ...string) *Query {
	q.params.Set("select", strings.Join(columns, ","))
	return q
}

func (q *Query) Order(column string, desc bool) *Query {
	dir := "asc"
	if desc {
		dir = "desc"
	}
	q.params.Set("order", column+"."+dir)
	return q
}

func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Insert turns the query into a POST of payload without echoing rows back.
func (q *Query) Insert(payload any) *Query {
	q.method = http.MethodPost
	q.body = payload
	q.prefer = "return=minimal"
	return q
}

// Execute sends the request. A non-nil error means the request never got
// a response (bad payload, transport failure); everything else is in Response.
func (q *Query) Execute(ctx context.Context) (*Response, error) {
	target := *q.c.restURL
	target.Path = path.Join(target.Path, q.table)
	target.RawQuery = q.params.Encode()

	var body *bytes.Reader
	if q.body != nil {
		buf, err := json.Marshal(q.body)
		if err != nil {
			return nil, fmt.Errorf("postgrest: marshal payload: %w", err)
		}
		body = bytes.NewReader(buf)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, q.method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("postgrest: create request: %w", err)
	}
	req.Header.Set("apikey", q.c.apiKey)
	req.Header.Set("Authorization", "Bearer "+q.c.apiKey)
	req.Header.Set("Accept", "application/json")
	if q.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if q.prefer != "" {
		req.Header.Set("Prefer", q.prefer)
	}

	resp, err := q.c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("postgrest: %s %s: %w", q.method, q.table, err)
	}
	defer resp.Body.Close()

	raw, err := httpclient.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("postgrest: read body: %w", err)
	}

	out := &Response{Status: resp.StatusCode, Body: raw}
	if len(bytes.TrimSpace(raw)) > 0 {
		var data any
		if err := json.Unmarshal(raw, &data); err == nil {
			out.Data = data
		}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var pgErr Error
		if err := json.Unmarshal(raw, &pgErr); err == nil && pgErr.Code != "" {
			out.Error = &pgErr
		}
	}
	return out, nil
}
