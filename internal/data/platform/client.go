// Package platform talks to the content platform's suggestion and thread
// handlers over HTTP.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/tsreview/internal/core/logging"
	"github.com/hay-kot/tsreview/internal/core/reviewqueue"
	"github.com/hay-kot/tsreview/internal/core/thread"
)

const userAgent = "tsreview"

// xssiPrefix guards every JSON response from the platform and must be removed
// before decoding.
const xssiPrefix = ")]}'"

// Options configure a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	CSRFToken string
	Cookie    string

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client is an HTTP client for the platform. It satisfies both
// reviewqueue.SuggestionResolver and reviewqueue.ThreadMessageFetcher.
type Client struct {
	base   *url.URL
	http   *http.Client
	csrf   string
	cookie string
	log    zerolog.Logger
}

var (
	_ reviewqueue.SuggestionResolver   = (*Client)(nil)
	_ reviewqueue.ThreadMessageFetcher = (*Client)(nil)
)

// New creates a Client for the platform at opts.BaseURL.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", base.Scheme)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		base:   base,
		http:   hc,
		csrf:   opts.CSRFToken,
		cookie: opts.Cookie,
		log:    logging.Component("platform"),
	}, nil
}

type threadResponse struct {
	Messages []threadMessage `json:"messages"`
}

type threadMessage struct {
	AuthorUsername string  `json:"author_username"`
	CreatedOnMsecs float64 `json:"created_on_msecs"`
	EntityType     string  `json:"entity_type"`
	EntityID       string  `json:"entity_id"`
	MessageID      int     `json:"message_id"`
	Text           string  `json:"text"`
	UpdatedStatus  string  `json:"updated_status"`
	UpdatedSubject string  `json:"updated_subject"`
}

// FetchThread loads the discussion thread for threadID. Suggestion ids double
// as thread ids on the platform.
func (c *Client) FetchThread(ctx context.Context, threadID string) (thread.Thread, error) {
	body, err := c.do(ctx, http.MethodGet, c.endpoint("threadhandler", threadID), nil)
	if err != nil {
		return thread.Thread{}, wrap(err, "fetch thread %s", threadID)
	}

	var resp threadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return thread.Thread{}, fmt.Errorf("decode thread %s: %w", threadID, err)
	}

	th := thread.Thread{ID: threadID, Messages: make([]thread.Message, 0, len(resp.Messages))}
	for _, m := range resp.Messages {
		th.Messages = append(th.Messages, thread.Message{
			AuthorUsername: m.AuthorUsername,
			CreatedOn:      time.UnixMilli(int64(m.CreatedOnMsecs)),
			EntityType:     m.EntityType,
			EntityID:       m.EntityID,
			MessageID:      m.MessageID,
			Text:           m.Text,
			UpdatedStatus:  m.UpdatedStatus,
			UpdatedSubject: m.UpdatedSubject,
		})
	}

	return th, nil
}

type resolveBody struct {
	Action        string `json:"action"`
	ReviewMessage string `json:"review_message"`
	CommitMessage string `json:"commit_message,omitempty"`
}

// Resolve accepts or rejects a suggestion. The platform reads the resolution
// as a JSON payload field of a form body carrying the CSRF token.
func (c *Client) Resolve(ctx context.Context, req reviewqueue.ResolveRequest) error {
	payload, err := json.Marshal(resolveBody{
		Action:        string(req.Action),
		ReviewMessage: req.ReviewMessage,
		CommitMessage: req.CommitMessage,
	})
	if err != nil {
		return fmt.Errorf("encode resolution: %w", err)
	}

	form := url.Values{}
	form.Set("payload", string(payload))
	form.Set("csrf_token", c.csrf)

	endpoint := c.endpoint("suggestionactionhandler", "exploration", req.TargetID, req.SuggestionID)
	if _, err := c.do(ctx, http.MethodPut, endpoint, form); err != nil {
		return wrap(err, "resolve suggestion %s", req.SuggestionID)
	}

	c.log.Debug().
		Str("suggestion_id", req.SuggestionID).
		Str("action", string(req.Action)).
		Msg("suggestion resolved")
	return nil
}

// wrap adds context to transport errors. APIErrors pass through untouched so
// their text reaches the reviewer as the server wrote it.
func wrap(err error, format string, args ...any) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

func (c *Client) endpoint(segments ...string) string {
	u := *c.base
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u.RawPath = strings.TrimRight(c.base.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.Join(segments, "/")
	return u.String()
}

func (c *Client) do(ctx context.Context, method, endpoint string, form url.Values) ([]byte, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug().Err(err).Str("url", endpoint).Msg("close response body")
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	data = stripXSSI(data)

	c.log.Debug().
		Str("method", method).
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Msg("platform request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, data)
	}

	return data, nil
}

// stripXSSI removes the anti-XSSI prefix and the line break after it.
func stripXSSI(body []byte) []byte {
	rest, ok := bytes.CutPrefix(body, []byte(xssiPrefix))
	if !ok {
		return body
	}
	rest = bytes.TrimPrefix(rest, []byte("\r"))
	return bytes.TrimPrefix(rest, []byte("\n"))
}
