package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
	"pkt.systems/webmentionctl/schema"
)

const (
	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 64 << 10
	defaultTimeout  = 30 * time.Second
)

// Option configures a Client.
type Option func(*Client)

// WithRoundTripper replaces the underlying transport.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.roundTripper = rt
	}
}

// WithMetrics records request metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// Client is the single HTTP transport to the moderation API. It carries
// cookies across calls and, while a token is set, a bearer Authorization
// header. Widget fetches go through a separate client without a cookie jar.
type Client struct {
	baseHref     string
	userAgent    string
	http         *http.Client
	public       *http.Client
	roundTripper http.RoundTripper
	metrics      *Metrics

	mu    sync.RWMutex
	token string
}

// NewClient constructs a Client for cfg.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base url must include scheme and host: %q", cfg.BaseURL)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseHref:  buildBaseHref(baseURL, resolveBasePath(cfg)),
		userAgent: cfg.UserAgent,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	transport := &loggingTransport{next: c.roundTripper, metrics: c.metrics}
	c.http = &http.Client{Jar: jar, Timeout: timeout, Transport: transport}
	c.public = &http.Client{Timeout: timeout, Transport: transport}
	return c, nil
}

// BaseHref returns the resolved API root, always ending in a slash.
func (c *Client) BaseHref() string {
	return c.baseHref
}

// SetToken sets or, when empty, clears the bearer token sent with each call.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the bearer token currently mirrored into the header.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Authenticate exchanges a one-time login token for a session token.
func (c *Client) Authenticate(ctx context.Context, token string) (string, error) {
	form := url.Values{"token": {token}}
	return c.postForToken(ctx, string(schema.OpAuthenticate), "authenticate", form)
}

// AuthenticateAccessKey exchanges an access key for a session token.
func (c *Client) AuthenticateAccessKey(ctx context.Context, key string) (string, error) {
	form := url.Values{"key": {key}}
	return c.postForToken(ctx, string(schema.OpAuthenticate), "authenticate/access-key", form)
}

// RequestLogin asks the server to mail a login link to email.
func (c *Client) RequestLogin(ctx context.Context, email string) error {
	form := url.Values{"email": {email}}
	req, err := c.newFormRequest(ctx, "request-login", form)
	if err != nil {
		return schema.NewTransportError(string(schema.OpRequestToken), err)
	}
	_, err = c.do(req, string(schema.OpRequestToken), "/request-login")
	return err
}

// ListMentions fetches one page of mentions matching query.
func (c *Client) ListMentions(ctx context.Context, query schema.MentionQuery) (schema.PagedMentionList, error) {
	op := string(schema.OpGetMentions)
	values := url.Values{}
	values.Set("status", string(query.Status))
	values.Set("offset", strconv.Itoa(query.Offset))
	values.Set("limit", strconv.Itoa(query.Limit))
	req, err := c.newRequest(ctx, http.MethodGet, "manage/mentions?"+values.Encode(), nil)
	if err != nil {
		return schema.PagedMentionList{}, schema.NewTransportError(op, err)
	}
	body, err := c.do(req, op, "/manage/mentions")
	if err != nil {
		return schema.PagedMentionList{}, err
	}
	var page schema.PagedMentionList
	if err := json.Unmarshal(body, &page); err != nil {
		return schema.PagedMentionList{}, schema.NewTransportError(op, fmt.Errorf("decode mention list: %w", err))
	}
	return page, nil
}

// ApproveMention marks a mention as approved.
func (c *Client) ApproveMention(ctx context.Context, id schema.MentionID) error {
	return c.mentionAction(ctx, id, "approve")
}

// RejectMention marks a mention as rejected.
func (c *Client) RejectMention(ctx context.Context, id schema.MentionID) error {
	return c.mentionAction(ctx, id, "reject")
}

// DeleteMention removes a mention.
func (c *Client) DeleteMention(ctx context.Context, id schema.MentionID) error {
	op := string(schema.OpDeleteMention)
	req, err := c.newRequest(ctx, http.MethodDelete, "manage/mentions/"+url.PathEscape(string(id)), nil)
	if err != nil {
		return schema.NewTransportError(op, err)
	}
	_, err = c.do(req, op, "/manage/mentions/{id}")
	return err
}

func (c *Client) mentionAction(ctx context.Context, id schema.MentionID, action string) error {
	op := string(schema.OpMutateMentionStatus)
	req, err := c.newRequest(ctx, http.MethodPost, "manage/mentions/"+url.PathEscape(string(id))+"/"+action, nil)
	if err != nil {
		return schema.NewTransportError(op, err)
	}
	_, err = c.do(req, op, "/manage/mentions/{id}/"+action)
	return err
}

// SendMention asks the server to send webmentions for every link in the
// source document. When some targets fail the server still answers with a
// report; it is returned inside a *schema.SendError.
func (c *Client) SendMention(ctx context.Context, request schema.SendRequest) (schema.SendReport, error) {
	op := string(schema.OpSendMention)
	payload, err := json.Marshal(request)
	if err != nil {
		return schema.SendReport{}, schema.NewValidationError(op, err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "manage/send", bytes.NewReader(payload))
	if err != nil {
		return schema.SendReport{}, schema.NewTransportError(op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	body, err := c.do(req, op, "/manage/send")
	if err != nil {
		var apiErr *schema.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusInternalServerError {
			var report schema.SendReport
			if decodeErr := json.Unmarshal([]byte(apiErr.Message), &report); decodeErr == nil && len(report.Targets) > 0 {
				return report, &schema.SendError{Report: report, Err: err}
			}
		}
		return schema.SendReport{}, err
	}
	var report schema.SendReport
	if err := json.Unmarshal(body, &report); err != nil {
		return schema.SendReport{}, schema.NewTransportError(op, fmt.Errorf("decode send report: %w", err))
	}
	return report, nil
}

// ListPolicies fetches every configured moderation policy.
func (c *Client) ListPolicies(ctx context.Context) ([]schema.Policy, error) {
	op := string(schema.OpGetPolicies)
	req, err := c.newRequest(ctx, http.MethodGet, "manage/policies", nil)
	if err != nil {
		return nil, schema.NewTransportError(op, err)
	}
	body, err := c.do(req, op, "/manage/policies")
	if err != nil {
		return nil, err
	}
	policies := []schema.Policy{}
	if err := json.Unmarshal(body, &policies); err != nil {
		return nil, schema.NewTransportError(op, fmt.Errorf("decode policies: %w", err))
	}
	return policies, nil
}

// CreatePolicy creates a moderation policy.
func (c *Client) CreatePolicy(ctx context.Context, request schema.CreatePolicyRequest) error {
	op := string(schema.OpCreatePolicy)
	payload, err := json.Marshal(request)
	if err != nil {
		return schema.NewValidationError(op, err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "manage/policies", bytes.NewReader(payload))
	if err != nil {
		return schema.NewTransportError(op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	_, err = c.do(req, op, "/manage/policies")
	return err
}

// DeletePolicy removes a moderation policy.
func (c *Client) DeletePolicy(ctx context.Context, id schema.PolicyID) error {
	op := string(schema.OpDeletePolicy)
	req, err := c.newRequest(ctx, http.MethodDelete, "manage/policies/"+strconv.Itoa(int(id)), nil)
	if err != nil {
		return schema.NewTransportError(op, err)
	}
	_, err = c.do(req, op, "/manage/policies/{id}")
	return err
}

// GetTargetMentions fetches the public mentions of target from a widget
// endpoint. The endpoint is an absolute URL and no credentials are sent.
func (c *Client) GetTargetMentions(ctx context.Context, endpoint, target string) ([]schema.Mention, error) {
	const op = "getTargetMentions"
	u := strings.TrimRight(endpoint, "/") + "/get?target=" + url.QueryEscape(target)
	req, err := http.NewRequestWithContext(withRoute(ctx, "/get"), http.MethodGet, u, nil)
	if err != nil {
		return nil, schema.NewTransportError(op, err)
	}
	c.decorate(req, false)
	body, err := c.send(c.public, req, op)
	if err != nil {
		return nil, err
	}
	mentions := []schema.Mention{}
	if err := json.Unmarshal(body, &mentions); err != nil {
		return nil, schema.NewTransportError(op, fmt.Errorf("decode mentions: %w", err))
	}
	return mentions, nil
}

func (c *Client) postForToken(ctx context.Context, op, path string, form url.Values) (string, error) {
	req, err := c.newFormRequest(ctx, path, form)
	if err != nil {
		return "", schema.NewTransportError(op, err)
	}
	body, err := c.do(req, op, "/"+path)
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(body))
	if token == "" {
		return "", schema.NewTransportError(op, errors.New("server returned an empty token"))
	}
	return token, nil
}

func (c *Client) newFormRequest(ctx context.Context, path string, form url.Values) (*http.Request, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return http.NewRequestWithContext(ctx, method, c.baseHref+strings.TrimPrefix(path, "/"), body)
}

func (c *Client) decorate(req *http.Request, withAuth bool) {
	req.Header.Set(requestIDHeader, uuid.NewString())
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if !withAuth {
		return
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// do sends an API request with credentials and returns the response body
// of a 2xx answer.
func (c *Client) do(req *http.Request, op, route string) ([]byte, error) {
	req = req.WithContext(withRoute(req.Context(), route))
	c.decorate(req, true)
	return c.send(c.http, req, op)
}

func (c *Client) send(hc *http.Client, req *http.Request, op string) ([]byte, error) {
	resp, err := hc.Do(req)
	if err != nil {
		return nil, schema.NewTransportError(op, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, schema.NewStatusError(op, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, schema.NewTransportError(op, fmt.Errorf("read response: %w", err))
	}
	return data, nil
}
