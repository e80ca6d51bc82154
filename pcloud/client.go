// Package pcloud provides a typed client for the pCloud REST API with
// dual path/id addressing, shared session lifecycle, fluent request
// builders, and region-aware checksum validation.
package pcloud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

const defaultUserAgent = "pcloud-go/0.1"

// Hosts of the two documented API regions.
const (
	HostUS = "https://api.pcloud.com"
	HostEU = "https://eapi.pcloud.com"
)

// Client is a handle on an authenticated pCloud API connection. It is
// immutable after construction; share it across goroutines via Clone,
// which is O(1) and performs no I/O.
type Client struct {
	apiHost    string
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string

	// oauthToken is set for OAuth-constructed clients and attached as a
	// bearer header. session is set for login-constructed clients and
	// attached as an auth query parameter. At most one is non-zero.
	oauthToken string
	session    *session

	// closeOnce makes a double Close of the same handle a no-op, so the
	// session share count never underflows.
	closeOnce *sync.Once
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for every request.
// Timeouts, proxies, and retry policy belong to this collaborator.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger replaces the default slog.Default() logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

func newClient(host string, opts []Option) *Client {
	c := &Client{
		apiHost:    host,
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
		userAgent:  defaultUserAgent,
		closeOnce:  &sync.Once{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewWithOAuth creates a Client using a caller-owned OAuth2 access token.
// Construction is local: no network request is made, and the token's
// validity is only observed on the first API call. The token has no
// client-managed lifecycle; Close is a no-op.
func NewWithOAuth(host, token string, opts ...Option) (*Client, error) {
	h, err := normalizeHost(host)
	if err != nil {
		return nil, err
	}

	if token == "" {
		return nil, fmt.Errorf("pcloud: empty OAuth token: %w", ErrConfiguration)
	}

	c := newClient(h, opts)
	c.oauthToken = token

	return c, nil
}

// NewWithUsernameAndPassword creates a Client by exchanging credentials for
// a server-issued session token. The token is shared by every Clone of the
// returned Client and invalidated remotely when the last handle is Closed.
func NewWithUsernameAndPassword(ctx context.Context, host, username, password string, opts ...Option) (*Client, error) {
	h, err := normalizeHost(host)
	if err != nil {
		return nil, err
	}

	c := newClient(h, opts)

	token, err := c.login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	c.session = newSession(h, token, c.httpClient, c.logger)

	c.logger.Debug("login successful",
		slog.String("host", h),
		slog.String("username", username),
	)

	return c, nil
}

// normalizeHost validates the API host URL and strips any trailing slash.
func normalizeHost(host string) (string, error) {
	u, err := url.Parse(host)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("pcloud: malformed API host %q: %w", host, ErrConfiguration)
	}

	return strings.TrimRight(host, "/"), nil
}

// login exchanges credentials for a session token via userinfo?getauth=1.
func (c *Client) login(ctx context.Context, username, password string) (string, error) {
	q := url.Values{}
	q.Set("getauth", "1")
	q.Set("username", username)
	q.Set("password", password)

	var ui UserInfo
	if err := c.getJSON(ctx, "userinfo", q, &ui); err != nil {
		return "", err
	}

	if ui.Auth == "" {
		return "", fmt.Errorf("pcloud: login response carried no auth token: %w", ErrAuthentication)
	}

	return ui.Auth, nil
}

// Clone duplicates the handle. For session-authenticated clients the clones
// share one remote token; the token stays valid until every handle
// (original plus clones) has been Closed. Clone never performs I/O.
func (c *Client) Clone() *Client {
	clone := *c
	clone.closeOnce = &sync.Once{}

	if c.session != nil {
		c.session.retain()
	}

	return &clone
}

// Close releases this handle. The last handle of a session-authenticated
// client triggers a single best-effort logout invalidating the remote
// token; its failure is logged, never returned. Closing an
// OAuth-constructed client, or the same handle twice, does nothing.
func (c *Client) Close() error {
	if c.session == nil {
		return nil
	}

	c.closeOnce.Do(c.session.release)

	return nil
}

// Host returns the API host this client talks to.
func (c *Client) Host() string {
	return c.apiHost
}

// NearestServer asks the API for the closest endpoint and returns a derived
// handle bound to it, sharing this client's credentials. The original
// handle remains valid. Falls back to the current host when the server
// offers no alternative.
func (c *Client) NearestServer(ctx context.Context) (*Client, error) {
	var srv apiServers
	if err := c.getJSON(ctx, "getapiserver", nil, &srv); err != nil {
		return nil, err
	}

	clone := c.Clone()
	if len(srv.API) > 0 {
		clone.apiHost = "https://" + srv.API[0]

		c.logger.Debug("nearest API endpoint resolved",
			slog.String("host", clone.apiHost),
		)
	}

	return clone, nil
}

// GetUserInfo fetches account details of the authenticated user.
func (c *Client) GetUserInfo(ctx context.Context) (*UserInfo, error) {
	c.logger.Debug("requesting user info")

	var ui UserInfo
	if err := c.getJSON(ctx, "userinfo", nil, &ui); err != nil {
		return nil, err
	}

	return &ui, nil
}

// attachAuth injects the active credential into an outgoing request.
// Session tokens travel as the auth query parameter, OAuth tokens as a
// bearer header (set in do). Never blocks, never fails.
func (c *Client) attachAuth(q url.Values) {
	if c.session != nil {
		c.session.attach(q)
	}
}

// do builds and executes one API request. Network failures and context
// cancellation surface as ErrTransport; non-2xx statuses as ErrServer.
// The caller owns the response body.
func (c *Client) do(ctx context.Context, method, endpoint string, q url.Values, body io.Reader, contentType string) (*http.Response, error) {
	if q == nil {
		q = url.Values{}
	}

	c.attachAuth(q)

	reqURL := c.apiHost + "/" + endpoint + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("pcloud: building %s request: %w", endpoint, err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	if c.oauthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.oauthToken)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)

		return nil, fmt.Errorf("pcloud: %s %s: %w", method, endpoint, &transportError{err: err})
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errBody, _ := io.ReadAll(resp.Body) //nolint:errcheck // best-effort read for error message
		resp.Body.Close()

		return nil, fmt.Errorf("pcloud: %s %s: HTTP %d: %s: %w",
			method, endpoint, resp.StatusCode, string(errBody), ErrServer)
	}

	return resp, nil
}

// call executes a request and decodes the JSON answer into out, checking
// the embedded result code when out carries one.
func (c *Client) call(ctx context.Context, method, endpoint string, q url.Values, body io.Reader, contentType string, out any) error {
	resp, err := c.do(ctx, method, endpoint, q, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("pcloud: decoding %s response: %w", endpoint, &transportError{err: err})
	}

	if r, ok := out.(resulter); ok {
		if err := resultErr(r.resultCode()); err != nil {
			c.logger.Debug("server rejected operation",
				slog.String("endpoint", endpoint),
				slog.String("error", err.Error()),
			)

			return err
		}
	}

	return nil
}

// getJSON is the common shape of the read-only endpoints.
func (c *Client) getJSON(ctx context.Context, endpoint string, q url.Values, out any) error {
	return c.call(ctx, http.MethodGet, endpoint, q, nil, "", out)
}

// postJSON is the common shape of the mutating endpoints. pCloud carries
// all parameters in the query string even for POST.
func (c *Client) postJSON(ctx context.Context, endpoint string, q url.Values, out any) error {
	return c.call(ctx, http.MethodPost, endpoint, q, nil, "", out)
}
