package pcloud

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"
)

// logoutTimeout bounds the best-effort logout request fired when the last
// client handle is closed.
const logoutTimeout = 10 * time.Second

// session holds a server-issued auth token shared by every clone of a
// Client constructed from username and password. The share count tracks
// live handles; when the last handle is released the token is invalidated
// remotely, exactly once.
type session struct {
	host       string
	token      string
	httpClient *http.Client
	logger     *slog.Logger

	refs       atomic.Int64
	logoutOnce sync.Once
}

func newSession(host, token string, httpClient *http.Client, logger *slog.Logger) *session {
	s := &session{
		host:       host,
		token:      token,
		httpClient: httpClient,
		logger:     logger,
	}
	s.refs.Store(1)

	return s
}

// attach adds the session token to an outgoing request's query values.
func (s *session) attach(q url.Values) {
	q.Set("auth", s.token)
}

// retain registers one more handle sharing this session.
func (s *session) retain() {
	s.refs.Add(1)
}

// release drops one handle. The last release invalidates the remote token.
// The sync.Once guard keeps a concurrent race of final releases from
// issuing the logout twice.
func (s *session) release() {
	if s.refs.Add(-1) > 0 {
		return
	}

	s.logoutOnce.Do(s.logout)
}

// logout invalidates the session token remotely. Best-effort: the owning
// handle is already gone, so failures are logged and never propagated.
func (s *session) logout() {
	ctx, cancel := context.WithTimeout(context.Background(), logoutTimeout)
	defer cancel()

	q := url.Values{}
	s.attach(q)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.host+"/logout?"+q.Encode(), http.NoBody)
	if err != nil {
		s.logger.Warn("building logout request failed",
			slog.String("error", err.Error()),
		)

		return
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("logout request failed",
			slog.String("error", err.Error()),
		)

		return
	}
	defer resp.Body.Close()

	var lr logoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		s.logger.Warn("decoding logout response failed",
			slog.String("error", err.Error()),
		)

		return
	}

	if lr.Result != ResultOK || !lr.AuthDeleted {
		s.logger.Warn("server did not delete session token",
			slog.Int("result", int(lr.Result)),
		)

		return
	}

	s.logger.Debug("session token invalidated")
}
