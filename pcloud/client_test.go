package pcloud

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger returns a Debug-level slog.Logger writing to t.Log, so request
// activity shows up with -v.
func testLogger(t *testing.T) *slog.Logger {
	t.Helper()

	return slog.New(slog.NewTextHandler(testLogWriter{t: t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// testLogWriter adapts testing.T.Log to io.Writer for slog output.
type testLogWriter struct {
	t *testing.T
}

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))

	return len(p), nil
}

// newTestClient returns an OAuth-constructed client pointed at a test server.
func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	c, err := NewWithOAuth(baseURL, "test-token", WithLogger(testLogger(t)))
	require.NoError(t, err)

	return c
}

// newSessionClient logs in against a test server and returns the client.
// The server must answer userinfo?getauth=1.
func newSessionClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	c, err := NewWithUsernameAndPassword(context.Background(), baseURL,
		"user@example.com", "hunter2", WithLogger(testLogger(t)))
	require.NoError(t, err)

	return c
}

func TestNewWithOAuth_NoNetwork(t *testing.T) {
	var calls int
	hc := &http.Client{Transport: roundTripFunc(func(_ *http.Request) (*http.Response, error) {
		calls++

		return nil, io.ErrUnexpectedEOF
	})}

	c, err := NewWithOAuth(HostEU, "tok", WithHTTPClient(hc))
	require.NoError(t, err)
	assert.Equal(t, 0, calls, "construction must not touch the network")
	assert.Equal(t, HostEU, c.Host())
}

// roundTripFunc adapts a function to http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestNewWithOAuth_EmptyToken(t *testing.T) {
	_, err := NewWithOAuth(HostUS, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestNewWithOAuth_MalformedHost(t *testing.T) {
	for _, host := range []string{"", "api.pcloud.com", "https://", "://bad"} {
		_, err := NewWithOAuth(host, "tok")
		assert.ErrorIs(t, err, ErrConfiguration, "host %q", host)
	}
}

func TestNewWithOAuth_BearerHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Empty(t, r.URL.Query().Get("auth"))

		fmt.Fprint(w, `{"result": 0, "email": "me@example.com"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	ui, err := client.GetUserInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", ui.Email)
}

func TestNewWithUsernameAndPassword_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/userinfo", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("getauth"))
		assert.Equal(t, "user@example.com", r.URL.Query().Get("username"))
		assert.Equal(t, "hunter2", r.URL.Query().Get("password"))

		fmt.Fprint(w, `{"result": 0, "auth": "session-abc", "userid": 42}`)
	}))
	defer srv.Close()

	c := newSessionClient(t, srv.URL)
	require.NotNil(t, c.session)
	assert.Equal(t, "session-abc", c.session.token)
}

func TestNewWithUsernameAndPassword_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"result": 2000, "error": "Log in failed."}`)
	}))
	defer srv.Close()

	_, err := NewWithUsernameAndPassword(context.Background(), srv.URL, "user", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthentication)

	var re *ResultError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ResultLoginFailed, re.Code)
}

func TestNewWithUsernameAndPassword_MissingToken(t *testing.T) {
	// A result 0 answer without an auth field is a protocol violation.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"result": 0, "userid": 42}`)
	}))
	defer srv.Close()

	_, err := NewWithUsernameAndPassword(context.Background(), srv.URL, "user", "pass")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestSessionAuth_QueryParameter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("getauth") == "1" {
			fmt.Fprint(w, `{"result": 0, "auth": "session-abc"}`)

			return
		}

		assert.Equal(t, "session-abc", r.URL.Query().Get("auth"))
		assert.Empty(t, r.Header.Get("Authorization"))

		fmt.Fprint(w, `{"result": 0, "email": "me@example.com"}`)
	}))
	defer srv.Close()

	c := newSessionClient(t, srv.URL)

	_, err := c.GetUserInfo(context.Background())
	require.NoError(t, err)
}

func TestCall_ResultClassification(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		sentinel error
		code     Result
	}{
		{"login required", `{"result": 1000}`, ErrAuthentication, ResultLogInRequired},
		{"access denied", `{"result": 2003}`, ErrAuthentication, ResultAccessDenied},
		{"too many logins", `{"result": 4000}`, ErrAuthentication, ResultTooManyLogins},
		{"not found", `{"result": 2005}`, ErrServer, ResultDirectoryDoesNotExist},
		{"internal error", `{"result": 5000}`, ErrServer, ResultInternalError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			client := newTestClient(t, srv.URL)
			_, err := client.GetUserInfo(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.sentinel)

			var re *ResultError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tc.code, re.Code)
		})
	}
}

func TestDo_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.GetUserInfo(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServer)
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // connection refused from here on

	client := newTestClient(t, srv.URL)
	_, err := client.GetUserInfo(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestDo_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(t, srv.URL)
	_, err := client.GetUserInfo(ctx)
	require.Error(t, err)
	// Cancellation is a transport failure and still matches the context error.
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCall_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"result": `)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.GetUserInfo(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestNearestServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/getapiserver", r.URL.Path)

		fmt.Fprint(w, `{"result": 0, "api": ["api-fast.pcloud.com"], "binapi": ["bineapi.pcloud.com"]}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	near, err := client.NearestServer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://api-fast.pcloud.com", near.Host())
	// The original handle is untouched.
	assert.Equal(t, srv.URL, client.Host())
}

func TestNearestServer_NoAlternative(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"result": 0, "api": []}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	near, err := client.NearestServer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, srv.URL, near.Host())
}

func TestEndToEnd_UploadDownloadRoundtrip(t *testing.T) {
	// One TLS server plays API and content host; download links are always
	// https.
	stored := map[string][]byte{}

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/userinfo":
			fmt.Fprint(w, `{"result": 0, "auth": "session-abc"}`)
		case "/uploadfile":
			mr, err := r.MultipartReader()
			require.NoError(t, err)

			part, err := mr.NextPart()
			require.NoError(t, err)

			body, err := io.ReadAll(part)
			require.NoError(t, err)

			stored[part.FileName()] = body

			fmt.Fprintf(w, `{"result": 0, "fileids": [1], "metadata": [{"name": %q, "fileid": 1}]}`, part.FileName())
		case "/getfilelink":
			host := r.Host

			fmt.Fprintf(w, `{"result": 0, "path": "/content/test.txt", "hosts": [%q]}`, host)
		case "/content/test.txt":
			w.Write(stored["test.txt"])
		case "/logout":
			fmt.Fprint(w, `{"result": 0, "auth_deleted": true}`)
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c, err := NewWithUsernameAndPassword(context.Background(), srv.URL,
		"user@example.com", "secret",
		WithLogger(testLogger(t)),
		WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	defer c.Close()

	folder, err := FolderPath("/test-folder")
	require.NoError(t, err)

	res, err := c.UploadFileIntoFolder(folder).
		WithFileContent("test.txt", []byte("hello")).
		Upload(context.Background())
	require.NoError(t, err)

	outcomes := res.Outcomes()
	require.Len(t, outcomes, 1)
	require.False(t, outcomes[0].Conflicted)

	var buf strings.Builder

	_, err = c.WriteFileTo(context.Background(), FileID(outcomes[0].FileID), &buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", buf.String())
}

func TestClose_OAuthIsNoop(t *testing.T) {
	client := newTestClient(t, "https://api.pcloud.com")
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
}
