package pcloud

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
)

// FileLinkBuilder prepares a getfilelink request.
type FileLinkBuilder struct {
	c        *Client
	file     File
	revision uint64
}

// GetFileLink starts building a request for a temporary download link to the
// given file.
func (c *Client) GetFileLink(file File) *FileLinkBuilder {
	return &FileLinkBuilder{c: c, file: file}
}

// WithRevision requests a link to a specific stored revision instead of the
// current content.
func (b *FileLinkBuilder) WithRevision(id uint64) *FileLinkBuilder {
	b.revision = id

	return b
}

// Get fetches the download link.
func (b *FileLinkBuilder) Get(ctx context.Context) (*DownloadLink, error) {
	q := url.Values{}
	b.file.addTo(q)

	if b.revision != 0 {
		q.Set("revisionid", strconv.FormatUint(b.revision, 10))
	}

	b.c.logger.Debug("requesting download link",
		slog.String("file", b.file.String()),
	)

	var link DownloadLink
	if err := b.c.getJSON(ctx, "getfilelink", q, &link); err != nil {
		return nil, err
	}

	return &link, nil
}

// DownloadLink opens the content behind a previously fetched link. The
// caller owns the response body.
func (c *Client) DownloadLink(ctx context.Context, link *DownloadLink) (*http.Response, error) {
	u, err := link.URL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("pcloud: building download request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pcloud: downloading %s: %w", u, &transportError{err: err})
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		resp.Body.Close()

		return nil, fmt.Errorf("pcloud: downloading %s: HTTP %d: %w", u, resp.StatusCode, ErrServer)
	}

	return resp, nil
}

// DownloadFile fetches a download link for the file and opens its content.
// The caller owns the response body.
func (c *Client) DownloadFile(ctx context.Context, file File) (*http.Response, error) {
	link, err := c.GetFileLink(file).Get(ctx)
	if err != nil {
		return nil, err
	}

	return c.DownloadLink(ctx, link)
}

// WriteFileTo streams the file's content into w and returns the number of
// bytes written.
func (c *Client) WriteFileTo(ctx context.Context, file File, w io.Writer) (int64, error) {
	resp, err := c.DownloadFile(ctx, file)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("pcloud: streaming %s: %w", file.String(), &transportError{err: err})
	}

	return n, nil
}

// PublicLinkBuilder prepares a getfilepublink request.
type PublicLinkBuilder struct {
	c           *Client
	file        File
	expire      string
	maxDownload uint64
	maxTraffic  uint64
	password    string
	shortLink   bool
}

// GetFilePubLink starts building a request for a shareable public link to
// the given file.
func (c *Client) GetFilePubLink(file File) *PublicLinkBuilder {
	return &PublicLinkBuilder{c: c, file: file}
}

// ExpireAt limits the link's lifetime.
func (b *PublicLinkBuilder) ExpireAt(t Timestamp) *PublicLinkBuilder {
	b.expire = formatTime(t.Time)

	return b
}

// MaxDownloads limits how often the link may be downloaded.
func (b *PublicLinkBuilder) MaxDownloads(n uint64) *PublicLinkBuilder {
	b.maxDownload = n

	return b
}

// MaxTraffic limits the total bytes served through the link.
func (b *PublicLinkBuilder) MaxTraffic(n uint64) *PublicLinkBuilder {
	b.maxTraffic = n

	return b
}

// WithPassword protects the link with a password.
func (b *PublicLinkBuilder) WithPassword(pw string) *PublicLinkBuilder {
	b.password = pw

	return b
}

// ShortLink additionally requests a short link.
func (b *PublicLinkBuilder) ShortLink(v bool) *PublicLinkBuilder {
	b.shortLink = v

	return b
}

// Get creates the public link.
func (b *PublicLinkBuilder) Get(ctx context.Context) (*PublicFileLink, error) {
	q := url.Values{}
	b.file.addTo(q)

	if b.expire != "" {
		q.Set("expire", b.expire)
	}

	if b.maxDownload != 0 {
		q.Set("maxdownloads", strconv.FormatUint(b.maxDownload, 10))
	}

	if b.maxTraffic != 0 {
		q.Set("maxtraffic", strconv.FormatUint(b.maxTraffic, 10))
	}

	if b.password != "" {
		q.Set("linkpassword", b.password)
	}

	if b.shortLink {
		q.Set("shortlink", "1")
	}

	b.c.logger.Debug("creating public link",
		slog.String("file", b.file.String()),
	)

	var link PublicFileLink
	if err := b.c.getJSON(ctx, "getfilepublink", q, &link); err != nil {
		return nil, err
	}

	return &link, nil
}

// GetPubLinkDownload resolves a public link code into a concrete download
// link. Works without authentication.
func (c *Client) GetPubLinkDownload(ctx context.Context, code string) (*DownloadLink, error) {
	q := url.Values{}
	q.Set("code", code)

	var link DownloadLink
	if err := c.getJSON(ctx, "getpublinkdownload", q, &link); err != nil {
		return nil, err
	}

	return &link, nil
}
