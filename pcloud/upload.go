package pcloud

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// uploadFile is one accumulated (name, payload) pair.
type uploadFile struct {
	name string
	body io.Reader
}

// UploadBuilder accumulates files and flags for a single multipart upload
// request. Builders are single-use: after Upload returns, the builder is
// spent and a fresh one must be created. Not safe for concurrent use.
type UploadBuilder struct {
	c      *Client
	folder Folder
	files  []uploadFile

	renameIfExists bool
	noPartial      bool
	mtime          time.Time
	ctime          time.Time
	executed       bool
}

// UploadFileIntoFolder starts building an upload into the given folder.
// Defaults: colliding names are auto-renamed by the server
// (RenameIfExists true) and partially transferred files are discarded
// (NoPartial true). Auto-rename is the default because overwriting on
// collision silently loses data.
func (c *Client) UploadFileIntoFolder(folder Folder) *UploadBuilder {
	return &UploadBuilder{
		c:              c,
		folder:         folder,
		renameIfExists: true,
		noPartial:      true,
	}
}

// WithFile appends one named payload. May be called any number of times;
// all accumulated files travel together in one request, in insertion
// order. Names need not be unique — collision policy is the server's.
func (b *UploadBuilder) WithFile(name string, body io.Reader) *UploadBuilder {
	b.files = append(b.files, uploadFile{name: name, body: body})

	return b
}

// WithFileContent appends one named in-memory payload.
func (b *UploadBuilder) WithFileContent(name string, data []byte) *UploadBuilder {
	return b.WithFile(name, bytes.NewReader(data))
}

// RenameIfExists overrides the name-conflict policy. When false, a
// colliding file is reported as a per-file conflict outcome instead of
// being renamed.
func (b *UploadBuilder) RenameIfExists(v bool) *UploadBuilder {
	b.renameIfExists = v

	return b
}

// NoPartial controls whether partially uploaded files are kept (default:
// discarded).
func (b *UploadBuilder) NoPartial(v bool) *UploadBuilder {
	b.noPartial = v

	return b
}

// MTime sets the modification time recorded for the uploaded files.
func (b *UploadBuilder) MTime(t time.Time) *UploadBuilder {
	b.mtime = t

	return b
}

// CTime sets the creation time recorded for the uploaded files.
// The server requires MTime to be set as well.
func (b *UploadBuilder) CTime(t time.Time) *UploadBuilder {
	b.ctime = t

	return b
}

// Upload assembles one multipart request carrying every accumulated file
// and submits it. With no files accumulated it returns an empty result
// without touching the network. The builder cannot be reused afterwards.
func (b *UploadBuilder) Upload(ctx context.Context) (*UploadResult, error) {
	if b.executed {
		return nil, fmt.Errorf("pcloud: upload builder already executed: %w", ErrConfiguration)
	}

	b.executed = true

	if len(b.files) == 0 {
		b.c.logger.Debug("upload requested with no files, skipping request")

		return &UploadResult{}, nil
	}

	q := url.Values{}
	b.folder.addTo(q)

	if b.noPartial {
		q.Set("nopartial", "1")
	}

	if b.renameIfExists {
		q.Set("renameifexists", "1")
	}

	if !b.mtime.IsZero() {
		q.Set("mtime", strconv.FormatInt(b.mtime.Unix(), 10))
	}

	if !b.ctime.IsZero() {
		q.Set("ctime", strconv.FormatInt(b.ctime.Unix(), 10))
	}

	b.c.logger.Debug("uploading files",
		slog.String("folder", b.folder.String()),
		slog.Int("count", len(b.files)),
	)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	// Stream the multipart body while the request is in flight, so large
	// payloads never have to fit in memory.
	go func() {
		for _, f := range b.files {
			part, err := mw.CreateFormFile("part", f.name)
			if err != nil {
				pw.CloseWithError(err)

				return
			}

			if _, err := io.Copy(part, f.body); err != nil {
				pw.CloseWithError(err)

				return
			}
		}

		pw.CloseWithError(mw.Close())
	}()

	var res UploadResult
	if err := b.c.call(ctx, http.MethodPost, "uploadfile", q, pr, mw.FormDataContentType(), &res); err != nil {
		return nil, err
	}

	return &res, nil
}

// UploadOutcome is the independent result of one uploaded file. A batch can
// partially succeed: each file either got stored under an id or was
// refused, without failing its siblings.
type UploadOutcome struct {
	// Name as reported by the server; differs from the requested name when
	// the server auto-renamed on collision.
	Name     string
	FileID   uint64
	Metadata *Metadata
	// Conflicted marks a file the server refused to store, typically a
	// name collision with auto-rename disabled.
	Conflicted bool
}

// Outcomes pairs the per-file metadata and fileid lists of the response
// into one entry per uploaded file, in upload order.
func (r *UploadResult) Outcomes() []UploadOutcome {
	outcomes := make([]UploadOutcome, 0, len(r.Metadata))

	for i := range r.Metadata {
		var id uint64
		if i < len(r.FileIDs) {
			id = r.FileIDs[i]
		}

		outcomes = append(outcomes, UploadOutcome{
			Name:       r.Metadata[i].Name,
			FileID:     id,
			Metadata:   &r.Metadata[i],
			Conflicted: id == 0,
		})
	}

	return outcomes
}
