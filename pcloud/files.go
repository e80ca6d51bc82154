package pcloud

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"time"
)

// StatFileBuilder prepares a stat request.
type StatFileBuilder struct {
	c        *Client
	file     File
	revision uint64
}

// StatFile starts building a metadata lookup for the given file.
func (c *Client) StatFile(file File) *StatFileBuilder {
	return &StatFileBuilder{c: c, file: file}
}

// WithRevision requests metadata of a specific stored revision.
func (b *StatFileBuilder) WithRevision(id uint64) *StatFileBuilder {
	b.revision = id

	return b
}

// Get fetches the metadata.
func (b *StatFileBuilder) Get(ctx context.Context) (*Metadata, error) {
	q := url.Values{}
	b.file.addTo(q)

	if b.revision != 0 {
		q.Set("revisionid", strconv.FormatUint(b.revision, 10))
	}

	var res statResult
	if err := b.c.getJSON(ctx, "stat", q, &res); err != nil {
		return nil, err
	}

	return res.Metadata, nil
}

// DeleteFile removes the given file and returns its last metadata.
func (c *Client) DeleteFile(ctx context.Context, file File) (*Metadata, error) {
	q := url.Values{}
	file.addTo(q)

	c.logger.Debug("deleting file",
		slog.String("file", file.String()),
	)

	var res statResult
	if err := c.postJSON(ctx, "deletefile", q, &res); err != nil {
		return nil, err
	}

	return res.Metadata, nil
}

// ListRevisions returns the stored revisions of the given file, oldest
// first.
func (c *Client) ListRevisions(ctx context.Context, file File) ([]Revision, error) {
	q := url.Values{}
	file.addTo(q)

	var res revisionList
	if err := c.getJSON(ctx, "listrevisions", q, &res); err != nil {
		return nil, err
	}

	return res.Revisions, nil
}

// CopyFileBuilder prepares a copyfile request.
type CopyFileBuilder struct {
	c         *Client
	src       File
	dst       Folder
	newName   string
	overwrite bool
	revision  uint64
	mtime     time.Time
	ctime     time.Time
}

// CopyFile starts building a copy of src into the dst folder. An existing
// destination file is overwritten by default.
func (c *Client) CopyFile(src File, dst Folder) *CopyFileBuilder {
	return &CopyFileBuilder{c: c, src: src, dst: dst, overwrite: true}
}

// WithNewName stores the copy under a different name.
func (b *CopyFileBuilder) WithNewName(name string) *CopyFileBuilder {
	b.newName = name

	return b
}

// Overwrite controls whether an existing destination file is replaced.
// When disabled a collision fails with a server error.
func (b *CopyFileBuilder) Overwrite(v bool) *CopyFileBuilder {
	b.overwrite = v

	return b
}

// WithRevision copies a specific stored revision instead of the current
// content.
func (b *CopyFileBuilder) WithRevision(id uint64) *CopyFileBuilder {
	b.revision = id

	return b
}

// MTime sets the modification time recorded for the copy.
func (b *CopyFileBuilder) MTime(t time.Time) *CopyFileBuilder {
	b.mtime = t

	return b
}

// CTime sets the creation time recorded for the copy. The server requires
// MTime to be set as well.
func (b *CopyFileBuilder) CTime(t time.Time) *CopyFileBuilder {
	b.ctime = t

	return b
}

// Copy performs the copy and returns the new file's metadata.
func (b *CopyFileBuilder) Copy(ctx context.Context) (*Metadata, error) {
	q := url.Values{}
	b.src.addTo(q)
	b.dst.addTarget(q)

	if b.newName != "" {
		q.Set("toname", b.newName)
	}

	if !b.overwrite {
		q.Set("noover", "1")
	}

	if b.revision != 0 {
		q.Set("revisionid", strconv.FormatUint(b.revision, 10))
	}

	if !b.mtime.IsZero() {
		q.Set("mtime", strconv.FormatInt(b.mtime.Unix(), 10))
	}

	if !b.ctime.IsZero() {
		q.Set("ctime", strconv.FormatInt(b.ctime.Unix(), 10))
	}

	b.c.logger.Debug("copying file",
		slog.String("source", b.src.String()),
		slog.String("target", b.dst.String()),
	)

	var res statResult
	if err := b.c.postJSON(ctx, "copyfile", q, &res); err != nil {
		return nil, err
	}

	return res.Metadata, nil
}

// MoveFileBuilder prepares a renamefile request; the endpoint covers both
// moving and renaming.
type MoveFileBuilder struct {
	c       *Client
	src     File
	dst     Folder
	newName string
}

// MoveFile starts building a move of src into the dst folder.
func (c *Client) MoveFile(src File, dst Folder) *MoveFileBuilder {
	return &MoveFileBuilder{c: c, src: src, dst: dst}
}

// WithNewName renames the file while moving it.
func (b *MoveFileBuilder) WithNewName(name string) *MoveFileBuilder {
	b.newName = name

	return b
}

// Move performs the move and returns the file's new metadata.
func (b *MoveFileBuilder) Move(ctx context.Context) (*Metadata, error) {
	q := url.Values{}
	b.src.addTo(q)
	b.dst.addTarget(q)

	if b.newName != "" {
		q.Set("toname", b.newName)
	}

	b.c.logger.Debug("moving file",
		slog.String("source", b.src.String()),
		slog.String("target", b.dst.String()),
	)

	var res statResult
	if err := b.c.postJSON(ctx, "renamefile", q, &res); err != nil {
		return nil, err
	}

	return res.Metadata, nil
}
