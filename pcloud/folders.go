package pcloud

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
)

// ListFolderBuilder prepares a listfolder request.
type ListFolderBuilder struct {
	c           *Client
	folder      Folder
	recursive   bool
	showDeleted bool
	noFiles     bool
	noShares    bool
}

// ListFolder starts building a listing of the given folder's contents.
func (c *Client) ListFolder(folder Folder) *ListFolderBuilder {
	return &ListFolderBuilder{c: c, folder: folder}
}

// Recursive includes the contents of all subfolders.
func (b *ListFolderBuilder) Recursive(v bool) *ListFolderBuilder {
	b.recursive = v

	return b
}

// ShowDeleted includes entries deleted but still restorable.
func (b *ListFolderBuilder) ShowDeleted(v bool) *ListFolderBuilder {
	b.showDeleted = v

	return b
}

// NoFiles restricts the listing to folder entries.
func (b *ListFolderBuilder) NoFiles(v bool) *ListFolderBuilder {
	b.noFiles = v

	return b
}

// NoShares excludes entries shared into the account.
func (b *ListFolderBuilder) NoShares(v bool) *ListFolderBuilder {
	b.noShares = v

	return b
}

// Get fetches the folder metadata; children are in Metadata.Contents.
func (b *ListFolderBuilder) Get(ctx context.Context) (*Metadata, error) {
	q := url.Values{}
	b.folder.addTo(q)

	if b.recursive {
		q.Set("recursive", "1")
	}

	if b.showDeleted {
		q.Set("showdeleted", "1")
	}

	if b.noFiles {
		q.Set("nofiles", "1")
	}

	if b.noShares {
		q.Set("noshares", "1")
	}

	b.c.logger.Debug("listing folder",
		slog.String("folder", b.folder.String()),
	)

	var res statResult
	if err := b.c.getJSON(ctx, "listfolder", q, &res); err != nil {
		return nil, err
	}

	return res.Metadata, nil
}

// CreateFolderBuilder prepares a createfolder request.
type CreateFolderBuilder struct {
	c           *Client
	parent      Folder
	name        string
	ifNotExists bool
}

// CreateFolder starts building a folder creation under the given parent.
// By default an existing folder of the same name is returned instead of
// failing; see IfNotExists.
func (c *Client) CreateFolder(parent Folder, name string) *CreateFolderBuilder {
	return &CreateFolderBuilder{c: c, parent: parent, name: name, ifNotExists: true}
}

// IfNotExists controls the collision behavior. When false, creating a
// folder whose name already exists fails with a server error.
func (b *CreateFolderBuilder) IfNotExists(v bool) *CreateFolderBuilder {
	b.ifNotExists = v

	return b
}

// Create performs the creation and returns the folder's metadata, which for
// the default policy may describe a pre-existing folder.
func (b *CreateFolderBuilder) Create(ctx context.Context) (*Metadata, error) {
	if b.name == "" {
		return nil, fmt.Errorf("pcloud: empty folder name: %w", ErrConfiguration)
	}

	q := url.Values{}
	b.parent.addTo(q)
	q.Set("name", b.name)

	endpoint := "createfolder"
	if b.ifNotExists {
		endpoint = "createfolderifnotexists"
	}

	b.c.logger.Debug("creating folder",
		slog.String("parent", b.parent.String()),
		slog.String("name", b.name),
	)

	var res statResult
	if err := b.c.postJSON(ctx, endpoint, q, &res); err != nil {
		return nil, err
	}

	return res.Metadata, nil
}

// DeleteFolderBuilder prepares a folder deletion.
type DeleteFolderBuilder struct {
	c      *Client
	folder Folder
}

// DeleteFolder starts building a deletion of the given folder. The terminal
// call chooses between the empty-only and recursive variants.
func (c *Client) DeleteFolder(folder Folder) *DeleteFolderBuilder {
	return &DeleteFolderBuilder{c: c, folder: folder}
}

// DeleteIfEmpty removes the folder only when it has no contents.
func (b *DeleteFolderBuilder) DeleteIfEmpty(ctx context.Context) (*Metadata, error) {
	q := url.Values{}
	b.folder.addTo(q)

	b.c.logger.Debug("deleting empty folder",
		slog.String("folder", b.folder.String()),
	)

	var res statResult
	if err := b.c.postJSON(ctx, "deletefolder", q, &res); err != nil {
		return nil, err
	}

	return res.Metadata, nil
}

// DeleteRecursive removes the folder and everything under it, reporting how
// many files and folders were removed. Cannot be undone.
func (b *DeleteFolderBuilder) DeleteRecursive(ctx context.Context) (*FolderDeleted, error) {
	q := url.Values{}
	b.folder.addTo(q)

	b.c.logger.Debug("deleting folder recursively",
		slog.String("folder", b.folder.String()),
	)

	var res FolderDeleted
	if err := b.c.postJSON(ctx, "deletefolderrecursive", q, &res); err != nil {
		return nil, err
	}

	return &res, nil
}

// CopyFolderBuilder prepares a copyfolder request.
type CopyFolderBuilder struct {
	c               *Client
	src             Folder
	dst             Folder
	overwrite       bool
	skipExisting    bool
	copyContentOnly bool
}

// CopyFolder starts building a copy of src into the dst folder.
// Existing destination files are overwritten by default.
func (c *Client) CopyFolder(src, dst Folder) *CopyFolderBuilder {
	return &CopyFolderBuilder{c: c, src: src, dst: dst, overwrite: true}
}

// Overwrite controls whether existing destination files are replaced.
// When disabled the copy fails on the first collision unless SkipExisting
// is set.
func (b *CopyFolderBuilder) Overwrite(v bool) *CopyFolderBuilder {
	b.overwrite = v

	return b
}

// SkipExisting silently skips destination files that already exist instead
// of failing.
func (b *CopyFolderBuilder) SkipExisting(v bool) *CopyFolderBuilder {
	b.skipExisting = v

	return b
}

// CopyContentOnly copies the folder's contents into dst rather than the
// folder itself.
func (b *CopyFolderBuilder) CopyContentOnly(v bool) *CopyFolderBuilder {
	b.copyContentOnly = v

	return b
}

// Copy performs the copy and returns the destination metadata.
func (b *CopyFolderBuilder) Copy(ctx context.Context) (*Metadata, error) {
	q := url.Values{}
	b.src.addTo(q)
	b.dst.addTarget(q)

	if !b.overwrite {
		q.Set("noover", "1")
	}

	if b.skipExisting {
		q.Set("skipexisting", "1")
	}

	if b.copyContentOnly {
		q.Set("copycontentonly", "1")
	}

	b.c.logger.Debug("copying folder",
		slog.String("source", b.src.String()),
		slog.String("target", b.dst.String()),
	)

	var res statResult
	if err := b.c.postJSON(ctx, "copyfolder", q, &res); err != nil {
		return nil, err
	}

	return res.Metadata, nil
}

// MoveFolderBuilder prepares a renamefolder request; the endpoint covers
// both moving and renaming.
type MoveFolderBuilder struct {
	c       *Client
	src     Folder
	dst     Folder
	newName string
}

// MoveFolder starts building a move of src into the dst folder.
func (c *Client) MoveFolder(src, dst Folder) *MoveFolderBuilder {
	return &MoveFolderBuilder{c: c, src: src, dst: dst}
}

// WithNewName renames the folder while moving it.
func (b *MoveFolderBuilder) WithNewName(name string) *MoveFolderBuilder {
	b.newName = name

	return b
}

// Move performs the move and returns the folder's new metadata.
func (b *MoveFolderBuilder) Move(ctx context.Context) (*Metadata, error) {
	q := url.Values{}
	b.src.addTo(q)
	b.dst.addTarget(q)

	if b.newName != "" {
		q.Set("toname", b.newName)
	}

	b.c.logger.Debug("moving folder",
		slog.String("source", b.src.String()),
		slog.String("target", b.dst.String()),
	)

	var res statResult
	if err := b.c.postJSON(ctx, "renamefolder", q, &res); err != nil {
		return nil, err
	}

	return res.Metadata, nil
}
