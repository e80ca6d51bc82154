package pcloud

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tree selects a set of remote files and folders, with optional exclusions,
// for operations acting on many entries at once.
type Tree struct {
	FolderIDs        []uint64
	FileIDs          []uint64
	ExcludeFolderIDs []uint64
	ExcludeFileIDs   []uint64
}

func joinIDs(ids []uint64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatUint(id, 10))
	}

	return strings.Join(parts, ",")
}

func (t Tree) addTo(q url.Values) {
	if len(t.FolderIDs) > 0 {
		q.Set("folderids", joinIDs(t.FolderIDs))
	}

	if len(t.FileIDs) > 0 {
		q.Set("fileids", joinIDs(t.FileIDs))
	}

	if len(t.ExcludeFolderIDs) > 0 {
		q.Set("excludefolderids", joinIDs(t.ExcludeFolderIDs))
	}

	if len(t.ExcludeFileIDs) > 0 {
		q.Set("excludefileids", joinIDs(t.ExcludeFileIDs))
	}
}

func (t Tree) empty() bool {
	return len(t.FolderIDs) == 0 && len(t.FileIDs) == 0
}

// saveZipPollInterval is how often progress is polled during
// ExecuteWithProgress.
const saveZipPollInterval = 500 * time.Millisecond

// SaveZipBuilder prepares a savezip request, which packs a Tree into a zip
// archive stored inside the account.
type SaveZipBuilder struct {
	c      *Client
	tree   Tree
	toPath string
	dst    Folder
	toName string
}

// SaveZip starts building a server-side zip of the given tree. A
// destination must be set via ToPath or ToFolder before executing.
func (c *Client) SaveZip(tree Tree) *SaveZipBuilder {
	return &SaveZipBuilder{c: c, tree: tree}
}

// ToPath stores the archive at the given absolute path.
func (b *SaveZipBuilder) ToPath(path string) *SaveZipBuilder {
	b.toPath = path

	return b
}

// ToFolder stores the archive under the given name in the given folder.
func (b *SaveZipBuilder) ToFolder(dst Folder, name string) *SaveZipBuilder {
	b.dst = dst
	b.toName = name

	return b
}

func (b *SaveZipBuilder) query() (url.Values, error) {
	if b.tree.empty() {
		return nil, fmt.Errorf("pcloud: zip tree selects nothing: %w", ErrConfiguration)
	}

	q := url.Values{}
	b.tree.addTo(q)

	switch {
	case b.toPath != "":
		q.Set("topath", b.toPath)
	case b.toName != "":
		b.dst.addTarget(q)
		q.Set("toname", b.toName)
	default:
		return nil, fmt.Errorf("pcloud: zip destination not set: %w", ErrConfiguration)
	}

	return q, nil
}

// Execute creates the archive and returns its metadata. The call blocks
// until the archive is fully written.
func (b *SaveZipBuilder) Execute(ctx context.Context) (*Metadata, error) {
	q, err := b.query()
	if err != nil {
		return nil, err
	}

	b.c.logger.Debug("creating zip archive")

	var res statResult
	if err := b.c.postJSON(ctx, "savezip", q, &res); err != nil {
		return nil, err
	}

	return res.Metadata, nil
}

// ExecuteWithProgress creates the archive while reporting progress on the
// returned channel, which is closed when the operation finishes. The final
// metadata or error arrives on the second channel (capacity one).
func (b *SaveZipBuilder) ExecuteWithProgress(ctx context.Context) (<-chan SaveZipProgress, <-chan error, func() (*Metadata, error)) {
	progress := make(chan SaveZipProgress)
	errc := make(chan error, 1)
	done := make(chan struct{})

	var (
		meta    *Metadata
		execErr error
	)

	q, err := b.query()
	if err != nil {
		close(progress)
		errc <- err
		close(errc)
		close(done)

		return progress, errc, func() (*Metadata, error) { return nil, err }
	}

	hash := uuid.NewString()
	q.Set("progresshash", hash)

	go func() {
		defer close(done)

		var res statResult
		if err := b.c.postJSON(ctx, "savezip", q, &res); err != nil {
			execErr = err

			return
		}

		meta = res.Metadata
	}()

	go func() {
		defer close(progress)
		defer close(errc)

		ticker := time.NewTicker(saveZipPollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				if execErr != nil {
					errc <- execErr
				}

				return
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			pq := url.Values{}
			pq.Set("progresshash", hash)

			var p SaveZipProgress
			if err := b.c.getJSON(ctx, "savezipprogress", pq, &p); err != nil {
				// Progress polling is advisory; the archive request itself
				// decides success or failure.
				b.c.logger.Debug("zip progress poll failed",
					slog.String("error", err.Error()),
				)

				continue
			}

			select {
			case progress <- p:
			case <-done:
				if execErr != nil {
					errc <- execErr
				}

				return
			case <-ctx.Done():
				return
			}
		}
	}()

	wait := func() (*Metadata, error) {
		<-done

		return meta, execErr
	}

	return progress, errc, wait
}
