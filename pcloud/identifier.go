package pcloud

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Folder addresses a remote folder either by absolute path or by its numeric
// id (preferred, stable across renames). Exactly one representation is
// carried; the zero value addresses the root folder (id 0).
type Folder struct {
	id     uint64
	path   string
	byPath bool
}

// FolderID addresses a folder by its server-assigned id.
func FolderID(id uint64) Folder {
	return Folder{id: id}
}

// FolderPath addresses a folder by absolute path. The root path "/"
// normalizes to FolderID(0). Paths are not resolved locally; a nonexistent
// path surfaces later as a server error.
func FolderPath(path string) (Folder, error) {
	if path == "/" {
		// Root always has id 0.
		return FolderID(0), nil
	}

	if !strings.HasPrefix(path, "/") {
		return Folder{}, fmt.Errorf("pcloud: folder path %q must be absolute: %w", path, ErrConfiguration)
	}

	return Folder{path: path, byPath: true}, nil
}

// addTo appends the identifier as source parameters (path / folderid).
func (f Folder) addTo(q url.Values) {
	if f.byPath {
		q.Set("path", f.path)

		return
	}

	q.Set("folderid", strconv.FormatUint(f.id, 10))
}

// addTarget appends the identifier as destination parameters
// (topath / tofolderid), used by copy and move operations.
func (f Folder) addTarget(q url.Values) {
	if f.byPath {
		q.Set("topath", f.path)

		return
	}

	q.Set("tofolderid", strconv.FormatUint(f.id, 10))
}

func (f Folder) String() string {
	if f.byPath {
		return f.path
	}

	return "folder #" + strconv.FormatUint(f.id, 10)
}

// File addresses a remote file either by absolute path or by its numeric id
// (preferred). Exactly one representation is carried.
type File struct {
	id     uint64
	path   string
	byPath bool
}

// FileID addresses a file by its server-assigned id.
func FileID(id uint64) File {
	return File{id: id}
}

// FilePath addresses a file by absolute path.
func FilePath(path string) (File, error) {
	if !strings.HasPrefix(path, "/") {
		return File{}, fmt.Errorf("pcloud: file path %q must be absolute: %w", path, ErrConfiguration)
	}

	return File{path: path, byPath: true}, nil
}

// addTo appends the identifier as source parameters (path / fileid).
func (f File) addTo(q url.Values) {
	if f.byPath {
		q.Set("path", f.path)

		return
	}

	q.Set("fileid", strconv.FormatUint(f.id, 10))
}

func (f File) String() string {
	if f.byPath {
		return f.path
	}

	return "file #" + strconv.FormatUint(f.id, 10)
}

// AsFolder converts server metadata back into a folder identifier.
func (m *Metadata) AsFolder() (Folder, error) {
	if !m.IsFolder {
		return Folder{}, fmt.Errorf("pcloud: %q is not a folder: %w", m.Name, ErrConfiguration)
	}

	return FolderID(m.FolderID), nil
}

// AsFile converts server metadata back into a file identifier.
func (m *Metadata) AsFile() (File, error) {
	if m.IsFolder {
		return File{}, fmt.Errorf("pcloud: %q is not a file: %w", m.Name, ErrConfiguration)
	}

	return FileID(m.FileID), nil
}
