package pcloud

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stat", r.URL.Path)
		assert.Equal(t, "99", r.URL.Query().Get("fileid"))

		fmt.Fprint(w, `{"result": 0, "metadata": {"name": "a.txt", "fileid": 99, "size": 5, "hash": 12345}}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	meta, err := client.StatFile(FileID(99)).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a.txt", meta.Name)
	assert.Equal(t, int64(5), meta.Size)
	assert.Equal(t, uint64(12345), meta.Hash)
}

func TestStatFile_Revision(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("revisionid"))

		fmt.Fprint(w, `{"result": 0, "metadata": {"name": "a.txt", "fileid": 99}}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.StatFile(FileID(99)).WithRevision(3).Get(context.Background())
	require.NoError(t, err)
}

func TestStatFile_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"result": 2009, "error": "File not found."}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.StatFile(FileID(99)).Get(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServer)

	var re *ResultError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ResultFileNotFound, re.Code)
}

func TestDeleteFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/deletefile", r.URL.Path)
		assert.Equal(t, "99", r.URL.Query().Get("fileid"))

		fmt.Fprint(w, `{"result": 0, "metadata": {"name": "a.txt", "fileid": 99, "isdeleted": true}}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	meta, err := client.DeleteFile(context.Background(), FileID(99))
	require.NoError(t, err)
	assert.True(t, meta.IsDeleted)
}

func TestListRevisions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/listrevisions", r.URL.Path)

		fmt.Fprint(w, `{"result": 0, "revisions": [
			{"revisionid": 1, "size": 5, "hash": 111},
			{"revisionid": 2, "size": 7, "hash": 222}
		]}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	revs, err := client.ListRevisions(context.Background(), FileID(99))
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, uint64(1), revs[0].RevisionID)
	assert.Equal(t, int64(7), revs[1].Size)
}

func TestCopyFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/copyfile", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "99", q.Get("fileid"))
		assert.Equal(t, "7", q.Get("tofolderid"))
		assert.Equal(t, "copy.txt", q.Get("toname"))
		assert.Empty(t, q.Get("noover"))

		fmt.Fprint(w, `{"result": 0, "metadata": {"name": "copy.txt", "fileid": 100}}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	meta, err := client.CopyFile(FileID(99), FolderID(7)).
		WithNewName("copy.txt").
		Copy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(100), meta.FileID)
}

func TestCopyFile_NoOverwrite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("noover"))
		assert.Equal(t, "3", r.URL.Query().Get("revisionid"))

		fmt.Fprint(w, `{"result": 0, "metadata": {"name": "a.txt", "fileid": 100}}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.CopyFile(FileID(99), FolderID(7)).
		Overwrite(false).
		WithRevision(3).
		Copy(context.Background())
	require.NoError(t, err)
}

func TestMoveFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/renamefile", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "99", q.Get("fileid"))
		assert.Equal(t, "/archive", q.Get("topath"))
		assert.Equal(t, "old.txt", q.Get("toname"))

		fmt.Fprint(w, `{"result": 0, "metadata": {"name": "old.txt", "fileid": 99}}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	dst, err := FolderPath("/archive")
	require.NoError(t, err)

	meta, err := client.MoveFile(FileID(99), dst).
		WithNewName("old.txt").
		Move(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "old.txt", meta.Name)
}
