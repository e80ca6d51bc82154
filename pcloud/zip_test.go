package pcloud

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_QueryParameters(t *testing.T) {
	tree := Tree{
		FolderIDs:        []uint64{1, 2},
		FileIDs:          []uint64{10},
		ExcludeFolderIDs: []uint64{3},
		ExcludeFileIDs:   []uint64{11, 12},
	}

	q := url.Values{}
	tree.addTo(q)

	assert.Equal(t, "1,2", q.Get("folderids"))
	assert.Equal(t, "10", q.Get("fileids"))
	assert.Equal(t, "3", q.Get("excludefolderids"))
	assert.Equal(t, "11,12", q.Get("excludefileids"))
}

func TestSaveZip_ToPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/savezip", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "42", q.Get("folderids"))
		assert.Equal(t, "/backup.zip", q.Get("topath"))

		fmt.Fprint(w, `{"result": 0, "metadata": {"name": "backup.zip", "fileid": 500, "size": 1024}}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	meta, err := client.SaveZip(Tree{FolderIDs: []uint64{42}}).
		ToPath("/backup.zip").
		Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(500), meta.FileID)
}

func TestSaveZip_ToFolder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "7", q.Get("tofolderid"))
		assert.Equal(t, "backup.zip", q.Get("toname"))

		fmt.Fprint(w, `{"result": 0, "metadata": {"name": "backup.zip", "fileid": 500}}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.SaveZip(Tree{FileIDs: []uint64{10, 11}}).
		ToFolder(FolderID(7), "backup.zip").
		Execute(context.Background())
	require.NoError(t, err)
}

func TestSaveZip_EmptyTree(t *testing.T) {
	client := newTestClient(t, "https://api.pcloud.com")

	_, err := client.SaveZip(Tree{}).ToPath("/backup.zip").Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestSaveZip_NoDestination(t *testing.T) {
	client := newTestClient(t, "https://api.pcloud.com")

	_, err := client.SaveZip(Tree{FolderIDs: []uint64{42}}).Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestSaveZip_WithProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/savezip":
			assert.NotEmpty(t, r.URL.Query().Get("progresshash"))
			fmt.Fprint(w, `{"result": 0, "metadata": {"name": "backup.zip", "fileid": 500}}`)
		case "/savezipprogress":
			fmt.Fprint(w, `{"result": 0, "files": 3, "totalfiles": 10}`)
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	progress, errc, wait := client.SaveZip(Tree{FolderIDs: []uint64{42}}).
		ToPath("/backup.zip").
		ExecuteWithProgress(context.Background())

	// Drain progress; the archive finishes quickly so there may be no
	// updates at all.
	for range progress { //nolint:revive
	}

	meta, err := wait()
	require.NoError(t, err)
	assert.Equal(t, uint64(500), meta.FileID)
	assert.NoError(t, <-errc)
}

func TestSaveZip_WithProgressInvalid(t *testing.T) {
	client := newTestClient(t, "https://api.pcloud.com")

	progress, errc, wait := client.SaveZip(Tree{}).
		ToPath("/backup.zip").
		ExecuteWithProgress(context.Background())

	for range progress { //nolint:revive
	}

	require.ErrorIs(t, <-errc, ErrConfiguration)

	_, err := wait()
	assert.ErrorIs(t, err, ErrConfiguration)
}
