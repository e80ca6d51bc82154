package pcloud

import (
	"encoding/json"
	"fmt"
	"time"
)

// timeLayout is the timestamp format used by the pCloud API, e.g.
// "Thu, 01 Jan 2020 00:00:00 +0000".
const timeLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

// Timestamp is a time.Time that (un)marshals using the pCloud wire format.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("pcloud: decoding timestamp: %w", err)
	}

	if s == "" {
		t.Time = time.Time{}

		return nil
	}

	parsed, err := time.Parse(timeLayout, s)
	if err != nil {
		return fmt.Errorf("pcloud: parsing timestamp %q: %w", s, err)
	}

	t.Time = parsed

	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(timeLayout))
}

// formatTime renders a time in the format the API expects in query parameters.
func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// apiResult is embedded in every response type to carry the numeric result
// code. Decoded responses are checked via the resulter interface.
type apiResult struct {
	Result Result `json:"result"`
}

func (r apiResult) resultCode() Result {
	return r.Result
}

// resulter is implemented by response types carrying a result code.
type resulter interface {
	resultCode() Result
}

// Metadata describes a single file or folder as reported by the server.
// Folder listings carry child entries in Contents.
type Metadata struct {
	Name           string     `json:"name"`
	ID             string     `json:"id"`
	ParentFolderID uint64     `json:"parentfolderid"`
	IsFolder       bool       `json:"isfolder"`
	IsMine         bool       `json:"ismine"`
	IsShared       bool       `json:"isshared"`
	IsDeleted      bool       `json:"isdeleted"`
	FolderID       uint64     `json:"folderid"`
	FileID         uint64     `json:"fileid"`
	Size           int64      `json:"size"`
	ContentType    string     `json:"contenttype"`
	Hash           uint64     `json:"hash"`
	Icon           string     `json:"icon"`
	Category       int        `json:"category"`
	Thumb          bool       `json:"thumb"`
	Path           string     `json:"path"`
	Created        Timestamp  `json:"created"`
	Modified       Timestamp  `json:"modified"`
	Contents       []Metadata `json:"contents"`
}

// statResult is the wire shape of every endpoint answering with a single
// metadata object (stat, createfolder, copyfile, ...).
type statResult struct {
	apiResult
	Metadata *Metadata `json:"metadata"`
}

// UserInfo is the decoded answer of the userinfo endpoint. Auth is only
// present when the request asked for a session token (getauth=1).
type UserInfo struct {
	apiResult
	Auth          string    `json:"auth"`
	UserID        uint64    `json:"userid"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailverified"`
	Registered    Timestamp `json:"registered"`
	Language      string    `json:"language"`
	Premium       bool      `json:"premium"`
	UsedQuota     uint64    `json:"usedquota"`
	Quota         uint64    `json:"quota"`
}

// DownloadLink is the decoded answer of getfilelink / getpublinkdownload.
// The content lives at https://<hosts[0]><path>; see URL().
type DownloadLink struct {
	apiResult
	Path    string    `json:"path"`
	Expires Timestamp `json:"expires"`
	Hosts   []string  `json:"hosts"`
}

// URL assembles the download URL from the first (best) host.
func (l *DownloadLink) URL() (string, error) {
	if len(l.Hosts) == 0 || l.Path == "" {
		return "", fmt.Errorf("pcloud: download link missing host or path: %w", ErrServer)
	}

	return "https://" + l.Hosts[0] + l.Path, nil
}

// FileChecksums is the decoded answer of checksumfile. Which digest fields
// are populated depends on the API region, not on the client; see Region.
type FileChecksums struct {
	apiResult
	Metadata *Metadata `json:"metadata"`
	SHA1     string    `json:"sha1"`
	MD5      string    `json:"md5"`
	SHA256   string    `json:"sha256"`
}

// UploadResult is the decoded answer of uploadfile. FileIDs and Metadata are
// index-aligned with the order files were added to the builder.
type UploadResult struct {
	apiResult
	FileIDs  []uint64   `json:"fileids"`
	Metadata []Metadata `json:"metadata"`
}

// Revision describes one stored revision of a file.
type Revision struct {
	RevisionID uint64    `json:"revisionid"`
	Size       int64     `json:"size"`
	Hash       uint64    `json:"hash"`
	Created    Timestamp `json:"created"`
}

type revisionList struct {
	apiResult
	Revisions []Revision `json:"revisions"`
}

// FolderDeleted reports the effect of a recursive folder deletion.
type FolderDeleted struct {
	apiResult
	DeletedFiles   uint64 `json:"deletedfiles"`
	DeletedFolders uint64 `json:"deletedfolders"`
}

// PublicFileLink is the decoded answer of getfilepublink.
type PublicFileLink struct {
	apiResult
	LinkID          uint64    `json:"linkid"`
	Code            string    `json:"code"`
	Link            string    `json:"link"`
	ShortCode       string    `json:"shortcode"`
	ShortLink       string    `json:"shortlink"`
	Metadata        *Metadata `json:"metadata"`
	Created         Timestamp `json:"created"`
	Modified        Timestamp `json:"modified"`
	DownloadEnabled bool      `json:"downloadenabled"`
	Downloads       uint64    `json:"downloads"`
}

// DiffEvent is the type tag of one account change event.
type DiffEvent string

// Event types delivered by the diff endpoint.
const (
	EventReset        DiffEvent = "reset"
	EventCreateFolder DiffEvent = "createfolder"
	EventDeleteFolder DiffEvent = "deletefolder"
	EventModifyFolder DiffEvent = "modifyfolder"
	EventCreateFile   DiffEvent = "createfile"
	EventModifyFile   DiffEvent = "modifyfile"
	EventDeleteFile   DiffEvent = "deletefile"
	EventModifyUser   DiffEvent = "modifyuserinfo"
)

// DiffEntry is one event in the account change log.
type DiffEntry struct {
	Time     Timestamp       `json:"time"`
	DiffID   uint64          `json:"diffid"`
	Event    DiffEvent       `json:"event"`
	Metadata *Metadata       `json:"metadata"`
	Share    json.RawMessage `json:"share"`
}

// Diff is the decoded answer of the diff endpoint. DiffID is the cursor to
// pass to the next request.
type Diff struct {
	apiResult
	DiffID  uint64      `json:"diffid"`
	Entries []DiffEntry `json:"entries"`
}

// SaveZipProgress reports the state of a remote zip operation.
type SaveZipProgress struct {
	apiResult
	Files      uint64 `json:"files"`
	TotalFiles uint64 `json:"totalfiles"`
}

type logoutResponse struct {
	apiResult
	AuthDeleted bool `json:"auth_deleted"`
}

type apiServers struct {
	apiResult
	API    []string `json:"api"`
	BinAPI []string `json:"binapi"`
}
