package pcloud

import (
	"errors"
	"fmt"
)

// Sentinel errors for the five failure classes of the client.
// Use errors.Is(err, pcloud.ErrAuthentication) to check.
var (
	// ErrConfiguration marks malformed local input: a bad host URL, an
	// identifier path without a leading slash, a reused upload builder.
	// Never caused by the server, never worth retrying.
	ErrConfiguration = errors.New("pcloud: invalid configuration")

	// ErrAuthentication marks a login or credential rejection by the server.
	ErrAuthentication = errors.New("pcloud: authentication failed")

	// ErrTransport marks a network-level failure: connection errors,
	// timeouts, context cancellation, undecodable response bodies.
	ErrTransport = errors.New("pcloud: transport failure")

	// ErrServer marks an operation the server accepted but rejected,
	// carrying the numeric result code via ResultError.
	ErrServer = errors.New("pcloud: server rejected operation")

	// ErrIntegrity marks a checksum mismatch detected by ValidateChecksum.
	ErrIntegrity = errors.New("pcloud: integrity check failed")
)

// Result is the numeric result code returned in every pCloud API response.
// Zero means success; everything else is an error documented by the API.
type Result uint16

// Result codes the client knows how to describe. The server may return
// codes outside this list; those still fail, just with a generic message.
const (
	ResultOK                        Result = 0
	ResultLogInRequired             Result = 1000
	ResultNoFullPathOrName          Result = 1001
	ResultNoFullPathOrFolderID      Result = 1002
	ResultNoFileIDOrPath            Result = 1004
	ResultDateTimeFormat            Result = 1013
	ResultNoDestinationProvided     Result = 1037
	ResultProvideURL                Result = 1040
	ResultLoginFailed               Result = 2000
	ResultInvalidName               Result = 2001
	ResultParentDoesNotExist        Result = 2002
	ResultAccessDenied              Result = 2003
	ResultDirectoryDoesNotExist     Result = 2005
	ResultFolderNotEmpty            Result = 2006
	ResultCannotDeleteRoot          Result = 2007
	ResultUserOverQuota             Result = 2008
	ResultFileNotFound              Result = 2009
	ResultInvalidPath               Result = 2010
	ResultMailVerificationRequired  Result = 2014
	ResultSharedFolderInShared      Result = 2023
	ResultShareOwnFilesOnly         Result = 2026
	ResultActiveSharesForFolder     Result = 2028
	ResultConnectionBroken          Result = 2041
	ResultCannotRenameRoot          Result = 2042
	ResultCannotMoveIntoItself      Result = 2043
	ResultTooManyLogins             Result = 4000
	ResultInternalError             Result = 5000
	ResultInternalUploadError       Result = 5001
)

// resultMessages holds the documented text for each known result code.
var resultMessages = map[Result]string{
	ResultOK:                       "ok",
	ResultLogInRequired:            "log in required",
	ResultNoFullPathOrName:         "no full path or name/folderid provided",
	ResultNoFullPathOrFolderID:     "no full path or folderid provided",
	ResultNoFileIDOrPath:           "no fileid or path provided",
	ResultDateTimeFormat:           "date time format not understood",
	ResultNoDestinationProvided:    "provide at least one of topath, tofolderid or toname",
	ResultProvideURL:               "provide url",
	ResultLoginFailed:              "log in failed",
	ResultInvalidName:              "invalid file or folder name",
	ResultParentDoesNotExist:       "a component of the parent directory does not exist",
	ResultAccessDenied:             "access denied",
	ResultDirectoryDoesNotExist:    "directory does not exist",
	ResultFolderNotEmpty:           "folder is not empty",
	ResultCannotDeleteRoot:         "cannot delete the root folder",
	ResultUserOverQuota:            "user over quota",
	ResultFileNotFound:             "file not found",
	ResultInvalidPath:              "invalid path",
	ResultMailVerificationRequired: "verify your mail address to perform this action",
	ResultSharedFolderInShared:     "cannot place a shared folder into another shared folder",
	ResultShareOwnFilesOnly:        "you can only share your own files or folders",
	ResultActiveSharesForFolder:    "there are active shares or share requests for this folder",
	ResultConnectionBroken:         "connection broken",
	ResultCannotRenameRoot:         "cannot rename the root folder",
	ResultCannotMoveIntoItself:     "cannot move a folder to a subfolder of itself",
	ResultTooManyLogins:            "too many logins",
	ResultInternalError:            "internal error",
	ResultInternalUploadError:      "internal upload error",
}

func (r Result) String() string {
	if msg, ok := resultMessages[r]; ok {
		return msg
	}

	return fmt.Sprintf("unknown result code %d", uint16(r))
}

// ResultError wraps a non-zero pCloud result code with a sentinel error
// for errors.Is classification.
type ResultError struct {
	Code Result
	Err  error // sentinel, for errors.Is()
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("pcloud: result %d: %s", uint16(e.Code), e.Code)
}

func (e *ResultError) Unwrap() error {
	return e.Err
}

// resultErr maps a result code to nil (success) or a *ResultError wrapping
// the appropriate sentinel.
func resultErr(code Result) error {
	if code == ResultOK {
		return nil
	}

	return &ResultError{Code: code, Err: classifyResult(code)}
}

// classifyResult maps a non-zero result code to its sentinel error.
// Login and credential rejections classify as ErrAuthentication,
// everything else as ErrServer.
func classifyResult(code Result) error {
	switch code {
	case ResultLogInRequired, ResultLoginFailed, ResultAccessDenied, ResultTooManyLogins:
		return ErrAuthentication
	default:
		return ErrServer
	}
}

// transportError wraps a network-level failure so that both ErrTransport and
// the underlying cause (including context.Canceled / DeadlineExceeded)
// remain visible to errors.Is.
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return "pcloud: transport: " + e.err.Error()
}

func (e *transportError) Unwrap() []error {
	return []error{ErrTransport, e.err}
}
