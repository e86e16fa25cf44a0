package store

import (
	"errors"
	"fmt"
)

// Kind classifies a store failure. Every kind is reported to HTTP callers with
// status 500; the kind is only visible through the error string.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnknownAlias
	KindAmbiguousOrMissingAlias
	KindInvalidPath
	KindFileExists
	KindDirectoryCreateError
	KindMoveError
	KindPermissionError
	KindDirectoryReadError
	KindDeleteError
	KindDirectoryNotEmpty
	KindCannotDeleteAliasRoot
	KindAliasExists
	KindInvalidAliasPath
	KindNotFound
	KindMissingUpload
	KindPersistError
	KindCanceled
	KindReadError
)

// unexpectedParameters is shared by every failure caused by the request URL itself.
const unexpectedParameters = "Unexpected parameters value"

var kindInfo = map[Kind]struct {
	name    string
	code    string
	message string
}{
	KindUnknown:                 {"Unknown", "internal error", "An unexpected error occurred."},
	KindUnknownAlias:            {"UnknownAlias", unexpectedParameters, "The requested alias does not exist."},
	KindAmbiguousOrMissingAlias: {"AmbiguousOrMissingAlias", unexpectedParameters, "An alias is required to address this path."},
	KindInvalidPath:             {"InvalidPath", unexpectedParameters, "The requested path is not allowed."},
	KindFileExists:              {"FileExists", "file exists", "The file you are trying to upload already exists and cannot be overwritten."},
	KindDirectoryCreateError:    {"DirectoryCreateError", "error creating directory", "The target directory could not be created."},
	KindMoveError:               {"MoveError", "error moving file", "The uploaded file could not be moved to its destination."},
	KindPermissionError:         {"PermissionError", "error changing file permissions", "The permissions of the uploaded file could not be set."},
	KindDirectoryReadError:      {"DirectoryReadError", "error reading directory", "The directory could not be read."},
	KindDeleteError:             {"DeleteError", "error deleting", "The path could not be deleted."},
	KindDirectoryNotEmpty:       {"DirectoryNotEmpty", "directory not empty", "The directory is not empty, use recursive=1 to delete it."},
	KindCannotDeleteAliasRoot:   {"CannotDeleteAliasRoot", "cannot delete alias root", "The root directory of an alias cannot be deleted."},
	KindAliasExists:             {"AliasExists", "alias exists", "An alias with this name is already registered."},
	KindInvalidAliasPath:        {"InvalidAliasPath", "invalid alias path", "The alias path must be an existing directory."},
	KindNotFound:                {"NotFound", "not found", "The requested path does not exist."},
	KindMissingUpload:           {"MissingUpload", "no file uploaded", "The request did not carry a file field."},
	KindPersistError:            {"PersistError", "error saving configuration", "The alias change could not be saved and was reverted."},
	KindCanceled:                {"Canceled", "request canceled", "The request was canceled before it completed."},
	KindReadError:               {"ReadError", "error reading file", "The file could not be read."},
}

func (k Kind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.name
	}
	return kindInfo[KindUnknown].name
}

// Error is the error type returned by every store operation.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func newError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Code is the short string sent to HTTP callers in the "error" field.
func (e *Error) Code() string {
	if info, ok := kindInfo[e.Kind]; ok {
		return info.code
	}
	return kindInfo[KindUnknown].code
}

// Message is the generic summary sent to HTTP callers; the cause is never exposed.
func (e *Error) Message() string {
	if info, ok := kindInfo[e.Kind]; ok {
		return info.message
	}
	return kindInfo[KindUnknown].message
}

// KindOf extracts the Kind of err, or KindUnknown when err is not a store error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// AsError returns err as a *Error, wrapping foreign errors as KindUnknown.
func AsError(err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return &Error{Kind: KindUnknown, Err: err}
}
