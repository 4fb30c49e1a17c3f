package docstore

import (
	"errors"
	"strings"
)

// Sentinel errors. Use [errors.Is] to branch on them; every error returned by
// a [Repository] method wraps exactly one of these or a filesystem error.
var (
	// ErrInvalidName indicates a repository name outside ^[0-9A-Za-z_-]{1,63}$.
	ErrInvalidName = errors.New("invalid repository name")

	// ErrDirectoryUnavailable indicates the repository directory could not be
	// created or is not writable.
	ErrDirectoryUnavailable = errors.New("repository directory unavailable")

	// ErrInvalidConfig indicates a required [Config] field is missing.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidID indicates an ID that is empty or contains a path-unsafe
	// character. It is never silently corrected.
	ErrInvalidID = errors.New("invalid id")

	// ErrMissingID indicates an operation that requires a persisted document
	// received one without an ID.
	ErrMissingID = errors.New("missing id")

	// ErrNotFound indicates the document file is absent or decodes to nothing.
	ErrNotFound = errors.New("document not found")

	// ErrLockUnavailable indicates another writer holds the document's lock.
	// The file was not modified; the caller may retry.
	ErrLockUnavailable = errors.New("document lock unavailable")

	// ErrWriteFailed indicates the encoded bytes were not fully written.
	ErrWriteFailed = errors.New("write failed")

	// ErrEncode indicates the formatter could not encode the document.
	ErrEncode = errors.New("encode failed")

	// ErrCorrupt indicates a document file failed to decode. Only returned
	// when [Config.StrictDecode] is set.
	ErrCorrupt = errors.New("corrupt document")

	// ErrNoQueryFactory indicates [Repository.Query] was called on a
	// repository configured without a [QueryFactory].
	ErrNoQueryFactory = errors.New("no query factory configured")
)

// Error is the uniform error type returned by Repository operations.
//
// The underlying error message appears first, followed by context:
//
//	document lock unavailable (op=store doc_id=abc123 doc_path=abc123.json)
//
// Use [errors.As] to extract structured fields:
//
//	var dErr *docstore.Error
//	if errors.As(err, &dErr) {
//	    fmt.Printf("%s failed for %s\n", dErr.Op, dErr.ID)
//	}
type Error struct {
	// Op is the repository operation (new, find, find_all, store, update, delete).
	Op string

	// ID is the document identifier, when known.
	ID string

	// Path is the document filename relative to the repository directory.
	// The absolute path, if any, appears in the underlying error.
	Path string

	// Err is the underlying cause.
	Err error
}

// Error formats as "<cause> (op=X doc_id=Y doc_path=Z)".
func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	var cause string
	if e.Err != nil {
		cause = e.Err.Error()
	}

	suffix := e.suffix()

	switch {
	case suffix == "":
		return cause
	case cause == "":
		return suffix
	default:
		return cause + " " + suffix
	}
}

// Unwrap returns the underlying error for use with [errors.Is] and [errors.As].
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

func (e *Error) suffix() string {
	var parts []string

	if e.Op != "" {
		parts = append(parts, "op="+e.Op)
	}

	if e.ID != "" {
		parts = append(parts, "doc_id="+e.ID)
	}

	if e.Path != "" {
		parts = append(parts, "doc_path="+e.Path)
	}

	if len(parts) == 0 {
		return ""
	}

	return "(" + strings.Join(parts, " ") + ")"
}

// withContext attaches operation context at API boundaries and returns *Error.
// If err is already *Error, missing fields are filled in-place.
func withContext(err error, op, id, path string) error {
	if err == nil {
		return nil
	}

	existing := &Error{}
	if errors.As(err, &existing) {
		if existing.Op == "" {
			existing.Op = op
		}

		if existing.ID == "" {
			existing.ID = id
		}

		if existing.Path == "" {
			existing.Path = path
		}

		return existing
	}

	return &Error{Op: op, ID: id, Path: path, Err: err}
}
