package docstore

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/calvinalkan/docstore/pkg/fs"
)

// filePerm is the mode for new document files (before umask).
const filePerm os.FileMode = 0o666

// Store writes doc and returns its ID.
//
// A document without an ID gets a generated one, assigned to doc before the
// write. The file is opened without truncation, locked exclusively, and only
// then truncated and rewritten, so a writer that loses the lock race never
// touches the winner's bytes.
//
// Returns [ErrInvalidID], [ErrEncode], [ErrLockUnavailable] when another
// writer holds the file (nothing was written; retry is up to the caller), or
// [ErrWriteFailed] when the bytes were not fully written.
func (r *Repository) Store(doc *Document) (string, error) {
	if doc == nil {
		return "", &Error{Op: "store", Err: errors.New("document is nil")}
	}

	return r.store("store", doc)
}

// store is the write path shared by Store and Update; op names the caller in
// returned errors.
func (r *Repository) store(op string, doc *Document) (string, error) {
	if doc.ID() == "" {
		doc.SetID(r.ids.Next())
	}

	id := doc.ID()

	path, err := r.PathForID(id)
	if err != nil {
		return "", &Error{Op: op, Err: err}
	}

	name := r.filename(id)

	data, err := r.formatter.Encode(doc.Fields())
	if err != nil {
		return "", &Error{Op: op, ID: id, Path: name, Err: fmt.Errorf("%w: %w", ErrEncode, err)}
	}

	if err := r.writeLocked(path, data); err != nil {
		return "", &Error{Op: op, ID: id, Path: name, Err: err}
	}

	r.logger.Debug("stored document", "id", id, "bytes", len(data))

	return id, nil
}

// writeLocked runs open → lock → truncate → write → unlock → close. The lock
// and descriptor are released on every path.
func (r *Repository) writeLocked(path string, data []byte) (err error) {
	file, err := r.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE, filePerm)
	if err != nil {
		return fmt.Errorf("%w: opening: %w", ErrWriteFailed, err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("%w: closing: %w", ErrWriteFailed, closeErr))
		}
	}()

	lock, err := r.locker.TryLockFile(file)
	if errors.Is(err, fs.ErrWouldBlock) {
		r.logger.Debug("document locked by another writer", "path", path)

		return ErrLockUnavailable
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrLockUnavailable, err)
	}

	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			err = errors.Join(err, fmt.Errorf("%w: %w", ErrWriteFailed, unlockErr))
		}
	}()

	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("%w: truncating: %w", ErrWriteFailed, err)
	}

	n, err := file.Write(data)
	if err != nil {
		return fmt.Errorf("%w: wrote %d of %d bytes: %w", ErrWriteFailed, n, len(data), err)
	}

	if n != len(data) {
		return fmt.Errorf("%w: wrote %d of %d bytes: %w", ErrWriteFailed, n, len(data), io.ErrShortWrite)
	}

	return nil
}

// Update stores doc only if its file already exists.
//
// Returns [ErrMissingID] for a document without an ID and [ErrNotFound] when
// no file exists; in both cases nothing is created. Otherwise behaves like
// [Repository.Store].
func (r *Repository) Update(doc *Document) (string, error) {
	if doc == nil || doc.ID() == "" {
		return "", &Error{Op: "update", Err: ErrMissingID}
	}

	id := doc.ID()

	path, err := r.PathForID(id)
	if err != nil {
		return "", &Error{Op: "update", Err: err}
	}

	exists, err := r.fs.Exists(path)
	if err != nil {
		return "", &Error{Op: "update", ID: id, Path: r.filename(id), Err: err}
	}

	if !exists {
		return "", &Error{Op: "update", ID: id, Path: r.filename(id), Err: ErrNotFound}
	}

	return r.store("update", doc)
}

// Delete removes the document stored under id.
//
// A missing file is an error (errors.Is(err, os.ErrNotExist)), as is any
// other removal failure.
func (r *Repository) Delete(id string) error {
	path, err := r.PathForID(id)
	if err != nil {
		return &Error{Op: "delete", Err: err}
	}

	if err := r.fs.Remove(path); err != nil {
		return &Error{Op: "delete", ID: id, Path: r.filename(id), Err: err}
	}

	r.logger.Debug("deleted document", "id", id)

	return nil
}

// DeleteDocument removes the file for doc's ID.
func (r *Repository) DeleteDocument(doc *Document) error {
	if doc == nil || doc.ID() == "" {
		return &Error{Op: "delete", Err: ErrMissingID}
	}

	return r.Delete(doc.ID())
}
