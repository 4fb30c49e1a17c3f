package docstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FindByID loads the document stored under id.
//
// Returns [ErrInvalidID] for an unsafe id and [ErrNotFound] when the file is
// missing or decodes to nothing. A decode error also counts as not found
// unless [Config.StrictDecode] is set, in which case it is [ErrCorrupt].
func (r *Repository) FindByID(id string) (*Document, error) {
	path, err := r.PathForID(id)
	if err != nil {
		return nil, &Error{Op: "find", Err: err}
	}

	name := r.filename(id)

	doc, err := r.load(path, id)
	if err != nil {
		return nil, withContext(err, "find", id, name)
	}

	if doc == nil {
		return nil, &Error{Op: "find", ID: id, Path: name, Err: ErrNotFound}
	}

	return doc, nil
}

// FindAll loads every document in the repository.
//
// Only regular files named "*.<extension>" directly in the repository
// directory are considered. Files that decode to nothing are skipped, as are
// undecodable files unless [Config.StrictDecode] is set. The order follows
// the directory listing and carries no meaning; sort downstream (for example
// with [Query.OrderBy]).
//
// Any read error fails the whole call; no partial result is returned.
func (r *Repository) FindAll() ([]*Document, error) {
	entries, err := r.fs.ReadDir(r.path)
	if err != nil {
		return nil, &Error{Op: "find_all", Err: fmt.Errorf("listing %s: %w", r.path, err)}
	}

	docs := make([]*Document, 0, len(entries))

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		id, ok := r.idFromFilename(entry.Name())
		if !ok {
			continue
		}

		doc, err := r.load(filepath.Join(r.path, entry.Name()), id)
		if err != nil {
			return nil, withContext(err, "find_all", id, entry.Name())
		}

		if doc == nil {
			continue
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

// load reads and decodes one file. Returns (nil, nil) for a missing file or
// one that decodes to nothing.
func (r *Repository) load(path, id string) (*Document, error) {
	data, err := r.fs.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading: %w", err)
	}

	fields, err := r.formatter.Decode(data)
	if err != nil {
		if r.strictDecode {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}

		r.logger.Warn("skipping undecodable document", "id", id, "path", path, "error", err)

		return nil, nil
	}

	if fields == nil {
		return nil, nil
	}

	doc := NewDocument(fields)
	doc.SetID(id)

	return doc, nil
}
