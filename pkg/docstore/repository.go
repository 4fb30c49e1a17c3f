package docstore

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/calvinalkan/docstore/pkg/fs"
)

// dirPerm is the mode for newly created repository directories (before umask).
const dirPerm os.FileMode = 0o777

// Repository is a directory of documents, one file per document, named
// "<id>.<extension>".
//
// # Concurrency
//
// Every method is a synchronous sequence of filesystem calls; the repository
// holds no in-memory state about documents and runs no goroutines.
//
//   - [Repository.Store] takes an exclusive, non-blocking flock on the target
//     file. A second writer on the same ID fails with [ErrLockUnavailable]
//     instead of waiting.
//   - Writers on different IDs never contend.
//   - Readers take no lock. A reader racing a writer may see a partially
//     written file (which usually decodes as absent) or the previous
//     content.
//
// A Repository is safe for concurrent use by multiple goroutines.
type Repository struct {
	name         string
	path         string
	ext          string
	formatter    Formatter
	queryFactory QueryFactory
	fs           fs.FS
	locker       *fs.Locker
	ids          *IDGenerator
	logger       *slog.Logger
	strictDecode bool
}

// New opens the repository called name under cfg.Root, creating its
// directory if needed.
//
// Returns [ErrInvalidName] for a name outside ^[0-9A-Za-z_-]{1,63}$,
// [ErrInvalidConfig] for a missing root or formatter, and
// [ErrDirectoryUnavailable] when the directory cannot be created (including
// a missing parent) or exists but is not a writable directory.
//
// Opening the same name twice is safe and leaves existing documents alone.
func New(name string, cfg Config) (*Repository, error) {
	if !ValidName(name) {
		return nil, &Error{Op: "new", Err: fmt.Errorf("%w: %q", ErrInvalidName, name)}
	}

	if cfg.Root == "" {
		return nil, &Error{Op: "new", Err: fmt.Errorf("%w: Root is required", ErrInvalidConfig)}
	}

	if cfg.Formatter == nil {
		return nil, &Error{Op: "new", Err: fmt.Errorf("%w: Formatter is required", ErrInvalidConfig)}
	}

	ext := cfg.Formatter.Extension()
	if ext == "" || strings.ContainsAny(ext, unsafeIDChars) || strings.HasPrefix(ext, ".") {
		return nil, &Error{Op: "new", Err: fmt.Errorf("%w: bad formatter extension %q", ErrInvalidConfig, ext)}
	}

	fsys := cfg.FS
	if fsys == nil {
		fsys = fs.NewReal()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ids := cfg.IDs
	if ids == nil {
		ids = NewIDGenerator(cfg.RandSource)
	}

	repo := &Repository{
		name:         name,
		path:         filepath.Join(cfg.Root, name),
		ext:          ext,
		formatter:    cfg.Formatter,
		queryFactory: cfg.QueryFactory,
		fs:           fsys,
		locker:       fs.NewLocker(),
		ids:          ids,
		logger:       logger.With("repo", name),
		strictDecode: cfg.StrictDecode,
	}

	if err := repo.ensureDir(); err != nil {
		return nil, &Error{Op: "new", Err: err}
	}

	return repo, nil
}

func (r *Repository) ensureDir() error {
	info, err := r.fs.Stat(r.path)
	if errors.Is(err, os.ErrNotExist) {
		mkErr := r.fs.Mkdir(r.path, dirPerm)
		if mkErr != nil {
			return fmt.Errorf("%w: creating %s: %w", ErrDirectoryUnavailable, r.path, mkErr)
		}

		r.logger.Info("created repository directory", "path", r.path)

		return nil
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrDirectoryUnavailable, r.path)
	}

	writable, err := r.fs.Writable(r.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}

	if !writable {
		return fmt.Errorf("%w: %s is not writable", ErrDirectoryUnavailable, r.path)
	}

	return nil
}

// Name returns the repository name.
func (r *Repository) Name() string {
	return r.name
}

// Path returns the repository directory.
func (r *Repository) Path() string {
	return r.path
}

// Formatter returns the configured formatter.
func (r *Repository) Formatter() Formatter {
	return r.formatter
}

// PathForID returns the file path for id, or [ErrInvalidID]. No path is
// built for an invalid id.
func (r *Repository) PathForID(id string) (string, error) {
	if !ValidateID(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	return filepath.Join(r.path, r.filename(id)), nil
}

// PathForDocument returns the file path for doc's ID.
func (r *Repository) PathForDocument(doc *Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("%w: document is nil", ErrMissingID)
	}

	return r.PathForID(doc.ID())
}

// filename is only called with validated ids.
func (r *Repository) filename(id string) string {
	return id + "." + r.ext
}

// idFromFilename strips the extension. ok is false for names that do not
// carry the extension or would yield an invalid id.
func (r *Repository) idFromFilename(name string) (string, bool) {
	id, found := strings.CutSuffix(name, "."+r.ext)
	if !found || !ValidateID(id) {
		return "", false
	}

	return id, true
}

// Query returns a new query bound to this repository.
func (r *Repository) Query() (Query, error) {
	if r.queryFactory == nil {
		return nil, &Error{Op: "query", Err: ErrNoQueryFactory}
	}

	return r.queryFactory.NewQuery(r), nil
}

// Compile-time interface check.
var _ Source = (*Repository)(nil)
