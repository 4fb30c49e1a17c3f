package docstore

import (
	"log/slog"
	"math/rand/v2"

	"github.com/calvinalkan/docstore/pkg/fs"
)

// Formatter converts a document's [Fields] to bytes and back.
//
// Decode returning (nil, nil) means the content holds no document; the
// repository treats that as "not found". Encode followed by Decode must
// reproduce the same Fields.
//
// Implementations must be safe for concurrent use.
type Formatter interface {
	// Extension is the file extension without a leading dot, e.g. "json".
	Extension() string
	Encode(fields *Fields) ([]byte, error)
	Decode(data []byte) (*Fields, error)
}

// Source is what a [Query] reads from. [*Repository] implements it.
type Source interface {
	Name() string
	FindAll() ([]*Document, error)
}

// Result is a page of query matches.
type Result struct {
	// Documents is the requested page, after ordering and limit/offset.
	Documents []*Document

	// Total counts all matches before limit/offset.
	Total int
}

// Query is a predicate-based search over a [Source].
//
// Builders return the receiver so calls chain:
//
//	res, err := q.Where("status", "==", "open").OrderBy("created desc").Limit(10, 0).Execute()
type Query interface {
	// Where adds a condition to the current AND group.
	Where(field, op string, value any) Query
	// AndWhere is an alias for Where.
	AndWhere(field, op string, value any) Query
	// OrWhere starts a new AND group, ORed with the previous ones.
	OrWhere(field, op string, value any) Query
	// OrderBy sets sort keys, each "field" or "field asc|desc".
	OrderBy(keys ...string) Query
	// Limit restricts the page. count <= 0 means unlimited.
	Limit(count, offset int) Query
	// Execute runs the query against the source.
	Execute() (Result, error)
}

// QueryFactory constructs queries bound to a source. It replaces lookup of a
// query type by name: the concrete engine is chosen when the [Config] is built.
type QueryFactory interface {
	NewQuery(src Source) Query
}

// Config is everything a [Repository] needs at construction.
type Config struct {
	// Root is the directory holding one subdirectory per repository. Required.
	Root string

	// Formatter encodes documents. Required.
	Formatter Formatter

	// QueryFactory backs [Repository.Query]. Optional.
	QueryFactory QueryFactory

	// FS is the filesystem. Default: [fs.NewReal].
	FS fs.FS

	// RandSource seeds ID generation. Default: crypto-seeded ChaCha8.
	// Inject a fixed source for deterministic IDs in tests.
	RandSource rand.Source

	// IDs overrides the ID generator entirely. Repositories sharing one
	// generator share its stream. Takes precedence over RandSource.
	IDs *IDGenerator

	// Logger receives diagnostics. Default: discard.
	Logger *slog.Logger

	// StrictDecode surfaces decode errors as [ErrCorrupt] instead of treating
	// the file as absent.
	StrictDecode bool
}
