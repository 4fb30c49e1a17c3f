// Package query is the default query engine for [docstore.Repository].
//
// A query is a disjunction of AND groups of conditions (disjunctive normal
// form): Where and AndWhere add to the current group, OrWhere starts a new
// one. Matching runs in memory over [docstore.Source.FindAll], so every
// Execute scans the whole repository once.
package query

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/calvinalkan/docstore/pkg/docstore"
)

// IDField addresses the document ID in conditions and sort keys.
const IDField = "__id"

var (
	// ErrInvalidOperator is returned by Execute for an unknown operator.
	ErrInvalidOperator = errors.New("invalid operator")

	// ErrInvalidOrder is returned by Execute for a malformed sort key.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrInvalidValue is returned by Execute for a condition value that
	// cannot be converted to a [docstore.Value].
	ErrInvalidValue = errors.New("invalid value")
)

// Factory builds [Query] values. It satisfies [docstore.QueryFactory].
type Factory struct{}

var _ docstore.QueryFactory = Factory{}

// NewQuery returns an empty query over src.
func (Factory) NewQuery(src docstore.Source) docstore.Query {
	return New(src)
}

// Query is an in-memory [docstore.Query]. Builder errors are deferred to
// Execute so calls can chain.
type Query struct {
	src    docstore.Source
	groups [][]condition
	order  []sortKey
	limit  int
	offset int
	err    error
}

var _ docstore.Query = (*Query)(nil)

// New returns an empty query over src. With no conditions every document
// matches.
func New(src docstore.Source) *Query {
	return &Query{src: src}
}

// Where adds a condition to the current AND group.
func (q *Query) Where(field, op string, value any) docstore.Query {
	if len(q.groups) == 0 {
		q.groups = append(q.groups, nil)
	}

	q.add(len(q.groups)-1, field, op, value)

	return q
}

// AndWhere is an alias for [Query.Where].
func (q *Query) AndWhere(field, op string, value any) docstore.Query {
	return q.Where(field, op, value)
}

// OrWhere starts a new AND group holding this condition.
func (q *Query) OrWhere(field, op string, value any) docstore.Query {
	q.groups = append(q.groups, nil)
	q.add(len(q.groups)-1, field, op, value)

	return q
}

func (q *Query) add(group int, field, op string, value any) {
	c, err := newCondition(field, op, value)
	if err != nil {
		q.setErr(err)

		return
	}

	q.groups[group] = append(q.groups[group], c)
}

// OrderBy replaces the sort keys. Each key is "field", "field asc" or
// "field desc". Ties keep listing order.
func (q *Query) OrderBy(keys ...string) docstore.Query {
	q.order = q.order[:0]

	for _, key := range keys {
		k, err := parseSortKey(key)
		if err != nil {
			q.setErr(err)

			continue
		}

		q.order = append(q.order, k)
	}

	return q
}

// Limit sets the page. count <= 0 means no limit; negative offsets count as 0.
func (q *Query) Limit(count, offset int) docstore.Query {
	q.limit = max(count, 0)
	q.offset = max(offset, 0)

	return q
}

func (q *Query) setErr(err error) {
	if q.err == nil {
		q.err = err
	}
}

// Execute loads every document from the source, filters, sorts and pages.
func (q *Query) Execute() (docstore.Result, error) {
	if q.err != nil {
		return docstore.Result{}, fmt.Errorf("query %s: %w", q.src.Name(), q.err)
	}

	docs, err := q.src.FindAll()
	if err != nil {
		return docstore.Result{}, fmt.Errorf("query %s: %w", q.src.Name(), err)
	}

	matched := make([]*docstore.Document, 0, len(docs))

	for _, doc := range docs {
		if q.matches(doc) {
			matched = append(matched, doc)
		}
	}

	if len(q.order) > 0 {
		slices.SortStableFunc(matched, func(a, b *docstore.Document) int {
			return compareDocs(a, b, q.order)
		})
	}

	return docstore.Result{Documents: page(matched, q.limit, q.offset), Total: len(matched)}, nil
}

func (q *Query) matches(doc *docstore.Document) bool {
	if len(q.groups) == 0 {
		return true
	}

	for _, group := range q.groups {
		if matchAll(doc, group) {
			return true
		}
	}

	return false
}

func matchAll(doc *docstore.Document, group []condition) bool {
	for _, c := range group {
		if !c.match(doc) {
			return false
		}
	}

	return true
}

func page(docs []*docstore.Document, limit, offset int) []*docstore.Document {
	if offset >= len(docs) {
		return []*docstore.Document{}
	}

	docs = docs[offset:]
	if limit > 0 && limit < len(docs) {
		docs = docs[:limit]
	}

	return docs
}

// field resolves a dotted path, with [IDField] mapped to the document ID.
func field(doc *docstore.Document, path string) (docstore.Value, bool) {
	if path == IDField {
		return docstore.String(doc.ID()), true
	}

	return doc.Get(path)
}

type sortKey struct {
	field string
	desc  bool
}

func parseSortKey(key string) (sortKey, error) {
	parts := strings.Fields(key)

	switch len(parts) {
	case 1:
		return sortKey{field: parts[0]}, nil
	case 2:
		switch strings.ToLower(parts[1]) {
		case "asc":
			return sortKey{field: parts[0]}, nil
		case "desc":
			return sortKey{field: parts[0], desc: true}, nil
		}
	}

	return sortKey{}, fmt.Errorf("%w: %q", ErrInvalidOrder, key)
}

// compareDocs orders by each key in turn. Missing fields sort as null.
func compareDocs(a, b *docstore.Document, keys []sortKey) int {
	for _, k := range keys {
		av, _ := field(a, k.field)
		bv, _ := field(b, k.field)

		c := docstore.Compare(av, bv)
		if k.desc {
			c = -c
		}

		if c != 0 {
			return c
		}
	}

	return 0
}
