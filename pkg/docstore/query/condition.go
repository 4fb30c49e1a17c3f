package query

import (
	"fmt"
	"strings"

	"github.com/calvinalkan/docstore/pkg/docstore"
)

// Operators accepted by Where, AndWhere and OrWhere.
const (
	OpEq       = "=="
	OpNe       = "!="
	OpGt       = ">"
	OpGte      = ">="
	OpLt       = "<"
	OpLte      = "<="
	OpIn       = "in"
	OpContains = "contains"
)

type condition struct {
	field string
	op    string
	value docstore.Value
}

func newCondition(field, op string, value any) (condition, error) {
	switch op {
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpIn, OpContains:
	default:
		return condition{}, fmt.Errorf("%w: %q", ErrInvalidOperator, op)
	}

	v, err := docstore.ValueOf(value)
	if err != nil {
		return condition{}, fmt.Errorf("%w: %s %s: %w", ErrInvalidValue, field, op, err)
	}

	if op == OpIn && v.Kind() != docstore.KindList {
		return condition{}, fmt.Errorf("%w: %s in: want a list, got %s", ErrInvalidValue, field, v.Kind())
	}

	return condition{field: field, op: op, value: v}, nil
}

// match reports whether doc satisfies c. A missing field never matches, not
// even for "!=". Ordering operators only compare values of the same kind,
// with ints and floats counting as one kind.
func (c condition) match(doc *docstore.Document) bool {
	got, ok := field(doc, c.field)
	if !ok {
		return false
	}

	switch c.op {
	case OpEq:
		return docstore.Compare(got, c.value) == 0
	case OpNe:
		return docstore.Compare(got, c.value) != 0
	case OpGt, OpGte, OpLt, OpLte:
		if !orderable(got, c.value) {
			return false
		}

		cmp := docstore.Compare(got, c.value)

		switch c.op {
		case OpGt:
			return cmp > 0
		case OpGte:
			return cmp >= 0
		case OpLt:
			return cmp < 0
		default:
			return cmp <= 0
		}
	case OpIn:
		items, _ := c.value.AsList()

		return containsValue(items, got)
	case OpContains:
		if s, isStr := got.AsString(); isStr {
			sub, subIsStr := c.value.AsString()

			return subIsStr && strings.Contains(s, sub)
		}

		if items, isList := got.AsList(); isList {
			return containsValue(items, c.value)
		}

		return false
	default:
		return false
	}
}

func orderable(a, b docstore.Value) bool {
	if isNumber(a) && isNumber(b) {
		return true
	}

	return a.Kind() == b.Kind()
}

func isNumber(v docstore.Value) bool {
	return v.Kind() == docstore.KindInt || v.Kind() == docstore.KindFloat
}

func containsValue(items []docstore.Value, v docstore.Value) bool {
	for _, item := range items {
		if docstore.Compare(item, v) == 0 {
			return true
		}
	}

	return false
}
