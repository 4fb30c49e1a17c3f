package cli

import (
	"fmt"
	"strings"

	"github.com/google/shlex"

	"github.com/calvinalkan/docstore/pkg/docstore"
	"github.com/calvinalkan/docstore/pkg/docstore/format"
	"github.com/calvinalkan/docstore/pkg/docstore/query"
)

// parseLiteral reads raw as a JSON value, falling back to a plain string:
// "42" is an int, "true" a bool, "[1,2]" a list, and "hello" a string.
func parseLiteral(raw string) docstore.Value {
	v, err := format.DecodeValue([]byte(raw))
	if err != nil {
		return docstore.String(raw)
	}

	return v
}

// parseAssignments turns "key=value" arguments into fields.
func parseAssignments(args []string) (*docstore.Fields, error) {
	fields := docstore.NewFields()

	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q (want key=value)", errInvalidField, arg)
		}

		if key == query.IDField {
			return nil, fmt.Errorf("%w: %q is reserved", errInvalidField, key)
		}

		fields.Set(key, parseLiteral(raw))
	}

	return fields, nil
}

// renderDocument encodes doc as JSON with the ID first under "__id".
func renderDocument(doc *docstore.Document, pretty bool) (string, error) {
	out := docstore.NewFields()
	out.Set(query.IDField, docstore.String(doc.ID()))
	out.Merge(doc.Fields())

	data, err := format.NewJSON(format.WithIndent(pretty)).Encode(out)
	if err != nil {
		return "", err
	}

	return strings.TrimRight(string(data), "\n"), nil
}

// splitCondition parses "field op value". The value is everything after the
// operator, read with parseLiteral.
func splitCondition(expr string) (string, string, docstore.Value, error) {
	parts := strings.Fields(expr)
	if len(parts) < 3 {
		return "", "", docstore.Value{}, fmt.Errorf("invalid condition %q (want \"field op value\")", expr)
	}

	// Keep the value's inner spacing intact.
	rest := strings.TrimSpace(expr)
	for _, p := range parts[:2] {
		rest = strings.TrimSpace(strings.TrimPrefix(rest, p))
	}

	return parts[0], parts[1], parseLiteral(rest), nil
}

// splitWords splits a shell line into words with POSIX quoting rules:
// single and double quotes, backslash escapes, and "#" comments.
func splitWords(line string) ([]string, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", line, err)
	}

	return words, nil
}
