package format

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/calvinalkan/docstore/pkg/docstore"
)

// DefaultBodyField is the field [Markdown] writes after the frontmatter.
const DefaultBodyField = "body"

var (
	fmDelimiter      = []byte("---")
	errNoFrontmatter = errors.New("markdown: missing frontmatter delimiter")
)

// Markdown stores documents as a markdown file with YAML frontmatter:
//
//	---
//	title: Hello
//	tags:
//	  - a
//	---
//	# Hello
//
// The body field (a non-empty string) becomes the text after the closing
// delimiter; every other field goes into the frontmatter. A body field that
// is empty or not a string stays in the frontmatter so it round-trips.
//
// The body has no position inside the frontmatter, so a decoded document
// lists it after every other field regardless of where it was when encoded.
// Values and all other field positions are preserved.
type Markdown struct {
	bodyField string
}

// MarkdownOption configures [NewMarkdown].
type MarkdownOption func(*Markdown)

// WithBodyField changes which field holds the markdown body.
func WithBodyField(name string) MarkdownOption {
	return func(m *Markdown) { m.bodyField = name }
}

// NewMarkdown returns a Markdown formatter.
func NewMarkdown(opts ...MarkdownOption) *Markdown {
	m := &Markdown{bodyField: DefaultBodyField}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Extension returns "md".
func (*Markdown) Extension() string { return "md" }

// Encode writes frontmatter followed by the body.
func (m *Markdown) Encode(fields *docstore.Fields) ([]byte, error) {
	front := fields.Clone()

	var body string
	if v, ok := front.Get(m.bodyField); ok {
		if s, isStr := v.AsString(); isStr && s != "" {
			body = s

			front.Delete(m.bodyField)
		}
	}

	var buf bytes.Buffer

	buf.Write(fmDelimiter)
	buf.WriteByte('\n')

	if front.Len() > 0 {
		yml, err := encodeYAML(front)
		if err != nil {
			return nil, fmt.Errorf("markdown: %w", err)
		}

		buf.Write(yml)
	}

	buf.Write(fmDelimiter)
	buf.WriteByte('\n')
	buf.WriteString(body)

	return buf.Bytes(), nil
}

// Decode splits frontmatter from body. An empty file decodes to nothing.
func (m *Markdown) Decode(data []byte) (*docstore.Fields, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	rest, ok := cutDelimiterLine(data)
	if !ok {
		return nil, errNoFrontmatter
	}

	var front []byte

	for {
		if len(rest) == 0 {
			return nil, errors.New("markdown: unterminated frontmatter")
		}

		line, after, _ := bytes.Cut(rest, []byte("\n"))
		if bytes.Equal(bytes.TrimSuffix(line, []byte("\r")), fmDelimiter) {
			rest = after

			break
		}

		front = append(front, line...)
		front = append(front, '\n')
		rest = after
	}

	fields := docstore.NewFields()

	if len(bytes.TrimSpace(front)) > 0 {
		decoded, err := decodeYAML(front)
		if err != nil {
			return nil, fmt.Errorf("markdown: %w", err)
		}

		if decoded != nil {
			fields = decoded
		}
	}

	if len(rest) > 0 {
		fields.Set(m.bodyField, docstore.String(string(rest)))
	}

	return fields, nil
}

// cutDelimiterLine strips a leading "---" line (LF or CRLF).
func cutDelimiterLine(data []byte) ([]byte, bool) {
	line, after, found := bytes.Cut(data, []byte("\n"))
	if !found || !bytes.Equal(bytes.TrimSuffix(line, []byte("\r")), fmDelimiter) {
		return nil, false
	}

	return after, true
}
