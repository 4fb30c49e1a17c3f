package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/calvinalkan/docstore/pkg/docstore"
)

// JSON encodes documents as a JSON object.
//
// Integral numbers decode as Int, others as Float; floats with an integral
// value are written with a trailing ".0" so they stay Float. NaN and
// infinities cannot be encoded. An empty file or a top-level null decodes
// to nothing.
type JSON struct {
	indent bool
}

// JSONOption configures [NewJSON].
type JSONOption func(*JSON)

// WithIndent toggles two-space indentation.
func WithIndent(indent bool) JSONOption {
	return func(j *JSON) { j.indent = indent }
}

// NewJSON returns a JSON formatter.
func NewJSON(opts ...JSONOption) *JSON {
	j := &JSON{}
	for _, opt := range opts {
		opt(j)
	}

	return j
}

// Extension returns "json".
func (*JSON) Extension() string { return "json" }

// Encode writes fields as a JSON object in field order.
func (j *JSON) Encode(fields *docstore.Fields) ([]byte, error) {
	var buf bytes.Buffer

	if err := appendJSONObject(&buf, fields); err != nil {
		return nil, err
	}

	if !j.indent {
		return buf.Bytes(), nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("indent: %w", err)
	}

	out.WriteByte('\n')

	return out.Bytes(), nil
}

// Decode parses a JSON object, keeping key order.
func (*JSON) Decode(data []byte) (*docstore.Fields, error) {
	return decodeJSON(data)
}

func appendJSONObject(buf *bytes.Buffer, fields *docstore.Fields) error {
	buf.WriteByte('{')

	first := true
	for k, v := range fields.All() {
		if !first {
			buf.WriteByte(',')
		}

		first = false

		if err := appendJSONString(buf, k); err != nil {
			return err
		}

		buf.WriteByte(':')

		if err := appendJSONValue(buf, v); err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
	}

	buf.WriteByte('}')

	return nil
}

func appendJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}

	buf.Write(b)

	return nil
}

func appendJSONValue(buf *bytes.Buffer, v docstore.Value) error {
	switch v.Kind() {
	case docstore.KindNull:
		buf.WriteString("null")
	case docstore.KindBool:
		b, _ := v.AsBool()
		buf.WriteString(strconv.FormatBool(b))
	case docstore.KindInt:
		i, _ := v.AsInt()
		buf.WriteString(strconv.FormatInt(i, 10))
	case docstore.KindFloat:
		f, _ := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("unsupported float %v", f)
		}

		buf.WriteString(formatFloat(f))
	case docstore.KindString:
		s, _ := v.AsString()

		return appendJSONString(buf, s)
	case docstore.KindList:
		items, _ := v.AsList()

		buf.WriteByte('[')

		for i, item := range items {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := appendJSONValue(buf, item); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}

		buf.WriteByte(']')
	case docstore.KindMap:
		m, _ := v.AsMap()

		return appendJSONObject(buf, m)
	default:
		return fmt.Errorf("unsupported kind %s", v.Kind())
	}

	return nil
}

// formatFloat keeps a fraction or exponent marker so the value decodes as a
// float again.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}

	return s
}

func decodeJSON(data []byte) (*docstore.Fields, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}

	if tok == nil {
		return nil, nil
	}

	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("json: %w", ErrNotObject)
	}

	fields, err := readJSONObject(dec)
	if err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("json: trailing data after object")
	}

	return fields, nil
}

// DecodeValue parses a single JSON value of any kind, with the same number
// rules as [JSON]. Object keys keep their order.
func DecodeValue(data []byte) (docstore.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return docstore.Value{}, fmt.Errorf("json: %w", err)
	}

	v, err := readJSONValue(dec, tok)
	if err != nil {
		return docstore.Value{}, fmt.Errorf("json: %w", err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return docstore.Value{}, errors.New("json: trailing data after value")
	}

	return v, nil
}

// readJSONObject consumes entries up to and including the closing '}'.
func readJSONObject(dec *json.Decoder) (*docstore.Fields, error) {
	fields := docstore.NewFields()

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key %v is not a string", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		v, err := readJSONValue(dec, valTok)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		fields.Set(key, v)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return fields, nil
}

func readJSONValue(dec *json.Decoder, tok json.Token) (docstore.Value, error) {
	switch t := tok.(type) {
	case nil:
		return docstore.Null(), nil
	case bool:
		return docstore.Bool(t), nil
	case string:
		return docstore.String(t), nil
	case json.Number:
		return parseJSONNumber(string(t))
	case float64:
		return docstore.Float(t), nil
	case json.Delim:
		switch t {
		case '{':
			m, err := readJSONObject(dec)
			if err != nil {
				return docstore.Value{}, err
			}

			return docstore.Map(m), nil
		case '[':
			items := []docstore.Value{}

			for dec.More() {
				itemTok, err := dec.Token()
				if err != nil {
					return docstore.Value{}, err
				}

				item, err := readJSONValue(dec, itemTok)
				if err != nil {
					return docstore.Value{}, fmt.Errorf("index %d: %w", len(items), err)
				}

				items = append(items, item)
			}

			if _, err := dec.Token(); err != nil {
				return docstore.Value{}, err
			}

			return docstore.List(items...), nil
		}
	}

	return docstore.Value{}, fmt.Errorf("unexpected token %v", tok)
}

func parseJSONNumber(s string) (docstore.Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return docstore.Int(i), nil
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return docstore.Value{}, fmt.Errorf("number %q: %w", s, err)
	}

	return docstore.Float(f), nil
}
