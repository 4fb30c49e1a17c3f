package format

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/calvinalkan/docstore/pkg/docstore"
)

// YAML stores documents as a YAML mapping, built and read through the
// [yaml.Node] API so key order survives both directions.
//
// An empty file or a document holding only null decodes to nothing.
type YAML struct{}

// NewYAML returns a YAML formatter.
func NewYAML() *YAML {
	return &YAML{}
}

// Extension returns "yaml".
func (*YAML) Extension() string { return "yaml" }

// Encode writes fields as a block mapping.
func (*YAML) Encode(fields *docstore.Fields) ([]byte, error) {
	return encodeYAML(fields)
}

// Decode parses a YAML mapping.
func (*YAML) Decode(data []byte) (*docstore.Fields, error) {
	return decodeYAML(data)
}

func encodeYAML(fields *docstore.Fields) ([]byte, error) {
	node, err := yamlMapping(fields)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}

	return buf.Bytes(), nil
}

func yamlMapping(fields *docstore.Fields) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for k, v := range fields.All() {
		key := &yaml.Node{}
		if err := key.Encode(k); err != nil {
			return nil, fmt.Errorf("yaml: key %q: %w", k, err)
		}

		val, err := yamlValue(v)
		if err != nil {
			return nil, fmt.Errorf("yaml: field %q: %w", k, err)
		}

		node.Content = append(node.Content, key, val)
	}

	return node, nil
}

func yamlValue(v docstore.Value) (*yaml.Node, error) {
	switch v.Kind() {
	case docstore.KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case docstore.KindFloat:
		f, _ := v.AsFloat()

		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(f)}, nil
	case docstore.KindList:
		items, _ := v.AsList()
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}

		for i, item := range items {
			child, err := yamlValue(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}

			node.Content = append(node.Content, child)
		}

		return node, nil
	case docstore.KindMap:
		m, _ := v.AsMap()

		return yamlMapping(m)
	default:
		// Bool, Int, String: let yaml.v3 pick the tag and quote strings
		// that would otherwise resolve to another type.
		node := &yaml.Node{}
		if err := node.Encode(v.Interface()); err != nil {
			return nil, err
		}

		return node, nil
	}
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	default:
		return formatFloat(f)
	}
}

func decodeYAML(data []byte) (*docstore.Fields, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return nil, nil
	}

	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("yaml: %w", ErrNotObject)
	}

	fields, err := fieldsFromYAML(root)
	if err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}

	return fields, nil
}

func fieldsFromYAML(node *yaml.Node) (*docstore.Fields, error) {
	fields := docstore.NewFields()

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value

		v, err := valueFromYAML(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		fields.Set(key, v)
	}

	return fields, nil
}

func valueFromYAML(node *yaml.Node) (docstore.Value, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return valueFromYAML(node.Alias)
	case yaml.MappingNode:
		m, err := fieldsFromYAML(node)
		if err != nil {
			return docstore.Value{}, err
		}

		return docstore.Map(m), nil
	case yaml.SequenceNode:
		items := make([]docstore.Value, 0, len(node.Content))

		for i, child := range node.Content {
			item, err := valueFromYAML(child)
			if err != nil {
				return docstore.Value{}, fmt.Errorf("index %d: %w", i, err)
			}

			items = append(items, item)
		}

		return docstore.List(items...), nil
	case yaml.ScalarNode:
		return scalarFromYAML(node)
	default:
		return docstore.Value{}, fmt.Errorf("unsupported yaml node kind %d at line %d", node.Kind, node.Line)
	}
}

func scalarFromYAML(node *yaml.Node) (docstore.Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return docstore.Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return docstore.Value{}, err
		}

		return docstore.Bool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return docstore.Int(i), nil
		}

		// Out of int64 range: keep the magnitude as a float.
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return docstore.Value{}, fmt.Errorf("int %q at line %d: %w", node.Value, node.Line, err)
		}

		return docstore.Float(f), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return docstore.Value{}, err
		}

		return docstore.Float(f), nil
	default:
		// !!str, !!timestamp, !!binary and custom tags keep their text.
		return docstore.String(node.Value), nil
	}
}
