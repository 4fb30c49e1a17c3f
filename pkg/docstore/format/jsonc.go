package format

import (
	"bytes"
	"fmt"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/docstore/pkg/docstore"
)

// JSONC stores documents as HuJSON ("JSON for humans"): decoding accepts
// comments and trailing commas, so files can be annotated by hand. Encoding
// writes plain JSON laid out by [hujson.Format]; comments do not survive a
// rewrite.
type JSONC struct{}

// NewJSONC returns a JSONC formatter.
func NewJSONC() *JSONC {
	return &JSONC{}
}

// Extension returns "jsonc".
func (*JSONC) Extension() string { return "jsonc" }

// Encode writes fields as formatted JSON.
func (*JSONC) Encode(fields *docstore.Fields) ([]byte, error) {
	var j JSON

	raw, err := j.Encode(fields)
	if err != nil {
		return nil, err
	}

	out, err := hujson.Format(raw)
	if err != nil {
		return nil, fmt.Errorf("jsonc: format: %w", err)
	}

	return out, nil
}

// Decode standardizes HuJSON to JSON and parses it.
func (*JSONC) Decode(data []byte) (*docstore.Fields, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("jsonc: %w", err)
	}

	return decodeJSON(std)
}
