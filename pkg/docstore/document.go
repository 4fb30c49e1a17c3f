package docstore

import "fmt"

// Document is a schema-less record: an identity slot plus ordered [Fields].
//
// An empty ID means "not yet persisted". The ID is never part of Fields; on
// disk it lives only in the filename.
type Document struct {
	id     string
	fields *Fields
}

// NewDocument returns a document without an ID. A nil fields starts empty.
func NewDocument(fields *Fields) *Document {
	if fields == nil {
		fields = NewFields()
	}

	return &Document{fields: fields}
}

// ID returns the document ID, or "" if unset.
func (d *Document) ID() string {
	return d.id
}

// SetID assigns the document ID.
func (d *Document) SetID(id string) {
	d.id = id
}

// Fields returns the document's field mapping (borrowed, not copied).
func (d *Document) Fields() *Fields {
	return d.fields
}

// Get returns the value at a dotted field path.
func (d *Document) Get(path string) (Value, bool) {
	return d.fields.Lookup(path)
}

// Set converts v with [ValueOf] and stores it under name.
func (d *Document) Set(name string, v any) error {
	val, err := ValueOf(v)
	if err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}

	d.fields.Set(name, val)

	return nil
}
