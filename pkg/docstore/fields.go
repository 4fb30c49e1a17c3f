package docstore

import (
	"iter"
	"slices"
	"strings"
)

// Fields is an insertion-ordered mapping from field name to [Value].
//
// It is the schema-less body of a [Document]: formatters encode exactly these
// entries, in this order. The zero value is not usable; call [NewFields].
//
// Fields is not safe for concurrent mutation.
type Fields struct {
	keys []string
	vals map[string]Value
}

// NewFields returns an empty Fields.
func NewFields() *Fields {
	return &Fields{vals: map[string]Value{}}
}

// FieldsOf builds Fields from alternating name/value pairs, converting values
// with [ValueOf]. It panics on an odd argument count, a non-string name, or
// an unsupported value, and is meant for literals in tests and examples.
func FieldsOf(pairs ...any) *Fields {
	if len(pairs)%2 != 0 {
		panic("FieldsOf: odd number of arguments")
	}

	f := NewFields()

	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic("FieldsOf: field name must be a string")
		}

		v, err := ValueOf(pairs[i+1])
		if err != nil {
			panic("FieldsOf: " + name + ": " + err.Error())
		}

		f.Set(name, v)
	}

	return f
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}

	return len(f.keys)
}

// Keys returns field names in insertion order. The slice is a copy.
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}

	return slices.Clone(f.keys)
}

// Get returns the value stored under name.
func (f *Fields) Get(name string) (Value, bool) {
	if f == nil {
		return Value{}, false
	}

	v, ok := f.vals[name]

	return v, ok
}

// Lookup resolves a dotted path ("author.name") through nested maps.
// A name that exists verbatim (including dots) wins over path traversal.
func (f *Fields) Lookup(path string) (Value, bool) {
	if v, ok := f.Get(path); ok {
		return v, true
	}

	head, rest, found := strings.Cut(path, ".")
	if !found {
		return Value{}, false
	}

	v, ok := f.Get(head)
	if !ok {
		return Value{}, false
	}

	nested, ok := v.AsMap()
	if !ok {
		return Value{}, false
	}

	return nested.Lookup(rest)
}

// Set stores v under name. Existing names keep their position.
func (f *Fields) Set(name string, v Value) {
	if _, exists := f.vals[name]; !exists {
		f.keys = append(f.keys, name)
	}

	f.vals[name] = v
}

// Delete removes name. Reports whether it was present.
func (f *Fields) Delete(name string) bool {
	if _, exists := f.vals[name]; !exists {
		return false
	}

	delete(f.vals, name)
	f.keys = slices.DeleteFunc(f.keys, func(k string) bool { return k == name })

	return true
}

// All iterates entries in insertion order.
func (f *Fields) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if f == nil {
			return
		}

		for _, k := range f.keys {
			if !yield(k, f.vals[k]) {
				return
			}
		}
	}
}

// Merge sets every entry of other on f, in other's order.
func (f *Fields) Merge(other *Fields) {
	for k, v := range other.All() {
		f.Set(k, v)
	}
}

// Clone returns a deep copy.
func (f *Fields) Clone() *Fields {
	out := NewFields()

	for k, v := range f.All() {
		out.Set(k, v.Clone())
	}

	return out
}

// Equal reports whether f and o hold equal values under the same names.
// Order is not significant.
func (f *Fields) Equal(o *Fields) bool {
	if f.Len() != o.Len() {
		return false
	}

	for k, v := range f.All() {
		ov, ok := o.Get(k)
		if !ok || !v.Equal(ov) {
			return false
		}
	}

	return true
}

// Map converts f to a plain map (order is lost).
func (f *Fields) Map() map[string]any {
	out := make(map[string]any, f.Len())

	for k, v := range f.All() {
		out[k] = v.Interface()
	}

	return out
}
