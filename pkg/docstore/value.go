package docstore

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a [Value].
type Kind uint8

// Kind values. The numeric order is the cross-kind sort order used by
// [Compare]; Int and Float share a rank.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a tagged field value. The zero Value is null.
//
// Values are immutable except for Map values, which share the underlying
// [Fields]; use [Value.Clone] before mutating a map obtained from a document
// you do not own.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	m    *Fields
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// List returns a list value holding items (not copied).
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}

	return Value{kind: KindList, list: items}
}

// Map returns a nested map value. A nil fields becomes an empty map.
func Map(fields *Fields) Value {
	if fields == nil {
		fields = NewFields()
	}

	return Value{kind: KindMap, m: fields}
}

// ValueOf converts a Go value into a Value.
//
// Supported: nil, bool, all int/uint/float kinds, string, Value, *Fields,
// slices/arrays of supported values, and maps with string keys (keys are
// sorted, since Go maps carry no order).
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case *Fields:
		return Map(x), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case int:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case float64:
		return Float(x), nil
	case []any:
		items := make([]Value, 0, len(x))

		for i, item := range x {
			iv, err := ValueOf(item)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}

			items = append(items, iv)
		}

		return List(items...), nil
	case map[string]any:
		return mapValueOf(reflect.ValueOf(x))
	}

	return valueOfReflect(reflect.ValueOf(v))
}

func valueOfReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Value{}, fmt.Errorf("unsigned value %d overflows int64", u)
		}

		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return List(), nil
		}

		items := make([]Value, 0, rv.Len())

		for i := range rv.Len() {
			iv, err := ValueOf(rv.Index(i).Interface())
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}

			items = append(items, iv)
		}

		return List(items...), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("unsupported map key type %s", rv.Type().Key())
		}

		return mapValueOf(rv)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}

		return ValueOf(rv.Elem().Interface())
	case reflect.Invalid:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("unsupported type %s", rv.Type())
	}
}

func mapValueOf(rv reflect.Value) (Value, error) {
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}

	slices.Sort(keys)

	fields := NewFields()

	for _, k := range keys {
		iv, err := ValueOf(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface())
		if err != nil {
			return Value{}, fmt.Errorf("key %q: %w", k, err)
		}

		fields.Set(k, iv)
	}

	return Map(fields), nil
}

// Kind reports the variant.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean and whether v is a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer and whether v is an int.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns v as float64 for both Int and Float kinds.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsString returns the string and whether v is a string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsList returns the list items (borrowed) and whether v is a list.
func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

// AsMap returns the nested fields (borrowed) and whether v is a map.
func (v Value) AsMap() (*Fields, bool) { return v.m, v.kind == KindMap }

// Interface converts v back to plain Go values: nil, bool, int64, float64,
// string, []any, or map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}

		return out
	case KindMap:
		return v.m.Map()
	default:
		return nil
	}
}

// Clone returns a deep copy.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		items := make([]Value, len(v.list))
		for i, item := range v.list {
			items[i] = item.Clone()
		}

		return List(items...)
	case KindMap:
		return Map(v.m.Clone())
	default:
		return v
	}
}

// Equal reports deep equality. Int and Float are distinct kinds here, so
// Int(1) does not equal Float(1); use [Compare] for numeric comparison.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindString:
		return v.s == o.s
	case KindList:
		return slices.EqualFunc(v.list, o.list, Value.Equal)
	case KindMap:
		return v.m.Equal(o.m)
	default:
		return false
	}
}

// String renders v for humans (CLI output, error messages).
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}

		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		parts := make([]string, 0, v.m.Len())
		for k, item := range v.m.All() {
			parts = append(parts, k+": "+item.String())
		}

		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return v.kind.String()
	}
}

func (v Value) rank() int {
	if v.kind == KindFloat {
		return int(KindInt)
	}

	return int(v.kind)
}

// Compare defines a total order over values: null < bool < number < string <
// list < map. Ints and floats compare numerically with each other. Lists
// compare element-wise. Maps compare by length, then entry by entry in sorted
// key order, so field order never matters and Compare agrees with
// [Value.Equal].
func Compare(a, b Value) int {
	if c := cmp.Compare(a.rank(), b.rank()); c != 0 {
		return c
	}

	switch a.kind {
	case KindNull:
		return 0
	case KindBool:
		switch {
		case a.b == b.b:
			return 0
		case !a.b:
			return -1
		default:
			return 1
		}
	case KindInt, KindFloat:
		if a.kind == KindInt && b.kind == KindInt {
			return cmp.Compare(a.i, b.i)
		}

		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()

		return cmp.Compare(af, bf)
	case KindString:
		return strings.Compare(a.s, b.s)
	case KindList:
		return slices.CompareFunc(a.list, b.list, Compare)
	case KindMap:
		if c := cmp.Compare(a.m.Len(), b.m.Len()); c != 0 {
			return c
		}

		ak, bk := a.m.Keys(), b.m.Keys()
		slices.Sort(ak)
		slices.Sort(bk)

		for i := range ak {
			if c := strings.Compare(ak[i], bk[i]); c != 0 {
				return c
			}

			av, _ := a.m.Get(ak[i])
			bv, _ := b.m.Get(bk[i])

			if c := Compare(av, bv); c != 0 {
				return c
			}
		}

		return 0
	default:
		return 0
	}
}
