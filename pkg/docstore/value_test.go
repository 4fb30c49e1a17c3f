package docstore_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/docstore/pkg/docstore"
)

func Test_ValueOf_Converts_Go_Values(t *testing.T) {
	t.Parallel()

	type alias string

	cases := []struct {
		in   any
		want docstore.Value
	}{
		{nil, docstore.Null()},
		{true, docstore.Bool(true)},
		{int8(-3), docstore.Int(-3)},
		{uint16(7), docstore.Int(7)},
		{float32(0.5), docstore.Float(0.5)},
		{alias("x"), docstore.String("x")},
		{[]string{"a", "b"}, docstore.List(docstore.String("a"), docstore.String("b"))},
		{map[string]int{"b": 2, "a": 1}, docstore.Map(docstore.FieldsOf("a", 1, "b", 2))},
	}

	for _, tc := range cases {
		got, err := docstore.ValueOf(tc.in)
		require.NoError(t, err, "%#v", tc.in)
		assert.True(t, tc.want.Equal(got), "ValueOf(%#v)=%v, want %v", tc.in, got, tc.want)
	}

	m, err := docstore.ValueOf(map[string]int{"b": 2, "a": 1})
	require.NoError(t, err)

	fields, _ := m.AsMap()
	if diff := cmp.Diff([]string{"a", "b"}, fields.Keys()); diff != "" {
		t.Fatalf("map keys not sorted (-want +got):\n%s", diff)
	}
}

func Test_ValueOf_Returns_Error_When_Type_Is_Unsupported(t *testing.T) {
	t.Parallel()

	for _, in := range []any{struct{}{}, map[int]string{1: "a"}, make(chan int), uint64(1 << 63)} {
		_, err := docstore.ValueOf(in)
		assert.Error(t, err, "%T", in)
	}
}

func Test_Value_Equal_Distinguishes_Int_And_Float(t *testing.T) {
	t.Parallel()

	assert.False(t, docstore.Int(1).Equal(docstore.Float(1)))
	assert.Equal(t, 0, docstore.Compare(docstore.Int(1), docstore.Float(1)))
}

func Test_Compare_Orders_Across_Kinds(t *testing.T) {
	t.Parallel()

	ordered := []docstore.Value{
		docstore.Null(),
		docstore.Bool(false),
		docstore.Bool(true),
		docstore.Int(-1),
		docstore.Float(0.5),
		docstore.Int(2),
		docstore.String("a"),
		docstore.String("b"),
		docstore.List(docstore.Int(1)),
		docstore.List(docstore.Int(1), docstore.Int(0)),
		docstore.Map(docstore.FieldsOf("a", 1)),
	}

	for i := range ordered {
		for j := range ordered {
			got := docstore.Compare(ordered[i], ordered[j])

			var want int

			switch {
			case i < j:
				want = -1
			case i > j:
				want = 1
			}

			if got != want {
				t.Fatalf("Compare(%v, %v)=%d, want %d", ordered[i], ordered[j], got, want)
			}
		}
	}
}

func Test_Compare_Ignores_Map_Key_Order_When_Entries_Match(t *testing.T) {
	t.Parallel()

	ab := docstore.Map(docstore.FieldsOf("a", 1, "b", "x"))
	ba := docstore.Map(docstore.FieldsOf("b", "x", "a", 1))

	require.True(t, ab.Equal(ba))
	assert.Equal(t, 0, docstore.Compare(ab, ba))
	assert.Equal(t, 0, docstore.Compare(ba, ab))

	// Same keys, different value under the first sorted key.
	ab2 := docstore.Map(docstore.FieldsOf("b", "x", "a", 2))
	assert.Equal(t, -1, docstore.Compare(ba, ab2))
	assert.Equal(t, 1, docstore.Compare(ab2, ab))

	// Sorted key sequence decides before values.
	ac := docstore.Map(docstore.FieldsOf("c", 0, "a", 1))
	assert.Equal(t, -1, docstore.Compare(ab, ac))
}

func Test_Value_Clone_Is_Deep(t *testing.T) {
	t.Parallel()

	inner := docstore.FieldsOf("x", 1)
	orig := docstore.Map(inner)
	clone := orig.Clone()

	inner.Set("x", docstore.Int(2))

	m, _ := clone.AsMap()
	x, _ := m.Get("x")
	assert.True(t, x.Equal(docstore.Int(1)))
}

func Test_Fields_Keep_Insertion_Order_And_Position_On_Overwrite(t *testing.T) {
	t.Parallel()

	f := docstore.FieldsOf("c", 1, "a", 2, "b", 3)
	f.Set("a", docstore.Int(9))

	assert.Equal(t, []string{"c", "a", "b"}, f.Keys())

	assert.True(t, f.Delete("c"))
	assert.False(t, f.Delete("c"))
	assert.Equal(t, []string{"a", "b"}, f.Keys())

	f.Merge(docstore.FieldsOf("z", true, "a", 0))
	assert.Equal(t, []string{"a", "b", "z"}, f.Keys())

	a, _ := f.Get("a")
	assert.True(t, a.Equal(docstore.Int(0)))
}

func Test_Fields_Lookup_Resolves_Dotted_Paths(t *testing.T) {
	t.Parallel()

	f := docstore.FieldsOf(
		"author", docstore.FieldsOf("name", "ada", "meta", docstore.FieldsOf("age", 36)),
		"a.b", "verbatim",
		"a", docstore.FieldsOf("b", "nested"),
	)

	v, ok := f.Lookup("author.meta.age")
	require.True(t, ok)
	assert.True(t, v.Equal(docstore.Int(36)))

	v, ok = f.Lookup("a.b")
	require.True(t, ok)
	assert.Equal(t, "verbatim", v.String())

	_, ok = f.Lookup("author.missing")
	assert.False(t, ok)

	_, ok = f.Lookup("author.name.first")
	assert.False(t, ok)
}

func Test_Fields_Equal_Ignores_Order(t *testing.T) {
	t.Parallel()

	assert.True(t, docstore.FieldsOf("a", 1, "b", 2).Equal(docstore.FieldsOf("b", 2, "a", 1)))
	assert.False(t, docstore.FieldsOf("a", 1).Equal(docstore.FieldsOf("a", 1.0)))
	assert.False(t, docstore.FieldsOf("a", 1).Equal(docstore.FieldsOf("a", 1, "b", 2)))
}

func Test_Document_Set_Converts_Values(t *testing.T) {
	t.Parallel()

	doc := docstore.NewDocument(nil)

	require.NoError(t, doc.Set("tags", []string{"x"}))
	require.Error(t, doc.Set("bad", struct{}{}))

	v, ok := doc.Get("tags")
	require.True(t, ok)
	assert.Equal(t, "[x]", v.String())
	assert.Equal(t, "", doc.ID())
}
