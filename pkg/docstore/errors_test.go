package docstore

import (
	"errors"
	"os"
	"testing"
)

func Test_Error_Formats_Correctly_When_Various_Inputs(t *testing.T) {
	t.Parallel()

	base := errors.New("something failed")
	pathErr := &os.PathError{Op: "open", Path: "/abs/x.json", Err: errors.New("permission denied")}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error",
			err:  withContext(nil, "store", "x", "x.json"),
			want: "<nil>",
		},
		{
			name: "bare",
			err:  &Error{Err: base},
			want: "something failed",
		},
		{
			name: "op only",
			err:  &Error{Op: "find", Err: base},
			want: "something failed (op=find)",
		},
		{
			name: "all fields",
			err:  &Error{Op: "store", ID: "x", Path: "x.json", Err: base},
			want: "something failed (op=store doc_id=x doc_path=x.json)",
		},
		{
			name: "path error keeps absolute path",
			err:  withContext(pathErr, "delete", "x", "x.json"),
			want: "open /abs/x.json: permission denied (op=delete doc_id=x doc_path=x.json)",
		},
		{
			name: "no cause",
			err:  &Error{Op: "new"},
			want: "(op=new)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := "<nil>"
			if tt.err != nil {
				got = tt.err.Error()
			}

			if got != tt.want {
				t.Fatalf("got=%q, want=%q", got, tt.want)
			}
		})
	}
}

func Test_WithContext_Fills_Missing_Fields_When_Already_Error(t *testing.T) {
	t.Parallel()

	inner := &Error{Op: "store", Err: ErrLockUnavailable}

	err := withContext(inner, "update", "abc", "abc.json")

	var dErr *Error
	if !errors.As(err, &dErr) {
		t.Fatalf("errors.As failed for %v", err)
	}

	if got, want := dErr.Op, "store"; got != want {
		t.Fatalf("Op=%q, want=%q", got, want)
	}

	if got, want := dErr.ID, "abc"; got != want {
		t.Fatalf("ID=%q, want=%q", got, want)
	}

	if !errors.Is(err, ErrLockUnavailable) {
		t.Fatalf("errors.Is(%v, ErrLockUnavailable)=false", err)
	}
}
