package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func Test_RealFS_Exists_Returns_False_When_Path_Does_Not_Exist(t *testing.T) {
	t.Parallel()

	fs := NewReal()
	dir := t.TempDir()

	exists, err := fs.Exists(filepath.Join(dir, "does-not-exist.txt"))

	if got, want := err, error(nil); !errors.Is(got, want) {
		t.Fatalf("err=%v, want=%v", got, want)
	}

	if got, want := exists, false; got != want {
		t.Fatalf("exists=%v, want=%v", got, want)
	}
}

func Test_RealFS_Exists_Returns_True_When_Path_Is_A_File(t *testing.T) {
	t.Parallel()

	fs := NewReal()
	path := filepath.Join(t.TempDir(), "exists.txt")

	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	exists, err := fs.Exists(path)
	if err != nil {
		t.Fatalf("Exists(%q): %v", path, err)
	}

	if !exists {
		t.Fatalf("exists=false, want=true")
	}
}

func Test_RealFS_Mkdir_Fails_When_Parent_Is_Missing(t *testing.T) {
	t.Parallel()

	fs := NewReal()
	path := filepath.Join(t.TempDir(), "missing", "child")

	err := fs.Mkdir(path, 0o777)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Mkdir(%q): err=%v, want %v", path, err, os.ErrNotExist)
	}
}

func Test_RealFS_Writable_Returns_True_When_Directory_Is_Writable(t *testing.T) {
	t.Parallel()

	fs := NewReal()

	ok, err := fs.Writable(t.TempDir())
	if err != nil {
		t.Fatalf("Writable: %v", err)
	}

	if !ok {
		t.Fatalf("Writable=false, want=true")
	}
}

func Test_RealFS_Writable_Returns_False_When_Directory_Is_ReadOnly(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission bits")
	}

	fs := NewReal()
	dir := filepath.Join(t.TempDir(), "ro")

	if err := os.Mkdir(dir, 0o500); err != nil {
		t.Fatalf("setup: %v", err)
	}

	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	ok, err := fs.Writable(dir)
	if err != nil {
		t.Fatalf("Writable: %v", err)
	}

	if ok {
		t.Fatalf("Writable=true, want=false")
	}
}

func Test_RealFS_Writable_Returns_Error_When_Path_Is_Missing(t *testing.T) {
	t.Parallel()

	fs := NewReal()

	_, err := fs.Writable(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Writable: err=%v, want %v", err, os.ErrNotExist)
	}
}
