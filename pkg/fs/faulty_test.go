package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func Test_Faulty_Passes_Through_When_No_Rule_Matches(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.json")

	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	f := NewFaulty(NewReal())
	f.Inject(Fault{Op: OpReadFile, Path: filepath.Join(dir, "other.json")})

	data, err := f.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if string(data) != "hello" {
		t.Fatalf("data=%q, want=%q", data, "hello")
	}

	if got := f.Injected(OpReadFile); got != 0 {
		t.Fatalf("Injected=%d, want=0", got)
	}
}

func Test_Faulty_Returns_Injected_Error_When_Rule_Matches(t *testing.T) {
	t.Parallel()

	f := NewFaulty(NewReal())
	f.Inject(Fault{Op: OpReadDir, Err: syscall.EACCES})

	_, err := f.ReadDir(t.TempDir())
	if !errors.Is(err, syscall.EACCES) {
		t.Fatalf("ReadDir: err=%v, want %v", err, syscall.EACCES)
	}

	if !IsInjected(err) {
		t.Fatalf("IsInjected(%v)=false, want=true", err)
	}
}

func Test_Faulty_Stops_Firing_When_Times_Exhausted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f := NewFaulty(NewReal())
	f.Inject(Fault{Op: OpReadDir, Times: 1})

	if _, err := f.ReadDir(dir); err == nil {
		t.Fatalf("first ReadDir: want error")
	}

	if _, err := f.ReadDir(dir); err != nil {
		t.Fatalf("second ReadDir: %v", err)
	}
}

func Test_Faulty_Write_Writes_Prefix_When_ShortWrite_Set(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.json")
	f := NewFaulty(NewReal())
	f.Inject(Fault{Op: OpWrite, Path: path, ShortWrite: 3})

	file, err := f.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o600)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}

	n, err := file.Write([]byte("abcdef"))
	if !errors.Is(err, io.ErrShortWrite) {
		t.Fatalf("Write: err=%v, want %v", err, io.ErrShortWrite)
	}

	if n != 3 {
		t.Fatalf("n=%d, want=3", n)
	}

	if err := file.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "abc" {
		t.Fatalf("content=%q, want=%q", data, "abc")
	}
}

func Test_Faulty_Writable_Returns_False_When_Rule_Has_No_Error(t *testing.T) {
	t.Parallel()

	f := NewFaulty(NewReal())
	f.Inject(Fault{Op: OpWritable})

	ok, err := f.Writable(t.TempDir())
	if err != nil {
		t.Fatalf("Writable: %v", err)
	}

	if ok {
		t.Fatalf("Writable=true, want=false")
	}
}
