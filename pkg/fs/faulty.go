package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"
)

// Op names a filesystem operation that [Faulty] can intercept.
type Op string

// Operations [Faulty] can fail.
const (
	OpOpen     Op = "open"
	OpOpenFile Op = "openfile"
	OpReadFile Op = "readfile"
	OpReadDir  Op = "readdir"
	OpMkdir    Op = "mkdir"
	OpStat     Op = "stat"
	OpWritable Op = "writable"
	OpRemove   Op = "remove"
	OpWrite    Op = "write"
	OpTruncate Op = "truncate"
	OpClose    Op = "close"
)

// Fault describes one injected failure.
//
// The zero Path matches every path. Err defaults to EIO. For [OpWrite],
// ShortWrite > 0 writes that many bytes to the underlying file before
// failing, which is how a torn write is simulated. Times limits how often the
// fault fires; zero means every time.
type Fault struct {
	Op         Op
	Path       string
	Err        error
	ShortWrite int
	Times      int
}

type faultError struct {
	err error
}

func (e *faultError) Error() string {
	return e.err.Error()
}

func (e *faultError) Unwrap() error {
	return e.err
}

// IsInjected reports whether err (or anything it wraps) was produced by
// [Faulty] rather than the real filesystem.
func IsInjected(err error) bool {
	var fe *faultError

	return errors.As(err, &fe)
}

type faultRule struct {
	Fault

	fired int
}

// Faulty wraps an [FS] and fails operations that match registered [Fault]
// rules. Unmatched operations pass through to the underlying filesystem.
//
// Failures are deterministic: a test can assert the exact outcome of a single
// failing syscall.
type Faulty struct {
	fs FS

	mu     sync.Mutex
	rules  []*faultRule
	counts map[Op]int
}

// NewFaulty returns a Faulty over underlying. Panics if underlying is nil.
func NewFaulty(underlying FS) *Faulty {
	if underlying == nil {
		panic("underlying fs is nil")
	}

	return &Faulty{fs: underlying, counts: map[Op]int{}}
}

// Inject registers a fault rule. Rules are evaluated in registration order.
func (f *Faulty) Inject(fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.rules = append(f.rules, &faultRule{Fault: fault})
}

// Clear removes all rules. Counters are kept.
func (f *Faulty) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.rules = nil
}

// Injected returns how many times a fault fired for op.
func (f *Faulty) Injected(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.counts[op]
}

// match returns the first live rule for op/path and consumes one firing.
func (f *Faulty) match(op Op, path string) *Fault {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.rules {
		if r.Op != op {
			continue
		}

		if r.Path != "" && r.Path != path {
			continue
		}

		if r.Times > 0 && r.fired >= r.Times {
			continue
		}

		r.fired++
		f.counts[op]++
		fault := r.Fault

		return &fault
	}

	return nil
}

func (f *Faulty) fail(op Op, path string) error {
	fault := f.match(op, path)
	if fault == nil {
		return nil
	}

	return injectedErr(fault, path)
}

func injectedErr(fault *Fault, path string) error {
	err := fault.Err
	if err == nil {
		err = syscall.EIO
	}

	return &faultError{err: &os.PathError{Op: string(fault.Op), Path: path, Err: err}}
}

func (f *Faulty) Open(path string) (File, error) {
	if err := f.fail(OpOpen, path); err != nil {
		return nil, err
	}

	file, err := f.fs.Open(path)
	if err != nil {
		return nil, err
	}

	return &faultyFile{File: file, path: path, owner: f}, nil
}

func (f *Faulty) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	if err := f.fail(OpOpenFile, path); err != nil {
		return nil, err
	}

	file, err := f.fs.OpenFile(path, flag, perm)
	if err != nil {
		return nil, err
	}

	return &faultyFile{File: file, path: path, owner: f}, nil
}

func (f *Faulty) ReadFile(path string) ([]byte, error) {
	if err := f.fail(OpReadFile, path); err != nil {
		return nil, err
	}

	return f.fs.ReadFile(path)
}

func (f *Faulty) ReadDir(path string) ([]os.DirEntry, error) {
	if err := f.fail(OpReadDir, path); err != nil {
		return nil, err
	}

	return f.fs.ReadDir(path)
}

func (f *Faulty) Mkdir(path string, perm os.FileMode) error {
	if err := f.fail(OpMkdir, path); err != nil {
		return err
	}

	return f.fs.Mkdir(path, perm)
}

func (f *Faulty) MkdirAll(path string, perm os.FileMode) error {
	if err := f.fail(OpMkdir, path); err != nil {
		return err
	}

	return f.fs.MkdirAll(path, perm)
}

func (f *Faulty) Stat(path string) (os.FileInfo, error) {
	if err := f.fail(OpStat, path); err != nil {
		return nil, err
	}

	return f.fs.Stat(path)
}

func (f *Faulty) Exists(path string) (bool, error) {
	if err := f.fail(OpStat, path); err != nil {
		return false, err
	}

	return f.fs.Exists(path)
}

// Writable reports false (not an error) when a rule matches, the way a
// read-only directory looks to access(2).
func (f *Faulty) Writable(path string) (bool, error) {
	if fault := f.match(OpWritable, path); fault != nil {
		if fault.Err != nil {
			return false, injectedErr(fault, path)
		}

		return false, nil
	}

	return f.fs.Writable(path)
}

func (f *Faulty) Remove(path string) error {
	if err := f.fail(OpRemove, path); err != nil {
		return err
	}

	return f.fs.Remove(path)
}

type faultyFile struct {
	File

	path  string
	owner *Faulty
}

func (ff *faultyFile) Write(data []byte) (int, error) {
	fault := ff.owner.match(OpWrite, ff.path)
	if fault == nil {
		return ff.File.Write(data)
	}

	if fault.ShortWrite <= 0 {
		return 0, injectedErr(fault, ff.path)
	}

	n, err := ff.File.Write(data[:min(fault.ShortWrite, len(data))])
	if err != nil {
		return n, err
	}

	if fault.Err == nil {
		return n, &faultError{err: fmt.Errorf("write %s: %w", ff.path, io.ErrShortWrite)}
	}

	return n, injectedErr(fault, ff.path)
}

func (ff *faultyFile) Truncate(size int64) error {
	if err := ff.owner.fail(OpTruncate, ff.path); err != nil {
		return err
	}

	return ff.File.Truncate(size)
}

// Close always closes the underlying descriptor so injected failures never
// leak file handles.
func (ff *faultyFile) Close() error {
	closeErr := ff.File.Close()

	if err := ff.owner.fail(OpClose, ff.path); err != nil {
		return err
	}

	return closeErr
}

// Compile-time interface checks.
var (
	_ FS   = (*Faulty)(nil)
	_ File = (*faultyFile)(nil)
)
