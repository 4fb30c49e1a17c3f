package fs

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func openForLock(t *testing.T, path string) File {
	t.Helper()

	f, err := NewReal().OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o600)
	if err != nil {
		t.Fatalf("OpenFile(%q): %v", path, err)
	}

	t.Cleanup(func() { _ = f.Close() })

	return f
}

func Test_Locker_TryLockFile_Returns_ErrWouldBlock_When_File_Is_Locked(t *testing.T) {
	t.Parallel()

	locker := NewLocker()
	path := filepath.Join(t.TempDir(), "doc.json")

	f1 := openForLock(t, path)
	f2 := openForLock(t, path)

	lock1, err := locker.TryLockFile(f1)
	if err != nil {
		t.Fatalf("TryLockFile(f1): %v", err)
	}

	lock2, err := locker.TryLockFile(f2)
	if !errors.Is(err, ErrWouldBlock) {
		t.Fatalf("TryLockFile(f2) while locked: err=%v, want %v", err, ErrWouldBlock)
	}

	if lock2 != nil {
		t.Fatalf("TryLockFile(f2) while locked: want lock=nil, got non-nil")
	}

	if err := lock1.Unlock(); err != nil {
		t.Fatalf("Unlock(): %v", err)
	}

	lock3, err := locker.TryLockFile(f2)
	if err != nil {
		t.Fatalf("TryLockFile(f2) after release: %v", err)
	}

	if err := lock3.Unlock(); err != nil {
		t.Fatalf("Unlock(): %v", err)
	}
}

func Test_Locker_TryLockFile_Succeeds_When_Previous_Holder_Closed_File(t *testing.T) {
	t.Parallel()

	locker := NewLocker()
	path := filepath.Join(t.TempDir(), "doc.json")

	f1, err := NewReal().OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o600)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}

	if _, err := locker.TryLockFile(f1); err != nil {
		t.Fatalf("TryLockFile(f1): %v", err)
	}

	if err := f1.Close(); err != nil {
		t.Fatalf("Close(f1): %v", err)
	}

	lock, err := locker.TryLockFile(openForLock(t, path))
	if err != nil {
		t.Fatalf("TryLockFile after close: %v", err)
	}

	_ = lock.Unlock()
}

func Test_Lock_Unlock_Is_Idempotent(t *testing.T) {
	t.Parallel()

	locker := NewLocker()
	f := openForLock(t, filepath.Join(t.TempDir(), "doc.json"))

	lock, err := locker.TryLockFile(f)
	if err != nil {
		t.Fatalf("TryLockFile: %v", err)
	}

	if err := lock.Unlock(); err != nil {
		t.Fatalf("first Unlock: %v", err)
	}

	if err := lock.Unlock(); err != nil {
		t.Fatalf("second Unlock: %v", err)
	}
}

func Test_Locker_TryLockFile_Retries_When_Flock_Returns_EINTR(t *testing.T) {
	t.Parallel()

	calls := 0
	locker := &Locker{flock: func(int, int) error {
		calls++
		if calls < 3 {
			return syscall.EINTR
		}

		return nil
	}}

	f := openForLock(t, filepath.Join(t.TempDir(), "doc.json"))

	if _, err := locker.TryLockFile(f); err != nil {
		t.Fatalf("TryLockFile: %v", err)
	}

	if calls != 3 {
		t.Fatalf("flock calls=%d, want=3", calls)
	}
}

func Test_Locker_TryLockFile_Wraps_Error_When_Flock_Fails(t *testing.T) {
	t.Parallel()

	locker := &Locker{flock: func(int, int) error { return syscall.EBADF }}
	f := openForLock(t, filepath.Join(t.TempDir(), "doc.json"))

	_, err := locker.TryLockFile(f)
	if !errors.Is(err, syscall.EBADF) {
		t.Fatalf("TryLockFile: err=%v, want %v", err, syscall.EBADF)
	}

	if errors.Is(err, ErrWouldBlock) {
		t.Fatalf("TryLockFile: err=%v must not be ErrWouldBlock", err)
	}
}
