package fs

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// ErrWouldBlock is returned when a lock cannot be acquired without waiting.
var ErrWouldBlock = errors.New("lock would block")

// Locker takes advisory flock(2) locks on already-open files.
//
// flock is advisory and applies to an open file description, not a pathname.
// All cooperating writers must take the lock for it to have effect; readers
// that skip it may observe a file mid-write.
//
// Two descriptors opened separately on the same file conflict even within one
// process, so no extra in-process mutex is needed for same-file writers.
//
// This implementation is Unix-only.
type Locker struct {
	flock func(fd int, how int) error
}

// NewLocker creates a Locker backed by [unix.Flock].
func NewLocker() *Locker {
	return &Locker{flock: unix.Flock}
}

// Lock represents a held file lock. Call [Lock.Unlock] to release it.
//
// Unlock does not close the file; the caller owns the descriptor.
type Lock struct {
	mu    sync.Mutex
	file  File
	flock func(fd int, how int) error
}

// Unlock releases the lock.
//
// Unlock is idempotent - calling it multiple times is safe and subsequent
// calls return nil. Closing the descriptor also releases the lock, so an
// Unlock error followed by a successful Close still leaves the file unlocked.
func (lk *Lock) Unlock() error {
	lk.mu.Lock()
	defer lk.mu.Unlock()

	if lk.file == nil {
		return nil
	}

	err := flockRetryEINTR(lk.flock, int(lk.file.Fd()), unix.LOCK_UN)
	lk.file = nil

	if err != nil {
		return fmt.Errorf("unlocking: %w", err)
	}

	return nil
}

// TryLockFile attempts to take an exclusive lock on file without blocking.
//
// Returns [ErrWouldBlock] immediately if another descriptor holds a
// conflicting lock. The file must be open; its mode does not matter for flock.
func (l *Locker) TryLockFile(file File) (*Lock, error) {
	if file == nil {
		return nil, errors.New("file is nil")
	}

	err := flockRetryEINTR(l.flock, int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		if isWouldBlock(err) {
			return nil, ErrWouldBlock
		}

		return nil, fmt.Errorf("flock: %w", err)
	}

	return &Lock{file: file, flock: l.flock}, nil
}

func isWouldBlock(err error) bool {
	return errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN)
}

// flockRetryEINTR wraps flock, retrying on EINTR.
//
// EINTR means the syscall was interrupted by a signal before it could
// complete; it did not fail and needs to be retried. Retries are capped so a
// pathological signal storm cannot spin forever.
func flockRetryEINTR(flock func(fd int, how int) error, fd int, how int) error {
	const maxEINTRRetries = 10000

	var err error
	for range maxEINTRRetries {
		err = flock(fd, how)
		if err == nil || !errors.Is(err, unix.EINTR) {
			return err
		}
	}

	return err
}
