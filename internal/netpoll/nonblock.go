// Package netpoll implements the non-blocking I/O primitives (spec
// §4.1) and the readiness-based event facility (spec §4.6) the
// connection state machine suspends and resumes against.
package netpoll

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Status classifies the outcome of one read_up_to/write_up_to call.
type Status int

const (
	// StatusProgress means n bytes moved; n may be a short count.
	StatusProgress Status = iota
	// StatusWouldBlock means the kernel had no room/data; not an error.
	StatusWouldBlock
	// StatusPeerClosed means a read saw EOF (read returned 0, no error).
	StatusPeerClosed
	// StatusBrokenPipe means a write hit a peer that has gone away.
	StatusBrokenPipe
	// StatusError is any other, unrecoverable OS error.
	StatusError
)

// SetNonblocking puts fd into non-blocking mode, required before it can
// be driven through ReadUpTo/WriteUpTo.
func SetNonblocking(fd int) error {
	return unix.SetNonblock(fd, true)
}

// ReadUpTo attempts to read up to len(dst) bytes from fd without
// blocking. It never retries internally; the caller re-invokes it on
// the next readiness notification.
func ReadUpTo(fd int, dst []byte) (int, Status) {
	n, err := unix.Read(fd, dst)
	switch {
	case err == nil && n == 0:
		return 0, StatusPeerClosed
	case err == nil:
		return n, StatusProgress
	case errors.Is(err, unix.EAGAIN):
		return 0, StatusWouldBlock
	case errors.Is(err, unix.EINTR):
		return 0, StatusWouldBlock
	default:
		return 0, StatusError
	}
}

// WriteUpTo attempts to write up to len(src) bytes to fd without
// blocking.
func WriteUpTo(fd int, src []byte) (int, Status) {
	n, err := unix.Write(fd, src)
	switch {
	case err == nil:
		return n, StatusProgress
	case errors.Is(err, unix.EAGAIN):
		return 0, StatusWouldBlock
	case errors.Is(err, unix.EINTR):
		return 0, StatusWouldBlock
	case errors.Is(err, unix.EPIPE):
		return 0, StatusBrokenPipe
	default:
		return 0, StatusError
	}
}

