package httpproto

import "errors"

// Parser and resolver errors, one sentinel per spec §7 error kind. Each
// maps to exactly one status code at the point it is raised.
var (
	// ErrMalformedRequest covers every request-line or header shape
	// violation in spec §4.2 (missing SP, missing "HTTP/" prefix, empty
	// path, missing Host, unknown method).
	ErrMalformedRequest = errors.New("httpproto: malformed request")

	// ErrHeaderTooLarge names the case where request_buf fills before
	// the terminator is found. No function in this module returns it:
	// the conn state machine answers that case with 413 directly.
	ErrHeaderTooLarge = errors.New("httpproto: header too large")

	// ErrPathTooLong is returned when PATH exceeds MaxPathnameSize.
	ErrPathTooLong = errors.New("httpproto: path too long")

	// ErrForbidden marks a path resolution rejected for containing "..".
	ErrForbidden = errors.New("httpproto: path forbidden")

	// ErrNotFound marks a resolved path with no backing file.
	ErrNotFound = errors.New("httpproto: resource not found")

	// ErrMethodNotAllowed marks a recognized verb this server does not
	// serve (everything but GET/HEAD — see spec §13 on PUT). The conn
	// state machine answers those verbs with 405 directly rather than
	// returning this error.
	ErrMethodNotAllowed = errors.New("httpproto: method not allowed")
)
