package httpproto

import (
	"bytes"
	"strconv"
)

// RequestHead is the parsed, validated content of a request's header
// block (spec §3 Connection: method, request path, Host, Range).
type RequestHead struct {
	Method     uint8
	RawMethod  string
	Path       string
	Host       string
	RangeStart int64
	RangeEnd   int64
	HasRange   bool
}

// FindHeaderEnd scans buf for the earliest header terminator, "\n\n" or
// "\r\n\r\n" (spec §9: the source only checked "\n\n"; both are accepted
// here). It returns the offset one past the terminator and true, or
// (0, false) if no terminator has arrived yet.
func FindHeaderEnd(buf []byte) (int, bool) {
	crlf := bytes.Index(buf, terminatorCRLF)
	lf := bytes.Index(buf, terminatorLF)

	switch {
	case crlf < 0 && lf < 0:
		return 0, false
	case crlf < 0:
		return lf + len(terminatorLF), true
	case lf < 0:
		return crlf + len(terminatorCRLF), true
	case crlf <= lf:
		return crlf + len(terminatorCRLF), true
	default:
		return lf + len(terminatorLF), true
	}
}

// ParseHead validates and extracts the request line and the headers this
// server understands (Host, Range) from head, the bytes up to and
// including the terminator found by FindHeaderEnd.
//
// Returns ErrPathTooLong for an over-length path (414) and
// ErrMalformedRequest for every other shape violation (400), matching
// spec §4.2.
func ParseHead(head []byte) (RequestHead, error) {
	line, rest := splitLine(head)

	methodTok, afterMethod, ok := cutSpace(line)
	if !ok {
		return RequestHead{}, ErrMalformedRequest
	}
	pathTok, protoTok, ok := cutSpace(afterMethod)
	if !ok {
		return RequestHead{}, ErrMalformedRequest
	}
	if len(pathTok) == 0 {
		return RequestHead{}, ErrMalformedRequest
	}
	if !bytes.HasPrefix(protoTok, []byte("HTTP/")) {
		return RequestHead{}, ErrMalformedRequest
	}
	if len(pathTok) > MaxPathnameSize {
		return RequestHead{}, ErrPathTooLong
	}

	rh := RequestHead{
		Method:    ParseMethodID(methodTok),
		RawMethod: string(methodTok),
		Path:      string(pathTok),
	}
	if rh.Method == MethodUnknown {
		return RequestHead{}, ErrMalformedRequest
	}

	for len(rest) > 0 {
		var fieldLine []byte
		fieldLine, rest = splitLine(rest)
		if len(fieldLine) == 0 {
			continue
		}
		name, value, ok := cutColon(fieldLine)
		if !ok {
			continue
		}
		switch {
		case bytes.EqualFold(name, []byte("Host")):
			rh.Host = string(value)
		case bytes.EqualFold(name, []byte("Range")):
			if s, e, ok := parseRangeValue(value); ok {
				rh.RangeStart, rh.RangeEnd, rh.HasRange = s, e, true
			}
		}
	}

	if rh.Host == "" {
		return RequestHead{}, ErrMalformedRequest
	}

	return rh, nil
}

// splitLine returns the bytes up to (not including) the first line break
// and the remainder after it, accepting both "\n" and "\r\n".
func splitLine(b []byte) (line, rest []byte) {
	idx := bytes.IndexByte(b, '\n')
	if idx < 0 {
		return trimCR(b), nil
	}
	return trimCR(b[:idx]), b[idx+1:]
}

func trimCR(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		return b[:n-1]
	}
	return b
}

// cutSpace splits on the first space byte, reporting ok=false if none
// is present — used to detect a missing SP in the request line.
func cutSpace(b []byte) (before, after []byte, ok bool) {
	idx := bytes.IndexByte(b, ' ')
	if idx < 0 {
		return nil, nil, false
	}
	return b[:idx], b[idx+1:], true
}

func cutColon(b []byte) (name, value []byte, ok bool) {
	idx := bytes.IndexByte(b, ':')
	if idx < 0 {
		return nil, nil, false
	}
	return bytes.TrimSpace(b[:idx]), bytes.TrimSpace(b[idx+1:]), true
}

// parseRangeValue parses "bytes=<a>-<b>" into non-negative start/end.
// Any shape other than that exact form is ignored (the defaults, "whole
// resource", stand).
func parseRangeValue(v []byte) (start, end int64, ok bool) {
	const prefix = "bytes="
	s := string(v)
	if len(s) <= len(prefix) || s[:len(prefix)] != prefix {
		return 0, 0, false
	}
	s = s[len(prefix):]
	dash := -1
	for i := 0; i < len(s); i++ {
		if s[i] == '-' {
			dash = i
			break
		}
	}
	if dash < 0 {
		return 0, 0, false
	}
	a, errA := strconv.ParseInt(s[:dash], 10, 64)
	b, errB := strconv.ParseInt(s[dash+1:], 10, 64)
	if errA != nil || errB != nil || a < 0 || b < 0 {
		return 0, 0, false
	}
	return a, b, true
}
