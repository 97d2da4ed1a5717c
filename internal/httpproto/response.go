package httpproto

import (
	"strconv"
	"time"
)

// rfc1123GMT matches RFC 1123 with a fixed GMT zone, as spec §4.4 requires.
const rfc1123GMT = "Mon, 02 Jan 2006 15:04:05 GMT"

// ResponseParams describes one response head (spec §4.4). ContentLength
// of -1 omits the header entirely; RangeEnd of 0 omits Content-Range
// (spec §9: "range_end != 0" is the source's signal that a Range was
// actually served, preserved here for parity).
type ResponseParams struct {
	Status          int
	ContentLength   int64
	RangeStart      int64
	RangeEnd        int64
	MIMEType        string
	SecurityHeaders string
}

// FormatHead appends a complete status line + header block (spec §4.4)
// to dst and returns the extended slice. It writes once; callers resume
// sending the same bytes on WouldBlock rather than calling this again.
func FormatHead(dst []byte, p ResponseParams) []byte {
	dst = append(dst, "HTTP/1.1 "...)
	dst = strconv.AppendInt(dst, int64(p.Status), 10)
	dst = append(dst, ' ')
	dst = append(dst, ReasonPhrase(p.Status)...)
	dst = append(dst, "\r\n"...)

	dst = append(dst, "Date: "...)
	dst = append(dst, time.Now().UTC().Format(rfc1123GMT)...)
	dst = append(dst, "\r\n"...)

	dst = append(dst, "Connection: close\r\n"...)

	if p.ContentLength >= 0 {
		dst = append(dst, "Content-Length: "...)
		dst = strconv.AppendInt(dst, p.ContentLength, 10)
		dst = append(dst, "\r\n"...)
	}

	if p.RangeEnd != 0 {
		dst = append(dst, "Content-Range: bytes="...)
		dst = strconv.AppendInt(dst, p.RangeStart, 10)
		dst = append(dst, '-')
		dst = strconv.AppendInt(dst, p.RangeEnd, 10)
		dst = append(dst, "\r\n"...)
	}

	if p.MIMEType != "" {
		dst = append(dst, "Content-Type: "...)
		dst = append(dst, p.MIMEType...)
		dst = append(dst, "\r\n"...)
	}

	dst = append(dst, p.SecurityHeaders...)

	return dst
}
