// Package mimetype implements the MIME collaborator described in spec
// §6: an explicit suffix table first, a magic-byte fallback second.
package mimetype

import (
	"bytes"
	"path/filepath"

	"github.com/yourusername/staticd/internal/httpproto"
)

// signature is one magic-byte rule, checked in order.
type signature struct {
	prefix []byte
	mime   string
}

var signatures = []signature{
	{prefix: []byte("\x89PNG\r\n\x1a\n"), mime: "image/png"},
	{prefix: []byte{0xFF, 0xD8, 0xFF}, mime: "image/jpeg"},
	{prefix: []byte("GIF87a"), mime: "image/gif"},
	{prefix: []byte("GIF89a"), mime: "image/gif"},
	{prefix: []byte("%PDF-"), mime: "application/pdf"},
	{prefix: []byte("PK\x03\x04"), mime: "application/zip"},
	{prefix: []byte("<!DOCTYPE html"), mime: "text/html"},
	{prefix: []byte("<html"), mime: "text/html"},
}

// fallback is returned when neither the suffix table nor sniffing
// identifies sample.
const fallback = "application/octet-stream"

// Detect classifies path by its suffix first (spec's explicit table),
// falling back to sniffing the leading bytes of sample. sample may be
// shorter than any signature; a short sample simply fails to match.
func Detect(path string, sample []byte) string {
	if m, ok := httpproto.MIMEBySuffix(filepath.Ext(path)); ok {
		return m
	}
	return Sniff(sample)
}

// Sniff returns the MIME type for the leading bytes of sample, or the
// generic octet-stream fallback if no signature matches.
func Sniff(sample []byte) string {
	for _, sig := range signatures {
		if bytes.HasPrefix(sample, sig.prefix) {
			return sig.mime
		}
	}
	return fallback
}
