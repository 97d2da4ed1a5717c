// Package fsresolve maps a validated request path to a filesystem
// resource under a document root (spec §4.3), and synthesizes the small
// HTML bodies for directory indexes and error pages (spec §4.7).
package fsresolve

import (
	"os"
	"strings"

	"github.com/yourusername/staticd/internal/httpproto"
)

// Kind classifies what Resolve found.
type Kind int

const (
	// KindFile is a regular file to be streamed from disk.
	KindFile Kind = iota
	// KindDirectory is a directory resolved to an auto-generated listing.
	KindDirectory
)

// Resource is what a successful Resolve produces.
type Resource struct {
	Kind Kind
	Path string // filesystem path (KindFile) or directory path (KindDirectory)
	Size int64  // file size in bytes (KindFile only)
}

// Resolve implements spec §4.3. It performs no I/O beyond access/stat
// checks, and does no path canonicalization — the ".." rejection is a
// plain substring check, matching the source.
func Resolve(documentRoot, requestPath string) (Resource, error) {
	if strings.Contains(requestPath, "..") {
		return Resource{}, httpproto.ErrForbidden
	}

	candidate := documentRoot + requestPath

	if strings.HasSuffix(requestPath, "/") || !strings.Contains(requestPath, ".") {
		dir := candidate
		if !strings.HasSuffix(dir, "/") {
			dir += "/"
		}

		if indexPHP := dir + "index.php"; fileExists(indexPHP) {
			return stat(indexPHP)
		}
		if indexHTML := dir + "index.html"; fileExists(indexHTML) {
			return stat(indexHTML)
		}
		if dirExists(dir) {
			return Resource{Kind: KindDirectory, Path: dir}, nil
		}
		return Resource{}, httpproto.ErrNotFound
	}

	return stat(candidate)
}

// ClampRange applies spec §4.3 step 5 to a parsed Range: if no Range was
// requested, start/end stay (0, 0) — "whole resource" — unchanged. If one
// was requested, end is clamped to size, and a zero end (the
// "bytes=0-0" sentinel, spec §8/§9) is replaced by size rather than
// treated as a one-byte range.
func ClampRange(start, end int64, hasRange bool, size int64) (int64, int64) {
	if !hasRange {
		return 0, 0
	}
	if end == 0 || end > size {
		end = size
	}
	if start > end {
		start = end
	}
	return start, end
}

func stat(path string) (Resource, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return Resource{}, httpproto.ErrNotFound
	}
	return Resource{Kind: KindFile, Path: path, Size: info.Size()}, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
