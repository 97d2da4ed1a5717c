package fsresolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yourusername/staticd/internal/httpproto"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "hello.txt"), "hi\n")

	res, err := Resolve(root, "/hello.txt")
	if err != nil {
		t.Fatalf("Resolve returned %v", err)
	}
	if res.Kind != KindFile {
		t.Errorf("Kind = %v, want KindFile", res.Kind)
	}
	if res.Size != 3 {
		t.Errorf("Size = %d, want 3", res.Size)
	}
}

func TestResolveTraversalForbidden(t *testing.T) {
	root := t.TempDir()
	_, err := Resolve(root, "/../etc/passwd")
	if err != httpproto.ErrForbidden {
		t.Errorf("Resolve(..) = %v, want ErrForbidden", err)
	}
}

func TestResolveMissingFile(t *testing.T) {
	root := t.TempDir()
	_, err := Resolve(root, "/nope.txt")
	if err != httpproto.ErrNotFound {
		t.Errorf("Resolve(missing) = %v, want ErrNotFound", err)
	}
}

func TestResolveIndexHTMLFallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "index.html"), "<html></html>")

	res, err := Resolve(root, "/docs/")
	if err != nil {
		t.Fatalf("Resolve returned %v", err)
	}
	if res.Kind != KindFile {
		t.Errorf("Kind = %v, want KindFile (index.html)", res.Kind)
	}
}

func TestResolveIndexPHPPreferredOverHTML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "index.html"), "html")
	writeFile(t, filepath.Join(root, "docs", "index.php"), "php")

	res, err := Resolve(root, "/docs/")
	if err != nil {
		t.Fatalf("Resolve returned %v", err)
	}
	if filepath.Base(res.Path) != "index.php" {
		t.Errorf("resolved to %q, want index.php", res.Path)
	}
}

func TestResolveDirectoryListingFallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "a.txt"), "a")

	res, err := Resolve(root, "/docs/")
	if err != nil {
		t.Fatalf("Resolve returned %v", err)
	}
	if res.Kind != KindDirectory {
		t.Errorf("Kind = %v, want KindDirectory", res.Kind)
	}
}

func TestClampRange(t *testing.T) {
	tests := []struct {
		name               string
		start, end         int64
		hasRange           bool
		size               int64
		wantStart, wantEnd int64
	}{
		{"no range requested", 0, 0, false, 1024, 0, 0},
		{"sentinel 0-0 clamps to size", 0, 0, true, 1024, 0, 1024},
		{"normal range unchanged", 10, 19, true, 1024, 10, 19},
		{"end beyond size clamps", 10, 5000, true, 1024, 10, 1024},
		{"start beyond clamped end pulled back", 2000, 0, true, 1024, 1024, 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStart, gotEnd := ClampRange(tt.start, tt.end, tt.hasRange, tt.size)
			if gotStart != tt.wantStart || gotEnd != tt.wantEnd {
				t.Errorf("ClampRange(%d, %d, %v, %d) = (%d, %d), want (%d, %d)",
					tt.start, tt.end, tt.hasRange, tt.size, gotStart, gotEnd, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
