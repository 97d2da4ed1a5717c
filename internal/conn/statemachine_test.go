package conn

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/yourusername/staticd/internal/bufpool"
	"github.com/yourusername/staticd/internal/config"
	"github.com/yourusername/staticd/internal/httpproto"
)

// socketPair returns two connected, non-blocking Unix-domain descriptors
// standing in for a TCP connection's two ends — one is driven as the
// Connection under test, the other plays the remote peer.
func socketPair(t *testing.T) (server, client int) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		t.Fatalf("Socketpair: %v", err)
	}
	if err := unix.SetNonblock(fds[0], true); err != nil {
		t.Fatalf("SetNonblock: %v", err)
	}
	if err := unix.SetNonblock(fds[1], true); err != nil {
		t.Fatalf("SetNonblock: %v", err)
	}
	t.Cleanup(func() {
		unix.Close(fds[0])
		unix.Close(fds[1])
	})
	return fds[0], fds[1]
}

func testDeps(root string) *Deps {
	cfg := config.Default()
	cfg.Port = "0"
	cfg.DocumentRoot = root
	return &Deps{Config: &cfg, Log: logrus.New()}
}

// drive repeatedly calls Handle, writing the client's bytes across
// suspensions, until a terminal code is returned.
func drive(t *testing.T, c *Connection, deps *Deps, client int, request string) (code int, sent bool) {
	t.Helper()
	remaining := []byte(request)

	for i := 0; i < 1000; i++ {
		if len(remaining) > 0 {
			n, err := unix.Write(client, remaining)
			if err == nil {
				remaining = remaining[n:]
			}
		}
		code = c.Handle(deps)
		if code != 0 {
			return code, true
		}
	}
	t.Fatal("Handle never reached a terminal state")
	return 0, false
}

func readAll(t *testing.T, fd int) string {
	t.Helper()
	var out []byte
	buf := make([]byte, 4096)
	for i := 0; i < 100; i++ {
		n, err := unix.Read(fd, buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err != nil || n == 0 {
			break
		}
	}
	return string(out)
}

func TestHandleSimpleGET(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "hello.txt"), []byte("hi\n"), 0644); err != nil {
		t.Fatal(err)
	}

	srv, client := socketPair(t)
	deps := testDeps(root)
	reqPool, respPool := bufpool.New(httpproto.MaxHeaderSize), bufpool.New(httpproto.MaxHeaderSize)
	c := New(srv, "127.0.0.1", reqPool, respPool)

	code, _ := drive(t, c, deps, client, "GET /hello.txt HTTP/1.1\r\nHost: x\r\n\r\n")
	if code != 1 {
		t.Fatalf("Handle returned %d, want 1 (terminal success)", code)
	}

	resp := readAll(t, client)
	if !strings.HasPrefix(resp, "HTTP/1.1 200 OK\r\n") {
		t.Fatalf("response missing 200 status line:\n%s", resp)
	}
	if !strings.Contains(resp, "Content-Length: 3\r\n") {
		t.Errorf("response missing Content-Length: 3:\n%s", resp)
	}
	if !strings.HasSuffix(resp, "hi\n") {
		t.Errorf("response body = %q, want to end with \"hi\\n\"", resp)
	}
}

func TestHandleTraversalForbidden(t *testing.T) {
	root := t.TempDir()
	srv, client := socketPair(t)
	deps := testDeps(root)
	reqPool, respPool := bufpool.New(httpproto.MaxHeaderSize), bufpool.New(httpproto.MaxHeaderSize)
	c := New(srv, "127.0.0.1", reqPool, respPool)

	code, _ := drive(t, c, deps, client, "GET /../etc/passwd HTTP/1.1\r\nHost: x\r\n\r\n")
	if code != 1 {
		t.Fatalf("Handle returned %d, want 1", code)
	}
	resp := readAll(t, client)
	if !strings.HasPrefix(resp, "HTTP/1.1 403 Forbidden\r\n") {
		t.Fatalf("response missing 403 status line:\n%s", resp)
	}
}

func TestHandleUnknownMethod(t *testing.T) {
	root := t.TempDir()
	srv, client := socketPair(t)
	deps := testDeps(root)
	reqPool, respPool := bufpool.New(httpproto.MaxHeaderSize), bufpool.New(httpproto.MaxHeaderSize)
	c := New(srv, "127.0.0.1", reqPool, respPool)

	code, _ := drive(t, c, deps, client, "FROBNICATE / HTTP/1.1\r\nHost: x\r\n\r\n")
	if code != 1 {
		t.Fatalf("Handle returned %d, want 1", code)
	}
	resp := readAll(t, client)
	if !strings.HasPrefix(resp, "HTTP/1.1 400 Bad Request\r\n") {
		t.Fatalf("response missing 400 status line:\n%s", resp)
	}
}

func TestHandlePostMethodNotAllowed(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "x.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	srv, client := socketPair(t)
	deps := testDeps(root)
	reqPool, respPool := bufpool.New(httpproto.MaxHeaderSize), bufpool.New(httpproto.MaxHeaderSize)
	c := New(srv, "127.0.0.1", reqPool, respPool)

	code, _ := drive(t, c, deps, client, "POST /x.txt HTTP/1.1\r\nHost: x\r\n\r\n")
	if code != 1 {
		t.Fatalf("Handle returned %d, want 1", code)
	}
	resp := readAll(t, client)
	if !strings.HasPrefix(resp, "HTTP/1.1 405 Method Not Allowed\r\n") {
		t.Fatalf("response missing 405 status line:\n%s", resp)
	}
}

func TestHandleHEADSendsNoBody(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "hello.txt"), []byte("hi\n"), 0644); err != nil {
		t.Fatal(err)
	}
	srv, client := socketPair(t)
	deps := testDeps(root)
	reqPool, respPool := bufpool.New(httpproto.MaxHeaderSize), bufpool.New(httpproto.MaxHeaderSize)
	c := New(srv, "127.0.0.1", reqPool, respPool)

	code, _ := drive(t, c, deps, client, "HEAD /hello.txt HTTP/1.1\r\nHost: x\r\n\r\n")
	if code != 1 {
		t.Fatalf("Handle returned %d, want 1", code)
	}
	resp := readAll(t, client)
	if !strings.HasPrefix(resp, "HTTP/1.1 200 OK\r\n") {
		t.Fatalf("response missing 200 status line:\n%s", resp)
	}
	if strings.HasSuffix(resp, "hi\n") {
		t.Errorf("HEAD response must not include a body:\n%q", resp)
	}
}

func TestHandleRangeRequest(t *testing.T) {
	root := t.TempDir()
	body := make([]byte, 1024)
	for i := range body {
		body[i] = byte(i % 251)
	}
	if err := os.WriteFile(filepath.Join(root, "big.bin"), body, 0644); err != nil {
		t.Fatal(err)
	}
	srv, client := socketPair(t)
	deps := testDeps(root)
	reqPool, respPool := bufpool.New(httpproto.MaxHeaderSize), bufpool.New(httpproto.MaxHeaderSize)
	c := New(srv, "127.0.0.1", reqPool, respPool)

	code, _ := drive(t, c, deps, client, "GET /big.bin HTTP/1.1\r\nHost: x\r\nRange: bytes=10-19\r\n\r\n")
	if code != 1 {
		t.Fatalf("Handle returned %d, want 1", code)
	}
	resp := readAll(t, client)
	if !strings.Contains(resp, "Content-Range: bytes=10-19\r\n") {
		t.Fatalf("response missing Content-Range:\n%s", resp)
	}
	idx := strings.Index(resp, "\r\n\r\n")
	if idx < 0 {
		t.Fatalf("response has no header/body boundary:\n%s", resp)
	}
	gotBody := []byte(resp[idx+4:])
	if string(gotBody) != string(body[10:20]) {
		t.Errorf("range body mismatch: got %v, want %v", gotBody, body[10:20])
	}
}

func TestHandleEmptyRequestIsSuccessfulNoop(t *testing.T) {
	root := t.TempDir()
	srv, client := socketPair(t)
	deps := testDeps(root)
	reqPool, respPool := bufpool.New(httpproto.MaxHeaderSize), bufpool.New(httpproto.MaxHeaderSize)
	c := New(srv, "127.0.0.1", reqPool, respPool)

	unix.Close(client) // peer closes immediately, zero bytes sent

	code := c.Handle(deps)
	if code != 1 {
		t.Fatalf("Handle on empty request = %d, want 1 (successful no-op close)", code)
	}
}
