package conn

import (
	"io"
	"os"
	"strings"

	"github.com/yourusername/staticd/internal/fsresolve"
	"github.com/yourusername/staticd/internal/httpproto"
	"github.com/yourusername/staticd/internal/mimetype"
	"github.com/yourusername/staticd/internal/netpoll"
)

// action is the internal signal a stage step returns to the driving
// loop in Handle: keep advancing, suspend and return control to the
// event loop, or terminate with a dispatch code.
type action int

const (
	actionContinue action = iota
	actionSuspend
	actionDone
)

// Handle advances the connection through as many stages as it can
// without blocking, resuming from whatever Stage/Progress it was left
// at (spec §4.5). It returns the dispatcher's return-discipline code
// (spec §4.5): 0 suspended, 1 terminal success, >=2 terminal failure.
func (c *Connection) Handle(deps *Deps) int {
	for {
		var act action
		var code int

		switch c.Stage {
		case StageReadHeader:
			act, code = c.stepReadHeader(deps)
		case StageResolve:
			act, code = c.stepResolve(deps)
		case StageWriteHeader:
			act, code = c.stepWriteHeader(deps)
		case StageWriteBody:
			act, code = c.stepWriteBody(deps)
		case StageDone:
			return 1
		default:
			return 2
		}

		switch act {
		case actionSuspend:
			return 0
		case actionDone:
			c.Stage = StageDone
			if deps.AccessLog != nil && code == 1 {
				logAccess(deps, c)
			}
			return code
		case actionContinue:
			// loop again; the next stage starts immediately
		}
	}
}

func logAccess(deps *Deps, c *Connection) {
	line := "[" + c.Peer + "] \"" + c.RequestLine() + "\"\n"
	_, _ = deps.AccessLog.WriteString(line)
}

// stepReadHeader drains available bytes into RequestBuf until the
// header terminator is found, the buffer fills, or the socket would
// block (spec §4.1, §4.2).
func (c *Connection) stepReadHeader(deps *Deps) (action, int) {
	for {
		free := cap(c.RequestBuf) - len(c.RequestBuf)
		if free == 0 {
			return c.failBeforeResponse(deps, 413)
		}

		scratch := make([]byte, free)
		n, status := netpoll.ReadUpTo(c.Fd, scratch)

		switch status {
		case netpoll.StatusWouldBlock:
			return actionSuspend, 0

		case netpoll.StatusPeerClosed:
			if len(c.RequestBuf) == 0 {
				// Empty request: a successful no-op close (spec §4.2).
				return actionDone, 1
			}
			return actionDone, 2

		case netpoll.StatusError:
			return actionDone, 2

		case netpoll.StatusProgress:
			c.RequestBuf = append(c.RequestBuf, scratch[:n]...)
			c.Progress = len(c.RequestBuf)

			if end, ok := httpproto.FindHeaderEnd(c.RequestBuf); ok {
				return c.parseHead(deps, c.RequestBuf[:end])
			}
			if len(c.RequestBuf) >= cap(c.RequestBuf) {
				return c.failBeforeResponse(deps, 413)
			}
			// keep draining; edge-triggered readiness won't fire again
			// until more data arrives, so loop immediately.
		}
	}
}

// parseHead validates the request line and headers (spec §4.2) and, on
// success, moves to StageResolve for classification and resolution.
func (c *Connection) parseHead(deps *Deps, head []byte) (action, int) {
	rh, err := httpproto.ParseHead(head)
	switch err {
	case httpproto.ErrPathTooLong:
		return c.prepareError(deps, 414), 0
	case httpproto.ErrMalformedRequest:
		return c.prepareError(deps, 400), 0
	}
	c.head = rh
	c.Method = rh.Method
	c.Stage = StageResolve
	c.Progress = 0
	return actionContinue, 0
}

// stepResolve classifies the method (spec §4.5 ClassifyMethod) and, for
// GET/HEAD, resolves the request path to a filesystem resource (spec
// §4.3). Resolution itself uses only stat(); the directory read, MIME
// sniff and file open that follow are ordinary blocking filesystem
// calls, so this stage never suspends.
func (c *Connection) stepResolve(deps *Deps) (action, int) {
	switch c.Method {
	case httpproto.MethodGET, httpproto.MethodHEAD:
		// fall through to resolution below
	default:
		// PUT/POST/DELETE/CONNECT/OPTIONS/TRACE are recognized verbs this
		// server does not serve (spec §13: PUT/upload is unspecified and
		// omitted; the rest have no handler either).
		return c.prepareError(deps, 405), 0
	}

	res, err := fsresolve.Resolve(deps.Config.DocumentRoot, c.head.Path)
	return c.resolveDispatch(deps, res, err)
}

func (c *Connection) resolveDispatch(deps *Deps, res fsresolve.Resource, err error) (action, int) {
	switch err {
	case nil:
		// fallthrough below
	case httpproto.ErrForbidden:
		return c.prepareError(deps, 403), 0
	case httpproto.ErrNotFound:
		return c.prepareError(deps, 404), 0
	default:
		return c.prepareError(deps, 404), 0
	}

	if res.Kind == fsresolve.KindDirectory {
		listing, lerr := fsresolve.BuildListing(res.Path, requestDirPath(c.head.Path))
		if lerr != nil {
			return c.prepareError(deps, 404), 0
		}
		c.prepareSynthesized(deps, 200, listing, "text/html")
		return actionContinue, 0
	}

	if res.Size > deps.Config.MaxFileSize {
		return c.prepareError(deps, 413), 0
	}

	start, end := fsresolve.ClampRange(c.head.RangeStart, c.head.RangeEnd, c.head.HasRange, res.Size)
	c.RangeStart, c.RangeEnd = start, end

	var served int64
	if c.head.HasRange {
		if end < start {
			served = 0
		} else {
			served = end - start + 1
			// ClampRange sets end to size (not size-1) both for the
			// bytes=0-0 sentinel (spec §9's non-RFC Content-Range quirk)
			// and for any end beyond the resource, which would otherwise
			// overrun the file by one byte; bound the actual transfer to
			// what the resource holds.
			if max := res.Size - start; served > max {
				served = max
			}
		}
	} else {
		served = res.Size
	}

	c.MIMEType = mimetype.Detect(res.Path, sniffSample(res.Path))
	c.status = 200
	c.contentLength = served
	c.fileOffset = start

	if served > 0 && c.Method != httpproto.MethodHEAD {
		f, ferr := os.Open(res.Path)
		if ferr != nil {
			return c.prepareError(deps, 404), 0
		}
		c.bodyFile = f
	}

	c.ResponseBuf = httpproto.FormatHead(c.ResponseBuf, httpproto.ResponseParams{
		Status:          c.status,
		ContentLength:   c.contentLength,
		RangeStart:      c.RangeStart,
		RangeEnd:        c.RangeEnd,
		MIMEType:        c.MIMEType,
		SecurityHeaders: deps.Config.SecurityHeaders,
	})
	c.Stage = StageWriteHeader
	c.Progress = 0
	return actionContinue, 0
}

// sniffSample reads a small prefix of path for magic-byte MIME detection
// (spec §6 MIME collaborator); a miss or short file falls back to the
// suffix table alone.
func sniffSample(path string) []byte {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	return buf[:n]
}

func requestDirPath(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}

// prepareError formats an error response head and body (spec §4.7) and
// transitions to StageWriteHeader.
func (c *Connection) prepareError(deps *Deps, status int) action {
	body := fsresolve.BuildErrorBody(status)
	c.prepareSynthesized(deps, status, body, "text/html")
	return actionContinue
}

// prepareSynthesized formats a response whose body is a small in-memory
// buffer (directory listing or error page). The head is still sent in
// StageWriteHeader and the body in StageWriteBody (via writeMemoryBody);
// for HEAD the body is dropped — see DESIGN.md.
func (c *Connection) prepareSynthesized(deps *Deps, status int, body []byte, mime string) {
	c.status = status
	c.contentLength = int64(len(body))
	c.bodyBytes = body
	c.MIMEType = mime

	if c.Method == httpproto.MethodHEAD {
		c.bodyBytes = nil
	}

	c.ResponseBuf = httpproto.FormatHead(c.ResponseBuf, httpproto.ResponseParams{
		Status:          status,
		ContentLength:   c.contentLength,
		MIMEType:        c.MIMEType,
		SecurityHeaders: deps.Config.SecurityHeaders,
	})
	c.Stage = StageWriteHeader
	c.Progress = 0
}

// failBeforeResponse prepares a response for an error discovered before
// any byte of a response has been sent (spec §7 policy).
func (c *Connection) failBeforeResponse(deps *Deps, status int) (action, int) {
	c.prepareError(deps, status)
	return actionContinue, 0
}

// stepWriteHeader sends ResponseBuf[Progress:], resuming from wherever
// a prior suspension left off (spec §4.5 resumption rule).
func (c *Connection) stepWriteHeader(deps *Deps) (action, int) {
	for c.Progress < len(c.ResponseBuf) {
		n, status := netpoll.WriteUpTo(c.Fd, c.ResponseBuf[c.Progress:])
		switch status {
		case netpoll.StatusWouldBlock:
			return actionSuspend, 0
		case netpoll.StatusProgress:
			c.Progress += n
		default:
			return actionDone, 2
		}
	}

	if c.Method == httpproto.MethodHEAD || c.contentLength == 0 {
		return actionDone, 1
	}

	c.Stage = StageWriteBody
	c.Progress = 0
	return actionContinue, 0
}

// stepWriteBody streams the response body — either a synthesized
// in-memory buffer or a bounded chunk of an open file — resuming from
// Progress on re-entry (spec §4.5, §5 "Open files during WriteBody").
func (c *Connection) stepWriteBody(deps *Deps) (action, int) {
	if c.bodyBytes != nil {
		return c.writeMemoryBody()
	}
	return c.writeFileBody()
}

func (c *Connection) writeMemoryBody() (action, int) {
	for c.Progress < len(c.bodyBytes) {
		n, status := netpoll.WriteUpTo(c.Fd, c.bodyBytes[c.Progress:])
		switch status {
		case netpoll.StatusWouldBlock:
			return actionSuspend, 0
		case netpoll.StatusProgress:
			c.Progress += n
		default:
			return actionDone, 2
		}
	}
	return actionDone, 1
}

func (c *Connection) writeFileBody() (action, int) {
	for int64(c.Progress) < c.contentLength {
		if c.bodyChunk == nil || c.bodySent == len(c.bodyChunk) {
			want := int64(writeChunkSize)
			if remaining := c.contentLength - int64(c.Progress); remaining < want {
				want = remaining
			}
			buf := make([]byte, want)
			n, err := c.bodyFile.ReadAt(buf, c.fileOffset)
			if err != nil && err != io.EOF {
				return actionDone, 2
			}
			c.bodyChunk = buf[:n]
			c.bodySent = 0
			c.fileOffset += int64(n)
			if n == 0 {
				return actionDone, 2
			}
		}

		n, status := netpoll.WriteUpTo(c.Fd, c.bodyChunk[c.bodySent:])
		switch status {
		case netpoll.StatusWouldBlock:
			return actionSuspend, 0
		case netpoll.StatusProgress:
			c.bodySent += n
			c.Progress += n
		default:
			return actionDone, 2
		}
	}
	return actionDone, 1
}

