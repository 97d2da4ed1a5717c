// Package conn implements the per-connection request lifecycle (spec
// §3 Connection, §4.5 state machine) and the connection table (spec §3).
package conn

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/staticd/internal/bufpool"
	"github.com/yourusername/staticd/internal/config"
	"github.com/yourusername/staticd/internal/httpproto"
)

// Stage is a discrete position in the per-connection state machine at
// which Progress is meaningful (spec §4.5).
type Stage int

const (
	StageReadHeader Stage = iota
	StageResolve
	StageWriteHeader
	StageWriteBody
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageReadHeader:
		return "read-header"
	case StageResolve:
		return "resolve"
	case StageWriteHeader:
		return "write-header"
	case StageWriteBody:
		return "write-body"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// writeChunkSize bounds a single WriteBody disk-read-and-send chunk.
const writeChunkSize = 32 * 1024

// Connection is one open client socket (spec §3). Fd is both its
// identity and its connection-table key.
type Connection struct {
	Fd   int
	Peer string

	Method uint8
	Stage  Stage

	// Progress is bytes already moved at the current stage; reset to
	// zero at every stage boundary (spec §4.5).
	Progress int

	RequestBuf  []byte
	ResponseBuf []byte

	RangeStart int64
	RangeEnd   int64

	MIMEType string

	head httpproto.RequestHead

	status        int
	contentLength int64

	bodyBytes  []byte   // synthesized body (directory listing, error page)
	bodyFile   *os.File // open file handle, valid during StageWriteBody
	bodyChunk  []byte   // in-flight read-from-file chunk awaiting flush
	bodySent   int      // bytes of bodyChunk already written
	fileOffset int64    // next absolute file offset to read from
}

// New allocates a Connection for a freshly accepted, non-blocking fd.
func New(fd int, peer string, reqPool, respPool *bufpool.Pool) *Connection {
	return &Connection{
		Fd:          fd,
		Peer:        peer,
		Stage:       StageReadHeader,
		RequestBuf:  reqPool.Get(),
		ResponseBuf: respPool.Get(),
	}
}

// Release returns a Connection's owned buffers to their pools and
// closes any still-open file handle. Called exactly once, at
// retirement (spec §3: "No connection outlives its removal; all owned
// buffers are released with it").
func (c *Connection) Release(reqPool, respPool *bufpool.Pool) {
	if c.bodyFile != nil {
		_ = c.bodyFile.Close()
		c.bodyFile = nil
	}
	reqPool.Put(c.RequestBuf)
	respPool.Put(c.ResponseBuf)
	c.RequestBuf = nil
	c.ResponseBuf = nil
}

// Deps are the collaborators a Connection needs to advance (spec §9:
// "a single server context passed explicitly").
type Deps struct {
	Config    *config.Config
	Log       *logrus.Logger
	AccessLog *os.File
}

// RequestLine returns the "METHOD PATH" pair for access logging, valid
// once the header has been parsed.
func (c *Connection) RequestLine() string {
	return httpproto.MethodString(c.Method) + " " + c.head.Path
}
