// Package server implements the readiness-driven event loop and
// connection table (spec §4.6): it owns the listening socket, the
// event facility, and the per-connection lifecycle, dispatching every
// readiness notification into conn.Connection.Handle.
package server

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/staticd/internal/bufpool"
	"github.com/yourusername/staticd/internal/config"
	"github.com/yourusername/staticd/internal/conn"
	"github.com/yourusername/staticd/internal/httpproto"
	"github.com/yourusername/staticd/internal/netpoll"
)

// Server drives the event loop described in spec §4.6. It holds no
// state a caller needs to reach into after Run returns; everything is
// released at teardown.
type Server struct {
	cfg config.Config
	log *logrus.Logger

	listenFd int
	poller   netpoll.Poller
	table    *conn.Table

	reqPool  *bufpool.Pool
	respPool *bufpool.Pool

	accessLog *os.File
	deps      *conn.Deps

	accepted uint64
	retired  uint64
}

// New builds a Server from cfg. It performs no I/O; call Run to bind,
// listen, and start serving.
func New(cfg config.Config, log *logrus.Logger) *Server {
	return &Server{
		cfg:      cfg,
		log:      log,
		table:    conn.NewTable(cfg.MaxConnections),
		reqPool:  bufpool.New(httpproto.MaxHeaderSize),
		respPool: bufpool.New(httpproto.MaxHeaderSize),
	}
}

// Run binds the listening socket, installs signal handling, and blocks
// serving connections until SIGINT triggers graceful teardown (spec §5
// "Signals", §4.6).
func (s *Server) Run() error {
	port, err := strconv.Atoi(s.cfg.Port)
	if err != nil {
		return err
	}

	lfd, err := listen(port)
	if err != nil {
		return err
	}
	s.listenFd = lfd

	poller, err := netpoll.NewPoller()
	if err != nil {
		unixClose(lfd)
		return err
	}
	s.poller = poller
	if err := s.poller.Add(lfd); err != nil {
		return err
	}

	if s.cfg.LogFile != "" {
		f, err := os.OpenFile(s.cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		s.accessLog = f
	}
	s.deps = &conn.Deps{Config: &s.cfg, Log: s.log, AccessLog: s.accessLog}

	// SIGPIPE is converted to a non-fatal write error at the syscall
	// layer (netpoll.WriteUpTo already classifies EPIPE); ignore it here
	// so the process itself cannot be killed by a dropped peer (spec §5).
	signal.Ignore(syscall.SIGPIPE)

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt)

	s.log.WithField("port", port).Info("listening")

	for {
		select {
		case <-sigint:
			s.log.Info("shutting down")
			s.teardown()
			return nil
		default:
		}

		s.acceptLoop()

		events, err := s.poller.Wait(s.cfg.PollTimeout())
		if err != nil {
			s.log.WithError(err).Warn("poll wait")
			continue
		}

		for _, ev := range events {
			if ev.Fd == s.listenFd {
				continue
			}
			c, ok := s.table.Get(ev.Fd)
			if !ok {
				continue
			}
			if ev.HangupErr {
				s.retire(c)
				continue
			}
			if ev.Readable {
				code := c.Handle(s.deps)
				if code >= 1 {
					s.retire(c)
				}
			}
		}
	}
}

// acceptLoop drains the accept queue until EAGAIN (spec §4.6 step 1).
func (s *Server) acceptLoop() {
	for {
		if s.table.Full() {
			return
		}

		fd, peer, err := acceptNonblocking(s.listenFd)
		if err != nil {
			return
		}

		if err := netpoll.SetNonblocking(fd); err != nil {
			unixClose(fd)
			continue
		}

		c := conn.New(fd, peer, s.reqPool, s.respPool)
		if err := s.table.Insert(c); err != nil {
			unixClose(fd)
			continue
		}
		if err := s.poller.Add(fd); err != nil {
			s.table.Remove(fd)
			unixClose(fd)
			continue
		}
		s.accepted++
	}
}

// retire deregisters, closes, and releases a connection (spec §4.6
// "Retirement").
func (s *Server) retire(c *conn.Connection) {
	_ = s.poller.Remove(c.Fd)
	unixShutdown(c.Fd)
	unixClose(c.Fd)
	c.Release(s.reqPool, s.respPool)
	s.table.Remove(c.Fd)
	s.retired++
}

// teardown retires every open connection and releases process-wide
// resources (spec §5 "SIGINT triggers graceful teardown").
func (s *Server) teardown() {
	var live []*conn.Connection
	s.table.Each(func(c *conn.Connection) { live = append(live, c) })
	for _, c := range live {
		s.retire(c)
	}
	_ = s.poller.Close()
	unixClose(s.listenFd)
	if s.accessLog != nil {
		_ = s.accessLog.Close()
	}
}

// Stats reports point-in-time counters for the access log / operator
// tooling (not part of the wire protocol).
type Stats struct {
	Accepted     uint64
	Retired      uint64
	Active       int
	RequestPool  bufpool.Stats
	ResponsePool bufpool.Stats
}

// Stats returns a snapshot of server activity.
func (s *Server) Stats() Stats {
	return Stats{
		Accepted:     s.accepted,
		Retired:      s.retired,
		Active:       s.table.Len(),
		RequestPool:  s.reqPool.Stats(),
		ResponsePool: s.respPool.Stats(),
	}
}
