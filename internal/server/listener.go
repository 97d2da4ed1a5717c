package server

import (
	"strconv"

	"golang.org/x/sys/unix"
)

// listen creates the listening socket spec §4.6/§6 describes: TCP on
// 0.0.0.0:<port>, SO_REUSEADDR, backlog 10, non-blocking. It works
// directly against golang.org/x/sys/unix rather than net.Listen because
// the event loop needs the bare fd to register with the poller
// (netpoll.Poller).
func listen(port int) (int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, err
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return -1, err
	}

	addr := unix.SockaddrInet4{Port: port}
	if err := unix.Bind(fd, &addr); err != nil {
		unix.Close(fd)
		return -1, err
	}

	const backlog = 10
	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return -1, err
	}

	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return -1, err
	}

	return fd, nil
}

// acceptNonblocking accepts one pending connection, if any, returning
// the peer's dotted-quad address alongside its fd.
func acceptNonblocking(listenFd int) (fd int, peer string, err error) {
	nfd, sa, err := unix.Accept(listenFd)
	if err != nil {
		return -1, "", err
	}
	return nfd, peerString(sa), nil
}

// unixShutdown half-closes fd for writes before the final close, a
// best-effort step retirement performs (spec §4.6 "Retirement").
func unixShutdown(fd int) {
	_ = unix.Shutdown(fd, unix.SHUT_WR)
}

func unixClose(fd int) {
	_ = unix.Close(fd)
}

func peerString(sa unix.Sockaddr) string {
	if in4, ok := sa.(*unix.SockaddrInet4); ok {
		ip := in4.Addr
		return strconv.Itoa(int(ip[0])) + "." + strconv.Itoa(int(ip[1])) + "." +
			strconv.Itoa(int(ip[2])) + "." + strconv.Itoa(int(ip[3]))
	}
	return "unknown"
}
