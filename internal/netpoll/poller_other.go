//go:build !linux

package netpoll

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// pollPoller is a portable fallback built on poll(2), used on platforms
// other than Linux (spec §13 open question: no pack example exercises
// kqueue directly, so this is a level-triggered stand-in for parity
// testing and local development, not a production edge-triggered
// facility).
type pollPoller struct {
	mu  sync.Mutex
	fds []int
}

// NewPoller creates the platform event facility.
func NewPoller() (Poller, error) {
	return &pollPoller{}, nil
}

func (p *pollPoller) Add(fd int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, existing := range p.fds {
		if existing == fd {
			return nil
		}
	}
	p.fds = append(p.fds, fd)
	return nil
}

func (p *pollPoller) Remove(fd int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, existing := range p.fds {
		if existing == fd {
			p.fds = append(p.fds[:i], p.fds[i+1:]...)
			return nil
		}
	}
	return nil
}

func (p *pollPoller) Wait(timeout time.Duration) ([]Event, error) {
	p.mu.Lock()
	fds := make([]unix.PollFd, len(p.fds))
	for i, fd := range p.fds {
		fds[i] = unix.PollFd{Fd: int32(fd), Events: unix.POLLIN}
	}
	p.mu.Unlock()

	if len(fds) == 0 {
		time.Sleep(timeout)
		return nil, nil
	}

	n, err := unix.Poll(fds, int(timeout/time.Millisecond))
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	events := make([]Event, 0, n)
	for _, f := range fds {
		if f.Revents == 0 {
			continue
		}
		events = append(events, Event{
			Fd:        int(f.Fd),
			Readable:  f.Revents&unix.POLLIN != 0,
			HangupErr: f.Revents&(unix.POLLHUP|unix.POLLERR) != 0,
		})
	}
	return events, nil
}

func (p *pollPoller) Close() error {
	return nil
}
