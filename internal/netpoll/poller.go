package netpoll

import "time"

// Event reports one readiness notification for a registered fd.
type Event struct {
	Fd        int
	Readable  bool
	HangupErr bool // hang-up or error; spec §4.6 step 3 retires unconditionally
}

// Poller is the readiness-based event facility spec §4.6 drives the
// event loop from. Registration is edge-triggered where the platform
// supports it (Linux epoll); Connection exclusively owns its
// registration and deregisters explicitly at retirement (spec §9) — no
// back-pointer is kept on the registration itself.
type Poller interface {
	// Add registers fd for read readiness.
	Add(fd int) error
	// Remove deregisters fd. Safe to call on an fd already removed.
	Remove(fd int) error
	// Wait blocks up to timeout for readiness events.
	Wait(timeout time.Duration) ([]Event, error)
	// Close releases the facility's own resources (e.g. the epoll fd).
	Close() error
}
