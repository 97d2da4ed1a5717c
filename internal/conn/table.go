package conn

import "errors"

// ErrTableFull is returned by Table.Insert when the connection table is
// at capacity (spec §3: "a fixed-capacity table ... at least 100").
var ErrTableFull = errors.New("conn: table is at capacity")

// Table is the fixed-capacity fd -> Connection map the event loop
// drives (spec §3). The fd is the key: it is simultaneously connection
// identity, table key, and poller registration handle, so the table
// never needs a secondary index.
type Table struct {
	conns map[int]*Connection
	cap   int
}

// NewTable allocates a Table that accepts up to capacity connections.
func NewTable(capacity int) *Table {
	return &Table{
		conns: make(map[int]*Connection, capacity),
		cap:   capacity,
	}
}

// Insert adds c, keyed by its fd. It fails closed once the table is at
// capacity rather than growing unbounded (spec §3).
func (t *Table) Insert(c *Connection) error {
	if len(t.conns) >= t.cap {
		return ErrTableFull
	}
	t.conns[c.Fd] = c
	return nil
}

// Get looks up the Connection registered for fd, if any.
func (t *Table) Get(fd int) (*Connection, bool) {
	c, ok := t.conns[fd]
	return c, ok
}

// Remove drops fd from the table. Safe to call on an fd already absent.
func (t *Table) Remove(fd int) {
	delete(t.conns, fd)
}

// Len reports the number of connections currently tracked.
func (t *Table) Len() int {
	return len(t.conns)
}

// Full reports whether the table has reached capacity.
func (t *Table) Full() bool {
	return len(t.conns) >= t.cap
}

// Each calls fn once per tracked connection. fn must not mutate the
// table; callers needing to retire a connection mid-iteration should
// collect fds first and Remove them afterward.
func (t *Table) Each(fn func(*Connection)) {
	for _, c := range t.conns {
		fn(c)
	}
}
