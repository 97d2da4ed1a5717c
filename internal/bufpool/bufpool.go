// Package bufpool pools the fixed-size byte buffers every Connection
// owns (spec §3: request_buf, response_buf) using a sync.Pool with
// hit/miss metrics, rather than pulling in a second, overlapping
// pooling dependency.
package bufpool

import (
	"sync"
	"sync/atomic"
)

// Pool hands out buffers of a single fixed size and tracks reuse.
type Pool struct {
	size  int
	pool  sync.Pool
	gets  atomic.Uint64
	puts  atomic.Uint64
	hits  atomic.Uint64
	misses atomic.Uint64
}

// New creates a Pool of buffers sized size bytes.
func New(size int) *Pool {
	p := &Pool{size: size}
	p.pool.New = func() any {
		p.misses.Add(1)
		return make([]byte, 0, size)
	}
	return p
}

// Get returns a zero-length buffer with capacity size.
func (p *Pool) Get() []byte {
	p.gets.Add(1)
	before := p.misses.Load()
	buf := p.pool.Get().([]byte)
	if p.misses.Load() == before {
		// New was not called, so buf is a reused, previously Put buffer.
		p.hits.Add(1)
	}
	return buf[:0]
}

// Put returns buf to the pool. Buffers of the wrong capacity are
// dropped rather than pooled, so a caller's bug can't poison the pool
// with a short-capacity buffer.
func (p *Pool) Put(buf []byte) {
	p.puts.Add(1)
	if cap(buf) != p.size {
		return
	}
	p.pool.Put(buf) //nolint:staticcheck // sync.Pool wants the full-capacity slice back
}

// Stats is a point-in-time snapshot of pool activity.
type Stats struct {
	Gets, Puts, Hits, Misses uint64
}

// Stats returns current counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Gets:   p.gets.Load(),
		Puts:   p.puts.Load(),
		Hits:   p.hits.Load(),
		Misses: p.misses.Load(),
	}
}
