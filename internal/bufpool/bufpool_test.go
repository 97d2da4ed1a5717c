package bufpool

import "testing"

func TestGetReturnsZeroLengthFullCapacity(t *testing.T) {
	p := New(64)
	buf := p.Get()
	if len(buf) != 0 {
		t.Errorf("Get() len = %d, want 0", len(buf))
	}
	if cap(buf) != 64 {
		t.Errorf("Get() cap = %d, want 64", cap(buf))
	}
}

func TestPutGetReusesCapacity(t *testing.T) {
	p := New(64)
	buf := p.Get()
	buf = append(buf, make([]byte, 64)...)
	p.Put(buf)

	stats := p.Stats()
	if stats.Misses == 0 {
		t.Fatalf("expected at least one miss on first Get")
	}

	buf2 := p.Get()
	if cap(buf2) != 64 {
		t.Errorf("reused buffer cap = %d, want 64", cap(buf2))
	}

	stats = p.Stats()
	if stats.Hits == 0 {
		t.Errorf("expected a pool hit after Put/Get, got %+v", stats)
	}
}

func TestPutDropsWrongCapacity(t *testing.T) {
	p := New(64)
	short := make([]byte, 0, 8)
	p.Put(short) // must not panic, and must not be handed back out

	buf := p.Get()
	if cap(buf) != 64 {
		t.Errorf("Get() after Put of wrong-capacity buffer returned cap %d, want 64", cap(buf))
	}
}

func TestStatsCounters(t *testing.T) {
	p := New(32)
	buf := p.Get()
	p.Put(buf)

	stats := p.Stats()
	if stats.Gets != 1 {
		t.Errorf("Gets = %d, want 1", stats.Gets)
	}
	if stats.Puts != 1 {
		t.Errorf("Puts = %d, want 1", stats.Puts)
	}
}
