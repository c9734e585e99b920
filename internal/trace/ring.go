package trace

import (
	"io"
	"sync"
)

// Ring keeps the most recent events in memory.
type Ring struct {
	mu    sync.Mutex
	buf   []Event
	next  int
	count int
	level Level
}

// NewRing returns a ring holding up to size events.
func NewRing(size int, level Level) *Ring {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Ring{buf: make([]Event, size), level: level}
}

func (r *Ring) Emit(ev *Event) {
	if !r.level.ShouldEmit(ev.Scope) {
		return
	}
	r.mu.Lock()
	r.buf[r.next] = *ev
	r.next = (r.next + 1) % len(r.buf)
	r.count = min(r.count+1, len(r.buf))
	r.mu.Unlock()
}

// Len reports how many events are held.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Events returns the held events, oldest first.
func (r *Ring) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, 0, r.count)
	start := (r.next - r.count + len(r.buf)) % len(r.buf)
	for i := range r.count {
		out = append(out, r.buf[(start+i)%len(r.buf)])
	}
	return out
}

// Dump writes the held events to w.
func (r *Ring) Dump(w io.Writer, format Format) error {
	var buf []byte
	for _, ev := range r.Events() {
		buf = AppendEvent(buf[:0], &ev, format)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func (r *Ring) Level() Level  { return r.level }
func (r *Ring) Enabled() bool { return r.level > LevelOff }
func (r *Ring) Close() error  { return nil }
