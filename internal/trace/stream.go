package trace

import (
	"bufio"
	"io"
	"sync"
)

// Stream writes events to an output as they arrive. Output is buffered and
// flushed whenever a pass or driver span ends.
type Stream struct {
	mu     sync.Mutex
	w      *bufio.Writer
	owned  io.Closer
	level  Level
	format Format
	buf    []byte
}

// NewStream returns a stream over w. w is never closed by the stream.
func NewStream(w io.Writer, level Level, format Format) *Stream {
	if format == FormatAuto {
		format = FormatText
	}
	return &Stream{w: bufio.NewWriter(w), level: level, format: format}
}

func (s *Stream) Emit(ev *Event) {
	if !s.level.ShouldEmit(ev.Scope) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = AppendEvent(s.buf[:0], ev, s.format)
	// ошибки записи трассы не роняют прогон
	_, _ = s.w.Write(s.buf)
	if ev.Kind == KindSpanEnd && ev.Scope <= ScopePass {
		_ = s.w.Flush()
	}
}

// Flush writes buffered events.
func (s *Stream) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}

func (s *Stream) Level() Level  { return s.level }
func (s *Stream) Enabled() bool { return s.level > LevelOff }

// Close flushes and closes the output when New opened it.
func (s *Stream) Close() error {
	err := s.Flush()
	if s.owned != nil {
		if cerr := s.owned.Close(); err == nil {
			err = cerr
		}
		s.owned = nil
	}
	return err
}
