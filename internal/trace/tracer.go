package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives events. Implementations must be safe for concurrent use:
// packs are lowered in parallel.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	Enabled() bool
	// Close flushes buffered events and releases owned outputs.
	Close() error
}

// Nop drops every event.
var Nop Tracer = nopTracer{}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }
func (nopTracer) Close() error  { return nil }

// StorageMode selects where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written as they happen
	ModeRing                          // kept in memory, dumped on failure
	ModeBoth
)

var modeNames = [...]string{ModeStream: "stream", ModeRing: "ring", ModeBoth: "both"}

func (m StorageMode) String() string {
	if int(m) < len(modeNames) && modeNames[m] != "" {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode converts a string to StorageMode; the empty string means stream.
func ParseMode(s string) (StorageMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeStream, nil
	}
	for i, name := range modeNames {
		if name != "" && name == s {
			return StorageMode(i), nil //nolint:gosec // bounded by modeNames
		}
	}
	return 0, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config describes a tracer.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format
	Output     io.Writer // takes precedence over OutputPath
	OutputPath string    // "" or "-" is stderr
	RingSize   int       // 0 means DefaultRingSize
}

// DefaultRingSize is the ring capacity when Config.RingSize is unset.
const DefaultRingSize = 4096

// New builds the tracer cfg describes. LevelError has nothing to stream, so
// it always records into a ring.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = DefaultRingSize
	}
	mode := cfg.Mode
	if cfg.Level == LevelError {
		mode = ModeRing
	}
	switch mode {
	case ModeRing:
		return NewRing(cfg.RingSize, cfg.Level), nil
	case ModeStream, ModeBoth:
		w, owned, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		format := cfg.Format
		if format == FormatAuto {
			format = formatFor(cfg.OutputPath)
		}
		s := NewStream(w, cfg.Level, format)
		s.owned = owned
		if mode == ModeStream {
			return s, nil
		}
		return Tee(s, NewRing(cfg.RingSize, cfg.Level)), nil
	default:
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}
}

func openOutput(cfg Config) (io.Writer, io.Closer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return os.Stderr, nil, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, f, nil
}

type tee []Tracer

// Tee fans events out to every tracer. Its level is the finest of theirs.
func Tee(ts ...Tracer) Tracer {
	switch len(ts) {
	case 0:
		return Nop
	case 1:
		return ts[0]
	}
	return tee(ts)
}

func (t tee) Emit(ev *Event) {
	for _, tr := range t {
		if tr.Level().ShouldEmit(ev.Scope) {
			tr.Emit(ev)
		}
	}
}

func (t tee) Level() Level {
	var l Level
	for _, tr := range t {
		l = max(l, tr.Level())
	}
	return l
}

func (t tee) Enabled() bool { return t.Level() > LevelOff }

func (t tee) Close() error {
	var errs []error
	for _, tr := range t {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

// RingOf returns the ring t records into, if any.
func RingOf(t Tracer) (*Ring, bool) {
	switch t := t.(type) {
	case *Ring:
		return t, true
	case tee:
		for _, tr := range t {
			if r, ok := RingOf(tr); ok {
				return r, true
			}
		}
	}
	return nil, false
}
