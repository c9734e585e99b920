package trace

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Format is the encoding of written events.
type Format uint8

const (
	FormatAuto Format = iota // by output file extension
	FormatText
	FormatNDJSON
)

// ParseFormat converts a string to Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

func formatFor(path string) Format {
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".json") {
		return FormatNDJSON
	}
	return FormatText
}

// AppendEvent appends one encoded line for ev to buf.
func AppendEvent(buf []byte, ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return appendNDJSON(buf, ev)
	}
	return appendText(buf, ev)
}

var kindMarks = [...]byte{KindSpanBegin: '>', KindSpanEnd: '<', KindPoint: '.'}

// appendText renders
//
//	000042 item   [core] > item:fn (detail) def=3 kind=fn
func appendText(buf []byte, ev *Event) []byte {
	buf = fmt.Appendf(buf, "%06d %-6s ", ev.Seq, ev.Scope)
	if ev.Track != "" {
		buf = append(buf, '[')
		buf = append(buf, ev.Track...)
		buf = append(buf, "] "...)
	}
	mark := byte('?')
	if int(ev.Kind) < len(kindMarks) && kindMarks[ev.Kind] != 0 {
		mark = kindMarks[ev.Kind]
	}
	buf = append(buf, mark, ' ')
	buf = append(buf, ev.Name...)
	if ev.Detail != "" {
		buf = append(buf, " ("...)
		buf = append(buf, ev.Detail...)
		buf = append(buf, ')')
	}
	for _, a := range ev.Attrs {
		buf = append(buf, ' ')
		buf = append(buf, a.Key...)
		buf = append(buf, '=')
		buf = appendValue(buf, a.Value)
	}
	return append(buf, '\n')
}

func appendValue(buf []byte, v string) []byte {
	if v == "" || strings.ContainsAny(v, " \t\n\"=") {
		return strconv.AppendQuote(buf, v)
	}
	return append(buf, v...)
}

type jsonEvent struct {
	Time   string `json:"time"`
	Seq    uint64 `json:"seq"`
	Kind   string `json:"kind"`
	Scope  string `json:"scope"`
	Span   uint64 `json:"span,omitempty"`
	Parent uint64 `json:"parent,omitempty"`
	Track  string `json:"track,omitempty"`
	Name   string `json:"name"`
	Detail string `json:"detail,omitempty"`
	Attrs  []Attr `json:"attrs,omitempty"`
}

func appendNDJSON(buf []byte, ev *Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Time:   ev.Time.UTC().Format(time.RFC3339Nano),
		Seq:    ev.Seq,
		Kind:   ev.Kind.String(),
		Scope:  ev.Scope.String(),
		Span:   ev.SpanID,
		Parent: ev.ParentID,
		Track:  ev.Track,
		Name:   ev.Name,
		Detail: ev.Detail,
		Attrs:  ev.Attrs,
	})
	if err != nil {
		return fmt.Appendf(buf, "{\"error\":%q}\n", err.Error())
	}
	buf = append(buf, data...)
	return append(buf, '\n')
}
