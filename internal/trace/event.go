package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
)

var kindNames = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event; smaller values are coarser.
type Scope uint8

const (
	// ScopeDriver covers CLI work: reading, decoding and caching packs.
	ScopeDriver Scope = iota + 1
	// ScopePass is one lowering run over a crate.
	ScopePass
	// ScopeItem is a single item or member being lowered.
	ScopeItem
	ScopeNode // individual rewrites: use-tree leaves, bounds, async params
)

var scopeNames = [...]string{ScopeDriver: "driver", ScopePass: "pass", ScopeItem: "item", ScopeNode: "node"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Attr is a key-value annotation of an event. Attributes keep the order in
// which they were added.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64 // global, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64 // 0 for points
	ParentID uint64 // 0 for roots
	// Track names the pack an event belongs to; packs are lowered in
	// parallel and their events interleave.
	Track  string
	Name   string // "pack", "lower", "item:fn", "use-tree"
	Detail string
	Attrs  []Attr
}

// Attr returns the value of key, if present.
func (e *Event) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
