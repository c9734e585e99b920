package source

import (
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// StringID names an interned string. The zero value is the empty string.
type StringID uint32

const NoStringID StringID = 0

func (id StringID) IsValid() bool { return id != NoStringID }

// Interner maps identifier text to dense ids. Text is folded to Unicode NFC
// first, so `café` spelled with a combining accent interns to the same id as
// the precomposed form.
type Interner struct {
	strs []string
	ids  map[string]StringID // ключи: исходная и NFC форма
}

func NewInterner() *Interner {
	return &Interner{strs: []string{""}, ids: map[string]StringID{"": NoStringID}}
}

// Intern returns the id of s, adding it when new.
func (in *Interner) Intern(s string) StringID {
	if id, ok := in.ids[s]; ok {
		return id
	}
	canon := norm.NFC.String(s)
	id, ok := in.ids[canon]
	if !ok {
		id = StringID(len(in.strs)) //nolint:gosec // never 2^32 identifiers
		// копия, чтобы не держать буфер исходника
		canon = string([]byte(canon))
		in.strs = append(in.strs, canon)
		in.ids[canon] = id
	}
	in.ids[s] = id
	return id
}

// Lookup returns the text of id.
func (in *Interner) Lookup(id StringID) (string, bool) {
	if in == nil || int(id) >= len(in.strs) {
		return "", false
	}
	return in.strs[id], true
}

// MustLookup is Lookup for ids known to come from in.
func (in *Interner) MustLookup(id StringID) string {
	s, ok := in.Lookup(id)
	if !ok {
		panic("source: string id " + strconv.FormatUint(uint64(id), 10) + " not interned")
	}
	return s
}

// Len counts interned strings, the empty string included.
func (in *Interner) Len() int { return len(in.strs) }
