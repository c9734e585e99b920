package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a SHA-256 sum; cache keys are Digests.
type Digest [sha256.Size]byte

// DigestOf hashes raw bytes, typically the contents of a pack.
func DigestOf(data []byte) Digest { return sha256.Sum256(data) }

// Combine hashes base followed by parts. Order matters.
func Combine(base Digest, parts ...Digest) Digest {
	h := sha256.New()
	h.Write(base[:])
	for _, p := range parts {
		h.Write(p[:])
	}
	var out Digest
	h.Sum(out[:0])
	return out
}

func (d Digest) IsZero() bool { return d == Digest{} }

// String returns the lowercase hex form.
func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Short returns the first 12 hex digits, enough for log lines.
func (d Digest) Short() string { return d.String()[:12] }
