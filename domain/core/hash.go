package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// TraceHash fingerprints an ordered calculation trace.
type TraceHash Hash

func (h TraceHash) String() string { return Hash(h).String() }

// ComputeTraceHash hashes the design name followed by every trace line in order.
// Identical inputs must produce identical traces, so equal hashes are expected
// across repeated calculations.
func ComputeTraceHash(design string, lines []string) TraceHash {
	var data strings.Builder
	data.WriteString(design)
	for _, line := range lines {
		data.WriteByte('\n')
		data.WriteString(line)
	}
	return TraceHash(NewHash([]byte(data.String())))
}
