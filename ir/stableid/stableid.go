// Package stableid computes the content- and position-derived identifiers
// specified in spec.md §4.2: "Stable IDs via string concatenation and
// hashing ... keep the exact canonical form ... do not normalize
// whitespace differently or change the hash input order, or IDs will
// drift."
package stableid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/minio/highwayhash"
)

// highwayKey mirrors the teacher's fixed 32-byte key (inspector/graph/hash.go)
// used for the fast, non-cryptographic content hash folded into node
// content hashes (not into the stable ID itself, which is SHA-256 per
// spec.md's canonical form).
var highwayKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// FastHash returns a 64-bit HighwayHash digest of data, used for cheap
// content-change detection during incremental updates (spec.md §4.5 step
// 2: "compare node content hashes against the parent's IR").
func FastHash(data []byte) uint64 {
	h, err := highwayhash.New64(highwayKey)
	if err != nil {
		// key length is fixed and valid; a failure here is a programmer error.
		panic(err)
	}
	_, _ = h.Write(data)
	return h.Sum64()
}

// ID computes stable_<kind>_<12-hex-of-sha256(kind | fqn | content_hash | structural_position)>
// exactly as spec.md §4.2 specifies. structuralPosition must be a value
// stable across unrelated edits (e.g. a sibling index within the parent,
// not a byte offset) so an inserted line above a lambda does not shift it.
func ID(kind, fqn, contentHash, structuralPosition string) string {
	input := kind + "|" + fqn + "|" + contentHash + "|" + structuralPosition
	sum := sha256.Sum256([]byte(input))
	return fmt.Sprintf("stable_%s_%s", kind, hex.EncodeToString(sum[:])[:12])
}

// ContentHash canonically serializes a subtree as "node type plus leaf
// text" tokens (spec.md §4.2) and returns its hex SHA-256. Callers pass
// the already-canonicalized token stream; this package does not walk the
// CST/AST itself since that walk is language-specific.
func ContentHash(canonicalTokens []string) string {
	joined := ""
	for i, t := range canonicalTokens {
		if i > 0 {
			joined += "\x1f" // unit separator, never appears in source text
		}
		joined += t
	}
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])
}
