// Package lower implements spec.md §4.2 IR Builder: lowering CSTs into
// IRDocuments. Per-language lowerers share the builder below, which
// tracks FQN scope, structural position counters (for stable IDs) and
// emits nodes/edges/expressions/diagnostics onto a single ir.Document —
// the "common skeleton" spec.md describes: walk top-down, emit nodes for
// declarations, resolve names into FQNs, emit edges for syntactic
// relationships.
package lower

import (
	"encoding/hex"

	"github.com/codegraphlabs/semcore/ir"
	"github.com/codegraphlabs/semcore/ir/stableid"
)

// contentHashOf hashes a raw source byte span for use as a node's
// content_hash input to stableid.ID. Lowerers that can canonicalize a
// token stream (spec.md §4.2's "node type plus leaf text" form) should
// prefer stableid.ContentHash; this is the fallback for spans where a
// per-language canonicalizer hasn't been written yet.
func contentHashOf(b []byte) string {
	h := stableid.FastHash(b)
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(h >> (8 * i))
	}
	return hex.EncodeToString(buf)
}

// Builder accumulates IR onto a single document while a lowerer walks one
// file's CST/AST.
type Builder struct {
	Doc *ir.Document

	// posCounters gives each structural position (e.g. "Class.Foo.method")
	// a stable sibling index, independent of byte offsets, so inserting an
	// unrelated line above a node does not change its stable ID.
	posCounters map[string]int
}

func NewBuilder(doc *ir.Document) *Builder {
	return &Builder{Doc: doc, posCounters: map[string]int{}}
}

// NextPosition returns the next stable structural-position index for
// parentFQN + kind, e.g. the 3rd lambda declared lexically inside
// "pkg.Foo" gets position "2" regardless of edits elsewhere in the file.
func (b *Builder) NextPosition(parentFQN string, kind ir.NodeKind) string {
	key := parentFQN + "#" + string(kind)
	idx := b.posCounters[key]
	b.posCounters[key] = idx + 1
	return itoa(idx)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// NewNode constructs a node with a stable ID per spec.md §4.2:
// stable_<kind>_<12-hex-of-sha256(kind | fqn | content_hash | structural_position)>.
func (b *Builder) NewNode(kind ir.NodeKind, name, fqn, contentHash, structuralPosition string, loc ir.Location) *ir.Node {
	n := &ir.Node{
		ID:       stableid.ID(string(kind), fqn, contentHash, structuralPosition),
		Kind:     kind,
		Name:     name,
		FQN:      fqn,
		Resolved: fqn != "" && !isPlaceholderFQN(fqn),
		Location: loc,
	}
	b.Doc.AddNode(n)
	return n
}

// placeholderFQN marks a node whose name could not be resolved (spec.md
// §4.2 failure semantics: "the symbol is kept with a placeholder FQN and
// a resolved=false flag").
func placeholderFQN(base string) string {
	return base + ".<unresolved>"
}

func isPlaceholderFQN(fqn string) bool {
	return len(fqn) >= 13 && fqn[len(fqn)-13:] == ".<unresolved>"
}

func (b *Builder) AddEdge(from, to *ir.Node, kind ir.EdgeKind, attrs map[string]interface{}) {
	if from == nil || to == nil {
		return
	}
	b.Doc.AddEdge(&ir.Edge{FromID: from.ID, ToID: to.ID, Kind: kind, Attrs: attrs})
}

func (b *Builder) Defect(message, nodeKind string, loc ir.Location) {
	b.Doc.Diagnostics = append(b.Doc.Diagnostics, &ir.Diagnostic{
		Kind:     ir.DiagLoweringDefect,
		Message:  message,
		NodeKind: nodeKind,
		Location: loc,
	})
}
