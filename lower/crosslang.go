package lower

import (
	"strings"

	"github.com/codegraphlabs/semcore/ir"
)

// BridgePolicy maps a (callerLanguage, calleeLanguage) pair to the FFI
// mechanism name used to record an FfiImport edge's "mechanism" attr.
// Deliberately a static table, not a plugin system — per DESIGN.md's
// Open Question decision #2, the cross-language pass only needs to
// name *how* two languages call into each other, never to actually
// execute the bridge.
type BridgePolicy map[[2]string]string

// DefaultBridgePolicy covers the language trio this engine lowers.
func DefaultBridgePolicy() BridgePolicy {
	return BridgePolicy{
		{"go", "java"}:         "jni",
		{"java", "go"}:         "jni",
		{"go", "javascript"}:   "cgo-js-bridge",
		{"javascript", "go"}:   "wasm",
		{"java", "javascript"}: "graaljs",
		{"javascript", "java"}: "graaljs",
	}
}

// CrossLangPass resolves each document's unresolved imports (calls are
// not examined) against every other document's UnifiedSymbols in the same build,
// emitting CrossLangImport/FfiImport edges (spec.md §4.2) where a
// descriptor-level match exists across a language boundary. Matches are
// always confidence-scored, never a hard link, reflecting that no shared
// type system backs the comparison.
type CrossLangPass struct {
	Policy BridgePolicy
}

func NewCrossLangPass(policy BridgePolicy) *CrossLangPass {
	if policy == nil {
		policy = DefaultBridgePolicy()
	}
	return &CrossLangPass{Policy: policy}
}

// Run walks every document's unresolved Import entries and, for each one
// whose module path textually matches another document's package/module
// name, emits one edge per match: an FfiImport edge recording the bridge
// mechanism when the two documents' languages differ and the policy has an
// entry for that language pair, otherwise a CrossLangImport edge.
func (p *CrossLangPass) Run(docs []*ir.Document) {
	index := buildSymbolIndex(docs)
	for _, doc := range docs {
		for i, imp := range doc.Imports {
			if imp.Confidence >= 1.0 {
				continue // already resolved within-language; nothing cross-language to add
			}
			candidates := index.lookup(imp.ModulePath)
			if len(candidates) == 0 {
				continue
			}
			fileNode := findFileNode(doc)
			if fileNode == nil {
				continue
			}
			for _, cand := range candidates {
				targetNode := cand.doc.NodeByID(stableNodeIDForSymbol(cand.doc, cand.sym))
				if targetNode == nil {
					continue
				}
				attrs := map[string]interface{}{"confidence": 0.6, "importIndex": i}
				if cand.doc.Meta.Language != doc.Meta.Language {
					mechanism, ok := p.Policy[[2]string{doc.Meta.Language, cand.doc.Meta.Language}]
					if ok {
						doc.Edges = append(doc.Edges, &ir.Edge{FromID: fileNode.ID, ToID: targetNode.ID, Kind: ir.FfiImport, Attrs: map[string]interface{}{
							"mechanism":     mechanism,
							"targetLanguage": cand.doc.Meta.Language,
							"confidence":    0.6,
						}})
						continue
					}
				}
				doc.Edges = append(doc.Edges, &ir.Edge{FromID: fileNode.ID, ToID: targetNode.ID, Kind: ir.CrossLangImport, Attrs: attrs})
			}
		}
	}
}

type symbolCandidate struct {
	doc *ir.Document
	sym *ir.UnifiedSymbol
}

type symbolIndex struct {
	byPackage map[string][]symbolCandidate
}

func buildSymbolIndex(docs []*ir.Document) *symbolIndex {
	idx := &symbolIndex{byPackage: map[string][]symbolCandidate{}}
	for _, doc := range docs {
		for _, sym := range doc.UnifiedSymbols {
			idx.byPackage[sym.Package] = append(idx.byPackage[sym.Package], symbolCandidate{doc: doc, sym: sym})
		}
	}
	return idx
}

func (idx *symbolIndex) lookup(importPath string) []symbolCandidate {
	var out []symbolCandidate
	for pkg, cands := range idx.byPackage {
		if pkg == "" {
			continue
		}
		if strings.HasSuffix(importPath, pkg) || strings.Contains(importPath, pkg) {
			out = append(out, cands...)
		}
	}
	return out
}

func findFileNode(doc *ir.Document) *ir.Node {
	for _, n := range doc.Nodes {
		if n.Kind == ir.File {
			return n
		}
	}
	return nil
}

// stableNodeIDForSymbol recovers the node a UnifiedSymbol was emitted
// for by matching on FQN, since UnifiedSymbol doesn't carry the node's
// stable ID directly (spec.md §3 defines it as a separate identifier
// space from stable IDs, deliberately — the SCIP-style descriptor is
// meant to be portable across IR rebuilds that would change stable IDs).
func stableNodeIDForSymbol(doc *ir.Document, sym *ir.UnifiedSymbol) string {
	for _, n := range doc.Nodes {
		if n.FQN == sym.LanguageFQN {
			return n.ID
		}
	}
	return ""
}
