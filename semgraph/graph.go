package semgraph

import "github.com/codegraphlabs/semcore/ir"

// Build derives the full semantic graph layer — CFGs, DFGs, call graph,
// PDGs and the unified index — from a set of IRDocuments making up one
// snapshot. This is the entry point spec.md §4.3 describes as taking "IR
// documents" and producing graphs "usable by the query engine".
func Build(docs []*ir.Document) *Graph {
	idx := BuildUnifiedIndex(docs)
	cfgs := BuildCFGs(docs, idx)
	dfgs := BuildDFGs(docs, idx)
	callGraph := BuildCallGraph(docs, idx)
	pdgs := BuildPDGs(cfgs, dfgs)
	return &Graph{
		Docs:      docs,
		CFGs:      cfgs,
		DFGs:      dfgs,
		PDGs:      pdgs,
		CallGraph: callGraph,
		Index:     idx,
	}
}
