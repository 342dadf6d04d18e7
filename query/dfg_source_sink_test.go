package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codegraphlabs/semcore/ir"
	"github.com/codegraphlabs/semcore/semgraph"
)

// callNode builds a Call IRNode plus its node-addressable DFG Expression
// handle (lower/golang.go's lowerCall mints these with matching IDs — see
// DESIGN.md's query/ section on the Expression-ID/Node-ID fix), and wires
// it into fn via Contains/Calls so EnclosingFunctionFQN resolves it.
func callNode(doc *ir.Document, fn *ir.Node, id, name, calleeFQN string, start, end int, operands ...string) *ir.Node {
	cn := &ir.Node{
		ID: id, Kind: ir.Call, Name: name, FQN: fn.FQN + ".call$" + id,
		Location: ir.Location{FilePath: fn.Location.FilePath, StartByte: start, EndByte: end},
	}
	cn.SetAttr("calleeFqn", calleeFQN)
	doc.AddNode(cn)
	doc.AddEdge(&ir.Edge{FromID: fn.ID, ToID: cn.ID, Kind: ir.Contains})
	doc.AddEdge(&ir.Edge{FromID: fn.ID, ToID: cn.ID, Kind: ir.Calls})
	doc.Expressions = append(doc.Expressions, &ir.Expression{
		ID: cn.ID, Op: ir.OpCall, SSAName: name + ".0", Operands: operands,
		Location: ir.Location{FilePath: fn.Location.FilePath, StartByte: start, EndByte: end},
	})
	return cn
}

// directTaintDoc models `sink(read_untrusted())` — the source's return
// value flows straight into the sink call's argument, a Call->Call DFG
// edge (query/connectivity.go's {ClassCall,ClassCall} entry exists
// exactly for this shape, since Go locals aren't separate Variable nodes).
func directTaintDoc() *ir.Document {
	doc := ir.NewDocument("go", "taint.go")
	fn := &ir.Node{ID: "fn-id", Kind: ir.Function, Name: "Entry", FQN: "sample.Entry",
		Location: ir.Location{FilePath: "taint.go", StartByte: 0, EndByte: 100}}
	doc.AddNode(fn)
	callNode(doc, fn, "call-source", "read_untrusted", "sample.read_untrusted", 10, 20)
	callNode(doc, fn, "call-sink", "sink", "sample.sink", 30, 40, "call-source")
	return doc
}

// sanitizedTaintDoc models `sink(escape(read_untrusted()))`: the only
// path from source to sink runs through the sanitizer call.
func sanitizedTaintDoc() *ir.Document {
	doc := ir.NewDocument("go", "taint.go")
	fn := &ir.Node{ID: "fn-id", Kind: ir.Function, Name: "Entry", FQN: "sample.Entry",
		Location: ir.Location{FilePath: "taint.go", StartByte: 0, EndByte: 100}}
	doc.AddNode(fn)
	callNode(doc, fn, "call-source", "read_untrusted", "sample.read_untrusted", 10, 20)
	callNode(doc, fn, "call-escape", "escape", "sample.escape", 25, 30, "call-source")
	callNode(doc, fn, "call-sink", "sink", "sample.sink", 35, 40, "call-escape")
	return doc
}

// TestS1_DirectSourceToSink exercises spec.md §8 S1: a length-2 path from
// a read_untrusted call to a sink call over Dfg, now that Call nodes are
// node-addressable in the DFG (see DESIGN.md's "Fixed this pass" entry).
func TestS1_DirectSourceToSink(t *testing.T) {
	doc := directTaintDoc()
	g := semgraph.Build([]*ir.Document{doc})
	ex := NewExecutor(g)

	source := Nodes("source", ClassCall).Named("read_untrusted")
	sink := Nodes("sink", ClassCall).Named("sink")
	q := source.FlowTo(sink).Via(Edges(EdgeDfg))

	result, err := ex.AnyPath(q)
	require.NoError(t, err)
	require.Len(t, result.Paths, 1)
	require.Equal(t, []string{"call-source", "call-sink"}, result.Paths[0].NodeIDs)
}

// TestS2_SanitizerExclusionRemovesTheOnlyPath exercises spec.md §8 S2: the
// sole source-to-sink path runs through the sanitizer call, so excluding
// it must leave zero paths.
func TestS2_SanitizerExclusionRemovesTheOnlyPath(t *testing.T) {
	doc := sanitizedTaintDoc()
	g := semgraph.Build([]*ir.Document{doc})
	ex := NewExecutor(g)

	source := Nodes("source", ClassCall).Named("read_untrusted")
	sink := Nodes("sink", ClassCall).Named("sink")
	escape := Nodes("escape", ClassCall).Named("escape")

	plain, err := ex.AnyPath(source.FlowTo(sink).Via(Edges(EdgeDfg)))
	require.NoError(t, err)
	require.Len(t, plain.Paths, 1)

	excluded, err := ex.AnyPath(source.FlowTo(sink).Via(Edges(EdgeDfg)).Excluding(escape))
	require.NoError(t, err)
	require.Empty(t, excluded.Paths)
}
