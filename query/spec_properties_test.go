package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codegraphlabs/semcore/ir"
	"github.com/codegraphlabs/semcore/semgraph"
)

// callChain builds Entry -> [Audit ->] Sink as a pure call-graph fixture,
// grounding spec.md §8's S4/S5 testable properties against the `Calls`
// edge class (S1/S2 are exercised through Dfg in dfg_source_sink_test.go
// and S3 in context_sensitivity_test.go).
func callChain(withAudit bool) *semgraph.Graph {
	doc := ir.NewDocument("go", "chain.go")
	entry := &ir.Node{ID: "entry-id", Kind: ir.Function, Name: "Entry", FQN: "sample.Entry"}
	sink := &ir.Node{ID: "sink-id", Kind: ir.Function, Name: "Sink", FQN: "sample.Sink"}
	doc.AddNode(entry)
	doc.AddNode(sink)

	if withAudit {
		audit := &ir.Node{ID: "audit-id", Kind: ir.Function, Name: "AuditCall", FQN: "sample.AuditCall"}
		doc.AddNode(audit)
		callToAudit := &ir.Node{ID: "call-audit", Kind: ir.Call, Name: "AuditCall", FQN: "sample.Entry.call$0"}
		callToAudit.SetAttr("calleeFqn", "sample.AuditCall")
		doc.AddNode(callToAudit)
		doc.AddEdge(&ir.Edge{FromID: "entry-id", ToID: "call-audit", Kind: ir.Contains})
		doc.AddEdge(&ir.Edge{FromID: "entry-id", ToID: "call-audit", Kind: ir.Calls})

		callToSink := &ir.Node{ID: "call-sink", Kind: ir.Call, Name: "Sink", FQN: "sample.AuditCall.call$0"}
		callToSink.SetAttr("calleeFqn", "sample.Sink")
		doc.AddNode(callToSink)
		doc.AddEdge(&ir.Edge{FromID: "audit-id", ToID: "call-sink", Kind: ir.Contains})
		doc.AddEdge(&ir.Edge{FromID: "audit-id", ToID: "call-sink", Kind: ir.Calls})
	} else {
		callDirect := &ir.Node{ID: "call-direct", Kind: ir.Call, Name: "Sink", FQN: "sample.Entry.call$0"}
		callDirect.SetAttr("calleeFqn", "sample.Sink")
		doc.AddNode(callDirect)
		doc.AddEdge(&ir.Edge{FromID: "entry-id", ToID: "call-direct", Kind: ir.Contains})
		doc.AddEdge(&ir.Edge{FromID: "entry-id", ToID: "call-direct", Kind: ir.Calls})
	}

	return semgraph.Build([]*ir.Document{doc})
}

// hasNode mirrors spec.md §8 S5's `has_node(audit_call)` predicate helper.
func hasNode(g *semgraph.Graph, name string) func(*PathResult) bool {
	return func(pr *PathResult) bool {
		for _, id := range pr.NodeIDs {
			if n := g.Index.Node(id); n != nil && n.Name == name {
				return true
			}
		}
		return false
	}
}

func TestS4_BackwardQueryParity(t *testing.T) {
	g := callChain(true)
	ex := NewExecutor(g)

	entry := Nodes("entry", ClassFunc).Named("Entry")
	audit := Nodes("audit", ClassFunc).Named("AuditCall")

	forward := entry.FlowTo(audit).Via(Edges(EdgeCalls)).
		Excluding(Nodes("none", ClassAny).WithFQN("does-not-exist"))
	fwdResult, err := ex.AnyPath(forward)
	require.NoError(t, err)

	backward := entry.FlowBackFrom(audit).
		Excluding(Nodes("none", ClassAny).WithFQN("does-not-exist"))
	bwdResult, err := ex.AnyPath(backward)
	require.NoError(t, err)

	require.Equal(t, len(fwdResult.Paths), len(bwdResult.Paths))
	require.Len(t, fwdResult.Paths, 1)

	fwd := fwdResult.Paths[0].NodeIDs
	bwd := bwdResult.Paths[0].NodeIDs
	require.Len(t, bwd, len(fwd))
	for i, id := range fwd {
		require.Equal(t, id, bwd[len(bwd)-1-i], "backward path must be the exact reversal of the forward path")
	}
}

// Both S5 cases target Sink specifically (rather than ClassAny) because
// this executor's BFS stops expanding the instant any node satisfies the
// sink selector (AnyPath's "don't expand past a matched sink" rule) — an
// unpinned ClassAny selector would match Entry's very first neighbor and
// never reach the deeper chain, which isn't what "reachable terminal"
// means in spec.md §8 S5.
func TestS5_UniversalCompliance_PassesWhenEveryPathCrossesAuditCall(t *testing.T) {
	g := callChain(true)
	ex := NewExecutor(g)

	entry := Nodes("entry", ClassFunc).Named("Entry")
	sink := Nodes("sink", ClassFunc).Named("Sink")
	q := entry.FlowTo(sink).Via(Edges(EdgeCalls)).Where(hasNode(g, "AuditCall"))

	vr, err := ex.AllPaths(q)
	require.NoError(t, err)
	require.True(t, vr.OK)
	require.Nil(t, vr.Witness)
}

func TestS5_UniversalCompliance_FailsWithViolationPathWhenAuditIsSkipped(t *testing.T) {
	g := callChain(false)
	ex := NewExecutor(g)

	entry := Nodes("entry", ClassFunc).Named("Entry")
	sink := Nodes("sink", ClassFunc).Named("Sink")
	q := entry.FlowTo(sink).Via(Edges(EdgeCalls)).Where(hasNode(g, "AuditCall"))

	vr, err := ex.AllPaths(q)
	require.NoError(t, err)
	require.False(t, vr.OK)
	require.NotNil(t, vr.Witness)
	require.Contains(t, vr.Witness.NodeIDs, "sink-id")
}
