package semgraph

import "github.com/codegraphlabs/semcore/ir"

const UnknownCallee = "<unknown>"

// BuildCallGraph resolves every Call node across every document into an
// interprocedural edge, spec.md §4.3: "for each Call node, attempt to
// resolve the callee FQN; unresolved calls produce edges to a synthetic
// <unknown> node, tagged with the attempted name". Overload candidates
// (multiple nameable nodes sharing the call's bare name) all get parallel
// edges ranked by overload_rank, in index order — lower/golang.go and the
// tree-sitter lowerers don't currently disambiguate overloads by arity or
// type, so every same-name candidate is treated as equally plausible.
func BuildCallGraph(docs []*ir.Document, idx *UnifiedIndex) *CallGraph {
	cg := &CallGraph{UnknownNode: UnknownCallee}
	for _, doc := range docs {
		caller := enclosingCallers(doc)
		for _, n := range doc.Nodes {
			if n.Kind != ir.Call {
				continue
			}
			callerFQN := caller[n.ID]
			calleeName, _ := n.Attr("calleeName")
			name, _ := calleeName.(string)
			candidates := idx.NodesByKindName(ir.Function, name)
			candidates = append(candidates, idx.NodesByKindName(ir.Method, name)...)
			if resolvedFQN, ok := n.Attr("calleeFqn"); ok {
				if fqnStr, ok := resolvedFQN.(string); ok {
					cg.Edges = append(cg.Edges, CallEdge{CallerFQN: callerFQN, CalleeFQN: fqnStr, CallNodeID: n.ID, Kind: CallDirect, OverloadRank: 0})
					continue
				}
			}
			if len(candidates) == 0 {
				cg.Edges = append(cg.Edges, CallEdge{CallerFQN: callerFQN, CalleeFQN: UnknownCallee, CallNodeID: n.ID, Kind: CallDynamic})
				continue
			}
			for rank, candID := range candidates {
				target := idx.Node(candID)
				if target == nil {
					continue
				}
				kind := CallDirect
				if len(candidates) > 1 {
					kind = CallVirtual
				}
				cg.Edges = append(cg.Edges, CallEdge{CallerFQN: callerFQN, CalleeFQN: target.FQN, CallNodeID: n.ID, Kind: kind, OverloadRank: rank})
			}
		}
	}
	return cg
}

// enclosingCallers maps each Call node ID to the FQN of the
// Function/Method that directly Contains it.
func enclosingCallers(doc *ir.Document) map[string]string {
	out := map[string]string{}
	for _, e := range doc.Edges {
		if e.Kind != ir.Contains {
			continue
		}
		from := doc.NodeByID(e.FromID)
		to := doc.NodeByID(e.ToID)
		if from == nil || to == nil {
			continue
		}
		if to.Kind == ir.Call && (from.Kind == ir.Function || from.Kind == ir.Method) {
			out[to.ID] = from.FQN
		}
	}
	return out
}

// Callers returns every CallEdge targeting calleeFQN.
func (cg *CallGraph) Callers(calleeFQN string) []CallEdge {
	var out []CallEdge
	for _, e := range cg.Edges {
		if e.CalleeFQN == calleeFQN {
			out = append(out, e)
		}
	}
	return out
}

// Callees returns every CallEdge originating from callerFQN.
func (cg *CallGraph) Callees(callerFQN string) []CallEdge {
	var out []CallEdge
	for _, e := range cg.Edges {
		if e.CallerFQN == callerFQN {
			out = append(out, e)
		}
	}
	return out
}
