package query

// Go has no operator overloading, so the DSL table's `>>`, `>`, `<<`
// become named methods on NodeSelector. FlowTo is `>>` (n-hop, default
// edge set All), FlowOneHop is `>` (1-hop), FlowBackFrom is `<<`
// ("syntactic sugar for (B >> A).via(All.backward())" per spec.md §4.4 —
// implemented literally as that rewrite below).
func (from *NodeSelector) FlowTo(to *NodeSelector) *FlowExpr {
	return &FlowExpr{From: from, To: to, Edge: All()}
}

func (from *NodeSelector) FlowOneHop(to *NodeSelector) *FlowExpr {
	return &FlowExpr{From: from, To: to, Edge: All(), MinDepth: 1, MaxDepth: 1}
}

func (from *NodeSelector) FlowBackFrom(to *NodeSelector) *FlowExpr {
	return to.FlowTo(from).Via(All().Backward())
}

// AnyPath and AllPaths are convenience methods so callers can write
// q.AnyPath(ex) / q.AllPaths(ex) at the end of a query chain instead of
// ex.AnyPath(q) / ex.AllPaths(q); an Executor is still required.
func (q *PathQuery) AnyPath(ex *Executor) (*PathSet, error) { return ex.AnyPath(q) }
func (q *PathQuery) AllPaths(ex *Executor) (*VerificationResult, error) { return ex.AllPaths(q) }
