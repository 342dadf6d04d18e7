// Package query implements spec.md §4.4: a typed DSL over NodeSelector /
// EdgeSelector / FlowExpr / PathQuery, and the BFS traversal engine that
// executes a PathQuery against a semgraph.Graph.
package query

import (
	"time"

	"github.com/codegraphlabs/semcore/ir"
)

// NodeKindClass is the coarse node classification the type connectivity
// matrix (spec.md §4.4) is defined over: Func, Var, Block, Call. It is
// distinct from ir.NodeKind because Block has no IR node counterpart —
// it only exists in the semantic-graph layer.
type NodeKindClass string

const (
	ClassFunc  NodeKindClass = "Func"
	ClassVar   NodeKindClass = "Var"
	ClassBlock NodeKindClass = "Block"
	ClassCall  NodeKindClass = "Call"
	ClassAny   NodeKindClass = "Any" // selector doesn't pin a class; connectivity check is skipped for it
)

func classOfIRKind(kind ir.NodeKind) NodeKindClass {
	switch kind {
	case ir.Function, ir.Method:
		return ClassFunc
	case ir.Variable, ir.Parameter:
		return ClassVar
	case ir.Call:
		return ClassCall
	default:
		return ClassAny
	}
}

// EdgeClass is the traversal-level edge vocabulary: it folds ir.EdgeKind
// together with the semantic-graph-only edge kinds (Cfg, Dfg, Pdg) that
// have no direct ir.Edge representation.
type EdgeClass string

const (
	EdgeCalls   EdgeClass = "Calls"
	EdgeCfg     EdgeClass = "Cfg"
	EdgeDfg     EdgeClass = "Dfg"
	EdgePdg     EdgeClass = "Pdg"
	EdgeReads   EdgeClass = "Reads"
	EdgeWrites  EdgeClass = "Writes"
	EdgeReturns EdgeClass = "Returns"
	EdgeImports EdgeClass = "Imports"
	EdgeInherits EdgeClass = "Inherits"
	EdgeAll     EdgeClass = "All"
)

// NodeSelector filters candidate nodes by kind class, name pattern and/or
// fqn. Kind has no default: an empty Kind matches no node and fails the
// connectivity check; ClassAny is the "any class" selector.
type NodeSelector struct {
	Kind    NodeKindClass
	NamePat string // substring match against node Name; "" matches all
	FQN     string // exact FQN match when set, takes priority over NamePat
	Label   string // for error messages, e.g. "source" / "sink"
}

func Nodes(label string, kind NodeKindClass) *NodeSelector {
	return &NodeSelector{Kind: kind, Label: label}
}

func (s *NodeSelector) Named(pattern string) *NodeSelector {
	s.NamePat = pattern
	return s
}

func (s *NodeSelector) WithFQN(fqn string) *NodeSelector {
	s.FQN = fqn
	return s
}

// EdgeSelector is a union of edge classes, optionally reversed.
type EdgeSelector struct {
	Classes  map[EdgeClass]bool
	Backward bool
}

func Edges(classes ...EdgeClass) *EdgeSelector {
	set := map[EdgeClass]bool{}
	for _, c := range classes {
		set[c] = true
	}
	return &EdgeSelector{Classes: set}
}

func All() *EdgeSelector { return Edges(EdgeAll) }

// Backward implements "A.backward() distributes over union": it returns
// a new selector over the same classes with the direction flipped,
// leaving the receiver untouched.
func (e *EdgeSelector) Backward() *EdgeSelector {
	set := map[EdgeClass]bool{}
	for k, v := range e.Classes {
		set[k] = v
	}
	return &EdgeSelector{Classes: set, Backward: !e.Backward}
}

func (e *EdgeSelector) Union(other *EdgeSelector) *EdgeSelector {
	set := map[EdgeClass]bool{}
	for k, v := range e.Classes {
		set[k] = v
	}
	for k, v := range other.Classes {
		set[k] = v
	}
	return &EdgeSelector{Classes: set, Backward: e.Backward}
}

// ContextStrategy selects the interprocedural context-sensitivity
// algorithm (spec.md §4.4).
type ContextStrategy string

const (
	ContextSummary ContextStrategy = "summary"
	ContextCloning ContextStrategy = "cloning"
)

// AliasMode selects how pointer/reference aliasing is treated.
type AliasMode string

const (
	AliasNone AliasMode = "none"
	AliasMust AliasMode = "must"
	AliasMay  AliasMode = "may"
)

// ScopeMode selects how .within() restricts traversal.
type ScopeMode string

const (
	ScopePrune  ScopeMode = "prune"
	ScopeFilter ScopeMode = "filter"
)

// TruncationReason names why a PathSet/VerificationResult stopped short
// of exhaustive coverage.
type TruncationReason string

const (
	TruncNone      TruncationReason = ""
	TruncDepth     TruncationReason = "DepthExhausted"
	TruncNodeLimit TruncationReason = "NodeLimit"
	TruncPathLimit TruncationReason = "PathLimit"
	TruncTimeout   TruncationReason = "Timeout"
)

// FlowExpr is the structural (non-executable) intermediate value
// produced by `>>`, `>`, `<<` and refined by `.via`/`.depth`. Only a
// PathQuery (produced by .excluding/.within/.where/.context_sensitive/
// .alias_sensitive) can execute; FlowExpr itself has no AnyPath/AllPaths.
type FlowExpr struct {
	From     *NodeSelector
	To       *NodeSelector
	Edge     *EdgeSelector
	MinDepth int
	MaxDepth int
}

func (f *FlowExpr) Via(e *EdgeSelector) *FlowExpr {
	g := *f
	g.Edge = e
	return &g
}

func (f *FlowExpr) Depth(minOrExact int, max ...int) *FlowExpr {
	g := *f
	g.MinDepth = minOrExact
	if len(max) > 0 {
		g.MaxDepth = max[0]
	} else {
		g.MaxDepth = minOrExact
	}
	return &g
}

// toQuery promotes a FlowExpr into a bare PathQuery, applying Limits'
// defaults. Every PathQuery-producing method on FlowExpr calls this
// first so the promotion only happens once.
func (f *FlowExpr) toQuery() *PathQuery {
	return &PathQuery{
		Flow:         f,
		AliasMode:    AliasNone,
		Limits:       DefaultLimits(),
	}
}

// PathQuery is the only executable DSL value.
type PathQuery struct {
	Flow         *FlowExpr
	ExcludingSel *NodeSelector
	WithinSel    *NodeSelector
	WithinMode   ScopeMode
	Predicate    func(*PathResult) bool
	ContextK     int
	ContextStr   ContextStrategy
	AliasMode    AliasMode
	Limits       Limits
	constructErr *Error
}

// Excluding promotes a FlowExpr to a PathQuery, the first constraint in
// the chain always does (spec.md §4.4's DSL type table).
func (f *FlowExpr) Excluding(sel *NodeSelector) *PathQuery { return f.toQuery().Excluding(sel) }
func (f *FlowExpr) Within(sel *NodeSelector, mode ScopeMode) *PathQuery {
	return f.toQuery().Within(sel, mode)
}
func (f *FlowExpr) Where(pred func(*PathResult) bool) *PathQuery { return f.toQuery().Where(pred) }
func (f *FlowExpr) ContextSensitive(k int, strategy ContextStrategy) *PathQuery {
	return f.toQuery().ContextSensitive(k, strategy)
}
func (f *FlowExpr) AliasSensitive(mode AliasMode) *PathQuery { return f.toQuery().AliasSensitive(mode) }

// The same five methods also exist directly on PathQuery so a chain can
// keep refining after the first constraint promoted it.
func (q *PathQuery) Excluding(sel *NodeSelector) *PathQuery { q.ExcludingSel = sel; return q }
func (q *PathQuery) Within(sel *NodeSelector, mode ScopeMode) *PathQuery {
	q.WithinSel = sel
	q.WithinMode = mode
	return q
}
func (q *PathQuery) Where(pred func(*PathResult) bool) *PathQuery { q.Predicate = pred; return q }
func (q *PathQuery) ContextSensitive(k int, strategy ContextStrategy) *PathQuery {
	q.ContextK, q.ContextStr = k, strategy
	return q
}
func (q *PathQuery) AliasSensitive(mode AliasMode) *PathQuery { q.AliasMode = mode; return q }

func (q *PathQuery) LimitPaths(n int) *PathQuery { q.Limits.MaxPaths = n; return q }
func (q *PathQuery) LimitNodes(n int) *PathQuery { q.Limits.MaxNodes = n; return q }
func (q *PathQuery) Timeout(d time.Duration) *PathQuery { q.Limits.Timeout = d; return q }

// PathResult is one concrete witness path.
type PathResult struct {
	NodeIDs    []string
	EdgeKinds  []EdgeClass
	Uncertain  bool // true when AliasMode == AliasMay and the path takes at least one Dfg (aliasing-capable) step
	ContextKey string
}

// PathSet is the result of PathQuery.AnyPath(): existential execution.
type PathSet struct {
	Paths      []*PathResult
	Truncation TruncationReason
	Diagnostics []string
}

// VerificationResult is the result of PathQuery.AllPaths(): universal
// execution. OK=false means a violating witness exists (Witness is set).
type VerificationResult struct {
	OK         bool
	Witness    *PathResult
	Covered    int // number of distinct path families considered
	Truncation TruncationReason
}
