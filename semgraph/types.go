// Package semgraph implements spec.md §4.3: deriving CFG, DFG, call
// graph and PDG from a set of IRDocuments, plus the unified index the
// query engine traverses. Graphs are built per function and then held
// together in a single Graph value per snapshot.
package semgraph

import "github.com/codegraphlabs/semcore/ir"

// BlockKind distinguishes the synthetic Entry/Exit/Unknown blocks from
// ordinary statement blocks.
type BlockKind string

const (
	BlockEntry   BlockKind = "Entry"
	BlockExit    BlockKind = "Exit"
	BlockNormal  BlockKind = "Normal"
	BlockUnknown BlockKind = "Unknown" // trivial CFG for an unparseable body, spec.md §4.3 failure semantics
)

// BasicBlock is one CFG node: a maximal run of IR statements with a
// single entry and single exit at the source level. NodeIDs references
// into the owning function's IR nodes the block represents (Call/Return
// nodes observed, in document order); it may be empty for Entry/Exit.
type BasicBlock struct {
	ID      string
	Kind    BlockKind
	NodeIDs []string
	RPONum  int // reverse-postorder number, assigned at build time
}

// CFGEdgeKind distinguishes normal fallthrough from exceptional
// (finally/catch) edges.
type CFGEdgeKind string

const (
	CFGNormal      CFGEdgeKind = "normal"
	CFGConditional CFGEdgeKind = "conditional"
	CFGException   CFGEdgeKind = "exception"
)

type CFGEdge struct {
	From, To string
	Kind     CFGEdgeKind
}

// CFG is one function's control-flow graph.
type CFG struct {
	FunctionFQN string
	Blocks      map[string]*BasicBlock
	Edges       []CFGEdge
	EntryID     string
	ExitID      string
}

// SSAValue is one DFG/SSA node: a renamed variable occurrence or a
// phi-node at a CFG merge point.
type SSAValue struct {
	ID         string
	Name       string // renamed SSA name, e.g. "x.1"
	DefBlock   string
	IsPhi      bool
	PhiInputs  []string // predecessor SSA value IDs, parallel to the merge's predecessor blocks
	ExprID     string   // ir.Expression.ID this value corresponds to, if any
	Type       string
	TypeKnown  bool
	ConstValue string // arbitrary-precision numeric/text value when sparse-conditional propagation resolves it
	IsConst    bool
}

type DFGEdge struct {
	From, To string // SSAValue IDs: def -> use
}

// DFG is one function's SSA-like data-flow graph.
type DFG struct {
	FunctionFQN string
	Values      map[string]*SSAValue
	Edges       []DFGEdge
}

// CallEdgeKind records how a call was resolved.
type CallEdgeKind string

const (
	CallDirect  CallEdgeKind = "direct"
	CallVirtual CallEdgeKind = "virtual"
	CallDynamic CallEdgeKind = "dynamic"
)

type CallEdge struct {
	CallerFQN    string
	CalleeFQN    string // "<unknown>" when unresolved
	CallNodeID   string
	Kind         CallEdgeKind
	OverloadRank int // index among parallel edges for the same call site when multiple candidates resolve
}

// CallGraph is interprocedural, spanning every function across every
// document in the build.
type CallGraph struct {
	Edges       []CallEdge
	UnknownNode string // synthetic "<unknown>" target FQN
}

// PDGEdgeKind distinguishes control- from data-dependence edges.
type PDGEdgeKind string

const (
	PDGControl PDGEdgeKind = "control"
	PDGData    PDGEdgeKind = "data"
)

type PDGEdge struct {
	From, To string
	Kind     PDGEdgeKind
}

// PDG is one function's program-dependence graph: the union of its CFG's
// control dependences and its DFG's def-use edges.
type PDG struct {
	FunctionFQN string
	Edges       []PDGEdge
}

// Graph bundles every derived structure for one snapshot plus the
// unified index the query engine traverses. It is immutable once built
// (spec.md §5: "queries read the SemanticGraph through immutable
// references").
type Graph struct {
	Docs       []*ir.Document
	CFGs       map[string]*CFG // keyed by function FQN
	DFGs       map[string]*DFG
	PDGs       map[string]*PDG
	CallGraph  *CallGraph
	Index      *UnifiedIndex
}
