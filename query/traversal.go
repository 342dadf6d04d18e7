package query

import (
	"strings"
	"time"

	"github.com/codegraphlabs/semcore/ir"
	"github.com/codegraphlabs/semcore/semgraph"
)

// Executor runs PathQueries against one immutable semgraph.Graph. Per
// spec.md §5, multiple Executors over the same Graph may run
// concurrently; Executor itself holds no mutable state between calls.
type Executor struct {
	Graph *semgraph.Graph
}

func NewExecutor(g *semgraph.Graph) *Executor {
	return &Executor{Graph: g}
}

// compile resolves selectors to concrete candidate sets and validates
// the type connectivity matrix eagerly (spec.md §4.4: "Invalid queries
// ... fail eagerly with an error that identifies the offending
// subterm"). It's shared by AnyPath and AllPaths so both executions use
// the exact same construction-time checks.
func (ex *Executor) compile(q *PathQuery) (sources, sinks []string, err error) {
	if err := q.Limits.Validate(); err != nil {
		return nil, nil, err
	}
	if q.Flow == nil || q.Flow.From == nil || q.Flow.To == nil {
		return nil, nil, NewError(ErrUnknownSelector, "query has no From/To selector", "flow")
	}
	edge := q.Flow.Edge
	if edge == nil {
		edge = All()
	}
	if err := ValidateConnectivity(q.Flow.From.Kind, q.Flow.To.Kind, edge); err != nil {
		return nil, nil, err
	}
	sources = ex.resolve(q.Flow.From)
	sinks = ex.resolve(q.Flow.To)
	if len(sources) == 0 {
		return nil, nil, NewError(ErrUnknownSelector, "selector matched no nodes", selectorLabel(q.Flow.From))
	}
	if len(sinks) == 0 {
		return nil, nil, NewError(ErrUnknownSelector, "selector matched no nodes", selectorLabel(q.Flow.To))
	}
	return sources, sinks, nil
}

func selectorLabel(s *NodeSelector) string {
	if s.Label != "" {
		return s.Label
	}
	return string(s.Kind)
}

func (ex *Executor) resolve(sel *NodeSelector) []string {
	if sel.Kind == ClassBlock {
		return ex.resolveBlocks(sel)
	}
	var out []string
	if sel.FQN != "" {
		if id, ok := ex.Graph.Index.NodeByFQN(sel.FQN); ok {
			out = append(out, id)
		}
		return out
	}
	for _, id := range ex.Graph.Index.AllNodeIDs() {
		n := ex.Graph.Index.Node(id)
		if n == nil {
			continue
		}
		if sel.Kind != ClassAny && classOfIRKind(n.Kind) != sel.Kind {
			continue
		}
		if sel.NamePat != "" && !strings.Contains(n.Name, sel.NamePat) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// resolveBlocks resolves a ClassBlock selector against basic-block IDs
// across every function's CFG — blocks have no ir.Node counterpart
// (query/types.go's NodeKindClass doc comment), so they can't come from
// Graph.Index like every other class. A block has no Name, so NamePat
// matches substrings of the block ID itself (e.g. "#entry", "#exit").
func (ex *Executor) resolveBlocks(sel *NodeSelector) []string {
	var out []string
	for _, cfg := range ex.Graph.CFGs {
		for id := range cfg.Blocks {
			if sel.FQN != "" && id != sel.FQN {
				continue
			}
			if sel.NamePat != "" && !strings.Contains(id, sel.NamePat) {
				continue
			}
			out = append(out, id)
		}
	}
	return out
}

// nbr is one step reached from neighbors, carrying the edge class that
// produced it — search needs the class (not just the node ID) to tell a
// Calls step apart from the rest when threading call-string context.
type nbr struct {
	id    string
	class EdgeClass
}

// neighbors returns (nodeID, edgeClass) pairs reachable from id by a
// single step in the requested edge selector's classes, honoring
// Backward per spec.md §4.4's "hard contract" on reversal.
func (ex *Executor) neighbors(id string, edge *EdgeSelector) []nbr {
	classes := edge.Classes
	if classes[EdgeAll] {
		classes = map[EdgeClass]bool{EdgeCalls: true, EdgeCfg: true, EdgeDfg: true, EdgeReads: true, EdgeWrites: true, EdgeReturns: true, EdgeImports: true, EdgeInherits: true}
	}
	var out []nbr
	for class := range classes {
		for _, id2 := range ex.step(id, class, edge.Backward) {
			out = append(out, nbr{id: id2, class: class})
		}
	}
	return out
}

func (ex *Executor) step(id string, class EdgeClass, backward bool) []string {
	switch class {
	case EdgeCalls:
		return ex.callStep(id, backward)
	case EdgeCfg:
		return ex.cfgStep(id, backward)
	case EdgeDfg:
		return ex.dfgStep(id, backward)
	case EdgeReads, EdgeWrites, EdgeReturns, EdgeImports, EdgeInherits:
		return ex.irEdgeStep(id, irEdgeKindFor(class), backward)
	default:
		return nil
	}
}

func irEdgeKindFor(c EdgeClass) ir.EdgeKind {
	switch c {
	case EdgeReads:
		return ir.Reads
	case EdgeWrites:
		return ir.Writes
	case EdgeReturns:
		return ir.Returns
	case EdgeImports:
		return ir.Imports
	case EdgeInherits:
		return ir.Inherits
	}
	return ""
}

func (ex *Executor) irEdgeStep(id string, kind ir.EdgeKind, backward bool) []string {
	if backward {
		return ex.Graph.Index.Reverse(kind, id)
	}
	return ex.Graph.Index.Forward(kind, id)
}

func (ex *Executor) callStep(id string, backward bool) []string {
	n := ex.Graph.Index.Node(id)
	if n == nil {
		return nil
	}
	var out []string
	if backward {
		for _, e := range ex.Graph.CallGraph.Callers(n.FQN) {
			if targetID, ok := ex.Graph.Index.NodeByFQN(e.CallerFQN); ok {
				out = append(out, targetID)
			}
		}
		return out
	}
	for _, e := range ex.Graph.CallGraph.Callees(n.FQN) {
		if targetID, ok := ex.Graph.Index.NodeByFQN(e.CalleeFQN); ok {
			out = append(out, targetID)
		}
	}
	return out
}

// cfgStep walks the CFG block chain. Block IDs are always
// "<function FQN>#..." (semgraph/cfg.go's newBlock/entry/exit naming), so
// a frontier value that is already a block ID is resolved directly
// against its owning CFG's Blocks/Successors/Predecessors; a frontier
// value that is still a plain ir.Node ID (the first hop, from a
// Func-class selector) falls back to the entry block so the traversal
// has somewhere to start.
func (ex *Executor) cfgStep(id string, backward bool) []string {
	if hash := strings.LastIndex(id, "#"); hash >= 0 {
		if cfg, ok := ex.Graph.CFGs[id[:hash]]; ok {
			if _, isBlock := cfg.Blocks[id]; isBlock {
				if backward {
					return cfg.Predecessors(id)
				}
				return cfg.Successors(id)
			}
		}
	}
	fqn, ok := ex.Graph.Index.EnclosingFunctionFQN(id)
	if !ok {
		return nil
	}
	cfg, ok := ex.Graph.CFGs[fqn]
	if !ok {
		return nil
	}
	if backward {
		return nil // entering the CFG has no predecessor from outside the function
	}
	return []string{cfg.EntryID}
}

// dfgStep walks def-use edges within the DFG owning id's enclosing
// function. Graph.DFGs is keyed by function FQN (see semgraph.BuildDFGs),
// never by a Call/Variable node's own FQN, so the lookup must resolve
// through EnclosingFunctionFQN rather than idx.Node(id).FQN.
func (ex *Executor) dfgStep(id string, backward bool) []string {
	fqn, ok := ex.Graph.Index.EnclosingFunctionFQN(id)
	if !ok {
		return nil
	}
	dfg, ok := ex.Graph.DFGs[fqn]
	if !ok {
		return nil
	}
	var out []string
	for _, e := range dfg.Edges {
		if backward && e.To == id {
			out = append(out, e.From)
		}
		if !backward && e.From == id {
			out = append(out, e.To)
		}
	}
	return out
}

type tuple struct {
	nodeID  string
	path    []string
	classes []EdgeClass
	depth   int
	ctx     []string // last ContextK call-site node IDs entered via a forward Calls step (k-limited call string)
}

// contextKey renders a call-string context as the single comparable
// string PathResult.ContextKey and the visited-set carry around.
func contextKey(ctx []string) string {
	return strings.Join(ctx, ">")
}

// AnyPath executes the query existentially: returns the first MaxPaths
// witness paths found by iterative BFS (spec.md §4.4's worklist
// algorithm). Deduplication keys on (node_id, context_key) — a k-limited
// call string threaded through forward Calls steps (see search) — rather
// than node ID alone, so two paths entering a shared callee from distinct
// call sites stay distinguishable instead of collapsing into one. Full
// access-path-set sensitivity (field/alias granularity) still isn't
// carried; AliasMode only marks PathResult.Uncertain for now.
//
// The predicate from .where() is applied here, after search, rather than
// inside it: AllPaths needs the raw (unfiltered) path set to tell "no
// path exists" apart from "a path exists but violates the predicate" —
// see search and AllPaths.
func (ex *Executor) AnyPath(q *PathQuery) (*PathSet, error) {
	raw, err := ex.search(q)
	if err != nil {
		return nil, err
	}
	if q.Predicate == nil {
		return raw, nil
	}
	filtered := &PathSet{Truncation: raw.Truncation, Diagnostics: raw.Diagnostics}
	for _, p := range raw.Paths {
		if q.Predicate(p) {
			filtered.Paths = append(filtered.Paths, p)
		}
	}
	return filtered, nil
}

// search runs the bounded worklist BFS shared by AnyPath and AllPaths. It
// collects every path reaching a sink within the query's limits, without
// applying q.Predicate — callers decide what the predicate means for
// their quantifier (AnyPath keeps matching paths, AllPaths looks for one
// that fails).
func (ex *Executor) search(q *PathQuery) (*PathSet, error) {
	sources, sinks, err := ex.compile(q)
	if err != nil {
		return nil, err
	}
	sinkSet := map[string]bool{}
	for _, s := range sinks {
		sinkSet[s] = true
	}
	excludeSet := map[string]bool{}
	if q.ExcludingSel != nil {
		for _, id := range ex.resolve(q.ExcludingSel) {
			excludeSet[id] = true
		}
	}
	var within map[string]bool
	if q.WithinSel != nil {
		within = map[string]bool{}
		for _, id := range ex.resolve(q.WithinSel) {
			within[id] = true
		}
	}

	edge := q.Flow.Edge
	if edge == nil {
		edge = All()
	}
	maxDepth := q.Flow.MaxDepth
	if maxDepth <= 0 {
		maxDepth = q.Limits.MaxDepth
	}

	deadline := time.Now().Add(q.Limits.Timeout)
	visited := map[string]bool{}
	var queue []tuple
	for _, s := range sources {
		queue = append(queue, tuple{nodeID: s, path: []string{s}})
	}

	result := &PathSet{}
	nodesVisited := 0
	for len(queue) > 0 {
		if time.Now().After(deadline) {
			result.Truncation = TruncTimeout
			break
		}
		if len(result.Paths) >= q.Limits.MaxPaths {
			result.Truncation = TruncPathLimit
			break
		}
		if nodesVisited >= q.Limits.MaxNodes {
			result.Truncation = TruncNodeLimit
			break
		}
		cur := queue[0]
		queue = queue[1:]
		nodesVisited++

		// Dedup key is (node_id, context_key): with ContextK == 0 (the
		// default) this degrades to plain node-ID reachability; with
		// ContextK > 0 two arrivals at the same node via distinct
		// k-limited call strings are kept as distinct states instead of
		// collapsing into whichever arrived first.
		visitKey := cur.nodeID
		if q.ContextK > 0 {
			visitKey = cur.nodeID + "|" + contextKey(cur.ctx)
		}
		if visited[visitKey] {
			continue
		}
		visited[visitKey] = true

		if within != nil && q.WithinMode == ScopePrune && !within[cur.nodeID] {
			continue
		}
		if excludeSet[cur.nodeID] && len(cur.path) > 1 {
			continue
		}

		if sinkSet[cur.nodeID] && len(cur.path) > 1 {
			uncertain := false
			if q.AliasMode == AliasMay {
				for _, c := range cur.classes {
					if c == EdgeDfg {
						uncertain = true
						break
					}
				}
			}
			pr := &PathResult{NodeIDs: cur.path, EdgeKinds: cur.classes, Uncertain: uncertain, ContextKey: contextKey(cur.ctx)}
			if within != nil && q.WithinMode == ScopeFilter && !allWithin(cur.path, within) {
				continue
			}
			result.Paths = append(result.Paths, pr)
			continue // don't expand past a matched sink
		}

		if cur.depth >= maxDepth {
			if result.Truncation == TruncNone {
				result.Truncation = TruncDepth
			}
			continue
		}

		for _, n := range ex.neighbors(cur.nodeID, edge) {
			if len(cur.path) > 0 && containsLoopMoreThanOnce(cur.path, n.id) {
				continue // loops unrolled at most once (spec.md §4.4 universal-quantification rule, applied here too for sanity)
			}
			nextCtx := cur.ctx
			if q.ContextK > 0 && n.class == EdgeCalls && !edge.Backward {
				nextCtx = append(append([]string{}, cur.ctx...), cur.nodeID)
				if len(nextCtx) > q.ContextK {
					nextCtx = nextCtx[len(nextCtx)-q.ContextK:]
				}
			}
			queue = append(queue, tuple{
				nodeID:  n.id,
				path:    append(append([]string{}, cur.path...), n.id),
				classes: append(append([]EdgeClass{}, cur.classes...), n.class),
				depth:   cur.depth + 1,
				ctx:     nextCtx,
			})
		}
	}
	return result, nil
}

func allWithin(path []string, within map[string]bool) bool {
	for _, id := range path {
		if !within[id] {
			return false
		}
	}
	return true
}

func containsLoopMoreThanOnce(path []string, next string) bool {
	count := 0
	for _, id := range path {
		if id == next {
			count++
		}
	}
	return count >= 2
}

// AllPaths executes the query universally: it must terminate (spec.md
// §4.4), so it runs search's same bounded BFS over every discovered path
// (unfiltered by the predicate — see search) and requires each one to
// satisfy the predicate; the first violator becomes the witness.
func (ex *Executor) AllPaths(q *PathQuery) (*VerificationResult, error) {
	paths, err := ex.exhaustivePaths(q)
	if err != nil {
		return nil, err
	}
	vr := &VerificationResult{OK: true, Covered: len(paths.Paths), Truncation: paths.Truncation}
	for _, p := range paths.Paths {
		if q.Predicate != nil && !q.Predicate(p) {
			vr.OK = false
			vr.Witness = p
			return vr, nil
		}
	}
	return vr, nil
}

// exhaustivePaths is search with the path limit set high enough to stand
// in for "every path" within the query's node/depth/timeout bounds —
// spec.md §4.4 requires all_paths() to terminate via depth bounding and
// single-unroll loop collapsing, which search's worklist already
// enforces identically. It calls search directly, not AnyPath, so
// AllPaths sees every raw path reaching a sink rather than only the ones
// AnyPath's predicate filter would have kept.
func (ex *Executor) exhaustivePaths(q *PathQuery) (*PathSet, error) {
	widened := *q
	widened.Limits.MaxPaths = q.Limits.MaxNodes // exhaustive within node budget, not path-count capped
	return ex.search(&widened)
}
