package semgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/codegraphlabs/semcore/ir"
)

// BuildCFGs constructs one CFG per Function/Method node across all
// documents. Basic-block boundaries fall at each Call or Return node
// reachable via a direct Contains edge from the function (spec.md §4.3:
// "construct basic blocks from the IR's statement sequence"); a function
// with no such children gets the trivial Entry→Unknown→Exit graph the
// failure-semantics paragraph requires for an unparseable or empty body.
//
// Branching constructs (if/else, loop) are recovered from each
// statement's "branchPath" attr (lower/golang.go's funcBody threads
// this down instead of a dedicated IR node kind, since spec.md §4.2's
// node-kind set is closed) and turned into real conditional split/merge
// blocks — spec.md §4.3's "handle branching constructs ... by emitting
// conditional split/merge". Nesting is resolved one level at a time:
// the first branchPath segment at each point in the top-level sequence
// decides the split; deeper nesting inside an arm collapses to that
// arm's linear sub-chain. Basic block numbering is reverse postorder
// for a linear chain; for a branchy one it is creation order, which is
// not a true RPO but is good enough for the postdominator computation
// in pdg.go (simple iterative dataflow, not order-sensitive).
func BuildCFGs(docs []*ir.Document, idx *UnifiedIndex) map[string]*CFG {
	out := map[string]*CFG{}
	for _, doc := range docs {
		for _, n := range doc.Nodes {
			if n.Kind != ir.Function && n.Kind != ir.Method {
				continue
			}
			out[n.FQN] = buildOneCFG(n, idx)
		}
	}
	return out
}

// branchSeg is one nesting level of a statement's branchPath, e.g.
// "if0.then" -> {group: "if0", arm: "then"}.
type branchSeg struct {
	group string
	arm   string
}

func branchSegsOf(n *ir.Node) []branchSeg {
	v, ok := n.Attr("branchPath")
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	parts := strings.Split(s, "/")
	segs := make([]branchSeg, 0, len(parts))
	for _, p := range parts {
		i := strings.LastIndex(p, ".")
		if i < 0 {
			segs = append(segs, branchSeg{group: p})
			continue
		}
		segs = append(segs, branchSeg{group: p[:i], arm: p[i+1:]})
	}
	return segs
}

// cfgBuilder accumulates blocks/edges for one function's CFG.
type cfgBuilder struct {
	cfg    *CFG
	fn     *ir.Node
	rpo    int
	blkSeq int
}

func (b *cfgBuilder) newBlock(nodeIDs []string) *BasicBlock {
	blk := &BasicBlock{ID: fmt.Sprintf("%s#b%d", b.fn.FQN, b.blkSeq), Kind: BlockNormal, NodeIDs: nodeIDs, RPONum: b.rpo}
	b.blkSeq++
	b.rpo++
	b.cfg.Blocks[blk.ID] = blk
	return blk
}

func (b *cfgBuilder) edge(from, to string, kind CFGEdgeKind) {
	b.cfg.Edges = append(b.cfg.Edges, CFGEdge{From: from, To: to, Kind: kind})
}

// chain builds a linear run of blocks for stmts (already filtered to one
// branch arm), stopping and wiring an exceptional exit edge at the first
// Return, since statements after a return in the same arm are
// unreachable. Returns the arm's first and last block IDs (empty if
// stmts is empty) and whether the arm diverted to exit rather than
// falling through.
func (b *cfgBuilder) chain(stmts []*ir.Node, exitID string) (first, last string, diverted bool) {
	var prev string
	for _, s := range stmts {
		blk := b.newBlock([]string{s.ID})
		if first == "" {
			first = blk.ID
		} else {
			b.edge(prev, blk.ID, CFGNormal)
		}
		prev = blk.ID
		if s.Kind == ir.Return {
			b.edge(blk.ID, exitID, CFGException)
			diverted = true
			break
		}
	}
	return first, prev, diverted
}

// buildIfElse wires a conditional split at splitID into a then-arm and
// an optional else-arm, merging both (where they don't divert to exit
// via a return) into a fresh merge block, and returns that merge
// block's ID as the continuation point.
func (b *cfgBuilder) buildIfElse(splitID string, groupStmts []*ir.Node, exitID string) string {
	var thenStmts, elseStmts []*ir.Node
	for _, s := range groupStmts {
		segs := branchSegsOf(s)
		if len(segs) > 0 && segs[0].arm == "else" {
			elseStmts = append(elseStmts, s)
		} else {
			thenStmts = append(thenStmts, s)
		}
	}
	thenFirst, thenLast, thenDiverted := b.chain(thenStmts, exitID)
	elseFirst, elseLast, elseDiverted := b.chain(elseStmts, exitID)

	merge := b.newBlock(nil)
	if thenFirst != "" {
		b.edge(splitID, thenFirst, CFGConditional)
		if !thenDiverted {
			b.edge(thenLast, merge.ID, CFGNormal)
		}
	} else {
		b.edge(splitID, merge.ID, CFGConditional)
	}
	if elseFirst != "" {
		b.edge(splitID, elseFirst, CFGConditional)
		if !elseDiverted {
			b.edge(elseLast, merge.ID, CFGNormal)
		}
	} else {
		b.edge(splitID, merge.ID, CFGConditional)
	}
	return merge.ID
}

// buildLoop wires a loop header with a conditional edge into the body
// (taken) and, via the caller's continued top-level chain, a normal
// fallthrough edge out of the header (not taken). The body's last block
// back-edges to the header unless it diverted to exit via a return.
func (b *cfgBuilder) buildLoop(splitID string, groupStmts []*ir.Node, exitID string) string {
	header := b.newBlock(nil)
	b.edge(splitID, header.ID, CFGNormal)

	bodyFirst, bodyLast, diverted := b.chain(groupStmts, exitID)
	if bodyFirst != "" {
		b.edge(header.ID, bodyFirst, CFGConditional)
		if !diverted {
			b.edge(bodyLast, header.ID, CFGNormal) // back edge
		}
	}
	return header.ID
}

func buildOneCFG(fn *ir.Node, idx *UnifiedIndex) *CFG {
	cfg := &CFG{FunctionFQN: fn.FQN, Blocks: map[string]*BasicBlock{}}

	entry := &BasicBlock{ID: fn.FQN + "#entry", Kind: BlockEntry, RPONum: 0}
	exit := &BasicBlock{ID: fn.FQN + "#exit", Kind: BlockExit}
	cfg.EntryID, cfg.ExitID = entry.ID, exit.ID
	cfg.Blocks[entry.ID] = entry
	cfg.Blocks[exit.ID] = exit

	children := idx.Forward(ir.Contains, fn.ID)
	var stmts []*ir.Node
	for _, id := range children {
		c := idx.Node(id)
		if c == nil {
			continue
		}
		if c.Kind == ir.Call || c.Kind == ir.Return {
			stmts = append(stmts, c)
		}
	}
	sort.Slice(stmts, func(i, j int) bool { return stmts[i].Location.StartByte < stmts[j].Location.StartByte })

	if len(stmts) == 0 {
		unknown := &BasicBlock{ID: fn.FQN + "#unknown", Kind: BlockUnknown, RPONum: 1}
		cfg.Blocks[unknown.ID] = unknown
		exit.RPONum = 2
		cfg.Edges = append(cfg.Edges,
			CFGEdge{From: entry.ID, To: unknown.ID, Kind: CFGNormal},
			CFGEdge{From: unknown.ID, To: exit.ID, Kind: CFGNormal})
		return cfg
	}

	b := &cfgBuilder{cfg: cfg, fn: fn, rpo: 1}
	cur := entry.ID
	i := 0
	for i < len(stmts) {
		segs := branchSegsOf(stmts[i])
		if len(segs) == 0 {
			blk := b.newBlock([]string{stmts[i].ID})
			b.edge(cur, blk.ID, CFGNormal)
			if stmts[i].Kind == ir.Return {
				b.edge(blk.ID, exit.ID, CFGException)
			}
			cur = blk.ID
			i++
			continue
		}

		top := segs[0]
		var group []*ir.Node
		for i < len(stmts) {
			s := branchSegsOf(stmts[i])
			if len(s) == 0 || s[0].group != top.group {
				break
			}
			group = append(group, stmts[i])
			i++
		}

		switch top.arm {
		case "then", "else":
			cur = b.buildIfElse(cur, group, exit.ID)
		case "body":
			cur = b.buildLoop(cur, group, exit.ID)
		default:
			// Unrecognized arm kind (shouldn't happen for a lowerer-emitted
			// path): fall back to a linear chain so nothing is dropped.
			first, last, diverted := b.chain(group, exit.ID)
			if first != "" {
				b.edge(cur, first, CFGNormal)
				cur = last
				_ = diverted
			}
		}
	}
	b.edge(cur, exit.ID, CFGNormal)
	return cfg
}

// Successors returns the blocks reachable by a single CFG edge from id.
func (c *CFG) Successors(id string) []string {
	var out []string
	for _, e := range c.Edges {
		if e.From == id {
			out = append(out, e.To)
		}
	}
	return out
}

// Predecessors returns the blocks with a single CFG edge into id.
func (c *CFG) Predecessors(id string) []string {
	var out []string
	for _, e := range c.Edges {
		if e.To == id {
			out = append(out, e.From)
		}
	}
	return out
}
