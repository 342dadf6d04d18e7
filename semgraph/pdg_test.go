package semgraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codegraphlabs/semcore/ir"
)

func TestBuildPDGs_MirrorsDFGEdgesAsDataDependence(t *testing.T) {
	doc := funcDocWithExpressions()
	idx := BuildUnifiedIndex([]*ir.Document{doc})
	cfgs := BuildCFGs([]*ir.Document{doc}, idx)
	dfgs := BuildDFGs([]*ir.Document{doc}, idx)
	pdgs := BuildPDGs(cfgs, dfgs)

	pdg, ok := pdgs["sample.Compute"]
	require.True(t, ok)
	require.Contains(t, pdg.Edges, PDGEdge{From: "expr-lit", To: "expr-assign", Kind: PDGData})
}

func TestBuildPDGs_NoControlEdgesWithoutABranch(t *testing.T) {
	doc := twoFuncDoc()
	idx := BuildUnifiedIndex([]*ir.Document{doc})
	cfgs := BuildCFGs([]*ir.Document{doc}, idx)
	dfgs := BuildDFGs([]*ir.Document{doc}, idx)
	pdgs := BuildPDGs(cfgs, dfgs)

	pdg, ok := pdgs["sample.Caller"]
	require.True(t, ok)
	for _, e := range pdg.Edges {
		require.NotEqual(t, PDGControl, e.Kind, "this fixture's body is a single unconditional call, so its CFG has no 2-successor block for anything to be control-dependent on")
	}
}

// branchyFuncDoc models `if cond { thenCall() } else { elseCall() }` via the
// branchPath Attr cfg.go's branchSegsOf parses (lower/golang.go threads
// this down from the Go lowerer). Both calls share group "if0" so
// buildOneCFG routes them into a single buildIfElse split/merge.
func branchyFuncDoc() *ir.Document {
	doc := ir.NewDocument("go", "branchy.go")
	fn := &ir.Node{ID: "fn-id", Kind: ir.Function, Name: "Branchy", FQN: "sample.Branchy",
		Location: ir.Location{FilePath: "branchy.go", StartByte: 0, EndByte: 100}}
	doc.AddNode(fn)

	thenCall := &ir.Node{ID: "then-call", Kind: ir.Call, Name: "ThenPath", FQN: "sample.Branchy.call$0",
		Location: ir.Location{FilePath: "branchy.go", StartByte: 10, EndByte: 20}}
	thenCall.SetAttr("branchPath", "if0.then")
	doc.AddNode(thenCall)
	doc.AddEdge(&ir.Edge{FromID: fn.ID, ToID: thenCall.ID, Kind: ir.Contains})

	elseCall := &ir.Node{ID: "else-call", Kind: ir.Call, Name: "ElsePath", FQN: "sample.Branchy.call$1",
		Location: ir.Location{FilePath: "branchy.go", StartByte: 30, EndByte: 40}}
	elseCall.SetAttr("branchPath", "if0.else")
	doc.AddNode(elseCall)
	doc.AddEdge(&ir.Edge{FromID: fn.ID, ToID: elseCall.ID, Kind: ir.Contains})

	return doc
}

// TestBuildPDGs_BranchProducesControlDependence is the positive
// counterpart to TestBuildPDGs_NoControlEdgesWithoutABranch: once the CFG
// actually has a 2-successor block (cfg.go's buildIfElse split), each arm
// block is control-dependent on the split and BuildPDGs must say so.
func TestBuildPDGs_BranchProducesControlDependence(t *testing.T) {
	doc := branchyFuncDoc()
	idx := BuildUnifiedIndex([]*ir.Document{doc})
	cfgs := BuildCFGs([]*ir.Document{doc}, idx)
	dfgs := BuildDFGs([]*ir.Document{doc}, idx)
	pdgs := BuildPDGs(cfgs, dfgs)

	cfg, ok := cfgs["sample.Branchy"]
	require.True(t, ok)
	require.Len(t, cfg.Successors(cfg.EntryID), 2, "the split block must have exactly the then/else successors")

	pdg, ok := pdgs["sample.Branchy"]
	require.True(t, ok)

	blockWith := func(nodeID string) string {
		for _, blk := range cfg.Blocks {
			for _, id := range blk.NodeIDs {
				if id == nodeID {
					return blk.ID
				}
			}
		}
		return ""
	}
	thenBlock := blockWith("then-call")
	elseBlock := blockWith("else-call")
	require.NotEmpty(t, thenBlock)
	require.NotEmpty(t, elseBlock)

	require.Contains(t, pdg.Edges, PDGEdge{From: cfg.EntryID, To: thenBlock, Kind: PDGControl})
	require.Contains(t, pdg.Edges, PDGEdge{From: cfg.EntryID, To: elseBlock, Kind: PDGControl})
}
