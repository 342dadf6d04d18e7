package semgraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codegraphlabs/semcore/ir"
)

func twoFuncDoc() *ir.Document {
	doc := ir.NewDocument("go", "sample.go")
	helper := &ir.Node{ID: "helper-id", Kind: ir.Function, Name: "Helper", FQN: "sample.Helper", Location: ir.Location{FilePath: "sample.go", StartByte: 0, EndByte: 10}}
	caller := &ir.Node{ID: "caller-id", Kind: ir.Function, Name: "Caller", FQN: "sample.Caller", Location: ir.Location{FilePath: "sample.go", StartByte: 20, EndByte: 40}}
	call := &ir.Node{ID: "call-id", Kind: ir.Call, Name: "Helper", FQN: "sample.Caller.call$0", Location: ir.Location{FilePath: "sample.go", StartByte: 25, EndByte: 30}}
	call.SetAttr("calleeName", "Helper")
	call.SetAttr("calleeFqn", "sample.Helper")
	doc.AddNode(helper)
	doc.AddNode(caller)
	doc.AddNode(call)
	doc.AddEdge(&ir.Edge{FromID: "caller-id", ToID: "call-id", Kind: ir.Contains})
	doc.AddEdge(&ir.Edge{FromID: "caller-id", ToID: "call-id", Kind: ir.Calls})
	return doc
}

func TestBuildCallGraph_ResolvesViaCalleeFqn(t *testing.T) {
	doc := twoFuncDoc()
	idx := BuildUnifiedIndex([]*ir.Document{doc})
	cg := BuildCallGraph([]*ir.Document{doc}, idx)

	require.Len(t, cg.Edges, 1)
	require.Equal(t, "sample.Caller", cg.Edges[0].CallerFQN)
	require.Equal(t, "sample.Helper", cg.Edges[0].CalleeFQN)

	require.Len(t, cg.Callers("sample.Helper"), 1)
	require.Len(t, cg.Callees("sample.Caller"), 1)
}

func TestBuildCFGs_PlacesCallInLinearChain(t *testing.T) {
	doc := twoFuncDoc()
	idx := BuildUnifiedIndex([]*ir.Document{doc})
	cfgs := BuildCFGs([]*ir.Document{doc}, idx)

	cfg, ok := cfgs["sample.Caller"]
	require.True(t, ok)
	require.Len(t, cfg.Blocks, 3) // entry, one call block, exit
}

func TestBuildCFGs_EmptyBodyFallsBackToUnknown(t *testing.T) {
	doc := ir.NewDocument("go", "empty.go")
	fn := &ir.Node{ID: "f", Kind: ir.Function, Name: "Empty", FQN: "sample.Empty", Location: ir.Location{FilePath: "empty.go"}}
	doc.AddNode(fn)
	idx := BuildUnifiedIndex([]*ir.Document{doc})
	cfgs := BuildCFGs([]*ir.Document{doc}, idx)
	cfg := cfgs["sample.Empty"]
	require.NotNil(t, cfg)
	found := false
	for _, b := range cfg.Blocks {
		if b.Kind == BlockUnknown {
			found = true
		}
	}
	require.True(t, found)
}
