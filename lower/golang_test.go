package lower

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codegraphlabs/semcore/acquire"
	"github.com/codegraphlabs/semcore/ir"
	"github.com/codegraphlabs/semcore/parse"
)

const sampleGoSource = `package sample

func Helper() int {
	return 1
}

func Caller() int {
	return Helper()
}
`

func lowerSample(t *testing.T) *ir.Document {
	t.Helper()
	sf := &acquire.SourceFile{FilePath: "sample.go", Language: parse.Go, ContentHash: "deadbeef", Bytes: []byte(sampleGoSource)}
	cst, err := parse.Parse(sf.FilePath, sf.Language, sf.Bytes)
	require.NoError(t, err)
	root, ok := cst.Root.(*parse.GoRoot)
	require.True(t, ok)
	resolver := &ImportResolver{ModulePath: "sample", KnownExternal: DefaultKnownExternal()}
	return LowerGo(sf, root, resolver)
}

func findNode(doc *ir.Document, kind ir.NodeKind, name string) *ir.Node {
	for _, n := range doc.Nodes {
		if n.Kind == kind && n.Name == name {
			return n
		}
	}
	return nil
}

func TestLowerGo_EmitsFunctionsAndCalls(t *testing.T) {
	doc := lowerSample(t)
	helper := findNode(doc, ir.Function, "Helper")
	caller := findNode(doc, ir.Function, "Caller")
	require.NotNil(t, helper)
	require.NotNil(t, caller)

	var callNode *ir.Node
	for _, n := range doc.Nodes {
		if n.Kind == ir.Call {
			callNode = n
		}
	}
	require.NotNil(t, callNode)
	fqn, ok := callNode.Attr("calleeFqn")
	require.True(t, ok)
	require.Equal(t, helper.FQN, fqn)
}

func TestLowerGo_CallNodeIsContainedByItsFunction(t *testing.T) {
	doc := lowerSample(t)
	caller := findNode(doc, ir.Function, "Caller")
	require.NotNil(t, caller)

	var callID string
	for _, n := range doc.Nodes {
		if n.Kind == ir.Call {
			callID = n.ID
		}
	}
	require.NotEmpty(t, callID)

	var containsCall, callsCall bool
	for _, e := range doc.Edges {
		if e.FromID == caller.ID && e.ToID == callID {
			if e.Kind == ir.Contains {
				containsCall = true
			}
			if e.Kind == ir.Calls {
				callsCall = true
			}
		}
	}
	require.True(t, containsCall, "caller must Contain its call site so semgraph.BuildCFGs/BuildCallGraph can find it")
	require.True(t, callsCall)
}
