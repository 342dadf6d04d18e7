package lower

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codegraphlabs/semcore/acquire"
	"github.com/codegraphlabs/semcore/ir"
	"github.com/codegraphlabs/semcore/parse"
)

const sampleJavaSource = `package sample;

class Greeter {
    int helper() {
        return 1;
    }

    int caller() {
        return helper();
    }
}
`

func lowerJavaSample(t *testing.T) *ir.Document {
	t.Helper()
	sf := &acquire.SourceFile{FilePath: "Greeter.java", Language: parse.Java, ContentHash: "deadbeef", Bytes: []byte(sampleJavaSource)}
	cst, err := parse.Parse(sf.FilePath, sf.Language, sf.Bytes)
	require.NoError(t, err)
	resolver := &ImportResolver{ModulePath: "sample", KnownExternal: DefaultKnownExternal()}
	return LowerJava(sf, cst, resolver)
}

func TestLowerJava_EmitsMethodsAndCalls(t *testing.T) {
	doc := lowerJavaSample(t)
	helper := findNode(doc, ir.Method, "helper")
	caller := findNode(doc, ir.Method, "caller")
	require.NotNil(t, helper)
	require.NotNil(t, caller)

	var callNode *ir.Node
	for _, n := range doc.Nodes {
		if n.Kind == ir.Call {
			callNode = n
		}
	}
	require.NotNil(t, callNode)
	name, ok := callNode.Attr("calleeName")
	require.True(t, ok)
	require.Equal(t, "helper", name)
}

func TestLowerJava_CallNodeIsContainedByItsMethod(t *testing.T) {
	doc := lowerJavaSample(t)
	caller := findNode(doc, ir.Method, "caller")
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
