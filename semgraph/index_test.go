package semgraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codegraphlabs/semcore/ir"
)

func TestBuildUnifiedIndex_LooksUpByKindNameAndFQN(t *testing.T) {
	doc := twoFuncDoc()
	idx := BuildUnifiedIndex([]*ir.Document{doc})

	ids := idx.NodesByKindName(ir.Function, "Helper")
	require.Equal(t, []string{"helper-id"}, ids)

	id, ok := idx.NodeByFQN("sample.Caller")
	require.True(t, ok)
	require.Equal(t, "caller-id", id)

	require.Equal(t, "helper-id", idx.Node("helper-id").ID)
	require.Equal(t, doc, idx.DocumentOf("helper-id"))
}

func TestUnifiedIndex_ForwardAndReverse(t *testing.T) {
	doc := twoFuncDoc()
	idx := BuildUnifiedIndex([]*ir.Document{doc})

	require.ElementsMatch(t, []string{"call-id"}, idx.Forward(ir.Contains, "caller-id"))
	require.ElementsMatch(t, []string{"caller-id"}, idx.Reverse(ir.Contains, "call-id"))
}

func TestUnifiedIndex_AllNodeIDs(t *testing.T) {
	doc := twoFuncDoc()
	idx := BuildUnifiedIndex([]*ir.Document{doc})
	require.ElementsMatch(t, []string{"helper-id", "caller-id", "call-id"}, idx.AllNodeIDs())
}
