package lower

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codegraphlabs/semcore/acquire"
	"github.com/codegraphlabs/semcore/ir"
	"github.com/codegraphlabs/semcore/parse"
)

// sampleGoSourceWithBlankLine is sampleGoSource with one blank line
// inserted above Caller — spec.md §8 S6's edit: a whitespace-only change
// that shifts every byte offset after it but touches no node's own span.
const sampleGoSourceWithBlankLine = `package sample

func Helper() int {
	return 1
}


func Caller() int {
	return Helper()
}
`

func lowerGoSource(t *testing.T, source string) *ir.Document {
	t.Helper()
	sf := &acquire.SourceFile{FilePath: "sample.go", Language: parse.Go, ContentHash: "deadbeef", Bytes: []byte(source)}
	cst, err := parse.Parse(sf.FilePath, sf.Language, sf.Bytes)
	require.NoError(t, err)
	root, ok := cst.Root.(*parse.GoRoot)
	require.True(t, ok)
	resolver := &ImportResolver{ModulePath: "sample", KnownExternal: DefaultKnownExternal()}
	return LowerGo(sf, root, resolver)
}

// TestStableID_UnaffectedByBlankLineInsertedAbove exercises spec.md §8 S6:
// a stable ID is derived from kind|fqn|content_hash|structural_position
// (ir/stableid), none of which a blank line inserted between two
// unrelated declarations changes — Helper's own byte span, FQN, and
// sibling ordinal are identical in both sources, so its node ID and the
// call site's def-use linkage must survive the edit unchanged.
func TestStableID_UnaffectedByBlankLineInsertedAbove(t *testing.T) {
	before := lowerGoSource(t, sampleGoSource)
	after := lowerGoSource(t, sampleGoSourceWithBlankLine)

	helperBefore := findNode(before, ir.Function, "Helper")
	helperAfter := findNode(after, ir.Function, "Helper")
	require.NotNil(t, helperBefore)
	require.NotNil(t, helperAfter)
	require.Equal(t, helperBefore.ID, helperAfter.ID, "Helper's stable ID must not drift when an unrelated blank line shifts byte offsets")

	// Caller's own byte span slices to the exact same source text in both
	// versions (only its offset shifted, not its content), and its
	// sibling ordinal is unchanged, so its stable ID must also survive.
	callerBefore := findNode(before, ir.Function, "Caller")
	callerAfter := findNode(after, ir.Function, "Caller")
	require.NotNil(t, callerBefore)
	require.NotNil(t, callerAfter)
	require.Equal(t, callerBefore.ID, callerAfter.ID, "Caller's stable ID must not drift: its span's text content, FQN, and structural position are all unchanged by the edit")

	var calleeFqnBefore, calleeFqnAfter interface{}
	for _, n := range before.Nodes {
		if n.Kind == ir.Call {
			calleeFqnBefore, _ = n.Attr("calleeFqn")
		}
	}
	for _, n := range after.Nodes {
		if n.Kind == ir.Call {
			calleeFqnAfter, _ = n.Attr("calleeFqn")
		}
	}
	require.Equal(t, helperBefore.FQN, calleeFqnBefore)
	require.Equal(t, calleeFqnBefore, calleeFqnAfter, "the call's resolved callee FQN is unaffected by the edit, just as the caller's own ID is")
}
