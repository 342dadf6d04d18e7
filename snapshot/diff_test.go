package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codegraphlabs/semcore/ir"
)

func TestDiff_ModifiedFileMarksNewNodesDirty(t *testing.T) {
	oldDoc := docWithNode("a.go", "old-id")
	parent := New("repo1", []*ir.Document{oldDoc}, time.Now().UTC())

	newDoc := docWithNode("a.go", "new-id")
	delta := Diff(parent, []FileChange{{FilePath: "a.go", Kind: Modified, NewDoc: newDoc}})

	require.Contains(t, delta.DirtyNodeIDs, "new-id")
	require.NotContains(t, delta.DirtyNodeIDs, "old-id")
}

func TestDiff_AddedFileNodesAreAllDirty(t *testing.T) {
	parent := New("repo1", []*ir.Document{docWithNode("a.go", "n1")}, time.Now().UTC())
	newDoc := docWithNode("b.go", "n2")
	delta := Diff(parent, []FileChange{{FilePath: "b.go", Kind: Added, NewDoc: newDoc}})
	require.Equal(t, []string{"n2"}, delta.DirtyNodeIDs)
}

func TestDiff_ImpactSetIncludesCallers(t *testing.T) {
	callee := docWithNode("callee.go", "callee-id")
	caller := ir.NewDocument("go", "caller.go")
	caller.AddNode(&ir.Node{ID: "caller-id", Kind: ir.Function, Name: "Caller", FQN: "pkg.Caller", Location: ir.Location{FilePath: "caller.go"}})
	caller.Edges = append(caller.Edges, &ir.Edge{FromID: "caller-id", ToID: "callee-id", Kind: ir.Calls})

	parent := New("repo1", []*ir.Document{callee, caller}, time.Now().UTC())

	changedCallee := docWithNode("callee.go", "callee-id-v2")
	delta := Diff(parent, []FileChange{{FilePath: "callee.go", Kind: Modified, NewDoc: changedCallee}})

	require.Contains(t, delta.ImpactSet, "caller-id")
}

func TestComputeImpactSet_SampledWhenExceedsCeiling(t *testing.T) {
	var nodes []*ir.Node
	var edges []*ir.Edge
	doc := ir.NewDocument("go", "big.go")
	for i := 0; i < ImpactCeiling+50; i++ {
		id := "caller-" + itoa(i)
		nodes = append(nodes, &ir.Node{ID: id, Kind: ir.Function, Name: "C" + itoa(i), FQN: "pkg.C" + itoa(i), Location: ir.Location{FilePath: "big.go"}})
		edges = append(edges, &ir.Edge{FromID: id, ToID: "target-id", Kind: ir.Calls})
	}
	nodes = append(nodes, &ir.Node{ID: "target-id", Kind: ir.Function, Name: "Target", FQN: "pkg.Target", Location: ir.Location{FilePath: "big.go"}})
	doc.Nodes = nodes
	doc.Edges = edges

	parent := New("repo1", []*ir.Document{doc}, time.Now().UTC())
	impact := computeImpactSet(parent, []string{"target-id"})
	require.Greater(t, len(impact), ImpactCeiling)

	sampled := sampleDeterministically(impact, ImpactCeiling)
	require.Len(t, sampled, ImpactCeiling)
}

func TestNameSimilarity_ExactAndUnrelated(t *testing.T) {
	require.Equal(t, 1.0, nameSimilarity("fetchUser", "fetchUser"))
	require.Zero(t, nameSimilarity("fetchUser", "deleteOrder"))
}

func TestNameSimilarity_Rename(t *testing.T) {
	sim := nameSimilarity("fetchUserProfile", "fetchUserProfileV2")
	require.Greater(t, sim, 0.5)
}

func TestDetectRenames_FindsSimilarReplacement(t *testing.T) {
	old := ir.NewDocument("go", "a.go")
	old.AddNode(&ir.Node{ID: "old-id", Kind: ir.Function, Name: "fetchUserProfileFromCache", FQN: "pkg.fetchUserProfileFromCache", Location: ir.Location{FilePath: "a.go"}})
	parent := New("repo1", []*ir.Document{old}, time.Now().UTC())

	updated := ir.NewDocument("go", "a.go")
	updated.AddNode(&ir.Node{ID: "new-id", Kind: ir.Function, Name: "fetchUserProfileFromCacheV2", FQN: "pkg.fetchUserProfileFromCacheV2", Location: ir.Location{FilePath: "a.go"}})

	renames := detectRenames(parent, []FileChange{{FilePath: "a.go", Kind: Modified, NewDoc: updated}})
	require.Len(t, renames, 1)
	require.Equal(t, "old-id", renames[0].FromNodeID)
	require.Equal(t, "new-id", renames[0].ToNodeID)
}

func TestMapSymbols_ExactAndUnmapped(t *testing.T) {
	shared := docWithNode("a.go", "shared-id")
	parent := New("repo1", []*ir.Document{shared}, time.Now().UTC())

	unchanged := docWithNode("a.go", "shared-id")
	mappings, unmapped := mapSymbols(parent, []FileChange{{FilePath: "a.go", Kind: Modified, NewDoc: unchanged}}, nil)
	require.Len(t, mappings, 1)
	require.Equal(t, 1.0, mappings[0].Confidence)
	require.Empty(t, unmapped)
}
