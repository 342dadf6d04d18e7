package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codegraphlabs/semcore/ir"
)

func docWithNode(file, nodeID string) *ir.Document {
	d := ir.NewDocument("go", file)
	d.AddNode(&ir.Node{ID: nodeID, Kind: ir.Function, Name: "F", FQN: "pkg.F", Location: ir.Location{FilePath: file}})
	return d
}

func TestNew_BuildsGraphAndGlobalHash(t *testing.T) {
	docs := []*ir.Document{docWithNode("a.go", "n1"), docWithNode("b.go", "n2")}
	snap := New("repo1", docs, time.Unix(0, 0).UTC())
	require.NotEmpty(t, snap.ID)
	require.NotEmpty(t, snap.GlobalHash)
	require.NotNil(t, snap.Graph)
	require.Len(t, snap.Docs, 2)
}

func TestGlobalHash_OrderIndependent(t *testing.T) {
	docsA := []*ir.Document{docWithNode("a.go", "n1"), docWithNode("b.go", "n2")}
	docsB := []*ir.Document{docWithNode("b.go", "n2"), docWithNode("a.go", "n1")}
	require.Equal(t, globalHash(docsA), globalHash(docsB))
}

func TestGlobalHash_ChangesWithContent(t *testing.T) {
	docsA := []*ir.Document{docWithNode("a.go", "n1")}
	docsB := []*ir.Document{docWithNode("a.go", "n1-changed")}
	require.NotEqual(t, globalHash(docsA), globalHash(docsB))
}

func TestDocByFile(t *testing.T) {
	docs := []*ir.Document{docWithNode("a.go", "n1"), docWithNode("b.go", "n2")}
	snap := New("repo1", docs, time.Now().UTC())
	require.Equal(t, "b.go", snap.DocByFile("b.go").Meta.SourceFile)
	require.Nil(t, snap.DocByFile("missing.go"))
}
