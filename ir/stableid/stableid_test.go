package stableid

import "testing"

import "github.com/stretchr/testify/require"

func TestID_StableAcrossUnrelatedEdits(t *testing.T) {
	hash := ContentHash([]string{"func_decl", "identifier", "Foo"})
	id1 := ID("Function", "pkg.Foo", hash, "0")
	id2 := ID("Function", "pkg.Foo", hash, "0")
	require.Equal(t, id1, id2)
}

func TestID_ChangesWithContent(t *testing.T) {
	h1 := ContentHash([]string{"func_decl", "identifier", "Foo"})
	h2 := ContentHash([]string{"func_decl", "identifier", "Bar"})
	id1 := ID("Function", "pkg.Foo", h1, "0")
	id2 := ID("Function", "pkg.Foo", h2, "0")
	require.NotEqual(t, id1, id2)
}

func TestFastHash_Deterministic(t *testing.T) {
	require.Equal(t, FastHash([]byte("hello")), FastHash([]byte("hello")))
	require.NotEqual(t, FastHash([]byte("hello")), FastHash([]byte("world")))
}
