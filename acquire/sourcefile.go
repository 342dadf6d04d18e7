// Package acquire implements spec.md §4.1 Source Acquisition & Parsing:
// enumerating a repository's files into immutable SourceFile tuples.
package acquire

import (
	"github.com/codegraphlabs/semcore/parse"
)

// SourceFile is the immutable tuple described in spec.md §3: it is
// created during acquisition and destroyed when the owning snapshot is
// evicted — this package never mutates one after construction.
type SourceFile struct {
	RepoID      string
	SnapshotID  string
	FilePath    string
	Language    parse.Language
	ContentHash string
	Bytes       []byte
	Skipped     bool   // true when the byte-limit was exceeded or the content is binary (see SkipReason); downstream stages know the file exists but has no IR
	SkipReason  string
}
