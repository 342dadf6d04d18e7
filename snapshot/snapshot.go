// Package snapshot implements spec.md §4.5: the incremental update and
// snapshot store. A Snapshot bundles the IR documents and derived
// semantic graph for one point-in-time view of a repository; Store
// persists and loads them; Diff computes parent→child deltas with
// minimum recomputation.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"time"

	"github.com/codegraphlabs/semcore/ir"
	"github.com/codegraphlabs/semcore/semgraph"
)

// Snapshot is immutable once built (spec.md §5: "a child snapshot is
// observable only after the full incremental update completes").
type Snapshot struct {
	ID         string
	ParentID   string
	RepoID     string
	Docs       []*ir.Document
	Graph      *semgraph.Graph
	GlobalHash string
	CreatedAt  time.Time
}

// New builds a fresh (non-incremental) snapshot from a full set of
// IRDocuments, e.g. the first build of a repository. ID defaults to the
// content-addressable GlobalHash (spec.md §6: snapshot identity is
// content-addressable, not arbitrary) — engine.Engine.Build overwrites it
// with the caller-supplied SnapshotID, but any other caller building a
// Snapshot directly still gets a meaningful, reproducible ID rather than
// a random one.
func New(repoID string, docs []*ir.Document, createdAt time.Time) *Snapshot {
	hash := globalHash(docs)
	return &Snapshot{
		ID:         hash,
		RepoID:     repoID,
		Docs:       docs,
		Graph:      semgraph.Build(docs),
		GlobalHash: hash,
		CreatedAt:  createdAt,
	}
}

// globalHash folds every document's per-file content hash into one
// order-independent digest, used as the query-cache invalidation key
// (spec.md §4.5 step 6).
func globalHash(docs []*ir.Document) string {
	hashes := make([]string, 0, len(docs))
	for _, d := range docs {
		hashes = append(hashes, d.Meta.SourceFile+":"+fileDigest(d))
	}
	sort.Strings(hashes)
	h := sha256.New()
	for _, s := range hashes {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func fileDigest(d *ir.Document) string {
	h := sha256.New()
	for _, n := range d.Nodes {
		h.Write([]byte(n.ID))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// DocByFile returns the document for filePath, or nil.
func (s *Snapshot) DocByFile(filePath string) *ir.Document {
	for _, d := range s.Docs {
		if d.Meta.SourceFile == filePath {
			return d
		}
	}
	return nil
}
