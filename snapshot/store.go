package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	"github.com/codegraphlabs/semcore/ir"
)

// manifest is the human-readable index persisted alongside the per-file
// IR JSON documents, matching the teacher's convention (inspector/info) of
// keeping one inspectable summary document per stored unit. yaml.v3 is
// used here rather than JSON specifically so the manifest stays
// hand-readable on disk (spec.md doesn't require a wire format for it,
// only that a snapshot be re-loadable).
type manifest struct {
	ID         string   `yaml:"id"`
	ParentID   string   `yaml:"parentId,omitempty"`
	RepoID     string   `yaml:"repoId"`
	GlobalHash string   `yaml:"globalHash"`
	CreatedAt  string   `yaml:"createdAt"`
	Files      []string `yaml:"files"`
}

// Store persists and loads Snapshots through afs, following the
// teacher's fs-as-a-field pattern (acquire.Discoverer, analyzer.Analyzer).
// Directory layout under Base:
//
//	<base>/<snapshotID>/meta.yaml
//	<base>/<snapshotID>/ir/<file-hash>.json
type Store struct {
	fs   afs.Service
	Base string
}

func NewStore(base string) *Store {
	return &Store{fs: afs.New(), Base: base}
}

// Save writes a Snapshot's manifest and per-file IR documents. The
// semantic graph is never persisted: it is cheap to rebuild via
// semgraph.Build on Load and keeping it out of storage avoids a second
// serialization format for CFG/DFG/PDG/CallGraph.
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	dir := url.Join(s.Base, snap.ID)
	m := manifest{
		ID:         snap.ID,
		ParentID:   snap.ParentID,
		RepoID:     snap.RepoID,
		GlobalHash: snap.GlobalHash,
		CreatedAt:  snap.CreatedAt.Format(time.RFC3339),
	}
	for _, doc := range snap.Docs {
		name := fileDigest(doc) + ".json"
		m.Files = append(m.Files, name)
		payload, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal ir document %s: %w", doc.Meta.SourceFile, err)
		}
		irURL := url.Join(dir, "ir", name)
		if err := s.fs.Upload(ctx, irURL, os.FileMode(0644), bytes.NewReader(payload)); err != nil {
			return fmt.Errorf("upload ir document %s: %w", doc.Meta.SourceFile, err)
		}
	}
	sort.Strings(m.Files)
	manifestBytes, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	manifestURL := url.Join(dir, "meta.yaml")
	return s.fs.Upload(ctx, manifestURL, os.FileMode(0644), bytes.NewReader(manifestBytes))
}

// Load reconstructs a Snapshot from disk, re-deriving its semantic graph
// via semgraph.Build rather than persisting one (see Save).
func (s *Store) Load(ctx context.Context, snapshotID string) (*Snapshot, error) {
	dir := url.Join(s.Base, snapshotID)
	manifestURL := url.Join(dir, "meta.yaml")
	raw, err := s.fs.DownloadWithURL(ctx, manifestURL)
	if err != nil {
		return nil, fmt.Errorf("download manifest for %s: %w", snapshotID, err)
	}
	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest for %s: %w", snapshotID, err)
	}
	docs := make([]*ir.Document, 0, len(m.Files))
	for _, name := range m.Files {
		irURL := url.Join(dir, "ir", name)
		body, err := s.fs.DownloadWithURL(ctx, irURL)
		if err != nil {
			return nil, fmt.Errorf("download ir document %s: %w", name, err)
		}
		doc := &ir.Document{}
		if err := json.Unmarshal(body, doc); err != nil {
			return nil, fmt.Errorf("unmarshal ir document %s: %w", name, err)
		}
		docs = append(docs, doc)
	}
	createdAt, err := time.Parse(time.RFC3339, m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse createdAt for %s: %w", snapshotID, err)
	}
	snap := New(m.RepoID, docs, createdAt)
	snap.ID = m.ID
	snap.ParentID = m.ParentID
	snap.GlobalHash = m.GlobalHash
	return snap, nil
}
