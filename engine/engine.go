package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/codegraphlabs/semcore/acquire"
	"github.com/codegraphlabs/semcore/ir"
	"github.com/codegraphlabs/semcore/lower"
	"github.com/codegraphlabs/semcore/parse"
	"github.com/codegraphlabs/semcore/query"
	"github.com/codegraphlabs/semcore/snapshot"
)

// EngineVersion is embedded in every result envelope's identity triple
// per spec.md §6 Serialization ("every external output carries
// (engine_version, snapshot_hash, query_hash)").
const EngineVersion = "semcore/0.1.0"

// Engine is the single programmatic surface spec.md §6 describes.
// Transport (HTTP, MCP, CLI) is a collaborator that calls these three
// methods; none of them exist in this package.
type Engine struct {
	cfg    Config
	disco  *acquire.Discoverer
	store  *snapshot.Store
	cache  *snapshot.Cache
	byID   map[string]*snapshot.Snapshot
	logger *zap.Logger
}

func New(cfg Config, storeBase string) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:    cfg,
		disco:  acquire.NewDiscoverer(acquire.Limits{MaxFileBytes: cfg.MaxFileBytes}),
		store:  snapshot.NewStore(storeBase),
		cache:  snapshot.NewCache(),
		byID:   map[string]*snapshot.Snapshot{},
		logger: logger,
	}
}

// BuildRequest is spec.md §6's build input: (repo_id, snapshot_id,
// parent_snapshot_id?, file_set, language_hints?).
type BuildRequest struct {
	RepoID           string
	SnapshotID       string
	ParentSnapshotID string
	RepoPath         string
	// FileSet optionally restricts acquisition to these paths (an
	// incremental build driven by a VCS diff); empty means "discover
	// everything under RepoPath", matching a full build.
	FileSet []string
}

// BuildResult is spec.md §6's Snapshot handle: counts plus a
// content-addressable identifier, alongside whatever Diagnostics the
// pipeline accumulated.
type BuildResult struct {
	EngineVersion string
	SnapshotID    string
	SnapshotHash  string
	Files         int
	Nodes         int
	Edges         int
	UnifiedSyms   int
	Diagnostics   []*ir.Diagnostic
}

// Build runs acquisition, parsing, lowering, and cross-language bridging
// for every discovered file, in parallel at the file level (spec.md §5:
// "parallel threads at the file level for parsing and IR construction"),
// then assembles the semantic graph and registers the resulting
// Snapshot. Grounded on the teacher's acquire.Discoverer walk, generalized
// from a single-threaded loop to an errgroup-bounded worker pool the way
// the rest of the retrieval pack (codenerd, inos_v1) fans out file-level
// work (SPEC_FULL.md §11 domain-stack wiring for golang.org/x/sync).
func (e *Engine) Build(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	e.logger.Info("build started", zap.String("repoID", req.RepoID), zap.String("snapshotID", req.SnapshotID))

	files, err := e.disco.Discover(ctx, req.RepoID, req.SnapshotID, req.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", req.RepoPath, err)
	}
	if len(req.FileSet) > 0 {
		files = filterFileSet(files, req.FileSet)
	}

	resolver := &lower.ImportResolver{
		ModulePath:    req.RepoID,
		KnownExternal: lower.DefaultKnownExternal(),
	}

	docs := make([]*ir.Document, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.MaxConcurrentFiles)
	for i, sf := range files {
		i, sf := i, sf
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			docs[i] = e.lowerOne(sf, resolver)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build %s: %w", req.SnapshotID, err)
	}

	nonNil := make([]*ir.Document, 0, len(docs))
	for _, d := range docs {
		if d != nil {
			nonNil = append(nonNil, d)
		}
	}

	bridge := lower.NewCrossLangPass(e.cfg.BridgePolicy)
	bridge.Run(nonNil)

	snap := snapshot.New(req.RepoID, nonNil, time.Now().UTC())
	snap.ID = req.SnapshotID
	snap.ParentID = req.ParentSnapshotID
	e.byID[snap.ID] = snap

	result := &BuildResult{
		EngineVersion: EngineVersion,
		SnapshotID:    snap.ID,
		SnapshotHash:  snap.GlobalHash,
		Files:         len(nonNil),
	}
	for _, d := range nonNil {
		result.Nodes += len(d.Nodes)
		result.Edges += len(d.Edges)
		result.UnifiedSyms += len(d.UnifiedSymbols)
		result.Diagnostics = append(result.Diagnostics, d.Diagnostics...)
	}
	e.logger.Info("build finished",
		zap.String("snapshotID", snap.ID),
		zap.Int("files", result.Files),
		zap.Int("nodes", result.Nodes),
		zap.Int("diagnostics", len(result.Diagnostics)),
	)
	return result, nil
}

func filterFileSet(files []*acquire.SourceFile, keep []string) []*acquire.SourceFile {
	want := map[string]bool{}
	for _, f := range keep {
		want[f] = true
	}
	out := files[:0]
	for _, f := range files {
		if want[f.FilePath] {
			out = append(out, f)
		}
	}
	return out
}

func (e *Engine) lowerOne(sf *acquire.SourceFile, resolver *lower.ImportResolver) *ir.Document {
	if sf.Skipped {
		doc := ir.NewDocument(string(sf.Language), sf.FilePath)
		doc.Diagnostics = append(doc.Diagnostics, &ir.Diagnostic{
			Kind:     ir.DiagSkipped,
			Message:  sf.SkipReason,
			Location: ir.Location{FilePath: sf.FilePath},
		})
		return doc
	}
	cst, err := parse.Parse(sf.FilePath, sf.Language, sf.Bytes)
	if err != nil {
		doc := ir.NewDocument(string(sf.Language), sf.FilePath)
		doc.Diagnostics = append(doc.Diagnostics, &ir.Diagnostic{
			Kind:     ir.DiagParseError,
			Message:  err.Error(),
			Location: ir.Location{FilePath: sf.FilePath},
		})
		return doc
	}
	switch sf.Language {
	case parse.Go:
		root, _ := cst.Root.(*parse.GoRoot)
		return lower.LowerGo(sf, root, resolver)
	case parse.Java:
		return lower.LowerJava(sf, cst, resolver)
	case parse.JSX, parse.JavaScript:
		return lower.LowerJSX(sf, cst, resolver)
	default:
		doc := ir.NewDocument(string(sf.Language), sf.FilePath)
		doc.Diagnostics = append(doc.Diagnostics, &ir.Diagnostic{
			Kind:     ir.DiagSkipped,
			Message:  "no lowerer for detected language",
			Location: ir.Location{FilePath: sf.FilePath},
		})
		return doc
	}
}

// QueryRequest is spec.md §6's query input: (snapshot_id, query_plan,
// limits). query_plan arrives pre-built here as a *query.PathQuery —
// the YAML/JSON wire decoding of a serialized plan is a transport
// collaborator's job, not the core's (spec.md §6: "transport ... is a
// collaborator").
type QueryRequest struct {
	SnapshotID string
	Plan       *query.PathQuery
	Universal  bool // true runs AllPaths instead of AnyPath
}

// QueryResult carries the identity triple plus whichever of PathSet or
// VerificationResult the request asked for.
type QueryResult struct {
	EngineVersion string
	SnapshotHash  string
	QueryHash     string
	Paths         *query.PathSet
	Verification  *query.VerificationResult
}

// Query executes a PathQuery against an already-built Snapshot,
// consulting the query cache first (spec.md §4.5 step 6: results cached
// by (snapshot_global_hash, query_shape)).
func (e *Engine) Query(ctx context.Context, req QueryRequest) (*QueryResult, error) {
	snap, ok := e.byID[req.SnapshotID]
	if !ok {
		return nil, fmt.Errorf("query: unknown snapshot %q", req.SnapshotID)
	}
	shape := queryShape(req.Plan, req.Universal)
	if cached, ok := e.cache.Get(snap.GlobalHash, shape); ok {
		if qr, ok := cached.(*QueryResult); ok {
			return qr, nil
		}
	}

	ex := query.NewExecutor(snap.Graph)
	result := &QueryResult{EngineVersion: EngineVersion, SnapshotHash: snap.GlobalHash, QueryHash: shape}
	if req.Universal {
		vr, err := ex.AllPaths(req.Plan)
		if err != nil {
			return nil, err
		}
		result.Verification = vr
	} else {
		ps, err := ex.AnyPath(req.Plan)
		if err != nil {
			return nil, err
		}
		result.Paths = ps
	}
	e.cache.Put(snap.GlobalHash, shape, result)
	return result, nil
}

// queryShape derives a stable cache key from a PathQuery's shape
// (selectors, edge classes, limits) — not its result — so structurally
// identical queries against the same snapshot share a cache entry.
func queryShape(q *query.PathQuery, universal bool) string {
	h := sha256.New()
	fmt.Fprintf(h, "universal=%v from=%s to=%s edge=%v minDepth=%d maxDepth=%d alias=%v ctxK=%d limits=%+v",
		universal, selectorKey(q.Flow.From), selectorKey(q.Flow.To), q.Flow.Edge, q.Flow.MinDepth, q.Flow.MaxDepth,
		q.AliasMode, q.ContextK, q.Limits)
	return hex.EncodeToString(h.Sum(nil))
}

func selectorKey(s *query.NodeSelector) string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf("%s|%s|%s", s.Kind, s.NamePat, s.FQN)
}

// DiffRequest is spec.md §6's diff input: (parent_snapshot_id,
// child_snapshot_id), returning an impact summary.
type DiffRequest struct {
	ParentSnapshotID string
	ChildSnapshotID  string
	Changes          []snapshot.FileChange
}

// DiffResult surfaces snapshot.Delta alongside the identity triple the
// rest of the surface carries.
type DiffResult struct {
	EngineVersion string
	ParentHash    string
	ChildHash     string
	Delta         *snapshot.Delta
}

// Diff computes the incremental impact summary between two registered
// snapshots.
func (e *Engine) Diff(ctx context.Context, req DiffRequest) (*DiffResult, error) {
	parent, ok := e.byID[req.ParentSnapshotID]
	if !ok {
		return nil, fmt.Errorf("diff: unknown parent snapshot %q", req.ParentSnapshotID)
	}
	child, ok := e.byID[req.ChildSnapshotID]
	if !ok {
		return nil, fmt.Errorf("diff: unknown child snapshot %q", req.ChildSnapshotID)
	}
	delta := snapshot.Diff(parent, req.Changes)
	e.cache.Invalidate(parent.GlobalHash)
	return &DiffResult{
		EngineVersion: EngineVersion,
		ParentHash:    parent.GlobalHash,
		ChildHash:     child.GlobalHash,
		Delta:         delta,
	}, nil
}

// Persist saves a registered snapshot through the engine's Store.
func (e *Engine) Persist(ctx context.Context, snapshotID string) error {
	snap, ok := e.byID[snapshotID]
	if !ok {
		return fmt.Errorf("persist: unknown snapshot %q", snapshotID)
	}
	return e.store.Save(ctx, snap)
}

// Load restores a snapshot from the engine's Store and registers it.
func (e *Engine) Load(ctx context.Context, snapshotID string) (*snapshot.Snapshot, error) {
	snap, err := e.store.Load(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	e.byID[snap.ID] = snap
	return snap, nil
}
