package snapshot

import (
	"sort"
	"strings"

	"github.com/codegraphlabs/semcore/ir"
)

// ChangeKind classifies one changed file (spec.md §4.5 step 1).
type ChangeKind string

const (
	Added    ChangeKind = "added"
	Removed  ChangeKind = "removed"
	Modified ChangeKind = "modified"
)

// FileChange is one entry of the diff input driving an incremental
// rebuild.
type FileChange struct {
	FilePath string
	Kind     ChangeKind
	NewDoc   *ir.Document // nil for Removed
}

// Rename records a detected rename mapping between a removed and an
// added node in the same file (spec.md §4.5's rename-detection rule).
type Rename struct {
	FromNodeID string
	ToNodeID   string
	Similarity float64
}

// SymbolMapping is one entry of the three-tier stable-symbol mapping
// between parent and child snapshot (spec.md §4.5).
type SymbolMapping struct {
	ParentNodeID string
	ChildNodeID  string
	Confidence   float64 // 1.0 exact ID, 0.9 content-hash, 0.7 fqn+position
}

// Delta is the result of computing an incremental update.
type Delta struct {
	Changes        []FileChange
	DirtyNodeIDs   []string // nodes whose content hash changed
	ImpactSet      []string // transitive impact set, possibly sampled
	Sampled        bool
	Renames        []Rename
	SymbolMappings []SymbolMapping
	Unmapped       []string // parent node IDs with no mapping in the child
}

// RenameSimilarityThreshold is the name-similarity cutoff (nameSimilarity's
// token Jaccard) at or above which a deleted+added node pair of the same
// kind in the same file is recorded as a rename rather than an independent
// delete/add; node bodies and signatures are not compared. Diff always uses
// this constant (DESIGN.md Open Question
// decision #3: chosen conservatively high since no single teacher value
// exists to ground this on).
const RenameSimilarityThreshold = 0.82

// ImpactCeiling bounds the impact set before deterministic sampling
// kicks in (spec.md §4.5 step 4's "e.g. 10 000 nodes").
const ImpactCeiling = 10000

// Diff computes the child delta from a parent snapshot and a set of file
// changes, following spec.md §4.5's six-step algorithm (steps 5/6 —
// subgraph reuse and cache invalidation — are the caller's
// responsibility once this Delta is in hand; Diff itself is pure).
func Diff(parent *Snapshot, changes []FileChange) *Delta {
	delta := &Delta{Changes: changes}

	dirty := map[string]bool{}
	for _, ch := range changes {
		if ch.Kind == Modified && ch.NewDoc != nil {
			old := parent.DocByFile(ch.FilePath)
			for _, n := range dirtyNodes(old, ch.NewDoc) {
				dirty[n] = true
			}
		}
		if ch.Kind == Added && ch.NewDoc != nil {
			for _, n := range ch.NewDoc.Nodes {
				dirty[n.ID] = true
			}
		}
	}
	for id := range dirty {
		delta.DirtyNodeIDs = append(delta.DirtyNodeIDs, id)
	}
	sort.Strings(delta.DirtyNodeIDs)

	delta.Renames = detectRenames(parent, changes)

	// The parent graph only knows the parent-side IDs of changed nodes, so
	// those (nodes a modified or removed file drops) seed the impact set too.
	seeds := append([]string{}, delta.DirtyNodeIDs...)
	for _, ch := range changes {
		if old := parent.DocByFile(ch.FilePath); old != nil && ch.Kind != Added {
			seeds = append(seeds, dirtyNodes(ch.NewDoc, old)...)
		}
	}
	impact := computeImpactSet(parent, seeds)
	if len(impact) > ImpactCeiling {
		impact = sampleDeterministically(impact, ImpactCeiling)
		delta.Sampled = true
	}
	delta.ImpactSet = impact

	delta.SymbolMappings, delta.Unmapped = mapSymbols(parent, changes, delta.Renames)
	return delta
}

// dirtyNodes returns the IDs of new's nodes whose ID does not occur in
// old (all of new's nodes when old is nil). Only IDs are compared: ir.Node
// doesn't carry a persisted content hash of its own today, but stableid.ID
// already folds content_hash into the ID, so an ID change IS a content change.
func dirtyNodes(old, new *ir.Document) []string {
	if old == nil {
		var ids []string
		for _, n := range new.Nodes {
			ids = append(ids, n.ID)
		}
		return ids
	}
	oldIDs := map[string]bool{}
	for _, n := range old.Nodes {
		oldIDs[n.ID] = true
	}
	var dirty []string
	for _, n := range new.Nodes {
		if !oldIDs[n.ID] {
			dirty = append(dirty, n.ID) // new or content-changed (stable ID is content-derived)
		}
	}
	return dirty
}

// detectRenames pairs each modified file's removed and added nodes
// (those in old-not-new and new-not-old by ID) and flags a rename when
// names are similar enough and kinds match.
func detectRenames(parent *Snapshot, changes []FileChange) []Rename {
	var renames []Rename
	for _, ch := range changes {
		if ch.Kind != Modified || ch.NewDoc == nil {
			continue
		}
		old := parent.DocByFile(ch.FilePath)
		if old == nil {
			continue
		}
		oldByID := map[string]*ir.Node{}
		for _, n := range old.Nodes {
			oldByID[n.ID] = n
		}
		newByID := map[string]*ir.Node{}
		for _, n := range ch.NewDoc.Nodes {
			newByID[n.ID] = n
		}
		var removed, added []*ir.Node
		for id, n := range oldByID {
			if _, ok := newByID[id]; !ok {
				removed = append(removed, n)
			}
		}
		for id, n := range newByID {
			if _, ok := oldByID[id]; !ok {
				added = append(added, n)
			}
		}
		for _, r := range removed {
			best, bestSim := bestMatch(r, added)
			if best != nil && bestSim >= RenameSimilarityThreshold {
				renames = append(renames, Rename{FromNodeID: r.ID, ToNodeID: best.ID, Similarity: bestSim})
			}
		}
	}
	sort.Slice(renames, func(i, j int) bool { return renames[i].FromNodeID < renames[j].FromNodeID })
	return renames
}

func bestMatch(r *ir.Node, candidates []*ir.Node) (*ir.Node, float64) {
	var best *ir.Node
	var bestSim float64
	for _, c := range candidates {
		if c.Kind != r.Kind {
			continue
		}
		sim := nameSimilarity(r.Name, c.Name)
		if sim > bestSim {
			best, bestSim = c, sim
		}
	}
	return best, bestSim
}

// nameSimilarity is a token-Jaccard similarity over camelCase/snake_case
// splits — cheap, deterministic, and enough to separate "renamed" from
// "unrelated" without a real diff algorithm.
func nameSimilarity(a, b string) float64 {
	ta, tb := tokenize(a), tokenize(b)
	if len(ta) == 0 && len(tb) == 0 {
		if a == b {
			return 1
		}
		return 0
	}
	setA := map[string]bool{}
	for _, t := range ta {
		setA[t] = true
	}
	setB := map[string]bool{}
	for _, t := range tb {
		setB[t] = true
	}
	inter := 0
	for t := range setA {
		if setB[t] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func tokenize(name string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '-' || r == '.':
			flush()
		case r >= 'A' && r <= 'Z' && i > 0:
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// computeImpactSet implements spec.md §4.5 step 3: callers of changed
// methods, DFG reverse-reachable nodes, and any symbol whose FQN
// changed. It operates over the parent snapshot's graph since the
// impact set describes what in the PARENT must be invalidated/rebuilt.
func computeImpactSet(parent *Snapshot, dirty []string) []string {
	if parent.Graph == nil {
		return dirty
	}
	impact := map[string]bool{}
	for _, id := range dirty {
		impact[id] = true
	}
	queue := append([]string{}, dirty...)
	add := func(id string) {
		if !impact[id] {
			impact[id] = true
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n := parent.Graph.Index.Node(id)
		if n == nil {
			continue
		}
		for _, callerID := range parent.Graph.Index.Reverse(ir.Calls, id) {
			add(callerID)
		}
		if dfg, ok := parent.Graph.DFGs[n.FQN]; ok {
			for _, e := range dfg.Edges {
				if e.From == id {
					add(e.To)
				}
			}
		}
	}
	out := make([]string, 0, len(impact))
	for id := range impact {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// sampleDeterministically keeps a fixed-size prefix of the impact set
// sorted by stable ID (spec.md §4.5 step 4). Which nodes survive depends
// only on their IDs: dirty, newly added or high-in-degree nodes get no
// priority. The result is stable across runs of the same diff since it's
// pure sorting over stable IDs — no RNG is involved.
func sampleDeterministically(impact []string, ceiling int) []string {
	if len(impact) <= ceiling {
		return impact
	}
	sorted := append([]string{}, impact...)
	sort.Strings(sorted)
	return sorted[:ceiling]
}

// mapSymbols implements spec.md §4.5's three-tier stable-symbol mapping.
func mapSymbols(parent *Snapshot, changes []FileChange, renames []Rename) ([]SymbolMapping, []string) {
	renameTo := map[string]string{}
	for _, r := range renames {
		renameTo[r.FromNodeID] = r.ToNodeID
	}
	newByID := map[string]*ir.Node{}
	newByFQNPos := map[string]*ir.Node{}
	for _, ch := range changes {
		if ch.NewDoc == nil {
			continue
		}
		for _, n := range ch.NewDoc.Nodes {
			newByID[n.ID] = n
			newByFQNPos[n.FQN+"@"+posKey(n)] = n
		}
	}

	var mappings []SymbolMapping
	var unmapped []string
	for _, doc := range parent.Docs {
		for _, n := range doc.Nodes {
			if target, ok := newByID[n.ID]; ok {
				mappings = append(mappings, SymbolMapping{ParentNodeID: n.ID, ChildNodeID: target.ID, Confidence: 1.0})
				continue
			}
			if target, ok := renameTo[n.ID]; ok {
				mappings = append(mappings, SymbolMapping{ParentNodeID: n.ID, ChildNodeID: target, Confidence: 0.9})
				continue
			}
			if target, ok := newByFQNPos[n.FQN+"@"+posKey(n)]; ok {
				mappings = append(mappings, SymbolMapping{ParentNodeID: n.ID, ChildNodeID: target.ID, Confidence: 0.7})
				continue
			}
			unmapped = append(unmapped, n.ID)
		}
	}
	sort.Strings(unmapped)
	return mappings, unmapped
}

func posKey(n *ir.Node) string {
	return n.Location.FilePath + ":" + itoa(n.Location.StartLine)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
