package semgraph

import "github.com/codegraphlabs/semcore/ir"

// UnifiedIndex implements spec.md §4.3's unified index: hash maps from
// (kind, name) and fqn to node IDs, plus a reverse adjacency index per
// edge kind. Built once per Graph and never mutated afterward.
type UnifiedIndex struct {
	byKindName map[string][]string // "<kind>|<name>" -> node IDs
	byFQN      map[string]string   // fqn -> node ID
	nodeByID   map[string]*ir.Node
	docByNode  map[string]*ir.Document

	// forward[kind][fromID] -> toIDs; reverse[kind][toID] -> fromIDs
	forward map[ir.EdgeKind]map[string][]string
	reverse map[ir.EdgeKind]map[string][]string
}

func BuildUnifiedIndex(docs []*ir.Document) *UnifiedIndex {
	idx := &UnifiedIndex{
		byKindName: map[string][]string{},
		byFQN:      map[string]string{},
		nodeByID:   map[string]*ir.Node{},
		docByNode:  map[string]*ir.Document{},
		forward:    map[ir.EdgeKind]map[string][]string{},
		reverse:    map[ir.EdgeKind]map[string][]string{},
	}
	for _, doc := range docs {
		for _, n := range doc.Nodes {
			idx.nodeByID[n.ID] = n
			idx.docByNode[n.ID] = doc
			key := string(n.Kind) + "|" + n.Name
			idx.byKindName[key] = append(idx.byKindName[key], n.ID)
			if n.Kind.IsNameable() && n.FQN != "" {
				idx.byFQN[n.FQN] = n.ID
			}
		}
		for _, e := range doc.Edges {
			if idx.forward[e.Kind] == nil {
				idx.forward[e.Kind] = map[string][]string{}
			}
			if idx.reverse[e.Kind] == nil {
				idx.reverse[e.Kind] = map[string][]string{}
			}
			idx.forward[e.Kind][e.FromID] = append(idx.forward[e.Kind][e.FromID], e.ToID)
			idx.reverse[e.Kind][e.ToID] = append(idx.reverse[e.Kind][e.ToID], e.FromID)
		}
	}
	return idx
}

func (idx *UnifiedIndex) NodesByKindName(kind ir.NodeKind, name string) []string {
	return idx.byKindName[string(kind)+"|"+name]
}

func (idx *UnifiedIndex) NodeByFQN(fqn string) (string, bool) {
	id, ok := idx.byFQN[fqn]
	return id, ok
}

func (idx *UnifiedIndex) Node(id string) *ir.Node {
	return idx.nodeByID[id]
}

func (idx *UnifiedIndex) DocumentOf(nodeID string) *ir.Document {
	return idx.docByNode[nodeID]
}

// Forward returns the nodes reachable by a single edge of kind from id.
func (idx *UnifiedIndex) Forward(kind ir.EdgeKind, id string) []string {
	return idx.forward[kind][id]
}

// Reverse returns the nodes with a single edge of kind into id.
func (idx *UnifiedIndex) Reverse(kind ir.EdgeKind, id string) []string {
	return idx.reverse[kind][id]
}

// AllNodeIDs returns every indexed node ID (used by snapshot-level
// iteration, e.g. the impact-set computation).
func (idx *UnifiedIndex) AllNodeIDs() []string {
	out := make([]string, 0, len(idx.nodeByID))
	for id := range idx.nodeByID {
		out = append(out, id)
	}
	return out
}

// EnclosingFunctionFQN walks Contains edges backward from id until it
// reaches a Function/Method node, returning that node's FQN. A Call or
// Variable node's own FQN is never a key into Graph.DFGs/Graph.CFGs —
// those maps are keyed by the owning function — so any traversal step
// that needs "the DFG/CFG this node lives in" must resolve through this,
// not through idx.Node(id).FQN directly.
func (idx *UnifiedIndex) EnclosingFunctionFQN(id string) (string, bool) {
	seen := map[string]bool{}
	cur := id
	for {
		if n := idx.nodeByID[cur]; n != nil && (n.Kind == ir.Function || n.Kind == ir.Method) {
			return n.FQN, true
		}
		if seen[cur] {
			return "", false
		}
		seen[cur] = true
		parents := idx.reverse[ir.Contains][cur]
		if len(parents) == 0 {
			return "", false
		}
		cur = parents[0]
	}
}
