package ir

import "fmt"

// Import is a single parsed import statement (spec.md §4.2 Import
// resolution).
type Import struct {
	ModulePath     string  `json:"modulePath" yaml:"modulePath"`
	ImportedNames  []string `json:"importedNames,omitempty" yaml:"importedNames,omitempty"`
	Aliases        map[string]string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	IsWildcard     bool    `json:"isWildcard" yaml:"isWildcard"`
	IsExternal     bool    `json:"isExternal" yaml:"isExternal"`
	Confidence     float64 `json:"confidence" yaml:"confidence"`
	ResolvedTarget string  `json:"resolvedTarget,omitempty" yaml:"resolvedTarget,omitempty"`
	Location       Location `json:"location" yaml:"location"`
}

// Meta carries the per-document build provenance described in spec.md
// §3 (IRDocument.meta).
type Meta struct {
	Language      string `json:"language" yaml:"language"`
	SourceFile    string `json:"sourceFile" yaml:"sourceFile"`
	BuildTimeUnix int64  `json:"buildTimeUnix" yaml:"buildTimeUnix"`
	ParserVersion string `json:"parserVersion" yaml:"parserVersion"`
}

// Document is the per-file, language-neutral IR artifact (spec.md §3
// IRDocument).
type Document struct {
	Nodes         []*Node          `json:"nodes" yaml:"nodes"`
	Edges         []*Edge          `json:"edges" yaml:"edges"`
	Expressions   []*Expression    `json:"expressions" yaml:"expressions"`
	Imports       []*Import        `json:"imports" yaml:"imports"`
	UnifiedSymbols []*UnifiedSymbol `json:"unifiedSymbols" yaml:"unifiedSymbols"`
	Diagnostics   []*Diagnostic    `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Meta          Meta             `json:"meta" yaml:"meta"`

	nodeByID map[string]*Node
	fqnSeen  map[string]string // fqn -> node id, for uniqueness checking
}

// NewDocument returns an empty, ready-to-populate Document for filePath.
func NewDocument(language, filePath string) *Document {
	return &Document{
		Meta:     Meta{Language: language, SourceFile: filePath},
		nodeByID: map[string]*Node{},
		fqnSeen:  map[string]string{},
	}
}

// AddNode appends a node, enforcing FQN uniqueness for nameable kinds
// (invariant 2, spec.md §8) by recording a DiagLoweringDefect diagnostic
// on a collision; the node is still appended with its FQN unchanged. The
// lowerer is expected to have already produced a disambiguated FQN for
// legitimate overloads; a true collision here indicates a lowering defect.
func (d *Document) AddNode(n *Node) {
	if d.nodeByID == nil {
		d.nodeByID = map[string]*Node{}
	}
	if d.fqnSeen == nil {
		d.fqnSeen = map[string]string{}
	}
	if n.Kind.IsNameable() && n.FQN != "" {
		if existing, ok := d.fqnSeen[n.FQN]; ok && existing != n.ID {
			d.Diagnostics = append(d.Diagnostics, &Diagnostic{
				Kind:    DiagLoweringDefect,
				Message: fmt.Sprintf("duplicate fqn %q for node %s (already used by %s)", n.FQN, n.ID, existing),
			})
		} else {
			d.fqnSeen[n.FQN] = n.ID
		}
	}
	d.Nodes = append(d.Nodes, n)
	d.nodeByID[n.ID] = n
}

// AddEdge appends an edge after verifying both endpoints resolve to nodes
// already present in the document (invariant 1, spec.md §8). A dangling
// endpoint becomes a lowering defect rather than a silently invalid edge.
func (d *Document) AddEdge(e *Edge) {
	if _, ok := d.nodeByID[e.FromID]; !ok {
		d.Diagnostics = append(d.Diagnostics, &Diagnostic{Kind: DiagLoweringDefect, Message: fmt.Sprintf("edge %s->%s: unknown source node", e.FromID, e.ToID)})
		return
	}
	if _, ok := d.nodeByID[e.ToID]; !ok {
		d.Diagnostics = append(d.Diagnostics, &Diagnostic{Kind: DiagLoweringDefect, Message: fmt.Sprintf("edge %s->%s: unknown target node", e.FromID, e.ToID)})
		return
	}
	d.Edges = append(d.Edges, e)
}

// NodeByID looks up a node by its stable ID.
func (d *Document) NodeByID(id string) *Node {
	return d.nodeByID[id]
}

// Validate checks the two structural invariants spec.md §8 requires of
// any IRDocument. Used by tests and by the snapshot builder before a
// document is folded into a Snapshot.
func (d *Document) Validate() []error {
	var errs []error
	seen := map[string]bool{}
	for _, n := range d.Nodes {
		seen[n.ID] = true
	}
	for _, e := range d.Edges {
		if !seen[e.FromID] {
			errs = append(errs, fmt.Errorf("edge references unknown from-node %q", e.FromID))
		}
		if !seen[e.ToID] {
			errs = append(errs, fmt.Errorf("edge references unknown to-node %q", e.ToID))
		}
	}
	fqns := map[string]string{}
	for _, n := range d.Nodes {
		if !n.Kind.IsNameable() || n.FQN == "" {
			continue
		}
		if existing, ok := fqns[n.FQN]; ok && existing != n.ID {
			errs = append(errs, fmt.Errorf("fqn %q used by both %q and %q", n.FQN, existing, n.ID))
			continue
		}
		fqns[n.FQN] = n.ID
	}
	return errs
}
