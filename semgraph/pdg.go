package semgraph

// BuildPDGs constructs each function's program-dependence graph as the
// union of its CFG's control dependences and its DFG's def-use edges
// (spec.md §4.3). Control dependence is computed from postdominance: a
// block B is control-dependent on block A when A has a successor from
// which B is not postdominated but another successor from which it is —
// this requires a real branch (two distinct successors), which cfg.go's
// buildIfElse/buildLoop now emit for if/else and loop constructs; a
// function whose body never branches still has a one-successor-per-block
// CFG and so produces no PDGControl edges, which is correct, not a gap.
// The builder is written against the general postdominator definition, so
// it needed no changes when branch-aware CFG construction landed — it
// simply started finding qualifying blocks.
func BuildPDGs(cfgs map[string]*CFG, dfgs map[string]*DFG) map[string]*PDG {
	out := map[string]*PDG{}
	for fqn, cfg := range cfgs {
		pdg := &PDG{FunctionFQN: fqn}
		pdg.Edges = append(pdg.Edges, controlDependences(cfg)...)
		if dfg, ok := dfgs[fqn]; ok {
			for _, e := range dfg.Edges {
				pdg.Edges = append(pdg.Edges, PDGEdge{From: e.From, To: e.To, Kind: PDGData})
			}
		}
		out[fqn] = pdg
	}
	return out
}

func controlDependences(cfg *CFG) []PDGEdge {
	postdom := postdominators(cfg)
	var edges []PDGEdge
	for _, blk := range cfg.Blocks {
		succs := cfg.Successors(blk.ID)
		if len(succs) < 2 {
			continue // no branch, nothing can be control-dependent on this block
		}
		for _, s := range succs {
			for candidate := range cfg.Blocks {
				if candidate == blk.ID {
					continue
				}
				if !postdom[s][candidate] && postdomAny(postdom, succs, candidate) {
					edges = append(edges, PDGEdge{From: blk.ID, To: candidate, Kind: PDGControl})
				}
			}
		}
	}
	return edges
}

func postdomAny(postdom map[string]map[string]bool, succs []string, candidate string) bool {
	for _, s := range succs {
		if postdom[s][candidate] {
			return true
		}
	}
	return false
}

// postdominators computes, for each block, the set of blocks that
// postdominate it via simple iterative dataflow (sufficient for the
// block counts this engine handles; not Lengauer-Tarjan, which would
// only matter at a scale this layer doesn't operate at).
func postdominators(cfg *CFG) map[string]map[string]bool {
	all := map[string]bool{}
	for id := range cfg.Blocks {
		all[id] = true
	}
	postdom := map[string]map[string]bool{}
	for id := range cfg.Blocks {
		if id == cfg.ExitID {
			postdom[id] = map[string]bool{cfg.ExitID: true}
		} else {
			postdom[id] = cloneSet(all)
		}
	}
	changed := true
	for changed {
		changed = false
		for id := range cfg.Blocks {
			if id == cfg.ExitID {
				continue
			}
			succs := cfg.Successors(id)
			var intersection map[string]bool
			for _, s := range succs {
				if intersection == nil {
					intersection = cloneSet(postdom[s])
				} else {
					for k := range intersection {
						if !postdom[s][k] {
							delete(intersection, k)
						}
					}
				}
			}
			if intersection == nil {
				intersection = map[string]bool{}
			}
			intersection[id] = true
			if !setEqual(intersection, postdom[id]) {
				postdom[id] = intersection
				changed = true
			}
		}
	}
	return postdom
}

func cloneSet(s map[string]bool) map[string]bool {
	out := make(map[string]bool, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func setEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
