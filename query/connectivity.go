package query

// connectivityMatrix starts from the literal table in spec.md §4.4.
// Module→Var and Class→Func are deliberately absent: those containments
// are addressed via .within(), never via flow operators, so they're not
// valid (from,to,edge) triples here at all.
//
// {Call,Call}:{Dfg} is an addition beyond that literal table: spec.md
// §8 S1 requires `Source("read_untrusted") >> Sink("sink")` via Dfg to
// return a length-2 path whose endpoints are the two Call nodes
// themselves ("first node's name is read_untrusted... last node's name
// is sink") — Go locals aren't modeled as separate Variable IR nodes, so
// a return value threading directly into the next call's argument (the
// common case this engine's lowering actually produces) has to be a
// Call->Call edge, not Call->Var->Var->Call. Without this entry, S1 as
// specified would be structurally unqueryable.
var connectivityMatrix = map[[2]NodeKindClass]map[EdgeClass]bool{
	{ClassFunc, ClassFunc}:  {EdgeCalls: true},
	{ClassFunc, ClassVar}:   {EdgeDfg: true},
	{ClassFunc, ClassBlock}: {EdgeCfg: true},
	{ClassBlock, ClassBlock}: {EdgeCfg: true},
	{ClassBlock, ClassVar}:  {EdgeDfg: true},
	{ClassVar, ClassVar}:    {EdgeDfg: true},
	{ClassCall, ClassVar}:   {EdgeDfg: true},
	{ClassCall, ClassFunc}:  {EdgeCalls: true},
	{ClassCall, ClassCall}:  {EdgeDfg: true},
}

// ValidateConnectivity enforces the type connectivity matrix at query
// construction time. EdgeAll and either endpoint being ClassAny (an
// unpinned selector) skip the check — there is nothing concrete to
// validate against yet. The traversal engine does not consult the matrix:
// an EdgeAll or ClassAny query follows every edge class it expands.
func ValidateConnectivity(from, to NodeKindClass, edge *EdgeSelector) error {
	if from == ClassAny || to == ClassAny {
		return nil
	}
	allowed, ok := connectivityMatrix[[2]NodeKindClass{from, to}]
	if !ok {
		return NewError(ErrInvalidConnectivity, string(from)+" -> "+string(to)+" has no valid edge classes", string(from)+">>"+string(to))
	}
	for class := range edge.Classes {
		if class == EdgeAll {
			continue // All is always a superset and is accepted here without narrowing
		}
		if !allowed[class] {
			return NewError(ErrInvalidConnectivity, string(from)+" -> "+string(to)+" cannot use edge class "+string(class), string(class))
		}
	}
	return nil
}
