package query

import "time"

// Limits bounds a single PathQuery execution (spec.md §4.4 "safety").
// Construction-time validation rejects non-positive bounds rather than
// silently clamping them, matching the teacher's functional-options
// construction-time validation posture (analyzer/option.go).
type Limits struct {
	MaxPaths int
	MaxNodes int
	MaxDepth int
	Timeout  time.Duration
}

// DefaultLimits mirrors spec.md §4.4's "Paths are depth-bounded (default
// 10)" and a conservative path/node/timeout ceiling chosen for this
// engine (no single source of truth for these in the corpus; picked to
// be generous enough for real repos without letting a runaway query hang
// a query-serving goroutine indefinitely).
func DefaultLimits() Limits {
	return Limits{MaxPaths: 1000, MaxNodes: 100000, MaxDepth: 10, Timeout: 30 * time.Second}
}

func (l Limits) Validate() error {
	if l.MaxPaths <= 0 {
		return NewError(ErrInvalidLimits, "limit_paths must be positive", "limit_paths")
	}
	if l.MaxNodes <= 0 {
		return NewError(ErrInvalidLimits, "limit_nodes must be positive", "limit_nodes")
	}
	if l.MaxDepth <= 0 {
		return NewError(ErrInvalidLimits, "depth must be positive", "depth")
	}
	if l.Timeout <= 0 {
		return NewError(ErrInvalidLimits, "timeout must be positive", "timeout")
	}
	return nil
}
